package models

// BlogPost represents a complete blog post with metadata
type BlogPost struct {
	Base      `bson:",inline"`
	Product   Product   `bson:"product" json:"product" validate:"required,oneof=portfolio vikin graphyl"`
	Title     string    `bson:"title" json:"title" validate:"required,max=200"`
	Summary   string    `bson:"summary" json:"summary" validate:"required,max=250"`
	Content   string    `bson:"content" json:"content" validate:"required"`
	Thumbnail Thumbnail `bson:"thumbnail" json:"thumbnail"`
	Tags      []string  `bson:"tags" json:"tags" validate:"dive,required"`
	Published bool      `bson:"published" json:"published"`
	Feature   bool      `bson:"feature" json:"feature"`
	Status    Status    `bson:"status" json:"status"`
	Audit     `bson:",inline"`
}
