package models

import "time"

// Project represents a complete project with metadata
type Project struct {
	Base        `bson:",inline"`
	Name        string    `bson:"name" json:"name" validate:"required,max=120"`
	Description string    `bson:"description" json:"description" validate:"required"`
	Thumbnail   Thumbnail `bson:"thumbnail" json:"thumbnail"`
	Duration    DateRange `bson:"duration" json:"duration"`
	Tech        []string  `bson:"tech" json:"tech" validate:"dive,required"`
	URL         string    `bson:"url" json:"url" validate:"omitempty,weburl"`
	Images      []string  `bson:"images" json:"images" validate:"dive,imageurl"`
	Status      Status    `bson:"status" json:"status"`
	Audit       `bson:",inline"`
}

// DateRange is a start date with an optional end.
type DateRange struct {
	Start time.Time  `bson:"start" json:"start" validate:"required"`
	End   *time.Time `bson:"end,omitempty" json:"end,omitempty"`
}
