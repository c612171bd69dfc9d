package models

import "time"

// Contact is a message left through a product's public contact form.
type Contact struct {
	Base      `bson:",inline"`
	Product   Product   `bson:"product" json:"product"`
	Name      string    `bson:"name" json:"name" validate:"required,max=120"`
	Email     string    `bson:"email" json:"email" validate:"required,email"`
	Mobile    string    `bson:"mobile" json:"mobile" validate:"omitempty,mobile"`
	Subject   string    `bson:"subject" json:"subject" validate:"required,max=200"`
	Query     string    `bson:"query" json:"query" validate:"required,max=2000"`
	IsRead    bool      `bson:"isRead" json:"isRead"`
	Timestamp time.Time `bson:"timestamp" json:"timestamp"`
}
