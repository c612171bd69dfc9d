package models

import "time"

type Announcement struct {
	Base        `bson:",inline"`
	Title       string    `bson:"title" json:"title" validate:"required,max=150"`
	Message     string    `bson:"message" json:"message" validate:"required,max=1000"`
	AnnouncedAt time.Time `bson:"announced_at" json:"announced_at"`
	AnnouncedBy string    `bson:"announcement_by" json:"announcement_by"`
	Status      Status    `bson:"status" json:"status"`
}

// NewsletterSubscriber is a signup from the public newsletter form.
type NewsletterSubscriber struct {
	Base       `bson:",inline"`
	Name       string    `bson:"name" json:"name" validate:"required,max=120"`
	Email      string    `bson:"email" json:"email" validate:"required,email"`
	Mobile     string    `bson:"mobile" json:"mobile" validate:"omitempty,mobile"`
	JoinedAt   time.Time `bson:"joined_at" json:"joined_at"`
	Subscribed bool      `bson:"subscribed" json:"subscribed"`
	Status     Status    `bson:"status" json:"status"`
}
