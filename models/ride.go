package models

import "time"

// Ride is a group ride hosted on Vikin.
type Ride struct {
	Base              `bson:",inline"`
	Title             string       `bson:"title" json:"title" validate:"required,max=150"`
	Description       string       `bson:"description" json:"description" validate:"required"`
	StartDate         time.Time    `bson:"start_date" json:"start_date" validate:"required"`
	Route             string       `bson:"route" json:"route" validate:"required,weburl"`
	Thumbnail         string       `bson:"thumbnail" json:"thumbnail" validate:"required,imageurl"`
	AverageKilometers float64      `bson:"average_kilometers" json:"average_kilometers" validate:"gt=0"`
	IsPublished       bool         `bson:"is_published" json:"is_published"`
	UsersJoined       []JoinedUser `bson:"users_joined" json:"users_joined"`
	Images            []string     `bson:"images" json:"images" validate:"dive,imageurl"`
	Status            Status       `bson:"status" json:"status"`
	Audit             `bson:",inline"`
}

type JoinedUser struct {
	UserID   string    `bson:"user_id" json:"user_id"`
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// UserIDs lists the riders who joined, in join order.
func (r Ride) UserIDs() []string {
	ids := make([]string, 0, len(r.UsersJoined))
	for _, u := range r.UsersJoined {
		ids = append(ids, u.UserID)
	}
	return ids
}
