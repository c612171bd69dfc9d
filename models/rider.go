package models

import "time"

// Rider is a registered Vikin user.
type Rider struct {
	Base           `bson:",inline"`
	Name           string            `bson:"name" json:"name" validate:"required,max=120"`
	Mobile         string            `bson:"mobile" json:"mobile" validate:"omitempty,mobile"`
	Email          string            `bson:"email" json:"email" validate:"required,email"`
	Bio            string            `bson:"bio" json:"bio" validate:"max=1000"`
	ProfilePicture string            `bson:"profile_picture" json:"profile_picture" validate:"omitempty,imageurl"`
	Bikes          []string          `bson:"bikes" json:"bikes"`
	BloodGroup     string            `bson:"blood_group" json:"blood_group" validate:"omitempty,oneof=A+ A- B+ B- AB+ AB- O+ O-"`
	Socials        map[string]string `bson:"socials" json:"socials" validate:"dive,keys,required,endkeys,omitempty,weburl"`
	RidesJoined    []JoinedRide      `bson:"rides_joined" json:"rides_joined"`
	JoinedAt       time.Time         `bson:"joinedAt" json:"joinedAt"`
	LastLoginAt    *time.Time        `bson:"lastLoginAt,omitempty" json:"lastLoginAt,omitempty"`
	Status         Status            `bson:"status" json:"status"`
}

type JoinedRide struct {
	RideID   string    `bson:"ride_id" json:"ride_id"`
	JoinedAt time.Time `bson:"joined_at" json:"joined_at"`
}

// RideIDs lists the rides this rider joined, in join order.
func (r Rider) RideIDs() []string {
	ids := make([]string, 0, len(r.RidesJoined))
	for _, j := range r.RidesJoined {
		ids = append(ids, j.RideID)
	}
	return ids
}
