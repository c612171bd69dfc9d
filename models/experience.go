package models

import "time"

type Experience struct {
	Base             `bson:",inline"`
	Title            string     `bson:"title" json:"title" validate:"required,max=120"`
	EmploymentType   string     `bson:"employment_type" json:"employment_type" validate:"required,oneof='Part Time' 'Full Time' 'Freelance'"`
	CompanyName      string     `bson:"company_name" json:"company_name" validate:"required"`
	Location         string     `bson:"location" json:"location" validate:"required"`
	LocationType     string     `bson:"location_type" json:"location_type" validate:"required,oneof='Work from home' 'Work from office' 'Hybrid'"`
	CurrentlyWorking bool       `bson:"currently_working" json:"currently_working"`
	StartDate        time.Time  `bson:"start_date" json:"start_date" validate:"required"`
	EndDate          *time.Time `bson:"end_date,omitempty" json:"end_date,omitempty"`
	Description      string     `bson:"description" json:"description" validate:"required"`
	SkillsUsed       []string   `bson:"skills_used" json:"skills_used" validate:"dive,required"`
	Status           Status     `bson:"status" json:"status"`
	Audit            `bson:",inline"`
}
