package models

import "strings"

// Main roles.
const (
	RoleAdmin     = "admin"
	RolePortfolio = "portfolio"
	RoleVikin     = "vikin"
	RoleGraphyl   = "graphyl"
)

// Vikin sub-roles.
const (
	SubRoleVikinAdmin     = "vikin_admin"
	SubRoleVikinBlog      = "vikin_blog"
	SubRoleVikinHost      = "vikin_host"
	SubRoleVikinAnnouncer = "vikin_announcer"
)

var (
	Roles    = []string{RoleAdmin, RolePortfolio, RoleVikin, RoleGraphyl}
	SubRoles = []string{SubRoleVikinAdmin, SubRoleVikinBlog, SubRoleVikinHost, SubRoleVikinAnnouncer}
)

// UserRole is the side document keyed by the identity's user id.
type UserRole struct {
	Base    `bson:",inline"`
	Main    string `bson:"main" json:"main" validate:"required,oneof=admin portfolio vikin graphyl"`
	SubRole string `bson:"subRole" json:"subRole" validate:"omitempty,oneof=vikin_admin vikin_blog vikin_host vikin_announcer"`
}

// NewUserRole lower-cases the role names the way the create-user form submits them.
func NewUserRole(userID, main, subRole string) UserRole {
	return UserRole{
		Base:    Base{ID: userID},
		Main:    strings.ToLower(strings.TrimSpace(main)),
		SubRole: strings.ToLower(strings.TrimSpace(subRole)),
	}
}
