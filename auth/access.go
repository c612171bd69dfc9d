package auth

import (
	"strings"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

// Area is a group of screens guarded by one allow-list.
type Area string

const (
	AreaAny             Area = "any"
	AreaPortfolio       Area = "portfolio"
	AreaGraphyl         Area = "graphyl"
	AreaVikinRides      Area = "vikin-rides"
	AreaVikinNewsletter Area = "vikin-newsletter"
	AreaVikinAnnounce   Area = "vikin-announcements"
	AreaVikinRiders     Area = "vikin-riders"
	AreaVikinEmail      Area = "vikin-email"
	AreaVikinBlog       Area = "vikin-blog"
	AreaVikinContact    Area = "vikin-contact"
	AreaSettings        Area = "settings"
)

// Access lists the roles and sub-roles allowed into each area. A session is
// admitted when its role or its sub-role is listed.
var Access = map[Area][]string{
	AreaAny:             {models.RoleAdmin, models.RolePortfolio, models.RoleVikin, models.RoleGraphyl},
	AreaPortfolio:       {models.RoleAdmin, models.RolePortfolio},
	AreaGraphyl:         {models.RoleAdmin, models.RoleGraphyl},
	AreaVikinRides:      {models.RoleAdmin, models.SubRoleVikinAdmin, models.SubRoleVikinHost},
	AreaVikinNewsletter: {models.RoleAdmin, models.SubRoleVikinAdmin, models.SubRoleVikinAnnouncer, models.SubRoleVikinBlog},
	AreaVikinAnnounce:   {models.RoleAdmin, models.SubRoleVikinAdmin, models.SubRoleVikinAnnouncer},
	AreaVikinRiders:     {models.RoleAdmin, models.SubRoleVikinAdmin},
	AreaVikinEmail:      {models.RoleAdmin, models.SubRoleVikinAdmin, models.SubRoleVikinAnnouncer},
	AreaVikinBlog:       {models.RoleAdmin, models.SubRoleVikinAdmin, models.SubRoleVikinBlog},
	AreaVikinContact:    {models.RoleAdmin, models.SubRoleVikinAdmin, models.SubRoleVikinAnnouncer},
	AreaSettings:        {models.RoleAdmin},
}

// Allows reports whether role or subRole may enter area.
func Allows(area Area, role, subRole string) bool {
	for _, allowed := range Access[area] {
		if allowed == role || (subRole != "" && allowed == subRole) {
			return true
		}
	}
	return false
}

// BlogArea and ContactArea pick the area guarding a product's blogs or contacts.
func BlogArea(p models.Product) Area {
	switch p {
	case models.ProductVikin:
		return AreaVikinBlog
	case models.ProductGraphyl:
		return AreaGraphyl
	}
	return AreaPortfolio
}

func ContactArea(p models.Product) Area {
	switch p {
	case models.ProductVikin:
		return AreaVikinContact
	case models.ProductGraphyl:
		return AreaGraphyl
	}
	return AreaPortfolio
}

// DetailsArea guards a product's basic details screen. Vikin has none of its
// own in the menu, so it follows the vikin admin sub-role.
func DetailsArea(p models.Product) Area {
	switch p {
	case models.ProductVikin:
		return AreaVikinRiders
	case models.ProductGraphyl:
		return AreaGraphyl
	}
	return AreaPortfolio
}

// DefaultRoute is where a session lands when it has no remembered route.
func DefaultRoute(role string) string {
	switch role {
	case models.RoleAdmin:
		return "/portfolio/basic-details"
	case models.RoleVikin:
		return "/vikin/host-rides"
	}
	return "/" + strings.ToLower(role) + "/basic-details"
}

type MenuItem struct {
	Name     string     `json:"name"`
	Path     string     `json:"path,omitempty"`
	Children []MenuItem `json:"children,omitempty"`
	area     Area
	groups   []string
}

var menu = []MenuItem{
	{Name: "Portfolio", groups: []string{models.RoleAdmin, models.RolePortfolio}, Children: []MenuItem{
		{Name: "Basic Details", Path: "/portfolio/basic-details", area: AreaPortfolio},
		{Name: "Projects", Path: "/portfolio/project", area: AreaPortfolio},
		{Name: "Experience", Path: "/portfolio/experience", area: AreaPortfolio},
		{Name: "Blogs", Path: "/portfolio/blog", area: AreaPortfolio},
		{Name: "Contact", Path: "/portfolio/contact", area: AreaPortfolio},
	}},
	{Name: "Vikin", groups: []string{models.RoleAdmin, models.RoleVikin}, Children: []MenuItem{
		{Name: "Host Rides", Path: "/vikin/host-rides", area: AreaVikinRides},
		{Name: "Newsletter", Path: "/vikin/newsletter", area: AreaVikinNewsletter},
		{Name: "Announcements", Path: "/vikin/announcements", area: AreaVikinAnnounce},
		{Name: "Registered Users", Path: "/vikin/users", area: AreaVikinRiders},
		{Name: "Send Emails", Path: "/vikin/email", area: AreaVikinEmail},
		{Name: "Blogs", Path: "/vikin/blog", area: AreaVikinBlog},
		{Name: "Contacts", Path: "/vikin/contact", area: AreaVikinContact},
	}},
	{Name: "Graphyl", groups: []string{models.RoleAdmin, models.RoleGraphyl}, Children: []MenuItem{
		{Name: "Basic Details", Path: "/graphyl/basic-details", area: AreaGraphyl},
	}},
	{Name: "Settings", groups: []string{models.RoleAdmin}, Children: []MenuItem{
		{Name: "Create User", Path: "/create-user", area: AreaSettings},
		{Name: "Create Tags", Path: "/create-tags", area: AreaSettings},
	}},
}

// Menu returns the navigation visible to role and subRole. Groups are matched
// on the main role, items on the area allow-list.
func Menu(role, subRole string) []MenuItem {
	var out []MenuItem
	for _, group := range menu {
		if !contains(group.groups, role) {
			continue
		}
		var items []MenuItem
		for _, item := range group.Children {
			if Allows(item.area, role, subRole) {
				items = append(items, MenuItem{Name: item.Name, Path: item.Path})
			}
		}
		if len(items) > 0 {
			out = append(out, MenuItem{Name: group.Name, Children: items})
		}
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
