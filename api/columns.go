package api

import (
	"strconv"
	"strings"
	"time"

	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

const dateLayout = "2006-01-02"

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// action is the row actions column; it has no value and is never exported.
func action[P any]() listing.Column[P] {
	return listing.Column[P]{Key: listing.ActionColumn, Title: "Action"}
}

var blogColumns = []listing.Column[*models.BlogPost]{
	{Key: "title", Title: "Title", Value: func(b *models.BlogPost) string { return b.Title }},
	{Key: "summary", Title: "Summary", Value: func(b *models.BlogPost) string { return b.Summary }},
	{Key: "tags", Title: "Tags", Value: func(b *models.BlogPost) string { return strings.Join(b.Tags, ", ") }},
	{Key: "published", Title: "Published", Value: func(b *models.BlogPost) string { return yesNo(b.Published) }},
	{Key: "feature", Title: "Featured", Value: func(b *models.BlogPost) string { return yesNo(b.Feature) }},
	{Key: "status", Title: "Status", Value: func(b *models.BlogPost) string { return string(b.Status) }},
	action[*models.BlogPost](),
}

var projectColumns = []listing.Column[*models.Project]{
	{Key: "name", Title: "Name", Value: func(p *models.Project) string { return p.Name }},
	{Key: "tech", Title: "Tech", Value: func(p *models.Project) string { return strings.Join(p.Tech, ", ") }},
	{Key: "start", Title: "Start", Value: func(p *models.Project) string { return formatDate(p.Duration.Start) }},
	{Key: "end", Title: "End", Value: func(p *models.Project) string { return formatOptionalDate(p.Duration.End) }},
	{Key: "url", Title: "URL", Value: func(p *models.Project) string { return p.URL }},
	{Key: "status", Title: "Status", Value: func(p *models.Project) string { return string(p.Status) }},
	action[*models.Project](),
}

var experienceColumns = []listing.Column[*models.Experience]{
	{Key: "title", Title: "Title", Value: func(e *models.Experience) string { return e.Title }},
	{Key: "company_name", Title: "Company", Value: func(e *models.Experience) string { return e.CompanyName }},
	{Key: "employment_type", Title: "Employment Type", Value: func(e *models.Experience) string { return e.EmploymentType }},
	{Key: "location", Title: "Location", Value: func(e *models.Experience) string { return e.Location }},
	{Key: "start_date", Title: "Start", Value: func(e *models.Experience) string { return formatDate(e.StartDate) }},
	{Key: "end_date", Title: "End", Value: func(e *models.Experience) string {
		if e.CurrentlyWorking {
			return "Present"
		}
		return formatOptionalDate(e.EndDate)
	}},
	{Key: "status", Title: "Status", Value: func(e *models.Experience) string { return string(e.Status) }},
	action[*models.Experience](),
}

var contactColumns = []listing.Column[*models.Contact]{
	{Key: "name", Title: "Name", Value: func(c *models.Contact) string { return c.Name }},
	{Key: "email", Title: "Email", Value: func(c *models.Contact) string { return c.Email }},
	{Key: "mobile", Title: "Mobile", Value: func(c *models.Contact) string { return c.Mobile }},
	{Key: "subject", Title: "Subject", Value: func(c *models.Contact) string { return c.Subject }},
	{Key: "timestamp", Title: "Received", Value: func(c *models.Contact) string { return formatDate(c.Timestamp) }},
	{Key: "isRead", Title: "Read", Value: func(c *models.Contact) string { return yesNo(c.IsRead) }},
	action[*models.Contact](),
}

var rideColumns = []listing.Column[*models.Ride]{
	{Key: "title", Title: "Title", Value: func(r *models.Ride) string { return r.Title }},
	{Key: "start_date", Title: "Start Date", Value: func(r *models.Ride) string { return formatDate(r.StartDate) }},
	{Key: "average_kilometers", Title: "Avg. Km", Value: func(r *models.Ride) string {
		return strconv.FormatFloat(r.AverageKilometers, 'f', -1, 64)
	}},
	{Key: "users_joined", Title: "Riders Joined", Value: func(r *models.Ride) string { return strconv.Itoa(len(r.UsersJoined)) }},
	{Key: "is_published", Title: "Published", Value: func(r *models.Ride) string { return yesNo(r.IsPublished) }},
	{Key: "status", Title: "Status", Value: func(r *models.Ride) string { return string(r.Status) }},
	action[*models.Ride](),
}

var riderColumns = []listing.Column[*models.Rider]{
	{Key: "name", Title: "Name", Value: func(r *models.Rider) string { return r.Name }},
	{Key: "email", Title: "Email", Value: func(r *models.Rider) string { return r.Email }},
	{Key: "mobile", Title: "Mobile", Value: func(r *models.Rider) string { return r.Mobile }},
	{Key: "blood_group", Title: "Blood Group", Value: func(r *models.Rider) string { return r.BloodGroup }},
	{Key: "rides_joined", Title: "Rides Joined", Value: func(r *models.Rider) string { return strconv.Itoa(len(r.RidesJoined)) }},
	{Key: "joinedAt", Title: "Joined", Value: func(r *models.Rider) string { return formatDate(r.JoinedAt) }},
	{Key: "status", Title: "Status", Value: func(r *models.Rider) string { return string(r.Status) }},
	action[*models.Rider](),
}

var newsletterColumns = []listing.Column[*models.NewsletterSubscriber]{
	{Key: "name", Title: "Name", Value: func(n *models.NewsletterSubscriber) string { return n.Name }},
	{Key: "email", Title: "Email", Value: func(n *models.NewsletterSubscriber) string { return n.Email }},
	{Key: "mobile", Title: "Mobile", Value: func(n *models.NewsletterSubscriber) string { return n.Mobile }},
	{Key: "joined_at", Title: "Joined", Value: func(n *models.NewsletterSubscriber) string { return formatDate(n.JoinedAt) }},
	{Key: "subscribed", Title: "Subscribed", Value: func(n *models.NewsletterSubscriber) string { return yesNo(n.Subscribed) }},
	action[*models.NewsletterSubscriber](),
}

var transactionColumns = []listing.Column[*models.EmailTransaction]{
	{Key: "subject", Title: "Subject", Value: func(t *models.EmailTransaction) string { return t.Subject }},
	{Key: "email_type", Title: "Type", Value: func(t *models.EmailTransaction) string { return t.EmailType }},
	{Key: "recipients", Title: "Recipients", Value: func(t *models.EmailTransaction) string { return strconv.Itoa(t.Recipients) }},
	{Key: "send_at", Title: "Sent", Value: func(t *models.EmailTransaction) string { return t.SendAt.Format(time.RFC3339) }},
	{Key: "TransactionID", Title: "Transaction", Value: func(t *models.EmailTransaction) string { return t.TransactionID }},
}
