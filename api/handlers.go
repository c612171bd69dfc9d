package api

import (
	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/services"
	"github.com/rpupo63/unified-admin-dashboard/storage"
)

// Deps are the services the HTTP layer is built on.
type Deps struct {
	Database    database.Database
	Auth        *auth.Service
	Storage     *storage.S3Store
	Mailer      *services.Mailer
	Broadcaster *services.Broadcaster
}

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(deps Deps) *routeHandlers {
	db := deps.Database
	sessions := deps.Auth.Sessions()

	return &routeHandlers{
		authHandler:         newAuthHandler(deps.Auth),
		basicDetailsHandler: newBasicDetailsHandler(db.BasicDetailsRepo()),
		tagHandler:          newTagHandler(db.TagRepo()),
		blogPostHandler:     newBlogPostHandler(db.BlogPostRepo(), sessions),
		projectHandler:      newProjectHandler(db.ProjectRepo(), sessions),
		experienceHandler:   newExperienceHandler(db.ExperienceRepo(), sessions),
		contactHandler:      newContactHandler(db.ContactRepo(), sessions),
		rideHandler:         newRideHandler(db.RideRepo(), db.RideRepo(), db.RiderRepo(), sessions, deps.Broadcaster),
		riderHandler:        newRiderHandler(db.RiderRepo(), db.RideRepo(), sessions),
		announcementHandler: newAnnouncementHandler(db.AnnouncementRepo(), deps.Broadcaster),
		newsletterHandler:   newNewsletterHandler(db.NewsletterRepo(), sessions),
		emailHandler:        newEmailHandler(deps.Mailer, db.RiderRepo(), db.NewsletterRepo(), db.EmailTransactionRepo(), sessions),
		uploadHandler:       newUploadHandler(deps.Storage),
	}
}
