package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

// Collection names.
const (
	CollectionBasicDetails      = "basic-details"
	CollectionBlogTags          = "blog-tags"
	CollectionUserRoles         = "user-roles"
	CollectionBlogs             = "blogs"
	CollectionProjects          = "projects"
	CollectionExperience        = "experience"
	CollectionContacts          = "contacts"
	CollectionStatusCounts      = "status_counts"
	CollectionRides             = "rides"
	CollectionRiders            = "vikin_users"
	CollectionAnnouncements     = "announcements"
	CollectionNewsletter        = "newsletter"
	CollectionEmailTransactions = "email-transactions"
)

type Database struct {
	counts               *CountStore
	basicDetailsRepo     *BasicDetailsRepo
	tagRepo              *TagRepo
	userRoleRepo         *UserRoleRepo
	blogPostRepo         *BlogPostRepo
	projectRepo          *ProjectRepo
	experienceRepo       *ExperienceRepo
	contactRepo          *ContactRepo
	rideRepo             *RideRepo
	riderRepo            *RiderRepo
	announcementRepo     *AnnouncementRepo
	newsletterRepo       *NewsletterRepo
	emailTransactionRepo *EmailTransactionRepo
}

// New initializes a new Database struct with each repository sharing one mongo database
func New(db *mongo.Database) Database {
	counts := NewCountStore(db)
	return Database{
		counts:               counts,
		basicDetailsRepo:     NewBasicDetailsRepo(db),
		tagRepo:              NewTagRepo(db),
		userRoleRepo:         NewUserRoleRepo(db),
		blogPostRepo:         NewBlogPostRepo(db, counts),
		projectRepo:          NewProjectRepo(db, counts),
		experienceRepo:       NewExperienceRepo(db, counts),
		contactRepo:          NewContactRepo(db, counts),
		rideRepo:             NewRideRepo(db, counts),
		riderRepo:            NewRiderRepo(db, counts),
		announcementRepo:     NewAnnouncementRepo(db),
		newsletterRepo:       NewNewsletterRepo(db),
		emailTransactionRepo: NewEmailTransactionRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) Counts() *CountStore {
	return d.counts
}

func (d Database) BasicDetailsRepo() *BasicDetailsRepo {
	return d.basicDetailsRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) UserRoleRepo() *UserRoleRepo {
	return d.userRoleRepo
}

func (d Database) BlogPostRepo() *BlogPostRepo {
	return d.blogPostRepo
}

func (d Database) ProjectRepo() *ProjectRepo {
	return d.projectRepo
}

func (d Database) ExperienceRepo() *ExperienceRepo {
	return d.experienceRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) RideRepo() *RideRepo {
	return d.rideRepo
}

func (d Database) RiderRepo() *RiderRepo {
	return d.riderRepo
}

func (d Database) AnnouncementRepo() *AnnouncementRepo {
	return d.announcementRepo
}

func (d Database) NewsletterRepo() *NewsletterRepo {
	return d.newsletterRepo
}

func (d Database) EmailTransactionRepo() *EmailTransactionRepo {
	return d.emailTransactionRepo
}

// EnsureIndexes creates the listing indexes of every paginated collection.
func (d Database) EnsureIndexes(ctx context.Context) error {
	steps := []func(context.Context) error{
		d.blogPostRepo.ensureIndexes,
		d.projectRepo.ensureIndexes,
		d.experienceRepo.ensureIndexes,
		d.contactRepo.ensureIndexes,
		d.rideRepo.ensureIndexes,
		d.riderRepo.ensureIndexes,
		d.announcementRepo.ensureIndexes,
		d.newsletterRepo.ensureIndexes,
		d.emailTransactionRepo.ensureIndexes,
	}
	for _, step := range steps {
		if err := step(ctx); err != nil {
			return err
		}
	}
	return nil
}

// Recount rebuilds every status aggregate from the stored records.
func (d Database) Recount(ctx context.Context) ([]models.StatusCounts, error) {
	steps := []func(context.Context) ([]models.StatusCounts, error){
		d.blogPostRepo.Recount,
		d.projectRepo.Recount,
		d.experienceRepo.Recount,
		d.contactRepo.Recount,
		d.rideRepo.Recount,
		d.riderRepo.Recount,
	}
	var all []models.StatusCounts
	for _, step := range steps {
		counts, err := step(ctx)
		if err != nil {
			return all, err
		}
		all = append(all, counts...)
	}
	return all, nil
}

func statusCounting(store *CountStore, l models.Lifecycle, scopeField string) *Counting {
	return &Counting{
		Store:      store,
		KeyField:   "status",
		ScopeField: scopeField,
		Keys:       l.CountKeys(),
		KeyOf:      statusKeyOf,
	}
}
