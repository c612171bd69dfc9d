package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

type AnnouncementRepo struct {
	*Repo[models.Announcement, *models.Announcement]
}

func NewAnnouncementRepo(db *mongo.Database) *AnnouncementRepo {
	return &AnnouncementRepo{NewRepo[models.Announcement, *models.Announcement](db, RepoConfig{
		Collection: CollectionAnnouncements,
		Entity:     "announcement",
		SortField:  "title",
		Lifecycle:  &models.ContentLifecycle,
		Filter:     LifecycleFilter(models.ContentLifecycle),
	})}
}

// Live returns every announcement that was not deleted, newest first.
func (r *AnnouncementRepo) Live(ctx context.Context) ([]*models.Announcement, error) {
	return r.FindAll(ctx,
		bson.M{"status": bson.M{"$ne": models.StatusDeleted}},
		bson.D{{Key: "announced_at", Value: -1}, {Key: "_id", Value: 1}},
	)
}

type NewsletterRepo struct {
	*Repo[models.NewsletterSubscriber, *models.NewsletterSubscriber]
}

func NewNewsletterRepo(db *mongo.Database) *NewsletterRepo {
	return &NewsletterRepo{NewRepo[models.NewsletterSubscriber, *models.NewsletterSubscriber](db, RepoConfig{
		Collection: CollectionNewsletter,
		Entity:     "newsletter subscriber",
		SortField:  "name",
		Lifecycle:  &models.ContentLifecycle,
		Filter:     LifecycleFilter(models.ContentLifecycle),
		Protected:  []string{"joined_at"},
	})}
}

// Emails returns the addresses of every active, subscribed entry.
func (r *NewsletterRepo) Emails(ctx context.Context) ([]string, error) {
	return r.distinctEmails(ctx, bson.M{"status": models.StatusActive, "subscribed": true})
}

type EmailTransactionRepo struct {
	*Repo[models.EmailTransaction, *models.EmailTransaction]
}

func NewEmailTransactionRepo(db *mongo.Database) *EmailTransactionRepo {
	return &EmailTransactionRepo{NewRepo[models.EmailTransaction, *models.EmailTransaction](db, RepoConfig{
		Collection: CollectionEmailTransactions,
		Entity:     "email transaction",
		SortField:  "subject",
	})}
}

// Record journals a send under its vendor transaction id.
func (r *EmailTransactionRepo) Record(ctx context.Context, tx *models.EmailTransaction) error {
	return r.Upsert(ctx, tx.TransactionID, tx)
}
