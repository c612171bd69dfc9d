package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

type RideRepo struct {
	*Repo[models.Ride, *models.Ride]
}

func NewRideRepo(db *mongo.Database, counts *CountStore) *RideRepo {
	return &RideRepo{NewRepo[models.Ride, *models.Ride](db, RepoConfig{
		Collection: CollectionRides,
		Entity:     "ride",
		SortField:  "title",
		Lifecycle:  &models.RideLifecycle,
		Counting:   statusCounting(counts, models.RideLifecycle, ""),
		Filter:     LifecycleFilter(models.RideLifecycle),
		Protected:  []string{"users_joined", "images"},
	})}
}

// SetImages replaces the post-ride gallery.
func (r *RideRepo) SetImages(ctx context.Context, id string, images []string) error {
	if images == nil {
		images = []string{}
	}
	return r.Patch(ctx, id, bson.M{"images": images})
}

// IDsFilter restricts a ride query to the given ids.
func IDsFilter(ids []string) bson.M {
	if ids == nil {
		ids = []string{}
	}
	return bson.M{"_id": bson.M{"$in": ids}}
}

type RiderRepo struct {
	*Repo[models.Rider, *models.Rider]
}

func NewRiderRepo(db *mongo.Database, counts *CountStore) *RiderRepo {
	return &RiderRepo{NewRepo[models.Rider, *models.Rider](db, RepoConfig{
		Collection: CollectionRiders,
		Entity:     "rider",
		SortField:  "name",
		Lifecycle:  &models.RiderLifecycle,
		Counting:   statusCounting(counts, models.RiderLifecycle, ""),
		Filter:     LifecycleFilter(models.RiderLifecycle),
		Protected:  []string{"rides_joined", "joinedAt", "lastLoginAt"},
	})}
}

// Emails returns the addresses of every active rider.
func (r *RiderRepo) Emails(ctx context.Context) ([]string, error) {
	return r.distinctEmails(ctx, bson.M{"status": models.StatusActive})
}
