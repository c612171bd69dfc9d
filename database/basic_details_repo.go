package database

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// BasicDetailsRepo stores one profile document per product, keyed by product name.
type BasicDetailsRepo struct {
	*Repo[models.BasicDetails, *models.BasicDetails]
}

func NewBasicDetailsRepo(db *mongo.Database) *BasicDetailsRepo {
	return &BasicDetailsRepo{NewRepo[models.BasicDetails, *models.BasicDetails](db, RepoConfig{
		Collection: CollectionBasicDetails,
		Entity:     "basic details",
		SortField:  "_id",
	})}
}

// Get returns the details of product, empty when nothing was saved yet.
func (r *BasicDetailsRepo) Get(ctx context.Context, product models.Product) (*models.BasicDetails, error) {
	details, err := r.FindByID(ctx, string(product))
	if errs.IsNotFound(err) {
		return &models.BasicDetails{Base: models.Base{ID: string(product)}, Skills: []string{}, Socials: map[string]string{}}, nil
	}
	return details, err
}

// Save overwrites the details of product and appends who changed them.
func (r *BasicDetailsRepo) Save(ctx context.Context, product models.Product, details *models.BasicDetails, userID string, now time.Time) (*models.BasicDetails, error) {
	current, err := r.Get(ctx, product)
	if err != nil {
		return nil, err
	}
	details.UpdatedBy = append(current.UpdatedBy, models.UpdatedBy{DateTime: now, User: userID})
	if err := r.Upsert(ctx, string(product), details); err != nil {
		return nil, err
	}
	return details, nil
}

// DeleteSocial removes one social link.
func (r *BasicDetailsRepo) DeleteSocial(ctx context.Context, product models.Product, key string) error {
	if key == "" {
		return errs.NewMissingRequiredFieldError("key")
	}
	return r.Unset(ctx, string(product), "socials."+key)
}
