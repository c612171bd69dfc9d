package database

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

// ContactRepo stores contact form messages of every product, counted per
// product by read state.
type ContactRepo struct {
	*Repo[models.Contact, *models.Contact]
}

func NewContactRepo(db *mongo.Database, counts *CountStore) *ContactRepo {
	return &ContactRepo{NewRepo[models.Contact, *models.Contact](db, RepoConfig{
		Collection: CollectionContacts,
		Entity:     "contact",
		SortField:  "name",
		Counting: &Counting{
			Store:      counts,
			KeyField:   "isRead",
			ScopeField: "product",
			Keys:       models.ReadStateKeys,
			KeyOf:      readStateKeyOf,
		},
		Filter:    ReadStateFilter,
		Protected: []string{"isRead", "product", "timestamp"},
	})}
}

// MarkRead sets the read flag, moving the message between the read and unread counts.
func (r *ContactRepo) MarkRead(ctx context.Context, id string, read bool) (*models.Contact, error) {
	return r.Mutate(ctx, id, func(c *models.Contact) (bson.M, error) {
		if c.IsRead == read {
			return nil, nil
		}
		c.IsRead = read
		return bson.M{"isRead": read}, nil
	})
}

func (r *ContactRepo) ProductFilter(product models.Product) bson.M {
	return bson.M{"product": product}
}
