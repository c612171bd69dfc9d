package database

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

// BlogPostRepo stores the blogs of every product, counted per product.
type BlogPostRepo struct {
	*Repo[models.BlogPost, *models.BlogPost]
}

func NewBlogPostRepo(db *mongo.Database, counts *CountStore) *BlogPostRepo {
	return &BlogPostRepo{NewRepo[models.BlogPost, *models.BlogPost](db, RepoConfig{
		Collection: CollectionBlogs,
		Entity:     "blog post",
		SortField:  "title",
		Lifecycle:  &models.ContentLifecycle,
		Counting:   statusCounting(counts, models.ContentLifecycle, "product"),
		Filter:     LifecycleFilter(models.ContentLifecycle),
		Protected:  []string{"product"},
	})}
}

// ProductFilter restricts a blog query to one product.
func (r *BlogPostRepo) ProductFilter(product models.Product) bson.M {
	return bson.M{"product": product}
}
