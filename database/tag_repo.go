package database

import (
	"context"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// TagRepo stores the selectable tags, one document per tag type.
type TagRepo struct {
	*Repo[models.TagSet, *models.TagSet]
}

func NewTagRepo(db *mongo.Database) *TagRepo {
	return &TagRepo{NewRepo[models.TagSet, *models.TagSet](db, RepoConfig{
		Collection: CollectionBlogTags,
		Entity:     "tags",
		SortField:  "_id",
	})}
}

// Get returns the tags of tagType, empty when none were added yet.
func (r *TagRepo) Get(ctx context.Context, tagType string) (*models.TagSet, error) {
	set, err := r.FindByID(ctx, tagType)
	if errs.IsNotFound(err) {
		return &models.TagSet{Base: models.Base{ID: tagType}, Tags: []string{}}, nil
	}
	return set, err
}

// Add merges tags into tagType, skipping ones already present in any casing.
func (r *TagRepo) Add(ctx context.Context, tagType string, tags ...string) (*models.TagSet, int, error) {
	set, err := r.Get(ctx, tagType)
	if err != nil {
		return nil, 0, err
	}
	added := set.Merge(tags...)
	if added == 0 {
		return set, 0, nil
	}
	if err := r.Upsert(ctx, tagType, set); err != nil {
		return nil, 0, err
	}
	return set, added, nil
}

// Remove drops one tag from tagType.
func (r *TagRepo) Remove(ctx context.Context, tagType, tag string) (*models.TagSet, error) {
	set, err := r.Get(ctx, tagType)
	if err != nil {
		return nil, err
	}
	if !set.Remove(tag) {
		return nil, errs.NewNotFound("tag " + tag)
	}
	if err := r.Upsert(ctx, tagType, set); err != nil {
		return nil, err
	}
	return set, nil
}

// UserRoleRepo stores the role side document of every dashboard account.
type UserRoleRepo struct {
	*Repo[models.UserRole, *models.UserRole]
}

func NewUserRoleRepo(db *mongo.Database) *UserRoleRepo {
	return &UserRoleRepo{NewRepo[models.UserRole, *models.UserRole](db, RepoConfig{
		Collection: CollectionUserRoles,
		Entity:     "user role",
		SortField:  "_id",
	})}
}

func (r *UserRoleRepo) Get(ctx context.Context, userID string) (*models.UserRole, error) {
	return r.FindByID(ctx, userID)
}

func (r *UserRoleRepo) Set(ctx context.Context, role *models.UserRole) error {
	return r.Upsert(ctx, role.ID, role)
}
