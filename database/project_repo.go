package database

import (
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/rpupo63/unified-admin-dashboard/models"
)

type ProjectRepo struct {
	*Repo[models.Project, *models.Project]
}

func NewProjectRepo(db *mongo.Database, counts *CountStore) *ProjectRepo {
	return &ProjectRepo{NewRepo[models.Project, *models.Project](db, RepoConfig{
		Collection: CollectionProjects,
		Entity:     "project",
		SortField:  "name",
		Lifecycle:  &models.ContentLifecycle,
		Counting:   statusCounting(counts, models.ContentLifecycle, ""),
		Filter:     LifecycleFilter(models.ContentLifecycle),
	})}
}

type ExperienceRepo struct {
	*Repo[models.Experience, *models.Experience]
}

func NewExperienceRepo(db *mongo.Database, counts *CountStore) *ExperienceRepo {
	return &ExperienceRepo{NewRepo[models.Experience, *models.Experience](db, RepoConfig{
		Collection: CollectionExperience,
		Entity:     "experience",
		SortField:  "title",
		Lifecycle:  &models.ContentLifecycle,
		Counting:   statusCounting(counts, models.ContentLifecycle, ""),
		Filter:     LifecycleFilter(models.ContentLifecycle),
	})}
}
