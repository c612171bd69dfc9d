package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type projectHandler struct {
	contentHandler[models.Project, *models.Project]
}

func newProjectHandler(projectRepo contentStore[*models.Project], sessions session.Store) projectHandler {
	logger := log.With().Str("handlerName", "projectHandler").Logger()

	return projectHandler{contentHandler[models.Project, *models.Project]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    "project",
		store:     projectRepo,
		sessions:  sessions,
		view: listingTable[*models.Project]{
			columns:    projectColumns,
			searchable: []string{"name", "tech"},
			filter:     lifecycleFilter(models.ContentLifecycle),
			exportName: "projects",
		},
		now: time.Now,
	}}
}

// getAllProjects lists the portfolio projects
// @Summary List projects
// @Tags Projects
// @Produce json
// @Param page query int false "Page number, from 1"
// @Param pageSize query int false "5, 10, 15, 20, 25, 30, 40 or 50"
// @Param status query string false "all, Active or Inactive"
// @Success 200 {object} listing.Result[models.Project]
// @Router /portfolio/projects [get]
func (h projectHandler) getAllProjects() http.HandlerFunc {
	return h.list()
}

// @Router /portfolio/projects/export [get]
func (h projectHandler) exportProjects() http.HandlerFunc {
	return h.export()
}

// getProject retrieves a specific project by ID
// @Summary Get project
// @Tags Projects
// @Produce json
// @Param id path string true "Project ID" format(uuid)
// @Success 200 {object} models.Project
// @Failure 404 {object} ErrorResponse "Not Found - Project not found"
// @Router /portfolio/projects/{id} [get]
func (h projectHandler) getProject() http.HandlerFunc {
	return h.get()
}

// createProject creates a new project
// @Summary Create project
// @Tags Projects
// @Accept json
// @Produce json
// @Param project body models.Project true "Project"
// @Success 201 {object} models.Project
// @Failure 400 {object} ErrorResponse "Bad Request - Validation failed"
// @Router /portfolio/projects [post]
func (h projectHandler) createProject() http.HandlerFunc {
	return h.create()
}

// @Router /portfolio/projects/{id} [put]
func (h projectHandler) updateProject() http.HandlerFunc {
	return h.update()
}

// @Router /portfolio/projects/{id}/status [put]
func (h projectHandler) setProjectStatus() http.HandlerFunc {
	return h.setStatus()
}

// deleteProject soft deletes a project
// @Summary Delete project
// @Tags Projects
// @Success 200 {object} StatusResponse
// @Router /portfolio/projects/{id} [delete]
func (h projectHandler) deleteProject() http.HandlerFunc {
	return h.remove()
}

type experienceHandler struct {
	contentHandler[models.Experience, *models.Experience]
}

func newExperienceHandler(experienceRepo contentStore[*models.Experience], sessions session.Store) experienceHandler {
	logger := log.With().Str("handlerName", "experienceHandler").Logger()

	return experienceHandler{contentHandler[models.Experience, *models.Experience]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    "experience",
		store:     experienceRepo,
		sessions:  sessions,
		view: listingTable[*models.Experience]{
			columns:    experienceColumns,
			searchable: []string{"title", "company_name"},
			filter:     lifecycleFilter(models.ContentLifecycle),
			exportName: "experience",
		},
		now: time.Now,
	}}
}
