package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

type detailsStore interface {
	Get(ctx context.Context, product models.Product) (*models.BasicDetails, error)
	Save(ctx context.Context, product models.Product, details *models.BasicDetails, userID string, now time.Time) (*models.BasicDetails, error)
	DeleteSocial(ctx context.Context, product models.Product, key string) error
}

type basicDetailsHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     detailsStore
	now       func() time.Time
}

func newBasicDetailsHandler(basicDetailsRepo detailsStore) basicDetailsHandler {
	logger := log.With().Str("handlerName", "basicDetailsHandler").Logger()
	return basicDetailsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     basicDetailsRepo,
		now:       time.Now,
	}
}

// getBasicDetails returns a product's profile block, empty before the first save
// @Router /products/{product}/basic-details [get]
func (h basicDetailsHandler) getBasicDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := productParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		details, err := h.store.Get(r.Context(), product)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, details)
	}
}

// saveBasicDetails overwrites the profile block and logs who changed it
// @Router /products/{product}/basic-details [put]
func (h basicDetailsHandler) saveBasicDetails() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		product, err := productParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var details models.BasicDetails
		if err := decodeJSON(w, r, "basic details", &details); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if details.Skills == nil {
			details.Skills = []string{}
		}
		if details.Socials == nil {
			details.Socials = map[string]string{}
		}
		if err := models.Validate(&details); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		saved, err := h.store.Save(r.Context(), product, &details, sess.UserID, h.now().UTC())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, saved)
	}
}

// deleteSocial removes one social link
// @Router /products/{product}/basic-details/socials/{key} [delete]
func (h basicDetailsHandler) deleteSocial() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := productParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		key, err := idParam(r, "key")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.store.DeleteSocial(r.Context(), product, key); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, key+" removed successfully")
	}
}

// Tag types offered on the Create Tags screen.
var tagTypes = []string{"blog", "project", "skills"}

type tagStore interface {
	Get(ctx context.Context, tagType string) (*models.TagSet, error)
	Add(ctx context.Context, tagType string, tags ...string) (*models.TagSet, int, error)
	Remove(ctx context.Context, tagType, tag string) (*models.TagSet, error)
}

type tagHandler struct {
	responder Responder
	store     tagStore
}

func newTagHandler(tagRepo tagStore) tagHandler {
	logger := log.With().Str("handlerName", "tagHandler").Logger()
	return tagHandler{
		responder: NewResponder(logger),
		store:     tagRepo,
	}
}

func tagTypeParam(r *http.Request) (string, error) {
	tagType, err := idParam(r, "tagType")
	if err != nil {
		return "", err
	}
	for _, t := range tagTypes {
		if t == tagType {
			return tagType, nil
		}
	}
	return "", errs.NewNotFoundError("unknown tag type " + tagType)
}

type addTagsRequest struct {
	Tags []string `json:"tags" validate:"required,min=1,dive,required,max=50"`
}

type tagsResponse struct {
	Tags  []string `json:"tags"`
	Added int      `json:"added"`
}

// @Router /tags/{tagType} [get]
func (h tagHandler) getTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagType, err := tagTypeParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		set, err := h.store.Get(r.Context(), tagType)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tagsResponse{Tags: set.Tags})
	}
}

// addTags merges new tags, ignoring ones already present in any casing
// @Router /tags/{tagType} [post]
func (h tagHandler) addTags() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagType, err := tagTypeParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req addTagsRequest
		if err := decodeJSON(w, r, "tags", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		set, added, err := h.store.Add(r.Context(), tagType, req.Tags...)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tagsResponse{Tags: set.Tags, Added: added})
	}
}

// @Router /tags/{tagType}/{tag} [delete]
func (h tagHandler) removeTag() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tagType, err := tagTypeParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		tag, err := idParam(r, "tag")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		set, err := h.store.Remove(r.Context(), tagType, tag)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, tagsResponse{Tags: set.Tags})
	}
}
