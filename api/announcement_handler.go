package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type announcementStore interface {
	Live(ctx context.Context) ([]*models.Announcement, error)
	FindByID(ctx context.Context, id string) (*models.Announcement, error)
	Add(ctx context.Context, doc *models.Announcement) error
	SoftDelete(ctx context.Context, id string, extra bson.M) (*models.Announcement, error)
}

// announcementBroadcaster mails riders about a new announcement.
type announcementBroadcaster interface {
	Announcement(ctx context.Context, a *models.Announcement, userID string) error
}

type announcementHandler struct {
	responder   Responder
	logger      zerolog.Logger
	store       announcementStore
	broadcaster announcementBroadcaster
	now         func() time.Time
}

func newAnnouncementHandler(announcementRepo announcementStore, broadcaster announcementBroadcaster) announcementHandler {
	logger := log.With().Str("handlerName", "announcementHandler").Logger()
	return announcementHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		store:       announcementRepo,
		broadcaster: broadcaster,
		now:         time.Now,
	}
}

type announcementList struct {
	Announcements []*models.Announcement `json:"announcements"`
	Total         int                    `json:"total"`
}

// getAnnouncements lists every announcement that was not deleted, newest first
// @Router /vikin/announcements [get]
func (h announcementHandler) getAnnouncements() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		announcements, err := h.store.Live(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, announcementList{Announcements: announcements, Total: len(announcements)})
	}
}

// createAnnouncement stores an announcement and mails it to every active rider.
// A failed mailing does not undo the announcement.
// @Router /vikin/announcements [post]
func (h announcementHandler) createAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var a models.Announcement
		if err := decodeJSON(w, r, "announcement", &a); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		a.ID = ""
		a.Title = strings.TrimSpace(a.Title)
		a.AnnouncedAt = h.now().UTC()
		a.AnnouncedBy = sess.Email
		if err := models.Validate(&a); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.store.Add(r.Context(), &a); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		if err := h.broadcaster.Announcement(r.Context(), &a, sess.UserID); err != nil {
			h.logger.Error().Err(err).Str("id", a.ID).Msg("announcement created, mailing failed")
		}
		h.responder.WriteCreated(w, a)
	}
}

// @Router /vikin/announcements/{id} [delete]
func (h announcementHandler) deleteAnnouncement() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.store.SoftDelete(r.Context(), id, nil); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "announcement deleted successfully")
	}
}

// newsletterHandler serves the Vikin newsletter signups. The collection keeps
// no aggregate, so filter counts are counted per request.
type newsletterHandler struct {
	contentHandler[models.NewsletterSubscriber, *models.NewsletterSubscriber]
}

func newNewsletterHandler(newsletterRepo contentStore[*models.NewsletterSubscriber], sessions session.Store) newsletterHandler {
	logger := log.With().Str("handlerName", "newsletterHandler").Logger()

	return newsletterHandler{contentHandler[models.NewsletterSubscriber, *models.NewsletterSubscriber]{
		responder: NewResponder(logger),
		logger:    logger,
		entity:    "newsletter subscriber",
		store:     newsletterRepo,
		sessions:  sessions,
		view: listingTable[*models.NewsletterSubscriber]{
			columns:    newsletterColumns,
			searchable: []string{"name", "email"},
			filter:     lifecycleFilter(models.ContentLifecycle),
			exportName: "newsletter",
		},
		now:        time.Now,
		liveCounts: &models.ContentLifecycle,
	}}
}

// subscribe adds a signup from the public newsletter form. It needs no session.
// @Router /public/vikin/newsletter [post]
func (h newsletterHandler) subscribe() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var sub models.NewsletterSubscriber
		if err := decodeJSON(w, r, "newsletter subscription", &sub); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		sub.ID = ""
		sub.Email = strings.ToLower(strings.TrimSpace(sub.Email))
		sub.JoinedAt = h.now().UTC()
		sub.Subscribed = true
		sub.Status = ""
		if err := models.Validate(&sub); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.store.Add(r.Context(), &sub); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, StatusResponse{Status: "success", Message: "subscribed successfully"})
	}
}
