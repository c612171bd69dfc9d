package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

// contentDoc is a stored record with a status lifecycle.
type contentDoc[T any] interface {
	*T
	GetID() string
	SetID(string)
	models.Statused
}

// contentStore is the repository surface the content handlers use.
type contentStore[P any] interface {
	pager[P]
	FindByID(ctx context.Context, id string) (P, error)
	Add(ctx context.Context, doc P) error
	Replace(ctx context.Context, id string, doc P) (P, error)
	Transition(ctx context.Context, id string, to models.Status, extra bson.M) (P, error)
	SoftDelete(ctx context.Context, id string, extra bson.M) (P, error)
	Count(ctx context.Context, filter bson.M) (int64, error)
}

// audited records carry the Audit block.
type audited interface {
	Touch(userID string, now time.Time)
}

// contentScope narrows a listing to part of a collection, e.g. one product's blogs.
type contentScope struct {
	name    string
	base    bson.M
	counts  string
	product models.Product
}

// contentHandler serves the listing, read, write and status routes shared by
// every entity with a status lifecycle.
type contentHandler[T any, P contentDoc[T]] struct {
	responder Responder
	logger    zerolog.Logger
	entity    string
	store     contentStore[P]
	sessions  session.Store
	view      listingTable[P]
	now       func() time.Time

	// scope binds the request to its sub-listing; nil means the whole collection.
	scope func(r *http.Request) (contentScope, error)
	// prepare stamps scope fields on a record before it is validated and written.
	prepare func(doc P, scope contentScope)
	// owns reports whether a stored record belongs to the request's scope.
	owns func(doc P, scope contentScope) bool
	// liveCounts counts each status with a query instead of the aggregate.
	liveCounts *models.Lifecycle
	// afterCreate runs once the record is stored. Its error is only logged.
	afterCreate func(ctx context.Context, doc P, sess *session.Context) error
}

func (h contentHandler[T, P]) resolveScope(r *http.Request) (contentScope, error) {
	if h.scope == nil {
		return contentScope{name: h.view.exportName}, nil
	}
	return h.scope(r)
}

func (h contentHandler[T, P]) table(scope contentScope) *listing.Table[P] {
	src := listingSource[P]{
		name:  scope.name,
		repo:  h.store,
		base:  scope.base,
		scope: scope.counts,
	}
	if h.liveCounts != nil {
		src.counts = countByStatus(h.store, scope.base, *h.liveCounts)
	}
	return newTable(h.sessions, src, h.view)
}

func (h contentHandler[T, P]) list() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := h.resolveScope(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		serveListing(h.responder, w, r, h.table(scope))
	}
}

func (h contentHandler[T, P]) export() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		scope, err := h.resolveScope(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		serveExport(h.responder, w, r, h.table(scope))
	}
}

// find loads the record named by the id parameter within the request's scope.
func (h contentHandler[T, P]) find(r *http.Request) (P, contentScope, error) {
	scope, err := h.resolveScope(r)
	if err != nil {
		return nil, scope, err
	}
	id, err := idParam(r, "id")
	if err != nil {
		return nil, scope, err
	}
	doc, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		return nil, scope, err
	}
	if h.owns != nil && !h.owns(doc, scope) {
		return nil, scope, errs.NewNotFound(h.entity)
	}
	return doc, scope, nil
}

func (h contentHandler[T, P]) get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		doc, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, doc)
	}
}

// decode reads, scopes, validates and stamps a record from the request body.
func (h contentHandler[T, P]) decode(w http.ResponseWriter, r *http.Request, scope contentScope, sess *session.Context) (P, error) {
	doc := P(new(T))
	if err := decodeJSON(w, r, h.entity, doc); err != nil {
		return nil, err
	}
	if h.prepare != nil {
		h.prepare(doc, scope)
	}
	if err := models.Validate(doc); err != nil {
		return nil, err
	}
	if a, ok := any(doc).(audited); ok {
		a.Touch(sess.UserID, h.now().UTC())
	}
	return doc, nil
}

func (h contentHandler[T, P]) create() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		scope, err := h.resolveScope(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		doc, err := h.decode(w, r, scope, sess)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		doc.SetID("")

		if err := h.store.Add(r.Context(), doc); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("id", doc.GetID()).Str("userID", sess.UserID).Msgf("%s created", h.entity)

		if h.afterCreate != nil {
			if err := h.afterCreate(r.Context(), doc, sess); err != nil {
				h.logger.Error().Err(err).Str("id", doc.GetID()).Msgf("%s created, follow-up failed", h.entity)
			}
		}
		h.responder.WriteCreated(w, doc)
	}
}

func (h contentHandler[T, P]) update() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		current, scope, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		doc, err := h.decode(w, r, scope, sess)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}

		updated, err := h.store.Replace(r.Context(), current.GetID(), doc)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

type statusRequest struct {
	Status string `json:"status" validate:"required"`
}

// setStatus moves a record along its lifecycle.
func (h contentHandler[T, P]) setStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req statusRequest
		if err := decodeJSON(w, r, "status", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		status, ok := models.ParseStatus(req.Status)
		if !ok {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "unknown status "+req.Status))
			return
		}

		current, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updated, err := h.store.Transition(r.Context(), current.GetID(), status, h.auditFields(sess))
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// remove soft deletes the record. It stays readable with the Deleted status.
func (h contentHandler[T, P]) remove() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		current, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if _, err := h.store.SoftDelete(r.Context(), current.GetID(), h.auditFields(sess)); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("id", current.GetID()).Str("userID", sess.UserID).Msgf("%s deleted", h.entity)
		h.responder.WriteSuccess(w, h.entity+" deleted successfully")
	}
}

// auditFields are stored alongside a status change of audited records.
func (h contentHandler[T, P]) auditFields(sess *session.Context) bson.M {
	if _, ok := any(P(new(T))).(audited); !ok {
		return nil
	}
	return bson.M{"updatedAt": h.now().UTC(), "updatedBy": sess.UserID}
}

// countByStatus counts every status of l with one query each, for collections
// that keep no aggregate.
func countByStatus[P any](store contentStore[P], base bson.M, l models.Lifecycle) listing.CountsFunc {
	return func(ctx context.Context) (models.StatusCounts, error) {
		total, err := store.Count(ctx, base)
		if err != nil {
			return models.StatusCounts{}, err
		}
		counts := map[string]int64{models.TotalKey: total}
		for _, status := range l.Statuses() {
			n, err := store.Count(ctx, andStatus(base, status))
			if err != nil {
				return models.StatusCounts{}, err
			}
			counts[status.CountKey()] = n
		}
		return models.StatusCounts{Counts: counts}, nil
	}
}

func andStatus(base bson.M, status models.Status) bson.M {
	filter := bson.M{"status": status}
	if len(base) == 0 {
		return filter
	}
	return bson.M{"$and": bson.A{base, filter}}
}
