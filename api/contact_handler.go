package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type contactStore interface {
	pager[*models.Contact]
	FindByID(ctx context.Context, id string) (*models.Contact, error)
	Add(ctx context.Context, doc *models.Contact) error
	MarkRead(ctx context.Context, id string, read bool) (*models.Contact, error)
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	store     contactStore
	sessions  session.Store
	now       func() time.Time
}

func newContactHandler(contactRepo contactStore, sessions session.Store) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()
	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		store:     contactRepo,
		sessions:  sessions,
		now:       time.Now,
	}
}

func (h contactHandler) table(product models.Product) *listing.Table[*models.Contact] {
	return newTable(h.sessions, listingSource[*models.Contact]{
		name:  "contacts:" + string(product),
		repo:  h.store,
		base:  bson.M{"product": product},
		scope: string(product),
	}, listingTable[*models.Contact]{
		columns:    contactColumns,
		searchable: []string{"name", "email", "subject"},
		filter:     readStateFilter,
		exportName: "contacts",
	})
}

// getAllContacts lists a product's contact messages with read and unread counts
// @Router /products/{product}/contacts [get]
func (h contactHandler) getAllContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := productParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		serveListing(h.responder, w, r, h.table(product))
	}
}

// @Router /products/{product}/contacts/export [get]
func (h contactHandler) exportContacts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := productParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		serveExport(h.responder, w, r, h.table(product))
	}
}

func (h contactHandler) find(r *http.Request) (*models.Contact, error) {
	product, err := productParam(r)
	if err != nil {
		return nil, err
	}
	id, err := idParam(r, "id")
	if err != nil {
		return nil, err
	}
	contact, err := h.store.FindByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if contact.Product != product {
		return nil, errs.NewNotFound("contact")
	}
	return contact, nil
}

// @Router /products/{product}/contacts/{id} [get]
func (h contactHandler) getContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, contact)
	}
}

type readRequest struct {
	Read *bool `json:"read" validate:"required"`
}

// markRead flags a message read or unread, moving it between the two counts
// @Router /products/{product}/contacts/{id}/read [put]
func (h contactHandler) markRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contact, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req readRequest
		if err := decodeJSON(w, r, "read state", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		updated, err := h.store.MarkRead(r.Context(), contact.ID, *req.Read)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, updated)
	}
}

// submitContact stores a message from a product's public contact form. It
// needs no session.
// @Router /public/{product}/contact [post]
func (h contactHandler) submitContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		product, err := productParam(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var contact models.Contact
		if err := decodeJSON(w, r, "contact", &contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		contact.ID = ""
		contact.Product = product
		contact.IsRead = false
		contact.Timestamp = h.now().UTC()
		if err := models.Validate(&contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.store.Add(r.Context(), &contact); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("product", string(product)).Str("id", contact.ID).Msg("contact message received")
		h.responder.WriteCreated(w, StatusResponse{Status: "success", Message: "message sent successfully"})
	}
}
