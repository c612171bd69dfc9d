package api

import (
	"context"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

// rideAnnouncer mails riders about a new ride.
type rideAnnouncer interface {
	NewRide(ctx context.Context, ride *models.Ride, userID string) error
}

type rideImageStore interface {
	SetImages(ctx context.Context, id string, images []string) error
}

type rideHandler struct {
	contentHandler[models.Ride, *models.Ride]
	images rideImageStore
	riders pager[*models.Rider]
}

func newRideHandler(rides contentStore[*models.Ride], images rideImageStore, riders pager[*models.Rider], sessions session.Store, announcer rideAnnouncer) rideHandler {
	logger := log.With().Str("handlerName", "rideHandler").Logger()

	return rideHandler{
		contentHandler: contentHandler[models.Ride, *models.Ride]{
			responder: NewResponder(logger),
			logger:    logger,
			entity:    "ride",
			store:     rides,
			sessions:  sessions,
			view: listingTable[*models.Ride]{
				columns:    rideColumns,
				searchable: []string{"title"},
				filter:     lifecycleFilter(models.RideLifecycle),
				exportName: "rides",
			},
			now: time.Now,
			// riders hear about a ride once, when it is created
			afterCreate: func(ctx context.Context, ride *models.Ride, sess *session.Context) error {
				return announcer.NewRide(ctx, ride, sess.UserID)
			},
		},
		images: images,
		riders: riders,
	}
}

// getJoinedUsers lists the riders who joined one ride.
func (h rideHandler) getJoinedUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ride, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		serveListing(h.responder, w, r, h.joinedUsersTable(ride))
	}
}

func (h rideHandler) exportJoinedUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ride, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		serveExport(h.responder, w, r, h.joinedUsersTable(ride))
	}
}

func (h rideHandler) joinedUsersTable(ride *models.Ride) *listing.Table[*models.Rider] {
	ids := ride.UserIDs()
	return newTable(h.sessions, listingSource[*models.Rider]{
		name:   "ride-users:" + ride.ID,
		repo:   h.riders,
		base:   database.IDsFilter(ids),
		counts: totalOnly(int64(len(ids))),
	}, listingTable[*models.Rider]{
		columns:    riderColumns,
		searchable: []string{"name", "email"},
		exportName: "ride-users",
	})
}

type imagesRequest struct {
	Images []string `json:"images" validate:"dive,imageurl"`
}

// setImages replaces the post-ride gallery.
func (h rideHandler) setImages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ride, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req imagesRequest
		if err := decodeJSON(w, r, "ride images", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.images.SetImages(r.Context(), ride.ID, req.Images); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "ride images saved successfully")
	}
}
