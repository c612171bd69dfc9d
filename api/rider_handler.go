package api

import (
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

// riderHandler serves registered Vikin users. Riders sign up in the Vikin app;
// the dashboard only reads them and switches them on or off.
type riderHandler struct {
	contentHandler[models.Rider, *models.Rider]
	rides pager[*models.Ride]
}

func newRiderHandler(riderRepo contentStore[*models.Rider], rideRepo pager[*models.Ride], sessions session.Store) riderHandler {
	logger := log.With().Str("handlerName", "riderHandler").Logger()

	return riderHandler{
		contentHandler: contentHandler[models.Rider, *models.Rider]{
			responder: NewResponder(logger),
			logger:    logger,
			entity:    "rider",
			store:     riderRepo,
			sessions:  sessions,
			view: listingTable[*models.Rider]{
				columns:    riderColumns,
				searchable: []string{"name", "email", "mobile"},
				filter:     lifecycleFilter(models.RiderLifecycle),
				exportName: "riders",
			},
			now: time.Now,
		},
		rides: rideRepo,
	}
}

// getRidesJoined lists the rides one rider joined.
func (h riderHandler) getRidesJoined() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rider, _, err := h.find(r)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		ids := rider.RideIDs()
		table := newTable(h.sessions, listingSource[*models.Ride]{
			name:   "rider-rides:" + rider.ID,
			repo:   h.rides,
			base:   database.IDsFilter(ids),
			counts: totalOnly(int64(len(ids))),
		}, listingTable[*models.Ride]{
			columns:    rideColumns,
			searchable: []string{"title"},
		})
		serveListing(h.responder, w, r, table)
	}
}
