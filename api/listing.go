package api

import (
	"bytes"
	"context"
	"net/http"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/listing"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

// pager is the part of a repository a listing endpoint reads through.
type pager[P any] interface {
	PageAt(ctx context.Context, book *database.CursorBook, scope string, filter bson.M, page, size int) (database.Page[P], error)
	Filter(label string) (bson.M, error)
	Counts(ctx context.Context, scope string) (models.StatusCounts, error)
}

// listingSource binds a listing to its repository. Name keys the session's
// cursors and must differ between listings with different base filters.
type listingSource[P any] struct {
	name   string
	repo   pager[P]
	base   bson.M
	scope  string
	counts listing.CountsFunc
}

// listingTable describes what a listing shows on top of its source.
type listingTable[P any] struct {
	columns    []listing.Column[P]
	searchable []string
	filter     *listing.StatusFilter
	exportName string
}

func newTable[P any](sessions session.Store, src listingSource[P], view listingTable[P]) *listing.Table[P] {
	counts := src.counts
	if counts == nil {
		counts = func(ctx context.Context) (models.StatusCounts, error) {
			return src.repo.Counts(ctx, src.scope)
		}
	}
	return &listing.Table[P]{
		Name:       src.name,
		Fetch:      cursorFetch(sessions, src),
		Counts:     counts,
		Columns:    view.columns,
		Searchable: view.searchable,
		Filter:     view.filter,
		Export:     listing.ExportOptions{Enabled: view.exportName != "", FileName: view.exportName},
	}
}

// cursorFetch pages through the repository with the cursors remembered in the
// caller's session. Loading page 1 starts a fresh walk of the listing.
func cursorFetch[P any](sessions session.Store, src listingSource[P]) listing.FetchFunc[P] {
	return func(ctx context.Context, q listing.FetchQuery) ([]P, error) {
		sess, err := ctxGetSession(ctx)
		if err != nil {
			return nil, err
		}
		filter, err := src.repo.Filter(q.Status)
		if err != nil {
			return nil, err
		}

		book, err := sessions.Cursors(ctx, sess.SessionID)
		if err != nil {
			return nil, err
		}
		if q.Page == 1 {
			book.Reset(src.name)
		}

		scope := database.ScopeKey(src.name, q.Status, q.PageSize)
		page, err := src.repo.PageAt(ctx, book, scope, database.And(src.base, filter), q.Page, q.PageSize)
		if err != nil {
			return nil, err
		}
		if err := sessions.SaveCursors(ctx, sess.SessionID, book); err != nil {
			return nil, err
		}
		return page.Rows, nil
	}
}

// totalOnly reports a fixed total for listings without an aggregate.
func totalOnly(total int64) listing.CountsFunc {
	return func(context.Context) (models.StatusCounts, error) {
		return models.StatusCounts{Counts: map[string]int64{models.TotalKey: total}}, nil
	}
}

// lifecycleFilter offers every status of l except Deleted.
func lifecycleFilter(l models.Lifecycle) *listing.StatusFilter {
	var labels []string
	for _, status := range l.Statuses() {
		if !status.IsDeleted() {
			labels = append(labels, string(status))
		}
	}
	return &listing.StatusFilter{Labels: labels}
}

var readStateFilter = &listing.StatusFilter{Labels: []string{"Read", "Unread"}}

func serveListing[P any](responder Responder, w http.ResponseWriter, r *http.Request, table *listing.Table[P]) {
	q, err := parseListingQuery(r)
	if err != nil {
		responder.WriteError(w, err)
		return
	}
	result, err := table.Load(r.Context(), q)
	if err != nil {
		responder.WriteError(w, err)
		return
	}
	responder.WriteJSON(w, result)
}

// serveExport renders the requested page with its visible columns as a
// download. The file is buffered so failures still answer with JSON.
func serveExport[P any](responder Responder, w http.ResponseWriter, r *http.Request, table *listing.Table[P]) {
	q, err := parseListingQuery(r)
	if err != nil {
		responder.WriteError(w, err)
		return
	}
	format, err := listing.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		responder.WriteError(w, err)
		return
	}

	var buf bytes.Buffer
	if err := table.ExportPage(r.Context(), &buf, format, q); err != nil {
		responder.WriteError(w, err)
		return
	}
	responder.WriteFile(w, format.ContentType(), format.FileName(table.Export.FileName), buf.Bytes())
}
