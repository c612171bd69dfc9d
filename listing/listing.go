package listing

import (
	"context"
	"strings"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

// PageSizes are the page sizes a listing may be viewed with.
var PageSizes = []int{5, 10, 15, 20, 25, 30, 40, 50}

const (
	DefaultPageSize = 5
	// ActionColumn holds row actions and cannot be hidden.
	ActionColumn = "action"
)

// FetchQuery is what a listing asks its fetch function for.
type FetchQuery struct {
	Page     int
	PageSize int
	Status   string
}

// FetchFunc returns one page of records. Server-side status filtering and
// cursor bookkeeping are its responsibility.
type FetchFunc[T any] func(ctx context.Context, q FetchQuery) ([]T, error)

// CountsFunc returns the live aggregate used for filter counts and the total.
type CountsFunc func(ctx context.Context) (models.StatusCounts, error)

type Column[T any] struct {
	Key   string
	Title string
	Value func(T) string
}

type StatusFilter struct {
	Labels  []string
	Default string
}

type ExportOptions struct {
	Enabled  bool
	FileName string
}

// Table is a paginated, searchable, filterable listing over any record type.
type Table[T any] struct {
	Name       string
	Fetch      FetchFunc[T]
	Counts     CountsFunc
	Columns    []Column[T]
	Searchable []string
	Filter     *StatusFilter
	Export     ExportOptions
}

// Query is one view of a listing as requested by the client.
type Query struct {
	Page     int
	PageSize int
	Status   string
	// Search maps a searchable column key to the text it must contain.
	Search map[string]string
	Hidden []string
}

type Segment struct {
	Text  string `json:"text"`
	Match bool   `json:"match,omitempty"`
}

type Row[T any] struct {
	Record     T                    `json:"record"`
	Highlights map[string][]Segment `json:"highlights,omitempty"`
}

type ColumnState struct {
	Key        string `json:"key"`
	Title      string `json:"title"`
	Visible    bool   `json:"visible"`
	Searchable bool   `json:"searchable"`
}

type FilterOption struct {
	Label  string `json:"label"`
	Count  int64  `json:"count"`
	Active bool   `json:"active"`
}

type Result[T any] struct {
	Rows      []Row[T]       `json:"rows"`
	Columns   []ColumnState  `json:"columns"`
	Filters   []FilterOption `json:"filters,omitempty"`
	Status    string         `json:"status"`
	Total     int64          `json:"total"`
	Page      int            `json:"page"`
	PageSize  int            `json:"pageSize"`
	PageSizes []int          `json:"pageSizes"`
	Fetched   int            `json:"fetched"` // rows on the page before searching
	Export    bool           `json:"export"`

	records []T
}

// Records returns the fetched page before search was applied.
func (r Result[T]) Records() []T {
	return r.records
}

// Normalize fills in defaults and rejects page sizes and filter labels the
// listing does not offer.
func (t *Table[T]) Normalize(q Query) (Query, error) {
	if q.Page < 1 {
		q.Page = 1
	}
	if q.PageSize == 0 {
		q.PageSize = DefaultPageSize
	}
	if !validPageSize(q.PageSize) {
		return q, errs.NewInvalidFieldError("pageSize", "must be one of 5, 10, 15, 20, 25, 30, 40, 50")
	}

	status := strings.ToLower(strings.TrimSpace(q.Status))
	if t.Filter == nil {
		if status != "" && status != models.AllLabel {
			return q, errs.NewInvalidFieldError("status", t.Name+" has no status filter")
		}
		q.Status = models.AllLabel
		return q, nil
	}
	if status == "" {
		status = strings.ToLower(t.Filter.Default)
	}
	if status == "" {
		status = models.AllLabel
	}
	if !t.hasLabel(status) {
		return q, errs.NewInvalidFieldError("status", "unknown filter "+q.Status)
	}
	q.Status = status
	return q, nil
}

func validPageSize(size int) bool {
	for _, s := range PageSizes {
		if s == size {
			return true
		}
	}
	return false
}

func (t *Table[T]) hasLabel(label string) bool {
	if label == models.AllLabel {
		return true
	}
	for _, l := range t.Filter.Labels {
		if strings.EqualFold(l, label) {
			return true
		}
	}
	return false
}

// Load fetches the requested page, applies the column search to that page only,
// and reports column visibility, filter counts and the total for paging.
func (t *Table[T]) Load(ctx context.Context, q Query) (Result[T], error) {
	q, err := t.Normalize(q)
	if err != nil {
		return Result[T]{}, err
	}

	records, err := t.Fetch(ctx, FetchQuery{Page: q.Page, PageSize: q.PageSize, Status: q.Status})
	if err != nil {
		return Result[T]{}, err
	}

	var counts models.StatusCounts
	if t.Counts != nil {
		if counts, err = t.Counts(ctx); err != nil {
			return Result[T]{}, err
		}
	}

	return Result[T]{
		Rows:      Search(records, t.Columns, t.searchTerms(q.Search)),
		Columns:   t.columnStates(q.Hidden),
		Filters:   t.filterOptions(counts, q.Status),
		Status:    q.Status,
		Total:     counts.Get(q.Status),
		Page:      q.Page,
		PageSize:  q.PageSize,
		PageSizes: PageSizes,
		Fetched:   len(records),
		Export:    t.Export.Enabled,
		records:   records,
	}, nil
}

// searchTerms keeps the non-blank terms of searchable columns.
func (t *Table[T]) searchTerms(search map[string]string) map[string]string {
	terms := map[string]string{}
	for _, key := range t.Searchable {
		if term := strings.TrimSpace(search[key]); term != "" {
			terms[key] = term
		}
	}
	return terms
}

func (t *Table[T]) columnStates(hidden []string) []ColumnState {
	isHidden := make(map[string]bool, len(hidden))
	for _, key := range hidden {
		isHidden[key] = true
	}
	searchable := make(map[string]bool, len(t.Searchable))
	for _, key := range t.Searchable {
		searchable[key] = true
	}

	states := make([]ColumnState, 0, len(t.Columns))
	for _, col := range t.Columns {
		states = append(states, ColumnState{
			Key:        col.Key,
			Title:      col.Title,
			Visible:    col.Key == ActionColumn || !isHidden[col.Key],
			Searchable: searchable[col.Key],
		})
	}
	return states
}

// VisibleColumns returns the columns shown under the given hidden set.
func (t *Table[T]) VisibleColumns(hidden []string) []Column[T] {
	states := t.columnStates(hidden)
	out := make([]Column[T], 0, len(states))
	for i, state := range states {
		if state.Visible {
			out = append(out, t.Columns[i])
		}
	}
	return out
}

func (t *Table[T]) filterOptions(counts models.StatusCounts, active string) []FilterOption {
	if t.Filter == nil {
		return nil
	}
	labels := append([]string{models.AllLabel}, t.Filter.Labels...)
	options := make([]FilterOption, 0, len(labels))
	for _, label := range labels {
		options = append(options, FilterOption{
			Label:  label,
			Count:  counts.Get(label),
			Active: strings.EqualFold(label, active),
		})
	}
	return options
}
