package listing

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

type rideRow struct {
	Title  string
	Status string
}

var rideColumns = []Column[rideRow]{
	{Key: "title", Title: "Title", Value: func(r rideRow) string { return r.Title }},
	{Key: "status", Title: "Status", Value: func(r rideRow) string { return r.Status }},
	{Key: "action", Title: "Action"},
}

type fakeSource struct {
	rows    []rideRow
	queries []FetchQuery
}

func (f *fakeSource) fetch(_ context.Context, q FetchQuery) ([]rideRow, error) {
	f.queries = append(f.queries, q)
	var filtered []rideRow
	for _, r := range f.rows {
		if q.Status == "all" || models.Status(r.Status).CountKey() == q.Status {
			filtered = append(filtered, r)
		}
	}
	start := (q.Page - 1) * q.PageSize
	if start >= len(filtered) {
		return nil, nil
	}
	end := start + q.PageSize
	if end > len(filtered) {
		end = len(filtered)
	}
	return filtered[start:end], nil
}

func newTable(src *fakeSource) *Table[rideRow] {
	return &Table[rideRow]{
		Name:  "rides",
		Fetch: src.fetch,
		Counts: func(context.Context) (models.StatusCounts, error) {
			return models.StatusCounts{Counts: map[string]int64{"count": 7, "active": 4, "ongoing": 3}}, nil
		},
		Columns:    rideColumns,
		Searchable: []string{"title"},
		Filter:     &StatusFilter{Labels: []string{"Active", "Ongoing"}},
		Export:     ExportOptions{Enabled: true, FileName: "rides"},
	}
}

func sampleSource() *fakeSource {
	src := &fakeSource{}
	for i := 0; i < 4; i++ {
		src.rows = append(src.rows, rideRow{Title: fmt.Sprintf("Coastal run %d", i), Status: "Active"})
	}
	for i := 0; i < 3; i++ {
		src.rows = append(src.rows, rideRow{Title: fmt.Sprintf("Night ride %d", i), Status: "Ongoing"})
	}
	return src
}

func TestLoadDefaults(t *testing.T) {
	src := sampleSource()
	result, err := newTable(src).Load(context.Background(), Query{})
	require.NoError(t, err)

	a := assert.New(t)
	a.Equal([]FetchQuery{{Page: 1, PageSize: 5, Status: "all"}}, src.queries)
	a.Len(result.Rows, 5)
	a.Equal(5, result.Fetched)
	a.Equal(int64(7), result.Total)
	a.Equal("all", result.Status)
	a.Equal([]FilterOption{
		{Label: "all", Count: 7, Active: true},
		{Label: "Active", Count: 4},
		{Label: "Ongoing", Count: 3},
	}, result.Filters)
}

func TestStatusFilterRefetchesAndUpdatesTotal(t *testing.T) {
	src := sampleSource()
	result, err := newTable(src).Load(context.Background(), Query{Status: "Ongoing", PageSize: 10})
	require.NoError(t, err)

	assert.Equal(t, "ongoing", src.queries[0].Status)
	assert.Len(t, result.Rows, 3)
	assert.Equal(t, int64(3), result.Total)
	assert.True(t, result.Filters[2].Active)
}

func TestLoadRejectsUnknownOptions(t *testing.T) {
	table := newTable(sampleSource())

	_, err := table.Load(context.Background(), Query{PageSize: 7})
	assert.ErrorIs(t, err, errs.ErrInvalidField)

	_, err = table.Load(context.Background(), Query{Status: "deleted"})
	assert.ErrorIs(t, err, errs.ErrInvalidField)

	failing := newTable(sampleSource())
	boom := errors.New("store down")
	failing.Fetch = func(context.Context, FetchQuery) ([]rideRow, error) { return nil, boom }
	_, err = failing.Load(context.Background(), Query{})
	assert.ErrorIs(t, err, boom)
}

func TestSearchOnlyCoversCurrentPage(t *testing.T) {
	src := sampleSource()
	table := newTable(src)

	// "Night ride 2" lives on page 2 at page size 5, so page 1 has no match
	result, err := table.Load(context.Background(), Query{Search: map[string]string{"title": "ride 2"}})
	require.NoError(t, err)
	assert.Empty(t, result.Rows)
	assert.Equal(t, 5, result.Fetched)

	result, err = table.Load(context.Background(), Query{Page: 2, Search: map[string]string{"title": "NIGHT"}})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Equal(t, []Segment{{Text: "Night", Match: true}, {Text: " ride 1"}}, result.Rows[0].Highlights["title"])

	// clearing the search restores the page
	result, err = table.Load(context.Background(), Query{Page: 2, Search: map[string]string{"title": "  "}})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 2)
	assert.Nil(t, result.Rows[0].Highlights)

	// columns that are not searchable are ignored
	result, err = table.Load(context.Background(), Query{Search: map[string]string{"status": "ongoing"}})
	require.NoError(t, err)
	assert.Len(t, result.Rows, 5)
}

func TestColumnVisibility(t *testing.T) {
	table := newTable(sampleSource())
	result, err := table.Load(context.Background(), Query{Hidden: []string{"status", "action"}})
	require.NoError(t, err)

	assert.Equal(t, []ColumnState{
		{Key: "title", Title: "Title", Visible: true, Searchable: true},
		{Key: "status", Title: "Status", Visible: false},
		{Key: "action", Title: "Action", Visible: true},
	}, result.Columns)

	visible := table.VisibleColumns([]string{"status"})
	assert.Len(t, visible, 2)
	assert.Len(t, exportColumns(visible), 1)
}

func TestHighlight(t *testing.T) {
	tests := []struct {
		text, term string
		want       []Segment
		found      bool
	}{
		{"Sunrise Loop", "loop", []Segment{{Text: "Sunrise "}, {Text: "Loop", Match: true}}, true},
		{"abcabc", "B", []Segment{{Text: "a"}, {Text: "b", Match: true}, {Text: "ca"}, {Text: "b", Match: true}, {Text: "c"}}, true},
		{"Ärger über", "ÜBER", []Segment{{Text: "Ärger "}, {Text: "über", Match: true}}, true},
		{"Coastal", "night", nil, false},
		{"Coastal", "", []Segment{{Text: "Coastal"}}, true},
	}
	for _, tt := range tests {
		t.Run(tt.text+"/"+tt.term, func(t *testing.T) {
			got, found := Highlight(tt.text, tt.term)
			assert.Equal(t, tt.found, found)
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Highlight() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestExportPage(t *testing.T) {
	src := sampleSource()
	table := newTable(src)

	var xlsx bytes.Buffer
	require.NoError(t, table.ExportPage(context.Background(), &xlsx, FormatXLSX, Query{Hidden: []string{"status"}}))

	f, err := excelize.OpenReader(&xlsx)
	require.NoError(t, err)
	defer f.Close()
	rows, err := f.GetRows(sheetName)
	require.NoError(t, err)
	require.Len(t, rows, 6)
	assert.Equal(t, []string{"Title"}, rows[0])
	assert.Equal(t, []string{"Coastal run 0"}, rows[1])

	var pdf bytes.Buffer
	require.NoError(t, table.ExportPage(context.Background(), &pdf, FormatPDF, Query{}))
	assert.True(t, bytes.HasPrefix(pdf.Bytes(), []byte("%PDF-")))

	table.Export.Enabled = false
	err = table.ExportPage(context.Background(), &pdf, FormatPDF, Query{})
	assert.True(t, errs.IsForbidden(err))
}

func TestParseFormat(t *testing.T) {
	f, err := ParseFormat("PDF")
	require.NoError(t, err)
	assert.Equal(t, FormatPDF, f)
	assert.Equal(t, "rides.pdf", f.FileName("rides"))
	assert.Equal(t, "application/pdf", f.ContentType())

	_, err = ParseFormat("csv")
	assert.Error(t, err)
}
