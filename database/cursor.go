package database

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

// Cursor marks the last row of a page: its sort value and id.
type Cursor struct {
	Value string `json:"v"`
	ID    string `json:"id"`
}

// Encode renders the cursor as an opaque url-safe token.
func (c Cursor) Encode() string {
	raw, _ := json.Marshal(c)
	return base64.RawURLEncoding.EncodeToString(raw)
}

func DecodeCursor(token string) (*Cursor, error) {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil, errs.NewInvalidCursorError(err)
	}
	var c Cursor
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, errs.NewInvalidCursorError(err)
	}
	if c.ID == "" {
		return nil, errs.NewInvalidCursorError(fmt.Errorf("cursor has no id"))
	}
	return &c, nil
}

// pageFilter restricts base to the rows ordered strictly after the cursor
// under the (sortField, _id) ordering.
func pageFilter(base bson.M, sortField string, after *Cursor) bson.M {
	if after == nil {
		if base == nil {
			return bson.M{}
		}
		return base
	}
	afterCursor := bson.M{"$or": bson.A{
		bson.M{sortField: bson.M{"$gt": after.Value}},
		bson.M{sortField: after.Value, "_id": bson.M{"$gt": after.ID}},
	}}
	if len(base) == 0 {
		return afterCursor
	}
	return bson.M{"$and": bson.A{base, afterCursor}}
}

func pageSort(sortField string) bson.D {
	return bson.D{{Key: sortField, Value: 1}, {Key: "_id", Value: 1}}
}

// CursorBook remembers, per listing scope, the cursor that ends each fetched page.
// Page 1 never needs a cursor; page N continues after the cursor recorded for N-1.
type CursorBook struct {
	Scopes map[string]map[int]Cursor `json:"scopes"`
}

func NewCursorBook() *CursorBook {
	return &CursorBook{Scopes: map[string]map[int]Cursor{}}
}

// ScopeKey identifies one listing under one status filter and page size.
// Changing any of the three starts a fresh sequence of cursors.
func ScopeKey(listing, status string, pageSize int) string {
	return fmt.Sprintf("%s|%s|%d", listing, status, pageSize)
}

// Record stores the cursor ending page. A nil cursor (empty page) clears it.
func (b *CursorBook) Record(scope string, page int, end *Cursor) {
	if b.Scopes == nil {
		b.Scopes = map[string]map[int]Cursor{}
	}
	pages, ok := b.Scopes[scope]
	if !ok {
		pages = map[int]Cursor{}
		b.Scopes[scope] = pages
	}
	if end == nil {
		delete(pages, page)
		return
	}
	pages[page] = *end
}

// Start returns the first page that must be fetched to reach page, and the
// cursor to fetch it after. When the cursor of page-1 is known the answer is
// (page, cursor); otherwise the walk resumes from the closest earlier page
// whose cursor is known, or from page 1.
func (b *CursorBook) Start(scope string, page int) (int, *Cursor) {
	if page <= 1 {
		return 1, nil
	}
	pages := b.Scopes[scope]
	if c, ok := pages[page-1]; ok {
		return page, &c
	}

	known := make([]int, 0, len(pages))
	for p := range pages {
		if p < page-1 {
			known = append(known, p)
		}
	}
	if len(known) == 0 {
		return 1, nil
	}
	sort.Ints(known)
	last := known[len(known)-1]
	c := pages[last]
	return last + 1, &c
}

// Reset forgets every cursor of the listing, whatever its status or page size.
func (b *CursorBook) Reset(listing string) {
	prefix := listing + "|"
	for scope := range b.Scopes {
		if strings.HasPrefix(scope, prefix) {
			delete(b.Scopes, scope)
		}
	}
}

// Clone returns a copy that shares no maps with b.
func (b *CursorBook) Clone() *CursorBook {
	c := &CursorBook{Scopes: make(map[string]map[int]Cursor, len(b.Scopes))}
	for scope, pages := range b.Scopes {
		cp := make(map[int]Cursor, len(pages))
		for p, cur := range pages {
			cp[p] = cur
		}
		c.Scopes[scope] = cp
	}
	return c
}
