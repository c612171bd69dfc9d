package session

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/database"
	"github.com/rpupo63/unified-admin-dashboard/errs"
)

const MemoryStoreSize = 1024

var _ Store = &MemoryStore{}

// MemoryStore keeps sessions in process. Sessions are lost on restart and are
// not shared between replicas. Cursor books are copied in and out so that
// concurrent requests of one session never share a book.
type MemoryStore struct {
	sessions *expirable.LRU[string, Context]
	cursors  *expirable.LRU[string, *database.CursorBook]
}

func NewMemoryStore(ttl time.Duration) *MemoryStore {
	s := &MemoryStore{
		cursors: expirable.NewLRU[string, *database.CursorBook](MemoryStoreSize, nil, ttl),
	}
	s.sessions = expirable.NewLRU(MemoryStoreSize, func(id string, _ Context) {
		log.Debug().Str("sessionID", id).Msg("session expired")
		s.cursors.Remove(id)
	}, ttl)
	return s
}

func (s *MemoryStore) Save(_ context.Context, c *Context) error {
	s.sessions.Add(c.SessionID, *c)
	return nil
}

func (s *MemoryStore) Get(_ context.Context, id string) (*Context, error) {
	c, ok := s.sessions.Get(id)
	if !ok {
		return nil, errs.NewSessionEndedError()
	}
	return &c, nil
}

func (s *MemoryStore) Delete(_ context.Context, id string) error {
	s.sessions.Remove(id)
	s.cursors.Remove(id)
	return nil
}

func (s *MemoryStore) SaveCursors(_ context.Context, id string, book *database.CursorBook) error {
	if !s.sessions.Contains(id) {
		return errs.NewSessionEndedError()
	}
	s.cursors.Add(id, book.Clone())
	return nil
}

func (s *MemoryStore) Cursors(_ context.Context, id string) (*database.CursorBook, error) {
	if !s.sessions.Contains(id) {
		return nil, errs.NewSessionEndedError()
	}
	if book, ok := s.cursors.Get(id); ok {
		return book.Clone(), nil
	}
	return database.NewCursorBook(), nil
}
