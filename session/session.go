package session

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/rpupo63/unified-admin-dashboard/database"
)

// Context is the signed-in user's session. It lives from sign-in until sign-out
// or expiry and is the only place role information is read from on a request.
type Context struct {
	SessionID string    `json:"sessionId"`
	UserID    string    `json:"userId"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	SubRole   string    `json:"subRole,omitempty"`
	LastRoute string    `json:"lastRoute,omitempty"`
	StartedAt time.Time `json:"startedAt"`
}

func New(userID, email, role, subRole string, now time.Time) *Context {
	return &Context{
		SessionID: uuid.NewString(),
		UserID:    userID,
		Email:     email,
		Role:      role,
		SubRole:   subRole,
		StartedAt: now.UTC(),
	}
}

// HasAny reports whether the session's role or sub-role is in allowed.
func (c *Context) HasAny(allowed ...string) bool {
	for _, a := range allowed {
		if a == "" {
			continue
		}
		if a == c.Role || a == c.SubRole {
			return true
		}
	}
	return false
}

// Store keeps sessions and the per-session pagination cursors.
// Get returns errs.ErrSessionEnded for unknown or expired sessions.
type Store interface {
	Save(ctx context.Context, s *Context) error
	Get(ctx context.Context, id string) (*Context, error)
	Delete(ctx context.Context, id string) error
	SaveCursors(ctx context.Context, id string, book *database.CursorBook) error
	Cursors(ctx context.Context, id string) (*database.CursorBook, error)
}
