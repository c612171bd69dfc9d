package api

import (
	"context"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type keyType string

const sessionKey keyType = "session"

// ctxWithSession adds the signed-in session to the context
func ctxWithSession(ctx context.Context, sess *session.Context) context.Context {
	return context.WithValue(ctx, sessionKey, sess)
}

// ctxGetSession retrieves the session put there by the auth middleware
func ctxGetSession(ctx context.Context) (*session.Context, error) {
	sess, ok := ctx.Value(sessionKey).(*session.Context)
	if !ok || sess == nil {
		return nil, errs.NewSessionEndedError()
	}
	return sess, nil
}
