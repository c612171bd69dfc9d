package auth

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-admin-dashboard/errs"
)

func TestLocalProvider(t *testing.T) {
	dsn := os.Getenv("ACCOUNTS_TEST_DSN")
	if dsn == "" {
		t.Skip("ACCOUNTS_TEST_DSN not set")
	}
	db, err := OpenAccounts(dsn, "")
	require.NoError(t, err)

	p := NewLocalProvider(db)
	ctx := context.Background()
	email := uuid.NewString()[:8] + "@Example.com"
	t.Cleanup(func() {
		db.Where("email = ?", normalizeEmail(email)).Delete(&Account{})
	})

	created, err := p.CreateUser(ctx, email, "secret1")
	require.NoError(t, err)
	assert.Equal(t, normalizeEmail(email), created.Email)

	_, err = p.CreateUser(ctx, email, "secret2")
	assert.True(t, errs.IsConflict(err))

	signedIn, err := p.SignIn(ctx, email, "secret1")
	require.NoError(t, err)
	assert.Equal(t, created.UserID, signedIn.UserID)

	_, err = p.SignIn(ctx, email, "wrong")
	assert.True(t, errs.IsInvalidCredentialsError(err))
	_, err = p.SignIn(ctx, "missing@example.com", "secret1")
	assert.True(t, errs.IsInvalidCredentialsError(err))
}
