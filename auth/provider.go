package auth

import "context"

// Identity is what an identity provider knows about an account.
type Identity struct {
	UserID string
	Email  string
}

// Provider verifies passwords and creates accounts. Role information is not
// the provider's concern; it lives in the user-roles side documents.
type Provider interface {
	SignIn(ctx context.Context, email, password string) (Identity, error)
	CreateUser(ctx context.Context, email, password string) (Identity, error)
}
