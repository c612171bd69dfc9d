package auth

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

// RoleStore reads and writes the user-roles side documents.
type RoleStore interface {
	Get(ctx context.Context, userID string) (*models.UserRole, error)
	Set(ctx context.Context, role *models.UserRole) error
}

type Service struct {
	provider Provider
	roles    RoleStore
	sessions session.Store
	tokens   Tokens
	now      func() time.Time
}

func NewService(provider Provider, roles RoleStore, sessions session.Store, tokens Tokens) *Service {
	return &Service{
		provider: provider,
		roles:    roles,
		sessions: sessions,
		tokens:   tokens,
		now:      time.Now,
	}
}

func (s *Service) Sessions() session.Store {
	return s.sessions
}

// Login verifies the credentials, loads the account's role document and
// starts a session. Accounts without a role document cannot sign in.
func (s *Service) Login(ctx context.Context, email, password string) (string, *session.Context, error) {
	identity, err := s.provider.SignIn(ctx, email, password)
	if err != nil {
		return "", nil, err
	}

	role, err := s.roles.Get(ctx, identity.UserID)
	if errs.IsNotFound(err) {
		log.Warn().Str("userID", identity.UserID).Msg("sign-in without role document")
		return "", nil, errs.NewRoleNotDefinedError(identity.UserID)
	}
	if err != nil {
		return "", nil, err
	}

	sess := session.New(identity.UserID, identity.Email, role.Main, role.SubRole, s.now())
	if err := s.sessions.Save(ctx, sess); err != nil {
		return "", nil, err
	}
	token, err := s.tokens.Issue(sess.SessionID, sess.UserID, s.now())
	if err != nil {
		return "", nil, err
	}
	return token, sess, nil
}

func (s *Service) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate resolves a bearer token to its live session.
func (s *Service) Authenticate(ctx context.Context, token string) (*session.Context, error) {
	if token == "" {
		return nil, errs.NewMissingTokenError()
	}
	claims, err := s.tokens.Parse(token)
	if err != nil {
		return nil, err
	}
	return s.sessions.Get(ctx, claims.SessionID)
}

// RememberRoute stores the last visited dashboard route of the session.
func (s *Service) RememberRoute(ctx context.Context, sess *session.Context, route string) error {
	sess.LastRoute = route
	return s.sessions.Save(ctx, sess)
}

// LandingRoute is the remembered route, or the role's default.
func LandingRoute(sess *session.Context) string {
	if sess.LastRoute != "" {
		return sess.LastRoute
	}
	return DefaultRoute(sess.Role)
}

type NewUser struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     string `json:"role" validate:"required"`
	SubRole  string `json:"subRole"`
}

// CreateUser creates the account with the provider, then its role document.
func (s *Service) CreateUser(ctx context.Context, u NewUser) (*models.UserRole, error) {
	if err := models.Validate(&u); err != nil {
		return nil, err
	}
	role := models.NewUserRole("pending", u.Role, u.SubRole)
	if err := models.Validate(&role); err != nil {
		return nil, err
	}

	identity, err := s.provider.CreateUser(ctx, u.Email, u.Password)
	if err != nil {
		return nil, err
	}
	role.ID = identity.UserID
	if err := s.roles.Set(ctx, &role); err != nil {
		return nil, err
	}
	log.Info().Str("userID", identity.UserID).Str("role", role.Main).Msg("dashboard user created")
	return &role, nil
}
