package api

import (
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/models"
	"github.com/rpupo63/unified-admin-dashboard/session"
)

type authHandler struct {
	responder Responder
	logger    zerolog.Logger
	auth      *auth.Service
}

func newAuthHandler(authService *auth.Service) authHandler {
	logger := log.With().Str("handlerName", "authHandler").Logger()
	return authHandler{
		responder: NewResponder(logger),
		logger:    logger,
		auth:      authService,
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// SessionResponse is what the dashboard needs to draw itself for a user.
type SessionResponse struct {
	Token        string           `json:"token,omitempty"`
	Session      *session.Context `json:"session"`
	Menu         []auth.MenuItem  `json:"menu"`
	LandingRoute string           `json:"landingRoute"`
}

func sessionResponse(token string, sess *session.Context) SessionResponse {
	return SessionResponse{
		Token:        token,
		Session:      sess,
		Menu:         auth.Menu(sess.Role, sess.SubRole),
		LandingRoute: auth.LandingRoute(sess),
	}
}

// login signs in with email and password and starts a session
// @Summary Sign in
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body loginRequest true "Email and password"
// @Success 200 {object} SessionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized - Wrong email or password"
// @Failure 403 {object} ErrorResponse "Forbidden - Account has no role"
// @Failure 429 {object} ErrorResponse "Too Many Requests"
// @Router /auth/login [post]
func (h authHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req loginRequest
		if err := decodeJSON(w, r, "credentials", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		token, sess, err := h.auth.Login(r.Context(), req.Email, req.Password)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.logger.Info().Str("userID", sess.UserID).Str("role", sess.Role).Msg("signed in")
		h.responder.WriteJSON(w, sessionResponse(token, sess))
	}
}

// @Router /auth/logout [post]
func (h authHandler) logout() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.auth.Logout(r.Context(), sess.SessionID); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "signed out successfully")
	}
}

// getSession returns the live session with its menu and landing route
// @Router /auth/session [get]
func (h authHandler) getSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteJSON(w, sessionResponse("", sess))
	}
}

type routeRequest struct {
	Route string `json:"route" validate:"required,startswith=/,max=200"`
}

// rememberRoute stores the last visited dashboard route
// @Router /auth/session/route [put]
func (h authHandler) rememberRoute() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		sess, err := ctxGetSession(r.Context())
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		var req routeRequest
		if err := decodeJSON(w, r, "route", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := models.Validate(&req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		if err := h.auth.RememberRoute(r.Context(), sess, req.Route); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteSuccess(w, "route saved")
	}
}

// createUser creates a dashboard account and its role
// @Summary Create user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body auth.NewUser true "Account and role"
// @Success 201 {object} models.UserRole
// @Failure 409 {object} ErrorResponse "Conflict - Email already registered"
// @Router /auth/users [post]
func (h authHandler) createUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req auth.NewUser
		if err := decodeJSON(w, r, "user", &req); err != nil {
			h.responder.WriteError(w, err)
			return
		}
		role, err := h.auth.CreateUser(r.Context(), req)
		if err != nil {
			h.responder.WriteError(w, err)
			return
		}
		h.responder.WriteCreated(w, role)
	}
}
