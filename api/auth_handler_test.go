package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

func authRouter(ta testAuth) http.Handler {
	h := newAuthHandler(ta.service)
	am := newAuthMiddleware(ta.service)

	r := chi.NewRouter()
	r.Post("/auth/login", h.login())
	r.Group(func(r chi.Router) {
		r.Use(am.authenticate)
		r.Post("/auth/logout", h.logout())
		r.Get("/auth/session", h.getSession())
		r.Put("/auth/session/route", h.rememberRoute())
		r.With(am.requireArea(auth.AreaSettings)).Post("/auth/users", h.createUser())
	})
	return r
}

func sendAuthed(t *testing.T, h http.Handler, method, target, token string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestLoginSessionLifecycle(t *testing.T) {
	ta := newTestAuth(t)
	ta.provider.accounts["host@example.com"] = "secret1"
	ta.roles["uid-host@example.com"] = models.NewUserRole("uid-host@example.com", "Vikin", "vikin_host")
	router := authRouter(ta)

	rec := sendAuthed(t, router, http.MethodPost, "/auth/login", "", `{"email":"host@example.com","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = sendAuthed(t, router, http.MethodPost, "/auth/login", "", `{"email":"host@example.com","password":"secret1"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	login := decodeBody[SessionResponse](t, rec)
	require.NotEmpty(t, login.Token)
	assert.Equal(t, models.RoleVikin, login.Session.Role)
	assert.Equal(t, models.SubRoleVikinHost, login.Session.SubRole)
	assert.Equal(t, "/vikin/host-rides", login.LandingRoute)
	assert.Equal(t, auth.Menu(models.RoleVikin, models.SubRoleVikinHost), login.Menu)

	rec = sendAuthed(t, router, http.MethodPut, "/auth/session/route", login.Token, `{"route":"rides"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = sendAuthed(t, router, http.MethodPut, "/auth/session/route", login.Token, `{"route":"/vikin/host-rides/42"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	rec = sendAuthed(t, router, http.MethodGet, "/auth/session", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)
	current := decodeBody[SessionResponse](t, rec)
	assert.Empty(t, current.Token)
	assert.Equal(t, "/vikin/host-rides/42", current.LandingRoute)

	rec = sendAuthed(t, router, http.MethodPost, "/auth/logout", login.Token, "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = sendAuthed(t, router, http.MethodGet, "/auth/session", login.Token, "")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestLoginWithoutRoleIsRejected(t *testing.T) {
	ta := newTestAuth(t)
	ta.provider.accounts["orphan@example.com"] = "secret1"
	router := authRouter(ta)

	rec := sendAuthed(t, router, http.MethodPost, "/auth/login", "", `{"email":"orphan@example.com","password":"secret1"}`)
	assert.Equal(t, http.StatusForbidden, rec.Code)

	rec = sendAuthed(t, router, http.MethodPost, "/auth/login", "", `{"email":"not-an-email","password":"secret1"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCreateUserIsAdminOnly(t *testing.T) {
	ta := newTestAuth(t)
	router := authRouter(ta)
	body := `{"email":"writer@example.com","password":"secret1","role":"vikin","subRole":"vikin_blog"}`

	_, hostToken := ta.signIn(t, models.RoleVikin, models.SubRoleVikinAdmin)
	rec := sendAuthed(t, router, http.MethodPost, "/auth/users", hostToken, body)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Empty(t, ta.roles)

	_, adminToken := ta.signIn(t, models.RoleAdmin, "")
	rec = sendAuthed(t, router, http.MethodPost, "/auth/users", adminToken, body)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	role := ta.roles["uid-writer@example.com"]
	assert.Equal(t, models.RoleVikin, role.Main)
	assert.Equal(t, models.SubRoleVikinBlog, role.SubRole)

	rec = sendAuthed(t, router, http.MethodPost, "/auth/users", adminToken, body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = sendAuthed(t, router, http.MethodPost, "/auth/users", adminToken, `{"email":"x@example.com","password":"secret1","role":"owner"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
