package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

func echoSession(w http.ResponseWriter, r *http.Request) {
	sess, err := ctxGetSession(r.Context())
	if err != nil {
		http.Error(w, "no session", http.StatusInternalServerError)
		return
	}
	_, _ = w.Write([]byte(sess.Email))
}

func gatedRouter(ta testAuth) http.Handler {
	am := newAuthMiddleware(ta.service)
	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(am.authenticate)
		r.Get("/anyone", echoSession)
		r.With(am.requireArea(auth.AreaVikinRides)).Get("/vikin/rides", echoSession)
		r.With(am.requireProductArea(auth.BlogArea)).Get("/products/{product}/blogs", echoSession)
	})
	return r
}

func get(h http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateRequiresLiveSession(t *testing.T) {
	ta := newTestAuth(t)
	router := gatedRouter(ta)

	rec := get(router, "/anyone", "")
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, errs.LoginRoute, resp.Redirect)

	rec = get(router, "/anyone", "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	sess, token := ta.signIn(t, models.RolePortfolio, "")
	rec = get(router, "/anyone", token)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, sess.Email, rec.Body.String())

	require.NoError(t, ta.sessions.Delete(context.Background(), sess.SessionID))
	rec = get(router, "/anyone", token)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAreaAdmitsRoleOrSubRole(t *testing.T) {
	ta := newTestAuth(t)
	router := gatedRouter(ta)

	tests := []struct {
		role, subRole string
		want          int
	}{
		{models.RoleAdmin, "", http.StatusOK},
		{models.RoleVikin, models.SubRoleVikinHost, http.StatusOK},
		{models.RoleVikin, models.SubRoleVikinAdmin, http.StatusOK},
		{models.RoleVikin, models.SubRoleVikinBlog, http.StatusUnauthorized},
		{models.RolePortfolio, "", http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.role+"/"+tt.subRole, func(t *testing.T) {
			_, token := ta.signIn(t, tt.role, tt.subRole)
			rec := get(router, "/vikin/rides", token)
			assert.Equal(t, tt.want, rec.Code)
			if tt.want == http.StatusUnauthorized {
				resp := decodeBody[ErrorResponse](t, rec)
				assert.Equal(t, errs.LoginRoute, resp.Redirect)
				assert.Equal(t, "authorization", resp.Field)
			}
		})
	}
}

func TestRequireProductArea(t *testing.T) {
	ta := newTestAuth(t)
	router := gatedRouter(ta)
	_, token := ta.signIn(t, models.RoleGraphyl, "")

	assert.Equal(t, http.StatusOK, get(router, "/products/graphyl/blogs", token).Code)
	assert.Equal(t, http.StatusUnauthorized, get(router, "/products/vikin/blogs", token).Code)
	assert.Equal(t, http.StatusNotFound, get(router, "/products/unknown/blogs", token).Code)
}

func TestLoginRateLimit(t *testing.T) {
	h := loginRateLimit(2, time.Minute)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(remote, realIP string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = remote
		if realIP != "" {
			req.Header.Set("X-Real-IP", realIP)
			req.Header.Set("X-Forwarded-For", realIP)
		}
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1000", "").Code)
	assert.Equal(t, http.StatusNoContent, send("192.0.2.1:1001", "").Code)
	rec := send("192.0.2.1:1002", "")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Contains(t, rec.Header().Get("Content-Type"), "application/json")
	assert.Equal(t, http.StatusNoContent, send("192.0.2.2:1000", "").Code)

	// Spoofed forwarding headers do not open a fresh window.
	for i := 0; i < 5; i++ {
		ip := fmt.Sprintf("198.51.100.%d", i+1)
		assert.Equal(t, http.StatusTooManyRequests, send("192.0.2.1:2000", ip).Code, ip)
	}
}

func TestProxyHeaders(t *testing.T) {
	remote := func(c map[string]string) string {
		var got string
		h := proxyHeaders(c)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			got = r.RemoteAddr
		}))
		req := httptest.NewRequest(http.MethodPost, "/auth/login", nil)
		req.RemoteAddr = "192.0.2.9:4000"
		req.Header.Set("X-Real-IP", "203.0.113.7")
		h.ServeHTTP(httptest.NewRecorder(), req)
		return got
	}

	assert.Equal(t, "192.0.2.9:4000", remote(nil))
	assert.Equal(t, "192.0.2.9:4000", remote(map[string]string{"TRUST_PROXY_HEADERS": "false"}))
	assert.Equal(t, "203.0.113.7", remote(map[string]string{"TRUST_PROXY_HEADERS": "true"}))
}

func TestLogInternalServerErrorsRecoversPanics(t *testing.T) {
	h := LogInternalServerErrors(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	resp := decodeBody[ErrorResponse](t, rec)
	assert.Equal(t, "error", resp.Status)
}

func TestCORSCheckMiddleware(t *testing.T) {
	h := CORSCheckMiddleware([]string{"https://admin.example.com"})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	send := func(method, origin string) int {
		req := httptest.NewRequest(method, "/health", nil)
		req.Header.Set("Origin", origin)
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		return rec.Code
	}

	assert.Equal(t, http.StatusNoContent, send(http.MethodOptions, "https://admin.example.com"))
	assert.Equal(t, http.StatusForbidden, send(http.MethodOptions, "https://evil.example.com"))
	assert.Equal(t, http.StatusNoContent, send(http.MethodGet, ""))
}
