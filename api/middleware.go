package api

import (
	"net"
	"net/http"
	"os"
	"runtime/debug"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httprate"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rpupo63/unified-admin-dashboard/auth"
	"github.com/rpupo63/unified-admin-dashboard/config"
	"github.com/rpupo63/unified-admin-dashboard/errs"
	"github.com/rpupo63/unified-admin-dashboard/metrics"
	"github.com/rpupo63/unified-admin-dashboard/models"
)

type authMiddleware struct {
	responder Responder
	auth      *auth.Service
}

func newAuthMiddleware(authService *auth.Service) authMiddleware {
	logger := log.With().Str("handlerName", "authMiddleware").Logger()
	return authMiddleware{
		responder: NewResponder(logger),
		auth:      authService,
	}
}

// authenticate resolves the bearer token to a live session.
func (m authMiddleware) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var token string
		if authHeader := r.Header.Get("Authorization"); strings.HasPrefix(authHeader, "Bearer ") {
			token = strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
		}

		sess, err := m.auth.Authenticate(r.Context(), token)
		if err != nil {
			m.responder.WriteError(w, err)
			return
		}

		updatedReq := r.WithContext(ctxWithSession(r.Context(), sess))
		next.ServeHTTP(w, updatedReq)
	})
}

// requireArea admits sessions whose role or sub-role is on the area's allow-list.
func (m authMiddleware) requireArea(area auth.Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			sess, err := ctxGetSession(r.Context())
			if err != nil {
				m.responder.WriteError(w, err)
				return
			}
			if !auth.Allows(area, sess.Role, sess.SubRole) {
				m.responder.WriteError(w, errs.NewInsufficientRoleError(auth.Access[area]))
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// requireProductArea guards routes with a {product} parameter, picking the
// area from the product.
func (m authMiddleware) requireProductArea(areaOf func(models.Product) auth.Area) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			product, err := productParam(r)
			if err != nil {
				m.responder.WriteError(w, err)
				return
			}
			m.requireArea(areaOf(product))(next).ServeHTTP(w, r)
		})
	}
}

// proxyHeaders takes the client address from X-Real-IP or X-Forwarded-For
// only when TRUST_PROXY_HEADERS is set. Without a proxy overwriting them the
// headers are client controlled.
func proxyHeaders(c map[string]string) func(http.Handler) http.Handler {
	if config.GetBool(c, "TRUST_PROXY_HEADERS", false) {
		return middleware.RealIP
	}
	return func(next http.Handler) http.Handler { return next }
}

// loginRateLimit admits at most limit requests per client address within
// window. The key is the connection's address, so forwarding headers only
// count when RealIP is trusted to rewrite it.
func loginRateLimit(limit int, window time.Duration) func(http.Handler) http.Handler {
	responder := NewResponder(log.With().Str("handlerName", "loginRateLimit").Logger())
	return httprate.Limit(limit, window,
		httprate.WithKeyFuncs(remoteHost),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			responder.WriteError(w, errs.NewTooManyRequestsError())
		}),
	)
}

func remoteHost(r *http.Request) (string, error) {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr, nil
	}
	return host, nil
}

type statusResponseWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *statusResponseWriter) WriteHeader(statusCode int) {
	if !w.wroteHeader {
		w.status = statusCode
		w.wroteHeader = true
		w.ResponseWriter.WriteHeader(statusCode)
	}
}

func (w *statusResponseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	return w.ResponseWriter.Write(b)
}

func LogInternalServerErrors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", err).
					Str("stack", string(debug.Stack())).
					Msg("Recovered from panic")

				// Write 500 if nothing written yet
				if !srw.wroteHeader {
					NewResponder(log.Logger).WriteError(srw, errs.NewInternalError("unexpected server error"))
				}
			}
		}()

		next.ServeHTTP(srw, r)

		if srw.status == http.StatusInternalServerError {
			log.Error().
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Msg("500 error response")
		}
	})
}

// CORSCheckMiddleware checks if the request is blocked by CORS and returns a proper error
func CORSCheckMiddleware(allowedOrigins []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			origin := r.Header.Get("Origin")

			// If no origin header, it's likely a same-origin request
			if origin == "" {
				next.ServeHTTP(w, r)
				return
			}

			allowed := false
			for _, allowedOrigin := range allowedOrigins {
				if allowedOrigin == "*" || allowedOrigin == origin {
					allowed = true
					break
				}
			}

			if !allowed && r.Method == http.MethodOptions {
				responder := NewResponder(log.Logger)
				responder.WriteError(w, errs.NewCORSError(origin))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware counts requests by chi route pattern, so ids in paths do
// not explode the label space.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		srw := &statusResponseWriter{ResponseWriter: w, status: 200}

		next.ServeHTTP(srw, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(srw.status)).Inc()
		metrics.HTTPDuration.WithLabelValues(route, r.Method).Observe(time.Since(start).Seconds())
	})
}

// ColoredHTTPLoggingMiddleware logs HTTP requests with colored output based on
// status codes. Without pretty output the global JSON logger is used.
func ColoredHTTPLoggingMiddleware(pretty bool) func(http.Handler) http.Handler {
	requestLogger := log.Logger
	if pretty {
		requestLogger = zerolog.New(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			srw := &statusResponseWriter{ResponseWriter: w, status: 200}

			next.ServeHTTP(srw, r)

			var logEvent *zerolog.Event
			switch {
			case srw.status >= 500:
				logEvent = requestLogger.Error()
			case srw.status >= 400:
				logEvent = requestLogger.Warn()
			default:
				logEvent = requestLogger.Info()
			}

			logEvent.
				Str("method", r.Method).
				Str("path", r.URL.Path).
				Int("status", srw.status).
				Dur("duration", time.Since(start)).
				Str("remote_addr", r.RemoteAddr).
				Msg("HTTP Request")
		})
	}
}
