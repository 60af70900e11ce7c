package api

import (
	"context"
	"fmt"
	"net/http"
	"runtime/debug"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/sirupsen/logrus"

	"github.com/Kerhoff/MessBoT/internal/auth"
	"github.com/Kerhoff/MessBoT/internal/models"
)

type contextKey int

const (
	claimsKey contextKey = iota
	requestStateKey
)

// requestState is shared between the outer logging middleware and the
// inner auth middleware so the access log can carry the caller's id.
type requestState struct {
	userID string
}

// claimsFrom returns the verified token claims of the request, if any
func claimsFrom(ctx context.Context) (*auth.Claims, bool) {
	claims, ok := ctx.Value(claimsKey).(*auth.Claims)
	return claims, ok
}

// currentUserID returns the id of the authenticated caller. Only valid
// behind authenticate.
func currentUserID(r *http.Request) string {
	if claims, ok := claimsFrom(r.Context()); ok {
		return claims.UserID
	}
	return ""
}

// requestLogger logs every request once it completes and records its
// metrics under the matched route pattern.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		state := &requestState{}
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r.WithContext(context.WithValue(r.Context(), requestStateKey, state)))

		elapsed := time.Since(start)
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		s.metrics.ObserveRequest(r.Method, route, status, elapsed)

		entry := s.logger.WithFields(logrus.Fields{
			"request_id":  middleware.GetReqID(r.Context()),
			"method":      r.Method,
			"path":        r.URL.Path,
			"status":      status,
			"duration_ms": elapsed.Milliseconds(),
		})
		if state.userID != "" {
			entry = entry.WithField("user_id", state.userID)
		}
		if status >= http.StatusBadRequest {
			entry.Warn("Request completed")
		} else {
			entry.Info("Request completed")
		}
	})
}

// recoverer turns a handler panic into a 500 envelope
func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				s.logger.WithFields(logrus.Fields{
					"request_id": middleware.GetReqID(r.Context()),
					"panic":      rec,
					"stack":      string(debug.Stack()),
				}).Error("Recovered from panic in HTTP handler")
				s.respondError(w, r, fmt.Errorf("panic: %v", rec))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) corsHandler() func(http.Handler) http.Handler {
	origins := s.opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type", "X-Request-ID"},
		ExposedHeaders: []string{"Content-Disposition", "X-Request-ID"},
		MaxAge:         300,
	})
}

// authRateLimit limits auth routes per client IP
func (s *Server) authRateLimit() func(http.Handler) http.Handler {
	if s.opts.AuthRateLimit <= 0 {
		return func(next http.Handler) http.Handler { return next }
	}
	return httprate.Limit(
		s.opts.AuthRateLimit,
		time.Minute,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(w http.ResponseWriter, r *http.Request) {
			s.respondFailure(w, http.StatusTooManyRequests, "Too many requests, please try again later")
		}),
	)
}

// authenticate requires a valid bearer token and stores its claims on the
// request context.
func (s *Server) authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		token, found := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !found || token == "" {
			s.respondFailure(w, http.StatusUnauthorized, "No token provided")
			return
		}

		claims, err := s.tokens.ValidateToken(token)
		if err != nil {
			s.respondFailure(w, http.StatusUnauthorized, "Invalid or expired token")
			return
		}

		if state, ok := r.Context().Value(requestStateKey).(*requestState); ok {
			state.userID = claims.UserID
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), claimsKey, claims)))
	})
}

// requireRole admits only callers holding one of roles. It must run after
// authenticate.
func (s *Server) requireRole(roles ...models.Role) func(http.Handler) http.Handler {
	names := make([]string, len(roles))
	for i, role := range roles {
		names[i] = string(role)
	}
	denied := "Access denied. Required role: " + strings.Join(names, " or ")

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := claimsFrom(r.Context())
			if !ok {
				s.respondFailure(w, http.StatusUnauthorized, "No token provided")
				return
			}
			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}
			s.respondFailure(w, http.StatusForbidden, denied)
		})
	}
}
