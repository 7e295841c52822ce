package http

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"borrowhub-backend/internal/logger"
	"borrowhub-backend/internal/metrics"
	"borrowhub-backend/internal/security"
)

type contextKey string

const (
	contextKeyUserID    contextKey = "user_id"
	contextKeyIsAdmin   contextKey = "is_admin"
	contextKeyRequestID contextKey = "request_id"
)

// userID returns the authenticated actor from the request context.
func userID(r *http.Request) int32 {
	id, _ := r.Context().Value(contextKeyUserID).(int32)
	return id
}

func isAdmin(r *http.Request) bool {
	admin, _ := r.Context().Value(contextKeyIsAdmin).(bool)
	return admin
}

// RequestIDMiddleware tags every request with an id for log correlation.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		reqID := r.Header.Get("X-Request-ID")
		if reqID == "" {
			reqID = uuid.NewString()
		}
		w.Header().Set("X-Request-ID", reqID)
		ctx := context.WithValue(r.Context(), contextKeyRequestID, reqID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// AuthMiddleware resolves the acting user from the bearer token.
func AuthMiddleware(tokens security.TokenManager) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			if !strings.HasPrefix(header, "Bearer ") {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "missing bearer token", Code: "unauthenticated"})
				return
			}
			claims, err := tokens.ValidateToken(strings.TrimPrefix(header, "Bearer "))
			if err != nil {
				writeJSON(w, http.StatusUnauthorized, errorResponse{Error: err.Error(), Code: "unauthenticated"})
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyUserID, claims.UserID)
			ctx = context.WithValue(ctx, contextKeyIsAdmin, claims.IsAdmin)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminOnly guards admin endpoints such as dispute resolution.
func AdminOnly(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !isAdmin(r) {
			writeJSON(w, http.StatusForbidden, errorResponse{Error: "admin access required", Code: "unauthorized"})
			return
		}
		next(w, r)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

// MetricsMiddleware counts handled requests per route template.
func MetricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := r.URL.Path
		if current := mux.CurrentRoute(r); current != nil {
			if tmpl, err := current.GetPathTemplate(); err == nil {
				route = tmpl
			}
		}
		metrics.HTTPRequests.WithLabelValues(route, r.Method, strconv.Itoa(rec.status)).Inc()
		logger.Debug("Handled request", "method", r.Method, "route", route, "status", rec.status)
	})
}
