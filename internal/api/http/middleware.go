package http

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"rentshare-backend/internal/config"
	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

type identityKey struct{}

func withIdentity(ctx context.Context, id domain.Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// identityFrom returns the caller set by the auth middleware.
func identityFrom(ctx context.Context) domain.Identity {
	id, _ := ctx.Value(identityKey{}).(domain.Identity)
	return id
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		w.Header().Set("X-Request-ID", requestID)

		ctx := logger.WithRequestID(r.Context(), requestID)

		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r.WithContext(ctx))
		logger.InfoContext(ctx, "HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}

// authMiddleware enforces config.EndpointSecurityConfig for the matched route.
func (h *Handler) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := ""
		if route := mux.CurrentRoute(r); route != nil {
			name = route.GetName()
		}
		level := config.SecurityFor(name)
		if level == config.SecurityPublic {
			next.ServeHTTP(w, r)
			return
		}

		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || token == "" {
			writeError(w, r, fmt.Errorf("%w: authorization token is not provided", errUnauthenticated))
			return
		}
		claims, err := h.tokens.ValidateToken(token)
		if err != nil {
			writeError(w, r, fmt.Errorf("%w: %v", errUnauthenticated, err))
			return
		}

		identity := claims.Identity()
		if level == config.SecurityTransact && !identity.MayTransact {
			writeError(w, r, domain.ErrKYCRequired)
			return
		}
		next.ServeHTTP(w, r.WithContext(withIdentity(r.Context(), identity)))
	})
}
