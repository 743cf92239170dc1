package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"rentshare-backend/internal/domain"
	"rentshare-backend/internal/logger"
)

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// statusFor maps a domain error class to an HTTP status and a stable code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrTransient):
		return http.StatusServiceUnavailable, "transient"
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, domain.ErrOutOfStock):
		return http.StatusConflict, "out_of_stock"
	case errors.Is(err, domain.ErrAlreadyTerminal):
		return http.StatusConflict, "already_terminal"
	case errors.Is(err, domain.ErrPaymentNotVerified):
		return http.StatusConflict, "payment_not_verified"
	case errors.Is(err, domain.ErrInvalidTransition):
		return http.StatusConflict, "invalid_transition"
	case errors.Is(err, domain.ErrKYCRequired):
		return http.StatusForbidden, "kyc_required"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "forbidden"
	case errors.Is(err, domain.ErrInvalidInput):
		return http.StatusBadRequest, "invalid_input"
	case errors.Is(err, errUnauthenticated):
		return http.StatusUnauthorized, "unauthenticated"
	}
	return http.StatusInternalServerError, "internal"
}

var errUnauthenticated = errors.New("unauthenticated")

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := statusFor(err)
	msg := err.Error()
	if status == http.StatusInternalServerError {
		logger.ErrorContext(r.Context(), "Request failed", "path", r.URL.Path, "error", err)
		msg = "internal error"
	} else {
		logger.DebugContext(r.Context(), "Request rejected", "path", r.URL.Path, "status", status, "error", err)
	}
	writeJSON(w, status, errorResponse{Error: msg, Code: code})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body == nil {
		return
	}
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response", "error", err)
	}
}
