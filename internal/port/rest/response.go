package rest

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/devhermez/full-stack-sneakup/internal/platform/logger"
	"github.com/devhermez/full-stack-sneakup/internal/service"
)

const msgServerError = "Server error"

type messageResponse struct {
	Message string `json:"message"`
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v == nil {
		return
	}
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, messageResponse{Message: msg})
}

// respondError maps service errors onto status codes. notFound is the message
// used for service.ErrNotFound, which differs per resource. Unknown errors are
// logged and answered with a generic 500 so internals never reach the client.
func respondError(w http.ResponseWriter, log logger.Logger, err error, notFound string) {
	var verr *service.ValidationError
	switch {
	case errors.As(err, &verr):
		respondMessage(w, http.StatusBadRequest, verr.Msg)
	case errors.Is(err, service.ErrEmailTaken):
		respondMessage(w, http.StatusBadRequest, "User already exists")
	case errors.Is(err, service.ErrInvalidCredentials):
		respondMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrInvalidResetToken):
		respondMessage(w, http.StatusBadRequest, "Invalid or expired token")
	case errors.Is(err, service.ErrUserNotFound):
		respondMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrNotFound):
		respondMessage(w, http.StatusNotFound, notFound)
	case errors.Is(err, service.ErrForbidden):
		respondMessage(w, http.StatusForbidden, "Not authorized for this order")
	case errors.Is(err, service.ErrStorageDisabled):
		respondMessage(w, http.StatusServiceUnavailable, "Image storage is not configured")
	default:
		log.Errorf("Unhandled request error: %v", err)
		respondMessage(w, http.StatusInternalServerError, msgServerError)
	}
}
