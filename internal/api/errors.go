package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dispatchd/dispatch-api/internal/api/shared"
	"github.com/dispatchd/dispatch-api/internal/service"
)

// respondServiceError maps service-layer errors to HTTP responses.
// Validation failures carry field detail; not-found maps to 404;
// anything else is an opaque 500 with the real error logged.
func respondServiceError(w http.ResponseWriter, r *http.Request, err error, logger *slog.Logger) {
	var validationErr *service.ValidationError
	if errors.As(err, &validationErr) {
		shared.RespondWithErrorDetails(w, r, http.StatusBadRequest,
			"Validation error", validationErr.Fields)
		return
	}

	switch {
	case errors.Is(err, service.ErrNotificationNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "Notification not found")
	case errors.Is(err, service.ErrTaskNotFound):
		shared.RespondWithError(w, r, http.StatusNotFound, "Task not found")
	default:
		logger.Error("request failed",
			slog.String("error", err.Error()),
			slog.String("path", r.URL.Path),
			slog.String("method", r.Method))
		shared.RespondWithError(w, r, http.StatusInternalServerError, "Internal server error")
	}
}
