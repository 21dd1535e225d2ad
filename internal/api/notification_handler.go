package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/api/shared"
	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/service"
)

// CreateNotificationRequest represents the request body for submitting
// a new email notification.
type CreateNotificationRequest struct {
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required"`
	Email   string `json:"email"   validate:"required,email"`
	UserID  string `json:"user_id" validate:"omitempty,uuid"`
}

// NotificationResponse represents the response data for a notification.
type NotificationResponse struct {
	ID           string    `json:"id"`
	UserID       string    `json:"user_id,omitempty"`
	Subject      string    `json:"subject"`
	Message      string    `json:"message"`
	Email        string    `json:"email"`
	IsSent       bool      `json:"is_sent"`
	ErrorMessage string    `json:"error_message,omitempty"`
	SentAt       time.Time `json:"sent_at"`
}

// NotificationHandler handles notification-related HTTP requests.
type NotificationHandler struct {
	notifications service.NotificationService
	logger        *slog.Logger
}

// NewNotificationHandler creates a new NotificationHandler.
func NewNotificationHandler(notifications service.NotificationService, logger *slog.Logger) *NotificationHandler {
	return &NotificationHandler{
		notifications: notifications,
		logger:        logger.With(slog.String("component", "notification_handler")),
	}
}

// Create handles POST /api/notifications requests. The notification is
// created and enqueued; delivery happens asynchronously, so the
// response is 202 Accepted with the initial record snapshot.
func (h *NotificationHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateNotificationRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorDetails(w, r, http.StatusBadRequest,
			"Validation error", shared.ValidationDetails(err))
		return
	}

	var userID *uuid.UUID
	if req.UserID != "" {
		id, err := uuid.Parse(req.UserID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id")
			return
		}
		userID = &id
	}

	notification, err := h.notifications.CreateAndEnqueue(r.Context(), userID, req.Subject, req.Message, req.Email)
	if err != nil {
		respondServiceError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, notificationToResponse(notification))
}

// Get handles GET /api/notifications/{id} requests.
func (h *NotificationHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid notification ID")
		return
	}

	notification, err := h.notifications.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, notificationToResponse(notification))
}

// List handles GET /api/notifications requests, optionally filtered by
// ?user_id=.
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	var userID *uuid.UUID
	if raw := r.URL.Query().Get("user_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid user_id")
			return
		}
		userID = &id
	}

	notifications, err := h.notifications.List(r.Context(), userID)
	if err != nil {
		respondServiceError(w, r, err, h.logger)
		return
	}

	responses := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		responses = append(responses, notificationToResponse(n))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// notificationToResponse converts a domain.Notification to its DTO.
func notificationToResponse(n *domain.Notification) NotificationResponse {
	resp := NotificationResponse{
		ID:           n.ID.String(),
		Subject:      n.Subject,
		Message:      n.Message,
		Email:        n.Email,
		IsSent:       n.IsSent,
		ErrorMessage: n.ErrorMessage,
		SentAt:       n.SentAt,
	}
	if n.UserID != nil {
		resp.UserID = n.UserID.String()
	}
	return resp
}
