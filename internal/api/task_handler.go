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

// CreateTaskRequest represents the request body for submitting a new
// background task.
type CreateTaskRequest struct {
	Name        string `json:"name"        validate:"required,max=100"`
	Description string `json:"description" validate:"required"`
}

// TaskResponse represents the response data for a task.
type TaskResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Result      string     `json:"result,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// TaskHandler handles task-related HTTP requests.
type TaskHandler struct {
	tasks  service.TaskService
	logger *slog.Logger
}

// NewTaskHandler creates a new TaskHandler.
func NewTaskHandler(tasks service.TaskService, logger *slog.Logger) *TaskHandler {
	return &TaskHandler{
		tasks:  tasks,
		logger: logger.With(slog.String("component", "task_handler")),
	}
}

// Create handles POST /api/tasks requests. Returns 202 Accepted with
// the pending record; execution happens asynchronously.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateTaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithErrorDetails(w, r, http.StatusBadRequest,
			"Validation error", shared.ValidationDetails(err))
		return
	}

	t, err := h.tasks.CreateAndEnqueue(r.Context(), req.Name, req.Description)
	if err != nil {
		respondServiceError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusAccepted, taskToResponse(t))
}

// Get handles GET /api/tasks/{id} requests.
func (h *TaskHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid task ID")
		return
	}

	t, err := h.tasks.Get(r.Context(), id)
	if err != nil {
		respondServiceError(w, r, err, h.logger)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, taskToResponse(t))
}

// List handles GET /api/tasks requests, optionally filtered by ?status=.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	status := domain.TaskStatus(r.URL.Query().Get("status"))
	if status != "" {
		switch status {
		case domain.TaskStatusPending, domain.TaskStatusRunning,
			domain.TaskStatusCompleted, domain.TaskStatusFailed:
		default:
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid status filter")
			return
		}
	}

	tasks, err := h.tasks.List(r.Context(), status)
	if err != nil {
		respondServiceError(w, r, err, h.logger)
		return
	}

	responses := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		responses = append(responses, taskToResponse(t))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// taskToResponse converts a domain.Task to its DTO.
func taskToResponse(t *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          t.ID.String(),
		Name:        t.Name,
		Description: t.Description,
		Status:      string(t.Status),
		Result:      t.Result,
		CreatedAt:   t.CreatedAt,
		CompletedAt: t.CompletedAt,
	}
}
