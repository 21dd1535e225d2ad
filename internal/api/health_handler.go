package api

import (
	"net/http"

	"github.com/dispatchd/dispatch-api/internal/api/shared"
	"github.com/dispatchd/dispatch-api/internal/queue"
)

// HealthResponse is the liveness response body.
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// WorkerStatusResponse is a point-in-time snapshot of the worker pool.
type WorkerStatusResponse struct {
	WorkerCount   int `json:"worker_count"`
	QueuedItems   int `json:"queued_items"`
	InFlightItems int `json:"in_flight_items"`
}

// HealthHandler serves the liveness and worker-status endpoints.
type HealthHandler struct {
	broker      queue.Broker
	workerCount int
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(broker queue.Broker, workerCount int) *HealthHandler {
	return &HealthHandler{
		broker:      broker,
		workerCount: workerCount,
	}
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, HealthResponse{
		Status:  "healthy",
		Message: "API is running",
	})
}

// Workers handles GET /health/workers requests.
func (h *HealthHandler) Workers(w http.ResponseWriter, r *http.Request) {
	shared.RespondWithJSON(w, r, http.StatusOK, WorkerStatusResponse{
		WorkerCount:   h.workerCount,
		QueuedItems:   h.broker.Len(),
		InFlightItems: h.broker.InFlight(),
	})
}
