package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dispatchd/dispatch-api/internal/api"
	apiMiddleware "github.com/dispatchd/dispatch-api/internal/api/middleware"
)

// setupRouter creates and configures the application router with all
// routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.NewTraceMiddleware(app.logger))

	notificationHandler := api.NewNotificationHandler(app.notificationService, app.logger)
	taskHandler := api.NewTaskHandler(app.taskService, app.logger)
	healthHandler := api.NewHealthHandler(app.broker, app.config.Worker.Count)

	r.Route("/api", func(r chi.Router) {
		r.Post("/notifications", notificationHandler.Create)
		r.Get("/notifications", notificationHandler.List)
		r.Get("/notifications/{id}", notificationHandler.Get)

		r.Post("/tasks", taskHandler.Create)
		r.Get("/tasks", taskHandler.List)
		r.Get("/tasks/{id}", taskHandler.Get)

		// Direct send: create a notification and enqueue it in one call.
		r.Post("/emails", notificationHandler.Create)
	})

	r.Get("/health", healthHandler.Health)
	r.Get("/health/workers", healthHandler.Workers)
	r.Handle("/metrics", promhttp.Handler())

	return r
}
