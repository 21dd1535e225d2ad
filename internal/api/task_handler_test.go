package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dispatchd/dispatch-api/internal/api/shared"
	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/queue"
	"github.com/dispatchd/dispatch-api/internal/service"
	"github.com/dispatchd/dispatch-api/internal/testutils"
)

type taskAPIFixture struct {
	router *chi.Mux
	store  *testutils.MemoryTaskStore
	broker *queue.MemoryBroker
}

func newTaskAPIFixture(t *testing.T) *taskAPIFixture {
	t.Helper()

	logger := testutils.NewTestLogger()
	store := testutils.NewMemoryTaskStore()
	broker := queue.NewMemoryBroker(16, logger)
	t.Cleanup(broker.Close)

	svc, err := service.NewTaskService(store, broker, logger)
	require.NoError(t, err)

	handler := NewTaskHandler(svc, logger)

	router := chi.NewRouter()
	router.Post("/api/tasks", handler.Create)
	router.Get("/api/tasks", handler.List)
	router.Get("/api/tasks/{id}", handler.Get)

	return &taskAPIFixture{router: router, store: store, broker: broker}
}

func (f *taskAPIFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func TestTaskHandler_CreateAccepted(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	rec := f.do(t, http.MethodPost, "/api/tasks", CreateTaskRequest{
		Name:        "nightly export",
		Description: "export all the things",
	})

	require.Equal(t, http.StatusAccepted, rec.Code)

	var resp TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "nightly export", resp.Name)
	assert.Equal(t, string(domain.TaskStatusPending), resp.Status)
	assert.Nil(t, resp.CompletedAt)

	assert.Equal(t, 1, f.broker.Len())
}

func TestTaskHandler_CreateValidationFailure(t *testing.T) {
	t.Parallel()

	cases := []struct {
		label string
		body  CreateTaskRequest
		field string
	}{
		{"missing name", CreateTaskRequest{Description: "d"}, "name"},
		{"name too long", CreateTaskRequest{Name: strings.Repeat("n", 101), Description: "d"}, "name"},
		{"missing description", CreateTaskRequest{Name: "n"}, "description"},
	}

	for _, tc := range cases {
		tc := tc
		t.Run(tc.label, func(t *testing.T) {
			t.Parallel()

			f := newTaskAPIFixture(t)
			rec := f.do(t, http.MethodPost, "/api/tasks", tc.body)

			require.Equal(t, http.StatusBadRequest, rec.Code)

			var resp shared.ErrorResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Contains(t, resp.Details, tc.field)

			all, err := f.store.List(context.Background(), "")
			require.NoError(t, err)
			assert.Empty(t, all)
			assert.Equal(t, 0, f.broker.Len())
		})
	}
}

func TestTaskHandler_Get(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	created := f.do(t, http.MethodPost, "/api/tasks", CreateTaskRequest{Name: "n", Description: "d"})
	require.Equal(t, http.StatusAccepted, created.Code)

	var submitted TaskResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&submitted))

	rec := f.do(t, http.MethodGet, "/api/tasks/"+submitted.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Equal(t, submitted.ID, got.ID)
	assert.Equal(t, string(domain.TaskStatusPending), got.Status)
}

func TestTaskHandler_GetNotFound(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/tasks/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestTaskHandler_ListFiltersByStatus(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	created := f.do(t, http.MethodPost, "/api/tasks", CreateTaskRequest{Name: "first", Description: "d"})
	require.Equal(t, http.StatusAccepted, created.Code)
	var first TaskResponse
	require.NoError(t, json.NewDecoder(created.Body).Decode(&first))

	rec := f.do(t, http.MethodPost, "/api/tasks", CreateTaskRequest{Name: "second", Description: "d"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	// Complete the first task directly in the store.
	id, err := uuid.Parse(first.ID)
	require.NoError(t, err)
	stored, err := f.store.GetByID(context.Background(), id)
	require.NoError(t, err)
	require.NoError(t, stored.MarkRunning())
	require.NoError(t, stored.MarkCompleted("done"))
	require.NoError(t, f.store.Update(context.Background(), stored))

	rec = f.do(t, http.MethodGet, "/api/tasks?status=completed", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []TaskResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	require.Len(t, got, 1)
	assert.Equal(t, "first", got[0].Name)

	rec = f.do(t, http.MethodGet, "/api/tasks", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&got))
	assert.Len(t, got, 2)
}

func TestTaskHandler_ListRejectsUnknownStatus(t *testing.T) {
	t.Parallel()

	f := newTaskAPIFixture(t)

	rec := f.do(t, http.MethodGet, "/api/tasks?status=bogus", nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
