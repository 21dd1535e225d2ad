package testutils

import (
	"context"
	"database/sql"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/dispatchd/dispatch-api/internal/domain"
	"github.com/dispatchd/dispatch-api/internal/store"
)

// MemoryNotificationStore implements store.NotificationStore in memory.
// Records are stored and returned by value so callers observe
// snapshots, like a real database. Individual operations can be
// overridden through the Fn fields.
type MemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications map[uuid.UUID]domain.Notification

	CreateFn func(ctx context.Context, n *domain.Notification) error
	UpdateFn func(ctx context.Context, n *domain.Notification) error
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.Notification, error)
}

var _ store.NotificationStore = (*MemoryNotificationStore)(nil)

// NewMemoryNotificationStore creates an empty MemoryNotificationStore.
func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{
		notifications: make(map[uuid.UUID]domain.Notification),
	}
}

func (s *MemoryNotificationStore) Create(ctx context.Context, n *domain.Notification) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, n)
	}

	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (s *MemoryNotificationStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notification, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	n, ok := s.notifications[id]
	if !ok {
		return nil, store.ErrNotificationNotFound
	}
	out := copyNotification(&n)
	return &out, nil
}

func (s *MemoryNotificationStore) Update(ctx context.Context, n *domain.Notification) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, n)
	}

	if err := n.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[n.ID]; !ok {
		return store.ErrNotificationNotFound
	}
	s.notifications[n.ID] = copyNotification(n)
	return nil
}

func (s *MemoryNotificationStore) List(ctx context.Context, userID *uuid.UUID) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Notification
	for id := range s.notifications {
		n := copyNotification(ptr(s.notifications[id]))
		if userID != nil && (n.UserID == nil || *n.UserID != *userID) {
			continue
		}
		out = append(out, &n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SentAt.After(out[j].SentAt)
	})
	return out, nil
}

func (s *MemoryNotificationStore) ListPending(ctx context.Context) ([]*domain.Notification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Notification
	for id := range s.notifications {
		n := copyNotification(ptr(s.notifications[id]))
		if n.IsTerminal() {
			continue
		}
		out = append(out, &n)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].SentAt.Before(out[j].SentAt)
	})
	return out, nil
}

func (s *MemoryNotificationStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.notifications[id]; !ok {
		return store.ErrNotificationNotFound
	}
	delete(s.notifications, id)
	return nil
}

func (s *MemoryNotificationStore) WithTx(tx *sql.Tx) store.NotificationStore {
	return s
}

// MemoryTaskStore implements store.TaskStore in memory, with the same
// snapshot and override behavior as MemoryNotificationStore.
type MemoryTaskStore struct {
	mu    sync.RWMutex
	tasks map[uuid.UUID]domain.Task

	CreateFn func(ctx context.Context, t *domain.Task) error
	UpdateFn func(ctx context.Context, t *domain.Task) error
	GetFn    func(ctx context.Context, id uuid.UUID) (*domain.Task, error)
}

var _ store.TaskStore = (*MemoryTaskStore)(nil)

// NewMemoryTaskStore creates an empty MemoryTaskStore.
func NewMemoryTaskStore() *MemoryTaskStore {
	return &MemoryTaskStore{
		tasks: make(map[uuid.UUID]domain.Task),
	}
}

func (s *MemoryTaskStore) Create(ctx context.Context, t *domain.Task) error {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, t)
	}

	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks[t.ID] = copyTask(t)
	return nil
}

func (s *MemoryTaskStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error) {
	if s.GetFn != nil {
		return s.GetFn(ctx, id)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, store.ErrTaskNotFound
	}
	out := copyTask(&t)
	return &out, nil
}

func (s *MemoryTaskStore) Update(ctx context.Context, t *domain.Task) error {
	if s.UpdateFn != nil {
		return s.UpdateFn(ctx, t)
	}

	if err := t.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[t.ID]; !ok {
		return store.ErrTaskNotFound
	}
	s.tasks[t.ID] = copyTask(t)
	return nil
}

func (s *MemoryTaskStore) List(ctx context.Context, status domain.TaskStatus) ([]*domain.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*domain.Task
	for id := range s.tasks {
		t := copyTask(ptr(s.tasks[id]))
		if status != "" && t.Status != status {
			continue
		}
		out = append(out, &t)
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (s *MemoryTaskStore) Delete(ctx context.Context, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(s.tasks, id)
	return nil
}

func (s *MemoryTaskStore) WithTx(tx *sql.Tx) store.TaskStore {
	return s
}

func copyNotification(n *domain.Notification) domain.Notification {
	out := *n
	if n.UserID != nil {
		id := *n.UserID
		out.UserID = &id
	}
	return out
}

func copyTask(t *domain.Task) domain.Task {
	out := *t
	if t.CompletedAt != nil {
		at := *t.CompletedAt
		out.CompletedAt = &at
	}
	return out
}

func ptr[T any](v T) *T {
	return &v
}
