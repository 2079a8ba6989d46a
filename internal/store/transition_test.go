package store

import (
	"context"
	"testing"
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// captureRemote запоминает объект, пришедший в Update, и вписывает
// в него канонические поля, как это делают репозитории
type captureRemote struct {
	updated *task.Task
}

func (r *captureRemote) HealthCheck(ctx context.Context) error { return nil }

func (r *captureRemote) Create(ctx context.Context, t *task.Task) error { return nil }

func (r *captureRemote) Update(ctx context.Context, t *task.Task) error {
	now := time.Now()
	t.UpdatedAt = &now
	t.Version++
	r.updated = t
	return nil
}

func (r *captureRemote) GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	return nil, nil
}

func (r *captureRemote) GetAll(ctx context.Context) ([]*task.Task, error) { return nil, nil }

func (r *captureRemote) Delete(ctx context.Context, id uuid.UUID) error { return nil }

func seeded(t *task.Task) *Store {
	s := New(nil, notify.NewEmitter())
	s.tasks[t.UUID] = t
	s.order = append(s.order, t.UUID)
	return s
}

// TestTransition_RollbackRestores: обычный откат возвращает снимок
func TestTransition_RollbackRestores(t *testing.T) {
	existing := &task.Task{UUID: uuid.New(), Title: "task", Status: task.StatusActive, Version: 1}
	s := seeded(existing)

	tx, err := s.begin(existing.UUID)
	require.NoError(t, err)

	applyStatusChange(tx.next, task.StatusCompleted, time.Now(), true)
	tx.apply()
	tx.rollback()

	assert.Equal(t, task.StatusActive, s.tasks[existing.UUID].Status)
	assert.False(t, s.tasks[existing.UUID].Completed)
}

// TestTransition_LateRollbackSkipped: опоздавший откат не затирает
// состояние, записанное более поздним переходом
func TestTransition_LateRollbackSkipped(t *testing.T) {
	existing := &task.Task{UUID: uuid.New(), Title: "task", Status: task.StatusActive, Version: 1}
	s := seeded(existing)

	// первый переход завис в ожидании удалённого хранилища
	stale, err := s.begin(existing.UUID)
	require.NoError(t, err)
	applyStatusChange(stale.next, task.StatusInProgress, time.Now(), true)
	stale.apply()

	// второй переход успел примениться и зафиксироваться
	fresh, err := s.begin(existing.UUID)
	require.NoError(t, err)
	applyStatusChange(fresh.next, task.StatusCompleted, time.Now(), true)
	fresh.apply()
	fresh.commit(fresh.next.Clone())

	// ответ на первый переход пришёл с ошибкой, откат пропускается
	stale.rollback()

	assert.Equal(t, task.StatusCompleted, s.tasks[existing.UUID].Status)
	assert.True(t, s.tasks[existing.UUID].Completed)
}

// TestTransition_RemoteGetsOwnCopy: в удалённое хранилище уходит копия,
// а не опубликованный в коллекции объект; канонические поля из ответа
// сливаются в коллекцию под блокировкой
func TestTransition_RemoteGetsOwnCopy(t *testing.T) {
	existing := &task.Task{UUID: uuid.New(), Title: "task", Status: task.StatusActive, Version: 1}
	s := seeded(existing)
	remote := &captureRemote{}
	s.remote = remote

	got, err := s.ApplyTransition(context.Background(), existing.UUID, task.StatusCompleted, true)
	require.NoError(t, err)

	published := s.tasks[existing.UUID]
	require.NotNil(t, remote.updated)
	assert.NotSame(t, published, remote.updated)

	assert.Equal(t, 2, published.Version)
	assert.NotNil(t, published.UpdatedAt)
	assert.Equal(t, 2, got.Version)
}

// TestTransition_RollbackAfterDelete не падает, если задачи уже нет
func TestTransition_RollbackAfterDelete(t *testing.T) {
	existing := &task.Task{UUID: uuid.New(), Title: "task", Status: task.StatusActive, Version: 1}
	s := seeded(existing)

	tx, err := s.begin(existing.UUID)
	require.NoError(t, err)
	tx.apply()

	delete(s.tasks, existing.UUID)
	s.dropFromOrder(existing.UUID)

	assert.NotPanics(t, func() { tx.rollback() })
	assert.NotContains(t, s.tasks, existing.UUID)
}
