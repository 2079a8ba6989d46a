package store

import (
	"context"
	"fmt"
	"sync"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/notify"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/status"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Remote - внешнее хранилище задач, источник истины.
// Create и Update пишут канонические поля (created_at, updated_at, version)
// обратно в переданную задачу.
type Remote interface {
	HealthCheck(ctx context.Context) error
	Create(ctx context.Context, t *task.Task) error
	Update(ctx context.Context, t *task.Task) error
	GetByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetAll(ctx context.Context) ([]*task.Task, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Store держит авторитетную копию коллекции задач в памяти.
// Изменения применяются оптимистично и сверяются с удалённым
// хранилищем; при ошибке локальное состояние откатывается.
type Store struct {
	remote   Remote
	notifier *notify.Emitter

	mtx   sync.RWMutex
	tasks map[uuid.UUID]*task.Task
	order []uuid.UUID
}

func New(remote Remote, notifier *notify.Emitter) *Store {
	return &Store{
		remote:   remote,
		notifier: notifier,
		tasks:    make(map[uuid.UUID]*task.Task),
		order:    []uuid.UUID{},
	}
}

func (s *Store) HealthCheck(ctx context.Context) error {
	return s.remote.HealthCheck(ctx)
}

// Load загружает коллекцию из удалённого хранилища, заменяя локальную
func (s *Store) Load(ctx context.Context) error {
	tasks, err := s.remote.GetAll(ctx)
	if err != nil {
		return fmt.Errorf("загрузка задач: %w", err)
	}

	s.mtx.Lock()
	defer s.mtx.Unlock()

	s.tasks = make(map[uuid.UUID]*task.Task, len(tasks))
	s.order = make([]uuid.UUID, 0, len(tasks))
	for _, t := range tasks {
		s.tasks[t.UUID] = t
		s.order = append(s.order, t.UUID)
	}

	logger.Info("Store: Коллекция загружена", zap.Int("tasks", len(tasks)))
	return nil
}

func (s *Store) Get(id uuid.UUID) (*task.Task, error) {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}
	return t.Clone(), nil
}

func (s *Store) GetAll() []*task.Task {
	s.mtx.RLock()
	defer s.mtx.RUnlock()

	res := make([]*task.Task, 0, len(s.order))
	for _, id := range s.order {
		res = append(res, s.tasks[id].Clone())
	}
	return res
}

// Create добавляет задачу оптимистично и подтверждает её в удалённом
// хранилище. При ошибке задача убирается из коллекции.
func (s *Store) Create(ctx context.Context, t *task.Task) (*task.Task, error) {
	s.mtx.Lock()
	s.tasks[t.UUID] = t
	s.order = append(s.order, t.UUID)
	s.mtx.Unlock()

	saved := t.Clone()
	if err := s.remote.Create(ctx, saved); err != nil {
		s.mtx.Lock()
		delete(s.tasks, t.UUID)
		s.dropFromOrder(t.UUID)
		s.mtx.Unlock()
		return nil, fmt.Errorf("создание задачи: %w", err)
	}

	s.mtx.Lock()
	if cur, ok := s.tasks[t.UUID]; ok && cur == t {
		t.CreatedAt = saved.CreatedAt
		t.Version = saved.Version
	}
	s.mtx.Unlock()

	s.notifier.Observe(t.UUID, saved.Title, saved.Status)
	return saved, nil
}

// Delete убирает задачу оптимистично; при ошибке удалённого
// хранилища задача возвращается в коллекцию.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	s.mtx.Lock()
	t, ok := s.tasks[id]
	if !ok {
		s.mtx.Unlock()
		return repo.ErrNotFound
	}
	delete(s.tasks, id)
	pos := s.dropFromOrder(id)
	s.mtx.Unlock()

	if err := s.remote.Delete(ctx, id); err != nil {
		s.mtx.Lock()
		s.tasks[id] = t
		s.insertIntoOrder(id, pos)
		s.mtx.Unlock()
		return fmt.Errorf("удаление задачи: %w", err)
	}

	s.notifier.Forget(id)
	return nil
}

// ApplyTransition переводит задачу в статус to. manual=false для
// автоматических переходов фоновой проверки.
func (s *Store) ApplyTransition(ctx context.Context, id uuid.UUID, to task.Status, manual bool) (*task.Task, error) {
	tx, err := s.begin(id)
	if err != nil {
		return nil, err
	}

	applyStatusChange(tx.next, to, time.Now(), manual)
	tx.apply()

	// удалённое хранилище пишет канонические поля в свою копию,
	// опубликованный объект читается только под блокировкой
	saved := tx.next.Clone()
	if err := s.remote.Update(ctx, saved); err != nil {
		tx.rollback()
		return nil, fmt.Errorf("сохранение перехода: %w", err)
	}

	return tx.commit(saved), nil
}

// ApplyEdit изменяет поля задачи (название, дедлайн и т.д.) по той же
// оптимистичной схеме; статус пересчитывается, если не был выставлен вручную
func (s *Store) ApplyEdit(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	tx, err := s.begin(id)
	if err != nil {
		return nil, err
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(tx.next)
	}

	if !tx.next.Completed && !tx.next.ManualStatus {
		tx.next.Status = status.Derive(tx.next, time.Now())
	}
	tx.apply()

	saved := tx.next.Clone()
	if err := s.remote.Update(ctx, saved); err != nil {
		tx.rollback()
		return nil, fmt.Errorf("сохранение изменений: %w", err)
	}

	return tx.commit(saved), nil
}

// applyStatusChange переписывает поля задачи под новый статус:
//   - completed держится в согласии со статусом
//   - временные метки выставляются при входе в состояние, повторный
//     вход в тот же статус их не трогает
//   - возврат в active стирает completed_at и in_progress_at
func applyStatusChange(t *task.Task, to task.Status, now time.Time, manual bool) {
	if t.Status != to {
		switch to {
		case task.StatusInProgress:
			t.InProgressAt = &now
		case task.StatusOverdue:
			t.OverdueAt = &now
		}
	}

	switch to {
	case task.StatusCompleted:
		if !t.Completed {
			t.CompletedAt = &now
		}
		t.Completed = true
	case task.StatusActive:
		t.Completed = false
		t.CompletedAt = nil
		t.InProgressAt = nil
	default:
		t.Completed = false
	}

	t.Status = to
	t.ManualStatus = manual
}

// dropFromOrder вызывается под блокировкой, возвращает бывшую позицию
func (s *Store) dropFromOrder(id uuid.UUID) int {
	for ind, val := range s.order {
		if val == id {
			s.order = append(s.order[:ind], s.order[ind+1:]...)
			return ind
		}
	}
	return -1
}

// insertIntoOrder возвращает задачу на прежнюю позицию после отката
// удаления; вызывается под блокировкой
func (s *Store) insertIntoOrder(id uuid.UUID, pos int) {
	if pos < 0 || pos > len(s.order) {
		pos = len(s.order)
	}
	s.order = append(s.order, uuid.UUID{})
	copy(s.order[pos+1:], s.order[pos:])
	s.order[pos] = id
}
