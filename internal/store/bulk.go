package store

import (
	"context"
	"sync"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/status"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const bulkConcurrency = 8

// BulkResult - итог массовой операции. Частичный успех ожидаем:
// неудачи отдельных задач не останавливают остальные.
type BulkResult struct {
	Succeeded []uuid.UUID `json:"succeeded"`
	Failed    []uuid.UUID `json:"failed"`
	Excluded  []uuid.UUID `json:"excluded"`
}

type bulkCollector struct {
	mtx sync.Mutex
	res BulkResult
}

func (c *bulkCollector) succeeded(id uuid.UUID) {
	c.mtx.Lock()
	c.res.Succeeded = append(c.res.Succeeded, id)
	c.mtx.Unlock()
}

func (c *bulkCollector) failed(id uuid.UUID) {
	c.mtx.Lock()
	c.res.Failed = append(c.res.Failed, id)
	c.mtx.Unlock()
}

func (c *bulkCollector) excluded(id uuid.UUID) {
	c.mtx.Lock()
	c.res.Excluded = append(c.res.Excluded, id)
	c.mtx.Unlock()
}

// CompleteAll завершает набор задач. Уже завершённые пропускаются.
func (s *Store) CompleteAll(ctx context.Context, ids []uuid.UUID) BulkResult {
	c := &bulkCollector{res: emptyResult()}
	g := new(errgroup.Group)
	g.SetLimit(bulkConcurrency)

	for _, id := range ids {
		t, err := s.Get(id)
		if err != nil {
			c.failed(id)
			continue
		}
		if t.Completed {
			c.excluded(id)
			continue
		}

		id := id
		g.Go(func() error {
			if _, err := s.ApplyTransition(ctx, id, task.StatusCompleted, true); err != nil {
				logger.Warn("Store: Массовое завершение, задача не сохранена", zap.String("task_id", id.String()), zap.Error(err))
				c.failed(id)
				return nil
			}
			c.succeeded(id)
			return nil
		})
	}

	g.Wait()
	return c.res
}

// UndoAll возвращает набор завершённых задач в активные. Задачи с
// прошедшим дедлайном реактивировать нельзя - они попадают в Excluded.
func (s *Store) UndoAll(ctx context.Context, ids []uuid.UUID) BulkResult {
	c := &bulkCollector{res: emptyResult()}
	g := new(errgroup.Group)
	g.SetLimit(bulkConcurrency)

	now := time.Now()
	for _, id := range ids {
		t, err := s.Get(id)
		if err != nil {
			c.failed(id)
			continue
		}
		if t.DueDate != nil && status.DuePast(t, now) {
			c.excluded(id)
			continue
		}

		id := id
		g.Go(func() error {
			if _, err := s.ApplyTransition(ctx, id, task.StatusActive, true); err != nil {
				logger.Warn("Store: Массовый возврат, задача не сохранена", zap.String("task_id", id.String()), zap.Error(err))
				c.failed(id)
				return nil
			}
			c.succeeded(id)
			return nil
		})
	}

	g.Wait()
	return c.res
}

// DeleteAll убирает набор задач из коллекции и удаляет их в удалённом
// хранилище. Удаление подтверждено пользователем заранее, поэтому
// оптимистичное удаление не откатывается даже при ошибках.
func (s *Store) DeleteAll(ctx context.Context, ids []uuid.UUID) BulkResult {
	c := &bulkCollector{res: emptyResult()}

	present := []uuid.UUID{}
	s.mtx.Lock()
	for _, id := range ids {
		if _, ok := s.tasks[id]; !ok {
			c.res.Excluded = append(c.res.Excluded, id)
			continue
		}
		delete(s.tasks, id)
		s.dropFromOrder(id)
		present = append(present, id)
	}
	s.mtx.Unlock()

	g := new(errgroup.Group)
	g.SetLimit(bulkConcurrency)

	for _, id := range present {
		id := id
		g.Go(func() error {
			if err := s.remote.Delete(ctx, id); err != nil {
				logger.Warn("Store: Массовое удаление, задача не удалена", zap.String("task_id", id.String()), zap.Error(err))
				c.failed(id)
				return nil
			}
			s.notifier.Forget(id)
			c.succeeded(id)
			return nil
		})
	}

	g.Wait()
	return c.res
}

func emptyResult() BulkResult {
	return BulkResult{
		Succeeded: []uuid.UUID{},
		Failed:    []uuid.UUID{},
		Excluded:  []uuid.UUID{},
	}
}
