package store

import (
	"context"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	"taskBoard/internal/status"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type pendingTransition struct {
	id uuid.UUID
	to task.Status
}

// Sweep пересчитывает статусы всех незавершённых задач на момент now
// и применяет расхождения через обычный путь с откатом. Ручной статус
// уважается везде, кроме перехода в overdue. limit > 0 ограничивает
// число переходов за один проход. Возвращает число применённых переходов.
func (s *Store) Sweep(ctx context.Context, now time.Time, limit int) int {
	s.mtx.RLock()
	pending := []pendingTransition{}
	for _, id := range s.order {
		t := s.tasks[id]
		if t.Completed {
			continue
		}

		derived := status.Derive(t, now)
		if derived == t.Status {
			continue
		}

		if derived != task.StatusOverdue && t.ManualStatus {
			continue
		}

		pending = append(pending, pendingTransition{id: id, to: derived})
	}
	s.mtx.RUnlock()

	applied := 0
	for _, p := range pending {
		if limit > 0 && applied >= limit {
			break
		}

		if _, err := s.ApplyTransition(ctx, p.id, p.to, false); err != nil {
			logger.Warn("Store: Ошибка автоперехода",
				zap.String("task_id", p.id.String()),
				zap.String("to", string(p.to)),
				zap.Error(err))
			continue
		}
		applied++
	}

	return applied
}
