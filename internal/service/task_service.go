package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/status"
	"taskBoard/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// здесь происходит проверка ошибок бизнес-логики

type RepoType string

const DBType RepoType = "postgres"
const InMemoryType RepoType = "inmemory"

type TaskService struct {
	store    *store.Store
	RepoType RepoType
}

func NewTaskService(taskStore *store.Store, repoType RepoType) TaskService {
	return TaskService{
		store:    taskStore,
		RepoType: repoType,
	}
}

func (s *TaskService) HealthCheck(ctx context.Context) error {
	if err := s.store.HealthCheck(ctx); err != nil {
		return fmt.Errorf("проверка здоровья сервиса: %w", err)
	}
	return nil
}

func (s *TaskService) CreateTask(ctx context.Context, title, description, category string, priority task.Priority, dueDate *time.Time, dueTime string) (*task.Task, error) {
	if title == "" {
		return nil, NewValidationError("title", "название не может быть пустым")
	}

	if priority == "" {
		priority = task.PriorityMedium
	}
	if !task.ValidPriority(priority) {
		return nil, NewValidationError("priority", fmt.Sprintf("неизвестный приоритет %q", priority))
	}

	if err := status.ValidClock(dueTime); err != nil {
		return nil, NewValidationError("due_time", err.Error())
	}
	if dueTime != "" && dueDate == nil {
		return nil, NewValidationError("due_time", "время дедлайна без даты не имеет смысла")
	}

	newTask := &task.Task{
		UUID:        uuid.New(),
		Title:       title,
		Description: description,
		Category:    category,
		Priority:    priority,
		DueDate:     dueDate,
		DueTime:     dueTime,
	}
	newTask.Status = status.Derive(newTask, time.Now())

	created, err := s.store.Create(ctx, newTask)
	if err != nil {
		logger.Warn("Service: Задача не сохранена", zap.Error(err))
		return nil, NewRemoteFailure(err)
	}

	return created, nil
}

func (s *TaskService) GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error) {
	t, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			logger.Info("Service: Задача не найдена", zap.String("target_id", id.String()))
			return nil, NewNotFound(id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}
	return t, nil
}

func (s *TaskService) GetAllTasks(ctx context.Context) ([]*task.Task, error) {
	return s.store.GetAll(), nil
}

func (s *TaskService) UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error) {
	updated, err := s.store.ApplyEdit(ctx, id, options...)
	if err != nil {
		return nil, s.storeError(id, err)
	}
	return updated, nil
}

// ChangeStatus - ручная смена статуса. Переход сначала проверяется
// правилами, переход с подтверждением требует confirmed=true.
func (s *TaskService) ChangeStatus(ctx context.Context, id uuid.UUID, to task.Status, confirmed bool) (*task.Task, error) {
	if !task.ValidStatus(to) {
		return nil, NewValidationError("status", fmt.Sprintf("неизвестный статус %q", to))
	}

	t, err := s.store.Get(id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, NewNotFound(id.String())
		}
		return nil, fmt.Errorf("получение задачи: %w", err)
	}

	decision := status.ValidateTransition(t, t.Status, to, time.Now())
	if !decision.Allowed {
		logger.Info("Service: Переход отклонён",
			zap.String("task_id", id.String()),
			zap.String("from", string(t.Status)),
			zap.String("to", string(to)),
			zap.String("reason", decision.Reason))
		return nil, NewValidationRejected(decision.Reason)
	}

	if decision.NeedsConfirm && !confirmed {
		return nil, NewConfirmationRequired("перенос задачи в работу до дня дедлайна требует подтверждения")
	}

	updated, err := s.store.ApplyTransition(ctx, id, to, true)
	if err != nil {
		return nil, s.storeError(id, err)
	}

	return updated, nil
}

func (s *TaskService) DeleteTask(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return s.storeError(id, err)
	}
	return nil
}

func (s *TaskService) BulkComplete(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error) {
	return s.store.CompleteAll(ctx, ids), nil
}

func (s *TaskService) BulkUndo(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error) {
	return s.store.UndoAll(ctx, ids), nil
}

func (s *TaskService) BulkDelete(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error) {
	return s.store.DeleteAll(ctx, ids), nil
}

// storeError переводит ошибки хранилища в бизнес-ошибки
func (s *TaskService) storeError(id uuid.UUID, err error) *BusinessError {
	switch {
	case errors.Is(err, repo.ErrNotFound):
		return NewNotFound(id.String())
	case errors.Is(err, repo.ErrVersionConflict):
		return NewVersionConflict(id.String())
	default:
		logger.Warn("Service: Ошибка хранилища", zap.String("task_id", id.String()), zap.Error(err))
		return NewRemoteFailure(err)
	}
}
