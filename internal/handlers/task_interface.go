package handlers

import (
	"context"
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/store"

	"github.com/google/uuid"
)

type TaskService interface {
	HealthCheck(ctx context.Context) error
	CreateTask(ctx context.Context, title, description, category string, priority task.Priority, dueDate *time.Time, dueTime string) (*task.Task, error)
	GetTaskByID(ctx context.Context, id uuid.UUID) (*task.Task, error)
	GetAllTasks(ctx context.Context) ([]*task.Task, error)
	UpdateTask(ctx context.Context, id uuid.UUID, options ...task.TaskOption) (*task.Task, error)
	ChangeStatus(ctx context.Context, id uuid.UUID, to task.Status, confirmed bool) (*task.Task, error)
	DeleteTask(ctx context.Context, id uuid.UUID) error
	BulkComplete(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error)
	BulkUndo(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error)
	BulkDelete(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error)
}

type bulkCall func(ctx context.Context, ids []uuid.UUID) (store.BulkResult, error)
