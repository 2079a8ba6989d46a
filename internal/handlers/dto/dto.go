package dto

import (
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/status"

	"github.com/google/uuid"
)

type CreateTaskRequest struct {
	Title       string        `json:"title"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	Priority    task.Priority `json:"priority"`
	DueDate     *time.Time    `json:"due_date,omitempty"`
	DueTime     string        `json:"due_time,omitempty"`
}

type UpdateTaskRequest struct {
	Title       *string        `json:"title,omitempty"`
	Description *string        `json:"description,omitempty"`
	Category    *string        `json:"category,omitempty"`
	Priority    *task.Priority `json:"priority,omitempty"`
	DueDate     *time.Time     `json:"due_date,omitempty"`
	DueTime     *string        `json:"due_time,omitempty"`
}

type ChangeStatusRequest struct {
	Status    task.Status `json:"status"`
	Confirmed bool        `json:"confirmed"`
}

type BulkRequest struct {
	IDs []uuid.UUID `json:"ids"`
}

type TaskResponse struct {
	UUID         uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Category     string     `json:"category"`
	Priority     string     `json:"priority"`
	Status       string     `json:"status"`
	ManualStatus bool       `json:"manual_status"`
	Completed    bool       `json:"completed"`
	DueDate      *time.Time `json:"due_date,omitempty"`
	DueTime      string     `json:"due_time,omitempty"`
	InProgressAt *time.Time `json:"in_progress_at,omitempty"`
	OverdueAt    *time.Time `json:"overdue_at,omitempty"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty"`
	IsOverdue    bool       `json:"is_overdue"`
}

func FromTask(t *task.Task) TaskResponse {
	return TaskResponse{
		UUID:         t.UUID,
		Title:        t.Title,
		Description:  t.Description,
		Category:     t.Category,
		Priority:     string(t.Priority),
		Status:       string(t.Status),
		ManualStatus: t.ManualStatus,
		Completed:    t.Completed,
		DueDate:      t.DueDate,
		DueTime:      t.DueTime,
		InProgressAt: t.InProgressAt,
		OverdueAt:    t.OverdueAt,
		CompletedAt:  t.CompletedAt,
		CreatedAt:    t.CreatedAt,
		UpdatedAt:    t.UpdatedAt,
		IsOverdue:    status.Derive(t, time.Now()) == task.StatusOverdue,
	}
}

func FromTaskList(tasks []*task.Task) []TaskResponse {
	result := make([]TaskResponse, len(tasks))
	for i, t := range tasks {
		result[i] = FromTask(t)
	}
	return result
}

// Options собирает функции обновления из непустых полей запроса
func (r *UpdateTaskRequest) Options() []task.TaskOption {
	options := []task.TaskOption{}
	if r.Title != nil {
		options = append(options, task.WithTitle(*r.Title))
	}
	if r.Description != nil {
		options = append(options, task.WithDescription(*r.Description))
	}
	if r.Category != nil {
		options = append(options, task.WithCategory(*r.Category))
	}
	if r.Priority != nil {
		options = append(options, task.WithPriority(*r.Priority))
	}
	if r.DueDate != nil {
		options = append(options, task.WithDueDate(r.DueDate))
	}
	if r.DueTime != nil {
		options = append(options, task.WithDueTime(*r.DueTime))
	}
	return options
}
