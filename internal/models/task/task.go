package task

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	UUID         uuid.UUID  `json:"uuid" db:"uuid"`
	Title        string     `json:"title" db:"title"`
	Description  string     `json:"description" db:"description"`
	Category     string     `json:"category" db:"category"`
	Priority     Priority   `json:"priority" db:"priority"`
	Status       Status     `json:"status" db:"status"`
	ManualStatus bool       `json:"manual_status" db:"manual_status"`
	Completed    bool       `json:"completed" db:"completed"`
	DueDate      *time.Time `json:"due_date,omitempty" db:"due_date"`
	DueTime      string     `json:"due_time,omitempty" db:"due_time"`
	InProgressAt *time.Time `json:"in_progress_at,omitempty" db:"in_progress_at"`
	OverdueAt    *time.Time `json:"overdue_at,omitempty" db:"overdue_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    *time.Time `json:"updated_at,omitempty" db:"updated_at,omitempty"`
	Version      int        `json:"version" db:"version"`
}

type Status string
type Priority string

const StatusActive Status = "active"
const StatusInProgress Status = "in progress"
const StatusOverdue Status = "overdue"
const StatusCompleted Status = "completed"

const PriorityLow Priority = "low"
const PriorityMedium Priority = "medium"
const PriorityHigh Priority = "high"

func ValidStatus(s Status) bool {
	switch s {
	case StatusActive, StatusInProgress, StatusOverdue, StatusCompleted:
		return true
	}
	return false
}

func ValidPriority(p Priority) bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// Clone возвращает независимую копию задачи
// вместе с копиями всех указателей на время
func (t *Task) Clone() *Task {
	c := *t
	c.DueDate = cloneTime(t.DueDate)
	c.InProgressAt = cloneTime(t.InProgressAt)
	c.OverdueAt = cloneTime(t.OverdueAt)
	c.CompletedAt = cloneTime(t.CompletedAt)
	c.UpdatedAt = cloneTime(t.UpdatedAt)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	c := *t
	return &c
}
