package status_test

import (
	"testing"
	"time"

	"taskBoard/internal/models/task"
	"taskBoard/internal/status"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) *time.Time {
	t := time.Date(y, m, d, 0, 0, 0, 0, time.Local)
	return &t
}

func at(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.Local)
}

// TestDerive тестирует вычисление естественного статуса
func TestDerive(t *testing.T) {
	tests := []struct {
		name     string
		task     task.Task
		now      time.Time
		expected task.Status
	}{
		{
			name:     "completed wins over everything",
			task:     task.Task{Completed: true, Status: task.StatusCompleted, DueDate: date(2026, 3, 1)},
			now:      at(2026, 3, 10, 12, 0),
			expected: task.StatusCompleted,
		},
		{
			name:     "no due date - active",
			task:     task.Task{Status: task.StatusActive},
			now:      at(2026, 3, 10, 12, 0),
			expected: task.StatusActive,
		},
		{
			name:     "manual status held without due date",
			task:     task.Task{Status: task.StatusInProgress, ManualStatus: true},
			now:      at(2026, 3, 10, 12, 0),
			expected: task.StatusInProgress,
		},
		{
			name:     "due today with time, before time - active",
			task:     task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10), DueTime: "14:00"},
			now:      at(2026, 3, 10, 13, 59),
			expected: task.StatusActive,
		},
		{
			name:     "due today with time, after time - in progress",
			task:     task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10), DueTime: "14:00"},
			now:      at(2026, 3, 10, 15, 0),
			expected: task.StatusInProgress,
		},
		{
			name:     "due today without time - in progress from start of day",
			task:     task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10)},
			now:      at(2026, 3, 10, 0, 1),
			expected: task.StatusInProgress,
		},
		{
			name:     "next day before five am - still in progress",
			task:     task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10), DueTime: "14:00"},
			now:      at(2026, 3, 11, 4, 59),
			expected: task.StatusInProgress,
		},
		{
			name:     "next day at five am sharp - overdue",
			task:     task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10), DueTime: "14:00"},
			now:      at(2026, 3, 11, 5, 0),
			expected: task.StatusOverdue,
		},
		{
			name:     "next day six am - overdue",
			task:     task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10), DueTime: "14:00"},
			now:      at(2026, 3, 11, 6, 0),
			expected: task.StatusOverdue,
		},
		{
			name:     "manual status does not suppress overdue",
			task:     task.Task{Status: task.StatusInProgress, ManualStatus: true, DueDate: date(2026, 3, 10)},
			now:      at(2026, 3, 12, 12, 0),
			expected: task.StatusOverdue,
		},
		{
			name:     "manual active held while overdue not reached",
			task:     task.Task{Status: task.StatusActive, ManualStatus: true, DueDate: date(2026, 3, 10), DueTime: "09:00"},
			now:      at(2026, 3, 10, 12, 0),
			expected: task.StatusActive,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := status.Derive(&tt.task, tt.now)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestDerive_Deterministic проверяет, что функция чистая:
// повторный вызов с теми же аргументами даёт тот же результат
func TestDerive_Deterministic(t *testing.T) {
	taskToCheck := task.Task{Status: task.StatusActive, DueDate: date(2026, 3, 10), DueTime: "14:00"}
	now := at(2026, 3, 10, 15, 0)

	first := status.Derive(&taskToCheck, now)
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, status.Derive(&taskToCheck, now))
	}
}

// TestValidClock тестирует разбор времени дедлайна
func TestValidClock(t *testing.T) {
	assert.NoError(t, status.ValidClock(""))
	assert.NoError(t, status.ValidClock("00:00"))
	assert.NoError(t, status.ValidClock("23:59"))
	assert.Error(t, status.ValidClock("24:00"))
	assert.Error(t, status.ValidClock("12:60"))
	assert.Error(t, status.ValidClock("1200"))
	assert.Error(t, status.ValidClock("полдень"))
}
