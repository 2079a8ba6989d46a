package task

import (
	"time"
)

type TaskOption func(*Task)

func WithTitle(title string) TaskOption {
	if title == "" {
		return nil
	}
	return func(task *Task) {
		task.Title = title
	}
}

func WithDescription(description string) TaskOption {
	return func(task *Task) {
		task.Description = description
	}
}

func WithCategory(category string) TaskOption {
	return func(task *Task) {
		task.Category = category
	}
}

func WithPriority(priority Priority) TaskOption {
	if !ValidPriority(priority) {
		return nil
	}
	return func(task *Task) {
		task.Priority = priority
	}
}

func WithDueDate(dueDate *time.Time) TaskOption {
	return func(task *Task) {
		task.DueDate = dueDate
	}
}

func WithDueTime(dueTime string) TaskOption {
	return func(task *Task) {
		task.DueTime = dueTime
	}
}
