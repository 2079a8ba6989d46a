package status

import (
	"time"

	"taskBoard/internal/models/task"
)

// Decision - результат проверки ручной смены статуса.
// NeedsConfirm означает, что переход допустим, но требует
// явного подтверждения пользователя.
type Decision struct {
	Allowed      bool
	NeedsConfirm bool
	Reason       string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(reason string) Decision {
	return Decision{Allowed: false, Reason: reason}
}

func confirm() Decision {
	return Decision{Allowed: true, NeedsConfirm: true}
}

// ValidateTransition проверяет ручной переход задачи из статуса from в to.
// Правила проверяются по порядку, срабатывает первое подходящее.
func ValidateTransition(t *task.Task, from, to task.Status, now time.Time) Decision {
	// просроченный статус выставляет только фоновая проверка
	if to == task.StatusOverdue {
		return deny("статус overdue выставляется только автоматически")
	}

	if from == task.StatusOverdue && to != task.StatusCompleted {
		return deny("просроченную задачу можно только завершить")
	}

	if t.DueDate != nil {
		switch {
		case dueOn(t, now, 0) && to == task.StatusActive:
			return deny("задачу с дедлайном на сегодня нельзя вернуть в активные")

		case dueOn(t, now, -1) && (to == task.StatusActive || to == task.StatusInProgress):
			return deny("дедлайн задачи был вчера, она должна быть просрочена")

		case to == task.StatusInProgress && !dueOn(t, now, 0):
			// дедлайн не сегодня - берём задачу в работу досрочно,
			// нужно подтверждение
			return confirm()

		case to == task.StatusActive && DuePast(t, now):
			return deny("нельзя реактивировать задачу с прошедшим дедлайном")
		}
	}

	return allow()
}

// dueOn сравнивает календарный день дедлайна с днём now со сдвигом offset
// (0 - сегодня, -1 - вчера)
func dueOn(t *task.Task, now time.Time, offset int) bool {
	day := now.AddDate(0, 0, offset)
	y1, m1, d1 := t.DueDate.Date()
	y2, m2, d2 := day.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}

// DuePast - дедлайн строго раньше сегодняшнего календарного дня
func DuePast(t *task.Task, now time.Time) bool {
	due := *t.DueDate
	startOfToday := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, due.Location())
	return due.Before(startOfToday)
}
