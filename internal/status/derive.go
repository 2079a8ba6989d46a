package status

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"taskBoard/internal/models/task"
)

// Просрочка наступает не в полночь, а в 5 утра следующего дня,
// чтобы задача "на сегодня" не стала просроченной сразу после 00:00
const overdueGraceHour = 5

// Derive вычисляет естественный статус задачи на момент now.
// Чистая функция: никакого состояния, только задача и часы.
func Derive(t *task.Task, now time.Time) task.Status {
	if t.Completed {
		return task.StatusCompleted
	}

	// просрочка всегда сильнее ручного статуса
	if t.DueDate != nil && !now.Before(OverdueFrom(t)) {
		return task.StatusOverdue
	}

	if t.ManualStatus {
		return t.Status
	}

	if t.DueDate == nil {
		return task.StatusActive
	}

	if !now.Before(InProgressFrom(t)) {
		return task.StatusInProgress
	}

	return task.StatusActive
}

// InProgressFrom - момент, с которого задача считается "в работе":
// дедлайн в указанное время, либо начало дня, если время не задано
func InProgressFrom(t *task.Task) time.Time {
	due := *t.DueDate
	hour, min := parseClock(t.DueTime)
	return time.Date(due.Year(), due.Month(), due.Day(), hour, min, 0, 0, due.Location())
}

// OverdueFrom - момент, с которого задача считается просроченной:
// следующий день после дедлайна в 5 утра
func OverdueFrom(t *task.Task) time.Time {
	due := t.DueDate.AddDate(0, 0, 1)
	return time.Date(due.Year(), due.Month(), due.Day(), overdueGraceHour, 0, 0, 0, due.Location())
}

// ValidClock проверяет строку времени формата "HH:MM"
func ValidClock(clock string) error {
	if clock == "" {
		return nil
	}
	if _, _, ok := splitClock(clock); !ok {
		return fmt.Errorf("время %q должно быть в формате HH:MM", clock)
	}
	return nil
}

func parseClock(clock string) (hour, min int) {
	hour, min, _ = splitClock(clock)
	return hour, min
}

func splitClock(clock string) (hour, min int, ok bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, 0, false
	}

	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, false
	}

	min, err = strconv.Atoi(parts[1])
	if err != nil || min < 0 || min > 59 {
		return 0, 0, false
	}

	return hour, min, true
}
