package notify

import (
	"sync"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type Kind string

const KindTaskStarted Kind = "task_started"
const KindTaskOverdue Kind = "task_overdue"
const KindTaskCompleted Kind = "task_completed"

// Sink - канал доставки уведомлений (лог, внешний сервис и т.д.)
type Sink interface {
	Emit(kind Kind, taskID uuid.UUID, title string)
}

type edge struct {
	from task.Status
	to   task.Status
}

// уведомление отправляется только на этих переходах
var edges = map[edge]Kind{
	{task.StatusActive, task.StatusInProgress}:  KindTaskStarted,
	{task.StatusInProgress, task.StatusOverdue}: KindTaskOverdue,
	{task.StatusOverdue, task.StatusCompleted}:  KindTaskCompleted,
}

// Emitter следит за сменами статусов и отправляет не больше одного
// уведомления на каждый фактический переход. Карта last защищает
// от повторов при перечитывании того же состояния.
type Emitter struct {
	mtx   sync.Mutex
	last  map[uuid.UUID]task.Status
	sinks []Sink
}

func NewEmitter(sinks ...Sink) *Emitter {
	return &Emitter{
		last:  make(map[uuid.UUID]task.Status),
		sinks: sinks,
	}
}

// Observe принимает наблюдаемый статус задачи. Карта последних статусов
// обновляется всегда, уведомление уходит только если статус сменился
// и переход есть в таблице.
func (e *Emitter) Observe(taskID uuid.UUID, title string, observed task.Status) {
	if e == nil {
		return
	}

	e.mtx.Lock()
	prev, seen := e.last[taskID]
	e.last[taskID] = observed
	e.mtx.Unlock()

	if !seen {
		prev = task.StatusActive
	}

	if prev == observed {
		return
	}

	kind, ok := edges[edge{from: prev, to: observed}]
	if !ok {
		return
	}

	for _, sink := range e.sinks {
		sink.Emit(kind, taskID, title)
	}
}

// Forget убирает задачу из карты последних статусов (после удаления)
func (e *Emitter) Forget(taskID uuid.UUID) {
	if e == nil {
		return
	}
	e.mtx.Lock()
	delete(e.last, taskID)
	e.mtx.Unlock()
}

// Snapshot возвращает копию карты последних статусов для сохранения
func (e *Emitter) Snapshot() map[uuid.UUID]task.Status {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	snap := make(map[uuid.UUID]task.Status, len(e.last))
	for id, st := range e.last {
		snap[id] = st
	}
	return snap
}

// Restore загружает ранее сохранённую карту последних статусов
func (e *Emitter) Restore(last map[uuid.UUID]task.Status) {
	e.mtx.Lock()
	defer e.mtx.Unlock()

	for id, st := range last {
		e.last[id] = st
	}
}

// LogSink пишет уведомления в общий лог
type LogSink struct{}

func (LogSink) Emit(kind Kind, taskID uuid.UUID, title string) {
	logger.Info("Notify: Уведомление",
		zap.String("kind", string(kind)),
		zap.String("task_id", taskID.String()),
		zap.String("title", title),
	)
}
