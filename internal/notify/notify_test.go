package notify_test

import (
	"testing"

	"taskBoard/internal/models/task"
	"taskBoard/internal/notify"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type recordedEvent struct {
	kind   notify.Kind
	taskID uuid.UUID
	title  string
}

// recordSink копит уведомления для проверок в тестах
type recordSink struct {
	events []recordedEvent
}

func (s *recordSink) Emit(kind notify.Kind, taskID uuid.UUID, title string) {
	s.events = append(s.events, recordedEvent{kind: kind, taskID: taskID, title: title})
}

// TestEmitter_DedupesRepeatedStatus проверяет, что повторное наблюдение
// того же статуса не порождает повторных уведомлений
func TestEmitter_DedupesRepeatedStatus(t *testing.T) {
	sink := &recordSink{}
	emitter := notify.NewEmitter(sink)
	id := uuid.New()

	sequence := []task.Status{
		task.StatusActive,
		task.StatusActive,
		task.StatusInProgress,
		task.StatusInProgress,
		task.StatusOverdue,
	}
	for _, st := range sequence {
		emitter.Observe(id, "Отчёт за квартал", st)
	}

	assert.Len(t, sink.events, 2)
	assert.Equal(t, notify.KindTaskStarted, sink.events[0].kind)
	assert.Equal(t, notify.KindTaskOverdue, sink.events[1].kind)
	assert.Equal(t, "Отчёт за квартал", sink.events[0].title)
}

// TestEmitter_EdgeTable проверяет, какие переходы порождают уведомления
func TestEmitter_EdgeTable(t *testing.T) {
	tests := []struct {
		name     string
		from, to task.Status
		kind     notify.Kind
		emitted  bool
	}{
		{name: "active to in progress", from: task.StatusActive, to: task.StatusInProgress, kind: notify.KindTaskStarted, emitted: true},
		{name: "in progress to overdue", from: task.StatusInProgress, to: task.StatusOverdue, kind: notify.KindTaskOverdue, emitted: true},
		{name: "overdue to completed", from: task.StatusOverdue, to: task.StatusCompleted, kind: notify.KindTaskCompleted, emitted: true},
		{name: "active to completed is silent", from: task.StatusActive, to: task.StatusCompleted, emitted: false},
		{name: "active to overdue is silent", from: task.StatusActive, to: task.StatusOverdue, emitted: false},
		{name: "completed to active is silent", from: task.StatusCompleted, to: task.StatusActive, emitted: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sink := &recordSink{}
			emitter := notify.NewEmitter(sink)
			id := uuid.New()

			emitter.Restore(map[uuid.UUID]task.Status{id: tt.from})
			emitter.Observe(id, "task", tt.to)

			if tt.emitted {
				assert.Len(t, sink.events, 1)
				assert.Equal(t, tt.kind, sink.events[0].kind)
			} else {
				assert.Empty(t, sink.events)
			}
		})
	}
}

// TestEmitter_UnseenTaskDefaultsToActive: задача, которую эмиттер ещё
// не видел, считается активной, поэтому первый статус "в работе"
// сразу даёт уведомление о старте
func TestEmitter_UnseenTaskDefaultsToActive(t *testing.T) {
	sink := &recordSink{}
	emitter := notify.NewEmitter(sink)
	id := uuid.New()

	emitter.Observe(id, "task", task.StatusInProgress)

	assert.Len(t, sink.events, 1)
	assert.Equal(t, notify.KindTaskStarted, sink.events[0].kind)
}

// TestEmitter_SnapshotRestore проверяет сохранение и восстановление
// карты последних статусов
func TestEmitter_SnapshotRestore(t *testing.T) {
	sink := &recordSink{}
	emitter := notify.NewEmitter(sink)
	id := uuid.New()

	emitter.Observe(id, "task", task.StatusInProgress)
	snap := emitter.Snapshot()
	assert.Equal(t, map[uuid.UUID]task.Status{id: task.StatusInProgress}, snap)

	// новый эмиттер с восстановленной картой не дублирует уведомление
	restoredSink := &recordSink{}
	restored := notify.NewEmitter(restoredSink)
	restored.Restore(snap)
	restored.Observe(id, "task", task.StatusInProgress)
	assert.Empty(t, restoredSink.events)
}

// TestEmitter_Forget: после удаления задачи эмиттер снова считает её
// невиданной
func TestEmitter_Forget(t *testing.T) {
	sink := &recordSink{}
	emitter := notify.NewEmitter(sink)
	id := uuid.New()

	emitter.Observe(id, "task", task.StatusInProgress)
	emitter.Forget(id)

	assert.NotContains(t, emitter.Snapshot(), id)

	emitter.Observe(id, "task", task.StatusInProgress)
	assert.Len(t, sink.events, 2)
}

// TestEmitter_NilSafe: nil-эмиттер не падает
func TestEmitter_NilSafe(t *testing.T) {
	var emitter *notify.Emitter
	assert.NotPanics(t, func() {
		emitter.Observe(uuid.New(), "task", task.StatusActive)
		emitter.Forget(uuid.New())
	})
}
