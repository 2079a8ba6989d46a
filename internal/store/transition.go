package store

import (
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"

	"github.com/google/uuid"
)

// transition - одно оптимистичное изменение задачи:
// снимок до изменения, применение, подтверждение либо откат.
// Единая механика для одиночных и массовых операций.
type transition struct {
	store    *Store
	id       uuid.UUID
	snapshot *task.Task
	next     *task.Task
}

// begin снимает копию текущего состояния задачи для отката
func (s *Store) begin(id uuid.UUID) (*transition, error) {
	s.mtx.Lock()
	defer s.mtx.Unlock()

	t, ok := s.tasks[id]
	if !ok {
		return nil, repo.ErrNotFound
	}

	return &transition{
		store:    s,
		id:       id,
		snapshot: t.Clone(),
		next:     t.Clone(),
	}, nil
}

// apply ставит изменённую задачу в коллекцию до ответа удалённого хранилища
func (tx *transition) apply() {
	tx.store.mtx.Lock()
	tx.store.tasks[tx.id] = tx.next
	tx.store.mtx.Unlock()
}

// rollback возвращает снимок. Если коллекцию уже перезаписал более
// поздний переход (указатель в карте не наш), откат пропускается -
// опоздавший ответ не должен затирать новое состояние.
func (tx *transition) rollback() {
	tx.store.mtx.Lock()
	if cur, ok := tx.store.tasks[tx.id]; ok && cur == tx.next {
		tx.store.tasks[tx.id] = tx.snapshot
	}
	tx.store.mtx.Unlock()
}

// commit вписывает канонические поля из ответа удалённого хранилища в
// опубликованную задачу под блокировкой. Если коллекцию уже перезаписал
// более поздний переход, слияние пропускается - как и откат.
func (tx *transition) commit(saved *task.Task) *task.Task {
	tx.store.mtx.Lock()
	if cur, ok := tx.store.tasks[tx.id]; ok && cur == tx.next {
		tx.next.UpdatedAt = saved.UpdatedAt
		tx.next.Version = saved.Version
	}
	tx.store.mtx.Unlock()

	tx.store.notifier.Observe(tx.id, saved.Title, saved.Status)
	return saved
}
