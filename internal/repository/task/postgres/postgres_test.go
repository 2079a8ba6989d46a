package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"taskBoard/internal/logger"
	"taskBoard/internal/models/task"
	repo "taskBoard/internal/repository"
	"taskBoard/internal/repository/task/postgres"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMain(m *testing.M) {
	logger.Init(true)
	os.Exit(m.Run())
}

// PostgresTestSuite для интеграционных тестов с PostgreSQL
type PostgresTestSuite struct {
	suite.Suite
	container  testcontainers.Container
	storage    *postgres.Storage
	ctx        context.Context
	connString string
}

// SetupSuite запускается один раз перед всеми тестами
func (s *PostgresTestSuite) SetupSuite() {
	s.ctx = context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:15-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "testdb",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(30 * time.Second),
	}

	container, err := testcontainers.GenericContainer(s.ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(s.T(), err)
	s.container = container

	host, err := container.Host(s.ctx)
	require.NoError(s.T(), err)

	port, err := container.MappedPort(s.ctx, "5432")
	require.NoError(s.T(), err)

	s.connString = fmt.Sprintf("postgres://test:test@%s:%s/testdb", host, port.Port())

	s.storage, err = postgres.New(s.ctx, s.connString)
	require.NoError(s.T(), err)

	require.NoError(s.T(), s.applyTestMigrations())
}

// TearDownSuite очищает после всех тестов
func (s *PostgresTestSuite) TearDownSuite() {
	if s.storage != nil {
		s.storage.Close()
	}
	if s.container != nil {
		s.container.Terminate(s.ctx)
	}
}

// SetupTest очищает таблицу перед каждым тестом
func (s *PostgresTestSuite) SetupTest() {
	conn, err := pgx.Connect(s.ctx, s.connString)
	require.NoError(s.T(), err)
	defer conn.Close(s.ctx)

	_, err = conn.Exec(s.ctx, "DELETE FROM tasks")
	require.NoError(s.T(), err)
}

// applyTestMigrations создаёт схему теми же запросами, что и миграции
func (s *PostgresTestSuite) applyTestMigrations() error {
	conn, err := pgx.Connect(s.ctx, s.connString)
	if err != nil {
		return err
	}
	defer conn.Close(s.ctx)

	query := `
	CREATE TABLE IF NOT EXISTS tasks (
		uuid UUID PRIMARY KEY,
		title VARCHAR(255) NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		category VARCHAR(100) NOT NULL DEFAULT '',
		priority VARCHAR(20) NOT NULL DEFAULT 'medium',
		status VARCHAR(50) NOT NULL DEFAULT 'active',
		manual_status BOOLEAN NOT NULL DEFAULT FALSE,
		completed BOOLEAN NOT NULL DEFAULT FALSE,
		due_date TIMESTAMP,
		due_time VARCHAR(5) NOT NULL DEFAULT '',
		in_progress_at TIMESTAMP,
		overdue_at TIMESTAMP,
		completed_at TIMESTAMP,
		created_at TIMESTAMP NOT NULL DEFAULT NOW(),
		updated_at TIMESTAMP,
		version INTEGER NOT NULL DEFAULT 1
	);

	CREATE INDEX IF NOT EXISTS idx_tasks_status ON tasks(status);
	CREATE INDEX IF NOT EXISTS idx_tasks_due_date ON tasks(due_date) WHERE due_date IS NOT NULL;
	CREATE INDEX IF NOT EXISTS idx_tasks_completed ON tasks(completed);
	`

	_, err = conn.Exec(s.ctx, query)
	return err
}

// TestPostgresTestSuite запускает suite
func TestPostgresTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("Пропускаем интеграционные тесты в коротком режиме")
	}
	suite.Run(t, new(PostgresTestSuite))
}

func datePtr(t time.Time) *time.Time {
	return &t
}

// TestStorage_Create тестирует создание задачи
func (s *PostgresTestSuite) TestStorage_Create() {
	ctx := context.Background()

	taskToCreate := &task.Task{
		UUID:        uuid.New(),
		Title:       "Test Task",
		Description: "Test Description",
		Category:    "работа",
		Priority:    task.PriorityHigh,
		Status:      task.StatusActive,
		DueDate:     datePtr(time.Now().AddDate(0, 0, 1)),
		DueTime:     "14:30",
	}

	err := s.storage.Create(ctx, taskToCreate)
	require.NoError(s.T(), err)

	// канонические поля вписаны обратно
	assert.False(s.T(), taskToCreate.CreatedAt.IsZero())
	assert.Equal(s.T(), 1, taskToCreate.Version)

	retrievedTask, err := s.storage.GetByID(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Test Task", retrievedTask.Title)
	assert.Equal(s.T(), task.PriorityHigh, retrievedTask.Priority)
	assert.Equal(s.T(), "14:30", retrievedTask.DueTime)
	require.NotNil(s.T(), retrievedTask.DueDate)
}

// TestStorage_GetByID тестирует получение задачи по ID
func (s *PostgresTestSuite) TestStorage_GetByID() {
	ctx := context.Background()

	taskToCreate := &task.Task{
		UUID:   uuid.New(),
		Title:  "Test Get Task",
		Status: task.StatusInProgress,
	}

	err := s.storage.Create(ctx, taskToCreate)
	require.NoError(s.T(), err)

	retrievedTask, err := s.storage.GetByID(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), taskToCreate.UUID, retrievedTask.UUID)
	assert.Equal(s.T(), task.StatusInProgress, retrievedTask.Status)

	_, err = s.storage.GetByID(ctx, uuid.New())
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)
}

// TestStorage_Update тестирует обновление задачи
func (s *PostgresTestSuite) TestStorage_Update() {
	ctx := context.Background()

	taskToCreate := &task.Task{
		UUID:   uuid.New(),
		Title:  "Original Title",
		Status: task.StatusActive,
	}

	err := s.storage.Create(ctx, taskToCreate)
	require.NoError(s.T(), err)

	now := time.Now()
	taskToCreate.Title = "Updated Title"
	taskToCreate.Status = task.StatusCompleted
	taskToCreate.Completed = true
	taskToCreate.CompletedAt = &now
	taskToCreate.ManualStatus = true

	err = s.storage.Update(ctx, taskToCreate)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), 2, taskToCreate.Version)
	require.NotNil(s.T(), taskToCreate.UpdatedAt)

	retrievedTask, err := s.storage.GetByID(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)
	assert.Equal(s.T(), "Updated Title", retrievedTask.Title)
	assert.Equal(s.T(), task.StatusCompleted, retrievedTask.Status)
	assert.True(s.T(), retrievedTask.Completed)
	assert.True(s.T(), retrievedTask.ManualStatus)
	require.NotNil(s.T(), retrievedTask.CompletedAt)
	assert.Equal(s.T(), 2, retrievedTask.Version)
}

// TestStorage_Update_VersionConflict тестирует конфликт версий
func (s *PostgresTestSuite) TestStorage_Update_VersionConflict() {
	ctx := context.Background()

	taskToCreate := &task.Task{
		UUID:   uuid.New(),
		Title:  "Test Task",
		Status: task.StatusActive,
	}

	err := s.storage.Create(ctx, taskToCreate)
	require.NoError(s.T(), err)

	firstCopy, err := s.storage.GetByID(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)

	secondCopy, err := s.storage.GetByID(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)

	firstCopy.Title = "Updated first"
	err = s.storage.Update(ctx, firstCopy)
	require.NoError(s.T(), err)

	// вторая копия несёт устаревшую версию
	secondCopy.Title = "Updated second"
	err = s.storage.Update(ctx, secondCopy)
	require.Error(s.T(), err)
	assert.ErrorIs(s.T(), err, repo.ErrVersionConflict)
}

// TestStorage_Delete тестирует удаление задачи
func (s *PostgresTestSuite) TestStorage_Delete() {
	ctx := context.Background()

	taskToCreate := &task.Task{
		UUID:   uuid.New(),
		Title:  "Task to delete",
		Status: task.StatusActive,
	}

	err := s.storage.Create(ctx, taskToCreate)
	require.NoError(s.T(), err)

	err = s.storage.Delete(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)

	_, err = s.storage.GetByID(ctx, taskToCreate.UUID)
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)

	// повторное удаление
	err = s.storage.Delete(ctx, taskToCreate.UUID)
	assert.ErrorIs(s.T(), err, repo.ErrNotFound)
}

// TestStorage_GetAll тестирует получение всех задач в порядке создания
func (s *PostgresTestSuite) TestStorage_GetAll() {
	ctx := context.Background()

	for i := 1; i <= 5; i++ {
		taskToCreate := &task.Task{
			UUID:   uuid.New(),
			Title:  fmt.Sprintf("Task %d", i),
			Status: task.StatusActive,
		}
		err := s.storage.Create(ctx, taskToCreate)
		require.NoError(s.T(), err)
	}

	tasks, err := s.storage.GetAll(ctx)
	require.NoError(s.T(), err)
	assert.Len(s.T(), tasks, 5)
}

// TestStorage_GetAll_Empty: пустая таблица возвращает пустой срез
func (s *PostgresTestSuite) TestStorage_GetAll_Empty() {
	tasks, err := s.storage.GetAll(context.Background())
	require.NoError(s.T(), err)
	assert.Empty(s.T(), tasks)
	assert.NotNil(s.T(), tasks)
}

// TestStorage_NullableTimestamps: необязательные метки времени
// сохраняются и читаются как NULL
func (s *PostgresTestSuite) TestStorage_NullableTimestamps() {
	ctx := context.Background()

	taskToCreate := &task.Task{
		UUID:   uuid.New(),
		Title:  "Bare task",
		Status: task.StatusActive,
	}

	err := s.storage.Create(ctx, taskToCreate)
	require.NoError(s.T(), err)

	retrievedTask, err := s.storage.GetByID(ctx, taskToCreate.UUID)
	require.NoError(s.T(), err)
	assert.Nil(s.T(), retrievedTask.DueDate)
	assert.Nil(s.T(), retrievedTask.InProgressAt)
	assert.Nil(s.T(), retrievedTask.OverdueAt)
	assert.Nil(s.T(), retrievedTask.CompletedAt)
	assert.Nil(s.T(), retrievedTask.UpdatedAt)
}

// TestStorage_HealthCheck тестирует проверку здоровья
func (s *PostgresTestSuite) TestStorage_HealthCheck() {
	err := s.storage.HealthCheck(context.Background())
	require.NoError(s.T(), err)
}

// Unit тесты (без базы данных)
func TestStorage_New_InvalidConnString(t *testing.T) {
	ctx := context.Background()

	_, err := postgres.New(ctx, "invalid")
	assert.Error(t, err)
}
