package app

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"taskBoard/internal/config"
	"taskBoard/internal/handlers"
	"taskBoard/internal/logger"
	"taskBoard/internal/middleware"
	"taskBoard/internal/notify"
	"taskBoard/internal/repository/task/inmemory"
	"taskBoard/internal/repository/task/postgres"
	"taskBoard/internal/service"
	"taskBoard/internal/store"
	"taskBoard/internal/worker"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
)

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	store     *store.Store
	worker    *worker.SweepWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	remote, err := a.initRemote(ctx)
	if err != nil {
		return err
	}

	emitter := notify.NewEmitter(notify.LogSink{})
	a.store = store.New(remote, emitter)

	if err := a.store.Load(ctx); err != nil {
		return fmt.Errorf("загрузка коллекции: %w", err)
	}

	taskService := service.NewTaskService(a.store, service.RepoType(a.config.Repository.Type))
	taskHandler := handlers.NewTaskHandler(&taskService)

	a.worker = worker.NewSweepWorker(a.store, &a.config.Sweep.Interval, &a.config.Sweep.BatchSize)

	a.router = newRouter(&taskHandler)
	a.server = &http.Server{
		Addr:    a.config.GetServerAddr(),
		Handler: a.router,
	}

	return nil
}

func (a *App) initRemote(ctx context.Context) (store.Remote, error) {
	switch a.config.Repository.Type {
	case "postgres":
		storage, err := postgres.New(ctx, a.config.Database.URL)
		if err != nil {
			return nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
		}

		if err := storage.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("применение миграций: %w", err)
		}

		a.shutdowns = append(a.shutdowns, storage.Close)
		return storage, nil

	case "inmemory", "":
		return inmemory.NewTaskStorage(), nil

	default:
		return nil, fmt.Errorf("неизвестный тип репозитория: %s", a.config.Repository.Type)
	}
}

func newRouter(taskHandler *handlers.TaskHandler) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.RateLimit(100))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", "X-Request-ID"},
	}))

	r.Route("/tasks", func(r chi.Router) {
		r.Get("/", taskHandler.GetTasks)  // GET /tasks
		r.Post("/", taskHandler.PostTask) // POST /tasks

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", taskHandler.GetTaskByID)       // GET /tasks/{id}
			r.Put("/", taskHandler.UpdateTaskByID)    // PUT /tasks/{id}
			r.Delete("/", taskHandler.DeleteTaskByID) // DELETE /tasks/{id}

			r.Post("/status", taskHandler.ChangeStatus) // POST /tasks/{id}/status
		})

		r.Route("/bulk", func(r chi.Router) {
			r.Post("/complete", taskHandler.BulkComplete) // POST /tasks/bulk/complete
			r.Post("/undo", taskHandler.BulkUndo)         // POST /tasks/bulk/undo
			r.Post("/delete", taskHandler.BulkDelete)     // POST /tasks/bulk/delete
		})
	})

	r.Get("/health", taskHandler.HealthCheck)

	return r
}

// Run запускает фоновую проверку и HTTP-сервер, блокируется до отмены ctx
func (a *App) Run(ctx context.Context) error {
	go a.worker.Start(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server started")
		if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("сервер: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Ошибка остановки сервера", err)
	}

	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}

	return nil
}
