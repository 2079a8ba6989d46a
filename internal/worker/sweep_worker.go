package worker

import (
	"context"
	"time"

	"taskBoard/internal/logger"

	"go.uber.org/zap"
)

// Sweeper - то, что умеет пересчитывать статусы коллекции
type Sweeper interface {
	Sweep(ctx context.Context, now time.Time, limit int) int
}

// SweepWorker периодически запускает пересчёт статусов задач.
// Первый проход выполняется сразу при старте, дальше по таймеру.
type SweepWorker struct {
	store     Sweeper
	interval  time.Duration
	batchSize int
}

func NewSweepWorker(store Sweeper, interval *time.Duration, batchSize *int) *SweepWorker {
	var intervalToSet time.Duration
	if interval == nil {
		intervalToSet = time.Minute
	} else {
		intervalToSet = *interval
	}

	var batchToSet int
	if batchSize == nil {
		batchToSet = 100
	} else {
		batchToSet = *batchSize
	}

	return &SweepWorker{
		store:     store,
		interval:  intervalToSet,
		batchSize: batchToSet,
	}
}

func (w *SweepWorker) Start(ctx context.Context) {
	// первый проход сразу, чтобы коллекция была актуальна с загрузки
	w.Check(ctx)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			logger.Info("Worker: Фоновая проверка статусов задач", zap.Time("started_at", time.Now()))
			w.Check(ctx)
		case <-ctx.Done():
			logger.Info("Worker: Фоновая проверка останавливается")
			return
		}
	}
}

func (w *SweepWorker) Check(ctx context.Context) {
	start := time.Now()

	applied := w.store.Sweep(ctx, start, w.batchSize)

	logger.Info(
		"Worker: Завершение проверки задач",
		zap.Duration("ms", time.Since(start)),
		zap.Int("transitions", applied),
	)
}
