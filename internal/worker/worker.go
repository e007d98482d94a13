package worker

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/shaiso/Skymixer/internal/mq"
)

// defaultPrefetch — сколько job-сообщений воркер берёт без подтверждения.
// Jobs тяжёлые (минуты-часы), лишние в полёте только мешают rebalance.
const defaultPrefetch = 1

// Worker потребляет job units из очереди и выполняет их.
type Worker struct {
	conn      *mq.Connection
	publisher *mq.Publisher
	consumer  *mq.Consumer
	prefetch  int

	logger     *slog.Logger
	cancelFunc context.CancelFunc
	wg         sync.WaitGroup
}

// Config — конфигурация Worker.
type Config struct {
	// Conn — соединение с брокером (обязательно).
	Conn *mq.Connection

	// Publisher — для публикации job.completed (обязательно).
	Publisher *mq.Publisher

	// Prefetch — количество сообщений в полёте (default: 1).
	Prefetch int

	// Logger — логгер (опционально).
	Logger *slog.Logger
}

// New создаёт Worker.
func New(cfg Config) *Worker {
	prefetch := cfg.Prefetch
	if prefetch <= 0 {
		prefetch = defaultPrefetch
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Worker{
		conn:      cfg.Conn,
		publisher: cfg.Publisher,
		prefetch:  prefetch,
		logger:    logger,
	}
}

// Start запускает потребление очереди jobs.ready.
func (w *Worker) Start(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	w.cancelFunc = cancel

	w.consumer = mq.NewConsumer(w.conn, w.logger, mq.ConsumerConfig{
		Queue:    mq.QueueJobsReady,
		Handler:  w.handleJobReady,
		Prefetch: w.prefetch,
	})

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		if err := w.consumer.Start(ctx); err != nil && !errors.Is(err, context.Canceled) {
			w.logger.Error("consumer error", "error", err)
		}
	}()

	w.logger.Info("worker started", "prefetch", w.prefetch)
	return nil
}

// Stop останавливает Worker и дожидается текущего job'а.
func (w *Worker) Stop() {
	w.logger.Info("stopping worker...")
	if w.cancelFunc != nil {
		w.cancelFunc()
	}
	w.wg.Wait()
	w.logger.Info("worker stopped")
}
