// Skymixer Worker — выполняет job units из очереди.
//
// Worker:
//   - Получает сообщения job.ready из RabbitMQ
//   - Выполняет job.sh в рабочей директории job unit
//   - Публикует результат в job.completed
//
// Workers масштабируются горизонтально: состояние тайла живёт в
// файловой системе, воркер только исполняет готовые скрипты.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shaiso/Skymixer/internal/mq"
	"github.com/shaiso/Skymixer/internal/telemetry"
	"github.com/shaiso/Skymixer/internal/worker"
)

func main() {
	logger := telemetry.NewLogger(telemetry.VerbosityFromEnv())
	logger.Info("starting skymixer-worker")

	// graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// RabbitMQ
	mqConn, err := mq.NewConnection(mq.URL(), logger)
	if err != nil {
		logger.Error("failed to connect to RabbitMQ", "error", err)
		os.Exit(1)
	}
	defer mqConn.Close()
	logger.Info("RabbitMQ connected")

	if err := mq.SetupTopology(mqConn); err != nil {
		logger.Error("failed to setup topology", "error", err)
		os.Exit(1)
	}

	publisher := mq.NewPublisher(mqConn, logger)

	w := worker.New(worker.Config{
		Conn:      mqConn,
		Publisher: publisher,
		Logger:    logger,
	})

	if err := w.Start(ctx); err != nil {
		logger.Error("failed to start worker", "error", err)
		os.Exit(1)
	}

	// HTTP mux: /healthz + /metrics
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	port := ":8082"
	if v := os.Getenv("WORKER_PORT"); v != "" {
		port = ":" + v
	}

	go func() {
		logger.Info("listening", "addr", port)
		if err := http.ListenAndServe(port, mux); err != nil {
			logger.Error("http server error", "error", err)
			cancel()
		}
	}()

	<-ctx.Done()

	w.Stop()
	logger.Info("skymixer-worker stopped")
}
