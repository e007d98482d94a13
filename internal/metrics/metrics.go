// Package metrics экспортирует Prometheus-метрики пайплайна.
//
// Метрики регистрируются через promauto в default registry; endpoint
// /metrics поднимают долгоживущие процессы (skymixer-worker).
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// JobsSubmitted — количество отправленных job units по backend'ам.
	JobsSubmitted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skymixer_jobs_submitted_total",
		Help: "Job units submitted to an execution backend",
	}, []string{"backend"})

	// JobsSkipped — job units, пропущенные из-за уже валидного выхода.
	JobsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skymixer_jobs_skipped_total",
		Help: "Job units skipped because a valid output already exists",
	})

	// JobsExecuted — job units, выполненные воркером, по исходу.
	JobsExecuted = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skymixer_worker_jobs_total",
		Help: "Job units executed by the queue worker",
	}, []string{"status"})

	// JobDuration — длительность выполнения job unit воркером.
	JobDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "skymixer_worker_job_duration_seconds",
		Help:    "Wall-clock duration of job unit execution",
		Buckets: prometheus.ExponentialBuckets(1, 2, 14),
	})

	// TilesCollated — успешно собранные тайлы.
	TilesCollated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skymixer_tiles_collated_total",
		Help: "Tiles successfully collated",
	})

	// CollateFailures — отказы коллации по тайлам.
	CollateFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "skymixer_collate_failures_total",
		Help: "Tile collations that failed",
	})

	// TilesFailed — тайлы, чья стадия завершилась ошибкой.
	TilesFailed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "skymixer_tiles_failed_total",
		Help: "Tiles whose pipeline stage failed",
	}, []string{"stage"})
)
