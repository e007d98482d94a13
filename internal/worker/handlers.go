package worker

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"time"

	"github.com/shaiso/Skymixer/internal/metrics"
	"github.com/shaiso/Skymixer/internal/mq"
)

// Исходы выполнения job unit для job.completed.
const (
	statusSucceeded = "SUCCEEDED"
	statusFailed    = "FAILED"
)

// handleJobReady выполняет один job unit.
//
// Ошибка возвращается только при нечитаемом payload: тогда сообщение
// уходит на retry и дальше в DLQ. Падение самого скрипта — штатный
// исход, он фиксируется в job.completed, а сообщение подтверждается.
func (w *Worker) handleJobReady(ctx context.Context, msg *mq.Delivery) error {
	payload, err := mq.ParsePayload[mq.JobReadyPayload](&msg.Message)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadPayload, err)
	}

	logger := w.logger.With(
		"run", payload.Run,
		"tile", payload.Tile,
		"chunk", payload.Chunk,
	)
	logger.Info("executing job unit", "dir", payload.Dir, "range", payload.Range.String())

	start := time.Now()
	runErr := w.runJobScript(ctx, payload.Dir)
	elapsed := time.Since(start)
	metrics.JobDuration.Observe(elapsed.Seconds())

	completed := mq.JobCompletedPayload{
		Run:      payload.Run,
		Tile:     payload.Tile,
		Chunk:    payload.Chunk,
		Status:   statusSucceeded,
		Duration: elapsed.String(),
	}
	if runErr != nil {
		completed.Status = statusFailed
		completed.Error = runErr.Error()
		logger.Error("job unit failed", "duration", elapsed, "error", runErr)
	} else {
		logger.Info("job unit completed", "duration", elapsed)
	}
	metrics.JobsExecuted.WithLabelValues(completed.Status).Inc()

	if err := w.publisher.PublishJobCompleted(ctx, completed); err != nil {
		// Job уже выполнен; терять его из-за недоставленного отчёта нельзя
		logger.Error("failed to publish job.completed", "error", err)
	}
	return nil
}

// runJobScript запускает job.sh в рабочей директории job unit.
func (w *Worker) runJobScript(ctx context.Context, dir string) error {
	script := filepath.Join(dir, "job.sh")
	if _, err := os.Stat(script); err != nil {
		return fmt.Errorf("%w: %s", ErrNoJobScript, dir)
	}

	cmd := exec.CommandContext(ctx, "/bin/bash", "job.sh")
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		if len(out) > 0 {
			return fmt.Errorf("job.sh: %w: %s", err, lastLine(out))
		}
		return fmt.Errorf("job.sh: %w", err)
	}
	return nil
}

// lastLine возвращает последнюю непустую строку вывода.
func lastLine(out []byte) string {
	end := len(out)
	for end > 0 && (out[end-1] == '\n' || out[end-1] == '\r') {
		end--
	}
	start := end
	for start > 0 && out[start-1] != '\n' {
		start--
	}
	return string(out[start:end])
}
