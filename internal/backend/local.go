package backend

import (
	"context"
	"fmt"
	"log/slog"
	"os/exec"
	"sync"

	"github.com/google/uuid"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Local — backend, выполняющий job units синхронно в текущем
// дереве процессов: `/bin/bash job.sh` в рабочей директории unit'а.
type Local struct {
	logger *slog.Logger

	mu     sync.Mutex
	status map[uuid.UUID]Status
}

// NewLocal создаёт локальный backend.
func NewLocal(logger *slog.Logger) *Local {
	if logger == nil {
		logger = slog.Default()
	}
	return &Local{
		logger: logger,
		status: make(map[uuid.UUID]Status),
	}
}

// Name возвращает имя backend'а.
func (b *Local) Name() string {
	return domain.SystemShell
}

// Submit выполняет job.sh и возвращается после его завершения.
//
// Ненулевой код выхода скрипта — не ошибка Submit: job unit считается
// отправленным и неуспешным, его исход виден через Status и по
// отсутствию валидного выходного файла.
func (b *Local) Submit(ctx context.Context, unit domain.JobUnit) (Handle, error) {
	h := Handle{ID: uuid.New(), Unit: unit}

	b.logger.Info("running job unit",
		"tile", unit.Tile,
		"chunk", unit.Chunk,
		"range", unit.Range.String(),
	)

	cmd := exec.CommandContext(ctx, "/bin/bash", "job.sh")
	cmd.Dir = unit.Dir

	err := cmd.Run()
	b.mu.Lock()
	if err != nil {
		b.status[h.ID] = StatusFailed
	} else {
		b.status[h.ID] = StatusCompleted
	}
	b.mu.Unlock()

	if err != nil {
		b.logger.Warn("job unit failed",
			"tile", unit.Tile,
			"chunk", unit.Chunk,
			"error", err,
		)
	}
	return h, nil
}

// Status возвращает исход выполненного job unit.
func (b *Local) Status(ctx context.Context, h Handle) (Status, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	s, ok := b.status[h.ID]
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrUnknownHandle, h.ID)
	}
	return s, nil
}
