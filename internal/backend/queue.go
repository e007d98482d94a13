package backend

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/shaiso/Skymixer/internal/domain"
	"github.com/shaiso/Skymixer/internal/mq"
)

// Queue — backend, отправляющий job units в удалённую очередь.
//
// Submit — fire-and-forget: сообщение публикуется, исход выполнения
// оркестратору не сообщается. Готовность проверяется по выходным
// файлам на следующих вызовах run/collate.
type Queue struct {
	publisher *mq.Publisher
	queue     string
	logger    *slog.Logger
}

// NewQueue создаёт очередной backend.
// queue — имя очереди из конфигурации или флага --queue.
func NewQueue(publisher *mq.Publisher, queue string, logger *slog.Logger) *Queue {
	if logger == nil {
		logger = slog.Default()
	}
	return &Queue{
		publisher: publisher,
		queue:     queue,
		logger:    logger,
	}
}

// Name возвращает имя backend'а.
func (b *Queue) Name() string {
	return domain.SystemQueue
}

// Submit публикует job unit в очередь воркеров.
func (b *Queue) Submit(ctx context.Context, unit domain.JobUnit) (Handle, error) {
	h := Handle{ID: uuid.New(), Unit: unit}

	err := b.publisher.PublishJobReady(ctx, mq.JobReadyPayload{
		Run:   unit.Run,
		Tile:  unit.Tile,
		Chunk: unit.Chunk,
		Range: unit.Range,
		Dir:   unit.Dir,
		Queue: b.queue,
	})
	if err != nil {
		return Handle{}, fmt.Errorf("submit chunk %d of tile %s: %w", unit.Chunk, unit.Tile, err)
	}

	b.logger.Info("job unit queued",
		"tile", unit.Tile,
		"chunk", unit.Chunk,
		"range", unit.Range.String(),
		"queue", b.queue,
	)
	return h, nil
}

// Status для очередного backend'а всегда SUBMITTED: очередь не даёт
// обратной связи, истина — в выходных файлах.
func (b *Queue) Status(ctx context.Context, h Handle) (Status, error) {
	return StatusSubmitted, nil
}
