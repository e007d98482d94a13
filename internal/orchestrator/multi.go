package orchestrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/shaiso/Skymixer/internal/metrics"
)

// Command — стадия жизненного цикла.
//
// Закрытый набор: диспетчеризация через исчерпывающий switch, так что
// добавление или удаление команды — проверяемое компилятором изменение.
type Command string

const (
	CommandSetup   Command = "setup"
	CommandRun     Command = "run"
	CommandRerun   Command = "rerun"
	CommandCollate Command = "collate"
	CommandClean   Command = "clean"
	CommandArchive Command = "archive"
	CommandLink    Command = "link"
)

// StageOptions — опции стадии, собранные из флагов CLI.
type StageOptions struct {
	// Overwrite — разрешить setup перезаписать существующие скрипты.
	Overwrite bool

	// Compress — сжимать архив (archive).
	Compress bool

	// Collate — опции collate/link.
	Collate CollateOptions

	// SkipErrors — продолжать обработку остальных тайлов после
	// отказа одного (отражение опции collate на уровне запуска).
	SkipErrors bool
}

// ProcessTiles выполняет стадию для каждого тайла списка.
//
// Отказ тайла изолирован: он прерывает только пайплайн этого тайла.
// Без SkipErrors первый отказ останавливает обработку оставшихся
// тайлов; с SkipErrors все тайлы обрабатываются, ошибки собираются.
// Возвращённая ошибка непуста, если хотя бы один тайл не прошёл.
func (m *Mixer) ProcessTiles(ctx context.Context, cmd Command, tiles []string, opts StageOptions) error {
	if len(tiles) == 0 {
		return ErrNoTiles
	}

	var errs []error
	for _, tile := range tiles {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := m.processTile(ctx, cmd, tile, opts)
		if err == nil {
			continue
		}

		metrics.TilesFailed.WithLabelValues(string(cmd)).Inc()
		m.logger.Error("tile stage failed",
			"tile", tile,
			"command", string(cmd),
			"error", err,
		)

		errs = append(errs, fmt.Errorf("tile %s: %w", tile, err))
		if !opts.SkipErrors {
			break
		}
	}

	return errors.Join(errs...)
}

// processTile выполняет одну стадию для одного тайла.
func (m *Mixer) processTile(ctx context.Context, cmd Command, tile string, opts StageOptions) error {
	switch cmd {
	case CommandSetup:
		return m.SetupTile(ctx, tile, opts.Overwrite)
	case CommandRun:
		return m.RunTile(ctx, tile)
	case CommandRerun:
		return m.RerunTile(ctx, tile)
	case CommandCollate:
		return m.CollateTile(ctx, tile, opts.Collate)
	case CommandClean:
		return m.CleanTile(ctx, tile)
	case CommandArchive:
		return m.ArchiveTile(ctx, tile, opts.Compress)
	case CommandLink:
		return m.LinkTile(ctx, tile, opts.Collate)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownCommand, cmd)
	}
}
