package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/shaiso/Skymixer/internal/backend"
	"github.com/shaiso/Skymixer/internal/config"
	"github.com/shaiso/Skymixer/internal/domain"
	"github.com/shaiso/Skymixer/internal/mq"
	"github.com/shaiso/Skymixer/internal/orchestrator"
	"github.com/shaiso/Skymixer/internal/release"
	"github.com/shaiso/Skymixer/internal/telemetry"
	"github.com/shaiso/Skymixer/internal/tileio"
)

// runStage выполняет одну стадию для всех тайлов селектора.
func runStage(cmd *cobra.Command, command orchestrator.Command, configName, tileSelector string, flags *stageFlags) error {
	ctx := cmd.Context()
	logger := telemetry.NewLogger(flags.verbosity)

	cfg, err := config.Load(configName)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg, flags)
	logger = telemetry.WithRun(logger, cfg.Run)

	tiles, err := resolveTiles(ctx, tileSelector, logger)
	if err != nil {
		return err
	}
	logger.Info("tiles resolved", "selector", tileSelector, "count", len(tiles))

	be, closeFn, err := buildBackend(cfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	mixer := orchestrator.New(orchestrator.Config{
		RunConfig: cfg,
		Source:    tileio.NewFSSource(cfg.DataDir),
		Backend:   be,
		ExtraCmds: flags.extraCmds,
		Verbosity: flags.verbosity,
		Logger:    logger,
	})

	opts := orchestrator.StageOptions{
		Overwrite:  flags.clobber,
		Compress:   !flags.nocompress,
		SkipErrors: flags.skipErrors,
		Collate: orchestrator.CollateOptions{
			Verify:     flags.verify,
			NoBlind:    flags.noblind,
			Clobber:    flags.clobber,
			SkipErrors: flags.skipErrors,
		},
	}
	return mixer.ProcessTiles(ctx, command, tiles, opts)
}

// runStatus печатает состояние жизненного цикла каждого тайла селектора.
//
// Состояние выводится из файловой системы, поэтому backend для отправки
// джобов не нужен — всегда используется локальный.
func runStatus(cmd *cobra.Command, configName, tileSelector string, flags *stageFlags) error {
	ctx := cmd.Context()
	logger := telemetry.NewLogger(flags.verbosity)

	cfg, err := config.Load(configName)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg, flags)

	tiles, err := resolveTiles(ctx, tileSelector, logger)
	if err != nil {
		return err
	}

	mixer := orchestrator.New(orchestrator.Config{
		RunConfig: cfg,
		Source:    tileio.NewFSSource(cfg.DataDir),
		Backend:   backend.NewLocal(logger),
		Verbosity: flags.verbosity,
		Logger:    logger,
	})

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TILE\tSTATE")
	for _, tile := range tiles {
		state, err := mixer.TileState(ctx, tile)
		if err != nil {
			return fmt.Errorf("tile %s: %w", tile, err)
		}
		fmt.Fprintf(w, "%s\t%s\n", tile, state)
	}
	return w.Flush()
}

// applyOverrides накладывает явно заданные флаги поверх конфигурации.
func applyOverrides(cmd *cobra.Command, cfg *domain.RunConfig, flags *stageFlags) {
	f := cmd.Flags()
	if f.Changed("system") {
		cfg.System = flags.system
	}
	if f.Changed("queue") {
		cfg.Queue = flags.queue
	}
	if f.Changed("seed") {
		cfg.Seed = flags.seed
	}
}

// resolveTiles разворачивает tile-селектор в список тайлов.
//
// База релизов подключается только при наличии SKYMIXER_DB_URL:
// для файлов и буквальных тайлов она не нужна, и её отсутствие
// не должно мешать работе.
func resolveTiles(ctx context.Context, selector string, logger *slog.Logger) ([]string, error) {
	var lookup release.Lookup
	if os.Getenv("SKYMIXER_DB_URL") != "" {
		pool, err := release.NewPool(ctx)
		if err != nil {
			logger.Warn("release database not available", "error", err)
		} else {
			defer pool.Close()
			lookup = release.NewRepo(pool)
		}
	}
	return release.Resolve(ctx, selector, lookup)
}

// buildBackend выбирает execution backend по конфигурации запуска.
//
// Вторым значением возвращается функция освобождения ресурсов
// backend'а (закрытие соединения с брокером).
func buildBackend(cfg *domain.RunConfig, logger *slog.Logger) (backend.Backend, func(), error) {
	switch cfg.System {
	case domain.SystemShell:
		return backend.NewLocal(logger), func() {}, nil

	case domain.SystemQueue:
		conn, err := mq.NewConnection(mq.URL(), logger)
		if err != nil {
			return nil, nil, fmt.Errorf("connect to broker: %w", err)
		}
		if err := mq.SetupTopology(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("setup topology: %w", err)
		}
		publisher := mq.NewPublisher(conn, logger)
		return backend.NewQueue(publisher, cfg.Queue, logger), func() { conn.Close() }, nil

	default:
		return nil, nil, fmt.Errorf("%w: %w: %s", ErrUsage, backend.ErrUnknownSystem, cfg.System)
	}
}
