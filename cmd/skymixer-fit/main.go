// Skymixer Fit — фитирующий драйвер одного job unit.
//
// Вызывается из runchunk.sh в рабочей директории job unit:
//
//	skymixer-fit --fof-range=START,STOP --seed=SEED --chunk=N CONFIG OFILE TILE
//
// Загружает объекты тайла, фитирует группы диапазона и пишет частичный
// каталог в OFILE. Коды выхода: 0 — успех, 1 — отказ, 2 — ошибка
// использования.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/config"
	"github.com/shaiso/Skymixer/internal/domain"
	"github.com/shaiso/Skymixer/internal/driver"
	"github.com/shaiso/Skymixer/internal/telemetry"
	"github.com/shaiso/Skymixer/internal/tileio"
)

func main() {
	var (
		fofRange = flag.String("fof-range", "", "inclusive FoF index range START,STOP (default: all groups)")
		seed     = flag.Int64("seed", 0, "base random seed of this job unit")
		chunk    = flag.Int("chunk", 0, "chunk number of this job unit")
	)
	flag.Parse()

	if flag.NArg() != 3 {
		fmt.Fprintln(os.Stderr, "usage: skymixer-fit [flags] CONFIG OFILE TILE")
		os.Exit(2)
	}
	configName, ofile, tile := flag.Arg(0), flag.Arg(1), flag.Arg(2)

	var rng *domain.ChunkRange
	if *fofRange != "" {
		r, err := domain.ParseChunkRange(*fofRange)
		if err != nil {
			fmt.Fprintln(os.Stderr, "Error:", err)
			os.Exit(2)
		}
		rng = &r
	}

	logger := telemetry.NewLogger(telemetry.VerbosityFromEnv())

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, logger, configName, ofile, tile, rng, *seed, *chunk); err != nil {
		logger.Error("fit failed", "tile", tile, "chunk", *chunk, "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, logger *slog.Logger, configName, ofile, tile string, rng *domain.ChunkRange, seed int64, chunk int) error {
	cfg, err := config.Load(configName)
	if err != nil {
		return err
	}
	if seed == 0 {
		seed = cfg.Seed
	}

	d, err := driver.New(driver.Config{
		RunConfig: cfg,
		Source:    tileio.NewFSSource(cfg.DataDir),
		Logger:    telemetry.WithChunk(telemetry.WithRun(logger, cfg.Run), chunk),
	})
	if err != nil {
		return err
	}

	partial, err := d.Process(ctx, driver.Request{
		Tile:  tile,
		Chunk: chunk,
		Range: rng,
		Seed:  seed,
	})
	if err != nil {
		return err
	}

	return catalog.WritePartial(partial, ofile)
}
