package orchestrator

import (
	"context"
	"fmt"

	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/metrics"
	"github.com/shaiso/Skymixer/internal/telemetry"
)

// CollateOptions — параметры стадий collate и link.
type CollateOptions struct {
	// Verify — только структурная проверка выходов, без записи слияния.
	Verify bool

	// NoBlind — отключить blinding-преобразование.
	NoBlind bool

	// Clobber — разрешить перезапись существующего итогового каталога.
	Clobber bool

	// SkipErrors — терпеть отсутствующие/битые выходы job units.
	SkipErrors bool
}

// blind возвращает итоговое решение о blinding для этих опций.
func (m *Mixer) blind(opts CollateOptions) bool {
	return m.cfg.Blinded() && !opts.NoBlind
}

// collator строит Collator по плану тайла.
func (m *Mixer) collator(ctx context.Context, tile string) (*catalog.Collator, *tilePlan, error) {
	p, err := m.plan(ctx, tile)
	if err != nil {
		return nil, nil, err
	}

	paths := make([]string, len(p.units))
	for i, unit := range p.units {
		paths[i] = m.OutputPath(unit)
	}

	c := catalog.NewCollator(p.units, paths, p.part.Excluded, telemetry.WithTile(m.logger, tile))
	return c, p, nil
}

// CollateTile собирает выходы job units тайла в итоговый каталог.
//
// В режиме Verify каждый выход проверяется и ничего не пишется;
// результат — pass/fail по каждому файлу. Без Clobber существующий
// итоговый каталог не перезаписывается.
func (m *Mixer) CollateTile(ctx context.Context, tile string, opts CollateOptions) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("collating tile", "verify", opts.Verify)

	c, _, err := m.collator(ctx, tile)
	if err != nil {
		return err
	}

	if opts.Verify {
		failed := 0
		for _, err := range c.Verify() {
			if err != nil {
				failed++
			}
		}
		if failed > 0 {
			return fmt.Errorf("%w: tile %s: %d invalid chunk outputs", ErrVerifyFailed, tile, failed)
		}
		logger.Info("tile verified")
		return nil
	}

	blind := m.blind(opts)
	_, err = c.Collate(m.CollatedPath(tile, blind), catalog.Options{
		Blind:       blind,
		BlindFields: m.cfg.BlindFields,
		Clobber:     opts.Clobber,
		SkipErrors:  opts.SkipErrors,
	})
	if err != nil {
		metrics.CollateFailures.Inc()
		return err
	}

	metrics.TilesCollated.Inc()
	return nil
}
