package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/metrics"
	"github.com/shaiso/Skymixer/internal/telemetry"
)

// RunTile отправляет на выполнение каждый job unit без валидного выхода.
//
// Идемпотентное возобновление: job units с существующим валидным
// выходом пропускаются. Ошибка выполнения одного job unit не
// останавливает отправку остальных.
func (m *Mixer) RunTile(ctx context.Context, tile string) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("running tile")

	p, err := m.plan(ctx, tile)
	if err != nil {
		return err
	}

	submitted, skipped := 0, 0
	for _, unit := range p.units {
		if !m.scriptsExist(unit) {
			return fmt.Errorf("%w: tile %s chunk %d", ErrNotSetup, tile, unit.Chunk)
		}

		if _, err := catalog.ValidatePartial(m.OutputPath(unit), unit); err == nil {
			skipped++
			metrics.JobsSkipped.Inc()
			logger.Debug("valid output exists, skipping",
				"chunk", unit.Chunk,
				"range", unit.Range.String(),
			)
			continue
		}

		if _, err := m.backend.Submit(ctx, unit); err != nil {
			// Инфраструктурный отказ диспетчеризации фатален для тайла:
			// дальше отправлять бессмысленно
			return fmt.Errorf("tile %s chunk %d: %w", tile, unit.Chunk, err)
		}
		submitted++
		metrics.JobsSubmitted.WithLabelValues(m.backend.Name()).Inc()
	}

	logger.Info("tile dispatched",
		"submitted", submitted,
		"skipped", skipped,
		"backend", m.backend.Name(),
	)
	return nil
}

// RerunTile безусловно переотправляет все job units тайла.
//
// Существующие выходы и чекпоинты удаляются до отправки: восстановление
// после битых или устаревших результатов.
func (m *Mixer) RerunTile(ctx context.Context, tile string) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("re-running tile")

	p, err := m.plan(ctx, tile)
	if err != nil {
		return err
	}

	for _, unit := range p.units {
		if !m.scriptsExist(unit) {
			return fmt.Errorf("%w: tile %s chunk %d", ErrNotSetup, tile, unit.Chunk)
		}
		os.Remove(m.OutputPath(unit))
		os.Remove(m.checkpointPath(unit))
	}

	for _, unit := range p.units {
		if _, err := m.backend.Submit(ctx, unit); err != nil {
			return fmt.Errorf("tile %s chunk %d: %w", tile, unit.Chunk, err)
		}
		metrics.JobsSubmitted.WithLabelValues(m.backend.Name()).Inc()
	}

	logger.Info("tile re-dispatched", "chunks", len(p.units))
	return nil
}
