package orchestrator

import (
	"context"
	"fmt"
	"os"

	"github.com/shaiso/Skymixer/internal/config"
	"github.com/shaiso/Skymixer/internal/telemetry"
)

// SetupTile строит план тайла и создаёт job units: рабочие директории
// и скрипты запуска.
//
// Повторный setup — no-op для уже созданных job units: существующие
// скрипты не перезаписываются без явного overwrite, чтобы не
// инвалидировать уже отправленные или выполненные jobs.
func (m *Mixer) SetupTile(ctx context.Context, tile string, overwrite bool) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("setting up tile")

	p, err := m.plan(ctx, tile)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.WorkDir(tile), 0o755); err != nil {
		return fmt.Errorf("create work dir: %w", err)
	}

	// Копия конфигурации — рядом с job units: скрипты ссылаются на неё
	cfgPath := m.WorkDir(tile) + string(os.PathSeparator) + m.configName()
	if err := config.Save(m.cfg, cfgPath); err != nil {
		return err
	}

	created, skipped := 0, 0
	for _, unit := range p.units {
		if err := os.MkdirAll(unit.Dir, 0o755); err != nil {
			return fmt.Errorf("create chunk dir %s: %w", unit.Dir, err)
		}

		if m.scriptsExist(unit) && !overwrite {
			skipped++
			logger.Debug("scripts exist, skipping",
				"chunk", unit.Chunk,
				"range", unit.Range.String(),
			)
			continue
		}

		if err := m.writeScripts(unit); err != nil {
			return err
		}
		created++
	}

	logger.Info("tile set up",
		"chunks", len(p.units),
		"created", created,
		"skipped", skipped,
	)
	return nil
}
