package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/telemetry"
)

// LinkTile публикует symlink на итоговый каталог тайла в стабильной
// директории output/.
//
// Семантика опций совпадает с collate: link работает и как комбинация
// "collate-then-publish" — если итогового каталога ещё нет (или задан
// Clobber), сначала выполняется коллация. В режиме Verify только
// проверка, без записи и без symlink'а.
func (m *Mixer) LinkTile(ctx context.Context, tile string, opts CollateOptions) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("linking tile")

	if opts.Verify {
		return m.CollateTile(ctx, tile, opts)
	}

	blind := m.blind(opts)
	target := m.CollatedPath(tile, blind)

	if _, err := os.Stat(target); os.IsNotExist(err) || opts.Clobber {
		if err := m.CollateTile(ctx, tile, opts); err != nil {
			// Каталог уже есть, а Clobber не просили — просто линкуем
			if !errors.Is(err, catalog.ErrExists) {
				return err
			}
		}
	}

	linkDir := m.OutputLinkDir()
	if err := os.MkdirAll(linkDir, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	// Относительный target: дерево можно переносить целиком
	name := filepath.Base(target)
	relTarget := filepath.Join("..", tile, name)
	linkPath := filepath.Join(linkDir, name)

	os.Remove(linkPath)
	if err := os.Symlink(relTarget, linkPath); err != nil {
		return fmt.Errorf("link tile %s: %w", tile, err)
	}

	logger.Info("tile linked", "link", linkPath, "target", relTarget)
	return nil
}
