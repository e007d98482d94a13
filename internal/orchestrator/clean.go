package orchestrator

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/Skymixer/internal/telemetry"
)

// CleanTile удаляет все артефакты тайла в рамках запуска: job units,
// итоговый каталог, архив и опубликованные symlink'и. Полный сброс
// в исходное состояние.
func (m *Mixer) CleanTile(ctx context.Context, tile string) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("cleaning tile")

	// Symlink'и первыми: после удаления цели они висячие
	for _, blind := range []bool{true, false} {
		name := filepath.Base(m.CollatedPath(tile, blind))
		os.Remove(filepath.Join(m.OutputLinkDir(), name))
	}

	if err := os.RemoveAll(m.TileDir(tile)); err != nil {
		return fmt.Errorf("clean tile %s: %w", tile, err)
	}

	logger.Info("tile cleaned")
	return nil
}
