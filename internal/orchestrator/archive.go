package orchestrator

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/shaiso/Skymixer/internal/telemetry"
)

// ArchiveTile удаляет промежуточные выходы job units и сворачивает
// рабочую директорию (логи, скрипты) в один архив.
//
// Выполняется только после успешной коллации: архивация раньше
// уничтожила бы входы, нужные collate.
func (m *Mixer) ArchiveTile(ctx context.Context, tile string, compress bool) error {
	logger := telemetry.WithTile(m.logger, tile)
	logger.Info("archiving tile", "compress", compress)

	if !m.collatedExists(tile) {
		return fmt.Errorf("%w: %s", ErrNotCollated, tile)
	}

	// Повторный вызов после успешной архивации: рабочей директории уже
	// нет, готовый архив трогать нельзя.
	if _, err := os.Stat(m.WorkDir(tile)); os.IsNotExist(err) && m.archiveExists(tile) {
		logger.Info("tile already archived")
		return nil
	}

	p, err := m.plan(ctx, tile)
	if err != nil {
		return err
	}

	// Промежуточные выходы и чекпоинты в архив не идут
	for _, unit := range p.units {
		os.Remove(m.OutputPath(unit))
		os.Remove(m.checkpointPath(unit))
	}

	// Старый архив замещается только после полной записи нового
	archivePath := m.ArchivePath(tile, compress)
	tmp := filepath.Join(filepath.Dir(archivePath), "."+filepath.Base(archivePath)+".tmp")
	if err := tarDir(m.WorkDir(tile), tmp, compress); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("archive tile %s: %w", tile, err)
	}
	if err := os.Rename(tmp, archivePath); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("archive tile %s: %w", tile, err)
	}

	if err := os.RemoveAll(m.WorkDir(tile)); err != nil {
		return fmt.Errorf("remove work dir: %w", err)
	}

	logger.Info("tile archived", "archive", archivePath)
	return nil
}

// archiveExists проверяет наличие архива логов (любого варианта сжатия).
func (m *Mixer) archiveExists(tile string) bool {
	for _, compress := range []bool{true, false} {
		if _, err := os.Stat(m.ArchivePath(tile, compress)); err == nil {
			return true
		}
	}
	return false
}

// collatedExists проверяет наличие итогового каталога (любого варианта).
func (m *Mixer) collatedExists(tile string) bool {
	for _, blind := range []bool{true, false} {
		if _, err := os.Stat(m.CollatedPath(tile, blind)); err == nil {
			return true
		}
	}
	return false
}

// tarDir пишет содержимое dir в tar-архив dst, опционально с gzip.
func tarDir(dir, dst string, compress bool) error {
	f, err := os.Create(dst)
	if err != nil {
		return fmt.Errorf("create archive: %w", err)
	}
	defer f.Close()

	var w io.Writer = f
	var gz *gzip.Writer
	if compress {
		gz = gzip.NewWriter(f)
		defer gz.Close()
		w = gz
	}

	tw := tar.NewWriter(w)
	defer tw.Close()

	base := filepath.Base(dir)
	err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		name := filepath.Join(base, rel)

		hdr, err := tar.FileInfoHeader(info, "")
		if err != nil {
			return err
		}
		hdr.Name = name
		if err := tw.WriteHeader(hdr); err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		src, err := os.Open(path)
		if err != nil {
			return err
		}
		defer src.Close()

		_, err = io.Copy(tw, src)
		return err
	})
	if err != nil {
		return fmt.Errorf("walk %s: %w", dir, err)
	}

	// Финализация writers до возврата: defer закроет повторно, но без ошибок
	if err := tw.Close(); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return err
		}
	}
	return f.Close()
}
