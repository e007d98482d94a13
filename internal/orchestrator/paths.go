package orchestrator

import (
	"fmt"
	"path/filepath"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Раскладка выходного дерева:
//
//	<output_dir>/<run>/<tile>/                        — директория тайла
//	<output_dir>/<run>/<tile>/work/                   — рабочая директория
//	<output_dir>/<run>/<tile>/work/chunkNNNNN_s_t/    — директория job unit
//	<output_dir>/<run>/<tile>/<tile>-<run>[-blind].json — итоговый каталог
//	<output_dir>/<run>/output/                        — symlink-дерево
//
// Директории тайла принадлежат только его job units: два тайла никогда
// не пишут в одно место.

// TileDir возвращает директорию тайла.
func (m *Mixer) TileDir(tile string) string {
	return filepath.Join(m.cfg.OutputDir, m.cfg.Run, tile)
}

// WorkDir возвращает рабочую директорию тайла.
func (m *Mixer) WorkDir(tile string) string {
	return filepath.Join(m.TileDir(tile), "work")
}

// chunkDir возвращает директорию job unit.
func (m *Mixer) chunkDir(unit domain.JobUnit) string {
	return filepath.Join(m.WorkDir(unit.Tile), unit.DirName())
}

// OutputPath возвращает ожидаемый выходной файл job unit.
func (m *Mixer) OutputPath(unit domain.JobUnit) string {
	return filepath.Join(unit.Dir, unit.Basename()+".json")
}

// checkpointPath возвращает файл чекпоинта job unit.
func (m *Mixer) checkpointPath(unit domain.JobUnit) string {
	return filepath.Join(unit.Dir, unit.Basename()+"-checkpoint.json")
}

// logPath возвращает лог-файл job unit.
func (m *Mixer) logPath(unit domain.JobUnit) string {
	return filepath.Join(unit.Dir, unit.Basename()+".log")
}

// CollatedPath возвращает путь итогового каталога тайла.
// Блайндовый и открытый каталоги различаются именем, чтобы открытый
// никогда молча не подменял блайндовый.
func (m *Mixer) CollatedPath(tile string, blind bool) string {
	name := fmt.Sprintf("%s-%s.json", tile, m.cfg.Run)
	if blind {
		name = fmt.Sprintf("%s-%s-blind.json", tile, m.cfg.Run)
	}
	return filepath.Join(m.TileDir(tile), name)
}

// ArchivePath возвращает путь архива логов тайла.
func (m *Mixer) ArchivePath(tile string, compress bool) string {
	name := fmt.Sprintf("%s-%s-work.tar", tile, m.cfg.Run)
	if compress {
		name += ".gz"
	}
	return filepath.Join(m.TileDir(tile), name)
}

// OutputLinkDir возвращает директорию публикуемых symlink'ов запуска.
func (m *Mixer) OutputLinkDir() string {
	return filepath.Join(m.cfg.OutputDir, m.cfg.Run, "output")
}

// configName возвращает имя копии run config в рабочей директории.
func (m *Mixer) configName() string {
	return "skymixer-" + m.cfg.Run + ".yaml"
}
