package tileio

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Source — источник входных данных тайла.
//
// Objects возвращает каталог детекции тайла (включая флаги исключения
// уровня разбиения). Links возвращает связи близости; Flags — опциональные
// флаги исключения уровня фитирования (side-data: объект остаётся в своей
// FoF-группе, но драйвер помечает его строку как EXCLUDED).
// Отсутствие файла связей или флагов — не ошибка, а пустые данные.
type Source interface {
	Objects(ctx context.Context, tile string) ([]domain.Object, error)
	Links(ctx context.Context, tile string) ([]domain.Link, error)
	Flags(ctx context.Context, tile string) (map[domain.ObjectID]int64, error)
}

// FSSource — источник, читающий данные тайла из файлового дерева:
//
//	<root>/<tile>/objects.json — каталог детекции
//	<root>/<tile>/links.json   — связи близости (опционально)
//	<root>/<tile>/flags.json   — флаги исключения фитирования (опционально)
type FSSource struct {
	root string
}

// NewFSSource создаёт источник с корнем root (обычно cfg.DataDir).
func NewFSSource(root string) *FSSource {
	return &FSSource{root: root}
}

// Objects читает каталог детекции тайла.
func (s *FSSource) Objects(ctx context.Context, tile string) ([]domain.Object, error) {
	path := filepath.Join(s.root, tile, "objects.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrTileNotFound, path)
		}
		return nil, fmt.Errorf("read objects %s: %w", path, err)
	}

	var objects []domain.Object
	if err := json.Unmarshal(data, &objects); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadData, path, err)
	}
	return objects, nil
}

// Links читает связи близости тайла. Отсутствующий файл — пустой список.
func (s *FSSource) Links(ctx context.Context, tile string) ([]domain.Link, error) {
	path := filepath.Join(s.root, tile, "links.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read links %s: %w", path, err)
	}

	var links []domain.Link
	if err := json.Unmarshal(data, &links); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadData, path, err)
	}
	return links, nil
}

// Flags читает флаги исключения фитирования. Отсутствующий файл — nil.
func (s *FSSource) Flags(ctx context.Context, tile string) (map[domain.ObjectID]int64, error) {
	path := filepath.Join(s.root, tile, "flags.json")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read flags %s: %w", path, err)
	}

	var flags map[domain.ObjectID]int64
	if err := json.Unmarshal(data, &flags); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadData, path, err)
	}
	return flags, nil
}
