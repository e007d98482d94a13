package release

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
)

// Resolve разворачивает tile-селектор в упорядоченный список тайлов
// без дубликатов. Порядок разрешения:
//
//  1. существующий файл — по одному тайлу на непустую строку;
//  2. имя релиза через lookup (если lookup доступен и релиз найден);
//  3. буквальный идентификатор одного тайла.
//
// Разрешение выполняется один раз при старте; дальше список неизменен.
func Resolve(ctx context.Context, selector string, lookup Lookup) ([]string, error) {
	if info, err := os.Stat(selector); err == nil && !info.IsDir() {
		tiles, err := readTileFile(selector)
		if err != nil {
			return nil, err
		}
		return dedupe(tiles)
	}

	if lookup != nil {
		tiles, err := lookup.Tiles(ctx, selector)
		if err == nil {
			return dedupe(tiles)
		}
		if !errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("lookup release %q: %w", selector, err)
		}
		// Релиза нет — селектор трактуется как буквальный тайл
	}

	return []string{selector}, nil
}

// readTileFile читает список тайлов из файла.
func readTileFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open tile list %s: %w", path, err)
	}
	defer f.Close()

	var tiles []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		tiles = append(tiles, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read tile list %s: %w", path, err)
	}
	return tiles, nil
}

// dedupe проверяет отсутствие дубликатов, сохраняя порядок.
func dedupe(tiles []string) ([]string, error) {
	seen := make(map[string]bool, len(tiles))
	for _, tile := range tiles {
		if seen[tile] {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTile, tile)
		}
		seen[tile] = true
	}
	return tiles, nil
}
