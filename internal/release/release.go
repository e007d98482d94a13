package release

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

// Lookup — сервис разворачивания имени релиза в список тайлов.
type Lookup interface {
	Tiles(ctx context.Context, release string) ([]string, error)
}

// Repo — lookup поверх базы каталога релизов.
type Repo struct {
	pool *pgxpool.Pool
}

// NewRepo создаёт Repo.
func NewRepo(pool *pgxpool.Pool) *Repo {
	return &Repo{pool: pool}
}

// Tiles возвращает упорядоченный список тайлов релиза.
func (r *Repo) Tiles(ctx context.Context, release string) ([]string, error) {
	query := `
		SELECT tile_name
		FROM release_tiles
		WHERE release_name = $1
		ORDER BY tile_name
	`
	rows, err := r.pool.Query(ctx, query, release)
	if err != nil {
		return nil, fmt.Errorf("query release tiles: %w", err)
	}
	defer rows.Close()

	var tiles []string
	for rows.Next() {
		var tile string
		if err := rows.Scan(&tile); err != nil {
			return nil, fmt.Errorf("scan tile: %w", err)
		}
		tiles = append(tiles, tile)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(tiles) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, release)
	}
	return tiles, nil
}
