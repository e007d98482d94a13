package orchestrator

import (
	"context"
	"os"

	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/domain"
)

// TileState выводит текущее состояние тайла из файловой системы.
//
// Порядок проверок отражает жизненный цикл с конца: архив и итоговый
// каталог главнее состояния рабочей директории.
func (m *Mixer) TileState(ctx context.Context, tile string) (domain.TileState, error) {
	if _, err := os.Stat(m.TileDir(tile)); os.IsNotExist(err) {
		return domain.TileStateUnset, nil
	}

	if m.archiveExists(tile) {
		return domain.TileStateArchived, nil
	}

	if m.collatedExists(tile) {
		return domain.TileStateCollated, nil
	}

	if _, err := os.Stat(m.WorkDir(tile)); os.IsNotExist(err) {
		return domain.TileStateUnset, nil
	}

	p, err := m.plan(ctx, tile)
	if err != nil {
		return domain.TileStateUnset, err
	}

	valid, broken := 0, 0
	for _, unit := range p.units {
		path := m.OutputPath(unit)
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if _, err := catalog.ValidatePartial(path, unit); err != nil {
			broken++
			continue
		}
		valid++
	}

	switch {
	case broken > 0:
		return domain.TileStateFailed, nil
	case valid == 0:
		return domain.TileStateSetup, nil
	case valid == len(p.units):
		return domain.TileStateComplete, nil
	default:
		return domain.TileStateRunning, nil
	}
}
