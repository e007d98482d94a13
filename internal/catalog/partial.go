package catalog

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Row — одна строка каталога: результат обработки одного объекта.
type Row struct {
	// ID — идентификатор объекта.
	ID domain.ObjectID `json:"id"`

	// FOFIndex — индекс FoF-группы объекта.
	FOFIndex int `json:"fof_index"`

	// Status — статус обработки (OK / FAILED / EXCLUDED).
	Status domain.FitStatus `json:"status"`

	// Flags — битовые флаги фитирования (см. domain/flags.go).
	Flags int64 `json:"flags"`

	// Fields — фитированные величины по именам (g1, g2, flux, t, ...).
	// Для нефитированных объектов величины равны domain.DefVal.
	Fields map[string]float64 `json:"fields"`
}

// Partial — частичный каталог: выход одного job unit.
//
// Пишется ровно один раз на успешное выполнение job'а,
// перезаписывается при rerun.
type Partial struct {
	// Run, Tile — принадлежность каталога.
	Run  string `json:"run"`
	Tile string `json:"tile"`

	// Chunk — номер job unit.
	Chunk int `json:"chunk"`

	// Range — диапазон FoF-индексов job unit.
	Range domain.ChunkRange `json:"range"`

	// Rows — по одной строке на каждый объект диапазона.
	Rows []Row `json:"rows"`
}

// WritePartial пишет частичный каталог атомарно: во временный файл
// рядом с целевым, затем rename.
func WritePartial(p *Partial, path string) error {
	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("marshal partial catalog: %w", err)
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write partial catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("promote partial catalog: %w", err)
	}
	return nil
}

// ReadPartial читает частичный каталог.
func ReadPartial(path string) (*Partial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("read partial catalog %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	var p Partial
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return &p, nil
}

// ValidatePartial выполняет структурную проверку выхода job unit:
// файл существует, непуст, парсится, принадлежит нужному unit'у
// и содержит ожидаемое число строк.
func ValidatePartial(path string, unit domain.JobUnit) (*Partial, error) {
	p, err := ReadPartial(path)
	if err != nil {
		return nil, err
	}

	if p.Run != unit.Run || p.Tile != unit.Tile || p.Range != unit.Range {
		return nil, fmt.Errorf("%w: %s has run=%s tile=%s range=%s, want run=%s tile=%s range=%s",
			ErrWrongUnit, path, p.Run, p.Tile, p.Range, unit.Run, unit.Tile, unit.Range)
	}
	if len(p.Rows) != unit.ExpectedRows {
		return nil, fmt.Errorf("%w: %s has %d rows, want %d",
			ErrRowCount, path, len(p.Rows), unit.ExpectedRows)
	}
	return p, nil
}
