package catalog

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Gap — учётная запись о job unit, выход которого исключён из коллации
// при skip_errors. Пробел фиксируется по-чанково: диапазон FoF-индексов
// восстанавливает точный список отсутствующих объектов.
type Gap struct {
	Chunk  int               `json:"chunk"`
	Range  domain.ChunkRange `json:"range"`
	Reason string            `json:"reason"`
}

// Collated — итоговый каталог тайла: слияние всех частичных каталогов.
//
// Каталог никогда не пишется частично: он собирается во временном файле
// и атомарно переименовывается только после успешной верификации.
type Collated struct {
	// Run, Tile — принадлежность каталога.
	Run  string `json:"run"`
	Tile string `json:"tile"`

	// Blinded — применён ли blinding к чувствительным полям.
	Blinded bool `json:"blinded"`

	// NumChunks — сколько job units участвовало в сборке.
	NumChunks int `json:"num_chunks"`

	// ExpectedRows — сколько строк должно быть при полной сборке.
	ExpectedRows int `json:"expected_rows"`

	// Gaps — job units, исключённые при skip_errors (пусто при полной сборке).
	Gaps []Gap `json:"gaps,omitempty"`

	// Excluded — объекты, намеренно исключённые из фитирования
	// ещё на стадии разбиения.
	Excluded []domain.ObjectID `json:"excluded,omitempty"`

	// Rows — строки каталога в порядке FoF-индексов.
	Rows []Row `json:"rows"`
}

// Complete возвращает true, если сборка прошла без пробелов.
func (c *Collated) Complete() bool {
	return len(c.Gaps) == 0
}

// Options — параметры коллации.
type Options struct {
	// Blind — применить blinding-преобразование перед записью.
	Blind bool

	// BlindFields — поля, подлежащие blinding.
	BlindFields []string

	// Clobber — разрешить перезапись существующего итогового каталога.
	Clobber bool

	// SkipErrors — терпеть отсутствующие/битые выходы job units,
	// фиксируя пробелы вместо прерывания тайла.
	SkipErrors bool
}

// Collator собирает итоговый каталог тайла из выходов job units.
type Collator struct {
	units    []domain.JobUnit
	paths    []string
	excluded []domain.ObjectID
	logger   *slog.Logger
}

// NewCollator создаёт Collator.
//
// units и paths параллельны: paths[i] — ожидаемый выходной файл units[i].
// excluded — объекты, исключённые разбиением (для учётных метаданных).
func NewCollator(units []domain.JobUnit, paths []string, excluded []domain.ObjectID, logger *slog.Logger) *Collator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Collator{
		units:    units,
		paths:    paths,
		excluded: excluded,
		logger:   logger,
	}
}

// Verify выполняет структурную проверку каждого выхода без записи слияния.
//
// Возвращает список ошибок, параллельный units: nil — выход валиден.
// Сама по себе Verify не прерывается на первой ошибке — отчёт нужен
// по каждому файлу, чтобы точно перенацелить rerun.
func (c *Collator) Verify() []error {
	errs := make([]error, len(c.units))
	for i, unit := range c.units {
		_, err := ValidatePartial(c.paths[i], unit)
		errs[i] = err

		if err != nil {
			c.logger.Error("chunk output invalid",
				"tile", unit.Tile,
				"chunk", unit.Chunk,
				"range", unit.Range.String(),
				"error", err,
			)
		} else {
			c.logger.Debug("chunk output ok",
				"tile", unit.Tile,
				"chunk", unit.Chunk,
				"range", unit.Range.String(),
			)
		}
	}
	return errs
}

// Collate читает выходы всех job units в порядке FoF-индексов и собирает
// итоговый каталог в path.
//
// Без opts.SkipErrors первый невалидный выход прерывает тайл целиком.
// С opts.SkipErrors невалидный выход логируется и фиксируется как Gap —
// каталог никогда не выдаётся за полный молча.
func (c *Collator) Collate(path string, opts Options) (*Collated, error) {
	run, tile := "", ""
	if len(c.units) > 0 {
		run, tile = c.units[0].Run, c.units[0].Tile
	}

	if !opts.Clobber {
		if _, err := os.Stat(path); err == nil {
			return nil, fmt.Errorf("%w: %s", ErrExists, path)
		}
	}

	out := &Collated{
		Run:       run,
		Tile:      tile,
		Blinded:   opts.Blind,
		NumChunks: len(c.units),
		Excluded:  c.excluded,
	}

	seen := make(map[domain.ObjectID]int)

	for i, unit := range c.units {
		out.ExpectedRows += unit.ExpectedRows

		p, err := ValidatePartial(c.paths[i], unit)
		if err != nil {
			if !opts.SkipErrors {
				return nil, fmt.Errorf("tile %s chunk %d [%s]: %w",
					unit.Tile, unit.Chunk, unit.Range.String(), err)
			}
			c.logger.Warn("skipping chunk output",
				"tile", unit.Tile,
				"chunk", unit.Chunk,
				"range", unit.Range.String(),
				"error", err,
			)
			out.Gaps = append(out.Gaps, Gap{
				Chunk:  unit.Chunk,
				Range:  unit.Range,
				Reason: err.Error(),
			})
			continue
		}

		// Дубликаты ловятся до слияния: выход с повтором либо фатален,
		// либо целиком уходит в Gap — каталог не должен содержать
		// объект дважды.
		chunkSeen := make(map[domain.ObjectID]bool, len(p.Rows))
		var dupErr error
		for _, row := range p.Rows {
			prev, dup := seen[row.ID]
			if !dup && chunkSeen[row.ID] {
				prev, dup = unit.Chunk, true
			}
			if dup {
				dupErr = fmt.Errorf("%w: object %d in chunks %d and %d",
					ErrDuplicateRow, row.ID, prev, unit.Chunk)
				break
			}
			chunkSeen[row.ID] = true
		}
		if dupErr != nil {
			if !opts.SkipErrors {
				return nil, dupErr
			}
			c.logger.Warn("skipping chunk output",
				"tile", unit.Tile,
				"chunk", unit.Chunk,
				"range", unit.Range.String(),
				"error", dupErr,
			)
			out.Gaps = append(out.Gaps, Gap{
				Chunk:  unit.Chunk,
				Range:  unit.Range,
				Reason: dupErr.Error(),
			})
			continue
		}

		for id := range chunkSeen {
			seen[id] = unit.Chunk
		}
		out.Rows = append(out.Rows, p.Rows...)
	}

	// Целостность: без пробелов каждый объект обязан присутствовать
	if out.Complete() && len(out.Rows) != out.ExpectedRows {
		return nil, fmt.Errorf("%w: have %d rows, want %d",
			ErrMissingRows, len(out.Rows), out.ExpectedRows)
	}

	// Blinding применяется до любой записи на диск
	if opts.Blind {
		BlindRows(out.Rows, opts.BlindFields)
	}

	if err := writeCollated(out, path); err != nil {
		return nil, err
	}

	c.logger.Info("tile collated",
		"tile", tile,
		"rows", len(out.Rows),
		"expected", out.ExpectedRows,
		"gaps", len(out.Gaps),
		"blinded", out.Blinded,
	)

	return out, nil
}

// writeCollated пишет каталог во временный файл и атомарно продвигает его.
func writeCollated(c *Collated, path string) error {
	data, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal collated catalog: %w", err)
	}

	tmp := filepath.Join(filepath.Dir(path), "."+filepath.Base(path)+".tmp")
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write collated catalog: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("promote collated catalog: %w", err)
	}
	return nil
}

// ReadCollated читает итоговый каталог тайла.
func ReadCollated(path string) (*Collated, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrMissing, path)
		}
		return nil, fmt.Errorf("read collated catalog %s: %w", path, err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrEmpty, path)
	}

	var c Collated
	if err := json.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrCorrupt, path, err)
	}
	return &c, nil
}
