package driver

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/shaiso/Skymixer/internal/catalog"
	"github.com/shaiso/Skymixer/internal/domain"
	"github.com/shaiso/Skymixer/internal/fof"
	"github.com/shaiso/Skymixer/internal/tileio"
)

// Mode — режим фитирования. Выбирается один раз на запуск по
// конфигурации, а не перепроверяется на каждом объекте.
type Mode string

const (
	// ModeIndependent — каждый объект фитируется изолированно.
	ModeIndependent Mode = "independent"

	// ModeJoint — все объекты FoF-группы фитируются совместно (MOF).
	ModeJoint Mode = "joint"
)

// ModeFromConfig возвращает режим фитирования для конфигурации запуска.
func ModeFromConfig(cfg *domain.RunConfig) Mode {
	if cfg.ModelNbrs {
		return ModeJoint
	}
	return ModeIndependent
}

// Request — запрос на обработку одного job unit (или всего тайла).
type Request struct {
	// Tile — идентификатор тайла.
	Tile string

	// Chunk — номер job unit (0, если Range == nil).
	Chunk int

	// Range — диапазон FoF-индексов; nil = обработать все группы тайла.
	Range *domain.ChunkRange

	// Seed — базовый seed job unit; seed группы выводится из него.
	Seed int64
}

// Driver выполняет фитирование объектов одного тайла.
//
// Driver — state machine job unit'а: разбиение, отбор групп диапазона,
// пообъектный/погрупповой фит, построчные статусы. Процессный крах
// драйвера оркестратор видит как "выход job unit отсутствует/невалиден".
type Driver struct {
	cfg    *domain.RunConfig
	src    tileio.Source
	fitter Fitter
	mode   Mode
	logger *slog.Logger
}

// Config — конфигурация Driver.
type Config struct {
	// RunConfig — конфигурация запуска (обязательно).
	RunConfig *domain.RunConfig

	// Source — источник данных тайла (обязательно).
	Source tileio.Source

	// Registry — реестр фиттеров (опционально; default: NewRegistry()).
	Registry *Registry

	// Logger — логгер (опционально).
	Logger *slog.Logger
}

// New создаёт Driver. Фиттер выбирается из реестра по cfg.FitModel,
// режим — по cfg.ModelNbrs, один раз на запуск.
func New(cfg Config) (*Driver, error) {
	registry := cfg.Registry
	if registry == nil {
		registry = NewRegistry()
	}

	fitter, err := registry.Get(cfg.RunConfig.FitModel)
	if err != nil {
		return nil, err
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Driver{
		cfg:    cfg.RunConfig,
		src:    cfg.Source,
		fitter: fitter,
		mode:   ModeFromConfig(cfg.RunConfig),
		logger: logger,
	}, nil
}

// Mode возвращает выбранный режим фитирования.
func (d *Driver) Mode() Mode {
	return d.mode
}

// Process обрабатывает job unit и возвращает частичный каталог.
//
// Разбиение пересчитывается из источника; оно детерминировано, поэтому
// диапазон индексов указывает на те же объекты, что и при setup.
func (d *Driver) Process(ctx context.Context, req Request) (*catalog.Partial, error) {
	objects, err := d.src.Objects(ctx, req.Tile)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", req.Tile, err)
	}

	var links []domain.Link
	if d.mode == ModeJoint {
		links, err = d.src.Links(ctx, req.Tile)
		if err != nil {
			return nil, fmt.Errorf("tile %s: %w", req.Tile, err)
		}
	}

	part, err := fof.Partition(objects, links)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", req.Tile, err)
	}

	// Опциональные флаги исключения фитирования (side-data)
	sideFlags, err := d.src.Flags(ctx, req.Tile)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", req.Tile, err)
	}

	rng := domain.ChunkRange{Start: 0, Stop: part.NumGroups() - 1}
	if req.Range != nil {
		rng = *req.Range
		if rng.Start < 0 || rng.Stop >= part.NumGroups() || rng.Start > rng.Stop {
			return nil, fmt.Errorf("%w: [%s] of %d groups", ErrBadRange, rng.String(), part.NumGroups())
		}
	}

	byID := make(map[domain.ObjectID]domain.Object, len(objects))
	for _, obj := range objects {
		byID[obj.ID] = obj
	}

	p := &catalog.Partial{
		Run:   d.cfg.Run,
		Tile:  req.Tile,
		Chunk: req.Chunk,
		Range: rng,
	}

	for _, group := range part.GroupsInRange(rng) {
		rows := d.processGroup(ctx, group, byID, sideFlags, req.Seed)
		p.Rows = append(p.Rows, rows...)

		if err := ctx.Err(); err != nil {
			return nil, err
		}
	}

	d.logger.Info("chunk processed",
		"tile", req.Tile,
		"chunk", req.Chunk,
		"range", rng.String(),
		"rows", len(p.Rows),
		"mode", d.mode,
	)

	return p, nil
}

// processGroup фитирует одну FoF-группу и возвращает её строки.
//
// Отказ фита одного объекта пишется в его строку и не трогает соседей.
func (d *Driver) processGroup(ctx context.Context, group domain.FOFGroup, byID map[domain.ObjectID]domain.Object, sideFlags map[domain.ObjectID]int64, baseSeed int64) []catalog.Row {
	groupSeed := baseSeed + int64(group.Index)

	members := make([]domain.Object, 0, group.Size())
	for _, id := range group.Objects {
		members = append(members, byID[id])
	}

	// Объекты, помеченные side-data флагами, не фитируются, но строку получают
	var fit []domain.Object
	rows := make([]catalog.Row, 0, group.Size())
	for _, obj := range members {
		if sideFlags[obj.ID] != 0 {
			rows = append(rows, excludedRow(obj, group.Index))
			continue
		}
		fit = append(fit, obj)
	}

	switch d.mode {
	case ModeJoint:
		results, err := d.fitter.FitGroup(ctx, GroupRequest{
			Group:   group,
			Objects: fit,
			Seed:    groupSeed,
		})
		if err != nil {
			// Отказ всей группы — построчные отказы, не фатальная ошибка
			d.logger.Warn("group fit failed",
				"fof_index", group.Index,
				"size", len(fit),
				"error", err,
			)
			for _, obj := range fit {
				rows = append(rows, failedRow(obj, group.Index, domain.FlagGalFitFailure))
			}
			break
		}
		for _, res := range results {
			rows = append(rows, resultRow(res, group.Index))
		}

	default:
		for _, obj := range fit {
			res, err := d.fitter.FitObject(ctx, obj, groupSeed)
			if err != nil {
				d.logger.Warn("object fit failed",
					"object", obj.ID,
					"fof_index", group.Index,
					"error", err,
				)
				rows = append(rows, failedRow(obj, group.Index, domain.FlagGalFitFailure))
				continue
			}
			rows = append(rows, resultRow(res, group.Index))
		}
	}

	return rows
}

// resultRow переводит результат фита в строку каталога.
func resultRow(res ObjectResult, fofIndex int) catalog.Row {
	status := domain.FitStatusOK
	if res.Flags != 0 {
		status = domain.FitStatusFailed
	}
	return catalog.Row{
		ID:       res.ID,
		FOFIndex: fofIndex,
		Status:   status,
		Flags:    res.Flags,
		Fields:   res.Fields,
	}
}

// failedRow — строка объекта, чей фит не сошёлся.
func failedRow(obj domain.Object, fofIndex int, flags int64) catalog.Row {
	return catalog.Row{
		ID:       obj.ID,
		FOFIndex: fofIndex,
		Status:   domain.FitStatusFailed,
		Flags:    flags,
		Fields:   defaultFields(),
	}
}

// excludedRow — строка объекта, исключённого входными флагами.
func excludedRow(obj domain.Object, fofIndex int) catalog.Row {
	return catalog.Row{
		ID:       obj.ID,
		FOFIndex: fofIndex,
		Status:   domain.FitStatusExcluded,
		Flags:    domain.FlagNoAttempt | domain.FlagBadObject,
		Fields:   defaultFields(),
	}
}

// defaultFields — значения-заполнители для нефитированных величин.
func defaultFields() map[string]float64 {
	return map[string]float64{
		"g1":   domain.DefVal,
		"g2":   domain.DefVal,
		"flux": domain.DefVal,
		"t":    domain.DefVal,
	}
}
