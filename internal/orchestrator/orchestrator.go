package orchestrator

import (
	"context"
	"fmt"
	"hash/fnv"
	"log/slog"
	"sync"

	"github.com/shaiso/Skymixer/internal/backend"
	"github.com/shaiso/Skymixer/internal/domain"
	"github.com/shaiso/Skymixer/internal/fof"
	"github.com/shaiso/Skymixer/internal/tileio"
)

// Mixer — оркестратор жизненного цикла тайлов одного запуска.
//
// Конфигурация запуска неизменна; Mixer безопасно переиспользуется
// для любого числа тайлов.
type Mixer struct {
	cfg       *domain.RunConfig
	src       tileio.Source
	backend   backend.Backend
	extraCmds string
	verbosity int
	logger    *slog.Logger

	// План тайла (разбиение + job units) детерминирован, кэшируется
	mu    sync.Mutex
	plans map[string]*tilePlan
}

// Config — конфигурация Mixer.
type Config struct {
	// RunConfig — конфигурация запуска (обязательно).
	RunConfig *domain.RunConfig

	// Source — источник данных тайлов (обязательно).
	Source tileio.Source

	// Backend — execution backend (обязательно).
	Backend backend.Backend

	// ExtraCmds — текст, вставляемый в job-скрипты перед запуском
	// (настройка окружения на узлах кластера).
	ExtraCmds string

	// Verbosity — уровень логирования, транслируется в job-скрипты.
	Verbosity int

	// Logger — логгер (опционально).
	Logger *slog.Logger
}

// New создаёт Mixer.
func New(cfg Config) *Mixer {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Mixer{
		cfg:       cfg.RunConfig,
		src:       cfg.Source,
		backend:   cfg.Backend,
		extraCmds: cfg.ExtraCmds,
		verbosity: cfg.Verbosity,
		logger:    logger,
		plans:     make(map[string]*tilePlan),
	}
}

// tilePlan — вычисленный план тайла: разбиение и job units.
type tilePlan struct {
	part  *fof.Result
	units []domain.JobUnit
}

// plan строит (или возвращает из кэша) план тайла.
//
// Ошибки разбиения фатальны для тайла и возникают до того, как
// хоть один job отправлен.
func (m *Mixer) plan(ctx context.Context, tile string) (*tilePlan, error) {
	m.mu.Lock()
	if p, ok := m.plans[tile]; ok {
		m.mu.Unlock()
		return p, nil
	}
	m.mu.Unlock()

	objects, err := m.src.Objects(ctx, tile)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", tile, err)
	}

	// Связи участвуют в разбиении только при совместном фитировании;
	// иначе каждый объект образует одиночную группу (как в независимом
	// режиме единица работы — объект).
	var links []domain.Link
	if m.cfg.ModelNbrs {
		links, err = m.src.Links(ctx, tile)
		if err != nil {
			return nil, fmt.Errorf("tile %s: %w", tile, err)
		}
	}

	part, err := fof.Partition(objects, links)
	if err != nil {
		return nil, fmt.Errorf("tile %s: %w", tile, err)
	}

	ranges := domain.ChunkRanges(part.NumGroups(), m.cfg.NumFOFsPerChunk)
	units := make([]domain.JobUnit, 0, len(ranges))
	for chunk, rng := range ranges {
		unit := domain.JobUnit{
			Run:          m.cfg.Run,
			Tile:         tile,
			Chunk:        chunk,
			Range:        rng,
			ExpectedRows: part.RowsInRange(rng),
		}
		unit.Dir = m.chunkDir(unit)
		units = append(units, unit)
	}

	p := &tilePlan{part: part, units: units}

	m.mu.Lock()
	m.plans[tile] = p
	m.mu.Unlock()

	m.logger.Debug("tile planned",
		"tile", tile,
		"groups", part.NumGroups(),
		"excluded", len(part.Excluded),
		"chunks", len(units),
	)
	return p, nil
}

// ChunkSeed выводит seed job unit'а из базового seed детерминированно:
// повторная генерация скриптов даёт те же seeds.
func ChunkSeed(base int64, run, tile string, chunk int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%s|%d", run, tile, chunk)
	seed := int64(h.Sum64()&0x7fffffffffffffff) ^ base
	if seed < 0 {
		seed = -seed
	}
	if seed == 0 {
		seed = 1
	}
	return seed
}
