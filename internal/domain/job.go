package domain

import "fmt"

// ChunkRange — непрерывный диапазон FoF-индексов [Start, Stop] (включительно).
//
// Диапазон идентифицирует одни и те же объекты при каждом вычислении,
// потому что упорядочение FoF-групп детерминировано.
type ChunkRange struct {
	Start int `json:"start"`
	Stop  int `json:"stop"`
}

// Contains возвращает true, если индекс группы попадает в диапазон.
func (r ChunkRange) Contains(index int) bool {
	return index >= r.Start && index <= r.Stop
}

// Count возвращает количество FoF-индексов в диапазоне.
func (r ChunkRange) Count() int {
	return r.Stop - r.Start + 1
}

// String возвращает представление вида "12,23" (как в --fof-range).
func (r ChunkRange) String() string {
	return fmt.Sprintf("%d,%d", r.Start, r.Stop)
}

// ParseChunkRange разбирает представление вида "12,23" (обратное String).
func ParseChunkRange(s string) (ChunkRange, error) {
	var r ChunkRange
	if _, err := fmt.Sscanf(s, "%d,%d", &r.Start, &r.Stop); err != nil {
		return ChunkRange{}, fmt.Errorf("parse fof range %q: %w", s, err)
	}
	if r.Start < 0 || r.Stop < r.Start {
		return ChunkRange{}, fmt.Errorf("parse fof range %q: start must satisfy 0 <= start <= stop", s)
	}
	return r, nil
}

// ChunkRanges разбивает пространство из numGroups FoF-индексов на диапазоны
// по perChunk групп. Последний диапазон поглощает остаток.
//
// Инвариант: диапазоны непрерывны, не пересекаются и в объединении покрывают
// [0, numGroups-1] ровно один раз.
func ChunkRanges(numGroups, perChunk int) []ChunkRange {
	if numGroups <= 0 || perChunk <= 0 {
		return nil
	}

	nchunks := numGroups / perChunk
	if nchunks*perChunk < numGroups {
		nchunks++
	}

	ranges := make([]ChunkRange, 0, nchunks)
	for chunk := 0; chunk < nchunks; chunk++ {
		start := chunk * perChunk
		stop := start + perChunk - 1
		if stop >= numGroups {
			stop = numGroups - 1
		}
		ranges = append(ranges, ChunkRange{Start: start, Stop: stop})
	}
	return ranges
}

// JobUnit — одна планируемая единица работы: (тайл, диапазон FoF-индексов).
//
// JobUnit создаётся на стадии setup и владеет рабочей директорией,
// сгенерированными скриптами и ожидаемым путём выходного файла.
// Содержимое скриптов неизменно после создания; пересоздать их может
// только setup с явным clobber.
type JobUnit struct {
	// Run — имя запуска (run config).
	Run string `json:"run"`

	// Tile — идентификатор тайла.
	Tile string `json:"tile"`

	// Chunk — порядковый номер job unit внутри тайла (0-based).
	Chunk int `json:"chunk"`

	// Range — диапазон FoF-индексов, закреплённый за этим job unit.
	Range ChunkRange `json:"range"`

	// Dir — рабочая директория job unit.
	Dir string `json:"dir"`

	// ExpectedRows — ожидаемое число строк в выходном каталоге
	// (сумма размеров групп диапазона).
	ExpectedRows int `json:"expected_rows"`
}

// Basename возвращает базовое имя выходных файлов job unit:
// <tile>-<run>-<start>-<stop>.
func (u JobUnit) Basename() string {
	return fmt.Sprintf("%s-%s-%d-%d", u.Tile, u.Run, u.Range.Start, u.Range.Stop)
}

// DirName возвращает имя рабочей директории: chunk%05d_<start>_<stop>.
func (u JobUnit) DirName() string {
	return fmt.Sprintf("chunk%05d_%d_%d", u.Chunk, u.Range.Start, u.Range.Stop)
}
