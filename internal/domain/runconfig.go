package domain

// Backend selection.
const (
	// SystemShell — локальное синхронное выполнение job units.
	SystemShell = "shell"

	// SystemQueue — отправка job units в удалённую очередь.
	SystemQueue = "queue"
)

// RunConfig — неизменяемая конфигурация запуска.
//
// Идентифицируется именем Run; загружается один раз на вызов оркестратора
// и дальше только читается — безопасно разделяется всеми job-процессами.
type RunConfig struct {
	// Run — имя запуска. Должно совпадать с именем, по которому
	// конфигурация была загружена (несовпадение — фатальная ошибка).
	Run string `yaml:"run"`

	// Bands — фотометрические полосы тайла (например, g, r, i, z).
	Bands []string `yaml:"bands"`

	// FitModel — имя фиттера из реестра драйвера (default: "moments").
	FitModel string `yaml:"fit_model"`

	// ModelNbrs — фитировать соседей совместно (MOF).
	// Выбирается один раз на запуск: меняет единицу работы драйвера
	// с "один объект" на "одна FoF-группа", но не контракт разбиения.
	ModelNbrs bool `yaml:"model_nbrs"`

	// NumFOFsPerChunk — целевое число FoF-групп на один job unit.
	// Последний job unit поглощает остаток.
	NumFOFsPerChunk int `yaml:"num_fofs_per_chunk"`

	// System — execution backend: "shell" или "queue".
	System string `yaml:"system"`

	// Queue — имя очереди для удалённого backend'а.
	Queue string `yaml:"queue"`

	// Blind — применять blinding-преобразование при коллации (default: true).
	Blind *bool `yaml:"blind"`

	// BlindFields — имена полей, подлежащих blinding (default: g1, g2).
	BlindFields []string `yaml:"blind_fields"`

	// OutputDir — корень выходного дерева. Переопределяется
	// переменной окружения SKYMIXER_OUTPUT_DIR.
	OutputDir string `yaml:"output_dir"`

	// DataDir — корень входных данных тайлов. Переопределяется
	// переменной окружения SKYMIXER_DATA_DIR.
	DataDir string `yaml:"data_dir"`

	// Seed — базовый random seed. Seed каждого job unit выводится
	// из него детерминированно (run, tile, chunk).
	Seed int64 `yaml:"seed"`
}

// Blinded возвращает true, если blinding включён (по умолчанию включён).
func (c *RunConfig) Blinded() bool {
	return c.Blind == nil || *c.Blind
}
