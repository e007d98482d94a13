package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Переменные окружения, переопределяющие пути из конфигурации.
const (
	EnvConfigDir = "SKYMIXER_CONFIG_DIR"
	EnvOutputDir = "SKYMIXER_OUTPUT_DIR"
	EnvDataDir   = "SKYMIXER_DATA_DIR"
)

// Defaults.
const (
	defaultFitModel     = "moments"
	defaultFOFsPerChunk = 100
)

// defaultBlindFields — поля, блайндящиеся по умолчанию (shear-компоненты).
var defaultBlindFields = []string{"g1", "g2"}

// Load загружает run config по имени запуска или буквальному пути.
//
// Если name — существующий файл, он читается напрямую; иначе файл ищется
// как skymixer-<name>.yaml в $SKYMIXER_CONFIG_DIR (или в текущей
// директории). После парсинга конфигурация валидируется и дополняется
// значениями по умолчанию.
func Load(name string) (*domain.RunConfig, error) {
	path, run := resolvePath(name)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return nil, fmt.Errorf("read run config %s: %w", path, err)
	}

	var cfg domain.RunConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: parse %s: %v", ErrInvalid, path, err)
	}

	// Имя запуска в файле обязано совпадать с запрошенным
	if run != "" && cfg.Run != run {
		return nil, fmt.Errorf("%w: config %s declares run %q, requested %q",
			ErrRunMismatch, path, cfg.Run, run)
	}

	applyDefaults(&cfg)

	if err := validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// resolvePath возвращает путь к файлу конфигурации и ожидаемое имя запуска.
// Для буквального пути имя запуска не проверяется (возвращается "").
func resolvePath(name string) (path, run string) {
	if strings.HasSuffix(name, ".yaml") || strings.HasSuffix(name, ".yml") {
		if _, err := os.Stat(name); err == nil {
			return name, ""
		}
	}

	fname := "skymixer-" + name + ".yaml"
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return filepath.Join(dir, fname), name
	}
	return fname, name
}

// applyDefaults дополняет конфигурацию значениями по умолчанию
// и переопределениями из окружения.
func applyDefaults(cfg *domain.RunConfig) {
	if cfg.FitModel == "" {
		cfg.FitModel = defaultFitModel
	}
	if cfg.NumFOFsPerChunk <= 0 {
		cfg.NumFOFsPerChunk = defaultFOFsPerChunk
	}
	if cfg.System == "" {
		cfg.System = domain.SystemShell
	}
	if len(cfg.BlindFields) == 0 {
		cfg.BlindFields = defaultBlindFields
	}

	if dir := os.Getenv(EnvOutputDir); dir != "" {
		cfg.OutputDir = dir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if dir := os.Getenv(EnvDataDir); dir != "" {
		cfg.DataDir = dir
	}
}

// validate проверяет обязательные поля.
func validate(cfg *domain.RunConfig) error {
	if cfg.Run == "" {
		return fmt.Errorf("%w: empty run name", ErrInvalid)
	}
	if cfg.System != domain.SystemShell && cfg.System != domain.SystemQueue {
		return fmt.Errorf("%w: unknown system %q", ErrInvalid, cfg.System)
	}
	if cfg.DataDir == "" {
		return fmt.Errorf("%w: data_dir not set (config or %s)", ErrInvalid, EnvDataDir)
	}
	return nil
}

// Save пишет конфигурацию в файл (используется setup для копирования
// конфигурации в рабочую директорию тайла).
func Save(cfg *domain.RunConfig, path string) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshal run config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write run config %s: %w", path, err)
	}
	return nil
}
