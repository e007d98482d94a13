// Package config загружает и валидирует run config.
//
// Конфигурация ищется по имени запуска:
//   - $SKYMIXER_CONFIG_DIR/skymixer-<run>.yaml, если переменная задана
//   - skymixer-<run>.yaml в текущей директории иначе
//
// Load принимает и буквальный путь к YAML-файлу.
package config
