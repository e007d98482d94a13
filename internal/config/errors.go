package config

import "errors"

// Ошибки загрузки конфигурации. Все они — фатальные ошибки конфигурации:
// запуск прерывается до того, как хоть один job тронет диск.
var (
	// ErrNotFound — файл конфигурации не найден.
	ErrNotFound = errors.New("run config not found")

	// ErrRunMismatch — имя запуска в файле не совпадает с запрошенным.
	ErrRunMismatch = errors.New("run name mismatch")

	// ErrInvalid — конфигурация не прошла валидацию.
	ErrInvalid = errors.New("invalid run config")
)
