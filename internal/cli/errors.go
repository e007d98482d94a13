package cli

import "errors"

// Ошибки CLI.
var (
	// ErrUsage — ошибка использования: неверные аргументы или флаги.
	// main транслирует её в код выхода 2.
	ErrUsage = errors.New("usage error")
)
