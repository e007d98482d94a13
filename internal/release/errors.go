package release

import "errors"

// Ошибки lookup-сервиса.
var (
	// ErrNotFound — релиз отсутствует в базе каталога.
	ErrNotFound = errors.New("release not found")

	// ErrNoLookup — селектор требует базу релизов, а она недоступна.
	ErrNoLookup = errors.New("release lookup unavailable")

	// ErrDuplicateTile — селектор разрешился в список с повторами.
	ErrDuplicateTile = errors.New("duplicate tile in selection")
)
