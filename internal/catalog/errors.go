package catalog

import "errors"

// Ошибки каталогов.
var (
	// ErrMissing — выходной файл job unit отсутствует.
	ErrMissing = errors.New("catalog file missing")

	// ErrEmpty — выходной файл job unit пуст.
	ErrEmpty = errors.New("catalog file empty")

	// ErrCorrupt — файл не парсится как каталог.
	ErrCorrupt = errors.New("catalog file corrupt")

	// ErrRowCount — число строк не совпадает с ожидаемым для диапазона.
	ErrRowCount = errors.New("unexpected catalog row count")

	// ErrWrongUnit — каталог принадлежит другому run/tile/диапазону.
	ErrWrongUnit = errors.New("catalog belongs to a different job unit")

	// ErrDuplicateRow — идентификатор объекта встречается более одного раза.
	ErrDuplicateRow = errors.New("duplicate object id in collation")

	// ErrMissingRows — после коллации не хватает объектов.
	ErrMissingRows = errors.New("objects missing from collation")

	// ErrExists — итоговый каталог уже существует (нужен clobber).
	ErrExists = errors.New("collated catalog already exists")
)
