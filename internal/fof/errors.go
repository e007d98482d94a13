package fof

import "errors"

// Ошибки разбиения.
var (
	// ErrDanglingLink — связь ссылается на объект, которого нет в каталоге.
	// Фатальная ошибка конфигурации: запуск прерывается до отправки jobs.
	ErrDanglingLink = errors.New("link references unknown object")

	// ErrDuplicateObject — в каталоге два объекта с одним идентификатором.
	ErrDuplicateObject = errors.New("duplicate object id")
)
