package domain

// TileState — состояние жизненного цикла тайла внутри запуска.
//
// Жизненный цикл:
//
//	UNSET → SETUP → RUNNING → COLLATED → ARCHIVED
//	              ↘ FAILED (невалидные/отсутствующие выходы job units)
//
// CLEANED достижимо из любого состояния (полный сброс в UNSET),
// LINKED — только из COLLATED/ARCHIVED.
//
// Состояние не хранится отдельно: оно выводится из файловой системы,
// поэтому стадии идемпотентны и переживают перезапуск оркестратора.
type TileState string

const (
	// TileStateUnset — для тайла ничего не создано.
	TileStateUnset TileState = "UNSET"

	// TileStateSetup — job units созданы, ни один не запускался.
	TileStateSetup TileState = "SETUP"

	// TileStateRunning — часть job units имеет валидные выходы.
	TileStateRunning TileState = "RUNNING"

	// TileStateComplete — все job units имеют валидные выходы.
	TileStateComplete TileState = "COMPLETE"

	// TileStateFailed — хотя бы один выход существует, но не проходит
	// валидацию.
	TileStateFailed TileState = "FAILED"

	// TileStateCollated — собран итоговый каталог тайла.
	TileStateCollated TileState = "COLLATED"

	// TileStateArchived — рабочие директории удалены, логи заархивированы.
	TileStateArchived TileState = "ARCHIVED"
)

// FitStatus — статус обработки одного объекта в выходном каталоге.
//
// Статус фиксируется построчно: ошибка фитирования одного объекта
// никогда не прерывает обработку остальных объектов job unit.
type FitStatus string

const (
	// FitStatusOK — объект успешно отфитирован.
	FitStatusOK FitStatus = "OK"

	// FitStatusFailed — фит объекта не сошёлся (подробности в Flags).
	FitStatusFailed FitStatus = "FAILED"

	// FitStatusExcluded — объект исключён входными флагами, фит не запускался.
	FitStatusExcluded FitStatus = "EXCLUDED"
)
