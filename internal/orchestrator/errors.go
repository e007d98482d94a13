package orchestrator

import "errors"

// Ошибки оркестратора.
var (
	// ErrNotSetup — стадия требует job units, а setup не выполнялся.
	ErrNotSetup = errors.New("tile is not set up")

	// ErrNotCollated — archive требует успешной коллации тайла.
	// Архивация раньше уничтожила бы входы, нужные collate.
	ErrNotCollated = errors.New("tile is not collated")

	// ErrVerifyFailed — verify нашёл невалидные выходы job units.
	ErrVerifyFailed = errors.New("verification failed")

	// ErrNoTiles — селектор разрешился в пустой список тайлов.
	ErrNoTiles = errors.New("no tiles to process")

	// ErrUnknownCommand — неизвестная команда стадии.
	ErrUnknownCommand = errors.New("unknown command")
)
