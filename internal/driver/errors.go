package driver

import "errors"

// Ошибки драйвера.
var (
	// ErrUnknownFitModel — нет фиттера с таким именем в реестре.
	ErrUnknownFitModel = errors.New("unknown fit model")

	// ErrBadRange — диапазон FoF-индексов вне пространства групп тайла.
	ErrBadRange = errors.New("fof range out of bounds")
)
