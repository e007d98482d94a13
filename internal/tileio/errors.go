package tileio

import "errors"

// Ошибки источника данных.
var (
	// ErrTileNotFound — данные тайла отсутствуют в источнике.
	ErrTileNotFound = errors.New("tile data not found")

	// ErrBadData — данные тайла не парсятся.
	ErrBadData = errors.New("bad tile data")
)
