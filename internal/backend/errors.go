package backend

import "errors"

// Ошибки backend'ов.
var (
	// ErrUnknownSystem — нет backend'а с таким именем.
	ErrUnknownSystem = errors.New("unknown execution system")

	// ErrUnknownHandle — handle не принадлежит этому backend'у.
	ErrUnknownHandle = errors.New("unknown job handle")
)
