package worker

import "errors"

// Ошибки воркера.
var (
	// ErrBadPayload — сообщение job.ready не парсится.
	ErrBadPayload = errors.New("bad job payload")

	// ErrNoJobScript — в рабочей директории нет job.sh.
	ErrNoJobScript = errors.New("job script not found")
)
