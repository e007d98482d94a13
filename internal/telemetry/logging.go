package telemetry

import (
	"log/slog"
	"os"
)

// Level переводит числовую verbosity в уровень slog.
//
//	0 — WARN (тихий режим)
//	1 — INFO (по умолчанию)
//	2+ — DEBUG
func Level(verbosity int) slog.Level {
	switch {
	case verbosity <= 0:
		return slog.LevelWarn
	case verbosity == 1:
		return slog.LevelInfo
	default:
		return slog.LevelDebug
	}
}

// VerbosityFromEnv читает verbosity из SKYMIXER_VERBOSITY
// (для процессов, запущенных из сгенерированных скриптов).
func VerbosityFromEnv() int {
	switch os.Getenv("SKYMIXER_VERBOSITY") {
	case "0":
		return 0
	case "2", "3":
		return 2
	default:
		return 1
	}
}

// NewLogger создаёт логгер с заданной verbosity.
//
// Формат определяется переменной LOG_FORMAT:
//   - "json" — JSON формат для production
//   - "text" (по умолчанию) — человекочитаемый формат
func NewLogger(verbosity int) *slog.Logger {
	opts := &slog.HandlerOptions{
		Level:     Level(verbosity),
		AddSource: Level(verbosity) == slog.LevelDebug,
	}

	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}

	return slog.New(handler)
}

// WithRun возвращает логгер с добавленным именем запуска.
func WithRun(logger *slog.Logger, run string) *slog.Logger {
	return logger.With("run", run)
}

// WithTile возвращает логгер с добавленным тайлом.
func WithTile(logger *slog.Logger, tile string) *slog.Logger {
	return logger.With("tile", tile)
}

// WithChunk возвращает логгер с добавленным номером chunk'а.
func WithChunk(logger *slog.Logger, chunk int) *slog.Logger {
	return logger.With("chunk", chunk)
}
