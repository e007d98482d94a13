package backend

import (
	"context"

	"github.com/google/uuid"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Status — состояние отправленного job unit с точки зрения backend'а.
type Status string

const (
	// StatusSubmitted — job отправлен, исход неизвестен (удалённая очередь).
	StatusSubmitted Status = "SUBMITTED"

	// StatusCompleted — job выполнен успешно (локальный backend).
	StatusCompleted Status = "COMPLETED"

	// StatusFailed — job завершился с ненулевым кодом (локальный backend).
	StatusFailed Status = "FAILED"
)

// Handle — идентификатор отправленного job unit.
type Handle struct {
	// ID — уникальный идентификатор отправки.
	ID uuid.UUID

	// Unit — отправленный job unit.
	Unit domain.JobUnit
}

// Backend — абстракция выполнения job units.
//
// Submit возвращается после диспетчеризации: синхронного завершения
// (local) или постановки в очередь (queue). Ожидание готовности —
// не здесь: оркестратор проверяет выходные файлы на следующих вызовах.
// Отмены в полёте нет: job либо завершается, либо вытесняется rerun'ом.
type Backend interface {
	// Name возвращает имя backend'а (для логов и метрик).
	Name() string

	// Submit отправляет job unit на выполнение.
	Submit(ctx context.Context, unit domain.JobUnit) (Handle, error)

	// Status возвращает состояние ранее отправленного job unit.
	Status(ctx context.Context, h Handle) (Status, error)
}
