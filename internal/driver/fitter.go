package driver

import (
	"context"
	"fmt"

	"github.com/shaiso/Skymixer/internal/domain"
)

// ObjectResult — результат фитирования одного объекта.
type ObjectResult struct {
	// ID — идентификатор объекта.
	ID domain.ObjectID

	// Flags — битовые флаги фитирования (0 = успех).
	Flags int64

	// Fields — фитированные величины по именам.
	Fields map[string]float64
}

// GroupRequest — запрос на фитирование одной FoF-группы.
type GroupRequest struct {
	// Group — группа с полными записями объектов.
	Group domain.FOFGroup

	// Objects — записи объектов группы (параллельны Group.Objects).
	Objects []domain.Object

	// Seed — детерминированный seed для этой группы.
	Seed int64
}

// Fitter — внешний численный метод фитирования.
//
// FitObject фитирует один объект изолированно; FitGroup фитирует все
// объекты группы совместно (MOF). Возвращённая ошибка означает отказ
// фита, а не отказ процесса: драйвер переводит её в построчный статус.
type Fitter interface {
	FitObject(ctx context.Context, obj domain.Object, seed int64) (ObjectResult, error)
	FitGroup(ctx context.Context, req GroupRequest) ([]ObjectResult, error)
}

// Registry — реестр фиттеров по имени модели.
type Registry struct {
	fitters map[string]Fitter
}

// NewRegistry создаёт реестр с фиттерами по умолчанию.
//
// Регистрирует: moments.
func NewRegistry() *Registry {
	r := &Registry{fitters: make(map[string]Fitter)}
	r.Register("moments", &MomentsFitter{})
	return r
}

// Register добавляет фиттер для имени модели.
func (r *Registry) Register(model string, fitter Fitter) {
	r.fitters[model] = fitter
}

// Get возвращает фиттер для имени модели.
func (r *Registry) Get(model string) (Fitter, error) {
	fitter, ok := r.fitters[model]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownFitModel, model)
	}
	return fitter, nil
}
