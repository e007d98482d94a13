package domain

// ObjectID — уникальный идентификатор объекта внутри тайла.
type ObjectID int64

// Object — один задетектированный источник внутри тайла.
//
// Flags маркируют объект как исключённый из фитирования (0 = фитируется).
// Исключённые объекты не участвуют в FoF-группировке, но их идентификаторы
// фиксируются, чтобы коллация отличала "намеренно отсутствует" от "потерян".
type Object struct {
	// ID — уникальный идентификатор объекта в каталоге тайла.
	ID ObjectID `json:"id"`

	// RA, Dec — положение на небе в градусах.
	RA  float64 `json:"ra"`
	Dec float64 `json:"dec"`

	// Flags — битовые флаги исключения (см. flags.go). 0 = объект фитируется.
	Flags int64 `json:"flags,omitempty"`
}

// Excluded возвращает true, если объект исключён из фитирования.
func (o Object) Excluded() bool {
	return o.Flags != 0
}

// Link — симметричная связь близости между двумя объектами одного тайла.
//
// Связь означает, что объекты достаточно близки и должны рассматриваться
// совместно. Порядок A/B не несёт смысла.
type Link struct {
	A ObjectID `json:"a"`
	B ObjectID `json:"b"`
}

// FOFGroup — friends-of-friends группа: максимальная компонента связности
// по отношению Link (одиночные объекты без связей тоже образуют группы).
//
// Index — стабильный индекс группы в упорядочении тайла. Упорядочение
// детерминировано: группы сортируются по минимальному ObjectID, поэтому
// повторное вычисление на тех же входных данных даёт бит-в-бит тот же
// результат.
type FOFGroup struct {
	// Index — индекс группы в упорядочении тайла (0-based).
	Index int `json:"index"`

	// Objects — идентификаторы объектов группы, отсортированы по возрастанию.
	Objects []ObjectID `json:"objects"`
}

// Size возвращает количество объектов в группе.
func (g FOFGroup) Size() int {
	return len(g.Objects)
}
