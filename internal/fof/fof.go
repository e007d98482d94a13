package fof

import (
	"fmt"
	"sort"

	"github.com/shaiso/Skymixer/internal/domain"
)

// Result — результат разбиения каталога тайла.
type Result struct {
	// Groups — FoF-группы в стабильном порядке (по минимальному ObjectID).
	Groups []domain.FOFGroup

	// Excluded — идентификаторы объектов, исключённых из группировки
	// входными флагами. Фиксируются, чтобы коллация отличала
	// "намеренно отсутствует" от "молча потерян".
	Excluded []domain.ObjectID
}

// NumGroups возвращает количество FoF-групп.
func (r *Result) NumGroups() int {
	return len(r.Groups)
}

// GroupsInRange возвращает группы, чьи индексы попадают в диапазон.
func (r *Result) GroupsInRange(rng domain.ChunkRange) []domain.FOFGroup {
	if rng.Start < 0 || rng.Start >= len(r.Groups) {
		return nil
	}
	stop := rng.Stop
	if stop >= len(r.Groups) {
		stop = len(r.Groups) - 1
	}
	return r.Groups[rng.Start : stop+1]
}

// RowsInRange возвращает суммарное число объектов в группах диапазона.
func (r *Result) RowsInRange(rng domain.ChunkRange) int {
	n := 0
	for _, g := range r.GroupsInRange(rng) {
		n += g.Size()
	}
	return n
}

// Partition строит friends-of-friends разбиение.
//
// Объекты с ненулевыми флагами исключаются из группировки, их
// идентификаторы попадают в Result.Excluded. Связь, ссылающаяся на
// неизвестный объект — фатальная ошибка (ErrDanglingLink), а не
// молчаливый пропуск.
//
// Детерминизм: компоненты связности обходятся по отсортированному списку
// смежности, группы сортируются по минимальному ObjectID, объекты внутри
// группы — по возрастанию. Идентичный вход всегда даёт идентичный выход.
func Partition(objects []domain.Object, links []domain.Link) (*Result, error) {
	known := make(map[domain.ObjectID]bool, len(objects))
	var excluded []domain.ObjectID
	var ids []domain.ObjectID

	for _, obj := range objects {
		if known[obj.ID] {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateObject, obj.ID)
		}
		known[obj.ID] = true
		if obj.Excluded() {
			excluded = append(excluded, obj.ID)
			continue
		}
		ids = append(ids, obj.ID)
	}

	// Связи валидируются целиком до построения групп
	adj := make(map[domain.ObjectID][]domain.ObjectID, len(ids))
	for _, link := range links {
		if !known[link.A] {
			return nil, fmt.Errorf("%w: %d (link %d-%d)", ErrDanglingLink, link.A, link.A, link.B)
		}
		if !known[link.B] {
			return nil, fmt.Errorf("%w: %d (link %d-%d)", ErrDanglingLink, link.B, link.A, link.B)
		}
		// Связи с исключёнными объектами не образуют рёбер
		a, b := link.A, link.B
		if objectExcluded(excluded, a) || objectExcluded(excluded, b) {
			continue
		}
		adj[a] = append(adj[a], b)
		adj[b] = append(adj[b], a)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	for id := range adj {
		neighbors := adj[id]
		sort.Slice(neighbors, func(i, j int) bool { return neighbors[i] < neighbors[j] })
	}

	// Компоненты связности: обход в ширину от каждого ещё не посещённого
	// объекта в порядке возрастания ID. Стартовый ID — минимальный в своей
	// компоненте, поэтому порядок групп совпадает с сортировкой по
	// минимальному ObjectID.
	visited := make(map[domain.ObjectID]bool, len(ids))
	var groups []domain.FOFGroup

	for _, id := range ids {
		if visited[id] {
			continue
		}

		var members []domain.ObjectID
		queue := []domain.ObjectID{id}
		visited[id] = true

		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			members = append(members, cur)

			for _, nb := range adj[cur] {
				if !visited[nb] {
					visited[nb] = true
					queue = append(queue, nb)
				}
			}
		}

		sort.Slice(members, func(i, j int) bool { return members[i] < members[j] })
		groups = append(groups, domain.FOFGroup{
			Index:   len(groups),
			Objects: members,
		})
	}

	sort.Slice(excluded, func(i, j int) bool { return excluded[i] < excluded[j] })

	return &Result{Groups: groups, Excluded: excluded}, nil
}

// objectExcluded проверяет принадлежность id списку исключённых.
// Список мал относительно каталога, линейный проход достаточен.
func objectExcluded(excluded []domain.ObjectID, id domain.ObjectID) bool {
	for _, ex := range excluded {
		if ex == id {
			return true
		}
	}
	return false
}
