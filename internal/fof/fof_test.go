package fof

import (
	"errors"
	"reflect"
	"testing"

	"github.com/shaiso/Skymixer/internal/domain"
)

func objs(ids ...domain.ObjectID) []domain.Object {
	out := make([]domain.Object, len(ids))
	for i, id := range ids {
		out[i] = domain.Object{ID: id}
	}
	return out
}

func TestPartition_LinkedPairs(t *testing.T) {
	// Пять объектов, две пары связей: {1,2}, {3}, {4,5}
	objects := objs(1, 2, 3, 4, 5)
	links := []domain.Link{{A: 1, B: 2}, {A: 4, B: 5}}

	res, err := Partition(objects, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := [][]domain.ObjectID{{1, 2}, {3}, {4, 5}}
	if res.NumGroups() != len(want) {
		t.Fatalf("expected %d groups, got %d", len(want), res.NumGroups())
	}
	for i, g := range res.Groups {
		if g.Index != i {
			t.Errorf("group %d: expected index %d, got %d", i, i, g.Index)
		}
		if !reflect.DeepEqual(g.Objects, want[i]) {
			t.Errorf("group %d: expected %v, got %v", i, want[i], g.Objects)
		}
	}
}

func TestPartition_Deterministic(t *testing.T) {
	// Один и тот же вход в другом порядке — бит-в-бит тот же результат
	forward := objs(1, 2, 3, 4, 5, 6)
	backward := objs(6, 5, 4, 3, 2, 1)
	links := []domain.Link{{A: 2, B: 1}, {A: 3, B: 2}, {A: 6, B: 5}}

	a, err := Partition(forward, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	b, err := Partition(backward, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !reflect.DeepEqual(a, b) {
		t.Errorf("partitions differ:\n%v\n%v", a.Groups, b.Groups)
	}
}

func TestPartition_TransitiveClosure(t *testing.T) {
	// 1-2, 2-3 → одна группа {1,2,3}
	objects := objs(1, 2, 3)
	links := []domain.Link{{A: 1, B: 2}, {A: 2, B: 3}}

	res, err := Partition(objects, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NumGroups() != 1 {
		t.Fatalf("expected 1 group, got %d", res.NumGroups())
	}
	if !reflect.DeepEqual(res.Groups[0].Objects, []domain.ObjectID{1, 2, 3}) {
		t.Errorf("expected {1,2,3}, got %v", res.Groups[0].Objects)
	}
}

func TestPartition_NoLinks(t *testing.T) {
	res, err := Partition(objs(10, 20, 30), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if res.NumGroups() != 3 {
		t.Fatalf("expected 3 singleton groups, got %d", res.NumGroups())
	}
	for i, g := range res.Groups {
		if g.Size() != 1 {
			t.Errorf("group %d: expected singleton, got %v", i, g.Objects)
		}
	}
}

func TestPartition_ExcludedObjects(t *testing.T) {
	objects := []domain.Object{
		{ID: 1},
		{ID: 2, Flags: domain.FlagBadObject},
		{ID: 3},
	}
	// Связь через исключённый объект не соединяет 1 и 3
	links := []domain.Link{{A: 1, B: 2}, {A: 2, B: 3}}

	res, err := Partition(objects, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if res.NumGroups() != 2 {
		t.Fatalf("expected 2 groups, got %d", res.NumGroups())
	}
	if !reflect.DeepEqual(res.Excluded, []domain.ObjectID{2}) {
		t.Errorf("expected excluded [2], got %v", res.Excluded)
	}
	for _, g := range res.Groups {
		for _, id := range g.Objects {
			if id == 2 {
				t.Error("excluded object 2 must not appear in any group")
			}
		}
	}
}

func TestPartition_DanglingLink(t *testing.T) {
	_, err := Partition(objs(1, 2), []domain.Link{{A: 1, B: 99}})
	if !errors.Is(err, ErrDanglingLink) {
		t.Errorf("expected ErrDanglingLink, got %v", err)
	}
}

func TestPartition_DuplicateObject(t *testing.T) {
	_, err := Partition(objs(1, 1), nil)
	if !errors.Is(err, ErrDuplicateObject) {
		t.Errorf("expected ErrDuplicateObject, got %v", err)
	}
}

func TestResult_RowsInRange(t *testing.T) {
	objects := objs(1, 2, 3, 4, 5)
	links := []domain.Link{{A: 1, B: 2}, {A: 4, B: 5}}

	res, err := Partition(objects, links)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Группы: {1,2}, {3}, {4,5}; по 2 группы на job unit → [0,1], [2,2]
	ranges := domain.ChunkRanges(res.NumGroups(), 2)
	if len(ranges) != 2 {
		t.Fatalf("expected 2 ranges, got %d", len(ranges))
	}

	total := 0
	for _, rng := range ranges {
		total += res.RowsInRange(rng)
	}
	if total != 5 {
		t.Errorf("expected 5 rows across all ranges, got %d", total)
	}
	if n := res.RowsInRange(ranges[0]); n != 3 {
		t.Errorf("expected 3 rows in first range, got %d", n)
	}
	if n := res.RowsInRange(ranges[1]); n != 2 {
		t.Errorf("expected 2 rows in second range, got %d", n)
	}
}
