package tileio

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func TestFSSource_Objects(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tile1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	body := `[{"id":1,"ra":52.1,"dec":-55.4},{"id":2,"ra":52.2,"dec":-55.4,"flags":1}]`
	if err := os.WriteFile(filepath.Join(dir, "objects.json"), []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFSSource(root)
	objects, err := src.Objects(context.Background(), "tile1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(objects) != 2 {
		t.Fatalf("expected 2 objects, got %d", len(objects))
	}
	if objects[1].ID != 2 || !objects[1].Excluded() {
		t.Errorf("flags lost for object 2: %+v", objects[1])
	}
}

func TestFSSource_MissingTile(t *testing.T) {
	src := NewFSSource(t.TempDir())
	_, err := src.Objects(context.Background(), "nope")
	if !errors.Is(err, ErrTileNotFound) {
		t.Errorf("expected ErrTileNotFound, got %v", err)
	}
}

func TestFSSource_OptionalFilesAbsent(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "tile1"), 0o755); err != nil {
		t.Fatal(err)
	}

	src := NewFSSource(root)
	// Отсутствие links.json и flags.json — пустые данные, не ошибка
	links, err := src.Links(context.Background(), "tile1")
	if err != nil || links != nil {
		t.Errorf("expected nil links without error, got %v, %v", links, err)
	}
	flags, err := src.Flags(context.Background(), "tile1")
	if err != nil || flags != nil {
		t.Errorf("expected nil flags without error, got %v, %v", flags, err)
	}
}

func TestFSSource_BadData(t *testing.T) {
	root := t.TempDir()
	dir := filepath.Join(root, "tile1")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "objects.json"), []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}

	src := NewFSSource(root)
	_, err := src.Objects(context.Background(), "tile1")
	if !errors.Is(err, ErrBadData) {
		t.Errorf("expected ErrBadData, got %v", err)
	}
}
