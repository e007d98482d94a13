package worker

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRunJobScript_Success(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/bash\necho ok > result.txt\n"
	if err := os.WriteFile(filepath.Join(dir, "job.sh"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	w := New(Config{})
	if err := w.runJobScript(context.Background(), dir); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "result.txt")); err != nil {
		t.Errorf("job.sh did not run in job dir: %v", err)
	}
}

func TestRunJobScript_MissingScript(t *testing.T) {
	w := New(Config{})
	err := w.runJobScript(context.Background(), t.TempDir())
	if !errors.Is(err, ErrNoJobScript) {
		t.Errorf("expected ErrNoJobScript, got %v", err)
	}
}

func TestRunJobScript_FailureIncludesLastLine(t *testing.T) {
	dir := t.TempDir()
	script := "#!/bin/bash\necho first\necho 'file not found' >&2\nexit 1\n"
	if err := os.WriteFile(filepath.Join(dir, "job.sh"), []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}

	w := New(Config{})
	err := w.runJobScript(context.Background(), dir)
	if err == nil {
		t.Fatal("expected error for failing script")
	}
	if got := err.Error(); !strings.Contains(got, "file not found") {
		t.Errorf("error should carry the last output line, got %q", got)
	}
}

func TestLastLine(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"one\ntwo\nthree\n", "three"},
		{"single", "single"},
		{"trailing\n\n\n", "trailing"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := lastLine([]byte(tc.in)); got != tc.want {
			t.Errorf("lastLine(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
