package resolve

import (
	"os"
	"path/filepath"
	"testing"
)

func writeExecutable(t *testing.T, dir, name string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestFromCurrentDirectory(t *testing.T) {
	dir := t.TempDir()
	exe := writeExecutable(t, dir, "tool")

	got, err := FromCurrentDirectory(exe)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != exe {
		t.Fatalf("got %q want %q", got, exe)
	}

	if _, err := FromCurrentDirectory(filepath.Join(dir, "missing")); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}

	nonExec := filepath.Join(dir, "data")
	if err := os.WriteFile(nonExec, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := FromCurrentDirectory(nonExec); err != ErrNotExecutable {
		t.Fatalf("want ErrNotExecutable, got %v", err)
	}
}

func TestFromSearchPathSkipsEmptySegmentsAndFindsFirstHit(t *testing.T) {
	dirA := t.TempDir()
	dirB := t.TempDir()
	writeExecutable(t, dirB, "tool")

	searchPath := dirA + "::" + dirB // empty segment must be skipped, not treated as cwd
	got, err := FromSearchPath("tool", searchPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := filepath.Join(dirB, "tool")
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestFromSearchPathWithDirSeparatorBypassesSearch(t *testing.T) {
	dir := t.TempDir()
	exe := writeExecutable(t, dir, "tool")

	got, err := FromSearchPath(exe, "/nonexistent")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != exe {
		t.Fatalf("got %q want %q", got, exe)
	}
}

func TestFromSearchPathRejectsOverlongCandidate(t *testing.T) {
	b := make([]byte, 5000)
	for i := range b {
		b[i] = 'a'
	}
	longDir := "/" + string(b)

	if _, err := FromSearchPath("tool", longDir); err != ErrNotFound {
		t.Fatalf("want ErrNotFound for overlong candidate, got %v", err)
	}
}

func TestFromPathFallsBackToDefaultSearchPath(t *testing.T) {
	// With no PATH entry present, FromPath must not error out before
	// trying the platform default search path.
	if _, err := FromPath("definitely-not-a-real-binary-xyz", nil); err != ErrNotFound {
		t.Fatalf("want ErrNotFound, got %v", err)
	}
	// sh lives in /bin, which every platform default search path lists,
	// so finding it without a PATH entry shows the fallback was taken.
	if _, err := FromPath("sh", nil); err != nil {
		t.Fatalf("want sh found via the default search path, got %v", err)
	}
}
