package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
}

func TestBuildPopulatesSymbols(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), `package main

func Add(a, b int) int {
	return a + b
}

func main() {
	Add(1, 2)
}
`)

	idx := New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	if idx.FileCount() != 1 {
		t.Fatalf("expected 1 indexed file, got %d", idx.FileCount())
	}
	if defs := idx.Lookup("Add"); len(defs) != 1 {
		t.Fatalf("expected 1 def for Add, got %d", len(defs))
	}
}

func TestBuildClearsStaleState(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), `package main

func Add(a, b int) int { return a + b }
`)

	idx := New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("second Build: %v", err)
	}

	if defs := idx.Lookup("Add"); len(defs) != 1 {
		t.Fatalf("expected rebuild to clear tables before repopulating, got %d defs for Add", len(defs))
	}
}

func TestIsStaleDetectsNewAndChangedFiles(t *testing.T) {
	dir := t.TempDir()
	mainPath := filepath.Join(dir, "main.go")
	writeFile(t, mainPath, `package main

func main() {}
`)

	idx := New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}

	stale, err := idx.IsStale(context.Background())
	if err != nil {
		t.Fatalf("IsStale: %v", err)
	}
	if stale {
		t.Fatal("expected fresh index to not be stale")
	}

	// New file appears.
	writeFile(t, filepath.Join(dir, "extra.go"), "package main\n")
	stale, err = idx.IsStale(context.Background())
	if err != nil {
		t.Fatalf("IsStale: %v", err)
	}
	if !stale {
		t.Fatal("expected new file to mark index stale")
	}

	// Rebuild, then touch an existing file's mtime.
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	future := time.Now().Add(2 * time.Second)
	if err := os.Chtimes(mainPath, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}
	stale, err = idx.IsStale(context.Background())
	if err != nil {
		t.Fatalf("IsStale: %v", err)
	}
	if !stale {
		t.Fatal("expected mtime change to mark index stale")
	}
}
