package index

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestSaveCacheLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), `package main

func Add(a, b int) int { return a + b }

func main() { Add(1, 2) }
`)

	idx := New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := idx.SaveCache(); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	idx2 := New(dir)
	if err := idx2.BuildIncremental(context.Background()); err != nil {
		t.Fatalf("BuildIncremental: %v", err)
	}
	if defs := idx2.Lookup("Add"); len(defs) != 1 {
		t.Fatalf("expected 1 def for Add after cache restore, got %d", len(defs))
	}
	if idx2.FileCount() != 1 {
		t.Fatalf("expected 1 file restored from cache, got %d", idx2.FileCount())
	}
}

func TestBuildIncrementalReparsesOnlyChangedFiles(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.go")
	writeFile(t, aPath, "package main\n\nfunc Alpha() {}\n")
	writeFile(t, filepath.Join(dir, "b.go"), "package main\n\nfunc Beta() {}\n")

	idx := New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := idx.SaveCache(); err != nil {
		t.Fatalf("SaveCache: %v", err)
	}

	// Change only a.go's content and mtime; b.go is untouched.
	future := time.Now().Add(2 * time.Second)
	if err := os.WriteFile(aPath, []byte("package main\n\nfunc Alpha() {}\nfunc Gamma() {}\n"), 0o600); err != nil {
		t.Fatalf("rewrite a.go: %v", err)
	}
	if err := os.Chtimes(aPath, future, future); err != nil {
		t.Fatalf("Chtimes: %v", err)
	}

	idx2 := New(dir)
	if err := idx2.BuildIncremental(context.Background()); err != nil {
		t.Fatalf("BuildIncremental: %v", err)
	}

	if defs := idx2.Lookup("Gamma"); len(defs) != 1 {
		t.Fatalf("expected Gamma to be picked up from the reparsed file, got %d", len(defs))
	}
	if defs := idx2.Lookup("Beta"); len(defs) != 1 {
		t.Fatalf("expected Beta to survive restoration from cache, got %d", len(defs))
	}
}

func TestBuildIncrementalFallsBackWithoutCache(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nfunc Solo() {}\n")

	idx := New(dir)
	if err := idx.BuildIncremental(context.Background()); err != nil {
		t.Fatalf("BuildIncremental with no prior cache: %v", err)
	}
	if defs := idx.Lookup("Solo"); len(defs) != 1 {
		t.Fatalf("expected Solo to be found via full-parse fallback, got %d", len(defs))
	}
}
