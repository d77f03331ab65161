package graphquery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/polyidx/polyidx/internal/index"
)

func TestTypedefFiltersToTypeKinds(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "shapes.go"), `package shapes

type Circle struct {
	Radius float64
}

func Circle2() int {
	return 2
}
`)

	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := New(idx)

	defs := e.Typedef("Circle")
	if len(defs) != 1 {
		t.Fatalf("expected exactly one type def named Circle, got %+v", defs)
	}
}

func TestTypedefReturnsNoneForUnknownName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), "package main\n\nfunc main() {}\n")

	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := New(idx)

	if defs := e.Typedef("DoesNotExist"); len(defs) != 0 {
		t.Fatalf("expected no defs, got %+v", defs)
	}
}
