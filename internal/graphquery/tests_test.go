package graphquery

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/polyidx/polyidx/internal/index"
)

func TestTestsFindsGoTestFunctionReferencingName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "math.go"), `package math

func Add(a, b int) int {
	return a + b
}
`)
	writeFile(t, filepath.Join(dir, "math_test.go"), `package math

func TestAdd(t *testing.T) {
	Add(1, 2)
}

func TestSubtract(t *testing.T) {
}
`)

	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := New(idx)

	cases := e.Tests("Add")
	if len(cases) != 1 || cases[0].Name != "TestAdd" {
		t.Fatalf("expected only TestAdd to reference Add, got %+v", cases)
	}
}

func TestTestsFindsJSCallbackReferencingName(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "greet.js"), `function greet() {
  return "hi"
}

it('greets', function () {
  greet()
})

it('does nothing', function () {
})
`)

	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := New(idx)

	cases := e.Tests("greet")
	if len(cases) != 1 {
		t.Fatalf("expected exactly one test callback referencing greet, got %+v", cases)
	}
	if cases[0].File != "greet.js" {
		t.Fatalf("expected match in greet.js, got %+v", cases[0])
	}
}
