package graphquery

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"testing"

	"github.com/polyidx/polyidx/internal/index"
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

func buildProject(t *testing.T) (*index.Index, string) {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module example.com/proj\n\ngo 1.24\n")
	writeFile(t, filepath.Join(dir, "main.go"), `package main

import "example.com/proj/internal/greet"

func main() {
	greet.Hello()
}
`)
	writeFile(t, filepath.Join(dir, "internal", "greet", "greet.go"), `package greet

func Hello() string {
	return "hi"
}
`)

	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx, dir
}

func TestGraphForwardAndReverse(t *testing.T) {
	idx, _ := buildProject(t)
	e := New(idx)

	res := e.Graph("main.go", Imports, 5)
	if res.Root != "main.go" {
		t.Fatalf("expected root main.go, got %q", res.Root)
	}
	wantNodes := []string{"internal/greet/greet.go", "main.go"}
	sort.Strings(res.Nodes)
	if len(res.Nodes) != len(wantNodes) {
		t.Fatalf("expected nodes %v, got %v", wantNodes, res.Nodes)
	}
	for i, n := range wantNodes {
		if res.Nodes[i] != n {
			t.Fatalf("expected nodes %v, got %v", wantNodes, res.Nodes)
		}
	}
	if len(res.Edges) != 1 || res.Edges[0].From != "main.go" || res.Edges[0].To != "internal/greet/greet.go" {
		t.Fatalf("expected one forward edge main.go -> greet.go, got %+v", res.Edges)
	}

	rev := e.Graph("internal/greet/greet.go", Importers, 5)
	if len(rev.Edges) != 1 || rev.Edges[0].From != "main.go" {
		t.Fatalf("expected reverse edge from main.go, got %+v", rev.Edges)
	}
}

func TestGraphZeroDepthAndNegativeClamp(t *testing.T) {
	idx, _ := buildProject(t)
	e := New(idx)

	for _, depth := range []int{0, -3} {
		res := e.Graph("main.go", Imports, depth)
		if len(res.Edges) != 0 {
			t.Fatalf("depth %d: expected no edges, got %+v", depth, res.Edges)
		}
		if len(res.Nodes) != 1 || res.Nodes[0] != "main.go" {
			t.Fatalf("depth %d: expected only root node, got %v", depth, res.Nodes)
		}
	}
}

func TestGraphUnknownFileReturnsEmptyResult(t *testing.T) {
	idx, _ := buildProject(t)
	e := New(idx)

	res := e.Graph("nope.go", Imports, 5)
	if len(res.Nodes) != 0 || len(res.Edges) != 0 {
		t.Fatalf("expected empty result for unknown file, got %+v", res)
	}
}

func TestFileExportsJavaScript(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "widget.js"), `export function greet() {
  return "hi"
}
`)
	writeFile(t, filepath.Join(dir, "main.js"), `import { greet } from './widget'

greet()
`)

	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	e := New(idx)

	exports := e.FileExports("widget.js")
	if len(exports) != 1 || exports[0].ExportedName != "greet" {
		t.Fatalf("expected greet exported from widget.js, got %+v", exports)
	}

	exporters := e.Exporters("widget.js")
	if len(exporters) != 1 || exporters[0] != "main.js" {
		t.Fatalf("expected main.js to be the sole exporter of widget.js, got %v", exporters)
	}
}

func TestImportsExportersFileExports(t *testing.T) {
	idx, _ := buildProject(t)
	e := New(idx)

	imps := e.ProjectImports("main.go")
	if len(imps) != 1 || imps[0].Module != "example.com/proj/internal/greet" {
		t.Fatalf("expected one import of the greet package, got %+v", imps)
	}
	if imps[0].ResolvedFile != "internal/greet/greet.go" || imps[0].IsExternal {
		t.Fatalf("expected import resolved internally, got %+v", imps[0])
	}

	exporters := e.Exporters("internal/greet/greet.go")
	if len(exporters) != 1 || exporters[0] != "main.go" {
		t.Fatalf("expected main.go as the sole exporter, got %v", exporters)
	}
}
