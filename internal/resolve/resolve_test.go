package resolve

import (
	"context"
	"os"
	"path/filepath"
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

func buildIndex(t *testing.T, files map[string]string) *index.Index {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		writeFile(t, filepath.Join(dir, name), content)
	}
	idx := index.New(dir)
	if err := idx.Build(context.Background()); err != nil {
		t.Fatalf("Build: %v", err)
	}
	return idx
}

func TestFindCallersDirectCall(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"main.go": `package main

func Add(a, b int) int {
	return a + b
}

func main() {
	Add(1, 2)
}
`,
	})
	e := New(idx)

	callers := e.FindCallers("Add", true)
	if len(callers) != 1 || callers[0].Name != "main" {
		t.Fatalf("expected main to be the sole caller of Add, got %+v", callers)
	}

	// A definition must never appear in its own callers list.
	for _, c := range callers {
		if c.Name == "Add" {
			t.Fatal("Add must not be listed as its own caller")
		}
	}
}

func TestFindCalleesFromRange(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"main.go": `package main

func helper() {}

func run() {
	helper()
}
`,
	})
	e := New(idx)

	defs := idx.Lookup("run")
	if len(defs) != 1 {
		t.Fatalf("expected one def for run, got %d", len(defs))
	}
	callees := e.FindCallees(defs[0])
	var found bool
	for _, c := range callees {
		if c.Name == "helper" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected run to call helper, got %+v", callees)
	}
}

func TestDeadCodeExcludesEntryPointsAndCalled(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"main.go": `package main

func used() {}

func unused() {}

func main() {
	used()
}
`,
	})
	e := New(idx)

	dead := e.DeadCode(DeadCodeOptions{IncludeExported: true})
	var names []string
	for _, d := range dead {
		names = append(names, d.Name)
	}

	foundUnused := false
	for _, n := range names {
		if n == "unused" {
			foundUnused = true
		}
		if n == "main" || n == "used" {
			t.Fatalf("expected main/used to not be dead code, got dead=%v", names)
		}
	}
	if !foundUnused {
		t.Fatalf("expected unused() to be reported dead, got %v", names)
	}
}

func TestResolveSymbolAmbiguous(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"a.go": "package a\n\nfunc Shared() {}\n",
		"b.go": "package b\n\nfunc Shared() {}\n",
	})
	e := New(idx)

	res := e.ResolveSymbol("Shared")
	if res.Def == nil {
		t.Fatal("expected a def to resolve")
	}
	if len(res.Warnings) == 0 {
		t.Fatal("expected an ambiguous warning for a name defined in two files")
	}
}

func TestFindCallersCallbackArgument(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"main.go": `package main

func onReady() {}

func register(cb func()) {
	cb()
}

func main() {
	register(onReady)
}
`,
	})
	e := New(idx)

	callers := e.FindCallers("onReady", true)
	if len(callers) != 1 || callers[0].Name != "main" {
		t.Fatalf("expected main to be the sole caller of onReady via callback argument, got %+v", callers)
	}
}

func TestClassifyRoles(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"main.go": `package main

func Add(a, b int) int {
	return a + b
}

func main() {
	x := Add(1, 2)
	_ = x
}
`,
	})
	e := New(idx)

	cases := []struct {
		line int
		name string
		want string
	}{
		{3, "Add", "definition"},
		{8, "Add", "call"},
		{9, "x", "reference"},
	}
	for _, c := range cases {
		usage, ok := e.Classify("main.go", c.line, c.name)
		if !ok {
			t.Fatalf("Classify(%q, %d) returned !ok", c.name, c.line)
		}
		if string(usage) != c.want {
			t.Errorf("Classify(%q, %d) = %q, want %q", c.name, c.line, usage, c.want)
		}
	}
}

func TestClassifyUnknownFile(t *testing.T) {
	idx := buildIndex(t, map[string]string{
		"main.go": "package main\n\nfunc main() {}\n",
	})
	e := New(idx)

	if _, ok := e.Classify("missing.go", 1, "main"); ok {
		t.Fatal("expected Classify on an unindexed file to report !ok")
	}
}
