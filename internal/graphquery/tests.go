package graphquery

import (
	"strings"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
)

// TestCase is one test-framework entry point whose body references a name:
// a Go Test*/Benchmark*/Example* function, a pytest/JUnit-style test
// function, or an anonymous callback passed to it/describe/test.
type TestCase struct {
	Name string // the function's own name, or the framework call name for an anonymous callback
	File string
	Line int
	Def  model.SymbolDef
}

// Tests finds every test-framework entry point whose body contains a
// reference to name.
func (e *Engine) Tests(name string) []TestCase {
	var out []TestCase
	for relPath, pf := range e.idx.Files {
		spec := lang.ForLanguage(lang.Language(pf.Language))
		if spec == nil {
			continue
		}
		for _, def := range pf.Defs {
			if def.Kind != model.KindFunction && def.Kind != model.KindMethod {
				continue
			}
			if !isTestEntry(def) {
				continue
			}
			if !referencesName(def, pf.Calls, name) {
				continue
			}
			out = append(out, TestCase{Name: testCaseLabel(def), File: relPath, Line: def.StartLine, Def: def})
		}
	}
	return out
}

// isGoTestFunc reports whether name follows Go's Test*/Benchmark*/Example*
// testing convention.
func isGoTestFunc(name string) bool {
	return strings.HasPrefix(name, "Test") || strings.HasPrefix(name, "Benchmark") || strings.HasPrefix(name, "Example")
}

// isTestEntry reports whether def is a recognized test declaration: named
// by convention (Go, pytest), annotated @Test (a JUnit method, whose
// modifiers text carries its annotations), or tagged with the "test"
// modifier the adapter gives synthesized callback defs (the function
// literal passed to it/describe/test/...).
func isTestEntry(def model.SymbolDef) bool {
	if isGoTestFunc(def.Name) {
		return true
	}
	if strings.HasPrefix(def.Name, "test") {
		return true
	}
	for _, m := range def.Modifiers {
		if strings.EqualFold(m, "test") || strings.Contains(m, "@Test") {
			return true
		}
	}
	return false
}

// referencesName reports whether any call inside def's line range names
// name directly.
func referencesName(def model.SymbolDef, calls []model.CallSite, name string) bool {
	for _, call := range calls {
		if call.File != def.File {
			continue
		}
		if call.Line < def.StartLine || call.Line > def.EndLine {
			continue
		}
		if call.Name == name {
			return true
		}
	}
	return false
}

func testCaseLabel(def model.SymbolDef) string {
	if def.Name != "" {
		return def.Name
	}
	return "<anonymous>"
}
