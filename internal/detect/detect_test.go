package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/polyidx/polyidx/internal/lang"
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

func hasLang(p *Project, l lang.Language) bool {
	for _, got := range p.Languages {
		if got == l {
			return true
		}
	}
	return false
}

func TestDetectGoModule(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "go.mod"), "module github.com/example/thing\n\ngo 1.24\n")

	p, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !hasLang(p, lang.Go) {
		t.Fatalf("expected Go detected, got %v", p.Languages)
	}
	if p.GoModule != "github.com/example/thing" {
		t.Fatalf("expected module path extracted, got %q", p.GoModule)
	}
	if !p.HasVendor {
		t.Fatal("expected go.mod to imply vendor/ is a dependency cache")
	}
}

func TestDetectPolyglotProject(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "package.json"), `{"name":"thing"}`)
	writeFile(t, filepath.Join(dir, "pyproject.toml"), "[project]\nname = \"thing\"\n")

	p, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if !hasLang(p, lang.JavaScript) || !hasLang(p, lang.TypeScript) {
		t.Fatalf("expected JS and TS detected from package.json, got %v", p.Languages)
	}
	if !hasLang(p, lang.Python) {
		t.Fatalf("expected Python detected from pyproject.toml, got %v", p.Languages)
	}
	if p.HasVendor {
		t.Fatal("expected no vendor marker without go.mod/composer.json")
	}
}

func TestDetectNoMarkers(t *testing.T) {
	dir := t.TempDir()
	p, err := Detect(dir)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if len(p.Languages) != 0 {
		t.Fatalf("expected no languages detected for an empty dir, got %v", p.Languages)
	}
}
