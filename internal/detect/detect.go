// Package detect identifies which language toolchains a project root uses,
// from marker files (go.mod, package.json, pyproject.toml, ...), so that
// discovery can apply the right conditional ignore rules (vendor/, Pods/)
// and callers can report what kind of project they just indexed.
package detect

import (
	"os"
	"path/filepath"
	"regexp"

	"golang.org/x/mod/modfile"

	"github.com/polyidx/polyidx/internal/lang"
)

// Project describes the toolchains detected at a root directory. A
// polyglot repository can match more than one language.
type Project struct {
	RootPath   string
	Languages  []lang.Language
	GoModule   string // module path from go.mod, if present
	HasVendor  bool   // go.mod or composer.json present -> vendor/ is a dependency cache
	HasPods    bool   // Podfile present -> Pods/ is a dependency cache
}

// marker maps a root-level file to the language(s) it implies.
var markers = []struct {
	file string
	langs []lang.Language
}{
	{"go.mod", []lang.Language{lang.Go}},
	{"Cargo.toml", []lang.Language{lang.Rust}},
	{"pom.xml", []lang.Language{lang.Java}},
	{"build.gradle", []lang.Language{lang.Java}},
	{"build.gradle.kts", []lang.Language{lang.Java}},
	{"pyproject.toml", []lang.Language{lang.Python}},
	{"setup.py", []lang.Language{lang.Python}},
	{"requirements.txt", []lang.Language{lang.Python}},
	{"package.json", []lang.Language{lang.JavaScript, lang.TypeScript}},
	{"composer.json", []lang.Language{lang.PHP}},
}

var moduleLineRe = regexp.MustCompile(`module\s+([^\s]+)`)

// Detect inspects root for marker files and returns the project's detected
// toolchains. Detection is best-effort: a root with no recognized markers
// still returns a valid, empty Project rather than an error.
func Detect(root string) (*Project, error) {
	p := &Project{RootPath: root}

	seen := make(map[lang.Language]bool)
	for _, m := range markers {
		path := filepath.Join(root, m.file)
		if !fileExists(path) {
			continue
		}
		for _, l := range m.langs {
			if !seen[l] {
				seen[l] = true
				p.Languages = append(p.Languages, l)
			}
		}
		if m.file == "go.mod" {
			p.GoModule = goModulePath(path)
			p.HasVendor = true
		}
		if m.file == "composer.json" {
			p.HasVendor = true
		}
	}
	if fileExists(filepath.Join(root, "Podfile")) {
		p.HasPods = true
	}

	return p, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// goModulePath extracts the module path declared in a go.mod file, falling
// back to a regex scan if the structured parse fails (e.g. a malformed or
// unusually old go.mod the modfile parser rejects).
func goModulePath(goModPath string) string {
	data, err := os.ReadFile(goModPath)
	if err != nil {
		return ""
	}
	if mf, err := modfile.Parse(goModPath, data, nil); err == nil && mf.Module != nil {
		return mf.Module.Mod.Path
	}
	if m := moduleLineRe.FindSubmatch(data); len(m) == 2 {
		return string(m[1])
	}
	return ""
}
