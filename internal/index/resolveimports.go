package index

import (
	"path/filepath"
	"strings"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
)

// resolveImports fills in ResolvedFile/IsExternal on every edge in
// imports, given the full set of indexed files and (for Go) the
// project's module path recovered from go.mod. An edge whose module
// never resolves to an indexed file is left with IsExternal set.
func resolveImports(imports []model.ImportEdge, files map[string]*model.ParsedFile, goModule string) {
	fileSet := make(map[string]bool, len(files))
	for relPath := range files {
		fileSet[relPath] = true
	}

	for i := range imports {
		imp := &imports[i]
		l, ok := lang.LanguageForExtension(filepath.Ext(imp.ImportingFile))
		if ok {
			switch l {
			case lang.Go:
				resolveGoImport(imp, fileSet, goModule)
			case lang.JavaScript, lang.TypeScript:
				resolveRelativeImport(imp, fileSet, []string{".ts", ".tsx", ".js", ".jsx"})
			case lang.Python:
				resolvePythonImport(imp, fileSet)
			case lang.Rust:
				resolveRustImport(imp, fileSet)
			case lang.Java:
				resolveJavaImport(imp, fileSet)
			case lang.PHP:
				resolvePHPImport(imp, fileSet)
			}
		}
		if imp.ResolvedFile == "" {
			imp.IsExternal = true
		}
	}
}

// resolveGoImport matches a fully-qualified import path against the
// project's module path, then looks for any indexed file in the
// corresponding package directory (Go resolves to a package, not a
// single file; the first file found in that directory stands in for it).
func resolveGoImport(imp *model.ImportEdge, fileSet map[string]bool, goModule string) {
	if goModule == "" || imp.Module != goModule && !strings.HasPrefix(imp.Module, goModule+"/") {
		return
	}
	rest := strings.TrimPrefix(imp.Module, goModule)
	dir := filepath.ToSlash(strings.TrimPrefix(rest, "/"))

	for f := range fileSet {
		fdir := filepath.ToSlash(filepath.Dir(f))
		if fdir == "." {
			fdir = ""
		}
		if fdir == dir {
			imp.ResolvedFile = f
			return
		}
	}
}

// resolveRelativeImport resolves JS/TS "./x" and "../x/y" specifiers
// relative to the importing file's directory, trying each extension bare,
// and as an index file of a directory import.
func resolveRelativeImport(imp *model.ImportEdge, fileSet map[string]bool, exts []string) {
	if !strings.HasPrefix(imp.Module, ".") {
		return // bare package specifier; never resolves internally
	}
	baseDir := filepath.ToSlash(filepath.Dir(imp.ImportingFile))
	joined := filepath.ToSlash(filepath.Join(baseDir, imp.Module))

	candidates := []string{joined}
	for _, ext := range exts {
		candidates = append(candidates, joined+ext)
		candidates = append(candidates, filepath.ToSlash(filepath.Join(joined, "index"+ext)))
	}
	for _, c := range candidates {
		if fileSet[c] {
			imp.ResolvedFile = c
			return
		}
	}
}

// resolvePythonImport resolves both absolute ("pkg.sub.mod") and relative
// (leading-dot) import forms to a module file or package __init__.py.
func resolvePythonImport(imp *model.ImportEdge, fileSet map[string]bool) {
	mod := imp.Module
	relative := strings.HasPrefix(mod, ".")
	trimmed := strings.TrimLeft(mod, ".")
	var parts []string
	if trimmed != "" {
		parts = strings.Split(trimmed, ".")
	}

	var joined string
	if relative {
		baseDir := filepath.ToSlash(filepath.Dir(imp.ImportingFile))
		joined = filepath.ToSlash(filepath.Join(append([]string{baseDir}, parts...)...))
	} else {
		if len(parts) == 0 {
			return
		}
		joined = filepath.ToSlash(filepath.Join(parts...))
	}

	for _, c := range []string{joined + ".py", filepath.ToSlash(filepath.Join(joined, "__init__.py"))} {
		if fileSet[c] {
			imp.ResolvedFile = c
			return
		}
	}
}

// resolveRustImport resolves "crate::"/"self::"/"super::"-relative paths
// to src/<path>.rs or src/<path>/mod.rs, falling back to the path with
// its last segment dropped (the imported name is an item, not a module).
func resolveRustImport(imp *model.ImportEdge, fileSet map[string]bool) {
	mod := imp.Module
	mod = strings.TrimPrefix(mod, "crate::")
	mod = strings.TrimPrefix(mod, "self::")
	mod = strings.TrimPrefix(mod, "super::")
	segs := strings.Split(mod, "::")

	try := func(segs []string) bool {
		if len(segs) == 0 || segs[0] == "" {
			return false
		}
		p := filepath.ToSlash(filepath.Join(segs...))
		for _, c := range []string{"src/" + p + ".rs", "src/" + p + "/mod.rs"} {
			if fileSet[c] {
				imp.ResolvedFile = c
				return true
			}
		}
		return false
	}
	if try(segs) {
		return
	}
	if len(segs) > 1 {
		try(segs[:len(segs)-1])
	}
}

// resolveJavaImport converts a dotted package.ClassName import into a
// path suffix and matches it against indexed files, since the source
// root (src/main/java/...) varies by build tool.
func resolveJavaImport(imp *model.ImportEdge, fileSet map[string]bool) {
	suffix := strings.ReplaceAll(imp.Module, ".", "/") + ".java"
	for f := range fileSet {
		if strings.HasSuffix(f, suffix) {
			imp.ResolvedFile = f
			return
		}
	}
}

// resolvePHPImport resolves require/include path arguments relative to
// the importing file, and PSR-4-style "App\Foo\Bar" namespace uses by
// path suffix.
func resolvePHPImport(imp *model.ImportEdge, fileSet map[string]bool) {
	mod := imp.Module
	if strings.Contains(mod, "/") || strings.HasSuffix(mod, ".php") {
		baseDir := filepath.ToSlash(filepath.Dir(imp.ImportingFile))
		joined := filepath.ToSlash(filepath.Join(baseDir, mod))
		if !strings.HasSuffix(joined, ".php") {
			joined += ".php"
		}
		if fileSet[joined] {
			imp.ResolvedFile = joined
		}
		return
	}

	suffix := strings.ReplaceAll(mod, `\`, "/") + ".php"
	for f := range fileSet {
		if strings.HasSuffix(f, suffix) {
			imp.ResolvedFile = f
			return
		}
	}
}
