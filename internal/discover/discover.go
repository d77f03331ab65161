// Package discover walks a repository and returns the source files the
// index builder should parse, honoring the always-ignored build/VCS
// directories plus the marker-conditional ones (vendor/, Pods/).
package discover

import (
	"bufio"
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/polyidx/polyidx/internal/detect"
	"github.com/polyidx/polyidx/internal/lang"
)

// alwaysIgnore are directory names skipped regardless of project markers.
var alwaysIgnore = map[string]bool{
	".git": true, ".hg": true, ".svn": true,
	"node_modules": true, "__pycache__": true, "target": true,
	".venv": true, "venv": true, "env": true, ".tox": true, ".nox": true,
	".mypy_cache": true, ".pytest_cache": true, ".ruff_cache": true,
	".gradle": true, ".maven": true, ".idea": true, ".vscode": true,
	"dist": true, "build": true, "out": true, "bin": true, "obj": true,
	"coverage": true, "htmlcov": true, ".cache": true, ".tmp": true, "tmp": true,
}

// IgnoreSuffixes are file suffixes to skip outright.
var IgnoreSuffixes = map[string]bool{
	".tmp": true, "~": true, ".pyc": true, ".pyo": true,
	".o": true, ".a": true, ".so": true, ".dll": true, ".class": true,
}

// FileInfo represents a discovered source file.
type FileInfo struct {
	Path     string        // absolute path
	RelPath  string        // relative to repo root, slash-separated
	Language lang.Language // detected language
}

// Options configures file discovery.
type Options struct {
	IgnoreFile    string   // path to a .polyidxignore file (optional)
	ExtraPatterns []string // additional glob patterns to skip, from config
}

// markers resolves which marker-conditional directory ignores apply at root,
// derived from detect.Detect so project-pattern detection and discovery's
// conditional ignores never disagree about what the root looks like.
type markers struct {
	vendor bool // vendor/ ignored iff go.mod or composer.json present
	pods   bool // Pods/ ignored iff Podfile present
}

func detectMarkers(root string) markers {
	p, err := detect.Detect(root)
	if err != nil {
		return markers{}
	}
	return markers{vendor: p.HasVendor, pods: p.HasPods}
}

func (m markers) shouldSkipDir(name, rel string, extraIgnore []string) bool {
	if alwaysIgnore[name] {
		return true
	}
	if name == "vendor" && m.vendor {
		return true
	}
	if name == "Pods" && m.pods {
		return true
	}
	for _, pattern := range extraIgnore {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if matched, _ := filepath.Match(pattern, rel); matched {
			return true
		}
	}
	return false
}

// Discover walks a repository and returns all source files in a supported
// language, in the order filepath.Walk visits them (lexical per directory).
func Discover(ctx context.Context, repoPath string, opts *Options) ([]FileInfo, error) {
	repoPath, err := filepath.Abs(repoPath)
	if err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var extraIgnore []string
	if opts != nil && opts.IgnoreFile != "" {
		extraIgnore, _ = loadIgnoreFile(opts.IgnoreFile)
	} else {
		extraIgnore, _ = loadIgnoreFile(filepath.Join(repoPath, ".polyidxignore"))
	}
	if opts != nil {
		extraIgnore = append(extraIgnore, opts.ExtraPatterns...)
	}

	m := detectMarkers(repoPath)

	var files []FileInfo

	err = filepath.Walk(repoPath, func(path string, info os.FileInfo, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if walkErr != nil {
			return filepath.SkipDir
		}

		rel, _ := filepath.Rel(repoPath, path)

		if info.IsDir() {
			if path != repoPath && m.shouldSkipDir(info.Name(), rel, extraIgnore) {
				return filepath.SkipDir
			}
			return nil
		}

		for suffix := range IgnoreSuffixes {
			if strings.HasSuffix(path, suffix) {
				return nil
			}
		}

		ext := filepath.Ext(path)
		l, ok := lang.LanguageForExtension(ext)
		if !ok {
			return nil
		}
		files = append(files, FileInfo{
			Path:     path,
			RelPath:  filepath.ToSlash(rel),
			Language: l,
		})
		return nil
	})

	return files, err
}

func loadIgnoreFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var patterns []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line != "" && !strings.HasPrefix(line, "#") {
			patterns = append(patterns, line)
		}
	}
	return patterns, scanner.Err()
}
