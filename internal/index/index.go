// Package index builds and maintains the in-memory project index: the
// symbol table, call-site list, import/export/alias/inheritance edges,
// and the staleness bookkeeping that drives incremental rebuilds.
package index

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/polyidx/polyidx/internal/adapter"
	"github.com/polyidx/polyidx/internal/cache"
	"github.com/polyidx/polyidx/internal/detect"
	"github.com/polyidx/polyidx/internal/discover"
	"github.com/polyidx/polyidx/internal/fqn"
	"github.com/polyidx/polyidx/internal/model"
)

// fileWorkerMultiplier sizes the per-file parse pool relative to NumCPU;
// parsing is CPU-bound (tree-sitter), so no I/O-bound headroom is added.
const fileWorkerMultiplier = 1

// Index is the in-memory project index bound to a root path.
type Index struct {
	Root string

	// MaxWorkers bounds the parse pool; 0 means runtime.NumCPU(). Set from
	// config before the first Build/BuildIncremental call.
	MaxWorkers int
	// ExtraIgnore adds config-supplied glob patterns on top of
	// .polyidxignore when discovering files.
	ExtraIgnore []string

	mu sync.RWMutex

	Symbols     map[string][]model.SymbolDef // by bare name
	Files       map[string]*model.ParsedFile // by relative path
	Imports     []model.ImportEdge
	Exports     []model.ExportRecord
	Aliases     map[string][]model.AliasEdge // by file
	Inherits    []model.InheritanceEdge
	// Occurrences is the usage index (spec.md §4.B): file -> name -> every
	// line that name appears on in that file, regardless of whether the
	// mention is a call, a callback reference, a receiver, a type
	// reference, or an alias RHS. deadcode consults this, not just the
	// call-site list, to decide whether a name is "mentioned anywhere at
	// all" -- excluding the name's own declaration site, which would
	// otherwise always count as a "use" of itself.
	Occurrences map[string]map[string][]int

	entries map[string]cache.FileEntry // relPath -> mtime/hash/lang bookkeeping
	nextID  uint32
}

// New returns an empty Index bound to root.
func New(root string) *Index {
	return &Index{
		Root:        root,
		Symbols:     make(map[string][]model.SymbolDef),
		Files:       make(map[string]*model.ParsedFile),
		Aliases:     make(map[string][]model.AliasEdge),
		Occurrences: make(map[string]map[string][]int),
		entries:     make(map[string]cache.FileEntry),
	}
}

// Build performs a full rebuild: discovers every source file under Root,
// parses and adapts each one in parallel, and repopulates every table.
// It always clears existing tables first — the documented forceRebuild
// contract. Without it, symbols accumulate duplicates across rebuilds.
func (idx *Index) Build(ctx context.Context) error {
	start := time.Now()
	slog.Info("index.build.start", "root", idx.Root)
	files, err := discover.Discover(ctx, idx.Root, &discover.Options{ExtraPatterns: idx.ExtraIgnore})
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}
	if err := idx.rebuildFrom(ctx, files); err != nil {
		return err
	}
	slog.Info("index.build.done", "root", idx.Root, "files", len(files), "elapsed", time.Since(start))
	return nil
}

// rebuildFrom clears all tables and repopulates them from files.
func (idx *Index) rebuildFrom(ctx context.Context, files []discover.FileInfo) error {
	idx.mu.Lock()
	idx.Symbols = make(map[string][]model.SymbolDef)
	idx.Files = make(map[string]*model.ParsedFile)
	idx.Imports = nil
	idx.Exports = nil
	idx.Aliases = make(map[string][]model.AliasEdge)
	idx.Inherits = nil
	idx.Occurrences = make(map[string]map[string][]int)
	idx.entries = make(map[string]cache.FileEntry)
	idx.nextID = 0
	idx.mu.Unlock()

	results, err := parseAll(ctx, files, idx.MaxWorkers)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, r := range results {
		if r.pf == nil {
			continue
		}
		// Hash is left empty here; a full rebuild is the slow path for
		// every file already, so the medium-path hash is only worth
		// computing lazily, at SaveCache time.
		idx.foldLocked(r.pf, cache.FileEntry{Mtime: r.mtime, Language: r.language})
	}
	resolveImports(idx.Imports, idx.Files, idx.goModule())
	return nil
}

// goModule returns the project's Go module path, or "" if none, used to
// tell an internal Go import from an external one.
func (idx *Index) goModule() string {
	proj, err := detect.Detect(idx.Root)
	if err != nil {
		return ""
	}
	return proj.GoModule
}

// BuildIncremental loads the on-disk cache (if any and if valid) and
// reparses only the files the fast/medium/slow path decides are stale,
// restoring everything else from the cache. With no usable cache it
// behaves exactly like Build.
func (idx *Index) BuildIncremental(ctx context.Context) error {
	start := time.Now()
	slog.Info("index.build_incremental.start", "root", idx.Root)

	files, err := discover.Discover(ctx, idx.Root, &discover.Options{ExtraPatterns: idx.ExtraIgnore})
	if err != nil {
		return fmt.Errorf("discover: %w", err)
	}

	snap, ok := cache.Load(idx.Root)
	if !ok {
		slog.Warn("index.cache.absent", "root", idx.Root)
		if err := idx.rebuildFrom(ctx, files); err != nil {
			return err
		}
		slog.Info("index.build_incremental.done", "root", idx.Root, "files", len(files), "elapsed", time.Since(start))
		return nil
	}

	idx.mu.Lock()
	idx.Symbols = make(map[string][]model.SymbolDef)
	idx.Files = make(map[string]*model.ParsedFile)
	idx.Imports = nil
	idx.Exports = nil
	idx.Aliases = make(map[string][]model.AliasEdge)
	idx.Inherits = nil
	idx.Occurrences = make(map[string]map[string][]int)
	idx.entries = make(map[string]cache.FileEntry)
	idx.nextID = 0
	idx.mu.Unlock()

	var toParse []discover.FileInfo
	type restored struct {
		pf    *model.ParsedFile
		entry cache.FileEntry
	}
	var fresh []restored

	for _, f := range files {
		entry, found := snap.Files[f.RelPath]
		info, statErr := os.Stat(f.Path)
		if statErr != nil {
			continue // vanished between discovery and stat; skip, per IO policy
		}
		mtime := info.ModTime().Unix()

		status, hash, err := cache.Check(entry, found, mtime, func() (string, error) {
			return cache.HashFile(f.Path)
		})
		if err != nil {
			return fmt.Errorf("hash %s: %w", f.Path, err)
		}

		switch status {
		case cache.Fresh:
			pf := cache.RestoreFile(snap, f.RelPath, string(f.Language))
			fresh = append(fresh, restored{pf: pf, entry: cache.FileEntry{Mtime: mtime, Hash: entry.Hash, Language: string(f.Language)}})
		case cache.Touched:
			pf := cache.RestoreFile(snap, f.RelPath, string(f.Language))
			fresh = append(fresh, restored{pf: pf, entry: cache.FileEntry{Mtime: mtime, Hash: hash, Language: string(f.Language)}})
		case cache.Stale:
			toParse = append(toParse, f)
		}
	}

	results, err := parseAll(ctx, toParse, idx.MaxWorkers)
	if err != nil {
		return err
	}

	idx.mu.Lock()
	defer idx.mu.Unlock()
	for _, r := range fresh {
		idx.foldLocked(r.pf, r.entry)
	}
	for _, r := range results {
		if r.pf == nil {
			continue
		}
		hash := cache.HashBytes(r.pf.Source)
		idx.foldLocked(r.pf, cache.FileEntry{Mtime: r.mtime, Hash: hash, Language: r.language})
	}
	resolveImports(idx.Imports, idx.Files, idx.goModule())
	slog.Info("index.build_incremental.done", "root", idx.Root, "files", len(files), "reparsed", len(toParse), "elapsed", time.Since(start))
	return nil
}

type parsedFile struct {
	pf       *model.ParsedFile
	mtime    int64
	language string
}

// parseAll parses files in parallel over a bounded worker pool; parsing is
// CPU-bound and independent per file, so order is unobservable. configMax,
// if > 0, overrides the default runtime.NumCPU()-derived pool size.
func parseAll(ctx context.Context, files []discover.FileInfo, configMax int) ([]parsedFile, error) {
	maxWorkers := runtime.NumCPU() * fileWorkerMultiplier
	if configMax > 0 {
		maxWorkers = configMax
	}
	if maxWorkers > len(files) {
		maxWorkers = len(files)
	}
	if maxWorkers < 1 {
		maxWorkers = 1
	}

	results := make([]parsedFile, len(files))

	p := pool.New().WithMaxGoroutines(maxWorkers).WithContext(ctx)
	for i, f := range files {
		p.Go(func(ctx context.Context) error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			// IO: the file vanished between discovery and read. Skip it,
			// per the documented policy — this is not a build failure.
			source, err := os.ReadFile(f.Path)
			if err != nil {
				slog.Warn("index.file.vanished", "path", f.Path, "err", err)
				return nil
			}
			info, err := os.Stat(f.Path)
			if err != nil {
				slog.Warn("index.file.vanished", "path", f.Path, "err", err)
				return nil
			}

			// ParseError: the adapter couldn't parse this file. Skip it
			// with a warning and keep indexing the rest.
			pf, err := adapter.ParseFile(f.Language, f.Path, f.RelPath, source)
			if err != nil {
				slog.Warn("index.file.parse_error", "path", f.Path, "err", err)
				return nil
			}
			results[i] = parsedFile{pf: pf, mtime: info.ModTime().Unix(), language: string(f.Language)}
			return nil
		})
	}
	if err := p.Wait(); err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return results, nil
}

// foldLocked merges one file's adapter output into the project-wide
// tables. Caller must hold idx.mu for writing.
func (idx *Index) foldLocked(pf *model.ParsedFile, entry cache.FileEntry) {
	project := filepath.Base(idx.Root)
	for i := range pf.Defs {
		pf.Defs[i].NodeID = idx.nextID
		idx.nextID++
		pf.Defs[i].QualifiedName = fqn.Compute(project, pf.RelPath, pf.Defs[i].Name)
		idx.Symbols[pf.Defs[i].Name] = append(idx.Symbols[pf.Defs[i].Name], pf.Defs[i])
	}
	idx.Files[pf.RelPath] = pf
	idx.Imports = append(idx.Imports, pf.Imports...)
	idx.Exports = append(idx.Exports, pf.Exports...)
	idx.Aliases[pf.RelPath] = append(idx.Aliases[pf.RelPath], pf.Aliases...)
	idx.Inherits = append(idx.Inherits, pf.Inherits...)

	byName := idx.Occurrences[pf.RelPath]
	if byName == nil {
		byName = make(map[string][]int, len(pf.Occurrences))
	}
	for _, occ := range pf.Occurrences {
		byName[occ.Name] = append(byName[occ.Name], occ.Line)
	}
	idx.Occurrences[pf.RelPath] = byName

	idx.entries[pf.RelPath] = entry
}

// OccursAnywhere reports whether name appears anywhere in the usage index,
// including its own declaration sites.
func (idx *Index) OccursAnywhere(name string) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	for _, byName := range idx.Occurrences {
		if len(byName[name]) > 0 {
			return true
		}
	}
	return false
}

// UsedExcludingOwnDefs reports whether name is mentioned in the usage index
// at a position other than one of defs' own declaration sites — i.e.
// whether anything besides the declaration itself references it. A def
// whose name never appears anywhere except at its own (File, StartLine)
// is exactly the deadcode question: "mentioned nowhere else".
func (idx *Index) UsedExcludingOwnDefs(name string, defs []model.SymbolDef) bool {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	ownSites := make(map[string]bool, len(defs))
	for _, d := range defs {
		ownSites[d.File+":"+strconv.Itoa(d.StartLine)] = true
	}

	for file, byName := range idx.Occurrences {
		for _, line := range byName[name] {
			if !ownSites[file+":"+strconv.Itoa(line)] {
				return true
			}
		}
	}
	return false
}

// IsStale reports whether the on-disk tree has diverged from the index:
// any tracked file changed mtime, any new file appeared, or any tracked
// file vanished.
func (idx *Index) IsStale(ctx context.Context) (bool, error) {
	files, err := discover.Discover(ctx, idx.Root, nil)
	if err != nil {
		return false, err
	}

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	seen := make(map[string]bool, len(files))
	for _, f := range files {
		seen[f.RelPath] = true
		entry, ok := idx.entries[f.RelPath]
		if !ok {
			return true, nil // new file
		}
		info, err := os.Stat(f.Path)
		if err != nil {
			return true, nil
		}
		if info.ModTime().Unix() != entry.Mtime {
			return true, nil
		}
	}
	for relPath := range idx.entries {
		if !seen[relPath] {
			return true, nil // vanished file
		}
	}
	return false, nil
}

// SaveCache persists the current index as an on-disk snapshot, hashing
// any file whose content digest Build left uncomputed. Writes are atomic
// (temp file + rename), per the documented crash-safety contract.
func (idx *Index) SaveCache() error {
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	entries := make(map[string]cache.FileEntry, len(idx.entries))
	for relPath, entry := range idx.entries {
		if entry.Hash == "" {
			if pf, ok := idx.Files[relPath]; ok {
				entry.Hash = cache.HashBytes(pf.Source)
			}
		}
		entries[relPath] = entry
	}

	snap := cache.BuildSnapshot(idx.Files, entries)
	return cache.Save(idx.Root, snap)
}

// Lookup returns every SymbolDef registered under name.
func (idx *Index) Lookup(name string) []model.SymbolDef {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return append([]model.SymbolDef(nil), idx.Symbols[name]...)
}

// File returns the ParsedFile for a relative path, if indexed.
func (idx *Index) File(relPath string) (*model.ParsedFile, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	pf, ok := idx.Files[relPath]
	return pf, ok
}

// FileCount returns the number of indexed files, for diagnostics and tests.
func (idx *Index) FileCount() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.Files)
}
