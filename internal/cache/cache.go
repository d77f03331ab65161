// Package cache persists a project index snapshot to disk and drives the
// mtime-fast-path / content-hash-medium-path / reparse-slow-path staleness
// check that lets an incremental rebuild skip unchanged files.
package cache

import (
	"encoding/hex"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
	"github.com/zeebo/blake3"

	"github.com/polyidx/polyidx/internal/model"
)

// version is bumped whenever Snapshot's shape changes incompatibly. A
// mismatch is treated as CacheCorrupt — absent, never deleted.
const version = 1

// shapeSchema is the minimal top-level shape every cache file must match:
// an object carrying version, files, symbols and callsCache, with the broad
// JSON type of every documented key checked whenever that key is present.
// It deliberately doesn't constrain the Symbols/CallsCache value shapes —
// that's what json.Unmarshal into Snapshot already enforces — only that
// the keys a reader depends on for version-gating actually exist.
const shapeSchemaText = `{
	"type": "object",
	"required": ["version", "files", "symbols", "callsCache"],
	"properties": {
		"version": {"type": "integer"},
		"files": {"type": "object"},
		"symbols": {"type": "object"},
		"importGraph": {"type": ["array", "null"]},
		"exportGraph": {"type": ["array", "null"]},
		"callsCache": {"type": "object"},
		"aliasGraph": {"type": ["array", "null"]},
		"inheritGraph": {"type": ["array", "null"]}
	}
}`

var (
	shapeSchemaOnce sync.Once
	shapeSchema     *jsonschema.Schema
)

// compiledShapeSchema lazily compiles shapeSchemaText once per process.
func compiledShapeSchema() *jsonschema.Schema {
	shapeSchemaOnce.Do(func() {
		c := jsonschema.NewCompiler()
		if err := c.AddResource("cache-shape.json", strings.NewReader(shapeSchemaText)); err != nil {
			panic("cache: invalid embedded schema: " + err.Error())
		}
		sch, err := c.Compile("cache-shape.json")
		if err != nil {
			panic("cache: invalid embedded schema: " + err.Error())
		}
		shapeSchema = sch
	})
	return shapeSchema
}

// matchesShape reports whether raw JSON data satisfies the cache's
// top-level shape, folding "bad JSON" and "wrong shape" into one check.
func matchesShape(data []byte) bool {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return false
	}
	return compiledShapeSchema().Validate(v) == nil
}

// fileName is the on-disk cache file, stored under the project root's
// cache directory (see Dir).
const fileName = "index.json"

// Snapshot is the single on-disk cache object. The top-level shape
// (version, files, symbols, importGraph, exportGraph, callsCache) is the
// documented cache format; aliasGraph/inheritGraph are additions this
// index needs to fully restore a file without reparsing it, since the
// resolution engine depends on both.
type Snapshot struct {
	Version      int                              `json:"version"`
	Files        map[string]FileEntry             `json:"files"`
	Symbols      map[string][]model.SymbolDef      `json:"symbols"`
	ImportGraph  []model.ImportEdge                `json:"importGraph"`
	ExportGraph  []model.ExportRecord              `json:"exportGraph"`
	CallsCache   map[string]model.CallsCacheEntry  `json:"callsCache"`
	AliasGraph   []model.AliasEdge                 `json:"aliasGraph"`
	InheritGraph []model.InheritanceEdge           `json:"inheritGraph"`
}

// FileEntry is the per-file bookkeeping entry: mtime for the fast path,
// content hash for the medium path.
type FileEntry struct {
	Mtime    int64  `json:"mtime"`
	Hash     string `json:"hash"`
	Language string `json:"language"`
}

// Dir returns the cache directory for a project root.
func Dir(root string) string {
	return filepath.Join(root, ".polyidx", "cache")
}

func path(root string) string {
	return filepath.Join(Dir(root), fileName)
}

// HashBytes returns the hex-encoded BLAKE3 digest of data.
func HashBytes(data []byte) string {
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// HashFile reads p and returns its BLAKE3 digest.
func HashFile(p string) (string, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return "", err
	}
	return HashBytes(data), nil
}

// Load reads and validates the snapshot for root. A missing file, a
// version mismatch, or malformed JSON all resolve to (nil, false) —
// CacheCorrupt is absence, not an error the caller must handle specially,
// and the file on disk is left untouched either way.
func Load(root string) (*Snapshot, bool) {
	data, err := os.ReadFile(path(root))
	if err != nil {
		return nil, false
	}
	if !matchesShape(data) {
		return nil, false
	}
	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, false
	}
	if snap.Version != version {
		return nil, false
	}
	if snap.Files == nil || snap.Symbols == nil || snap.CallsCache == nil {
		return nil, false
	}
	return &snap, true
}

// Save writes snap atomically: a temp file in the same directory followed
// by a rename, so a crash mid-write never corrupts the previous snapshot.
func Save(root string, snap *Snapshot) error {
	snap.Version = version

	dir := Dir(root)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return err
	}

	data, err := json.Marshal(snap)
	if err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, fileName+".tmp-*")
	if err != nil {
		return err
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath) // no-op once the rename below succeeds

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmpPath, path(root))
}

// Status is the outcome of comparing one file against its cache entry.
type Status int

const (
	// Fresh means the mtime fast path matched: skip hashing and reparsing.
	Fresh Status = iota
	// Touched means mtime changed but the content hash still matched:
	// update the stored mtime, skip reparsing (the medium path).
	Touched
	// Stale means content changed, or the file has no prior entry: reparse
	// (the slow path).
	Stale
)

// Check runs the fast/medium/slow staleness decision for one file against
// its previously cached entry, if any. hashFile is called only on the
// medium path, so unchanged files never pay for hashing.
func Check(entry FileEntry, found bool, mtime int64, hashFile func() (string, error)) (Status, string, error) {
	if !found {
		return Stale, "", nil
	}
	if entry.Mtime == mtime {
		return Fresh, entry.Hash, nil
	}
	hash, err := hashFile()
	if err != nil {
		return Stale, "", err
	}
	if hash == entry.Hash {
		return Touched, hash, nil
	}
	return Stale, hash, nil
}

// RestoreFile reconstructs a ParsedFile for relPath from the aggregated
// snapshot tables, for files the fast/medium path decided not to reparse.
// Source is left nil — callers that skip reparsing never need raw bytes.
func RestoreFile(snap *Snapshot, relPath, language string) *model.ParsedFile {
	pf := &model.ParsedFile{
		Path:     relPath,
		RelPath:  relPath,
		Language: language,
	}
	for _, defs := range snap.Symbols {
		for _, d := range defs {
			if d.File == relPath {
				pf.Defs = append(pf.Defs, d)
			}
		}
	}
	if entry, ok := snap.CallsCache[relPath]; ok {
		pf.Calls = entry.Calls
		pf.CallbackRefs = entry.CallbackRefs
		pf.Occurrences = entry.Occurrences
	}
	for _, im := range snap.ImportGraph {
		if im.ImportingFile == relPath {
			pf.Imports = append(pf.Imports, im)
		}
	}
	for _, ex := range snap.ExportGraph {
		if ex.File == relPath {
			pf.Exports = append(pf.Exports, ex)
		}
	}
	for _, al := range snap.AliasGraph {
		if al.File == relPath {
			pf.Aliases = append(pf.Aliases, al)
		}
	}
	for _, in := range snap.InheritGraph {
		if in.ChildFile == relPath {
			pf.Inherits = append(pf.Inherits, in)
		}
	}
	return pf
}

// BuildSnapshot folds every indexed file's data into the persisted shape.
func BuildSnapshot(files map[string]*model.ParsedFile, entries map[string]FileEntry) *Snapshot {
	snap := &Snapshot{
		Version:    version,
		Files:      entries,
		Symbols:    make(map[string][]model.SymbolDef),
		CallsCache: make(map[string]model.CallsCacheEntry),
	}
	for relPath, pf := range files {
		for _, d := range pf.Defs {
			snap.Symbols[d.Name] = append(snap.Symbols[d.Name], d)
		}
		snap.ImportGraph = append(snap.ImportGraph, pf.Imports...)
		snap.ExportGraph = append(snap.ExportGraph, pf.Exports...)
		snap.AliasGraph = append(snap.AliasGraph, pf.Aliases...)
		snap.InheritGraph = append(snap.InheritGraph, pf.Inherits...)
		snap.CallsCache[relPath] = model.CallsCacheEntry{
			File:         relPath,
			Mtime:        entries[relPath].Mtime,
			Hash:         entries[relPath].Hash,
			Calls:        pf.Calls,
			CallbackRefs: pf.CallbackRefs,
			Occurrences:  pf.Occurrences,
		}
	}
	return snap
}
