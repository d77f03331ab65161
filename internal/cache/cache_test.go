package cache

import (
	"os"
	"testing"

	"github.com/polyidx/polyidx/internal/model"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	snap := BuildSnapshot(
		map[string]*model.ParsedFile{
			"a.go": {
				RelPath: "a.go",
				Defs:    []model.SymbolDef{{Name: "Foo", File: "a.go"}},
				Calls:   []model.CallSite{{Name: "Foo", File: "a.go"}},
			},
		},
		map[string]FileEntry{"a.go": {Mtime: 100, Hash: "deadbeef"}},
	)

	if err := Save(dir, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded, ok := Load(dir)
	if !ok {
		t.Fatal("expected Load to succeed after Save")
	}
	if len(loaded.Symbols["Foo"]) != 1 {
		t.Fatalf("expected Foo symbol to round-trip, got %+v", loaded.Symbols)
	}
	if loaded.Files["a.go"].Mtime != 100 {
		t.Fatalf("expected mtime to round-trip, got %+v", loaded.Files["a.go"])
	}
}

func TestLoadRejectsMissingAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	if _, ok := Load(dir); ok {
		t.Fatal("expected Load to fail when no cache file exists")
	}

	if err := writeRaw(dir, []byte("not json")); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}
	if _, ok := Load(dir); ok {
		t.Fatal("expected Load to treat malformed JSON as absent")
	}
}

func TestLoadRejectsVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	snap := &Snapshot{
		Version:    version + 1,
		Files:      map[string]FileEntry{},
		Symbols:    map[string][]model.SymbolDef{},
		CallsCache: map[string]model.CallsCacheEntry{},
	}
	if err := Save(dir, snap); err != nil {
		t.Fatalf("Save: %v", err)
	}
	// Save always stamps the current version, so hand-write a mismatched
	// file directly to exercise the version-reject path.
	data := []byte(`{"version":999,"files":{},"symbols":{},"callsCache":{}}`)
	if err := writeRaw(dir, data); err != nil {
		t.Fatalf("writeRaw: %v", err)
	}
	if _, ok := Load(dir); ok {
		t.Fatal("expected Load to reject a version mismatch")
	}
}

func TestCheckFastMediumSlowPaths(t *testing.T) {
	entry := FileEntry{Mtime: 10, Hash: "abc"}

	status, hash, err := Check(entry, true, 10, failHash(t))
	if err != nil || status != Fresh || hash != "abc" {
		t.Fatalf("expected Fresh without hashing, got status=%v hash=%v err=%v", status, hash, err)
	}

	status, _, err = Check(entry, true, 11, constHash("abc"))
	if err != nil || status != Touched {
		t.Fatalf("expected Touched when mtime changes but hash matches, got %v %v", status, err)
	}

	status, _, err = Check(entry, true, 11, constHash("different"))
	if err != nil || status != Stale {
		t.Fatalf("expected Stale when hash differs, got %v %v", status, err)
	}

	status, _, err = Check(entry, false, 10, failHash(t))
	if err != nil || status != Stale {
		t.Fatalf("expected Stale for a file with no prior entry, got %v %v", status, err)
	}
}

func failHash(t *testing.T) func() (string, error) {
	return func() (string, error) {
		t.Fatal("hashFile must not be called on the fast path")
		return "", nil
	}
}

func constHash(h string) func() (string, error) {
	return func() (string, error) { return h, nil }
}

func writeRaw(dir string, data []byte) error {
	if err := os.MkdirAll(Dir(dir), 0o700); err != nil {
		return err
	}
	return os.WriteFile(path(dir), data, 0o600)
}
