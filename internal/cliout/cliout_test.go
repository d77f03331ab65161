package cliout

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/polyidx/polyidx/internal/model"
)

func TestTableJSONMode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true, false)

	defs := []model.SymbolDef{{Name: "Add", Kind: model.KindFunction, File: "main.go", StartLine: 3}}
	if err := p.Symbols("Results", defs); err != nil {
		t.Fatalf("Symbols: %v", err)
	}

	var got []model.SymbolDef
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("expected valid JSON output, got %q: %v", buf.String(), err)
	}
	if len(got) != 1 || got[0].Name != "Add" {
		t.Fatalf("expected Add symbol round-tripped through JSON, got %+v", got)
	}
}

func TestTableHumanMode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false, false)

	calls := []model.CallSite{{Name: "Add", Receiver: "", File: "main.go", Line: 7}}
	if err := p.CallSites("Callers", calls); err != nil {
		t.Fatalf("CallSites: %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, "Add") || !strings.Contains(out, "main.go") {
		t.Fatalf("expected rendered table to contain call data, got %q", out)
	}
}

func TestWarningSuppressedInJSONMode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, true, false)
	p.Warning("ambiguous: %s", "Shared")
	if buf.Len() != 0 {
		t.Fatalf("expected no output for Warning in JSON mode, got %q", buf.String())
	}
}

func TestWarningPlainMode(t *testing.T) {
	var buf bytes.Buffer
	p := New(&buf, false, false)
	p.Warning("ambiguous: %s", "Shared")
	if !strings.Contains(buf.String(), "Shared") {
		t.Fatalf("expected warning text, got %q", buf.String())
	}
}
