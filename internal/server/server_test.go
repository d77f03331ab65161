package server

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/modelcontextprotocol/go-sdk/mcp"
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

func newTestServer(t *testing.T) *Server {
	t.Helper()
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "main.go"), `package main

func Add(a, b int) int {
	return a + b
}

func main() {
	Add(1, 2)
}
`)
	srv, err := New(context.Background(), dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return srv
}

func TestNewRegistersAllTools(t *testing.T) {
	srv := newTestServer(t)
	names := srv.ToolNames()
	want := []string{
		"classify", "context", "deadcode", "exporters", "find", "graph", "impact",
		"imports", "resolve_symbol", "smart", "stacktrace", "tests_for",
		"trace", "typedef", "usages", "verify",
	}
	if len(names) != len(want) {
		t.Fatalf("ToolNames() = %v, want %d tools got %d", names, len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Fatalf("ToolNames()[%d] = %q, want %q", i, names[i], want[i])
		}
	}
}

func TestCallToolFind(t *testing.T) {
	srv := newTestServer(t)
	res, err := srv.CallTool(context.Background(), "find", json.RawMessage(`{"name": "Add"}`))
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatalf("unexpected error result: %+v", res.Content)
	}

	tc, ok := res.Content[0].(*mcp.TextContent)
	if !ok {
		t.Fatalf("expected *mcp.TextContent, got %T", res.Content[0])
	}

	var payload struct {
		Defs []struct {
			Name string `json:"Name"`
		} `json:"defs"`
	}
	if err := json.Unmarshal([]byte(tc.Text), &payload); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if len(payload.Defs) != 1 || payload.Defs[0].Name != "Add" {
		t.Fatalf("unexpected defs payload: %+v", payload.Defs)
	}
}

func TestCallToolFindMissingName(t *testing.T) {
	srv := newTestServer(t)
	res, err := srv.CallTool(context.Background(), "find", json.RawMessage(`{}`))
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if !res.IsError {
		t.Fatal("expected IsError for missing name, per the null-safety contract")
	}
}

func TestCallToolFindNoMatch(t *testing.T) {
	srv := newTestServer(t)
	res, err := srv.CallTool(context.Background(), "find", json.RawMessage(`{"name": "DoesNotExist"}`))
	if err != nil {
		t.Fatalf("CallTool: %v", err)
	}
	if res.IsError {
		t.Fatal("a valid but empty result must not be IsError, per spec's null-safety contract")
	}
}

func TestCallToolUnknownTool(t *testing.T) {
	srv := newTestServer(t)
	if _, err := srv.CallTool(context.Background(), "not_a_tool", json.RawMessage(`{}`)); err == nil {
		t.Fatal("expected error for unknown tool name")
	}
}

func TestFindByName(t *testing.T) {
	srv := newTestServer(t)
	defs := srv.FindByName("Add", true)
	if len(defs) != 1 {
		t.Fatalf("expected 1 def for Add, got %d", len(defs))
	}
	if defs[0].Name != "Add" {
		t.Errorf("expected Name=Add, got %q", defs[0].Name)
	}
}

func TestResolveSymbolAmbiguousReported(t *testing.T) {
	srv := newTestServer(t)
	res := srv.Resolve().ResolveSymbol("Add")
	if res.Def == nil {
		t.Fatal("expected a def for Add")
	}
	if len(res.Warnings) != 0 {
		t.Fatalf("expected no ambiguity warning for a single def, got %v", res.Warnings)
	}
}
