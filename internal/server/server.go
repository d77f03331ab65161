// Package server exposes a project index over MCP: one tool per
// spec.md §4.C/§4.F query, plus an adaptive background re-sync so a
// long-lived session's answers stay current with the filesystem.
package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/polyidx/polyidx/internal/config"
	"github.com/polyidx/polyidx/internal/graphquery"
	"github.com/polyidx/polyidx/internal/index"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/resolve"
	"github.com/polyidx/polyidx/internal/watcher"
)

// Version is the server's MCP handshake version.
const Version = "0.1.0"

// Server wraps the MCP server with tool handlers bound to a single
// project index.
type Server struct {
	mcp      *mcp.Server
	idx      *index.Index
	resolveE *resolve.Engine
	graphE   *graphquery.Engine
	watcher  *watcher.Watcher
	handlers map[string]mcp.ToolHandler
}

// New builds the project index at root and returns a Server ready to
// serve tool calls over it.
func New(ctx context.Context, root string) (*Server, error) {
	cfg, err := config.Load(root)
	if err != nil {
		slog.Warn("server.config.load_failed", "root", root, "err", err)
		cfg = config.DefaultConfig()
	}

	idx := index.New(root)
	idx.MaxWorkers = cfg.Build.MaxWorkers
	idx.ExtraIgnore = cfg.Ignore.Patterns
	if err := idx.BuildIncremental(ctx); err != nil {
		return nil, fmt.Errorf("build index at %s: %w", root, err)
	}

	s := &Server{
		idx:      idx,
		resolveE: resolve.New(idx),
		graphE:   graphquery.New(idx),
		handlers: make(map[string]mcp.ToolHandler),
	}
	s.watcher = watcher.NewWithBaseInterval(idx, time.Duration(cfg.Server.ResyncIntervalSeconds)*time.Second)

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    "polyidx",
		Version: Version,
	}, nil)

	s.registerTools()
	return s, nil
}

// StartWatcher launches the background re-sync poller. It stops when ctx
// is cancelled.
func (s *Server) StartWatcher(ctx context.Context) {
	go s.watcher.Run(ctx)
}

// MCPServer returns the underlying MCP server, for wiring to a transport.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Index returns the underlying project index, for direct access (e.g. the
// CLI front-end, which reads query results the same way the tools do).
func (s *Server) Index() *index.Index {
	return s.idx
}

// Resolve returns the resolution engine backing the find/usages/context/
// smart/trace/impact/deadcode/verify/resolve_symbol tools, for direct,
// typed access from the CLI front-end.
func (s *Server) Resolve() *resolve.Engine {
	return s.resolveE
}

// Graph returns the graph-query engine backing the graph/imports/
// exporters/typedef/tests_for/stacktrace tools, for direct, typed access
// from the CLI front-end.
func (s *Server) Graph() *graphquery.Engine {
	return s.graphE
}

func (s *Server) addTool(tool *mcp.Tool, handler mcp.ToolHandler) {
	s.mcp.AddTool(tool, handler)
	s.handlers[tool.Name] = handler
}

// CallTool invokes a registered tool handler directly by name, bypassing
// the MCP transport — used by tests; the CLI front-end calls the engines
// directly instead.
func (s *Server) CallTool(ctx context.Context, name string, argsJSON json.RawMessage) (*mcp.CallToolResult, error) {
	handler, ok := s.handlers[name]
	if !ok {
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
	if len(argsJSON) == 0 {
		argsJSON = json.RawMessage(`{}`)
	}
	req := &mcp.CallToolRequest{
		Params: &mcp.CallToolParamsRaw{
			Name:      name,
			Arguments: argsJSON,
		},
	}
	return handler(ctx, req)
}

// ToolNames returns every registered tool name in sorted order.
func (s *Server) ToolNames() []string {
	names := make([]string, 0, len(s.handlers))
	for name := range s.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (s *Server) registerTools() {
	s.registerResolutionTools()
	s.registerGraphTools()
}

// --- Result helpers ---

// jsonResult marshals data as the tool's text content. "No results" is
// encoded here too -- an empty slice or a {"found": false} object -- with
// IsError left false, per spec.md §6's null-safety contract.
func jsonResult(data any) *mcp.CallToolResult {
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return errResult("json marshal err=" + err.Error())
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(b)}},
	}
}

// errResult is reserved for genuine protocol failures: malformed
// arguments, a missing required field. It is never used for "name not
// found" -- that is jsonResult with an empty payload.
func errResult(msg string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: msg}},
		IsError: true,
	}
}

// parseArgs unmarshals the raw JSON arguments into a map.
func parseArgs(req *mcp.CallToolRequest) (map[string]any, error) {
	if len(req.Params.Arguments) == 0 {
		return map[string]any{}, nil
	}
	var m map[string]any
	if err := json.Unmarshal(req.Params.Arguments, &m); err != nil {
		return nil, fmt.Errorf("invalid arguments: %w", err)
	}
	return m, nil
}

func getStringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func getIntArg(args map[string]any, key string, defaultVal int) int {
	f, ok := args[key].(float64) // JSON numbers decode as float64
	if !ok {
		return defaultVal
	}
	return int(f)
}

func getBoolArg(args map[string]any, key string, defaultVal bool) bool {
	b, ok := args[key].(bool)
	if !ok {
		return defaultVal
	}
	return b
}

// FindByName is the exported form of lookupByName, for direct use by the
// CLI front-end's find command.
func (s *Server) FindByName(name string, exact bool) []model.SymbolDef {
	return s.lookupByName(name, exact)
}

// lookupByName returns every SymbolDef named name, exact match, or --
// when exact is false -- every def whose name contains name as a
// substring, across the whole symbol table.
func (s *Server) lookupByName(name string, exact bool) []model.SymbolDef {
	if exact {
		return s.idx.Lookup(name)
	}
	var out []model.SymbolDef
	for symName, defs := range s.idx.Symbols {
		if strings.Contains(symName, name) {
			out = append(out, defs...)
		}
	}
	return out
}

func capResults[T any](items []T, top int) []T {
	if top > 0 && len(items) > top {
		return items[:top]
	}
	return items
}
