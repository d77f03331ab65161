package server

import (
	"context"
	"encoding/json"
	"sort"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/polyidx/polyidx/internal/resolve"
)

// registerResolutionTools registers the core name-resolution queries:
// find, usages, context, smart, trace, impact, deadcode, verify,
// resolve_symbol, and classify.
func (s *Server) registerResolutionTools() {
	s.addTool(&mcp.Tool{
		Name:        "find",
		Description: "Find every definition of name: functions, methods, classes, structs, interfaces, traits, enums, and type aliases. Exact match by default; pass exact=false for a substring search across the whole symbol table.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string", "description": "Name to look up"},
				"exact": {"type": "boolean", "description": "Exact match only (default true)"},
				"top": {"type": "integer", "description": "Limit the number of results returned"}
			},
			"required": ["name"]
		}`),
	}, s.handleFind)

	s.addTool(&mcp.Tool{
		Name:        "usages",
		Description: "Find every caller of name: direct calls, alias-resolved calls, and function-argument callback references. A definition never appears in its own usages.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"include_methods": {"type": "boolean", "description": "Include method definitions among the callers (default false)"},
				"top": {"type": "integer"}
			},
			"required": ["name"]
		}`),
	}, s.handleUsages)

	s.addTool(&mcp.Tool{
		Name:        "context",
		Description: "For a function/method: its callers and callees. For a class/struct/interface/trait/enum: its resolved member methods instead.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleContext)

	s.addTool(&mcp.Tool{
		Name:        "smart",
		Description: "A definition plus its transitive callees to depth 1. The target never appears in its own dependency list.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleSmart)

	s.addTool(&mcp.Tool{
		Name:        "trace",
		Description: "The call tree rooted at name, down to a bounded depth. Cycle-safe; negative depth behaves as 0.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"name": {"type": "string"},
				"depth": {"type": "integer", "description": "Maximum tree depth (default 3)"}
			},
			"required": ["name"]
		}`),
	}, s.handleTrace)

	s.addTool(&mcp.Tool{
		Name:        "impact",
		Description: "Reverse-reachability: every def that transitively calls name, bounded against cycles.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleImpact)

	s.addTool(&mcp.Tool{
		Name:        "deadcode",
		Description: "Every SymbolDef referenced nowhere: not called, not a recognized entry point, not re-exported, not passed as a callback. Exported top-level symbols are excluded unless include_exported.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"include_exported": {"type": "boolean"},
				"include_tests": {"type": "boolean", "description": "Also consider test-framework callbacks as candidates, instead of always treating them as entry points"}
			}
		}`),
	}, s.handleDeadCode)

	s.addTool(&mcp.Tool{
		Name:        "verify",
		Description: "Compare apparent argument count at every call site of name against its declared parameter count. Variadic/spread/**kwargs declarations are never flagged.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleVerify)

	s.addTool(&mcp.Tool{
		Name:        "resolve_symbol",
		Description: "Resolve name to its definition, with an ambiguous warning when more than one def of the same name exists across files.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleResolveSymbol)

	s.addTool(&mcp.Tool{
		Name:        "classify",
		Description: "Classify the syntactic role a name plays at file:line: definition, call, import, or reference.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string"},
				"line": {"type": "integer"},
				"name": {"type": "string"}
			},
			"required": ["file", "line", "name"]
		}`),
	}, s.handleClassify)
}

func (s *Server) handleFind(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	defs := s.lookupByName(name, getBoolArg(args, "exact", true))
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].File != defs[j].File {
			return defs[i].File < defs[j].File
		}
		return defs[i].StartLine < defs[j].StartLine
	})
	defs = capResults(defs, getIntArg(args, "top", 0))
	return jsonResult(map[string]any{"defs": defs}), nil
}

func (s *Server) handleUsages(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	callers := s.resolveE.FindCallers(name, getBoolArg(args, "include_methods", false))
	callers = capResults(callers, getIntArg(args, "top", 0))
	return jsonResult(map[string]any{"callers": callers}), nil
}

func (s *Server) handleContext(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	c, ok := s.resolveE.GetContext(name)
	if !ok {
		return jsonResult(map[string]any{"found": false}), nil
	}
	return jsonResult(c), nil
}

func (s *Server) handleSmart(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	c, ok := s.resolveE.Smart(name)
	if !ok {
		return jsonResult(map[string]any{"found": false}), nil
	}
	return jsonResult(c), nil
}

func (s *Server) handleTrace(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	depth := getIntArg(args, "depth", 3)
	node, ok := s.resolveE.Trace(name, depth)
	if !ok {
		return jsonResult(map[string]any{"found": false}), nil
	}
	return jsonResult(node), nil
}

func (s *Server) handleImpact(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	defs, ok := s.resolveE.Impact(name)
	if !ok {
		return jsonResult(map[string]any{"found": false}), nil
	}
	return jsonResult(map[string]any{"impacted": defs}), nil
}

func (s *Server) handleDeadCode(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	dead := s.resolveE.DeadCode(resolve.DeadCodeOptions{
		IncludeExported: getBoolArg(args, "include_exported", false),
		IncludeTests:    getBoolArg(args, "include_tests", false),
	})
	return jsonResult(map[string]any{"dead": dead}), nil
}

func (s *Server) handleVerify(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	issues := s.resolveE.Verify(name)
	return jsonResult(map[string]any{"issues": issues}), nil
}

func (s *Server) handleResolveSymbol(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	return jsonResult(s.resolveE.ResolveSymbol(name)), nil
}

func (s *Server) handleClassify(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	file := getStringArg(args, "file")
	if file == "" {
		return errResult("file is required"), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	line := getIntArg(args, "line", 0)
	usage, ok := s.resolveE.Classify(file, line, name)
	if !ok {
		return jsonResult(map[string]any{"found": false}), nil
	}
	return jsonResult(map[string]any{"usage": usage}), nil
}
