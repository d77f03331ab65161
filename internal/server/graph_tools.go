package server

import (
	"context"
	"encoding/json"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/polyidx/polyidx/internal/graphquery"
)

// registerGraphTools registers the structural queries: graph, imports,
// exporters, typedef, tests_for, and stacktrace.
func (s *Server) registerGraphTools() {
	s.addTool(&mcp.Tool{
		Name:        "graph",
		Description: "Walk the project's import graph from file, either toward what it imports or toward what imports it, down to a bounded depth.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {
				"file": {"type": "string"},
				"direction": {"type": "string", "enum": ["imports", "importers"], "description": "Walk direction (default imports)"},
				"max_depth": {"type": "integer", "description": "Maximum edges to traverse (default 2)"}
			},
			"required": ["file"]
		}`),
	}, s.handleGraph)

	s.addTool(&mcp.Tool{
		Name:        "imports",
		Description: "List every import edge recorded for file.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"file": {"type": "string"}},
			"required": ["file"]
		}`),
	}, s.handleImports)

	s.addTool(&mcp.Tool{
		Name:        "exporters",
		Description: "List every file that imports file.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"file": {"type": "string"}},
			"required": ["file"]
		}`),
	}, s.handleExporters)

	s.addTool(&mcp.Tool{
		Name:        "typedef",
		Description: "Find every type declaration (class, struct, interface, trait, enum, type alias) named name -- never a function or method.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleTypedef)

	s.addTool(&mcp.Tool{
		Name:        "tests_for",
		Description: "Find every test-framework entry point whose body references name.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"name": {"type": "string"}},
			"required": ["name"]
		}`),
	}, s.handleTestsFor)

	s.addTool(&mcp.Tool{
		Name:        "stacktrace",
		Description: "Parse a Node, Python, Java, or Go stack trace and resolve each frame's source path against the indexed files.",
		InputSchema: json.RawMessage(`{
			"type": "object",
			"properties": {"text": {"type": "string"}},
			"required": ["text"]
		}`),
	}, s.handleStacktrace)
}

func (s *Server) handleGraph(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	file := getStringArg(args, "file")
	if file == "" {
		return errResult("file is required"), nil
	}
	direction := graphquery.Imports
	if getStringArg(args, "direction") == string(graphquery.Importers) {
		direction = graphquery.Importers
	}
	maxDepth := getIntArg(args, "max_depth", 2)
	return jsonResult(s.graphE.Graph(file, direction, maxDepth)), nil
}

func (s *Server) handleImports(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	file := getStringArg(args, "file")
	if file == "" {
		return errResult("file is required"), nil
	}
	return jsonResult(map[string]any{"imports": s.graphE.ProjectImports(file)}), nil
}

func (s *Server) handleExporters(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	file := getStringArg(args, "file")
	if file == "" {
		return errResult("file is required"), nil
	}
	return jsonResult(map[string]any{"exporters": s.graphE.Exporters(file)}), nil
}

func (s *Server) handleTypedef(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	return jsonResult(map[string]any{"defs": s.graphE.Typedef(name)}), nil
}

func (s *Server) handleTestsFor(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	name := getStringArg(args, "name")
	if name == "" {
		return errResult("name is required"), nil
	}
	return jsonResult(map[string]any{"tests": s.graphE.Tests(name)}), nil
}

func (s *Server) handleStacktrace(ctx context.Context, req *mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	args, err := parseArgs(req)
	if err != nil {
		return errResult(err.Error()), nil
	}
	text := getStringArg(args, "text")
	if text == "" {
		return errResult("text is required"), nil
	}
	return jsonResult(map[string]any{"frames": s.graphE.Stacktrace(text)}), nil
}
