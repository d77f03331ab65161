package adapter

import (
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/parser"
)

// splitDotted splits "pkg.Type.method" or "recv->method" style callee text
// on its last separator, returning (name, receiver). A bare identifier
// returns (text, "").
func splitDotted(text string) (name, receiver string) {
	for _, sep := range []string{"->", "::", "."} {
		if idx := strings.LastIndex(text, sep); idx >= 0 {
			return text[idx+len(sep):], text[:idx]
		}
	}
	return text, ""
}

// callFromFunctionField extracts (name, receiver) from a call node's
// "function" field, handling the dotted/arrow forms tree-sitter grammars
// use for method calls across languages.
func callFromFunctionField(node *tree_sitter.Node, source []byte) (name, receiver string) {
	fn := node.ChildByFieldName("function")
	if fn == nil {
		return "", ""
	}
	switch fn.Kind() {
	case "identifier", "simple_identifier":
		return parser.NodeText(fn, source), ""
	case "selector_expression", "attribute", "member_expression", "field_expression", "scoped_identifier":
		return splitDotted(parser.NodeText(fn, source))
	default:
		return parser.NodeText(fn, source), ""
	}
}

// findChildByKind returns the first direct child of node with the given kind.
func findChildByKind(node *tree_sitter.Node, kind string) *tree_sitter.Node {
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)
		if child != nil && child.Kind() == kind {
			return child
		}
	}
	return nil
}

// namedChildTexts returns the source text of every named child of node.
func namedChildTexts(node *tree_sitter.Node, source []byte) []string {
	var out []string
	for i := uint(0); i < node.NamedChildCount(); i++ {
		child := node.NamedChild(i)
		if child == nil {
			continue
		}
		if t := parser.NodeText(child, source); t != "" {
			out = append(out, t)
		}
	}
	return out
}

// paramTexts returns the written text of each named child of a
// definition's "parameters" field, one entry per declared parameter.
func paramTexts(node *tree_sitter.Node, source []byte) []string {
	params := node.ChildByFieldName("parameters")
	if params == nil {
		return nil
	}
	return namedChildTexts(params, source)
}

// argCount counts the named children of a call node's "arguments" field,
// the one field name shared across the grammars this adapter targets.
func argCount(node *tree_sitter.Node) int {
	args := node.ChildByFieldName("arguments")
	if args == nil {
		return 0
	}
	return int(args.NamedChildCount())
}

func cleanTypeName(s string) string {
	if idx := strings.IndexByte(s, '<'); idx >= 0 {
		s = s[:idx]
	}
	return strings.TrimSpace(s)
}
