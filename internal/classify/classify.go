// Package classify answers two AST-position questions the resolution
// engine's name-based filters depend on (spec.md §4.D): is a given source
// position a comment or string literal, and what syntactic role does a
// name play at a given line. Both walk the tree-sitter AST directly rather
// than scanning source text, so neither is fooled by a string that merely
// looks like it contains code ('a' + fn() + 'b').
package classify

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/parser"
)

// Usage is the syntactic role an identifier token plays at one position.
type Usage string

const (
	Definition Usage = "definition"
	Call       Usage = "call"
	Import     Usage = "import"
	Reference  Usage = "reference"
)

// IsCommentOrString reports whether (line, col) in source falls inside a
// comment, string literal, or character literal for language l. A
// template-expression hole (`${...}` in a JS/TS template_string) counts as
// code even though its host template string counts as a string, since the
// hole's own node kind takes precedence as the walk ascends from the
// innermost node outward.
func IsCommentOrString(l lang.Language, source []byte, line, col int) bool {
	spec := lang.ForLanguage(l)
	if spec == nil {
		return false
	}
	tree, err := parser.Parse(l, source)
	if err != nil {
		return false
	}
	defer tree.Close()

	node := parser.NodeAtByteOffset(tree.RootNode(), parser.ByteOffset(source, line, col))
	for n := node; n != nil; n = n.Parent() {
		kind := n.Kind()
		if contains(spec.TemplateExprTypes, kind) {
			return false
		}
		if contains(spec.CommentNodeTypes, kind) || contains(spec.StringNodeTypes, kind) {
			return true
		}
	}
	return false
}

// ClassifyUsage returns the syntactic role name plays at (source, line):
// definition, call, import, or reference, based on the enclosing AST node
// of the first identifier token on that line whose text equals name. A
// line with no matching identifier token returns Reference, the
// conservative default (spec.md §4.D never asks for a "not found" case
// distinct from an unresolved reference).
func ClassifyUsage(l lang.Language, source []byte, line int, name string) Usage {
	spec := lang.ForLanguage(l)
	if spec == nil {
		return Reference
	}
	tree, err := parser.Parse(l, source)
	if err != nil {
		return Reference
	}
	defer tree.Close()

	var found *tree_sitter.Node
	parser.Walk(tree.RootNode(), func(node *tree_sitter.Node) bool {
		if found != nil {
			return false
		}
		if parser.StartLine(node) == line && contains(spec.IdentifierNodeTypes, node.Kind()) &&
			parser.NodeText(node, source) == name {
			found = node
			return false
		}
		return true
	})
	if found == nil {
		return Reference
	}
	if IsCommentOrString(l, source, parser.StartLine(found), parser.StartColumn(found)) {
		return Reference
	}
	return classifyNode(found, spec)
}

// classifyNode walks up from an identifier node to decide its role: the
// name child of a def node is a Definition, the callee of a call node (or
// any identifier inside a call's function field) is a Call, anything
// nested under an import node is an Import, everything else is a
// Reference.
func classifyNode(node *tree_sitter.Node, spec *lang.Spec) Usage {
	for n := node; n != nil; n = n.Parent() {
		kind := n.Kind()
		switch {
		case contains(spec.ImportNodeTypes, kind):
			return Import
		case contains(spec.CallNodeTypes, kind):
			if isCalleePosition(node, n) {
				return Call
			}
			return Reference
		case contains(spec.FunctionNodeTypes, kind), contains(spec.ClassNodeTypes, kind):
			if nameNode := n.ChildByFieldName("name"); nameNode != nil &&
				nameNode.StartByte() == node.StartByte() && nameNode.EndByte() == node.EndByte() {
				return Definition
			}
			return Reference
		}
	}
	return Reference
}

// isCalleePosition reports whether ident is the callee of call -- its
// "function" field, or nested inside a member-access expression that is.
func isCalleePosition(ident, call *tree_sitter.Node) bool {
	fn := call.ChildByFieldName("function")
	if fn == nil {
		return false
	}
	return fn.StartByte() <= ident.StartByte() && ident.EndByte() <= fn.EndByte()
}

func contains(types []string, t string) bool {
	for _, s := range types {
		if s == t {
			return true
		}
	}
	return false
}
