// ast_debug dumps the tree-sitter parse tree for a source file, useful
// when extending an adapter's node-type tables against real grammar output.
package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/parser"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
)

func printAST(node *tree_sitter.Node, source []byte, indent int) {
	if node == nil {
		return
	}
	prefix := strings.Repeat("  ", indent)
	parentKind := "nil"
	if node.Parent() != nil {
		parentKind = node.Parent().Kind()
	}
	text := string(source[node.StartByte():node.EndByte()])
	if len(text) > 60 {
		text = text[:60] + "..."
	}
	fmt.Printf("%s%s (parent=%s) %q\n", prefix, node.Kind(), parentKind, text)
	for i := uint(0); i < node.ChildCount(); i++ {
		printAST(node.Child(i), source, indent+1)
	}
}

// langByExt guesses the tree-sitter grammar from a file's extension; an
// unrecognized extension falls back to JavaScript.
func langByExt(path string) lang.Language {
	switch filepath.Ext(path) {
	case ".go":
		return lang.Go
	case ".rs":
		return lang.Rust
	case ".py":
		return lang.Python
	case ".java":
		return lang.Java
	case ".php":
		return lang.PHP
	case ".ts", ".tsx":
		return lang.TypeScript
	default:
		return lang.JavaScript
	}
}

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "Usage: ast_debug <source-file>")
		os.Exit(1)
	}

	path := os.Args[1]
	source, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read %s: %v\n", path, err)
		os.Exit(1)
	}

	l := langByExt(path)
	tree, err := parser.Parse(l, source)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse %s as %s: %v\n", path, l, err)
		os.Exit(1)
	}
	defer tree.Close()

	printAST(tree.RootNode(), source, 0)
}
