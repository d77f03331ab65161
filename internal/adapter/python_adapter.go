package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/parser"
)

func init() {
	register(lang.Python, extractors{
		defName: func(node *tree_sitter.Node, source []byte) string {
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				return ""
			}
			return parser.NodeText(nameNode, source)
		},
		receiverInfo: func(node *tree_sitter.Node, source []byte) (string, string) {
			// A function_definition is a method iff its parent is a
			// class_definition's body (block).
			parent := node.Parent()
			if parent == nil || parent.Kind() != "block" {
				return "", ""
			}
			classNode := parent.Parent()
			if classNode == nil || classNode.Kind() != "class_definition" {
				return "", ""
			}
			nameNode := classNode.ChildByFieldName("name")
			if nameNode == nil {
				return "", ""
			}
			return "", parser.NodeText(nameNode, source)
		},
		callNameAndReceiver: callFromFunctionField,
		baseClasses: func(node *tree_sitter.Node, source []byte) []string {
			superNode := node.ChildByFieldName("superclasses")
			if superNode == nil {
				return nil
			}
			var bases []string
			for i := uint(0); i < superNode.NamedChildCount(); i++ {
				child := superNode.NamedChild(i)
				if child == nil || child.Kind() == "keyword_argument" {
					continue
				}
				if name := parser.NodeText(child, source); name != "" {
					bases = append(bases, name)
				}
			}
			return bases
		},
		importModules: func(node *tree_sitter.Node, source []byte) []importedModule {
			switch node.Kind() {
			case "import_statement":
				var out []importedModule
				for i := uint(0); i < node.NamedChildCount(); i++ {
					child := node.NamedChild(i)
					if child != nil {
						out = append(out, importedModule{Module: parser.NodeText(child, source)})
					}
				}
				return out
			case "import_from_statement":
				moduleNode := node.ChildByFieldName("module_name")
				if moduleNode == nil {
					return nil
				}
				module := parser.NodeText(moduleNode, source)
				var names []string
				for i := uint(0); i < node.NamedChildCount(); i++ {
					child := node.NamedChild(i)
					if child == nil || child == moduleNode {
						continue
					}
					if child.Kind() == "dotted_name" || child.Kind() == "identifier" || child.Kind() == "aliased_import" {
						names = append(names, parser.NodeText(child, source))
					}
				}
				return []importedModule{{Module: module, ImportedNames: names}}
			}
			return nil
		},
		alias: func(node *tree_sitter.Node, source []byte) (string, string) {
			if node.Kind() != "expression_statement" {
				return "", ""
			}
			assign := findChildByKind(node, "assignment")
			if assign == nil {
				return "", ""
			}
			left := assign.ChildByFieldName("left")
			right := assign.ChildByFieldName("right")
			if left == nil || right == nil || left.Kind() != "identifier" {
				return "", ""
			}
			switch right.Kind() {
			case "identifier", "attribute":
				return parser.NodeText(left, source), parser.NodeText(right, source)
			}
			return "", ""
		},
	})
}
