package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/parser"
)

func init() {
	register(lang.PHP, extractors{
		defName: func(node *tree_sitter.Node, source []byte) string {
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				return ""
			}
			return parser.NodeText(nameNode, source)
		},
		defKind: func(node *tree_sitter.Node) model.Kind {
			switch node.Kind() {
			case "interface_declaration":
				return model.KindInterface
			case "trait_declaration":
				return model.KindTrait
			case "enum_declaration":
				return model.KindEnum
			}
			return ""
		},
		receiverInfo: func(node *tree_sitter.Node, source []byte) (string, string) {
			if node.Kind() != "method_declaration" {
				return "", ""
			}
			declList := node.Parent()
			if declList == nil {
				return "", ""
			}
			classNode := declList.Parent()
			if classNode == nil {
				return "", ""
			}
			switch classNode.Kind() {
			case "class_declaration", "interface_declaration", "trait_declaration":
				if nameNode := classNode.ChildByFieldName("name"); nameNode != nil {
					return "", parser.NodeText(nameNode, source)
				}
			}
			return "", ""
		},
		callNameAndReceiver: func(node *tree_sitter.Node, source []byte) (string, string) {
			switch node.Kind() {
			case "member_call_expression", "nullsafe_member_call_expression":
				nameNode := node.ChildByFieldName("name")
				recvNode := node.ChildByFieldName("object")
				if nameNode == nil {
					return "", ""
				}
				recv := ""
				if recvNode != nil {
					recv = parser.NodeText(recvNode, source)
				}
				return parser.NodeText(nameNode, source), recv
			case "scoped_call_expression":
				nameNode := node.ChildByFieldName("name")
				scopeNode := node.ChildByFieldName("scope")
				if nameNode == nil {
					return "", ""
				}
				recv := ""
				if scopeNode != nil {
					recv = parser.NodeText(scopeNode, source)
				}
				return parser.NodeText(nameNode, source), recv
			case "function_call_expression":
				if fnNode := node.ChildByFieldName("function"); fnNode != nil {
					return parser.NodeText(fnNode, source), ""
				}
			}
			return "", ""
		},
		baseClasses: func(node *tree_sitter.Node, source []byte) []string {
			baseClause := node.ChildByFieldName("base_clause")
			if baseClause == nil {
				return nil
			}
			var bases []string
			for i := uint(0); i < baseClause.NamedChildCount(); i++ {
				child := baseClause.NamedChild(i)
				if child != nil && child.Kind() == "name" {
					if name := parser.NodeText(child, source); name != "" {
						bases = append(bases, name)
					}
				}
			}
			return bases
		},
		importModules: func(node *tree_sitter.Node, source []byte) []importedModule {
			switch node.Kind() {
			case "namespace_use_declaration":
				var out []importedModule
				for i := uint(0); i < node.NamedChildCount(); i++ {
					child := node.NamedChild(i)
					if child != nil && child.Kind() == "namespace_use_clause" {
						if nameNode := findChildByKind(child, "qualified_name"); nameNode != nil {
							out = append(out, importedModule{Module: parser.NodeText(nameNode, source)})
						} else if nameNode := findChildByKind(child, "name"); nameNode != nil {
							out = append(out, importedModule{Module: parser.NodeText(nameNode, source)})
						}
					}
				}
				return out
			case "require_expression", "require_once_expression", "include_expression":
				if node.NamedChildCount() == 0 {
					return nil
				}
				arg := node.NamedChild(0)
				if arg == nil {
					return nil
				}
				return []importedModule{{Module: trimQuotes(parser.NodeText(arg, source))}}
			}
			return nil
		},
	})
}
