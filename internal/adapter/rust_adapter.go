package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/parser"
)

func init() {
	register(lang.Rust, extractors{
		defName: func(node *tree_sitter.Node, source []byte) string {
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				return ""
			}
			return parser.NodeText(nameNode, source)
		},
		defKind: func(node *tree_sitter.Node) model.Kind {
			switch node.Kind() {
			case "struct_item":
				return model.KindStruct
			case "trait_item":
				return model.KindTrait
			case "impl_item":
				return model.KindImpl
			case "enum_item":
				return model.KindEnum
			case "type_item":
				return model.KindTypeAlias
			}
			return ""
		},
		receiverInfo: func(node *tree_sitter.Node, source []byte) (string, string) {
			// Methods live inside impl_item bodies; the implementing type is
			// the impl block's "type" field.
			parent := node.Parent()
			if parent == nil || parent.Kind() != "declaration_list" {
				return "", ""
			}
			implNode := parent.Parent()
			if implNode == nil || implNode.Kind() != "impl_item" {
				return "", ""
			}
			typeNode := implNode.ChildByFieldName("type")
			if typeNode == nil {
				return "", ""
			}
			return cleanTypeName(parser.NodeText(typeNode, source)), ""
		},
		callNameAndReceiver: func(node *tree_sitter.Node, source []byte) (string, string) {
			if node.Kind() == "macro_invocation" {
				if macro := node.ChildByFieldName("macro"); macro != nil {
					return parser.NodeText(macro, source) + "!", ""
				}
				return "", ""
			}
			return callFromFunctionField(node, source)
		},
		importModules: func(node *tree_sitter.Node, source []byte) []importedModule {
			if node.Kind() != "use_declaration" {
				return nil
			}
			arg := node.ChildByFieldName("argument")
			if arg == nil {
				return nil
			}
			return []importedModule{{Module: parser.NodeText(arg, source)}}
		},
	})
}
