package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/parser"
)

func init() {
	register(lang.Java, extractors{
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
			case "enum_declaration":
				return model.KindEnum
			case "constructor_declaration":
				return model.KindMethod
			}
			return ""
		},
		receiverInfo: func(node *tree_sitter.Node, source []byte) (string, string) {
			classBody := node.Parent()
			if classBody == nil {
				return "", ""
			}
			classNode := classBody.Parent()
			if classNode == nil {
				return "", ""
			}
			switch classNode.Kind() {
			case "class_declaration", "interface_declaration", "enum_declaration", "record_declaration":
				if nameNode := classNode.ChildByFieldName("name"); nameNode != nil {
					return "", parser.NodeText(nameNode, source)
				}
			}
			return "", ""
		},
		callNameAndReceiver: func(node *tree_sitter.Node, source []byte) (string, string) {
			if node.Kind() == "object_creation_expression" {
				if typeNode := node.ChildByFieldName("type"); typeNode != nil {
					return "new " + parser.NodeText(typeNode, source), ""
				}
				return "", ""
			}
			if nameNode := node.ChildByFieldName("name"); nameNode != nil {
				name := parser.NodeText(nameNode, source)
				if recv := node.ChildByFieldName("object"); recv != nil {
					return name, parser.NodeText(recv, source)
				}
				return name, ""
			}
			return "", ""
		},
		baseClasses: func(node *tree_sitter.Node, source []byte) []string {
			var bases []string
			if superNode := node.ChildByFieldName("superclass"); superNode != nil {
				if name := cleanTypeName(parser.NodeText(superNode, source)); name != "" {
					bases = append(bases, name)
				}
			}
			if implNode := node.ChildByFieldName("interfaces"); implNode != nil {
				for i := uint(0); i < implNode.NamedChildCount(); i++ {
					child := implNode.NamedChild(i)
					if child == nil {
						continue
					}
					if name := cleanTypeName(parser.NodeText(child, source)); name != "" {
						bases = append(bases, name)
					}
				}
			}
			return bases
		},
		importModules: func(node *tree_sitter.Node, source []byte) []importedModule {
			if node.Kind() != "import_declaration" {
				return nil
			}
			for i := uint(0); i < node.NamedChildCount(); i++ {
				child := node.NamedChild(i)
				if child != nil && (child.Kind() == "scoped_identifier" || child.Kind() == "identifier") {
					return []importedModule{{Module: parser.NodeText(child, source)}}
				}
			}
			return nil
		},
	})
}
