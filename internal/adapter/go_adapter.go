package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/parser"
)

func init() {
	register(lang.Go, extractors{
		defName: func(node *tree_sitter.Node, source []byte) string {
			nameNode := node.ChildByFieldName("name")
			if nameNode == nil {
				return ""
			}
			return parser.NodeText(nameNode, source)
		},
		defKind: func(node *tree_sitter.Node) model.Kind {
			switch node.Kind() {
			case "type_spec", "type_alias":
				return model.KindTypeAlias
			}
			return ""
		},
		receiverInfo: func(node *tree_sitter.Node, source []byte) (string, string) {
			recv := node.ChildByFieldName("receiver")
			if recv == nil {
				return "", ""
			}
			if decl := findChildByKind(recv, "parameter_declaration"); decl != nil {
				if t := decl.ChildByFieldName("type"); t != nil {
					return cleanTypeName(parser.NodeText(t, source)), ""
				}
			}
			return cleanTypeName(parser.NodeText(recv, source)), ""
		},
		callNameAndReceiver: callFromFunctionField,
		importModules: func(node *tree_sitter.Node, source []byte) []importedModule {
			var specs []*tree_sitter.Node
			if list := findChildByKind(node, "import_spec_list"); list != nil {
				for i := uint(0); i < list.NamedChildCount(); i++ {
					if c := list.NamedChild(i); c != nil && c.Kind() == "import_spec" {
						specs = append(specs, c)
					}
				}
			} else if s := findChildByKind(node, "import_spec"); s != nil {
				specs = append(specs, s)
			}

			var out []importedModule
			for _, s := range specs {
				path := s.ChildByFieldName("path")
				if path == nil {
					continue
				}
				out = append(out, importedModule{Module: trimQuotes(parser.NodeText(path, source))})
			}
			return out
		},
	})
}

func trimQuotes(s string) string {
	if len(s) >= 2 {
		return s[1 : len(s)-1]
	}
	return s
}
