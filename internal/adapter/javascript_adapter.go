package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/parser"
)

// jsFuncName resolves the name of a JS/TS function-like node, including
// const x = () => {} where the name lives on the parent variable_declarator.
func jsFuncName(node *tree_sitter.Node, source []byte) string {
	if nameNode := node.ChildByFieldName("name"); nameNode != nil {
		return parser.NodeText(nameNode, source)
	}
	if node.Kind() == "arrow_function" || node.Kind() == "function_expression" {
		if p := node.Parent(); p != nil && p.Kind() == "variable_declarator" {
			if nameNode := p.ChildByFieldName("name"); nameNode != nil {
				return parser.NodeText(nameNode, source)
			}
		}
	}
	return ""
}

func jsReceiverInfo(node *tree_sitter.Node, source []byte) (string, string) {
	if node.Kind() != "method_definition" {
		return "", ""
	}
	classBody := node.Parent()
	if classBody == nil {
		return "", ""
	}
	classNode := classBody.Parent()
	if classNode == nil {
		return "", ""
	}
	switch classNode.Kind() {
	case "class_declaration", "class":
		if nameNode := classNode.ChildByFieldName("name"); nameNode != nil {
			return "", parser.NodeText(nameNode, source)
		}
	}
	return "", ""
}

func jsBaseClasses(node *tree_sitter.Node, source []byte) []string {
	heritage := findChildByKind(node, "class_heritage")
	if heritage == nil {
		return nil
	}
	var names []string
	for i := uint(0); i < heritage.ChildCount(); i++ {
		clause := heritage.Child(i)
		if clause == nil {
			continue
		}
		switch clause.Kind() {
		case "extends_clause":
			if valNode := clause.ChildByFieldName("value"); valNode != nil {
				names = append(names, parser.NodeText(valNode, source))
			} else {
				names = append(names, namedChildTexts(clause, source)...)
			}
		case "implements_clause":
			names = append(names, namedChildTexts(clause, source)...)
		}
	}
	return names
}

func jsImportModules(node *tree_sitter.Node, source []byte) []importedModule {
	switch node.Kind() {
	case "import_statement":
		src := node.ChildByFieldName("source")
		if src == nil {
			return nil
		}
		module := trimQuotes(parser.NodeText(src, source))
		clause := findChildByKind(node, "import_clause")
		var names []string
		if clause != nil {
			names = namedChildTexts(clause, source)
		}
		return []importedModule{{Module: module, ImportedNames: names}}
	case "call_expression":
		// require('module')
		name, _ := callFromFunctionField(node, source)
		if name != "require" {
			return nil
		}
		args := node.ChildByFieldName("arguments")
		if args == nil || args.NamedChildCount() == 0 {
			return nil
		}
		arg := args.NamedChild(0)
		if arg == nil {
			return nil
		}
		return []importedModule{{Module: trimQuotes(parser.NodeText(arg, source))}}
	}
	return nil
}

func jsAlias(node *tree_sitter.Node, source []byte) (string, string) {
	if node.Kind() != "lexical_declaration" && node.Kind() != "variable_declaration" {
		return "", ""
	}
	decl := findChildByKind(node, "variable_declarator")
	if decl == nil {
		return "", ""
	}
	nameNode := decl.ChildByFieldName("name")
	valueNode := decl.ChildByFieldName("value")
	if nameNode == nil || valueNode == nil || nameNode.Kind() != "identifier" {
		return "", ""
	}
	switch valueNode.Kind() {
	case "identifier", "member_expression":
		return parser.NodeText(nameNode, source), parser.NodeText(valueNode, source)
	}
	return "", ""
}

// jsExportNames extracts every name an export_statement makes visible to
// importers: a named declaration (function/class/const), a re-export
// clause (export { a, b as c }), or a default export.
func jsExportNames(node *tree_sitter.Node, source []byte) []exportedName {
	if node.Kind() != "export_statement" {
		return nil
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return jsExportNamesFromDeclaration(decl, source)
	}

	if clause := findChildByKind(node, "export_clause"); clause != nil {
		var out []exportedName
		for i := uint(0); i < clause.NamedChildCount(); i++ {
			spec := clause.NamedChild(i)
			if spec == nil || spec.Kind() != "export_specifier" {
				continue
			}
			nameNode := spec.ChildByFieldName("name")
			if nameNode == nil {
				continue
			}
			exported := nameNode
			if alias := spec.ChildByFieldName("alias"); alias != nil {
				exported = alias
			}
			out = append(out, exportedName{Name: parser.NodeText(exported, source)})
		}
		return out
	}

	// export default <expr>: the exported value is the last named child,
	// since there is no dedicated field name for it in the grammar.
	if node.NamedChildCount() > 0 {
		last := node.NamedChild(node.NamedChildCount() - 1)
		if last != nil {
			if names := jsExportNamesFromDeclaration(last, source); len(names) > 0 {
				return names
			}
			if last.Kind() == "identifier" {
				return []exportedName{{Name: parser.NodeText(last, source)}}
			}
		}
	}
	return nil
}

func jsExportNamesFromDeclaration(decl *tree_sitter.Node, source []byte) []exportedName {
	switch decl.Kind() {
	case "function_declaration", "generator_function_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []exportedName{{Name: parser.NodeText(nameNode, source), Kind: model.KindFunction}}
		}
		return []exportedName{{Name: "default", Kind: model.KindFunction}}
	case "class_declaration":
		if nameNode := decl.ChildByFieldName("name"); nameNode != nil {
			return []exportedName{{Name: parser.NodeText(nameNode, source), Kind: model.KindClass}}
		}
		return []exportedName{{Name: "default", Kind: model.KindClass}}
	case "lexical_declaration", "variable_declaration":
		var out []exportedName
		for i := uint(0); i < decl.NamedChildCount(); i++ {
			d := decl.NamedChild(i)
			if d == nil || d.Kind() != "variable_declarator" {
				continue
			}
			if nameNode := d.ChildByFieldName("name"); nameNode != nil && nameNode.Kind() == "identifier" {
				out = append(out, exportedName{Name: parser.NodeText(nameNode, source)})
			}
		}
		return out
	}
	return nil
}

func init() {
	register(lang.JavaScript, extractors{
		defName:             jsFuncName,
		receiverInfo:        jsReceiverInfo,
		callNameAndReceiver: callFromFunctionField,
		baseClasses:         jsBaseClasses,
		importModules:       jsImportModules,
		alias:               jsAlias,
		exportNames:         jsExportNames,
	})
}
