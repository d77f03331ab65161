// Package adapter turns a parsed tree-sitter AST into the uniform
// model.ParsedFile every language produces: definitions, call sites,
// imports, exports, aliases, and inheritance edges. The walk itself is
// shared (adapter.go); each language supplies the small set of
// grammar-specific extractors a generic walk cannot guess (where the name
// field lives, how a receiver is spelled, what a base-class list looks
// like).
package adapter

import (
	tree_sitter "github.com/tree-sitter/go-tree-sitter"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/parser"
)

// extractors holds the language-specific knowledge the generic walk needs.
// Every field is optional; a nil func falls back to the generic behavior.
type extractors struct {
	// defName returns the name of a function/class definition node, or ""
	// if this particular node shouldn't be treated as a definition (e.g. an
	// anonymous function expression assigned to nothing).
	defName func(node *tree_sitter.Node, source []byte) string

	// defKind refines the generic Kind guess (FunctionNodeTypes ->
	// KindFunction, ClassNodeTypes -> KindClass) using node.Kind().
	defKind func(node *tree_sitter.Node) model.Kind

	// receiverInfo returns (receiver type string, enclosing class name) for
	// a function definition node, used to populate SymbolDef.Receiver/
	// ClassName; both empty means the node is not a method.
	receiverInfo func(node *tree_sitter.Node, source []byte) (receiver string, className string)

	// callNameAndReceiver splits a call expression into the callee name and
	// its textual receiver (left of "." or "->"), if any.
	callNameAndReceiver func(node *tree_sitter.Node, source []byte) (name, receiver string)

	// importModules extracts every (module, importedNames) pair an import
	// node declares — plural because one declaration can cover several
	// modules (Go's parenthesized import blocks, JS destructured imports).
	importModules func(node *tree_sitter.Node, source []byte) []importedModule

	// baseClasses extracts the list of parent-class names from a class
	// definition node, for InheritanceEdge construction.
	baseClasses func(node *tree_sitter.Node, source []byte) []string

	// alias extracts a (localName, canonicalName) pair from a top-level
	// statement node, or ("","") if it isn't a recognized alias form.
	alias func(node *tree_sitter.Node, source []byte) (local, canonical string)

	// exportNames extracts every name an export statement makes visible
	// to importers (JS/TS only — the other six languages export by
	// convention, never by explicit statement, so ExportRecord has no
	// role there).
	exportNames func(node *tree_sitter.Node, source []byte) []exportedName
}

// importedModule is one module reference extracted from an import node.
type importedModule struct {
	Module        string
	ImportedNames []string
}

// exportedName is one name an export statement declares, with its kind
// when the declaration form reveals one (function/class/type-alias).
type exportedName struct {
	Name string
	Kind model.Kind
}

var registry = map[lang.Language]extractors{}

func register(l lang.Language, e extractors) {
	registry[l] = e
}

// ParseFile walks source's AST and produces the uniform ParsedFile for l.
func ParseFile(l lang.Language, path, relPath string, source []byte) (*model.ParsedFile, error) {
	spec := lang.ForLanguage(l)
	if spec == nil {
		return nil, errUnsupported(l)
	}
	ex := registry[l]

	tree, err := parser.Parse(l, source)
	if err != nil {
		return nil, err
	}
	defer tree.Close()

	root := tree.RootNode()
	pf := &model.ParsedFile{
		Path:     path,
		RelPath:  relPath,
		Language: string(l),
		Source:   source,
	}

	var defs []model.SymbolDef

	parser.Walk(root, func(node *tree_sitter.Node) bool {
		kind := node.Kind()

		if contains(spec.ImportNodeTypes, kind) {
			if ex.importModules != nil {
				for _, im := range ex.importModules(node, source) {
					if im.Module == "" {
						continue
					}
					pf.Imports = append(pf.Imports, model.ImportEdge{
						ImportingFile: relPath,
						Module:        im.Module,
						ImportedNames: im.ImportedNames,
					})
				}
			}
			if !contains(spec.CallNodeTypes, kind) {
				return false
			}
		}

		switch {
		case contains(spec.ExportNodeTypes, kind):
			if ex.exportNames != nil {
				for _, ename := range ex.exportNames(node, source) {
					if ename.Name == "" {
						continue
					}
					pf.Exports = append(pf.Exports, model.ExportRecord{
						File:         relPath,
						ExportedName: ename.Name,
						Kind:         ename.Kind,
					})
				}
			}
			return false

		case contains(spec.ClassNodeTypes, kind):
			def := buildDef(node, source, spec, ex, model.KindClass, relPath)
			if def != nil {
				defs = append(defs, *def)
				if ex.baseClasses != nil {
					for _, base := range ex.baseClasses(node, source) {
						pf.Inherits = append(pf.Inherits, model.InheritanceEdge{
							ChildClass:  def.Name,
							ChildFile:   relPath,
							ParentClass: base,
						})
					}
				}
			}
			return true // descend into class body for methods

		case contains(spec.FunctionNodeTypes, kind):
			def := buildDef(node, source, spec, ex, model.KindFunction, relPath)
			if def != nil {
				defs = append(defs, *def)
			}
			return true

		case contains(spec.CallNodeTypes, kind):
			var calleeNode *tree_sitter.Node
			if ex.callNameAndReceiver != nil {
				name, receiver := ex.callNameAndReceiver(node, source)
				if name != "" {
					pf.Calls = append(pf.Calls, model.CallSite{
						Name:     name,
						File:     relPath,
						Line:     parser.StartLine(node),
						Column:   parser.StartColumn(node),
						Receiver: normalizeReceiver(receiver),
						ArgCount: argCount(node),
					})
					if contains(spec.TestCallNames, name) {
						if cb := testCallbackArg(node, spec); cb != nil {
							defs = append(defs, model.SymbolDef{
								Name:      name,
								Kind:      model.KindFunction,
								File:      relPath,
								StartLine: parser.StartLine(cb),
								EndLine:   parser.EndLine(cb),
								Modifiers: []string{"test"},
							})
						}
					}
				}
				calleeNode = node.ChildByFieldName("function")
			}
			pf.CallbackRefs = append(pf.CallbackRefs, callbackArgRefs(node, calleeNode, source, spec, relPath)...)
			return true

		case contains(spec.IdentifierNodeTypes, kind):
			pf.Occurrences = append(pf.Occurrences, model.Occurrence{
				Name: parser.NodeText(node, source),
				File: relPath,
				Line: parser.StartLine(node),
			})
		}

		if ex.alias != nil {
			if local, canonical := ex.alias(node, source); local != "" {
				pf.Aliases = append(pf.Aliases, model.AliasEdge{
					File:          relPath,
					LocalName:     local,
					CanonicalName: canonical,
				})
			}
		}

		return true
	})

	assignContainingDefs(defs, pf.Calls, pf.CallbackRefs)
	pf.Defs = defs
	return pf, nil
}

// callbackArgRefs scans call's argument list -- including any
// object-literal value nested in it, e.g. {onSuccess: handleSuccess} --
// for bare identifier tokens, recording one CallbackRef candidate per
// occurrence. Resolution policy 4 (spec.md §4.C rule 4) later decides
// which of these actually name a known def; this function only harvests
// syntactic evidence, so it over-reports by design (the documented
// false-positive trade-off). calleeNode's own subtree is skipped so a
// call's callee is never also recorded as a callback reference to itself.
func callbackArgRefs(call, calleeNode *tree_sitter.Node, source []byte, spec *lang.Spec, relPath string) []model.CallbackRef {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}

	var refs []model.CallbackRef
	parser.Walk(args, func(node *tree_sitter.Node) bool {
		if calleeNode != nil && node.StartByte() == calleeNode.StartByte() && node.EndByte() == calleeNode.EndByte() {
			return false
		}
		if contains(spec.IdentifierNodeTypes, node.Kind()) {
			refs = append(refs, model.CallbackRef{
				Name:   parser.NodeText(node, source),
				File:   relPath,
				Line:   parser.StartLine(node),
				Column: parser.StartColumn(node),
			})
		}
		return true
	})
	return refs
}

// testCallbackArg returns the first "arguments" child of call whose node
// kind is a function-literal kind for spec, i.e. the callback body of a
// framework call like it("...", function () {...}); nil if none.
func testCallbackArg(call *tree_sitter.Node, spec *lang.Spec) *tree_sitter.Node {
	args := call.ChildByFieldName("arguments")
	if args == nil {
		return nil
	}
	for i := uint(0); i < args.NamedChildCount(); i++ {
		c := args.NamedChild(i)
		if c != nil && contains(spec.FunctionNodeTypes, c.Kind()) {
			return c
		}
	}
	return nil
}

func buildDef(node *tree_sitter.Node, source []byte, spec *lang.Spec, ex extractors, guess model.Kind, relPath string) *model.SymbolDef {
	var name string
	if ex.defName != nil {
		name = ex.defName(node, source)
	}
	if name == "" {
		return nil
	}

	kind := guess
	if ex.defKind != nil {
		if k := ex.defKind(node); k != "" {
			kind = k
		}
	}

	def := &model.SymbolDef{
		Name:         name,
		Kind:         kind,
		File:         relPath,
		RelativePath: relPath,
		StartLine:    parser.StartLine(node),
		EndLine:      parser.EndLine(node),
		Indent:       parser.StartColumn(node),
		Params:       paramTexts(node, source),
	}

	if (kind == model.KindFunction || kind == model.KindMethod) && ex.receiverInfo != nil {
		receiver, className := ex.receiverInfo(node, source)
		if receiver != "" || className != "" {
			def.IsMethod = true
			def.Receiver = receiver
			def.ClassName = className
			def.Kind = model.KindMethod
		}
	}

	for i := uint(0); i < node.ChildCount(); i++ {
		if child := node.Child(i); child != nil && contains(spec.ModifierNodeTypes, child.Kind()) {
			def.Modifiers = append(def.Modifiers, parser.NodeText(child, source))
		}
	}
	return def
}

// assignContainingDefs resolves each call site's and callback reference's
// enclosing definition by line-range containment, not by static scope.
func assignContainingDefs(defs []model.SymbolDef, calls []model.CallSite, refs []model.CallbackRef) {
	containing := func(line int) *model.SymbolDef {
		var best *model.SymbolDef
		for j := range defs {
			d := &defs[j]
			if line < d.StartLine || line > d.EndLine {
				continue
			}
			if best == nil || (d.StartLine >= best.StartLine && d.EndLine <= best.EndLine) {
				best = d
			}
		}
		return best
	}
	for i := range calls {
		calls[i].ContainingDef = containing(calls[i].Line)
	}
	for i := range refs {
		refs[i].ContainingDef = containing(refs[i].Line)
	}
}

func normalizeReceiver(r string) string {
	switch r {
	case "self", "this", "cls":
		return "self"
	default:
		return r
	}
}

func contains(types []string, t string) bool {
	for _, s := range types {
		if s == t {
			return true
		}
	}
	return false
}

type unsupportedLanguageError struct{ l lang.Language }

func (e unsupportedLanguageError) Error() string { return "adapter: unsupported language: " + string(e.l) }

func errUnsupported(l lang.Language) error { return unsupportedLanguageError{l} }
