package resolve

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/polyidx/polyidx/internal/model"
)

// Context is the {callers, callees} view of a function, or the
// {type, methods} view of a class/struct symbol.
type Context struct {
	Def     model.SymbolDef
	Callers []model.SymbolDef
	Callees []model.SymbolDef
	Methods []model.SymbolDef // populated instead of Callers/Callees for class-like kinds
}

func isClassLike(k model.Kind) bool {
	switch k {
	case model.KindClass, model.KindStruct, model.KindInterface, model.KindTrait, model.KindImpl, model.KindEnum:
		return true
	}
	return false
}

// GetContext resolves name to its def and returns the function or class view.
func (e *Engine) GetContext(name string) (*Context, bool) {
	defs := e.idx.Lookup(name)
	if len(defs) == 0 {
		return nil, false
	}
	def := defs[0]

	if isClassLike(def.Kind) {
		var methods []model.SymbolDef
		for _, all := range e.idx.Symbols {
			for _, d := range all {
				if d.ClassName == name || d.Receiver == name {
					methods = append(methods, d)
				}
			}
		}
		return &Context{Def: def, Methods: methods}, true
	}

	return &Context{
		Def:     def,
		Callers: e.FindCallers(name, true),
		Callees: e.FindCallees(def),
	}, true
}

// Smart returns def plus its transitive callees up to depth 1. The target
// itself must not appear in its own dependency list.
func (e *Engine) Smart(name string) (*Context, bool) {
	ctx, ok := e.GetContext(name)
	if !ok {
		return nil, false
	}
	var filtered []model.SymbolDef
	for _, c := range ctx.Callees {
		if c.Name == name {
			continue
		}
		filtered = append(filtered, c)
	}
	ctx.Callees = filtered
	return ctx, true
}

// TraceNode is one node of a bounded call tree.
type TraceNode struct {
	Def      model.SymbolDef
	Children []TraceNode
}

// Trace returns the call tree rooted at name, down to depth (clamped to
// >= 0), never revisiting a def already on the current path (cycle-safe).
func (e *Engine) Trace(name string, depth int) (*TraceNode, bool) {
	if depth < 0 {
		depth = 0
	}
	defs := e.idx.Lookup(name)
	if len(defs) == 0 {
		return nil, false
	}
	visited := map[string]bool{}
	return e.traceNode(defs[0], depth, visited), true
}

func (e *Engine) traceNode(def model.SymbolDef, depth int, visited map[string]bool) *TraceNode {
	key := def.File + ":" + def.Name
	node := &TraceNode{Def: def}
	if depth == 0 || visited[key] {
		return node
	}
	visited[key] = true
	defer delete(visited, key)

	for _, callee := range e.FindCallees(def) {
		node.Children = append(node.Children, *e.traceNode(callee, depth-1, visited))
	}
	return node
}

// Impact returns the reverse-reachability set of name: everything that
// transitively calls it, bounded to avoid runaway graphs on cycles.
func (e *Engine) Impact(name string) ([]model.SymbolDef, bool) {
	defs := e.idx.Lookup(name)
	if len(defs) == 0 {
		return nil, false
	}

	visited := map[string]bool{}
	var out []model.SymbolDef
	queue := []string{name}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, caller := range e.FindCallers(current, true) {
			key := caller.File + ":" + strconv.Itoa(caller.StartLine) + ":" + caller.Name
			if visited[key] {
				continue
			}
			visited[key] = true
			out = append(out, caller)
			queue = append(queue, caller.Name)
		}
	}
	return out, true
}

// DeadCodeOptions configures the deadcode query.
type DeadCodeOptions struct {
	IncludeExported bool
	// IncludeTests reports synthesized test-callback defs (those tagged
	// Modifiers: ["test"]) as candidates too, instead of treating every
	// test entry unconditionally as a non-dead entry point.
	IncludeTests bool
}

func isEntryPoint(d model.SymbolDef, includeTests bool) bool {
	if entryPointNames[d.Name] {
		return true
	}
	if len(d.Name) > 4 && d.Name[:2] == "__" && d.Name[len(d.Name)-2:] == "__" {
		return true
	}
	if includeTests {
		return false
	}
	for _, m := range d.Modifiers {
		if m == "test" {
			return true
		}
	}
	return false
}

func isExportedName(name string) bool {
	if name == "" {
		return false
	}
	c := name[0]
	return c >= 'A' && c <= 'Z'
}

// DeadCode returns every SymbolDef that is never referenced anywhere: not
// called, not passed as a callback, not re-exported, and not an entry
// point. Exported top-level symbols are excluded unless IncludeExported.
func (e *Engine) DeadCode(opts DeadCodeOptions) []model.SymbolDef {
	exported := make(map[string]bool)
	for _, rec := range e.idx.Exports {
		exported[rec.ExportedName] = true
	}

	var dead []model.SymbolDef
	for name, defs := range e.idx.Symbols {
		// The usage index (spec.md §4.B): a name counts as used if it
		// appears anywhere at all besides its own declaration site -- as
		// a call, a callback reference, a receiver, a type reference, or
		// an alias RHS -- not only when it's the callee of a resolved
		// call site.
		if e.idx.UsedExcludingOwnDefs(name, defs) {
			continue
		}
		if exported[name] {
			continue
		}
		for _, d := range defs {
			if isEntryPoint(d, opts.IncludeTests) {
				continue
			}
			if !opts.IncludeExported && isExportedName(name) {
				continue
			}
			dead = append(dead, d)
		}
	}
	return dead
}

// VerifyIssue is one call site whose argument count doesn't match the
// declaration. Variadic/spread/**kwargs declarations are never flagged —
// their arity is inherently uncertain, not an error.
type VerifyIssue struct {
	Call     model.CallSite
	Def      model.SymbolDef
	Declared int
	Given    int
}

func isVariadicParams(params []string) bool {
	for _, p := range params {
		if len(p) >= 3 && (p[:3] == "..." || p[len(p)-3:] == "...") {
			return true
		}
		if p == "*args" || p == "**kwargs" {
			return true
		}
	}
	return false
}

// Verify compares apparent argument count at each call site of name
// against the declared parameter count.
func (e *Engine) Verify(name string) []VerifyIssue {
	defs := e.idx.Lookup(name)
	if len(defs) == 0 {
		return nil
	}

	var issues []VerifyIssue
	for _, pf := range e.idx.Files {
		for _, call := range pf.Calls {
			if call.Name != name {
				continue
			}
			cands := e.ResolveCall(call)
			if cands.Ambiguous || len(cands.Defs) != 1 {
				continue
			}
			def := cands.Defs[0]
			if isVariadicParams(def.Params) {
				continue
			}
			declared := len(def.Params)
			if def.IsMethod && declared > 0 {
				// Python and Rust write the receiver as the first parameter;
				// the other languages keep it out of Params.
				first := strings.TrimSpace(def.Params[0])
				if first == "self" || first == "cls" || first == "&self" || first == "&mut self" || first == "mut self" {
					declared--
				}
			}
			if call.ArgCount != declared {
				issues = append(issues, VerifyIssue{
					Call:     call,
					Def:      def,
					Declared: declared,
					Given:    call.ArgCount,
				})
			}
		}
	}
	return issues
}

// ResolveSymbolResult is the {def, warnings} pair for resolveSymbol.
type ResolveSymbolResult struct {
	Def      *model.SymbolDef
	Warnings []string
}

// ResolveSymbol looks up name and emits an "ambiguous" warning when
// multiple defs of the same name exist across files.
func (e *Engine) ResolveSymbol(name string) ResolveSymbolResult {
	defs := e.idx.Lookup(name)
	if len(defs) == 0 {
		return ResolveSymbolResult{}
	}
	res := ResolveSymbolResult{Def: &defs[0]}
	if len(defs) > 1 {
		qns := make([]string, len(defs))
		for i, d := range defs {
			qns[i] = d.QualifiedName
		}
		res.Warnings = append(res.Warnings, fmt.Sprintf("ambiguous: %d defs match %q (%s)", len(defs), name, strings.Join(qns, ", ")))
	}
	return res
}
