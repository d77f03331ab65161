// Package resolve converts the syntactic evidence the index collected
// (call sites, aliases, inheritance edges) into semantic answers: who
// calls what, what a function's dependents are, dead code, and so on.
//
// Resolution runs four policies in order, first hit wins: exact direct
// call, alias resolution, receiver/inheritance-aware method call, and
// function-argument callback detection. Ambiguity is never silently
// dropped — every policy that finds more than one candidate returns all
// of them (the over-report contract).
package resolve

import (
	"strconv"

	"github.com/polyidx/polyidx/internal/index"
	"github.com/polyidx/polyidx/internal/model"
)

// builtinBlocklists are per-language receiver.method pairs that must never
// resolve to a user-defined SymbolDef, even if a project happens to define
// a function with a colliding name.
var builtinBlocklists = map[string]bool{
	"JSON.parse": true, "JSON.stringify": true,
	"Array.map": true, "Array.isArray": true, "Array.from": true,
	"Object.keys": true, "Object.values": true, "Object.entries": true,
	"Math.floor": true, "Math.ceil": true, "Math.round": true,
	"path.join": true, "path.resolve": true, "path.dirname": true,
	"fmt.Println": true, "fmt.Printf": true, "fmt.Sprintf": true,
	"strings.Join": true, "strings.Split": true,
	"String.format": true, "Arrays.asList": true, "Collections.sort": true,
}

// entryPointNames are recognized entry points across languages; a def
// named one of these is never dead code regardless of usage.
var entryPointNames = map[string]bool{
	"main": true, "init": true,
	"__init__": true, "__call__": true, "__enter__": true, "__exit__": true,
}

// Engine answers resolution queries against a built Index.
type Engine struct {
	idx *index.Index
}

// New returns an Engine over idx.
func New(idx *index.Index) *Engine {
	return &Engine{idx: idx}
}

// Candidates is the result of resolving one call site: zero, one, or (in
// the ambiguous case) several candidate definitions.
type Candidates struct {
	Defs      []model.SymbolDef
	Ambiguous bool
}

// ResolveCall applies resolution policies 1-3 (direct, alias, receiver
// method) to a single call site in the context of the file it appears in.
// Policy 4, callback references, is handled by ResolveCallback.
func (e *Engine) ResolveCall(call model.CallSite) Candidates {
	if call.Receiver != "" && builtinBlocklists[call.Receiver+"."+call.Name] {
		return Candidates{}
	}

	// Policy 1: exact direct call (no receiver).
	if call.Receiver == "" {
		if c := e.resolveDirect(call); len(c.Defs) > 0 {
			return c
		}
	}

	// Policy 2: alias resolution.
	if call.Receiver == "" {
		if canonical, ok := e.resolveAlias(call.File, call.Name); ok {
			aliased := call
			aliased.Name = canonical
			if c := e.resolveDirect(aliased); len(c.Defs) > 0 {
				return c
			}
		}
	}

	// Policy 3: receiver method call.
	if call.Receiver != "" {
		if c := e.resolveMethod(call); len(c.Defs) > 0 {
			return c
		}
	}

	return Candidates{}
}

// resolveDirect implements policy 1: exact direct call, with the
// shadowed-inner-function and same-file scope disambiguation, falling
// back to "report every candidate" under genuine ambiguity.
func (e *Engine) resolveDirect(call model.CallSite) Candidates {
	defs := e.idx.Lookup(call.Name)
	if len(defs) == 0 {
		return Candidates{}
	}
	if len(defs) == 1 {
		return Candidates{Defs: defs}
	}

	// Prefer a def whose range contains the call site (shadowed inner func).
	var enclosing []model.SymbolDef
	for _, d := range defs {
		if d.File == call.File && call.Line >= d.StartLine && call.Line <= d.EndLine {
			enclosing = append(enclosing, d)
		}
	}
	if len(enclosing) == 1 {
		return Candidates{Defs: enclosing}
	}

	// Next, prefer same-file candidates.
	var sameFile []model.SymbolDef
	for _, d := range defs {
		if d.File == call.File {
			sameFile = append(sameFile, d)
		}
	}
	if len(sameFile) == 1 {
		return Candidates{Defs: sameFile}
	}

	return Candidates{Defs: defs, Ambiguous: true}
}

// resolveAlias looks up a file-local localName -> canonicalName binding.
// Only the first binding is tracked for a reassigned alias.
func (e *Engine) resolveAlias(file, localName string) (string, bool) {
	for _, a := range e.idx.Aliases[file] {
		if a.LocalName == localName {
			return a.CanonicalName, true
		}
	}
	return "", false
}

// resolveMethod implements policy 3: receiver-qualified calls, including
// self/this/cls member lookup walking the inheritance chain child-first.
func (e *Engine) resolveMethod(call model.CallSite) Candidates {
	defs := e.idx.Lookup(call.Name)
	if len(defs) == 0 {
		return Candidates{}
	}

	if call.Receiver == "self" {
		if call.ContainingDef == nil {
			return Candidates{}
		}
		class := call.ContainingDef.ClassName
		if class == "" {
			class = call.ContainingDef.Receiver
		}
		for _, className := range e.inheritanceChain(class, call.File) {
			var matches []model.SymbolDef
			for _, d := range defs {
				if d.ClassName == className || d.Receiver == className {
					matches = append(matches, d)
				}
			}
			if len(matches) == 1 {
				return Candidates{Defs: matches}
			}
			if len(matches) > 1 {
				return Candidates{Defs: matches, Ambiguous: true}
			}
		}
		return Candidates{}
	}

	// Textual receiver match: same-file candidate whose Receiver/ClassName
	// textually matches, else any same-file candidate, else report all.
	var byReceiver []model.SymbolDef
	for _, d := range defs {
		if d.ClassName == call.Receiver || d.Receiver == call.Receiver {
			byReceiver = append(byReceiver, d)
		}
	}
	if len(byReceiver) == 1 {
		return Candidates{Defs: byReceiver}
	}
	if len(byReceiver) > 1 {
		var sameFile []model.SymbolDef
		for _, d := range byReceiver {
			if d.File == call.File {
				sameFile = append(sameFile, d)
			}
		}
		if len(sameFile) == 1 {
			return Candidates{Defs: sameFile}
		}
		return Candidates{Defs: byReceiver, Ambiguous: true}
	}
	return Candidates{}
}

// inheritanceChain returns [class, parent, grandparent, ...] for class,
// cross-file, stopping if a cycle is detected.
func (e *Engine) inheritanceChain(class, file string) []string {
	if class == "" {
		return nil
	}
	chain := []string{class}
	seen := map[string]bool{class: true}
	current, currentFile := class, file
	for {
		var parent, parentFile string
		for _, edge := range e.idx.Inherits {
			if edge.ChildClass == current && (edge.ChildFile == currentFile || currentFile == "") {
				parent, parentFile = edge.ParentClass, edge.ParentFile
				break
			}
		}
		if parent == "" || seen[parent] {
			break
		}
		seen[parent] = true
		chain = append(chain, parent)
		current, currentFile = parent, parentFile
	}
	return chain
}

// IsPotentialCallback reports whether name, when it appears as a bare
// identifier argument to a call (or as an object-literal property value),
// should be treated as a potential caller edge: it must name a known def.
func (e *Engine) IsPotentialCallback(name string) bool {
	return len(e.idx.Lookup(name)) > 0
}

// ResolveCallback applies policy 4: a bare identifier in argument or
// object-literal-property-value position is a potential caller edge if it
// names a known SymbolDef. It shares resolveDirect's shadowed-inner-
// function and same-file disambiguation, since a callback reference and a
// direct call resolve to a def candidate the same way.
func (e *Engine) ResolveCallback(ref model.CallbackRef) Candidates {
	if !e.IsPotentialCallback(ref.Name) {
		return Candidates{}
	}
	return e.resolveDirect(model.CallSite{Name: ref.Name, File: ref.File, Line: ref.Line})
}

// FindCallers returns every def that could call name, via policies 1, 2,
// and 4 in reverse. A definition never appears in its own callers list.
func (e *Engine) FindCallers(name string, includeMethods bool) []model.SymbolDef {
	var callers []model.SymbolDef
	seen := make(map[string]bool)

	addCaller := func(containing *model.SymbolDef, d model.SymbolDef) {
		if d.Name != name {
			return
		}
		if !includeMethods && d.IsMethod {
			return
		}
		if containing == nil {
			return
		}
		if containing.Name == name && containing.File == d.File && containing.StartLine == d.StartLine {
			return // a def never appears in its own callers list
		}
		key := containing.File + ":" + strconv.Itoa(containing.StartLine)
		if seen[key] {
			return
		}
		seen[key] = true
		callers = append(callers, *containing)
	}

	for _, pf := range e.idx.Files {
		for _, call := range pf.Calls {
			if call.Name != name {
				continue
			}
			cands := e.ResolveCall(call)
			for _, d := range cands.Defs {
				addCaller(call.ContainingDef, d)
			}
		}
		for _, ref := range pf.CallbackRefs {
			if ref.Name != name {
				continue
			}
			cands := e.ResolveCallback(ref)
			for _, d := range cands.Defs {
				addCaller(ref.ContainingDef, d)
			}
		}
	}
	return callers
}

// FindCallees returns every def that def's body could call.
func (e *Engine) FindCallees(def model.SymbolDef) []model.SymbolDef {
	pf, ok := e.idx.File(def.File)
	if !ok {
		return nil
	}

	var callees []model.SymbolDef
	seen := make(map[string]bool)
	for _, call := range pf.Calls {
		if call.Line < def.StartLine || call.Line > def.EndLine {
			continue
		}
		cands := e.ResolveCall(call)
		for _, d := range cands.Defs {
			isSelf := d.File == def.File && d.StartLine == def.StartLine && d.Name == def.Name
			if isSelf && !(call.Line > def.StartLine) {
				continue
			}
			key := d.File + ":" + strconv.Itoa(d.StartLine)
			if seen[key] {
				continue
			}
			seen[key] = true
			callees = append(callees, d)
		}
	}
	return callees
}

