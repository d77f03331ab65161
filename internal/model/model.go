// Package model defines the data types shared by every adapter, the index
// builder, and the resolution engine: symbol definitions, call sites, and
// the edge types that connect them across files.
package model

// Kind enumerates the definitions a SymbolDef can describe.
type Kind string

const (
	KindFunction  Kind = "function"
	KindMethod    Kind = "method"
	KindClass     Kind = "class"
	KindStruct    Kind = "struct"
	KindInterface Kind = "interface"
	KindTrait     Kind = "trait"
	KindImpl      Kind = "impl"
	KindEnum      Kind = "enum"
	KindTypeAlias Kind = "type-alias"
)

// SymbolDef is a definition of a name: a function, method, class, or one of
// the other declaration kinds a language adapter recognizes.
//
// (File, StartLine, Name) uniquely identifies a definition. A method carries
// exactly one of Receiver or ClassName, never both and never neither.
type SymbolDef struct {
	Name         string
	Kind         Kind
	File         string
	RelativePath string
	StartLine    int
	EndLine      int
	Params       []string
	ReturnType   string
	Generics     []string
	Modifiers    []string
	Docstring    string
	Indent       int // source column of the defining keyword; 0 = top-level
	IsMethod     bool
	Receiver     string // Go/Rust: pointer-or-value type string
	ClassName    string // JS/TS/Py/Java: enclosing class

	// NodeID is a dense, per-build identifier assigned by the index so that
	// graph and reachability queries can key bitsets by integer rather than
	// by (File, StartLine, Name) triples.
	NodeID uint32

	// QualifiedName disambiguates same-named defs across files:
	// <project>.<path.parts.dotted>.<name>. Computed once at fold time.
	QualifiedName string
}

// CallSite is a syntactic call expression. Receiver is the textual receiver
// only — resolving it to a concrete definition happens in the resolution
// engine, never here.
type CallSite struct {
	Name          string
	File          string
	Line          int
	Column        int
	Receiver      string // text left of "." or "->"; self/this/cls normalized
	ContainingDef *SymbolDef
	ArgCount      int // number of arguments written at the call site
}

// ImportEdge records one import/require/use statement. ResolvedFile is set
// iff the module resolves within the project.
type ImportEdge struct {
	ImportingFile string
	Module        string
	ImportedNames []string
	ResolvedFile  string
	IsExternal    bool
}

// ExportRecord is a name a file makes visible to importers, including
// re-exports (export { X } from './other').
type ExportRecord struct {
	File         string
	ExportedName string
	Kind         Kind
}

// AliasEdge is a file-local localName -> canonicalName binding. Populated
// from a simple assignment or declaration whose value is a bare name or a
// member/attribute access (JS/TS const/let/var, Python a = b); destructured
// renames and ternary values produce no edge. Cross-file alias chains are
// never traversed.
type AliasEdge struct {
	File          string
	LocalName     string
	CanonicalName string
}

// InheritanceEdge is a childClass -> parentClass relationship, cross-file,
// with the parent resolved through import aliases.
type InheritanceEdge struct {
	ChildClass       string
	ChildFile        string
	ParentClass      string
	ParentFile       string
	ParentUnresolved bool // true if the parent name never resolved to a SymbolDef
}

// CallbackRef is a bare identifier in argument or object-literal-property-
// value position that names a known SymbolDef: resolution policy 4
// (function-argument callback detection). It is syntactic evidence only —
// whether Name actually resolves to a def is decided in the resolution
// engine, never here.
type CallbackRef struct {
	Name          string
	File          string
	Line          int
	Column        int
	ContainingDef *SymbolDef
}

// Occurrence is one raw identifier-token mention, independent of whether it
// is a definition, a call, an import, a receiver, or anything else — the
// usage index's unit of evidence for "is this name mentioned anywhere at
// all" (deadcode's question).
type Occurrence struct {
	Name string
	File string
	Line int
}

// CallsCacheEntry is the persisted, per-file unit of the incremental cache.
type CallsCacheEntry struct {
	File         string
	Mtime        int64
	Hash         string // content digest; collision-resistant, algorithm is cache-internal
	Calls        []CallSite
	CallbackRefs []CallbackRef
	Occurrences  []Occurrence
}

// ParsedFile is the uniform per-file output every language adapter produces,
// before the index folds it into the project-wide tables.
type ParsedFile struct {
	Path         string
	RelPath      string
	Language     string
	Defs         []SymbolDef
	Calls        []CallSite
	CallbackRefs []CallbackRef
	Occurrences  []Occurrence
	Imports      []ImportEdge
	Exports      []ExportRecord
	Aliases      []AliasEdge
	Inherits     []InheritanceEdge
	Source       []byte
}
