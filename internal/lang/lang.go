// Package lang declares the set of supported source languages and, for
// each, the tree-sitter node-kind tables every other package (parser,
// adapter, classify) keys off of. Adding a language means writing one new
// file in this package and registering it from init, binding its grammar
// in internal/parser, and registering its extractors in internal/adapter.
package lang

// Language identifies one of the supported source languages.
type Language string

const (
	Python     Language = "python"
	JavaScript Language = "javascript"
	TypeScript Language = "typescript"
	Go         Language = "go"
	Rust       Language = "rust"
	Java       Language = "java"
	PHP        Language = "php"
)

// AllLanguages returns every registered language, in a fixed order.
func AllLanguages() []Language {
	return []Language{Python, JavaScript, TypeScript, Go, Rust, Java, PHP}
}

// Spec declares the tree-sitter node kinds relevant to one language. Every
// slice is a set of node Kind() strings as produced by that language's
// grammar; callers test membership, never order.
type Spec struct {
	Language       Language
	FileExtensions []string

	// Structural node kinds.
	FunctionNodeTypes []string // function/method/arrow/closure declarations
	ClassNodeTypes    []string // class/struct/interface/trait/enum/type-alias
	ModuleNodeTypes   []string // top-level compilation unit
	CallNodeTypes     []string // call expressions
	ImportNodeTypes   []string // import/use/require statements
	ExportNodeTypes   []string // export statements (JS/TS only)

	// AST classifier (§4.D): node kinds that make a byte position a
	// comment, a string literal, or a template interpolation hole.
	CommentNodeTypes  []string
	StringNodeTypes   []string
	TemplateExprTypes []string // e.g. `${...}` inside a JS template_string

	// IdentifierNodeTypes are the leaf node kinds a bare name token parses
	// as: feeds the usage-occurrence index (§4.B) and the callback-argument
	// scan (§4.C rule 4) and classify's node-at-position lookup (§4.D).
	IdentifierNodeTypes []string

	// Modifiers: node kinds / field names carrying tokens like "async",
	// "static", "pub", "public", collected verbatim onto SymbolDef.Modifiers.
	ModifierNodeTypes []string

	// PackageIndicators are marker files whose presence at the project
	// root identifies a project as this language (spec.md §6).
	PackageIndicators []string

	// EntryPoints are function/method names the runtime invokes without
	// being named anywhere in the code (spec.md §4.C deadcode).
	EntryPoints []string
	// EntryPointIsDunder, when true, additionally treats any name of the
	// form "__xxx__" as an entry point (Python).
	EntryPointIsDunder bool

	// BuiltinReceivers blocklists "receiver.method" pairs (or bare
	// "method" when Receiver is "") whose call form never resolves to a
	// user SymbolDef (spec.md §4.C rule 3).
	BuiltinReceivers map[string]bool

	// TestCallNames are call-expression callee names that mark a test
	// declaration (spec.md §4.F tests()), e.g. "it", "describe", "test".
	TestCallNames []string
}

var registry = map[string]*Spec{}
var byExt = map[string]*Spec{}

// Register adds a Spec to the global registry, indexing it by every
// extension it declares.
func Register(s *Spec) {
	registry[string(s.Language)] = s
	for _, ext := range s.FileExtensions {
		byExt[ext] = s
	}
}

// ForLanguage returns the Spec for a Language, or nil if unregistered.
func ForLanguage(l Language) *Spec { return registry[string(l)] }

// ForExtension returns the Spec whose FileExtensions contains ext
// (e.g. ".go"), or nil.
func ForExtension(ext string) *Spec { return byExt[ext] }

// LanguageForExtension returns the Language registered for ext, if any.
func LanguageForExtension(ext string) (Language, bool) {
	s, ok := byExt[ext]
	if !ok {
		return "", false
	}
	return s.Language, true
}
