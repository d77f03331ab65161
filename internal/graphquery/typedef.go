package graphquery

import "github.com/polyidx/polyidx/internal/model"

// typeLikeKinds is the class/struct/interface/trait/enum/type-alias set
// typedef(name) filters SymbolDefs by.
var typeLikeKinds = map[model.Kind]bool{
	model.KindClass:     true,
	model.KindStruct:    true,
	model.KindInterface: true,
	model.KindTrait:     true,
	model.KindImpl:      true,
	model.KindEnum:      true,
	model.KindTypeAlias: true,
}

// Typedef returns every SymbolDef named name whose Kind is a type
// declaration (class, struct, interface, trait, enum, or type alias) —
// never a function or method, even if one happens to share the name.
func (e *Engine) Typedef(name string) []model.SymbolDef {
	var out []model.SymbolDef
	for _, d := range e.idx.Lookup(name) {
		if typeLikeKinds[d.Kind] {
			out = append(out, d)
		}
	}
	return out
}
