package adapter

import (
	"testing"

	"github.com/polyidx/polyidx/internal/lang"
	"github.com/polyidx/polyidx/internal/model"
)

func findDef(defs []model.SymbolDef, name string) *model.SymbolDef {
	for i := range defs {
		if defs[i].Name == name {
			return &defs[i]
		}
	}
	return nil
}

func TestParseFileGo(t *testing.T) {
	src := []byte(`package main

import "fmt"

type Greeter struct {
	Name string
}

func (g *Greeter) Greet() {
	fmt.Println(g.Name)
}

func main() {
	g := &Greeter{Name: "world"}
	g.Greet()
}
`)
	pf, err := ParseFile(lang.Go, "main.go", "main.go", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if d := findDef(pf.Defs, "Greet"); d == nil || !d.IsMethod || d.Receiver == "" {
		t.Fatalf("expected Greet to be a method with a receiver, got %+v", d)
	}
	if d := findDef(pf.Defs, "main"); d == nil || d.IsMethod {
		t.Fatalf("expected main to be a plain function, got %+v", d)
	}
	if len(pf.Imports) != 1 || pf.Imports[0].Module != "fmt" {
		t.Fatalf("expected one import of fmt, got %+v", pf.Imports)
	}
}

func TestParseFilePythonClassAndBases(t *testing.T) {
	src := []byte(`class Animal:
    pass

class Dog(Animal):
    def bark(self):
        return "woof"
`)
	pf, err := ParseFile(lang.Python, "animals.py", "animals.py", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if d := findDef(pf.Defs, "bark"); d == nil || d.ClassName != "Dog" {
		t.Fatalf("expected bark to belong to class Dog, got %+v", d)
	}

	var found bool
	for _, e := range pf.Inherits {
		if e.ChildClass == "Dog" && e.ParentClass == "Animal" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected Dog->Animal inheritance edge, got %+v", pf.Inherits)
	}
}

func TestParseFileJavaScriptCallsAndAlias(t *testing.T) {
	src := []byte(`const helper = require('./helper')

function run() {
  helper.process()
}
`)
	pf, err := ParseFile(lang.JavaScript, "run.js", "run.js", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if len(pf.Imports) != 1 || pf.Imports[0].Module != "./helper" {
		t.Fatalf("expected require('./helper') import, got %+v", pf.Imports)
	}

	var found bool
	for _, c := range pf.Calls {
		if c.Name == "process" && c.Receiver == "helper" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected helper.process() call site, got %+v", pf.Calls)
	}
}

func TestParseFileJavaScriptExports(t *testing.T) {
	src := []byte(`export function greet() {
  return "hi"
}

export class Widget {}

export { greet as sayHi }
`)
	pf, err := ParseFile(lang.JavaScript, "widget.js", "widget.js", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	names := make(map[string]model.Kind)
	for _, e := range pf.Exports {
		names[e.ExportedName] = e.Kind
	}
	if names["greet"] != model.KindFunction {
		t.Fatalf("expected greet exported as a function, got %+v", pf.Exports)
	}
	if names["Widget"] != model.KindClass {
		t.Fatalf("expected Widget exported as a class, got %+v", pf.Exports)
	}
	if _, ok := names["sayHi"]; !ok {
		t.Fatalf("expected re-exported alias sayHi, got %+v", pf.Exports)
	}
}

func TestParseFileRustImplMethod(t *testing.T) {
	src := []byte(`struct Counter { n: i32 }

impl Counter {
    fn increment(&mut self) {
        self.n += 1;
    }
}
`)
	pf, err := ParseFile(lang.Rust, "counter.rs", "counter.rs", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	if d := findDef(pf.Defs, "increment"); d == nil || d.Receiver != "Counter" {
		t.Fatalf("expected increment to have receiver Counter, got %+v", d)
	}
}

func TestParseFileGoCallbackArgument(t *testing.T) {
	src := []byte(`package main

func onReady() {}

func register(cb func()) {
	cb()
}

func main() {
	register(onReady)
}
`)
	pf, err := ParseFile(lang.Go, "main.go", "main.go", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	var found bool
	for _, ref := range pf.CallbackRefs {
		if ref.Name == "onReady" {
			found = true
			if ref.ContainingDef == nil || ref.ContainingDef.Name != "main" {
				t.Fatalf("expected onReady callback ref to be contained in main, got %+v", ref.ContainingDef)
			}
		}
	}
	if !found {
		t.Fatalf("expected a callback reference to onReady among register's arguments, got %+v", pf.CallbackRefs)
	}

	// register itself must not be misrecorded as a callback reference -- it
	// is the callee of the call expression, not one of its arguments.
	for _, ref := range pf.CallbackRefs {
		if ref.Name == "register" {
			t.Fatalf("callee register must not appear among callback refs, got %+v", pf.CallbackRefs)
		}
	}
}

func TestParseFileGoOccurrences(t *testing.T) {
	src := []byte(`package main

func helper() {}

func main() {
	helper()
}
`)
	pf, err := ParseFile(lang.Go, "main.go", "main.go", src)
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}

	var lines []int
	for _, occ := range pf.Occurrences {
		if occ.Name == "helper" {
			lines = append(lines, occ.Line)
		}
	}
	if len(lines) != 2 {
		t.Fatalf("expected helper to occur at its declaration and its call site, got lines=%v", lines)
	}
}
