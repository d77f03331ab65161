package cliout

import (
	"fmt"

	"github.com/polyidx/polyidx/internal/model"
)

// Symbols renders a list of SymbolDefs as a file/line/kind/name table.
func (p *Printer) Symbols(title string, defs []model.SymbolDef) error {
	headers := []string{"Name", "Kind", "File", "Line"}
	rows := make([][]string, len(defs))
	for i, d := range defs {
		rows[i] = []string{d.Name, string(d.Kind), d.File, fmt.Sprintf("%d", d.StartLine)}
	}
	return p.Table(title, headers, rows, defs)
}

// CallSites renders a list of call sites as a file/line/receiver table.
func (p *Printer) CallSites(title string, calls []model.CallSite) error {
	headers := []string{"Name", "Receiver", "File", "Line"}
	rows := make([][]string, len(calls))
	for i, c := range calls {
		rows[i] = []string{c.Name, c.Receiver, c.File, fmt.Sprintf("%d", c.Line)}
	}
	return p.Table(title, headers, rows, calls)
}
