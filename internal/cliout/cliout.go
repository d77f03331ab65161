// Package cliout renders query results for the command-line surface:
// a tablewriter table in human mode, a color-coded status line for
// warnings/errors, or plain encoding/json when --json is set.
package cliout

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// Printer writes query results to w, either as a human-readable table or
// as JSON depending on JSON.
type Printer struct {
	w       io.Writer
	JSON    bool
	Colored bool
}

// New returns a Printer bound to w.
func New(w io.Writer, jsonOutput, colored bool) *Printer {
	return &Printer{w: w, JSON: jsonOutput, Colored: colored}
}

// Table renders rows under headers, or encodes data as JSON when p.JSON.
// data is what --json mode serializes; it should be the structured result
// the rows were derived from, not the row strings themselves.
func (p *Printer) Table(title string, headers []string, rows [][]string, data any) error {
	if p.JSON {
		return p.writeJSON(data)
	}

	if title != "" {
		if p.Colored {
			color.New(color.Bold).Fprintln(p.w, title)
		} else {
			fmt.Fprintln(p.w, title)
		}
	}

	table := tablewriter.NewTable(p.w,
		tablewriter.WithConfig(tablewriter.Config{
			Header: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
			Row: tw.CellConfig{
				Alignment: tw.CellAlignment{Global: tw.AlignLeft},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.Border{Left: tw.Off, Right: tw.Off, Top: tw.Off, Bottom: tw.Off},
			Settings: tw.Settings{
				Separators: tw.Separators{BetweenColumns: tw.Off},
			},
		}),
	)
	table.Header(headers)
	for _, row := range rows {
		table.Append(row)
	}
	return table.Render()
}

// writeJSON encodes data with indentation; never used for human tables.
func (p *Printer) writeJSON(data any) error {
	enc := json.NewEncoder(p.w)
	enc.SetIndent("", "  ")
	return enc.Encode(data)
}

// JSON always encodes data as JSON regardless of p.JSON, for result kinds
// (e.g. a single definition, a trace tree) that have no tabular form.
func (p *Printer) JSONAlways(data any) error {
	return p.writeJSON(data)
}

// Warning prints a yellow warning line, or nothing special in JSON mode
// (the caller attaches warnings to the structured payload instead).
func (p *Printer) Warning(format string, args ...any) {
	if p.JSON {
		return
	}
	if p.Colored {
		color.New(color.FgYellow).Fprintf(p.w, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.w, "warning: "+format+"\n", args...)
}

// Error prints a red error line to p.w.
func (p *Printer) Error(format string, args ...any) {
	if p.JSON {
		return
	}
	if p.Colored {
		color.New(color.FgRed).Fprintf(p.w, format+"\n", args...)
		return
	}
	fmt.Fprintf(p.w, "error: "+format+"\n", args...)
}
