package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/polyidx/polyidx/internal/cliout"
	"github.com/polyidx/polyidx/internal/graphquery"
	"github.com/polyidx/polyidx/internal/model"
	"github.com/polyidx/polyidx/internal/resolve"
	"github.com/polyidx/polyidx/internal/server"
)

// typeLikeKinds mirrors graphquery's type-declaration set, for the
// --with-types presentation filter.
var typeLikeKinds = map[model.Kind]bool{
	model.KindClass:     true,
	model.KindStruct:    true,
	model.KindInterface: true,
	model.KindTrait:     true,
	model.KindImpl:      true,
	model.KindEnum:      true,
	model.KindTypeAlias: true,
}

// runQuery dispatches command against srv and writes the rendered result
// to w. Returns the process exit code.
func runQuery(srv *server.Server, command string, rest []string, f flags, w io.Writer) int {
	p := cliout.New(w, f.json, !f.json)

	switch command {
	case "find":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: find requires a name")
			return 1
		}
		defs := srv.FindByName(name, f.exact)
		defs = filterDefs(defs, f)
		defs = capResults(defs, f.top)
		return renderDefs(p, "find", defs, f, srv.Index().Root)

	case "usages":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: usages requires a name")
			return 1
		}
		callers := srv.Resolve().FindCallers(name, f.includeMethods)
		callers = filterDefs(callers, f)
		callers = capResults(callers, f.top)
		return renderDefs(p, "usages", callers, f, srv.Index().Root)

	case "context":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: context requires a name")
			return 1
		}
		c, ok := srv.Resolve().GetContext(name)
		if !ok {
			return emptyResult(p)
		}
		return renderContext(p, c)

	case "smart":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: smart requires a name")
			return 1
		}
		c, ok := srv.Resolve().Smart(name)
		if !ok {
			return emptyResult(p)
		}
		return renderContext(p, c)

	case "trace":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: trace requires a name")
			return 1
		}
		node, ok := srv.Resolve().Trace(name, f.depth)
		if !ok {
			return emptyResult(p)
		}
		return renderTrace(p, node)

	case "impact":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: impact requires a name")
			return 1
		}
		defs, ok := srv.Resolve().Impact(name)
		if !ok {
			return emptyResult(p)
		}
		defs = filterDefs(defs, f)
		return renderDefs(p, "impact", defs, f, srv.Index().Root)

	case "deadcode":
		dead := srv.Resolve().DeadCode(resolve.DeadCodeOptions{
			IncludeExported: true,
			IncludeTests:    f.includeTests,
		})
		dead = filterDefs(dead, f)
		return renderDefs(p, "deadcode", dead, f, srv.Index().Root)

	case "verify":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: verify requires a name")
			return 1
		}
		issues := srv.Resolve().Verify(name)
		return renderVerify(p, issues)

	case "resolve_symbol":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: resolve_symbol requires a name")
			return 1
		}
		res := srv.Resolve().ResolveSymbol(name)
		for _, warn := range res.Warnings {
			p.Warning("%s", warn)
		}
		if res.Def == nil {
			return emptyResult(p)
		}
		return jsonOrTable(p, "resolve_symbol", res)

	case "graph":
		file := arg(rest, 0)
		if file == "" {
			fmt.Fprintln(os.Stderr, "error: graph requires a file")
			return 1
		}
		direction := graphquery.Imports
		if len(rest) > 1 && rest[1] == "importers" {
			direction = graphquery.Importers
		}
		res := srv.Graph().Graph(file, direction, f.depth)
		return jsonOrTable(p, "graph", res)

	case "imports":
		file := arg(rest, 0)
		if file == "" {
			fmt.Fprintln(os.Stderr, "error: imports requires a file")
			return 1
		}
		edges := srv.Graph().ProjectImports(file)
		return jsonOrTable(p, "imports", edges)

	case "exporters":
		file := arg(rest, 0)
		if file == "" {
			fmt.Fprintln(os.Stderr, "error: exporters requires a file")
			return 1
		}
		files := srv.Graph().Exporters(file)
		return jsonOrTable(p, "exporters", files)

	case "typedef":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: typedef requires a name")
			return 1
		}
		defs := srv.Graph().Typedef(name)
		defs = filterDefs(defs, f)
		return renderDefs(p, "typedef", defs, f, srv.Index().Root)

	case "tests_for":
		name := arg(rest, 0)
		if name == "" {
			fmt.Fprintln(os.Stderr, "error: tests_for requires a name")
			return 1
		}
		cases := srv.Graph().Tests(name)
		return jsonOrTable(p, "tests_for", cases)

	case "classify":
		file := arg(rest, 0)
		name := arg(rest, 1)
		if file == "" || name == "" || f.line == 0 {
			fmt.Fprintln(os.Stderr, "error: classify requires a file, a name, and --line")
			return 1
		}
		usage, ok := srv.Resolve().Classify(file, f.line, name)
		if !ok {
			return emptyResult(p)
		}
		return jsonOrTable(p, "classify", map[string]any{"usage": usage})

	case "stacktrace":
		text := strings.Join(rest, " ")
		if text == "" {
			text = readStdin()
		}
		if text == "" {
			fmt.Fprintln(os.Stderr, "error: stacktrace requires text (argument or stdin)")
			return 1
		}
		frames := srv.Graph().Stacktrace(text)
		return jsonOrTable(p, "stacktrace", frames)

	default:
		fmt.Fprintf(os.Stderr, "error: unknown command %q\n", command)
		usage()
		return 1
	}
}

func emptyResult(p *cliout.Printer) int {
	if p.JSON {
		p.JSONAlways(map[string]any{"found": false})
		return 0
	}
	fmt.Fprintln(os.Stdout, "no results")
	return 0
}

// jsonOrTable prints data as JSON (always, since no bespoke table exists
// for this result shape) regardless of p.JSON -- stacktrace frames, import
// edges, and graph walks don't have a natural row/column form.
func jsonOrTable(p *cliout.Printer, title string, data any) int {
	if err := p.JSONAlways(data); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

func renderDefs(p *cliout.Printer, title string, defs []model.SymbolDef, f flags, root string) int {
	if f.expand {
		return renderExpanded(p, defs, root)
	}
	if err := p.Symbols(title, defs); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		return 1
	}
	return 0
}

// expandedDef is a SymbolDef plus its source text, printed only when
// --expand is set -- the def's own table has no room for a source body.
type expandedDef struct {
	model.SymbolDef
	Source string
}

func renderExpanded(p *cliout.Printer, defs []model.SymbolDef, root string) int {
	out := make([]expandedDef, len(defs))
	for i, d := range defs {
		out[i] = expandedDef{SymbolDef: d, Source: readLines(filepath.Join(root, d.File), d.StartLine, d.EndLine)}
	}
	if p.JSON {
		p.JSONAlways(out)
		return 0
	}
	for _, d := range out {
		fmt.Fprintf(os.Stdout, "[%s] %s  (%s:%d-%d)\n", d.Kind, d.Name, d.File, d.StartLine, d.EndLine)
		fmt.Fprintln(os.Stdout, d.Source)
		fmt.Fprintln(os.Stdout)
	}
	return 0
}

func readLines(path string, start, end int) string {
	file, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer file.Close()

	var b strings.Builder
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		if line < start {
			continue
		}
		if line > end {
			break
		}
		b.WriteString(scanner.Text())
		b.WriteByte('\n')
	}
	return b.String()
}

// filterDefs narrows defs by the --file/--in/--exclude presentation
// filters and, when set, --with-types (type declarations only) and
// --code-only (excludes synthesized test-framework callbacks).
func filterDefs(defs []model.SymbolDef, f flags) []model.SymbolDef {
	if f.file == "" && f.in == "" && f.exclude == "" && !f.withTypes && !f.codeOnly {
		return defs
	}
	var out []model.SymbolDef
	for _, d := range defs {
		if f.file != "" {
			if ok, _ := filepath.Match(f.file, filepath.Base(d.File)); !ok {
				continue
			}
		}
		if f.in != "" && !strings.HasPrefix(d.File, f.in) {
			continue
		}
		if f.exclude != "" {
			if ok, _ := filepath.Match(f.exclude, filepath.Base(d.File)); ok {
				continue
			}
		}
		if f.withTypes && !typeLikeKinds[d.Kind] {
			continue
		}
		if f.codeOnly && isTestTagged(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

func isTestTagged(d model.SymbolDef) bool {
	for _, m := range d.Modifiers {
		if strings.EqualFold(m, "test") {
			return true
		}
	}
	return false
}

func capResults(defs []model.SymbolDef, top int) []model.SymbolDef {
	if top > 0 && len(defs) > top {
		return defs[:top]
	}
	return defs
}

func renderContext(p *cliout.Printer, c *resolve.Context) int {
	if p.JSON {
		p.JSONAlways(c)
		return 0
	}
	fmt.Fprintf(os.Stdout, "[%s] %s  (%s:%d)\n", c.Def.Kind, c.Def.Name, c.Def.File, c.Def.StartLine)
	if c.Methods != nil {
		p.Symbols("Methods", c.Methods)
		return 0
	}
	p.Symbols("Callers", c.Callers)
	p.Symbols("Callees", c.Callees)
	return 0
}

func renderTrace(p *cliout.Printer, node *resolve.TraceNode) int {
	if p.JSON {
		p.JSONAlways(node)
		return 0
	}
	printTraceNode(node, 0)
	return 0
}

func printTraceNode(node *resolve.TraceNode, indent int) {
	fmt.Fprintf(os.Stdout, "%s%s (%s:%d)\n", strings.Repeat("  ", indent), node.Def.Name, node.Def.File, node.Def.StartLine)
	for i := range node.Children {
		printTraceNode(&node.Children[i], indent+1)
	}
}

func renderVerify(p *cliout.Printer, issues []resolve.VerifyIssue) int {
	if p.JSON {
		p.JSONAlways(issues)
		return 0
	}
	if len(issues) == 0 {
		fmt.Fprintln(os.Stdout, "no arity mismatches")
		return 0
	}
	for _, iss := range issues {
		fmt.Fprintf(os.Stdout, "%s:%d  %s called with %d arg(s), declared %d\n",
			iss.Call.File, iss.Call.Line, iss.Def.Name, iss.Given, iss.Declared)
	}
	return 0
}
