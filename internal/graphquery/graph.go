// Package graphquery answers the project's structural queries: bounded
// import-graph walks, straight edge-table reads, typedef filtering, test
// discovery, and stack-trace-to-file resolution. It never mutates the
// index it is bound to.
package graphquery

import (
	"sort"

	"github.com/RoaringBitmap/roaring/v2"
	"gonum.org/v1/gonum/graph/simple"

	"github.com/polyidx/polyidx/internal/index"
	"github.com/polyidx/polyidx/internal/model"
)

// Engine answers graph and lookup queries against a built Index.
type Engine struct {
	idx *index.Index
}

// New returns an Engine over idx.
func New(idx *index.Index) *Engine {
	return &Engine{idx: idx}
}

// Direction selects which way Graph walks the import graph from its root.
type Direction string

const (
	// Imports walks root -> the files it imports.
	Imports Direction = "imports"
	// Importers walks root -> the files that import it.
	Importers Direction = "importers"
)

// Edge is one traversed step of a Result.
type Edge struct {
	From string
	To   string
}

// Result is the bounded, cycle-safe view of the import graph rooted at
// one file.
type Result struct {
	Root  string
	Nodes []string
	Edges []Edge
}

// importGraph is the project's import graph as a gonum DirectedGraph, one
// node per indexed file, one edge per ImportEdge that resolved internally.
type importGraph struct {
	g      *simple.DirectedGraph
	idOf   map[string]int64
	fileOf map[int64]string
}

func (e *Engine) buildImportGraph() *importGraph {
	ig := &importGraph{
		g:      simple.NewDirectedGraph(),
		idOf:   make(map[string]int64),
		fileOf: make(map[int64]string),
	}

	nodeID := func(file string) int64 {
		if id, ok := ig.idOf[file]; ok {
			return id
		}
		id := int64(len(ig.idOf))
		ig.idOf[file] = id
		ig.fileOf[id] = file
		ig.g.AddNode(simple.Node(id))
		return id
	}

	for file := range e.idx.Files {
		nodeID(file)
	}
	for _, imp := range e.idx.Imports {
		if imp.ResolvedFile == "" {
			continue
		}
		from := nodeID(imp.ImportingFile)
		to := nodeID(imp.ResolvedFile)
		if !ig.g.HasEdgeFromTo(from, to) {
			ig.g.SetEdge(simple.Edge{F: simple.Node(from), T: simple.Node(to)})
		}
	}
	return ig
}

// Graph performs a bounded, cycle-safe walk of the import graph starting
// at file, in the requested direction, down to maxDepth edges. A negative
// maxDepth clamps to 0 (root only, no edges). Visited nodes are tracked
// in a roaring bitmap keyed by the graph's dense per-query node ids,
// rather than a map[int64]bool — cheap to test and union at the node
// counts a real project reaches.
//
// traverse.DepthFirst is not used here: its Walk/WalkAll only support a
// global stop predicate, not a per-branch depth bound, so the walk is
// hand-written directly over the DirectedGraph's From/To iterators.
func (e *Engine) Graph(file string, direction Direction, maxDepth int) *Result {
	if maxDepth < 0 {
		maxDepth = 0
	}

	ig := e.buildImportGraph()
	res := &Result{Root: file}

	rootID, ok := ig.idOf[file]
	if !ok {
		return res
	}

	visitedNodes := roaring.New()
	visitedNodes.Add(uint32(rootID))
	visitedEdges := make(map[Edge]bool)
	nodeSet := map[string]bool{file: true}

	var walk func(id int64, depth int)
	walk = func(id int64, depth int) {
		if depth >= maxDepth {
			return
		}
		neighbors := ig.g.From(id)
		if direction == Importers {
			neighbors = ig.g.To(id)
		}
		for neighbors.Next() {
			nid := neighbors.Node().ID()

			edge := Edge{From: ig.fileOf[id], To: ig.fileOf[nid]}
			if direction == Importers {
				edge = Edge{From: ig.fileOf[nid], To: ig.fileOf[id]}
			}
			if !visitedEdges[edge] {
				visitedEdges[edge] = true
				res.Edges = append(res.Edges, edge)
			}

			if visitedNodes.Contains(uint32(nid)) {
				continue
			}
			visitedNodes.Add(uint32(nid))
			nodeSet[ig.fileOf[nid]] = true
			walk(nid, depth+1)
		}
	}
	walk(rootID, 0)

	res.Nodes = make([]string, 0, len(nodeSet))
	for f := range nodeSet {
		res.Nodes = append(res.Nodes, f)
	}
	sort.Strings(res.Nodes)
	return res
}

// ProjectImports returns every ImportEdge recorded for file.
func (e *Engine) ProjectImports(file string) []model.ImportEdge {
	var out []model.ImportEdge
	for _, imp := range e.idx.Imports {
		if imp.ImportingFile == file {
			out = append(out, imp)
		}
	}
	return out
}

// Exporters returns every file that imports file, i.e. the files for which
// file is (at least in part) a dependency.
func (e *Engine) Exporters(file string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, imp := range e.idx.Imports {
		if imp.ResolvedFile != file {
			continue
		}
		if seen[imp.ImportingFile] {
			continue
		}
		seen[imp.ImportingFile] = true
		out = append(out, imp.ImportingFile)
	}
	sort.Strings(out)
	return out
}

// FileExports returns every name file declares as exported.
func (e *Engine) FileExports(file string) []model.ExportRecord {
	var out []model.ExportRecord
	for _, rec := range e.idx.Exports {
		if rec.File == file {
			out = append(out, rec)
		}
	}
	return out
}
