package graphquery

import (
	"regexp"
	"strconv"
	"strings"
)

// StackFrame is one parsed line of a stack trace, with the best-matching
// indexed file attached if one scored above zero shared path segments.
type StackFrame struct {
	Raw        string
	Function   string
	SourcePath string // the path as it appeared in the trace, unresolved
	Line       int
	MatchedFile string // best-scoring indexed file, "" if none matched
}

// Frame shape patterns, tried in order per line. Named capture groups are
// not used — index positions are fixed per pattern instead, since the
// patterns never share a compiled regexp.
var (
	// Node/V8: "    at fnName (path/to/file.js:12:5)" or "    at path/to/file.js:12:5"
	nodeFrameRe = regexp.MustCompile(`^\s*at\s+(?:(.+?)\s+\()?([^()]+?):(\d+):(\d+)\)?\s*$`)
	// Python: "  File "path/to/file.py", line 12, in fnName"
	pythonFrameRe = regexp.MustCompile(`^\s*File\s+"([^"]+)",\s+line\s+(\d+),\s+in\s+(.+)$`)
	// Java: "    at pkg.Class.method(File.java:12)"
	javaFrameRe = regexp.MustCompile(`^\s*at\s+([\w.$]+)\(([^():]+):(\d+)\)\s*$`)
	// Go: "path/to/file.go:12 +0x1a" or "\tpath/to/file.go:12 +0x1a"
	goFrameRe = regexp.MustCompile(`^\s*([\w./\-]+\.go):(\d+)(?:\s+\+0x[0-9a-f]+)?\s*$`)
)

// ParseStackTrace splits text into lines and parses every recognized
// frame shape (Node, V8, Python, Java, Go); unrecognized lines (headers,
// "..." elision markers, blank lines) are skipped, not returned as
// zero-value frames.
func ParseStackTrace(text string) []StackFrame {
	var frames []StackFrame
	for _, line := range strings.Split(text, "\n") {
		if f, ok := parseFrameLine(line); ok {
			frames = append(frames, f)
		}
	}
	return frames
}

func parseFrameLine(line string) (StackFrame, bool) {
	if m := pythonFrameRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[2])
		return StackFrame{Raw: line, SourcePath: m[1], Line: n, Function: m[3]}, true
	}
	if m := javaFrameRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[3])
		return StackFrame{Raw: line, Function: m[1], SourcePath: m[2], Line: n}, true
	}
	if m := goFrameRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[2])
		return StackFrame{Raw: line, SourcePath: m[1], Line: n}, true
	}
	if m := nodeFrameRe.FindStringSubmatch(line); m != nil {
		n, _ := strconv.Atoi(m[3])
		return StackFrame{Raw: line, Function: strings.TrimSpace(m[1]), SourcePath: m[2], Line: n}, true
	}
	return StackFrame{}, false
}

// Stacktrace parses text and resolves each frame's SourcePath against
// every indexed file by longest-common-suffix path-segment scoring.
func (e *Engine) Stacktrace(text string) []StackFrame {
	frames := ParseStackTrace(text)
	if len(frames) == 0 {
		return frames
	}

	files := make([]string, 0, len(e.idx.Files))
	for relPath := range e.idx.Files {
		files = append(files, relPath)
	}

	for i := range frames {
		frames[i].MatchedFile = bestSuffixMatch(frames[i].SourcePath, files)
	}
	return frames
}

// bestSuffixMatch scores every candidate by the number of trailing
// path segments ("/"-split) it shares with path, and returns the
// highest-scoring candidate; ties keep the first candidate encountered
// in files' iteration order. A score of 0 (no shared segment, not even
// the file name) is not a match.
func bestSuffixMatch(path string, files []string) string {
	pathSegs := splitPath(path)
	if len(pathSegs) == 0 {
		return ""
	}

	best, bestScore := "", 0
	for _, f := range files {
		score := commonSuffixLen(pathSegs, splitPath(f))
		if score > bestScore {
			bestScore = score
			best = f
		}
	}
	return best
}

func splitPath(p string) []string {
	p = strings.ReplaceAll(p, "\\", "/")
	var segs []string
	for _, s := range strings.Split(p, "/") {
		if s != "" {
			segs = append(segs, s)
		}
	}
	return segs
}

func commonSuffixLen(a, b []string) int {
	n := 0
	for i, j := len(a)-1, len(b)-1; i >= 0 && j >= 0; i, j = i-1, j-1 {
		if a[i] != b[j] {
			break
		}
		n++
	}
	return n
}
