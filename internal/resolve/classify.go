package resolve

import (
	"os"
	"path/filepath"

	"github.com/polyidx/polyidx/internal/classify"
	"github.com/polyidx/polyidx/internal/lang"
)

// Classify returns the syntactic role name plays at (file, line):
// definition, call, import, or reference (spec.md §4.D). file is relative
// to the indexed project root. Source is read fresh from disk when the
// index's cached copy was dropped after a fast/medium-path cache restore.
func (e *Engine) Classify(file string, line int, name string) (classify.Usage, bool) {
	pf, ok := e.idx.File(file)
	if !ok {
		return "", false
	}
	source := pf.Source
	if len(source) == 0 {
		data, err := os.ReadFile(filepath.Join(e.idx.Root, file))
		if err != nil {
			return "", false
		}
		source = data
	}
	return classify.ClassifyUsage(lang.Language(pf.Language), source, line, name), true
}
