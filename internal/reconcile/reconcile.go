// Package reconcile merges the delta records of one workspace file into a
// single entry per URL.
package reconcile

import (
	"iter"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Engine accumulates records for one workspace file. It is not safe for
// concurrent use; each file gets its own Engine.
type Engine struct {
	index   map[string]int
	entries []types.ReconciledEntry
}

// NewEngine returns an empty Engine.
func NewEngine() *Engine {
	return &Engine{index: make(map[string]int)}
}

// Add folds one record into the engine.
//
// A new URL is inserted as-is. A favorite entry is never downgraded by a
// later tab. A tab entry is upgraded in place when a favorite for the same URL
// arrives, taking the favorite's title. A record of the same kind leaves the
// existing entry unchanged, so the first title seen wins. Records without a
// URL or with an unknown kind are ignored.
func (e *Engine) Add(r types.DeltaRecord) {
	if r.URL == "" || !r.Kind.Valid() {
		return
	}

	i, ok := e.index[r.URL]
	if !ok {
		e.index[r.URL] = len(e.entries)
		e.entries = append(e.entries, types.ReconciledEntry{
			URL:       r.URL,
			Title:     r.Title,
			Kind:      r.Kind,
			SeenAsTab: r.Kind == types.KindTab,
		})
		return
	}

	cur := &e.entries[i]
	if r.Kind == types.KindTab {
		cur.SeenAsTab = true
	}

	if cur.Kind == types.KindTab && r.Kind == types.KindFavorite {
		cur.Kind = types.KindFavorite
		cur.Title = r.Title
	}
}

// AddAll folds every record of seq into the engine.
func (e *Engine) AddAll(seq iter.Seq[types.DeltaRecord]) {
	for r := range seq {
		e.Add(r)
	}
}

// Len returns the number of distinct URLs seen.
func (e *Engine) Len() int {
	return len(e.entries)
}

// lookup returns the entry for url.
func (e *Engine) lookup(url string) (types.ReconciledEntry, bool) {
	i, ok := e.index[url]
	if !ok {
		return types.ReconciledEntry{}, false
	}
	return e.entries[i], true
}

// Entries returns a copy of the reconciled entries in discovery order.
func (e *Engine) Entries() []types.ReconciledEntry {
	out := make([]types.ReconciledEntry, len(e.entries))
	copy(out, e.entries)
	return out
}
