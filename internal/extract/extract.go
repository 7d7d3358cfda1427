// Package extract walks decompressed workspace payloads and pulls out tab and
// favorite records.
package extract

import (
	"iter"
	"strconv"
	"strings"

	"github.com/jonathan/edge-workspace-links/internal/jsonvalue"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Node type discriminants. Inside a favorites subtree the value 1 marks a URL
// bookmark (folders use 0); outside it, 1 marks an open tab.
const (
	NodeTypeFolder   int64 = 0
	NodeTypeTab      int64 = 1
	NodeTypeURL      int64 = 1
	NodeTypeFavorite int64 = 2
)

const (
	favoritesKey = "favorites"

	// maxEmbeddedDepth bounds how many JSON-in-a-string layers are decoded.
	maxEmbeddedDepth = 8
)

// urlKeys lists the navigation entry fields that may carry the page URL, in
// order of preference.
var urlKeys = []string{"virtualUrl", "originalRequestUrl", "url"}

// Records returns every record found in payload, in document order. A
// payload without decodable JSON yields nil.
func Records(payload []byte) []types.DeltaRecord {
	var out []types.DeltaRecord
	for r := range Walk(payload) {
		out = append(out, r)
	}
	return out
}

// Walk lazily yields the records in payload. Every JSON document embedded in
// the payload is visited in turn.
func Walk(payload []byte) iter.Seq[types.DeltaRecord] {
	return func(yield func(types.DeltaRecord) bool) {
		for doc := range jsonvalue.ParseStream(payload) {
			for r := range FromValue(doc) {
				if !yield(r) {
					return
				}
			}
		}
	}
}

// FromValue yields the records found under an already parsed tree.
func FromValue(v *jsonvalue.Value) iter.Seq[types.DeltaRecord] {
	return func(yield func(types.DeltaRecord) bool) {
		w := walker{yield: yield}
		w.walk(v, false, 0)
	}
}

// Classify maps a node type to a record kind given whether the node sits
// under a favorites subtree.
func Classify(nodeType int64, inFavorites bool) (types.RecordKind, bool) {
	if inFavorites {
		if nodeType == NodeTypeURL || nodeType == NodeTypeFavorite {
			return types.KindFavorite, true
		}
		return "", false
	}
	switch nodeType {
	case NodeTypeTab:
		return types.KindTab, true
	case NodeTypeFavorite:
		return types.KindFavorite, true
	default:
		return "", false
	}
}

type walker struct {
	yield func(types.DeltaRecord) bool
}

// walk returns false once the consumer has stopped.
func (w *walker) walk(v *jsonvalue.Value, inFavorites bool, embedded int) bool {
	if v == nil {
		return true
	}

	switch v.Kind {
	case jsonvalue.Object:
		if rec, ok := tabFromDirectory(v); ok {
			if rec.URL == "" {
				return true
			}
			return w.yield(rec)
		}
		if rec, ok := nodeRecord(v, inFavorites); ok {
			if !w.yield(rec) {
				return false
			}
		}
		for _, m := range v.Members {
			if !w.walk(m.Value, inFavorites || m.Name == favoritesKey, embedded) {
				return false
			}
		}

	case jsonvalue.Array:
		for _, item := range v.Items {
			if !w.walk(item, inFavorites, embedded) {
				return false
			}
		}

	case jsonvalue.String:
		if embedded >= maxEmbeddedDepth {
			return true
		}
		s := strings.TrimSpace(v.Str)
		if !strings.HasPrefix(s, "{") && !strings.HasPrefix(s, "[") {
			return true
		}
		nested, err := jsonvalue.Parse([]byte(s))
		if err != nil {
			return true
		}
		return w.walk(nested, inFavorites, embedded+1)
	}

	return true
}

// nodeRecord matches an object carrying a nodeType discriminant and a URL.
func nodeRecord(v *jsonvalue.Value, inFavorites bool) (types.DeltaRecord, bool) {
	nt := v.Get("nodeType")
	if nt == nil {
		return types.DeltaRecord{}, false
	}
	code, ok := nt.AsInt()
	if !ok {
		return types.DeltaRecord{}, false
	}
	kind, ok := Classify(code, inFavorites)
	if !ok {
		return types.DeltaRecord{}, false
	}
	url, _ := v.Get("url").AsString()
	if url == "" {
		return types.DeltaRecord{}, false
	}
	title, _ := v.Get("title").AsString()

	return types.DeltaRecord{
		Kind:     kind,
		URL:      url,
		Title:    title,
		NodeType: nt.Scalar(),
	}, true
}

// tabFromDirectory matches a tab-strip web contents directory: a storage map
// with currentNavigationIndex next to a non-empty navigation stack. The second
// result reports whether v had that shape; the record URL is empty when the
// current entry carried no usable URL.
func tabFromDirectory(v *jsonvalue.Value) (types.DeltaRecord, bool) {
	current := v.Path("storage", "currentNavigationIndex").Unwrap()
	if current == nil || current.Kind == jsonvalue.Null {
		return types.DeltaRecord{}, false
	}
	stack := v.Path("subdirectories", "navigationStack", "subdirectories")
	if !stack.IsObject() || len(stack.Members) == 0 {
		return types.DeltaRecord{}, false
	}

	entry := stack.Get(indexKey(current))
	if !entry.IsObject() || len(entry.Members) == 0 {
		entry = highestNumericEntry(stack)
	}
	if entry == nil {
		return types.DeltaRecord{Kind: types.KindTab}, true
	}

	storage := entry.Get("storage")
	rec := types.DeltaRecord{Kind: types.KindTab}
	for _, key := range urlKeys {
		if s, ok := storage.Get(key).AsString(); ok && s != "" {
			rec.URL = s
			break
		}
	}
	rec.Title, _ = storage.Get("title").AsString()
	return rec, true
}

func indexKey(v *jsonvalue.Value) string {
	if n, ok := v.AsInt(); ok {
		return strconv.FormatInt(n, 10)
	}
	return v.Scalar()
}

func highestNumericEntry(stack *jsonvalue.Value) *jsonvalue.Value {
	best := int64(-1)
	var entry *jsonvalue.Value
	for _, m := range stack.Members {
		if m.Name == "" || strings.Trim(m.Name, "0123456789") != "" {
			continue
		}
		n, err := strconv.ParseInt(m.Name, 10, 64)
		if err != nil || n < best {
			continue
		}
		best = n
		entry = m.Value
	}
	if !entry.IsObject() || len(entry.Members) == 0 {
		return nil
	}
	return entry
}
