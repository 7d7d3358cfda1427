package types

import (
	"fmt"
	"strings"
)

// RecordKind classifies a record as an open tab or a favorite.
type RecordKind string

const (
	KindTab      RecordKind = "tab"
	KindFavorite RecordKind = "favorite"
)

func (k RecordKind) String() string {
	return string(k)
}

// Valid reports whether k is one of the known kinds.
func (k RecordKind) Valid() bool {
	return k == KindTab || k == KindFavorite
}

// ParseRecordKind parses "tab" or "favorite" (case-insensitive).
func ParseRecordKind(s string) (RecordKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "tab", "tabs":
		return KindTab, nil
	case "favorite", "favorites":
		return KindFavorite, nil
	default:
		return "", fmt.Errorf("unknown record kind: %q", s)
	}
}

// DeltaRecord is one tab or favorite node pulled out of a decompressed payload.
type DeltaRecord struct {
	Kind     RecordKind `json:"kind"`
	URL      string     `json:"url"`
	Title    string     `json:"title"`
	NodeType string     `json:"node_type,omitempty"` // Raw discriminant; empty for tab-strip entries
}

// ReconciledEntry is the canonical record for one URL within one workspace file.
type ReconciledEntry struct {
	URL       string     `json:"url"`
	Title     string     `json:"title"`
	Kind      RecordKind `json:"kind"`
	SeenAsTab bool       `json:"seen_as_tab"` // True if any tab record carried this URL
}

// IsFavorite reports whether the entry is classified as a favorite.
func (e ReconciledEntry) IsFavorite() bool {
	return e.Kind == KindFavorite
}

// Mode selects which classifications are written to the report.
type Mode string

const (
	ModeBoth      Mode = "both"
	ModeTabs      Mode = "tabs"
	ModeFavorites Mode = "favorites"
)

// ParseMode parses a mode string. Empty input means ModeBoth.
func ParseMode(s string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "both":
		return ModeBoth, nil
	case "tabs":
		return ModeTabs, nil
	case "favorites":
		return ModeFavorites, nil
	default:
		return "", fmt.Errorf("unknown mode %q (want tabs, favorites or both)", s)
	}
}

// Includes reports whether records of kind k are kept under this mode.
func (m Mode) Includes(k RecordKind) bool {
	switch m {
	case ModeTabs:
		return k == KindTab
	case ModeFavorites:
		return k == KindFavorite
	default:
		return k.Valid()
	}
}
