package ingestion

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Metadata describes a workspace file as it was read from disk
type Metadata struct {
	Path     string `json:"path"`
	Name     string `json:"name"`
	Size     int    `json:"size"`
	Modified string `json:"modified,omitempty"` // RFC3339 format
	Hash     string `json:"hash"`               // SHA256 hex digest of the raw container
}

// NewMetadata describes f. The modification time is read from disk when the
// file still exists.
func NewMetadata(f types.WorkspaceFile) *Metadata {
	m := &Metadata{
		Path: f.Path,
		Name: f.Name,
		Size: len(f.Data),
		Hash: computeHash(f.Data),
	}
	if info, err := os.Stat(f.Path); err == nil {
		m.Modified = info.ModTime().UTC().Format(time.RFC3339)
	}
	return m
}

// computeHash computes SHA256 hash of content and returns hex string
func computeHash(content []byte) string {
	hash := sha256.Sum256(content)
	return hex.EncodeToString(hash[:])
}

// ToJSON marshals Metadata to pretty-printed JSON
func (m *Metadata) ToJSON() ([]byte, error) {
	jsonBytes, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal metadata to JSON: %w", err)
	}
	return jsonBytes, nil
}
