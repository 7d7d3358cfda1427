package db

import (
	"time"

	"github.com/google/uuid"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Run represents a stored extraction run
type Run struct {
	ID              uuid.UUID     `json:"id"`
	Input           string        `json:"input"`
	Mode            string        `json:"mode"`
	ExcludeInternal bool          `json:"exclude_internal"`
	ExcludeSchemes  []string      `json:"exclude_schemes"`
	Sorted          bool          `json:"sorted"`
	GeneratedAt     time.Time     `json:"generated_at"`
	Summary         types.Summary `json:"summary"`
	CreatedAt       time.Time     `json:"created_at"`
}
