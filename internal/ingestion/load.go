package ingestion

import (
	"os"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Load reads one workspace file fully into memory.
func Load(path string) (types.WorkspaceFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return types.WorkspaceFile{}, &ReadError{Path: path, Cause: err}
	}
	return types.NewWorkspaceFile(path, data), nil
}
