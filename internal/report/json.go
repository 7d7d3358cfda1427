package report

import (
	"encoding/json"
	"os"

	reportschemas "github.com/jonathan/edge-workspace-links/schemas"

	"github.com/jonathan/edge-workspace-links/internal/schemas"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

// MarshalJSON renders r as indented JSON and checks it against the report schema.
func MarshalJSON(r *types.Report) ([]byte, error) {
	out := *r
	if out.Rows == nil {
		out.Rows = []types.ReportRow{}
	}
	if out.Files == nil {
		out.Files = []types.FileSummary{}
	}
	if out.Options.ExcludeSchemes == nil {
		out.Options.ExcludeSchemes = []string{}
	}
	if out.Options.Mode == "" {
		out.Options.Mode = types.ModeBoth
	}

	data, err := json.MarshalIndent(out, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := schemas.ValidateBytes(reportschemas.ReportSchema, data); err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

func writeJSON(path string, r *types.Report) error {
	data, err := MarshalJSON(r)
	if err != nil {
		return &WriteError{Path: path, Message: "failed to encode report", Cause: err}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &WriteError{Path: path, Message: "failed to write file", Cause: err}
	}
	return nil
}
