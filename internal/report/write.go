package report

import (
	"os"
	"path/filepath"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Column headers shared by every tabular format.
var (
	linkHeader    = []string{"workspace_file", "source", "url", "title"}
	summaryHeader = []string{"metric", "value"}
	fileHeader    = []string{"workspace_file", "open_tab_count", "favorite_count", "links_written", "gzip_members", "error"}
)

// Write writes r to path in the given format. Parent directories are created
// as needed. For csv and tsv the summary tables go to CompanionPaths.
func Write(path string, format Format, r *types.Report) error {
	if r == nil {
		return &WriteError{Path: path, Message: "no report to write"}
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &WriteError{Path: path, Message: "failed to create output directory", Cause: err}
		}
	}

	switch format {
	case FormatXLSX:
		return writeXLSX(path, r)
	case FormatCSV, FormatTSV:
		return writeDelimited(path, format, r)
	case FormatJSON:
		return writeJSON(path, r)
	case FormatHTML:
		return writeHTML(path, r)
	default:
		return &FormatError{Value: string(format)}
	}
}

func linkRecord(row types.ReportRow) []string {
	return []string{row.WorkspaceFile, row.Source.String(), row.URL, row.Title}
}

func fileRecord(f types.FileSummary) []string {
	return []string{
		f.WorkspaceFile,
		itoa(f.OpenTabCount),
		itoa(f.FavoriteCount),
		itoa(f.LinksWritten),
		itoa(f.MemberCount),
		f.Err,
	}
}
