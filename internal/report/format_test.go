package report

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input     string
		want      Format
		expectErr bool
	}{
		{"xlsx", FormatXLSX, false},
		{"CSV", FormatCSV, false},
		{".tsv", FormatTSV, false},
		{" json ", FormatJSON, false},
		{"htm", FormatHTML, false},
		{"html", FormatHTML, false},
		{"pdf", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.expectErr {
				require.Error(t, err)
				var formatErr *FormatError
				assert.ErrorAs(t, err, &formatErr)
				assert.Contains(t, err.Error(), "xlsx, csv, tsv, json, html")
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatFromPath(t *testing.T) {
	tests := []struct {
		path string
		want Format
		ok   bool
	}{
		{"out/links.xlsx", FormatXLSX, true},
		{"links.CSV", FormatCSV, true},
		{"links.bookmarks.html", FormatHTML, true},
		{"links", "", false},
		{"links.txt", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			got, ok := FormatFromPath(tt.path)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestResolveOutputPath(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "work.edge")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	tests := []struct {
		name   string
		input  string
		output string
		format Format
		want   string
	}{
		{"explicit output wins", dir, "custom.csv", FormatXLSX, "custom.csv"},
		{"directory input", dir, "", FormatXLSX, filepath.Join(dir, "edge_workspace_links.xlsx")},
		{"file input", file, "", FormatJSON, filepath.Join(dir, "edge_workspace_links.json")},
		{"missing input", filepath.Join(dir, "gone", "x.edge"), "", FormatCSV, filepath.Join(dir, "gone", "edge_workspace_links.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveOutputPath(tt.input, tt.output, tt.format))
		})
	}
}

func TestCompanionPaths(t *testing.T) {
	assert.Equal(t,
		[]string{"out/links_summary.csv", "out/links_files.csv"},
		CompanionPaths("out/links.csv", FormatCSV))
	assert.Equal(t,
		[]string{"links_summary.tsv", "links_files.tsv"},
		CompanionPaths("links", FormatTSV))
	assert.Nil(t, CompanionPaths("links.xlsx", FormatXLSX))
}
