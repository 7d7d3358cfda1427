// Package report writes extraction results as spreadsheets, delimited text,
// JSON or browser-importable bookmark files.
package report

import (
	"os"
	"path/filepath"
	"strings"
)

// Format is an output file format.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatTSV  Format = "tsv"
	FormatJSON Format = "json"
	FormatHTML Format = "html"
)

// Formats lists every supported format in display order.
var Formats = []Format{FormatXLSX, FormatCSV, FormatTSV, FormatJSON, FormatHTML}

// DefaultBaseName is the output file name used when none is given.
const DefaultBaseName = "edge_workspace_links"

func formatList() string {
	names := make([]string, len(Formats))
	for i, f := range Formats {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// String returns the format name.
func (f Format) String() string {
	return string(f)
}

// Ext returns the file extension for f including the leading dot.
func (f Format) Ext() string {
	return "." + string(f)
}

// ParseFormat parses a format name. Case and a leading dot are ignored.
func ParseFormat(s string) (Format, error) {
	name := strings.ToLower(strings.TrimPrefix(strings.TrimSpace(s), "."))
	if name == "htm" {
		name = string(FormatHTML)
	}
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", &FormatError{Value: s}
}

// FormatFromPath infers the format from a file extension.
func FormatFromPath(path string) (Format, bool) {
	ext := filepath.Ext(path)
	if ext == "" {
		return "", false
	}
	f, err := ParseFormat(ext)
	if err != nil {
		return "", false
	}
	return f, true
}

// ResolveOutputPath returns output when set. Otherwise the report goes next
// to the input: inside it when input is a directory, beside it when it is a
// file.
func ResolveOutputPath(input, output string, format Format) string {
	if output != "" {
		return output
	}
	dir := input
	if info, err := os.Stat(input); err != nil || !info.IsDir() {
		dir = filepath.Dir(input)
	}
	return filepath.Join(dir, DefaultBaseName+format.Ext())
}

// CompanionPaths returns the extra files written next to path for formats
// that cannot hold more than one table. For csv and tsv these are the
// summary and per-file tables.
func CompanionPaths(path string, format Format) []string {
	if format != FormatCSV && format != FormatTSV {
		return nil
	}
	ext := filepath.Ext(path)
	base := strings.TrimSuffix(path, ext)
	if ext == "" {
		ext = format.Ext()
	}
	return []string{base + "_summary" + ext, base + "_files" + ext}
}
