package report

import (
	"encoding/csv"
	"os"
	"strconv"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

func itoa(n int) string {
	return strconv.Itoa(n)
}

func parseCount(s string) (int, error) {
	return strconv.Atoi(s)
}

func writeDelimited(path string, format Format, r *types.Report) error {
	comma := ','
	if format == FormatTSV {
		comma = '\t'
	}

	links := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		links = append(links, linkRecord(row))
	}
	if err := writeTable(path, comma, linkHeader, links); err != nil {
		return err
	}

	metrics := r.Summary.Metrics()
	summary := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		summary = append(summary, []string{m.Metric, itoa(m.Value)})
	}

	files := make([][]string, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, fileRecord(f))
	}

	extra := CompanionPaths(path, format)
	if err := writeTable(extra[0], comma, summaryHeader, summary); err != nil {
		return err
	}
	return writeTable(extra[1], comma, fileHeader, files)
}

func writeTable(path string, comma rune, header []string, records [][]string) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return &WriteError{Path: path, Message: "failed to create file", Cause: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Message: "failed to close file", Cause: cerr}
		}
	}()

	w := csv.NewWriter(f)
	w.Comma = comma
	if err := w.Write(header); err != nil {
		return &WriteError{Path: path, Message: "failed to write header", Cause: err}
	}
	if err := w.WriteAll(records); err != nil {
		return &WriteError{Path: path, Message: "failed to write rows", Cause: err}
	}
	return nil
}
