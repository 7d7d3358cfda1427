package report

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/jonathan/edge-workspace-links/internal/filter"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Sheet names of the xlsx report.
const (
	SheetLinks   = "Links"
	SheetSummary = "Summary Report"
	SheetFiles   = "Per File Report"
)

const (
	maxColumnWidth = 80
	// Excel limits on hyperlinks per worksheet and hyperlink length.
	maxHyperlinks      = 65530
	maxHyperlinkLength = 2079
)

func writeXLSX(path string, r *types.Report) (err error) {
	f := excelize.NewFile()
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &WriteError{Path: path, Message: "failed to close workbook", Cause: cerr}
		}
	}()

	fail := func(msg string, cause error) error {
		return &WriteError{Path: path, Message: msg, Cause: cause}
	}

	if err := f.SetSheetName("Sheet1", SheetLinks); err != nil {
		return fail("failed to rename sheet", err)
	}
	for _, name := range []string{SheetSummary, SheetFiles} {
		if _, err := f.NewSheet(name); err != nil {
			return fail("failed to add sheet "+name, err)
		}
	}

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fail("failed to create header style", err)
	}
	linkStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "0563C1", Underline: "single"}})
	if err != nil {
		return fail("failed to create link style", err)
	}

	links := make([][]string, 0, len(r.Rows))
	for _, row := range r.Rows {
		links = append(links, linkRecord(row))
	}
	if err := writeSheet(f, SheetLinks, headerStyle, linkHeader, links); err != nil {
		return fail("failed to write links sheet", err)
	}
	if err := addHyperlinks(f, linkStyle, r.Rows); err != nil {
		return fail("failed to add hyperlinks", err)
	}

	metrics := r.Summary.Metrics()
	summary := make([][]string, 0, len(metrics))
	for _, m := range metrics {
		summary = append(summary, []string{m.Metric, itoa(m.Value)})
	}
	if err := writeSheet(f, SheetSummary, headerStyle, summaryHeader, summary); err != nil {
		return fail("failed to write summary sheet", err)
	}

	files := make([][]string, 0, len(r.Files))
	for _, fs := range r.Files {
		files = append(files, fileRecord(fs))
	}
	if err := writeSheet(f, SheetFiles, headerStyle, fileHeader, files); err != nil {
		return fail("failed to write per file sheet", err)
	}

	f.SetActiveSheet(0)
	if err := f.SaveAs(path); err != nil {
		return fail("failed to save workbook", err)
	}
	return nil
}

// writeSheet writes a header and records, then freezes the header row, adds
// an auto-filter and sizes each column to its longest value.
func writeSheet(f *excelize.File, sheet string, headerStyle int, header []string, records [][]string) error {
	widths := make([]int, len(header))
	measure := func(values []string) {
		for i, v := range values {
			if i < len(widths) {
				widths[i] = max(widths[i], utf8.RuneCountInString(v))
			}
		}
	}

	if err := f.SetSheetRow(sheet, "A1", toRow(header, nil)); err != nil {
		return err
	}
	measure(header)

	for i, rec := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, toRow(rec, header)); err != nil {
			return err
		}
		measure(rec)
	}

	lastCol, err := excelize.ColumnNumberToName(len(header))
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "A1", lastCol+"1", headerStyle); err != nil {
		return err
	}
	if err := f.SetPanes(sheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return err
	}
	ref := fmt.Sprintf("A1:%s%d", lastCol, len(records)+1)
	if err := f.AutoFilter(sheet, ref, nil); err != nil {
		return err
	}

	for i, w := range widths {
		col, err := excelize.ColumnNumberToName(i + 1)
		if err != nil {
			return err
		}
		if err := f.SetColWidth(sheet, col, col, float64(min(w+2, maxColumnWidth))); err != nil {
			return err
		}
	}
	return nil
}

// toRow converts string cells for SetSheetRow. Count columns are written as
// numbers so spreadsheet formulas work on them.
func toRow(values, header []string) *[]any {
	row := make([]any, len(values))
	for i, v := range values {
		row[i] = v
		if header != nil && isCountColumn(header, i) {
			if n, err := parseCount(v); err == nil {
				row[i] = n
			}
		}
	}
	return &row
}

func isCountColumn(header []string, i int) bool {
	if i >= len(header) {
		return false
	}
	switch header[i] {
	case "value", "open_tab_count", "favorite_count", "links_written", "gzip_members":
		return true
	}
	return false
}

// addHyperlinks links the url column of web rows on the Links sheet.
func addHyperlinks(f *excelize.File, style int, rows []types.ReportRow) error {
	added := 0
	for i, row := range rows {
		if added >= maxHyperlinks {
			break
		}
		if len(row.URL) > maxHyperlinkLength {
			continue
		}
		switch filter.Scheme(row.URL) {
		case "http", "https":
		default:
			continue
		}
		cell, err := excelize.CoordinatesToCellName(3, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellHyperLink(SheetLinks, cell, row.URL, "External"); err != nil {
			return err
		}
		if err := f.SetCellStyle(SheetLinks, cell, cell, style); err != nil {
			return err
		}
		added++
	}
	return nil
}
