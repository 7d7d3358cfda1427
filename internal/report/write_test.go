package report

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/jonathan/edge-workspace-links/internal/schemas"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

func sampleReport() *types.Report {
	rows := []types.ReportRow{
		{WorkspaceFile: "a.edge", Source: types.KindTab, URL: "https://a.example/page", Title: "A page"},
		{WorkspaceFile: "a.edge", Source: types.KindFavorite, URL: "https://fav.example", Title: "Fav, with comma"},
		{WorkspaceFile: "b.edge", Source: types.KindTab, URL: "edge://settings", Title: ""},
	}
	files := []types.FileSummary{
		{WorkspaceFile: "a.edge", OpenTabCount: 1, FavoriteCount: 1, LinksWritten: 2, MemberCount: 3},
		{WorkspaceFile: "b.edge", OpenTabCount: 1, LinksWritten: 1, MemberCount: 1},
		{WorkspaceFile: "broken.edge", Err: "failed to read broken.edge: permission denied"},
	}

	var summary types.Summary
	summary.Add(types.FileResult{Rows: rows[:2], Summary: files[0]})
	summary.Add(types.FileResult{Rows: rows[2:], Summary: files[1]})
	summary.Add(types.FileResult{Summary: files[2]})

	return &types.Report{
		RunID:       uuid.MustParse("6f1c2a3b-4d5e-4f60-8a7b-9c0d1e2f3a4b"),
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Input:       "/data/workspaces",
		Options:     types.ReportOptions{Mode: types.ModeBoth, ExcludeSchemes: []string{}},
		Rows:        rows,
		Files:       files,
		Summary:     summary,
	}
}

func readDelimited(t *testing.T, path string, comma rune) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = comma
	records, err := r.ReadAll()
	require.NoError(t, err)
	return records
}

func TestWrite_CSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "links.csv")

	require.NoError(t, Write(path, FormatCSV, sampleReport()))

	links := readDelimited(t, path, ',')
	require.Len(t, links, 4)
	assert.Equal(t, linkHeader, links[0])
	assert.Equal(t, []string{"a.edge", "favorite", "https://fav.example", "Fav, with comma"}, links[2])

	companions := CompanionPaths(path, FormatCSV)
	summary := readDelimited(t, companions[0], ',')
	assert.Equal(t, summaryHeader, summary[0])
	assert.Contains(t, summary, []string{"links_total", "3"})
	assert.Contains(t, summary, []string{"unique_urls", "3"})
	assert.Contains(t, summary, []string{"files_failed", "1"})

	files := readDelimited(t, companions[1], ',')
	require.Len(t, files, 4)
	assert.Equal(t, []string{"a.edge", "1", "1", "2", "3", ""}, files[1])
	assert.Equal(t, "failed to read broken.edge: permission denied", files[3][5])
}

func TestWrite_TSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.tsv")

	require.NoError(t, Write(path, FormatTSV, sampleReport()))

	links := readDelimited(t, path, '\t')
	require.Len(t, links, 4)
	assert.Equal(t, "edge://settings", links[3][2])

	for _, p := range CompanionPaths(path, FormatTSV) {
		assert.FileExists(t, p)
		assert.True(t, strings.HasSuffix(p, ".tsv"))
	}
}

func TestWrite_XLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.xlsx")

	require.NoError(t, Write(path, FormatXLSX, sampleReport()))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetLinks, SheetSummary, SheetFiles}, f.GetSheetList())

	rows, err := f.GetRows(SheetLinks)
	require.NoError(t, err)
	require.Len(t, rows, 4)
	assert.Equal(t, linkHeader, rows[0])
	assert.Equal(t, "https://a.example/page", rows[1][2])

	ok, target, err := f.GetCellHyperLink(SheetLinks, "C2")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "https://a.example/page", target)

	ok, _, err = f.GetCellHyperLink(SheetLinks, "C4")
	require.NoError(t, err)
	assert.False(t, ok, "internal pages are not linked")

	summary, err := f.GetRows(SheetSummary)
	require.NoError(t, err)
	assert.Equal(t, summaryHeader, summary[0])
	assert.Contains(t, summary, []string{"favorites_total", "1"})

	files, err := f.GetRows(SheetFiles)
	require.NoError(t, err)
	require.Len(t, files, 4)
	assert.Equal(t, "a.edge", files[1][0])
	assert.Equal(t, "2", files[1][3])

	width, err := f.GetColWidth(SheetLinks, "C")
	require.NoError(t, err)
	assert.Equal(t, float64(len("https://a.example/page")+2), width)
}

func TestWrite_XLSXColumnWidthCapped(t *testing.T) {
	r := sampleReport()
	r.Rows[0].Title = strings.Repeat("t", 500)
	path := filepath.Join(t.TempDir(), "wide.xlsx")

	require.NoError(t, Write(path, FormatXLSX, r))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	width, err := f.GetColWidth(SheetLinks, "D")
	require.NoError(t, err)
	assert.Equal(t, float64(maxColumnWidth), width)
}

func TestWrite_JSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.json")
	r := sampleReport()

	require.NoError(t, Write(path, FormatJSON, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	var decoded types.Report
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, r.RunID, decoded.RunID)
	assert.Equal(t, r.Rows, decoded.Rows)
	assert.Equal(t, r.Files, decoded.Files)
	assert.Equal(t, 3, decoded.Summary.LinksTotal)
	assert.Equal(t, 3, decoded.Summary.UniqueURLs)
}

func TestMarshalJSON_FillsEmptyCollections(t *testing.T) {
	data, err := MarshalJSON(&types.Report{})
	require.NoError(t, err)
	assert.Contains(t, string(data), `"rows": []`)
	assert.Contains(t, string(data), `"mode": "both"`)
}

func TestMarshalJSON_RejectsInvalidReport(t *testing.T) {
	r := sampleReport()
	r.Rows[0].Source = "history"

	_, err := MarshalJSON(r)
	require.Error(t, err)
	var validationErr *schemas.ValidationError
	assert.ErrorAs(t, err, &validationErr)
}

func TestWrite_HTMLBookmarks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "links.html")
	r := sampleReport()
	r.Rows = append(r.Rows, types.ReportRow{
		WorkspaceFile: "b.edge", Source: types.KindFavorite, URL: "javascript:alert(1)", Title: "<b>x</b>",
	})

	require.NoError(t, Write(path, FormatHTML, r))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "<!DOCTYPE NETSCAPE-Bookmark-file-1>"))

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(string(data)))
	require.NoError(t, err)

	var folders []string
	doc.Find("h3").Each(func(_ int, s *goquery.Selection) {
		folders = append(folders, s.Text())
	})
	assert.Equal(t, []string{"a.edge", GroupTabs, GroupFavorites, "b.edge", GroupTabs, GroupFavorites}, folders)

	links := doc.Find("a")
	require.Equal(t, 4, links.Length())

	first := links.First()
	href, _ := first.Attr("href")
	assert.Equal(t, "https://a.example/page", href)
	assert.Equal(t, "A page", first.Text())
	addDate, _ := first.Attr("add_date")
	assert.Equal(t, "1767323045", addDate)

	untitled := links.Eq(2)
	assert.Equal(t, "edge://settings", untitled.Text())
	href, _ = untitled.Attr("href")
	assert.Equal(t, "edge://settings", href)

	script := links.Eq(3)
	href, _ = script.Attr("href")
	assert.Equal(t, "#", href)
	assert.Equal(t, "<b>x</b>", script.Text())
}

func TestWrite_Errors(t *testing.T) {
	dir := t.TempDir()

	err := Write(filepath.Join(dir, "x.pdf"), Format("pdf"), sampleReport())
	var formatErr *FormatError
	assert.ErrorAs(t, err, &formatErr)

	err = Write(filepath.Join(dir, "x.csv"), FormatCSV, nil)
	var writeErr *WriteError
	assert.ErrorAs(t, err, &writeErr)

	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0644))
	err = Write(filepath.Join(blocker, "x.csv"), FormatCSV, sampleReport())
	require.True(t, errors.As(err, &writeErr))
	assert.Equal(t, filepath.Join(blocker, "x.csv"), writeErr.Path)
}
