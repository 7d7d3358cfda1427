package types

import (
	"time"

	"github.com/google/uuid"
)

// ReportRow is one output line: a reconciled entry attributed to its workspace file.
type ReportRow struct {
	WorkspaceFile string     `json:"workspace_file"`
	Source        RecordKind `json:"source"`
	URL           string     `json:"url"`
	Title         string     `json:"title"`
}

// FileSummary holds the per-file counts shown in the "Per File Report".
type FileSummary struct {
	WorkspaceFile string `json:"workspace_file"`
	OpenTabCount  int    `json:"open_tab_count"` // Includes tabs written as favorites, so it can exceed LinksWritten under ModeTabs
	FavoriteCount int    `json:"favorite_count"`
	LinksWritten  int    `json:"links_written"`
	MemberCount   int    `json:"member_count"`
	Err           string `json:"error,omitempty"` // Set when the file could not be read
}

// Failed reports whether the file could not be processed at all.
func (s FileSummary) Failed() bool {
	return s.Err != ""
}

// FileResult is the outcome of processing one workspace file.
type FileResult struct {
	Rows    []ReportRow `json:"rows"`
	Summary FileSummary `json:"summary"`
}

// Summary is the cross-file accumulator. Each file result is folded into its
// own Summary and the partial summaries are combined with Merge, so no
// Summary is shared between goroutines. A Summary owns its URL set: copies
// made after Add share it.
type Summary struct {
	FilesFound         int `json:"files_found"`
	FilesFailed        int `json:"files_failed"`
	FilesWithAnyLinks  int `json:"files_with_any_links"`
	FilesWithTabs      int `json:"files_with_tabs"`
	FilesWithFavorites int `json:"files_with_favorites"`
	TabsTotal          int `json:"tabs_total"`
	FavoritesTotal     int `json:"favorites_total"`
	LinksTotal         int `json:"links_total"`
	UniqueURLs         int `json:"unique_urls"`

	urls map[string]struct{}
}

// SummaryOf returns the summary of a single file result.
func SummaryOf(r FileResult) Summary {
	var s Summary
	s.Add(r)
	return s
}

// Add folds one file result into s.
func (s *Summary) Add(r FileResult) {
	s.FilesFound++
	if r.Summary.Failed() {
		s.FilesFailed++
	}
	if r.Summary.LinksWritten > 0 {
		s.FilesWithAnyLinks++
	}
	if r.Summary.OpenTabCount > 0 {
		s.FilesWithTabs++
	}
	if r.Summary.FavoriteCount > 0 {
		s.FilesWithFavorites++
	}
	s.TabsTotal += r.Summary.OpenTabCount
	s.FavoritesTotal += r.Summary.FavoriteCount
	s.LinksTotal += len(r.Rows)

	for _, row := range r.Rows {
		s.addURL(row.URL)
	}
	s.UniqueURLs = len(s.urls)
}

// Merge folds another summary into s. o is not modified.
func (s *Summary) Merge(o Summary) {
	s.FilesFound += o.FilesFound
	s.FilesFailed += o.FilesFailed
	s.FilesWithAnyLinks += o.FilesWithAnyLinks
	s.FilesWithTabs += o.FilesWithTabs
	s.FilesWithFavorites += o.FilesWithFavorites
	s.TabsTotal += o.TabsTotal
	s.FavoritesTotal += o.FavoritesTotal
	s.LinksTotal += o.LinksTotal

	for u := range o.urls {
		s.addURL(u)
	}
	s.UniqueURLs = len(s.urls)
}

func (s *Summary) addURL(u string) {
	if s.urls == nil {
		s.urls = make(map[string]struct{})
	}
	s.urls[u] = struct{}{}
}

// SummaryMetric is one row of the "Summary Report" sheet.
type SummaryMetric struct {
	Metric string `json:"metric"`
	Value  int    `json:"value"`
}

// Metrics returns the summary as ordered metric/value pairs.
func (s Summary) Metrics() []SummaryMetric {
	return []SummaryMetric{
		{"files_found", s.FilesFound},
		{"files_failed", s.FilesFailed},
		{"files_with_any_links", s.FilesWithAnyLinks},
		{"files_with_tabs", s.FilesWithTabs},
		{"files_with_favorites", s.FilesWithFavorites},
		{"tabs_total", s.TabsTotal},
		{"favorites_total", s.FavoritesTotal},
		{"links_total", s.LinksTotal},
		{"unique_urls", s.UniqueURLs},
	}
}

// ReportOptions records the filter settings a report was produced with.
type ReportOptions struct {
	Mode            Mode     `json:"mode"`
	ExcludeInternal bool     `json:"exclude_internal"`
	ExcludeSchemes  []string `json:"exclude_schemes"`
	Sort            bool     `json:"sort"`
}

// Report is everything a report emitter needs for one run.
type Report struct {
	RunID       uuid.UUID     `json:"run_id"`
	GeneratedAt time.Time     `json:"generated_at"`
	Input       string        `json:"input"`
	Options     ReportOptions `json:"options"`
	Rows        []ReportRow   `json:"rows"`
	Files       []FileSummary `json:"files"`
	Summary     Summary       `json:"summary"`
}
