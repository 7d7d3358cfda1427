// Package filter applies mode and scheme exclusion to reconciled entries and
// orders the resulting report rows.
package filter

import (
	"cmp"
	"maps"
	"slices"
	"strings"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// InternalSchemes are browser-internal URL schemes dropped by ExcludeInternal.
var InternalSchemes = []string{"about", "chrome", "edge", "file", "microsoft-edge"}

// Options controls which entries become report rows.
type Options struct {
	Mode            types.Mode
	ExcludeInternal bool
	ExcludeSchemes  []string
	Sort            bool
}

// ReportOptions converts o into the form recorded on a report.
func (o Options) ReportOptions() types.ReportOptions {
	mode := o.Mode
	if mode == "" {
		mode = types.ModeBoth
	}
	schemes := slices.Sorted(maps.Keys(o.excluded()))
	if schemes == nil {
		schemes = []string{}
	}
	return types.ReportOptions{
		Mode:            mode,
		ExcludeInternal: o.ExcludeInternal,
		ExcludeSchemes:  schemes,
		Sort:            o.Sort,
	}
}

// excluded returns the lower-cased set of schemes to drop.
func (o Options) excluded() map[string]struct{} {
	set := make(map[string]struct{}, len(o.ExcludeSchemes)+len(InternalSchemes))
	for _, s := range o.ExcludeSchemes {
		s = strings.ToLower(strings.TrimSuffix(strings.TrimSpace(s), ":"))
		if s != "" {
			set[s] = struct{}{}
		}
	}
	if o.ExcludeInternal {
		for _, s := range InternalSchemes {
			set[s] = struct{}{}
		}
	}
	return set
}

// Scheme returns the lower-cased scheme of url: everything before the first
// colon. A URL without a colon has no scheme.
func Scheme(url string) string {
	i := strings.IndexByte(url, ':')
	if i < 0 {
		return ""
	}
	return strings.ToLower(url[:i])
}

// Apply turns one file's reconciled entries into report rows and the file's
// summary counts. Entry order is preserved unless opts.Sort is set.
func Apply(fileName string, entries []types.ReconciledEntry, opts Options) ([]types.ReportRow, types.FileSummary) {
	mode := opts.Mode
	if mode == "" {
		mode = types.ModeBoth
	}
	excluded := opts.excluded()

	summary := types.FileSummary{WorkspaceFile: fileName}
	rows := make([]types.ReportRow, 0, len(entries))

	for _, e := range entries {
		if _, drop := excluded[Scheme(e.URL)]; drop {
			continue
		}
		if e.SeenAsTab && mode.Includes(types.KindTab) {
			summary.OpenTabCount++
		}
		if e.IsFavorite() && mode.Includes(types.KindFavorite) {
			summary.FavoriteCount++
		}
		if !mode.Includes(e.Kind) {
			continue
		}
		rows = append(rows, types.ReportRow{
			WorkspaceFile: fileName,
			Source:        e.Kind,
			URL:           e.URL,
			Title:         e.Title,
		})
	}

	if opts.Sort {
		SortRows(rows)
	}
	summary.LinksWritten = len(rows)
	return rows, summary
}

// SortRows orders rows by workspace file name, then URL.
func SortRows(rows []types.ReportRow) {
	slices.SortStableFunc(rows, func(a, b types.ReportRow) int {
		return cmp.Or(
			cmp.Compare(a.WorkspaceFile, b.WorkspaceFile),
			cmp.Compare(a.URL, b.URL),
		)
	})
}

// SortSummaries orders per-file summaries by workspace file name.
func SortSummaries(files []types.FileSummary) {
	slices.SortStableFunc(files, func(a, b types.FileSummary) int {
		return cmp.Compare(a.WorkspaceFile, b.WorkspaceFile)
	})
}
