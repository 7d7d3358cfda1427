// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/jonathan/edge-workspace-links/internal/pipeline"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

func truncate(s string, width int) string {
	if utf8.RuneCountInString(s) <= width {
		return s
	}
	r := []rune(s)
	return string(r[:width-3]) + "..."
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to the console; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(title, boxWidth-4))
	fmt.Fprintf(p.out, "├%s┤\n", border)

	for _, line := range strings.Split(content, "\n") {
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, truncate(line, boxWidth-4))
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintFileResult outputs the counts for one workspace file and its first links.
func (p *Printer) PrintFileResult(res *types.FileResult) {
	if res == nil {
		return
	}
	s := res.Summary

	var sb strings.Builder
	if s.Failed() {
		sb.WriteString(fmt.Sprintf("Error: %s", s.Err))
		p.printBox("WORKSPACE "+s.WorkspaceFile, sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("Gzip members:  %d\n", s.MemberCount))
	sb.WriteString(fmt.Sprintf("Open tabs:     %d\n", s.OpenTabCount))
	sb.WriteString(fmt.Sprintf("Favorites:     %d\n", s.FavoriteCount))
	sb.WriteString(fmt.Sprintf("Links written: %d\n", s.LinksWritten))

	if len(res.Rows) > 0 {
		sb.WriteString("\n")
		count := min(len(res.Rows), maxItemsToShow)
		for i := 0; i < count; i++ {
			row := res.Rows[i]
			sb.WriteString(fmt.Sprintf("• [%s] %s\n", row.Source, row.URL))
		}
		if len(res.Rows) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(res.Rows)-maxItemsToShow))
		}
	} else if s.MemberCount == 0 {
		sb.WriteString("\nNo gzip members found; the file may not be a workspace.\n")
	}

	p.printBox("WORKSPACE "+s.WorkspaceFile, strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSummary outputs the cross-file summary metrics.
func (p *Printer) PrintSummary(summary types.Summary) {
	var sb strings.Builder
	for _, m := range summary.Metrics() {
		sb.WriteString(fmt.Sprintf("%-22s %d\n", m.Metric, m.Value))
	}
	p.printBox("SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintMembers outputs the gzip member layout of one workspace file.
func (p *Printer) PrintMembers(name string, members []pipeline.MemberReport) {
	var sb strings.Builder
	if len(members) == 0 {
		sb.WriteString("No gzip members found")
		p.printBox("MEMBERS "+name, sb.String())
		return
	}

	sb.WriteString(fmt.Sprintf("%-8s %7s %8s %4s %4s  %s\n", "offset", "gz", "json", "tab", "fav", "digest"))
	for _, m := range members {
		line := fmt.Sprintf("%-8d %7d %8d %4d %4d  %s", m.Offset, m.CompressedSize, m.PayloadSize, m.Tabs, m.Favorites, m.Digest)
		if m.Duplicate {
			line += " dup"
		}
		sb.WriteString(line + "\n")
	}
	p.printBox("MEMBERS "+name, strings.TrimSuffix(sb.String(), "\n"))
}
