// Package pipeline wires the scanner, extractor, reconciliation engine and
// filter together for one workspace file and runs them across many files.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/jonathan/edge-workspace-links/internal/filter"
	"github.com/jonathan/edge-workspace-links/internal/ingestion"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Progress steps reported through ProgressCallback.
const (
	StepLoad    = "load"
	StepProcess = "process"
	StepFailed  = "failed"
	StepDone    = "done"
)

// ProgressEvent represents a progress update during a run
type ProgressEvent struct {
	Step    string `json:"step"`
	File    string `json:"file,omitempty"`
	Message string `json:"message"`
	RunID   string `json:"run_id,omitempty"`
	Content any    `json:"content,omitempty"`
}

// ProgressCallback is called when run progress occurs. Calls are serialized.
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for processing a set of workspace files
type RunOptions struct {
	Options

	Input      string // Recorded on the report; the path the user asked for
	Workers    int    // Maximum files processed at once; 1 when zero
	OnProgress ProgressCallback
}

type progress struct {
	mu    sync.Mutex
	cb    ProgressCallback
	runID string
}

// emit calls the progress callback if configured
func (p *progress) emit(step, file, message string, content any) {
	if p.cb == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.cb(ProgressEvent{
		Step:    step,
		File:    file,
		Message: message,
		RunID:   p.runID,
		Content: content,
	})
}

// Run processes every path and builds the report. Files are processed in
// parallel, but rows and per-file summaries keep the input order unless
// sorting is requested. A file that cannot be read is recorded as failed and
// does not stop the others. Only context cancellation fails the run.
func Run(ctx context.Context, paths []string, opts RunOptions) (*types.Report, error) {
	runID := uuid.New()
	log := opts.logger().With("run_id", runID.String())
	prog := &progress{cb: opts.OnProgress, runID: runID.String()}

	workers := opts.Workers
	if workers < 1 {
		workers = 1
	}

	results := make([]types.FileResult, len(paths))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}

			name := filepath.Base(path)
			prog.emit(StepLoad, name, fmt.Sprintf("Reading %s", path), nil)

			file, err := ingestion.Load(path)
			if err != nil {
				log.Warn("could not read workspace file", "path", path, "error", err)
				results[i] = types.FileResult{
					Summary: types.FileSummary{WorkspaceFile: name, Err: err.Error()},
				}
				prog.emit(StepFailed, name, err.Error(), nil)
				return nil
			}

			fileOpts := opts.Options
			fileOpts.Logger = log
			res := ProcessFile(file, fileOpts)
			results[i] = res

			prog.emit(StepProcess, name,
				fmt.Sprintf("%d member(s), %d tab(s), %d favorite(s), %d link(s)",
					res.Summary.MemberCount, res.Summary.OpenTabCount,
					res.Summary.FavoriteCount, res.Summary.LinksWritten),
				res.Summary)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("run cancelled: %w", err)
	}

	report := Assemble(results, opts.Filter)
	report.RunID = runID
	report.Input = opts.Input

	prog.emit(StepDone, "",
		fmt.Sprintf("Processed %d file(s), %d link(s)", report.Summary.FilesFound, report.Summary.LinksTotal),
		report.Summary)

	return report, nil
}

// Assemble folds per-file results into a report. Rows and files keep the
// order of results unless opts.Sort is set.
func Assemble(results []types.FileResult, opts filter.Options) *types.Report {
	report := &types.Report{
		GeneratedAt: time.Now().UTC(),
		Options:     opts.ReportOptions(),
		Rows:        []types.ReportRow{},
		Files:       make([]types.FileSummary, 0, len(results)),
	}

	var summary types.Summary
	for _, res := range results {
		summary.Merge(types.SummaryOf(res))
		report.Rows = append(report.Rows, res.Rows...)
		report.Files = append(report.Files, res.Summary)
	}
	report.Summary = summary

	if opts.Sort {
		filter.SortRows(report.Rows)
		filter.SortSummaries(report.Files)
	}
	return report
}
