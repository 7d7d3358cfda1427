package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/edge-workspace-links/internal/filter"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

func writeWorkspace(t *testing.T, dir, name string, payloads ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, container(t, payloads...), 0o644))
	return path
}

func TestRun_KeepsInputOrder(t *testing.T) {
	dir := t.TempDir()
	b := writeWorkspace(t, dir, "b.edge", `{"nodeType":1,"url":"https://z.example"}`)
	a := writeWorkspace(t, dir, "a.edge", `{"nodeType":1,"url":"https://y.example"}`)

	report, err := Run(context.Background(), []string{b, a}, RunOptions{Workers: 4, Input: dir})
	require.NoError(t, err)

	require.Len(t, report.Rows, 2)
	assert.Equal(t, "b.edge", report.Rows[0].WorkspaceFile)
	assert.Equal(t, "a.edge", report.Rows[1].WorkspaceFile)
	assert.Equal(t, []string{"b.edge", "a.edge"}, fileNames(report.Files))
	assert.Equal(t, dir, report.Input)
	assert.NotZero(t, report.RunID)
}

func TestRun_SortIsDeterministic(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeWorkspace(t, dir, "b.edge", `[{"nodeType":1,"url":"https://b2.example"},{"nodeType":1,"url":"https://b1.example"}]`),
		writeWorkspace(t, dir, "a.edge", `{"nodeType":2,"url":"https://a.example"}`),
	}
	opts := RunOptions{Options: Options{Filter: filter.Options{Sort: true}}, Workers: 2}

	var first []types.ReportRow
	for round := 0; round < 5; round++ {
		report, err := Run(context.Background(), paths, opts)
		require.NoError(t, err)

		var got []string
		for _, r := range report.Rows {
			got = append(got, r.WorkspaceFile+" "+r.URL)
		}
		assert.Equal(t, []string{
			"a.edge https://a.example",
			"b.edge https://b1.example",
			"b.edge https://b2.example",
		}, got)
		assert.Equal(t, []string{"a.edge", "b.edge"}, fileNames(report.Files))

		if first == nil {
			first = report.Rows
		}
		assert.Equal(t, first, report.Rows)
	}
}

func TestRun_UnreadableFileDoesNotAbort(t *testing.T) {
	dir := t.TempDir()
	good := writeWorkspace(t, dir, "good.edge", `{"nodeType":1,"url":"https://ok.example"}`)
	missing := filepath.Join(dir, "missing.edge")

	report, err := Run(context.Background(), []string{missing, good}, RunOptions{Workers: 2})
	require.NoError(t, err)

	require.Len(t, report.Files, 2)
	assert.True(t, report.Files[0].Failed())
	assert.Contains(t, report.Files[0].Err, "missing.edge")
	assert.False(t, report.Files[1].Failed())

	require.Len(t, report.Rows, 1)
	assert.Equal(t, "https://ok.example", report.Rows[0].URL)
	assert.Equal(t, 2, report.Summary.FilesFound)
	assert.Equal(t, 1, report.Summary.FilesFailed)
}

func TestRun_Summary(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeWorkspace(t, dir, "one.edge",
			`{"nodeType":1,"url":"https://shared.example"}`,
			`{"nodeType":2,"url":"https://fav.example"}`),
		writeWorkspace(t, dir, "two.edge", `{"nodeType":1,"url":"https://shared.example"}`),
		writeWorkspace(t, dir, "none.edge"),
	}

	report, err := Run(context.Background(), paths, RunOptions{Workers: 3})
	require.NoError(t, err)

	s := report.Summary
	assert.Equal(t, 3, s.FilesFound)
	assert.Equal(t, 2, s.FilesWithAnyLinks)
	assert.Equal(t, 2, s.FilesWithTabs)
	assert.Equal(t, 1, s.FilesWithFavorites)
	assert.Equal(t, 2, s.TabsTotal)
	assert.Equal(t, 1, s.FavoritesTotal)
	assert.Equal(t, 3, s.LinksTotal)
	assert.Equal(t, 2, s.UniqueURLs)
	assert.Zero(t, report.Files[2].MemberCount)
}

func TestRun_ProgressEvents(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeWorkspace(t, dir, "a.edge", `{"nodeType":1,"url":"https://a.example"}`),
		filepath.Join(dir, "gone.edge"),
	}

	var mu sync.Mutex
	steps := map[string]int{}
	var runIDs []string
	_, err := Run(context.Background(), paths, RunOptions{
		Workers: 2,
		OnProgress: func(e ProgressEvent) {
			mu.Lock()
			defer mu.Unlock()
			steps[e.Step]++
			runIDs = append(runIDs, e.RunID)
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, steps[StepLoad])
	assert.Equal(t, 1, steps[StepProcess])
	assert.Equal(t, 1, steps[StepFailed])
	assert.Equal(t, 1, steps[StepDone])
	for _, id := range runIDs {
		assert.Equal(t, runIDs[0], id)
	}
}

func TestRun_Cancelled(t *testing.T) {
	dir := t.TempDir()
	path := writeWorkspace(t, dir, "a.edge", `{"nodeType":1,"url":"https://a.example"}`)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Run(ctx, []string{path}, RunOptions{})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
}

func TestRun_NoPaths(t *testing.T) {
	report, err := Run(context.Background(), nil, RunOptions{})
	require.NoError(t, err)
	assert.Empty(t, report.Rows)
	assert.NotNil(t, report.Rows)
	assert.Zero(t, report.Summary.FilesFound)
	assert.Equal(t, types.ModeBoth, report.Options.Mode)
}

func fileNames(files []types.FileSummary) []string {
	var out []string
	for _, f := range files {
		out = append(out, f.WorkspaceFile)
	}
	return out
}
