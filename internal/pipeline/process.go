package pipeline

import (
	"log/slog"

	"github.com/jonathan/edge-workspace-links/internal/extract"
	"github.com/jonathan/edge-workspace-links/internal/filter"
	"github.com/jonathan/edge-workspace-links/internal/reconcile"
	"github.com/jonathan/edge-workspace-links/internal/scanner"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

// Options configures the per-file stages.
type Options struct {
	Filter         filter.Options
	MaxPayloadSize int64        // Per-member decompression cap; scanner default when zero
	Logger         *slog.Logger // slog.Default() when nil
}

func (o Options) logger() *slog.Logger {
	if o.Logger != nil {
		return o.Logger
	}
	return slog.Default()
}

func (o Options) scanOptions() []scanner.Option {
	opts := []scanner.Option{scanner.WithLogger(o.logger())}
	if o.MaxPayloadSize > 0 {
		opts = append(opts, scanner.WithMaxPayloadSize(o.MaxPayloadSize))
	}
	return opts
}

// ProcessFile runs scan, extract, reconcile and filter over one workspace
// file. It never fails: a file without gzip members or records simply yields
// no rows.
func ProcessFile(file types.WorkspaceFile, opts Options) types.FileResult {
	log := opts.logger().With("file", file.Name)

	engine := reconcile.NewEngine()
	members := 0
	for m := range scanner.Unique(scanner.Scan(file.Data, opts.scanOptions()...)) {
		members++
		before := engine.Len()
		engine.AddAll(extract.Walk(m.Payload))
		log.Debug("processed gzip member",
			"offset", m.Offset,
			"compressed_size", m.CompressedSize,
			"payload_size", len(m.Payload),
			"new_urls", engine.Len()-before)
	}

	rows, summary := filter.Apply(file.Name, engine.Entries(), opts.Filter)
	summary.MemberCount = members

	log.Debug("processed workspace file",
		"members", members,
		"entries", engine.Len(),
		"rows", len(rows))

	return types.FileResult{Rows: rows, Summary: summary}
}

// MemberReport describes one gzip member for diagnostics.
type MemberReport struct {
	Offset         int    `json:"offset"`
	CompressedSize int    `json:"compressed_size"`
	PayloadSize    int    `json:"payload_size"`
	Digest         string `json:"digest"`
	Duplicate      bool   `json:"duplicate"` // Same payload as an earlier member
	Tabs           int    `json:"tabs"`
	Favorites      int    `json:"favorites"`
}

// Inspect lists every gzip member of file with the records each one holds.
// Unlike ProcessFile it keeps repeated payloads so the container layout is
// visible as stored.
func Inspect(file types.WorkspaceFile, opts Options) []MemberReport {
	var out []MemberReport
	seen := make(map[scanner.Digest]struct{})

	for m := range scanner.Scan(file.Data, opts.scanOptions()...) {
		d := scanner.PayloadDigest(m.Payload)
		_, dup := seen[d]
		seen[d] = struct{}{}

		rep := MemberReport{
			Offset:         m.Offset,
			CompressedSize: m.CompressedSize,
			PayloadSize:    len(m.Payload),
			Digest:         d.Short(),
			Duplicate:      dup,
		}
		for _, r := range extract.Records(m.Payload) {
			switch r.Kind {
			case types.KindTab:
				rep.Tabs++
			case types.KindFavorite:
				rep.Favorites++
			}
		}
		out = append(out, rep)
	}
	return out
}
