package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jonathan/edge-workspace-links/internal/ingestion"
	"github.com/jonathan/edge-workspace-links/internal/observability"
	"github.com/jonathan/edge-workspace-links/internal/pipeline"
)

type inspectOptions struct {
	pattern      string
	recursive    bool
	asJSON       bool
	maxPayloadMB int
}

// fileMembers is the JSON form of one inspected file.
type fileMembers struct {
	*ingestion.Metadata
	Members []pipeline.MemberReport `json:"members"`
}

func newInspectCmd() *cobra.Command {
	opts := &inspectOptions{}
	cmd := &cobra.Command{
		Use:   "inspect <path>...",
		Short: "List the gzip members inside workspace files",
		Long: `Shows where each gzip member starts, its compressed and decompressed size,
a digest of its payload and how many tab and favorite records it holds.
Members whose payload repeats an earlier one are marked "dup"; extract reads
them only once.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.pattern, "pattern", ingestion.DefaultPattern, "File name pattern used for directory arguments")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "Search subdirectories of directory arguments")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "Print machine-readable JSON instead of tables")
	cmd.Flags().IntVar(&opts.maxPayloadMB, "max-payload-mb", 0, "Largest decompressed gzip member accepted, in MiB (default: 256)")
	return cmd
}

func runInspect(cmd *cobra.Command, args []string, o *inspectOptions) error {
	var paths []string
	for _, arg := range args {
		found, err := ingestion.Discover(arg, ingestion.DiscoverOptions{Pattern: o.pattern, Recursive: o.recursive})
		if err != nil {
			return err
		}
		paths = append(paths, found...)
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matching %s found", o.pattern)
	}

	opts := pipeline.Options{MaxPayloadSize: int64(o.maxPayloadMB) << 20}
	printer := observability.NewPrinter(cmd.OutOrStdout())

	var results []fileMembers
	for _, path := range paths {
		file, err := ingestion.Load(path)
		if err != nil {
			return err
		}
		meta := ingestion.NewMetadata(file)
		members := pipeline.Inspect(file, opts)

		if o.asJSON {
			if members == nil {
				members = []pipeline.MemberReport{}
			}
			results = append(results, fileMembers{Metadata: meta, Members: members})
			continue
		}
		printer.PrintMembers(fmt.Sprintf("%s (%d bytes)", file.Name, meta.Size), members)
	}

	if o.asJSON {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}
	return nil
}
