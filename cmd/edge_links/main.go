// Package main provides the edge_links command, which extracts tab URLs and
// favorites from Microsoft Edge Workspace files.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/jonathan/edge-workspace-links/internal/ingestion"
)

func newRootCmd() *cobra.Command {
	opts := &extractOptions{}
	root := &cobra.Command{
		Use:   "edge_links",
		Short: "Extract open tab URLs and favorites from Edge Workspace files",
		Long: `edge_links reads Microsoft Edge Workspace (.edge) files, finds the gzip
compressed JSON deltas inside them and writes every open tab and workspace
favorite to a report (xlsx, csv, tsv, json or html bookmarks).

Running edge_links without a subcommand is the same as "edge_links extract".`,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts)
		},
	}
	addExtractFlags(root, opts)

	root.AddCommand(newExtractCmd())
	root.AddCommand(newInspectCmd())
	root.AddCommand(newRunsCmd())
	root.AddCommand(newValidateCmd())
	return root
}

// exitCode maps an error to the process exit status: 2 when the input path
// does not exist, 1 for everything else.
func exitCode(err error) int {
	var notFound *ingestion.NotFoundError
	if errors.As(err, &notFound) {
		return 2
	}
	return 1
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(exitCode(err))
	}
}
