package main

import (
	"context"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jonathan/edge-workspace-links/internal/db"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

type runsOptions struct {
	databaseURL string
	limit       int
	runID       string
	source      string
	file        string
	files       bool
	delete      bool
}

func newRunsCmd() *cobra.Command {
	opts := &runsOptions{}
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "List extraction runs saved to PostgreSQL",
		Long: `Lists runs previously saved with --db-url. With --run-id, prints the links
stored for that run instead, its per-file summary with --files, or removes the
run with --delete.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRuns(cmd, opts)
		},
	}

	cmd.Flags().StringVar(&opts.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
	cmd.Flags().IntVar(&opts.limit, "limit", 20, "Maximum number of runs or links to show")
	cmd.Flags().StringVar(&opts.runID, "run-id", "", "Show the links of this run")
	cmd.Flags().StringVar(&opts.source, "source", "", "With --run-id, only show tab or favorite links")
	cmd.Flags().StringVar(&opts.file, "file", "", "With --run-id, only show links from this workspace file")
	cmd.Flags().BoolVar(&opts.files, "files", false, "With --run-id, show the per-file summary instead of links")
	cmd.Flags().BoolVar(&opts.delete, "delete", false, "With --run-id, delete the run and everything stored for it")
	return cmd
}

//nolint:errcheck // writing to the console; errors are not recoverable
func runRuns(cmd *cobra.Command, o *runsOptions) error {
	databaseURL := o.databaseURL
	if databaseURL == "" {
		databaseURL = os.Getenv("DATABASE_URL")
	}
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable or --db-url flag is required")
	}

	if (o.files || o.delete) && o.runID == "" {
		return fmt.Errorf("--files and --delete require --run-id")
	}

	var filters db.LinkFilters
	if o.runID != "" {
		id, err := uuid.Parse(o.runID)
		if err != nil {
			return fmt.Errorf("invalid run id: %w", err)
		}
		filters = db.LinkFilters{RunID: id, WorkspaceFile: o.file, Limit: o.limit}
		if o.source != "" {
			kind, err := types.ParseRecordKind(o.source)
			if err != nil {
				return err
			}
			filters.Source = kind
		}
	}

	ctx := cmdContext(cmd)
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}

	if o.delete {
		if err := database.DeleteRun(ctx, filters.RunID); err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "Deleted run %s\n", filters.RunID)
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	defer w.Flush()

	if o.runID != "" {
		return printRun(ctx, w, database, filters, o.files)
	}

	runs, err := database.ListRuns(ctx, o.limit)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "RUN ID\tGENERATED\tINPUT\tMODE\tFILES\tLINKS\tUNIQUE")
	for _, r := range runs {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\t%d\t%d\n",
			r.ID, r.GeneratedAt.Local().Format("2006-01-02 15:04"), r.Input, r.Mode,
			r.Summary.FilesFound, r.Summary.LinksTotal, r.Summary.UniqueURLs)
	}
	return nil
}

//nolint:errcheck // writing to the console; errors are not recoverable
func printRun(ctx context.Context, w *tabwriter.Writer, database *db.DB, filters db.LinkFilters, files bool) error {
	run, err := database.GetRun(ctx, filters.RunID)
	if err != nil {
		return err
	}
	if run == nil {
		return fmt.Errorf("run not found: %s", filters.RunID)
	}

	if files {
		summaries, err := database.ListFiles(ctx, run.ID)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, "FILE\tTABS\tFAVORITES\tLINKS\tMEMBERS\tERROR")
		for _, f := range summaries {
			fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\t%s\n",
				f.WorkspaceFile, f.OpenTabCount, f.FavoriteCount, f.LinksWritten, f.MemberCount, f.Err)
		}
		return nil
	}

	links, err := database.ListLinks(ctx, filters)
	if err != nil {
		return err
	}
	fmt.Fprintln(w, "FILE\tSOURCE\tURL\tTITLE")
	for _, l := range links {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", l.WorkspaceFile, l.Source, l.URL, l.Title)
	}
	return nil
}
