package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/jonathan/edge-workspace-links/internal/config"
	"github.com/jonathan/edge-workspace-links/internal/db"
	"github.com/jonathan/edge-workspace-links/internal/filter"
	"github.com/jonathan/edge-workspace-links/internal/ingestion"
	"github.com/jonathan/edge-workspace-links/internal/logging"
	"github.com/jonathan/edge-workspace-links/internal/observability"
	"github.com/jonathan/edge-workspace-links/internal/pipeline"
	"github.com/jonathan/edge-workspace-links/internal/report"
	"github.com/jonathan/edge-workspace-links/internal/types"
)

type extractOptions struct {
	configPath      string
	input           string
	output          string
	format          string
	mode            string
	pattern         string
	excludeSchemes  []string
	excludeInternal bool
	sort            bool
	recursive       bool
	workers         int
	maxPayloadMB    int
	verbose         bool
	logLevel        string
	logFile         string
	databaseURL     string
}

func newExtractCmd() *cobra.Command {
	opts := &extractOptions{}
	cmd := &cobra.Command{
		Use:   "extract",
		Short: "Extract links from workspace files into a report",
		Long: `Scans a .edge file, or every .edge file in a directory, and writes the open
tabs and workspace favorites it finds to a report.

Configuration can be loaded from a YAML or JSON file using --config and from
EDGE_LINKS_* environment variables. Command-line flags override config file
values, which override the environment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExtract(cmd, opts)
		},
	}
	addExtractFlags(cmd, opts)
	return cmd
}

func addExtractFlags(cmd *cobra.Command, o *extractOptions) {
	f := cmd.Flags()
	f.StringVar(&o.configPath, "config", "", "Path to a YAML or JSON config file (values can be overridden by other flags)")

	f.StringVarP(&o.input, "input", "i", ".", "Path to a .edge file or a directory containing .edge files")
	f.StringVarP(&o.output, "output", "o", "", "Output file path (default: edge_workspace_links.<format> next to the input)")
	f.StringVarP(&o.format, "format", "f", "xlsx", "Output format: xlsx, csv, tsv, json or html (inferred from --output when not set)")
	f.StringVar(&o.mode, "mode", "both", "What to export: both, tabs or favorites")
	f.StringVar(&o.pattern, "pattern", ingestion.DefaultPattern, "File name pattern used when --input is a directory")
	f.StringSliceVar(&o.excludeSchemes, "exclude-schemes", nil, "URL schemes to exclude (example: edge,chrome,file)")
	f.BoolVar(&o.excludeInternal, "exclude-internal", false, "Exclude internal browser URLs (about, chrome, edge, file, microsoft-edge)")
	f.BoolVar(&o.sort, "sort", false, "Sort output rows by workspace file and URL")
	f.BoolVarP(&o.recursive, "recursive", "r", false, "Search subdirectories of --input")
	f.IntVarP(&o.workers, "workers", "w", 0, "Number of files processed in parallel (default: number of CPUs)")
	f.IntVar(&o.maxPayloadMB, "max-payload-mb", 0, "Largest decompressed gzip member accepted, in MiB (default: 256)")
	f.BoolVarP(&o.verbose, "verbose", "v", false, "Print a summary box per workspace file")
	f.StringVar(&o.logLevel, "log-level", "", "Log level: debug, info, warn or error (default: info)")
	f.StringVar(&o.logFile, "log-file", "", "Also write logs to this file, rotated by size")

	// Database URL for report persistence
	f.StringVar(&o.databaseURL, "db-url", "", "PostgreSQL connection URL (optional, defaults to DATABASE_URL env var)")
}

// resolveConfig layers flags over the config file over the environment over
// built-in defaults, then validates the result.
func resolveConfig(cmd *cobra.Command, o *extractOptions) (config.Config, error) {
	var cfg config.Config
	if o.configPath != "" {
		loaded, err := config.LoadConfig(o.configPath)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if err := loaded.Validate(); err != nil {
			return config.Config{}, err
		}
		cfg = *loaded
	}

	env, err := config.FromEnv()
	if err != nil {
		return config.Config{}, err
	}
	cfg = cfg.MergeWithDefaults(env)

	// Only override if the flag was explicitly set
	flags := cmd.Flags()
	if flags.Changed("input") {
		cfg.Input = o.input
	}
	if flags.Changed("output") {
		cfg.Output = o.output
	}
	if flags.Changed("format") {
		cfg.Format = o.format
	}
	if cfg.Format == "" && cfg.Output != "" {
		if f, ok := report.FormatFromPath(cfg.Output); ok {
			cfg.Format = f.String()
		}
	}
	if flags.Changed("mode") {
		cfg.Mode = o.mode
	}
	if flags.Changed("pattern") {
		cfg.Pattern = o.pattern
	}
	if flags.Changed("exclude-schemes") {
		cfg.ExcludeSchemes = o.excludeSchemes
	}
	if flags.Changed("exclude-internal") {
		cfg.ExcludeInternal = config.Bool(o.excludeInternal)
	}
	if flags.Changed("sort") {
		cfg.Sort = config.Bool(o.sort)
	}
	if flags.Changed("recursive") {
		cfg.Recursive = config.Bool(o.recursive)
	}
	if flags.Changed("workers") {
		cfg.Workers = o.workers
	}
	if flags.Changed("max-payload-mb") {
		cfg.MaxPayloadMB = o.maxPayloadMB
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = o.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = o.logFile
	}
	if flags.Changed("db-url") {
		cfg.DatabaseURL = o.databaseURL
	}

	cfg = cfg.MergeWithDefaults(config.Defaults())
	if err := cfg.Validate(); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

//nolint:errcheck // writing to the console; errors are not recoverable
func runExtract(cmd *cobra.Command, o *extractOptions) error {
	ctx, stop := signal.NotifyContext(cmdContext(cmd), os.Interrupt)
	defer stop()

	stderr := cmd.ErrOrStderr()

	cfg, err := resolveConfig(cmd, o)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Setup(cfg.LogLevel, cfg.LogFile, stderr)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer closer.Close()

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}
	mode, err := types.ParseMode(cfg.Mode)
	if err != nil {
		return err
	}

	paths, err := ingestion.Discover(cfg.Input, ingestion.DiscoverOptions{
		Pattern:   cfg.Pattern,
		Recursive: config.BoolValue(cfg.Recursive),
	})
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		return fmt.Errorf("no files matching %s found in %s", cfg.Pattern, cfg.Input)
	}
	if o.verbose {
		fmt.Fprintf(stderr, "Found %d workspace file(s) in %s\n", len(paths), cfg.Input)
	}

	rep, err := pipeline.Run(ctx, paths, pipeline.RunOptions{
		Options: pipeline.Options{
			Filter: filter.Options{
				Mode:            mode,
				ExcludeInternal: config.BoolValue(cfg.ExcludeInternal),
				ExcludeSchemes:  cfg.ExcludeSchemes,
				Sort:            config.BoolValue(cfg.Sort),
			},
			MaxPayloadSize: int64(cfg.MaxPayloadMB) << 20,
			Logger:         logger,
		},
		Input:      cfg.Input,
		Workers:    cfg.Workers,
		OnProgress: progressPrinter(stderr, o.verbose),
	})
	if err != nil {
		return err
	}

	if o.verbose {
		printReport(observability.NewPrinter(stderr), rep)
	}

	outPath := report.ResolveOutputPath(cfg.Input, cfg.Output, format)
	if err := report.Write(outPath, format, rep); err != nil {
		return err
	}
	for _, extra := range report.CompanionPaths(outPath, format) {
		fmt.Fprintf(stderr, "Wrote %s\n", extra)
	}

	if cfg.DatabaseURL != "" {
		if err := saveReport(ctx, cfg.DatabaseURL, rep); err != nil {
			return err
		}
		fmt.Fprintf(stderr, "Saved run %s to database\n", rep.RunID)
	}

	if rep.Summary.LinksTotal == 0 {
		printTroubleshooting(stderr, rep)
	}

	fmt.Fprintf(stderr, "Wrote %d links from %d workspace file(s) to %s\n",
		rep.Summary.LinksTotal, len(paths), outPath)
	return nil
}

func cmdContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

//nolint:errcheck // writing to the console; errors are not recoverable
func progressPrinter(w io.Writer, verbose bool) pipeline.ProgressCallback {
	return func(e pipeline.ProgressEvent) {
		switch e.Step {
		case pipeline.StepFailed:
			fmt.Fprintf(w, "Skipping %s: %s\n", e.File, e.Message)
		case pipeline.StepProcess:
			if verbose {
				fmt.Fprintf(w, "Processed %s: %s\n", e.File, e.Message)
			}
		}
	}
}

func printReport(p *observability.Printer, rep *types.Report) {
	byFile := make(map[string][]types.ReportRow)
	for _, row := range rep.Rows {
		byFile[row.WorkspaceFile] = append(byFile[row.WorkspaceFile], row)
	}
	for _, fs := range rep.Files {
		p.PrintFileResult(&types.FileResult{Rows: byFile[fs.WorkspaceFile], Summary: fs})
	}
	p.PrintSummary(rep.Summary)
}

//nolint:errcheck // writing to the console; errors are not recoverable
func printTroubleshooting(w io.Writer, rep *types.Report) {
	noMembers := 0
	for _, f := range rep.Files {
		if !f.Failed() && f.MemberCount == 0 {
			noMembers++
		}
	}
	fmt.Fprintln(w, "No links were found.")
	if noMembers > 0 {
		fmt.Fprintf(w, "  %d file(s) contained no gzip data; check that they are Edge Workspace files.\n", noMembers)
	}
	fmt.Fprintln(w, "  Open the workspace in Edge and let it sync before exporting the .edge file.")
	fmt.Fprintln(w, "  Check --mode, --exclude-schemes and --exclude-internal; they may remove every link.")
	fmt.Fprintln(w, "  Workspace share links are not stored as URLs and cannot be recovered.")
}

func saveReport(ctx context.Context, databaseURL string, rep *types.Report) error {
	database, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	if err := database.EnsureSchema(ctx); err != nil {
		return err
	}
	return database.SaveReport(ctx, rep)
}
