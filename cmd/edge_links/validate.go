package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jonathan/edge-workspace-links/internal/schemas"
	reportschemas "github.com/jonathan/edge-workspace-links/schemas"
)

type validateOptions struct {
	schemaPath string
}

func newValidateCmd() *cobra.Command {
	opts := &validateOptions{}
	cmd := &cobra.Command{
		Use:   "validate <report.json>...",
		Short: "Check JSON reports against the report schema",
		Long: `Validates JSON reports written by "extract --format json". The schema built
into the binary is used unless --schema names another copy.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, args, opts)
		},
	}

	cmd.Flags().StringVar(&opts.schemaPath, "schema", "", "Path to a report schema file (default: built-in schema)")
	return cmd
}

//nolint:errcheck // writing to the console; errors are not recoverable
func runValidate(cmd *cobra.Command, args []string, o *validateOptions) error {
	schemaPath := ""
	if o.schemaPath != "" {
		schemaPath = schemas.ResolveSchemaPath(o.schemaPath)
		if schemaPath == "" {
			return fmt.Errorf("schema file not found: %s", o.schemaPath)
		}
	}

	out := cmd.OutOrStdout()
	failed := 0
	for _, path := range args {
		err := validateReport(path, schemaPath)
		var validationErr *schemas.ValidationError
		switch {
		case err == nil:
			fmt.Fprintf(out, "Validation passed: %s\n", path)
		case errors.As(err, &validationErr):
			failed++
			fmt.Fprintf(out, "Validation failed: %s\n", path)
			for _, fe := range validationErr.Errors {
				fmt.Fprintf(out, "  %s: %s\n", fe.Field, fe.Message)
			}
		default:
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d report(s) failed validation", failed, len(args))
	}
	return nil
}

func validateReport(path, schemaPath string) error {
	if schemaPath != "" {
		return schemas.ValidateJSON(schemaPath, path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read report: %w", err)
	}
	return schemas.ValidateBytes(reportschemas.ReportSchema, data)
}
