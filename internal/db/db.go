// Package db persists extraction reports to PostgreSQL.
package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/edge-workspace-links/internal/types"
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// EnsureSchema creates the report tables if they do not exist yet.
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}

// SaveReport stores a report in one transaction: the run, its per-file
// summaries and every link row. Saving the same run ID twice replaces it.
func (db *DB) SaveReport(ctx context.Context, r *types.Report) error {
	if r == nil {
		return errors.New("no report to save")
	}

	summary, err := json.Marshal(r.Summary)
	if err != nil {
		return fmt.Errorf("failed to marshal summary: %w", err)
	}

	tx, err := db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM link_runs WHERE id = $1`, r.RunID); err != nil {
		return fmt.Errorf("failed to replace run %s: %w", r.RunID, err)
	}

	_, err = tx.Exec(ctx,
		`INSERT INTO link_runs (id, input, mode, exclude_internal, exclude_schemes, sorted, generated_at, summary)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		r.RunID, r.Input, string(r.Options.Mode), r.Options.ExcludeInternal,
		nonNil(r.Options.ExcludeSchemes), r.Options.Sort, r.GeneratedAt, summary,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	if len(r.Files) > 0 {
		batch := &pgx.Batch{}
		for _, f := range r.Files {
			batch.Queue(
				`INSERT INTO workspace_files (run_id, workspace_file, open_tab_count, favorite_count, links_written, gzip_members, error)
				 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				r.RunID, f.WorkspaceFile, f.OpenTabCount, f.FavoriteCount, f.LinksWritten, f.MemberCount, nullIfEmpty(f.Err),
			)
		}
		br := tx.SendBatch(ctx, batch)
		for range r.Files {
			if _, err := br.Exec(); err != nil {
				_ = br.Close()
				return fmt.Errorf("failed to insert workspace file: %w", err)
			}
		}
		if err := br.Close(); err != nil {
			return fmt.Errorf("failed to insert workspace files: %w", err)
		}
	}

	if len(r.Rows) > 0 {
		n, err := tx.CopyFrom(ctx, pgx.Identifier{"workspace_links"}, linkColumns, pgx.CopyFromRows(linkCopyRows(r.RunID, r.Rows)))
		if err != nil {
			return fmt.Errorf("failed to copy links: %w", err)
		}
		if int(n) != len(r.Rows) {
			return fmt.Errorf("copied %d of %d links", n, len(r.Rows))
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit report: %w", err)
	}
	return nil
}

// GetRun retrieves a stored run by ID. Returns nil when it does not exist.
func (db *DB) GetRun(ctx context.Context, runID uuid.UUID) (*Run, error) {
	var run Run
	var summary []byte
	err := db.pool.QueryRow(ctx,
		`SELECT id, input, mode, exclude_internal, exclude_schemes, sorted, generated_at, summary, created_at
		 FROM link_runs WHERE id = $1`,
		runID,
	).Scan(&run.ID, &run.Input, &run.Mode, &run.ExcludeInternal, &run.ExcludeSchemes,
		&run.Sorted, &run.GeneratedAt, &summary, &run.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get run: %w", err)
	}
	if err := json.Unmarshal(summary, &run.Summary); err != nil {
		return nil, fmt.Errorf("failed to decode run summary: %w", err)
	}
	return &run, nil
}

// ListRuns retrieves recent runs, newest first
func (db *DB) ListRuns(ctx context.Context, limit int) ([]Run, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.pool.Query(ctx,
		`SELECT id, input, mode, exclude_internal, exclude_schemes, sorted, generated_at, summary, created_at
		 FROM link_runs ORDER BY created_at DESC LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		var run Run
		var summary []byte
		if err := rows.Scan(&run.ID, &run.Input, &run.Mode, &run.ExcludeInternal, &run.ExcludeSchemes,
			&run.Sorted, &run.GeneratedAt, &summary, &run.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		if err := json.Unmarshal(summary, &run.Summary); err != nil {
			return nil, fmt.Errorf("failed to decode run summary: %w", err)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LinkFilters holds optional filters for listing links
type LinkFilters struct {
	RunID         uuid.UUID
	WorkspaceFile string
	Source        types.RecordKind
	Limit         int
}

// ListLinks retrieves stored links in insertion order with optional filters
func (db *DB) ListLinks(ctx context.Context, filters LinkFilters) ([]types.ReportRow, error) {
	query, args := buildLinkQuery(filters)

	rows, err := db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}
	defer rows.Close()

	var links []types.ReportRow
	for rows.Next() {
		var l types.ReportRow
		var source string
		if err := rows.Scan(&l.WorkspaceFile, &source, &l.URL, &l.Title); err != nil {
			return nil, fmt.Errorf("failed to scan link: %w", err)
		}
		l.Source = types.RecordKind(source)
		links = append(links, l)
	}
	return links, rows.Err()
}

// ListFiles retrieves the per-file summaries stored for a run
func (db *DB) ListFiles(ctx context.Context, runID uuid.UUID) ([]types.FileSummary, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT workspace_file, open_tab_count, favorite_count, links_written, gzip_members, COALESCE(error, '')
		 FROM workspace_files WHERE run_id = $1 ORDER BY id`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list workspace files: %w", err)
	}
	defer rows.Close()

	var files []types.FileSummary
	for rows.Next() {
		var f types.FileSummary
		if err := rows.Scan(&f.WorkspaceFile, &f.OpenTabCount, &f.FavoriteCount, &f.LinksWritten, &f.MemberCount, &f.Err); err != nil {
			return nil, fmt.Errorf("failed to scan workspace file: %w", err)
		}
		files = append(files, f)
	}
	return files, rows.Err()
}

// DeleteRun deletes a run and its files and links (via cascade)
func (db *DB) DeleteRun(ctx context.Context, runID uuid.UUID) error {
	result, err := db.pool.Exec(ctx, `DELETE FROM link_runs WHERE id = $1`, runID)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}
	if result.RowsAffected() == 0 {
		return fmt.Errorf("run not found: %s", runID)
	}
	return nil
}

func buildLinkQuery(filters LinkFilters) (string, []any) {
	query := `SELECT workspace_file, source, url, title FROM workspace_links WHERE 1=1`
	args := []any{}
	argNum := 1

	if filters.RunID != uuid.Nil {
		query += fmt.Sprintf(" AND run_id = $%d", argNum)
		args = append(args, filters.RunID)
		argNum++
	}
	if filters.WorkspaceFile != "" {
		query += fmt.Sprintf(" AND workspace_file = $%d", argNum)
		args = append(args, filters.WorkspaceFile)
		argNum++
	}
	if filters.Source != "" {
		query += fmt.Sprintf(" AND source = $%d", argNum)
		args = append(args, string(filters.Source))
		argNum++
	}

	query += " ORDER BY id"
	if filters.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d", argNum)
		args = append(args, filters.Limit)
	}
	return query, args
}

func linkCopyRows(runID uuid.UUID, rows []types.ReportRow) [][]any {
	out := make([][]any, len(rows))
	for i, r := range rows {
		out[i] = []any{runID, i, r.WorkspaceFile, string(r.Source), r.URL, r.Title}
	}
	return out
}

func nullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
