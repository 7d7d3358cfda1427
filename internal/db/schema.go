package db

// linkColumns is the column order used when copying links.
var linkColumns = []string{"run_id", "position", "workspace_file", "source", "url", "title"}

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS link_runs (
		id               UUID PRIMARY KEY,
		input            TEXT NOT NULL DEFAULT '',
		mode             TEXT NOT NULL CHECK (mode IN ('tabs', 'favorites', 'both')),
		exclude_internal BOOLEAN NOT NULL DEFAULT FALSE,
		exclude_schemes  TEXT[] NOT NULL DEFAULT '{}',
		sorted           BOOLEAN NOT NULL DEFAULT FALSE,
		generated_at     TIMESTAMPTZ NOT NULL,
		summary          JSONB NOT NULL,
		created_at       TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS workspace_files (
		id             BIGSERIAL PRIMARY KEY,
		run_id         UUID NOT NULL REFERENCES link_runs(id) ON DELETE CASCADE,
		workspace_file TEXT NOT NULL,
		open_tab_count INTEGER NOT NULL,
		favorite_count INTEGER NOT NULL,
		links_written  INTEGER NOT NULL,
		gzip_members   INTEGER NOT NULL,
		error          TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS workspace_links (
		id             BIGSERIAL PRIMARY KEY,
		run_id         UUID NOT NULL REFERENCES link_runs(id) ON DELETE CASCADE,
		position       INTEGER NOT NULL,
		workspace_file TEXT NOT NULL,
		source         TEXT NOT NULL CHECK (source IN ('tab', 'favorite')),
		url            TEXT NOT NULL,
		title          TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workspace_links_run ON workspace_links (run_id, position)`,
	`CREATE INDEX IF NOT EXISTS idx_workspace_links_url ON workspace_links (url)`,
}
