package sqlite

import (
	"context"
	"fmt"
	"strings"
)

const ddl = `
CREATE TABLE IF NOT EXISTS batches (
	seq          INTEGER PRIMARY KEY AUTOINCREMENT,
	batch_id     TEXT NOT NULL UNIQUE,
	session_id   TEXT NOT NULL,
	payload_hash TEXT NOT NULL DEFAULT '',
	applied      INTEGER NOT NULL DEFAULT 0,
	rejected     INTEGER NOT NULL DEFAULT 0,
	deferred     INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS outcomes (
	batch_id   TEXT NOT NULL REFERENCES batches(batch_id) ON DELETE CASCADE,
	idx        INTEGER NOT NULL,
	kind       TEXT NOT NULL,
	event_type TEXT NOT NULL DEFAULT '',
	status     TEXT NOT NULL,
	code       TEXT NOT NULL DEFAULT '',
	message    TEXT NOT NULL DEFAULT '',
	payload    TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (batch_id, idx)
);

CREATE TABLE IF NOT EXISTS checkpoints (
	session_id TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	saved_at   TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_batches_session ON batches (session_id, seq);
CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes (status);
CREATE INDEX IF NOT EXISTS idx_outcomes_kind ON outcomes (kind);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range splitStatements(ddl) {
		stmt = strings.TrimSpace(stmt)
		if stmt == "" {
			continue
		}
		if _, err := tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("executing DDL: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing schema transaction: %w", err)
	}
	return nil
}

func splitStatements(ddl string) []string {
	var statements []string
	var current strings.Builder

	for line := range strings.Lines(ddl) {
		stripped := strings.TrimSpace(line)
		if strings.HasPrefix(stripped, "--") {
			continue
		}
		current.WriteString(line)

		if strings.HasSuffix(stripped, ";") {
			statements = append(statements, current.String())
			current.Reset()
		}
	}
	if current.Len() > 0 {
		statements = append(statements, current.String())
	}
	return statements
}
