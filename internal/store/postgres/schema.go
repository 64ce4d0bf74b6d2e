package postgres

import (
	"context"
	"fmt"
)

// The DDL runs as one statement, which PostgreSQL applies in an implicit
// transaction.
const ddl = `
CREATE TABLE IF NOT EXISTS batches (
    seq          BIGINT GENERATED ALWAYS AS IDENTITY PRIMARY KEY,
    batch_id     TEXT NOT NULL UNIQUE,
    session_id   TEXT NOT NULL,
    payload_hash TEXT NOT NULL DEFAULT '',
    applied      INTEGER NOT NULL DEFAULT 0,
    rejected     INTEGER NOT NULL DEFAULT 0,
    deferred     INTEGER NOT NULL DEFAULT 0,
    created_at   TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS outcomes (
    batch_id   TEXT NOT NULL REFERENCES batches(batch_id) ON DELETE CASCADE,
    idx        INTEGER NOT NULL,
    kind       TEXT NOT NULL,
    event_type TEXT NOT NULL DEFAULT '',
    status     TEXT NOT NULL,
    code       TEXT NOT NULL DEFAULT '',
    message    TEXT NOT NULL DEFAULT '',
    payload    JSONB,
    PRIMARY KEY (batch_id, idx)
);

CREATE TABLE IF NOT EXISTS checkpoints (
    session_id TEXT PRIMARY KEY,
    data       JSONB NOT NULL,
    saved_at   TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_batches_session ON batches (session_id, seq);
CREATE INDEX IF NOT EXISTS idx_outcomes_status ON outcomes (status);
CREATE INDEX IF NOT EXISTS idx_outcomes_kind ON outcomes (kind);
`

func (c *Client) EnsureSchema(ctx context.Context) error {
	if _, err := c.pool.Exec(ctx, ddl); err != nil {
		return fmt.Errorf("ensuring schema: %w", err)
	}
	return nil
}
