package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"lorekeeper/internal/store"
)

func (c *Client) HasBatch(ctx context.Context, batchID string) (bool, error) {
	var exists bool
	err := c.db.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM batches WHERE batch_id = ?)", batchID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("checking batch %s: %w", batchID, err)
	}
	return exists, nil
}

func (c *Client) RecordBatch(ctx context.Context, b store.Batch, outcomes []store.Outcome) error {
	tx, err := c.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	var exists bool
	if err := tx.QueryRowContext(ctx,
		"SELECT EXISTS (SELECT 1 FROM batches WHERE batch_id = ?)", b.ID,
	).Scan(&exists); err != nil {
		return fmt.Errorf("checking batch %s: %w", b.ID, err)
	}
	if exists {
		return fmt.Errorf("recording batch %s: %w", b.ID, store.ErrDuplicateBatch)
	}

	_, err = tx.ExecContext(ctx, `
	INSERT INTO batches (batch_id, session_id, payload_hash, applied, rejected, deferred, created_at)
	VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		b.ID,
		b.SessionID,
		b.PayloadHash,
		b.Applied,
		b.Rejected,
		b.Deferred,
		formatTime(b.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, `
	INSERT INTO outcomes (batch_id, idx, kind, event_type, status, code, message, payload)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("preparing outcome insert: %w", err)
	}
	defer stmt.Close()

	for _, o := range outcomes {
		if _, err := stmt.ExecContext(ctx, b.ID, o.Index, o.Kind, o.Type, o.Status, o.Code, o.Message, o.Payload); err != nil {
			return fmt.Errorf("inserting outcome %d: %w", o.Index, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

func (c *Client) ListBatches(ctx context.Context, sessionID string, limit int) ([]store.Batch, error) {
	query := `
	SELECT batch_id, session_id, payload_hash, applied, rejected, deferred, created_at
	FROM batches
	WHERE (? = '' OR session_id = ?)
	ORDER BY seq DESC
	`
	args := []any{sessionID, sessionID}
	if limit > 0 {
		query += "LIMIT ?"
		args = append(args, limit)
	}

	rows, err := c.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	batches := make([]store.Batch, 0)
	for rows.Next() {
		var b store.Batch
		var created string
		if err := rows.Scan(&b.ID, &b.SessionID, &b.PayloadHash, &b.Applied, &b.Rejected, &b.Deferred, &created); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		if b.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}
	return batches, nil
}

func (c *Client) ListOutcomes(ctx context.Context, batchID string) ([]store.Outcome, error) {
	rows, err := c.db.QueryContext(ctx, `
	SELECT batch_id, idx, kind, event_type, status, code, message, payload
	FROM outcomes
	WHERE batch_id = ?
	ORDER BY idx
	`, batchID)
	if err != nil {
		return nil, fmt.Errorf("listing outcomes: %w", err)
	}
	defer rows.Close()

	outcomes := make([]store.Outcome, 0)
	for rows.Next() {
		var o store.Outcome
		if err := rows.Scan(&o.BatchID, &o.Index, &o.Kind, &o.Type, &o.Status, &o.Code, &o.Message, &o.Payload); err != nil {
			return nil, fmt.Errorf("scanning outcome: %w", err)
		}
		outcomes = append(outcomes, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating outcomes: %w", err)
	}
	return outcomes, nil
}

func (c *Client) SaveCheckpoint(ctx context.Context, cp store.Checkpoint) error {
	_, err := c.db.ExecContext(ctx, `
	INSERT INTO checkpoints (session_id, data, saved_at)
	VALUES (?, ?, ?)
	ON CONFLICT (session_id) DO UPDATE SET
		data = excluded.data,
		saved_at = excluded.saved_at
	`, cp.SessionID, string(cp.Data), formatTime(cp.SavedAt))
	if err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

func (c *Client) LoadCheckpoint(ctx context.Context, sessionID string) (*store.Checkpoint, error) {
	var data, saved string
	err := c.db.QueryRowContext(ctx,
		"SELECT data, saved_at FROM checkpoints WHERE session_id = ?", sessionID,
	).Scan(&data, &saved)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("loading checkpoint %s: %w", sessionID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint %s: %w", sessionID, err)
	}

	savedAt, err := parseTime(saved)
	if err != nil {
		return nil, err
	}
	return &store.Checkpoint{SessionID: sessionID, Data: []byte(data), SavedAt: savedAt}, nil
}
