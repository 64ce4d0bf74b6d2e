package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"lorekeeper/internal/store"
)

const (
	existsBatchSQL = `SELECT EXISTS (SELECT 1 FROM batches WHERE batch_id = $1)`

	insertBatchSQL = `
INSERT INTO batches (batch_id, session_id, payload_hash, applied, rejected, deferred, created_at)
VALUES ($1, $2, $3, $4, $5, $6, $7)`

	insertOutcomeSQL = `
INSERT INTO outcomes (batch_id, idx, kind, event_type, status, code, message, payload)
VALUES ($1, $2, $3, $4, $5, $6, $7, NULLIF($8, '')::jsonb)`

	listBatchesSQL = `
SELECT batch_id, session_id, payload_hash, applied, rejected, deferred, created_at
FROM batches
WHERE ($1 = '' OR session_id = $1)
ORDER BY seq DESC`

	listOutcomesSQL = `
SELECT batch_id, idx, kind, event_type, status, code, message, COALESCE(payload::text, '')
FROM outcomes
WHERE batch_id = $1
ORDER BY idx`

	saveCheckpointSQL = `
INSERT INTO checkpoints (session_id, data, saved_at)
VALUES ($1, $2, $3)
ON CONFLICT (session_id) DO UPDATE SET
    data = EXCLUDED.data,
    saved_at = EXCLUDED.saved_at`

	loadCheckpointSQL = `SELECT data::text, saved_at FROM checkpoints WHERE session_id = $1`
)

func (c *Client) HasBatch(ctx context.Context, batchID string) (bool, error) {
	var exists bool
	if err := c.pool.QueryRow(ctx, existsBatchSQL, batchID).Scan(&exists); err != nil {
		return false, fmt.Errorf("checking batch %s: %w", batchID, err)
	}
	return exists, nil
}

func (c *Client) RecordBatch(ctx context.Context, b store.Batch, outcomes []store.Outcome) error {
	tx, err := c.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	if err := recordBatch(ctx, tx, b, outcomes); err != nil {
		_ = tx.Rollback(ctx)
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("committing batch: %w", err)
	}
	return nil
}

func recordBatch(ctx context.Context, tx pgx.Tx, b store.Batch, outcomes []store.Outcome) error {
	var exists bool
	if err := tx.QueryRow(ctx, existsBatchSQL, b.ID).Scan(&exists); err != nil {
		return fmt.Errorf("checking batch %s: %w", b.ID, err)
	}
	if exists {
		return fmt.Errorf("recording batch %s: %w", b.ID, store.ErrDuplicateBatch)
	}

	_, err := tx.Exec(ctx, insertBatchSQL,
		b.ID,
		b.SessionID,
		b.PayloadHash,
		b.Applied,
		b.Rejected,
		b.Deferred,
		b.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("inserting batch: %w", err)
	}

	for _, o := range outcomes {
		_, err := tx.Exec(ctx, insertOutcomeSQL, b.ID, o.Index, o.Kind, o.Type, o.Status, o.Code, o.Message, o.Payload)
		if err != nil {
			return fmt.Errorf("inserting outcome %d: %w", o.Index, err)
		}
	}
	return nil
}

func (c *Client) ListBatches(ctx context.Context, sessionID string, limit int) ([]store.Batch, error) {
	query := listBatchesSQL
	args := []any{sessionID}
	if limit > 0 {
		query += "\nLIMIT $2"
		args = append(args, limit)
	}

	rows, err := c.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("listing batches: %w", err)
	}
	defer rows.Close()

	batches := make([]store.Batch, 0)
	for rows.Next() {
		var b store.Batch
		if err := rows.Scan(&b.ID, &b.SessionID, &b.PayloadHash, &b.Applied, &b.Rejected, &b.Deferred, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning batch: %w", err)
		}
		batches = append(batches, b)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating batches: %w", err)
	}
	return batches, nil
}

func (c *Client) ListOutcomes(ctx context.Context, batchID string) ([]store.Outcome, error) {
	rows, err := c.pool.Query(ctx, listOutcomesSQL, batchID)
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
	if _, err := c.pool.Exec(ctx, saveCheckpointSQL, cp.SessionID, string(cp.Data), cp.SavedAt); err != nil {
		return fmt.Errorf("saving checkpoint: %w", err)
	}
	return nil
}

func (c *Client) LoadCheckpoint(ctx context.Context, sessionID string) (*store.Checkpoint, error) {
	cp := store.Checkpoint{SessionID: sessionID}
	var data string
	err := c.pool.QueryRow(ctx, loadCheckpointSQL, sessionID).Scan(&data, &cp.SavedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("loading checkpoint %s: %w", sessionID, store.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("loading checkpoint %s: %w", sessionID, err)
	}
	cp.Data = []byte(data)
	return &cp, nil
}
