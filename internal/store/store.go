// Package store journals processed batches and session checkpoints.
package store

import (
	"context"
	"errors"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrDuplicateBatch = errors.New("batch already recorded")
)

// Store is the journal behind a session. Implementations live in the sqlite
// and postgres subpackages.
type Store interface {
	Close(ctx context.Context) error
	EnsureSchema(ctx context.Context) error

	// HasBatch reports whether batchID was already recorded.
	HasBatch(ctx context.Context, batchID string) (bool, error)
	// RecordBatch stores a batch and its outcomes in one transaction. It
	// returns ErrDuplicateBatch if the batch id is taken.
	RecordBatch(ctx context.Context, b Batch, outcomes []Outcome) error
	// ListBatches returns batches newest first. An empty sessionID matches
	// every session; limit <= 0 means no limit.
	ListBatches(ctx context.Context, sessionID string, limit int) ([]Batch, error)
	ListOutcomes(ctx context.Context, batchID string) ([]Outcome, error)

	SaveCheckpoint(ctx context.Context, c Checkpoint) error
	// LoadCheckpoint returns ErrNotFound when the session has none.
	LoadCheckpoint(ctx context.Context, sessionID string) (*Checkpoint, error)

	RunSQL(ctx context.Context, query string, params map[string]any) ([]map[string]any, error)
}
