// Package postgres implements store.Store on PostgreSQL through pgx.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sethvargo/go-retry"

	"lorekeeper/internal/store"
)

var _ store.Store = (*Client)(nil)

// Pool is the subset of *pgxpool.Pool the client uses.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
	Ping(ctx context.Context) error
	Close()
}

type Client struct {
	pool Pool
}

const (
	pingRetries = 5
	pingBackoff = 200 * time.Millisecond
)

func New(ctx context.Context, dsn string) (*Client, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("creating postgres pool: %w", err)
	}
	if err := ping(ctx, pool, pingRetries, pingBackoff); err != nil {
		pool.Close()
		return nil, err
	}
	return &Client{pool: pool}, nil
}

// NewWithPool wraps an existing pool.
func NewWithPool(pool Pool) *Client {
	return &Client{pool: pool}
}

// ping makes up to retries+1 attempts with exponential backoff.
func ping(ctx context.Context, pool Pool, retries uint64, base time.Duration) error {
	b := retry.WithMaxRetries(retries, retry.NewExponential(base))
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		if err := pool.Ping(ctx); err != nil {
			return retry.RetryableError(err)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("pinging postgres: %w", err)
	}
	return nil
}

func (c *Client) Close(_ context.Context) error {
	c.pool.Close()
	return nil
}
