// Package mcp exposes a running session to MCP clients over stdio.
package mcp

import (
	"context"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"lorekeeper/internal/session"
	"lorekeeper/internal/snapshot"
	"lorekeeper/internal/store"
)

// Turner is the session the server drives.
type Turner interface {
	ID() string
	Turn(ctx context.Context, in session.TurnInput) (*session.TurnResult, error)
	DryRun(ctx context.Context, in session.TurnInput) *session.TurnResult
	Snapshot() snapshot.Snapshot
	Context(topics ...string) string
}

// History reads the batch journal. It may be nil.
type History interface {
	ListBatches(ctx context.Context, sessionID string, limit int) ([]store.Batch, error)
	ListOutcomes(ctx context.Context, batchID string) ([]store.Outcome, error)
}

type Server struct {
	session Turner
	history History
	mcp     *sdk.Server
}

func NewServer(sess Turner, history History, version string) *Server {
	s := &Server{
		session: sess,
		history: history,
		mcp: sdk.NewServer(&sdk.Implementation{
			Name:    "lorekeeper",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) Run(ctx context.Context, transport sdk.Transport) error {
	return s.mcp.Run(ctx, transport)
}
