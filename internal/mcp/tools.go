package mcp

import (
	"context"
	"fmt"
	"strings"
	"time"

	sdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"lorekeeper/internal/engine"
	"lorekeeper/internal/session"
	"lorekeeper/internal/snapshot"
	"lorekeeper/internal/store"
)

type ApplyEventsInput struct {
	BatchID string `json:"batch_id,omitempty" jsonschema:"idempotency key; a new id is generated when empty"`
	Output  string `json:"output,omitempty" jsonschema:"full narrator response, with an EVENTS: section"`
	Events  string `json:"events,omitempty" jsonschema:"events section only, usually a JSON array"`
	DryRun  bool   `json:"dry_run,omitempty" jsonschema:"report outcomes without changing the world"`
}

type GetSnapshotInput struct{}

type GetContextInput struct {
	Topics []string `json:"topics,omitempty" jsonschema:"topics to render, such as party, quests or a section name; empty means all"`
}

type ListBatchesInput struct {
	Limit       int  `json:"limit,omitempty" jsonschema:"maximum number of batches, newest first"`
	AllSessions bool `json:"all_sessions,omitempty" jsonschema:"include batches from other sessions"`
}

type GetOutcomesInput struct {
	BatchID string `json:"batch_id" jsonschema:"batch to read"`
}

type OutcomeOutput struct {
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Type    string `json:"type,omitempty"`
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Payload string `json:"payload,omitempty"`
}

type ApplyEventsOutput struct {
	BatchID      string          `json:"batch_id"`
	DryRun       bool            `json:"dry_run,omitempty"`
	Applied      int             `json:"applied"`
	Rejected     int             `json:"rejected"`
	Deferred     int             `json:"deferred"`
	Outcomes     []OutcomeOutput `json:"outcomes"`
	ParseProblem string          `json:"parse_problem,omitempty"`
	Context      string          `json:"context,omitempty"`
}

type GetSnapshotOutput struct {
	SessionID string            `json:"session_id"`
	Snapshot  snapshot.Snapshot `json:"snapshot"`
}

type GetContextOutput struct {
	Text string `json:"text"`
}

type BatchOutput struct {
	BatchID   string `json:"batch_id"`
	SessionID string `json:"session_id"`
	Applied   int    `json:"applied"`
	Rejected  int    `json:"rejected"`
	Deferred  int    `json:"deferred"`
	CreatedAt string `json:"created_at"`
}

type ListBatchesOutput struct {
	Batches []BatchOutput `json:"batches"`
}

type GetOutcomesOutput struct {
	Outcomes []OutcomeOutput `json:"outcomes"`
}

func (s *Server) registerTools() {
	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "apply_events",
		Description: "Validate and apply the events proposed by a narrator response",
	}, s.handleApplyEvents)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_snapshot",
		Description: "Return a read-only snapshot of the world",
	}, s.handleGetSnapshot)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_context",
		Description: "Render world context for the prompt builder",
	}, s.handleGetContext)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "list_batches",
		Description: "List journaled batches, newest first",
	}, s.handleListBatches)

	sdk.AddTool(s.mcp, &sdk.Tool{
		Name:        "get_outcomes",
		Description: "Return the per-event outcomes of a journaled batch",
	}, s.handleGetOutcomes)
}

func (s *Server) handleApplyEvents(ctx context.Context, req *sdk.CallToolRequest, input ApplyEventsInput) (*sdk.CallToolResult, ApplyEventsOutput, error) {
	if strings.TrimSpace(input.Output) == "" && strings.TrimSpace(input.Events) == "" {
		return nil, ApplyEventsOutput{}, fmt.Errorf("output or events is required")
	}
	in := session.TurnInput{BatchID: input.BatchID, Output: input.Output, Events: input.Events}

	if input.DryRun {
		out := applyOutputFromResult(s.session.DryRun(ctx, in))
		out.DryRun = true
		return nil, out, nil
	}
	result, err := s.session.Turn(ctx, in)
	if err != nil {
		return nil, ApplyEventsOutput{}, err
	}
	return nil, applyOutputFromResult(result), nil
}

func (s *Server) handleGetSnapshot(ctx context.Context, req *sdk.CallToolRequest, input GetSnapshotInput) (*sdk.CallToolResult, GetSnapshotOutput, error) {
	return nil, GetSnapshotOutput{SessionID: s.session.ID(), Snapshot: s.session.Snapshot()}, nil
}

func (s *Server) handleGetContext(ctx context.Context, req *sdk.CallToolRequest, input GetContextInput) (*sdk.CallToolResult, GetContextOutput, error) {
	return nil, GetContextOutput{Text: s.session.Context(input.Topics...)}, nil
}

func (s *Server) handleListBatches(ctx context.Context, req *sdk.CallToolRequest, input ListBatchesInput) (*sdk.CallToolResult, ListBatchesOutput, error) {
	if s.history == nil {
		return nil, ListBatchesOutput{}, fmt.Errorf("no journal configured")
	}
	sessionID := s.session.ID()
	if input.AllSessions {
		sessionID = ""
	}
	batches, err := s.history.ListBatches(ctx, sessionID, input.Limit)
	if err != nil {
		return nil, ListBatchesOutput{}, err
	}

	output := make([]BatchOutput, 0, len(batches))
	for _, b := range batches {
		output = append(output, batchOutputFromStore(b))
	}
	return nil, ListBatchesOutput{Batches: output}, nil
}

func (s *Server) handleGetOutcomes(ctx context.Context, req *sdk.CallToolRequest, input GetOutcomesInput) (*sdk.CallToolResult, GetOutcomesOutput, error) {
	if strings.TrimSpace(input.BatchID) == "" {
		return nil, GetOutcomesOutput{}, fmt.Errorf("batch_id is required")
	}
	if s.history == nil {
		return nil, GetOutcomesOutput{}, fmt.Errorf("no journal configured")
	}
	outcomes, err := s.history.ListOutcomes(ctx, input.BatchID)
	if err != nil {
		return nil, GetOutcomesOutput{}, err
	}
	if len(outcomes) == 0 {
		return nil, GetOutcomesOutput{}, fmt.Errorf("batch not found: %s", input.BatchID)
	}

	output := make([]OutcomeOutput, 0, len(outcomes))
	for _, o := range outcomes {
		output = append(output, OutcomeOutput{
			Index:   o.Index,
			Kind:    o.Kind,
			Type:    o.Type,
			Status:  o.Status,
			Code:    o.Code,
			Message: o.Message,
			Payload: o.Payload,
		})
	}
	return nil, GetOutcomesOutput{Outcomes: output}, nil
}

func applyOutputFromResult(result *session.TurnResult) ApplyEventsOutput {
	out := ApplyEventsOutput{
		BatchID:      result.BatchID,
		Applied:      result.Report.Counts.Applied,
		Rejected:     result.Report.Counts.Rejected,
		Deferred:     result.Report.Counts.Deferred,
		Outcomes:     make([]OutcomeOutput, 0, len(result.Report.Outcomes)),
		ParseProblem: result.ParseProblem,
		Context:      result.Context,
	}
	for _, o := range result.Report.Outcomes {
		out.Outcomes = append(out.Outcomes, outcomeOutputFromEngine(o))
	}
	return out
}

func outcomeOutputFromEngine(o engine.Outcome) OutcomeOutput {
	return OutcomeOutput{
		Index:   o.Index,
		Kind:    string(o.Kind),
		Type:    o.Type,
		Status:  string(o.Status),
		Code:    string(o.Code),
		Message: o.Message,
	}
}

func batchOutputFromStore(b store.Batch) BatchOutput {
	return BatchOutput{
		BatchID:   b.ID,
		SessionID: b.SessionID,
		Applied:   b.Applied,
		Rejected:  b.Rejected,
		Deferred:  b.Deferred,
		CreatedAt: b.CreatedAt.UTC().Format(time.RFC3339),
	}
}
