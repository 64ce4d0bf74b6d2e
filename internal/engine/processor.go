package engine

import (
	"context"
	"log/slog"
	"sync"

	"lorekeeper/internal/event"
	"lorekeeper/internal/snapshot"
	"lorekeeper/internal/world"
)

// Batch is the ordered set of events proposed in one narrator turn.
type Batch struct {
	ID     string
	Events []event.Event
}

type Counts struct {
	Applied  int `json:"applied"`
	Rejected int `json:"rejected"`
	Deferred int `json:"deferred"`
}

func (c *Counts) add(s Status) {
	switch s {
	case StatusApplied:
		c.Applied++
	case StatusRejected:
		c.Rejected++
	case StatusDeferred:
		c.Deferred++
	}
}

// Report has exactly one outcome per batch event, in batch order. Snapshot
// reflects the state after the whole batch.
type Report struct {
	BatchID  string            `json:"batch_id"`
	Outcomes []Outcome         `json:"outcomes"`
	Counts   Counts            `json:"counts"`
	Snapshot snapshot.Snapshot `json:"snapshot"`
}

// Deferred returns the deferred outcomes, which the caller should surface
// again later.
func (r Report) Deferred() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if o.Status == StatusDeferred {
			out = append(out, o)
		}
	}
	return out
}

// Observer is told about every processed batch.
type Observer interface {
	ObserveOutcome(batchID string, o Outcome)
	ObserveBatch(batchID string, c Counts)
}

type Option func(*Processor)

func WithLogger(logger *slog.Logger) Option {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithObserver(o Observer) Option {
	return func(p *Processor) {
		if o != nil {
			p.observers = append(p.observers, o)
		}
	}
}

// Processor owns one World State and applies batches to it one at a time.
type Processor struct {
	mu        sync.Mutex
	state     *world.State
	rules     Rules
	logger    *slog.Logger
	observers []Observer
}

// NewProcessor takes ownership of state; the caller must not touch it
// afterwards. A nil state starts empty.
func NewProcessor(state *world.State, rules Rules, opts ...Option) *Processor {
	if state == nil {
		state = world.New()
	}
	p := &Processor{
		state:  state,
		rules:  rules,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Apply folds the batch over the owned state in order. Events that fail do not
// stop the ones after them, and nothing is rolled back. The context only
// carries logging values; a batch always runs to completion.
func (p *Processor) Apply(ctx context.Context, b Batch) Report {
	p.mu.Lock()
	defer p.mu.Unlock()

	report := run(p.state, b, p.rules)
	report.Snapshot = snapshot.Project(p.state)

	for _, o := range report.Outcomes {
		if o.Status != StatusApplied {
			p.logger.InfoContext(ctx, "event not applied",
				"batch_id", b.ID,
				"index", o.Index,
				"kind", string(o.Kind),
				"status", string(o.Status),
				"code", string(o.Code),
				"message", o.Message,
			)
		}
		for _, obs := range p.observers {
			obs.ObserveOutcome(b.ID, o)
		}
	}
	for _, obs := range p.observers {
		obs.ObserveBatch(b.ID, report.Counts)
	}
	p.logger.DebugContext(ctx, "batch applied",
		"batch_id", b.ID,
		"events", len(b.Events),
		"applied", report.Counts.Applied,
		"rejected", report.Counts.Rejected,
		"deferred", report.Counts.Deferred,
	)
	return report
}

// Preview reports what Apply would do without changing the owned state.
func (p *Processor) Preview(_ context.Context, b Batch) Report {
	p.mu.Lock()
	scratch := p.state.Clone()
	p.mu.Unlock()

	report := run(scratch, b, p.rules)
	report.Snapshot = snapshot.Project(scratch)
	return report
}

// Validate checks a single event against the current state.
func (p *Processor) Validate(ev event.Event) *Reason {
	p.mu.Lock()
	defer p.mu.Unlock()
	return Validate(p.state, ev, p.rules)
}

func (p *Processor) Snapshot() snapshot.Snapshot {
	p.mu.Lock()
	defer p.mu.Unlock()
	return snapshot.Project(p.state)
}

// Export returns the persisted form of the current state.
func (p *Processor) Export() world.Data {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state.Export()
}

func (p *Processor) Rules() Rules {
	return p.rules
}

func run(s *world.State, b Batch, rules Rules) Report {
	report := Report{
		BatchID:  b.ID,
		Outcomes: make([]Outcome, 0, len(b.Events)),
	}
	for i, ev := range b.Events {
		o := Step(s, ev, rules)
		o.Index = i
		report.Counts.add(o.Status)
		report.Outcomes = append(report.Outcomes, o)
	}
	return report
}
