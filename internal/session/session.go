// Package session drives turns against one world: it parses narrator output,
// applies the proposed events, journals the outcomes and saves the result.
package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/samber/oops"

	"lorekeeper/internal/config"
	"lorekeeper/internal/engine"
	"lorekeeper/internal/event"
	"lorekeeper/internal/parser"
	"lorekeeper/internal/save"
	"lorekeeper/internal/snapshot"
	"lorekeeper/internal/store"
	"lorekeeper/internal/world"
)

const (
	CodeDuplicateBatch = "SESSION_DUPLICATE_BATCH"
	CodeJournal        = "SESSION_JOURNAL_FAILED"
	CodeLoad           = "SESSION_LOAD_FAILED"
)

// ErrDuplicateBatch is returned for a batch id that was already applied.
var ErrDuplicateBatch = errors.New("batch already applied")

// Journal is the part of store.Store a session writes to.
type Journal interface {
	HasBatch(ctx context.Context, batchID string) (bool, error)
	RecordBatch(ctx context.Context, b store.Batch, outcomes []store.Outcome) error
	SaveCheckpoint(ctx context.Context, c store.Checkpoint) error
}

// TurnInput is one narrator response. When Events is set it is read as the
// events section and Output is narration only.
type TurnInput struct {
	BatchID string
	Output  string
	Events  string
}

type TurnResult struct {
	BatchID   string        `json:"batch_id"`
	Narration []parser.Line `json:"narration,omitempty"`
	Report    engine.Report `json:"report"`
	// ParseProblem is set when the events section could not be parsed.
	ParseProblem string `json:"parse_problem,omitempty"`
	// Context answers request_context events in the batch.
	Context string `json:"context,omitempty"`
}

type Session struct {
	mu       sync.Mutex
	id       string
	proc     *engine.Processor
	journal  Journal
	savePath string
	logger   *slog.Logger
	now      func() time.Time
	seen     map[string]struct{}
}

type Option func(*Session)

func WithJournal(j Journal) Option {
	return func(s *Session) {
		s.journal = j
	}
}

// WithSavePath makes every applied turn rewrite the save file at path.
func WithSavePath(path string) Option {
	return func(s *Session) {
		s.savePath = path
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Session) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		s.now = now
	}
}

// New wraps proc. An empty id gets a fresh ULID.
func New(id string, proc *engine.Processor, opts ...Option) *Session {
	if id == "" {
		id = NewID()
	}
	s := &Session{
		id:     id,
		proc:   proc,
		logger: slog.Default(),
		now:    time.Now,
		seen:   make(map[string]struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewID returns a new ULID string for sessions and batches.
func NewID() string {
	return ulid.Make().String()
}

func (s *Session) ID() string {
	return s.id
}

func (s *Session) Processor() *engine.Processor {
	return s.proc
}

func (s *Session) Snapshot() snapshot.Snapshot {
	return s.proc.Snapshot()
}

// Context renders the current snapshot for topics; no topics means all.
func (s *Session) Context(topics ...string) string {
	return snapshot.Render(s.proc.Snapshot(), topics...)
}

// Turn applies one narrator response. A batch id that was already applied
// fails with ErrDuplicateBatch and changes nothing.
func (s *Session) Turn(ctx context.Context, in TurnInput) (*TurnResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	batchID := strings.TrimSpace(in.BatchID)
	if batchID == "" {
		batchID = NewID()
	}
	if err := s.checkDuplicate(ctx, batchID); err != nil {
		return nil, err
	}

	result, batch, payloads := s.prepare(batchID, in)
	result.Report = s.proc.Apply(ctx, batch)
	result.Context = requestedContext(batch.Events, result.Report)
	s.seen[batchID] = struct{}{}

	if err := s.persist(ctx, in, result.Report, payloads); err != nil {
		return nil, err
	}
	return result, nil
}

// DryRun reports what Turn would do without changing or persisting anything.
func (s *Session) DryRun(ctx context.Context, in TurnInput) *TurnResult {
	batchID := strings.TrimSpace(in.BatchID)
	if batchID == "" {
		batchID = "dry-run"
	}
	result, batch, _ := s.prepare(batchID, in)
	result.Report = s.proc.Preview(ctx, batch)
	result.Context = requestedContext(batch.Events, result.Report)
	return result
}

// Save writes the current world to the save path, if one is set.
func (s *Session) Save() error {
	if s.savePath == "" {
		return nil
	}
	return save.Write(s.savePath, s.id, s.proc.Export())
}

func (s *Session) checkDuplicate(ctx context.Context, batchID string) error {
	errb := oops.Code(CodeDuplicateBatch).With("batch_id", batchID).With("session_id", s.id)
	if _, ok := s.seen[batchID]; ok {
		return errb.Wrap(ErrDuplicateBatch)
	}
	if s.journal == nil {
		return nil
	}
	has, err := s.journal.HasBatch(ctx, batchID)
	if err != nil {
		return oops.Code(CodeJournal).With("batch_id", batchID).Wrapf(err, "checking journal")
	}
	if has {
		return errb.Wrap(ErrDuplicateBatch)
	}
	return nil
}

func (s *Session) prepare(batchID string, in TurnInput) (*TurnResult, engine.Batch, []json.RawMessage) {
	out := parser.Split(in.Output)
	eventsText := out.Events
	if strings.TrimSpace(in.Events) != "" {
		out.Narration = strings.TrimSpace(in.Output)
		eventsText = in.Events
	}

	result := &TurnResult{
		BatchID:   batchID,
		Narration: parser.ParseNarration(out.Narration),
	}
	payloads, err := parser.ExtractPayloads(eventsText)
	if err != nil {
		result.ParseProblem = err.Error()
		s.logger.Warn("events section not parsed", "batch_id", batchID, "error", err)
	}
	return result, engine.Batch{ID: batchID, Events: event.DecodeAll(payloads)}, payloads
}

// persist journals the batch, then checkpoints the world to the store and the
// save file.
func (s *Session) persist(ctx context.Context, in TurnInput, report engine.Report, payloads []json.RawMessage) error {
	data := s.proc.Export()
	now := s.now().UTC()

	if s.journal != nil {
		batch := store.Batch{
			ID:          report.BatchID,
			SessionID:   s.id,
			PayloadHash: payloadHash(in),
			Applied:     report.Counts.Applied,
			Rejected:    report.Counts.Rejected,
			Deferred:    report.Counts.Deferred,
			CreatedAt:   now,
		}
		if err := s.journal.RecordBatch(ctx, batch, journalOutcomes(report, payloads)); err != nil {
			return oops.Code(CodeJournal).With("batch_id", report.BatchID).Wrapf(err, "recording batch")
		}

		body, err := json.Marshal(data)
		if err != nil {
			return oops.Code(CodeJournal).Wrapf(err, "encoding checkpoint")
		}
		if err := s.journal.SaveCheckpoint(ctx, store.Checkpoint{SessionID: s.id, Data: body, SavedAt: now}); err != nil {
			return oops.Code(CodeJournal).With("session_id", s.id).Wrapf(err, "saving checkpoint")
		}
	}

	if s.savePath != "" {
		if err := save.Write(s.savePath, s.id, data); err != nil {
			return err
		}
	}
	return nil
}

func payloadHash(in TurnInput) string {
	sum := sha256.Sum256([]byte(in.Output + "\x00" + in.Events))
	return hex.EncodeToString(sum[:])
}

func journalOutcomes(report engine.Report, payloads []json.RawMessage) []store.Outcome {
	outcomes := make([]store.Outcome, 0, len(report.Outcomes))
	for _, o := range report.Outcomes {
		rec := store.Outcome{
			BatchID: report.BatchID,
			Index:   o.Index,
			Kind:    string(o.Kind),
			Type:    o.Type,
			Status:  string(o.Status),
			Code:    string(o.Code),
			Message: o.Message,
		}
		if o.Index < len(payloads) && json.Valid(payloads[o.Index]) {
			rec.Payload = string(payloads[o.Index])
		}
		outcomes = append(outcomes, rec)
	}
	return outcomes
}

// requestedContext renders the topics of deferred request_context events.
func requestedContext(events []event.Event, report engine.Report) string {
	var topics []string
	requested := false
	for _, o := range report.Outcomes {
		if o.Code != engine.CodeContextRequested {
			continue
		}
		if rc, ok := events[o.Index].(event.RequestContext); ok {
			requested = true
			topics = append(topics, rc.Topics...)
		}
	}
	if !requested {
		return ""
	}
	return snapshot.Render(report.Snapshot, topics...)
}

// NewWorld starts a world for a new session from the project config.
func NewWorld(cfg *config.ProjectConfig) *world.State {
	p := world.Player{Name: "Wanderer"}
	if cfg == nil {
		return world.NewSession(p)
	}
	p.Name = cfg.Player.Name
	p.Role = cfg.Player.Role
	p.ExpToNext = cfg.Rules.ExpToNext
	p.ExpMultiplier = cfg.Rules.ExpMultiplier

	s := world.NewSession(p)
	for _, st := range cfg.Player.Stats {
		s.Stats.Set(st.ID, st.Value)
	}
	for currency, amount := range cfg.Player.Currencies {
		s.Currencies[strings.ToLower(strings.TrimSpace(currency))] = amount
	}
	return s
}

// OpenConfig describes where a session lives and who listens to it.
type OpenConfig struct {
	Project   *config.ProjectConfig
	Sections  *config.SectionSchema
	Journal   Journal
	Logger    *slog.Logger
	Observers []engine.Observer
}

// Open resumes the session saved at Project.Save, or starts a new one when no
// save exists yet.
func Open(oc OpenConfig) (*Session, error) {
	logger := oc.Logger
	if logger == nil {
		logger = slog.Default()
	}
	procOpts := []engine.Option{engine.WithLogger(logger)}
	for _, o := range oc.Observers {
		procOpts = append(procOpts, engine.WithObserver(o))
	}

	path := oc.Project.Save
	exists, err := save.Exists(path)
	if err != nil {
		return nil, oops.Code(CodeLoad).With("path", path).Wrapf(err, "checking save")
	}

	var id string
	state := NewWorld(oc.Project)
	if exists {
		var header save.Header
		state, header, err = save.Load(path, oc.Sections)
		if err != nil {
			return nil, err
		}
		id = header.SessionID
	}

	proc := engine.NewProcessor(state, engine.RulesFromConfig(oc.Project, oc.Sections), procOpts...)
	opts := []Option{WithSavePath(path), WithLogger(logger)}
	if oc.Journal != nil {
		opts = append(opts, WithJournal(oc.Journal))
	}
	return New(id, proc, opts...), nil
}
