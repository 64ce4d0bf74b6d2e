package session

import (
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorekeeper/internal/config"
	"lorekeeper/internal/engine"
	"lorekeeper/internal/errutil"
	"lorekeeper/internal/save"
	"lorekeeper/internal/store"
	"lorekeeper/internal/world"
)

type fakeJournal struct {
	batches     map[string]store.Batch
	outcomes    map[string][]store.Outcome
	checkpoints []store.Checkpoint
	failRecord  error
}

func newFakeJournal() *fakeJournal {
	return &fakeJournal{
		batches:  make(map[string]store.Batch),
		outcomes: make(map[string][]store.Outcome),
	}
}

func (f *fakeJournal) HasBatch(_ context.Context, batchID string) (bool, error) {
	_, ok := f.batches[batchID]
	return ok, nil
}

func (f *fakeJournal) RecordBatch(_ context.Context, b store.Batch, outcomes []store.Outcome) error {
	if f.failRecord != nil {
		return f.failRecord
	}
	if _, ok := f.batches[b.ID]; ok {
		return store.ErrDuplicateBatch
	}
	f.batches[b.ID] = b
	f.outcomes[b.ID] = outcomes
	return nil
}

func (f *fakeJournal) SaveCheckpoint(_ context.Context, c store.Checkpoint) error {
	f.checkpoints = append(f.checkpoints, c)
	return nil
}

const narratorOutput = `[NARRATOR] A stranger steps out of the fog.
[NPC: Mira] You look lost.

EVENTS:
` + "```json" + `
[
  {"type": "npc_spawn", "id": "mira", "name": "Mira", "role": "scout"},
  {"type": "relationship_change", "subject_id": "player", "target_id": "mira", "delta": 5},
  {"type": "npc_update", "id": "ghost", "details": "pale"},
  {"type": "request_context", "topics": ["party", "npcs"]}
]
` + "```"

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestSession(t *testing.T, opts ...Option) *Session {
	t.Helper()
	proc := engine.NewProcessor(world.NewSession(world.Player{Name: "Ash"}), engine.DefaultRules())
	opts = append([]Option{WithClock(func() time.Time { return fixedNow })}, opts...)
	return New("s1", proc, opts...)
}

func TestTurn(t *testing.T) {
	journal := newFakeJournal()
	sess := newTestSession(t, WithJournal(journal))

	result, err := sess.Turn(context.Background(), TurnInput{BatchID: "b1", Output: narratorOutput})
	require.NoError(t, err)

	assert.Equal(t, "b1", result.BatchID)
	require.Len(t, result.Narration, 2)
	assert.Equal(t, "Mira", result.Narration[1].Name)
	assert.Empty(t, result.ParseProblem)

	require.Len(t, result.Report.Outcomes, 4)
	assert.Equal(t, engine.Counts{Applied: 2, Rejected: 1, Deferred: 1}, result.Report.Counts)
	assert.Contains(t, result.Context, "Mira")

	rec, ok := journal.batches["b1"]
	require.True(t, ok)
	assert.Equal(t, "s1", rec.SessionID)
	assert.Equal(t, 2, rec.Applied)
	assert.Len(t, rec.PayloadHash, 64)
	assert.Equal(t, fixedNow, rec.CreatedAt)

	outcomes := journal.outcomes["b1"]
	require.Len(t, outcomes, 4)
	assert.Equal(t, "unknown_id", outcomes[2].Code)
	assert.JSONEq(t, `{"type": "npc_update", "id": "ghost", "details": "pale"}`, outcomes[2].Payload)

	require.Len(t, journal.checkpoints, 1)
	var data world.Data
	require.NoError(t, json.Unmarshal(journal.checkpoints[0].Data, &data))
	require.Len(t, data.NPCs, 1)
	assert.Equal(t, "mira", data.NPCs[0].ID)
}

func TestTurn_DuplicateBatch(t *testing.T) {
	journal := newFakeJournal()
	sess := newTestSession(t, WithJournal(journal))
	ctx := context.Background()

	_, err := sess.Turn(ctx, TurnInput{BatchID: "b1", Output: narratorOutput})
	require.NoError(t, err)
	before := sess.Snapshot()

	_, err = sess.Turn(ctx, TurnInput{BatchID: "b1", Output: narratorOutput})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateBatch))
	errutil.AssertErrorCode(t, err, CodeDuplicateBatch)
	errutil.AssertErrorContext(t, err, "batch_id", "b1")
	assert.Equal(t, before, sess.Snapshot())
}

func TestTurn_DuplicateFromJournal(t *testing.T) {
	journal := newFakeJournal()
	journal.batches["b7"] = store.Batch{ID: "b7"}
	sess := newTestSession(t, WithJournal(journal))

	_, err := sess.Turn(context.Background(), TurnInput{BatchID: "b7", Output: narratorOutput})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateBatch))
	assert.Empty(t, sess.Snapshot().NPCs)
}

func TestTurn_DuplicateWithoutJournal(t *testing.T) {
	sess := newTestSession(t)
	ctx := context.Background()

	_, err := sess.Turn(ctx, TurnInput{BatchID: "b1", Events: `[{"type":"add_exp","amount":10}]`})
	require.NoError(t, err)
	_, err = sess.Turn(ctx, TurnInput{BatchID: "b1", Events: `[{"type":"add_exp","amount":10}]`})
	require.Error(t, err)
	assert.Equal(t, 10, sess.Snapshot().Player.Exp)
}

func TestTurn_GeneratesBatchID(t *testing.T) {
	sess := newTestSession(t)
	result, err := sess.Turn(context.Background(), TurnInput{Output: "Nothing happens."})
	require.NoError(t, err)
	assert.Len(t, result.BatchID, 26)
	assert.Empty(t, result.Report.Outcomes)
}

func TestTurn_UnparseableEvents(t *testing.T) {
	sess := newTestSession(t)
	result, err := sess.Turn(context.Background(), TurnInput{BatchID: "b1", Output: "Rain.\nEVENTS: the narrator rambles {"})
	require.NoError(t, err)

	assert.NotEmpty(t, result.ParseProblem)
	require.Len(t, result.Report.Outcomes, 1)
	assert.Equal(t, engine.StatusDeferred, result.Report.Outcomes[0].Status)
	assert.Equal(t, engine.CodeMalformedEvent, result.Report.Outcomes[0].Code)
}

func TestTurn_JournalFailure(t *testing.T) {
	journal := newFakeJournal()
	journal.failRecord = errors.New("disk full")
	sess := newTestSession(t, WithJournal(journal))

	_, err := sess.Turn(context.Background(), TurnInput{BatchID: "b1", Output: narratorOutput})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, CodeJournal)
	assert.Contains(t, err.Error(), "disk full")
}

func TestTurn_WritesSave(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.lks")
	sess := newTestSession(t, WithSavePath(path))

	_, err := sess.Turn(context.Background(), TurnInput{BatchID: "b1", Output: narratorOutput})
	require.NoError(t, err)

	state, header, err := save.Load(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "s1", header.SessionID)
	_, ok := state.NPCs["mira"]
	assert.True(t, ok)
}

func TestDryRun(t *testing.T) {
	journal := newFakeJournal()
	sess := newTestSession(t, WithJournal(journal))

	result := sess.DryRun(context.Background(), TurnInput{Output: narratorOutput})
	assert.Equal(t, "dry-run", result.BatchID)
	assert.Equal(t, 2, result.Report.Counts.Applied)
	require.Len(t, result.Report.Snapshot.NPCs, 1)

	assert.Empty(t, sess.Snapshot().NPCs)
	assert.Empty(t, journal.batches)
	assert.Empty(t, journal.checkpoints)

	_, err := sess.Turn(context.Background(), TurnInput{BatchID: "dry-run", Output: narratorOutput})
	require.NoError(t, err, "a dry run does not claim its batch id")
}

func TestNewWorld(t *testing.T) {
	cfg := &config.ProjectConfig{
		Player: config.PlayerConfig{
			Name:       "Ash",
			Role:       "Ranger",
			Stats:      []config.StatConfig{{ID: "strength", Value: 12}, {ID: "agility", Value: 9}},
			Currencies: map[string]int{" Gold ": 30},
		},
		Rules: config.RulesConfig{ExpToNext: 150, ExpMultiplier: 1.5},
	}

	s := NewWorld(cfg)
	require.NotNil(t, s.Player)
	assert.Equal(t, "Ash", s.Player.Name)
	assert.Equal(t, 1, s.Player.Level)
	assert.Equal(t, 150, s.Player.ExpToNext)
	assert.Equal(t, 1.5, s.Player.ExpMultiplier)
	stats := s.Export().Stats
	require.Len(t, stats, 2)
	assert.Equal(t, world.Stat{ID: "strength", Value: 12}, stats[0])
	assert.Equal(t, world.Stat{ID: "agility", Value: 9}, stats[1])
	assert.Equal(t, 30, s.Currencies["gold"])
}

func TestOpen(t *testing.T) {
	cfg := &config.ProjectConfig{
		Save:   filepath.Join(t.TempDir(), "saves", "session.lks"),
		Player: config.PlayerConfig{Name: "Ash"},
		Rules: config.RulesConfig{
			Reputation:        config.BoundsConfig{Min: -10, Max: 10},
			Relationship:      config.BoundsConfig{Min: -30, Max: 30},
			MaxDetailsLength:  100,
			MaxListItems:      4,
			MaxLevelsPerEvent: 5,
			ExpToNext:         100,
			ExpMultiplier:     2,
		},
	}

	first, err := Open(OpenConfig{Project: cfg})
	require.NoError(t, err)
	rules := first.Processor().Rules()
	assert.Equal(t, 10, rules.ReputationMax)
	assert.Equal(t, 30, rules.RelationshipMax)
	assert.Equal(t, 5, rules.MaxLevelsPerEvent)

	_, err = first.Turn(context.Background(), TurnInput{BatchID: "b1", Events: `[{"type":"set_flag","flag":"met_mira"}]`})
	require.NoError(t, err)

	second, err := Open(OpenConfig{Project: cfg})
	require.NoError(t, err)
	assert.Equal(t, first.ID(), second.ID())
	assert.Equal(t, []string{"met_mira"}, second.Snapshot().Flags)
}

func TestOpen_CorruptSave(t *testing.T) {
	dir := t.TempDir()
	cfg := &config.ProjectConfig{Save: filepath.Join(dir, "session.lks"), Player: config.PlayerConfig{Name: "Ash"}}
	require.NoError(t, os.WriteFile(cfg.Save, []byte("not a save"), 0o644))

	_, err := Open(OpenConfig{Project: cfg})
	require.Error(t, err)
	errutil.AssertErrorCode(t, err, save.CodeUnreadable)
}
