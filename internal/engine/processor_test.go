package engine

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorekeeper/internal/event"
)

type recordingObserver struct {
	mu       sync.Mutex
	outcomes []Outcome
	batches  map[string]Counts
}

func newRecordingObserver() *recordingObserver {
	return &recordingObserver{batches: make(map[string]Counts)}
}

func (r *recordingObserver) ObserveOutcome(_ string, o Outcome) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.outcomes = append(r.outcomes, o)
}

func (r *recordingObserver) ObserveBatch(batchID string, c Counts) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.batches[batchID] = c
}

func TestProcessor_SerializesBatches(t *testing.T) {
	p := NewProcessor(newState(), DefaultRules())

	const workers = 16
	var wg sync.WaitGroup
	reports := make([]Report, workers)
	for i := range workers {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			reports[i] = p.Apply(context.Background(), Batch{
				ID:     fmt.Sprintf("b%d", i),
				Events: []event.Event{
					event.AddItem{ItemID: "torch", Quantity: 1},
					event.ModifyStat{StatID: "souls", Delta: 1},
				},
			})
		}(i)
	}
	wg.Wait()

	for _, r := range reports {
		assert.Equal(t, Counts{Applied: 2}, r.Counts)
	}
	snap := p.Snapshot()
	torch, ok := snap.Item("torch")
	require.True(t, ok)
	assert.Equal(t, workers, torch.Quantity)
	souls, _ := snap.Stat("souls")
	assert.Equal(t, workers, souls)
}

func TestProcessor_SnapshotIsDetached(t *testing.T) {
	p := NewProcessor(newState(), DefaultRules())
	first := p.Apply(context.Background(), Batch{ID: "b1", Events: []event.Event{
		event.AddItem{ItemID: "torch", Quantity: 1},
		event.AddPartyMember{ID: "mira", Name: "Mira"},
	}})

	p.Apply(context.Background(), Batch{ID: "b2", Events: []event.Event{
		event.AddItem{ItemID: "torch", Quantity: 4},
		event.PartyUpdate{ID: "mira", WeaponsAdd: []string{"dagger"}},
	}})

	torch, _ := first.Snapshot.Item("torch")
	assert.Equal(t, 1, torch.Quantity)
	assert.Empty(t, first.Snapshot.Party[0].Weapons)

	first.Snapshot.Party[0].Name = "Mutated"
	first.Snapshot.Player.Name = "Mutated"
	snap := p.Snapshot()
	assert.Equal(t, "Mira", snap.Party[0].Name)
	assert.Equal(t, "Ash", snap.Player.Name)
}

func TestProcessor_PreviewLeavesStateAlone(t *testing.T) {
	p := NewProcessor(newState(), DefaultRules())
	before := p.Export()

	report := p.Preview(context.Background(), Batch{ID: "dry", Events: []event.Event{
		event.AddItem{ItemID: "torch", Quantity: 1},
		event.RemoveItem{ItemID: "torch", Quantity: 2},
	}})

	assert.Equal(t, []Status{StatusApplied, StatusRejected}, statuses(report))
	_, ok := report.Snapshot.Item("torch")
	assert.True(t, ok)
	assert.Equal(t, before, p.Export())
}

func TestProcessor_NotifiesObserversAndLogs(t *testing.T) {
	obs := newRecordingObserver()
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	p := NewProcessor(newState(), DefaultRules(), WithObserver(obs), WithLogger(logger))

	p.Apply(context.Background(), Batch{ID: "b1", Events: []event.Event{
		event.AddItem{ItemID: "torch", Quantity: 1},
		event.EquipItem{ItemID: "sword", Slot: "main_hand"},
		event.Unrecognized{Type: "teleport_planet"},
	}})

	require.Len(t, obs.outcomes, 3)
	assert.Equal(t, Counts{Applied: 1, Rejected: 1, Deferred: 1}, obs.batches["b1"])
	assert.Contains(t, buf.String(), "code=item_not_held")
	assert.Contains(t, buf.String(), "code=unhandled_kind")
	assert.Contains(t, buf.String(), "msg=\"batch applied\"")
}

func TestProcessor_ValidateAndDeferred(t *testing.T) {
	p := NewProcessor(nil, DefaultRules())

	r := p.Validate(event.AddItem{ItemID: "torch", Quantity: 1})
	require.NotNil(t, r)
	assert.Equal(t, CodePlayerMissing, r.Code)

	report := p.Apply(context.Background(), Batch{ID: "b1", Events: []event.Event{
		event.AddItem{ItemID: "torch", Quantity: 1},
		event.SetFlag{Flag: "storm_coming"},
	}})
	require.Len(t, report.Deferred(), 1)
	assert.Equal(t, 0, report.Deferred()[0].Index)
	assert.Equal(t, []string{"storm_coming"}, report.Snapshot.Flags)
	assert.Nil(t, report.Snapshot.Player)
}
