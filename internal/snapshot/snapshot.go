// Package snapshot projects World State into detached, read-only views for
// the UI and the prompt builder.
package snapshot

import (
	"fmt"

	"lorekeeper/internal/world"
)

// Snapshot is a deep copy of every live entity. It shares no memory with the
// state it was projected from.
type Snapshot struct {
	Player        *world.Player        `json:"player,omitempty"`
	Stats         []world.Stat         `json:"stats"`
	Inventory     []world.Item         `json:"inventory"`
	Equipment     []world.Equipped     `json:"equipment"`
	Loot          []world.LootDrop     `json:"loot"`
	Currencies    []world.Balance      `json:"currencies"`
	Party         []world.Npc          `json:"party"`
	NPCs          []world.Npc          `json:"npcs"`
	Factions      []world.Faction      `json:"factions"`
	Quests        []world.Quest        `json:"quests"`
	Powers        []world.Power        `json:"powers"`
	Relationships []world.Relationship `json:"relationships"`
	Flags         []string             `json:"flags"`
	Sections      []world.Section      `json:"sections"`
	ClockMinutes  int                  `json:"clock_minutes"`
	Elapsed       string               `json:"elapsed"`
}

// Project copies s. Party members are listed under Party and every other NPC
// under NPCs, so each NPC appears exactly once.
func Project(s *world.State) Snapshot {
	d := s.Export()
	snap := Snapshot{
		Player:        d.Player,
		Stats:         d.Stats,
		Inventory:     d.Inventory,
		Equipment:     d.Equipment,
		Loot:          d.Loot,
		Currencies:    d.Currencies,
		Party:         []world.Npc{},
		NPCs:          []world.Npc{},
		Factions:      d.Factions,
		Quests:        d.Quests,
		Powers:        d.Powers,
		Relationships: d.Relationships,
		Flags:         d.Flags,
		Sections:      d.Sections,
		ClockMinutes:  d.ClockMinutes,
		Elapsed:       Elapsed(d.ClockMinutes),
	}
	for _, n := range d.NPCs {
		if n.InParty {
			snap.Party = append(snap.Party, n)
		} else {
			snap.NPCs = append(snap.NPCs, n)
		}
	}
	return snap
}

// Elapsed formats world minutes as "N days, HH:MM".
func Elapsed(minutes int) string {
	days := minutes / (24 * 60)
	rest := minutes % (24 * 60)
	return fmt.Sprintf("%d days, %02d:%02d", days, rest/60, rest%60)
}

// Quest returns the quest with id, if present.
func (s Snapshot) Quest(id string) (world.Quest, bool) {
	for _, q := range s.Quests {
		if q.ID == id {
			return q, true
		}
	}
	return world.Quest{}, false
}

// Item returns the inventory record for id, if present.
func (s Snapshot) Item(id string) (world.Item, bool) {
	for _, it := range s.Inventory {
		if it.ID == id {
			return it, true
		}
	}
	return world.Item{}, false
}

// Stat returns the value of a stat and whether it exists.
func (s Snapshot) Stat(id string) (int, bool) {
	for _, st := range s.Stats {
		if st.ID == id {
			return st.Value, true
		}
	}
	return 0, false
}
