package world

import (
	"fmt"
	"sort"
	"strings"
)

type Stat struct {
	ID    string `json:"id"`
	Value int    `json:"value"`
}

type Balance struct {
	Currency string `json:"currency"`
	Amount   int    `json:"amount"`
}

type Relationship struct {
	Subject string `json:"subject"`
	Target  string `json:"target"`
	Value   int    `json:"value"`
}

type Section struct {
	Name  string `json:"name"`
	Cards []Card `json:"cards"`
}

// Data is the persisted form of a State. Collections are sorted by id except
// stats and sections, which keep insertion order.
type Data struct {
	Player        *Player        `json:"player,omitempty"`
	Stats         []Stat         `json:"stats"`
	Inventory     []Item         `json:"inventory"`
	Equipment     []Equipped     `json:"equipment"`
	Loot          []LootDrop     `json:"loot"`
	Currencies    []Balance      `json:"currencies"`
	NPCs          []Npc          `json:"npcs"`
	Factions      []Faction      `json:"factions"`
	Quests        []Quest        `json:"quests"`
	Powers        []Power        `json:"powers"`
	Relationships []Relationship `json:"relationships"`
	Flags         []string       `json:"flags"`
	Sections      []Section      `json:"sections"`
	ClockMinutes  int            `json:"clock_minutes"`
}

// Export copies s into its persisted form.
func (s *State) Export() Data {
	d := Data{
		Player:        clonePlayer(s.Player),
		Stats:         make([]Stat, 0, s.Stats.Len()),
		Inventory:     make([]Item, 0, len(s.Inventory)),
		Equipment:     make([]Equipped, 0, len(s.Equipment)),
		Loot:          make([]LootDrop, 0, len(s.Loot)),
		Currencies:    make([]Balance, 0, len(s.Currencies)),
		NPCs:          make([]Npc, 0, len(s.NPCs)),
		Factions:      make([]Faction, 0, len(s.Factions)),
		Quests:        make([]Quest, 0, len(s.Quests)),
		Powers:        make([]Power, 0, len(s.Powers)),
		Relationships: make([]Relationship, 0, len(s.Relationships)),
		Flags:         make([]string, 0, len(s.Flags)),
		Sections:      make([]Section, 0, s.Sections.Len()),
		ClockMinutes:  s.Clock,
	}

	for p := s.Stats.Oldest(); p != nil; p = p.Next() {
		d.Stats = append(d.Stats, Stat{ID: p.Key, Value: p.Value})
	}
	for _, id := range sortedKeys(s.Inventory) {
		d.Inventory = append(d.Inventory, s.Inventory[id])
	}
	for _, slot := range sortedKeys(s.Equipment) {
		d.Equipment = append(d.Equipment, s.Equipment[slot])
	}
	for _, item := range sortedKeys(s.Loot) {
		d.Loot = append(d.Loot, s.Loot[item])
	}
	for _, cur := range sortedKeys(s.Currencies) {
		d.Currencies = append(d.Currencies, Balance{Currency: cur, Amount: s.Currencies[cur]})
	}
	for _, id := range sortedKeys(s.NPCs) {
		d.NPCs = append(d.NPCs, cloneNpc(s.NPCs[id]))
	}
	for _, id := range sortedKeys(s.Factions) {
		d.Factions = append(d.Factions, s.Factions[id])
	}
	for _, id := range sortedKeys(s.Quests) {
		d.Quests = append(d.Quests, cloneQuest(s.Quests[id]))
	}
	for _, id := range sortedKeys(s.Powers) {
		d.Powers = append(d.Powers, s.Powers[id])
	}
	for k, v := range s.Relationships {
		d.Relationships = append(d.Relationships, Relationship{Subject: k.Subject, Target: k.Target, Value: v})
	}
	sort.Slice(d.Relationships, func(i, j int) bool {
		a, b := d.Relationships[i], d.Relationships[j]
		if a.Subject != b.Subject {
			return a.Subject < b.Subject
		}
		return a.Target < b.Target
	})
	for _, flag := range sortedKeys(s.Flags) {
		d.Flags = append(d.Flags, flag)
	}
	for sec := s.Sections.Oldest(); sec != nil; sec = sec.Next() {
		section := Section{Name: sec.Key, Cards: make([]Card, 0, sec.Value.Len())}
		for card := sec.Value.Oldest(); card != nil; card = card.Next() {
			section.Cards = append(section.Cards, CloneCard(card.Value))
		}
		d.Sections = append(d.Sections, section)
	}
	return d
}

// Import rebuilds a State from its persisted form. It rejects duplicate ids
// but does not audit cross-entity invariants; see package integrity.
func Import(d Data) (*State, error) {
	s := New()
	s.Player = clonePlayer(d.Player)
	s.Clock = d.ClockMinutes

	for _, st := range d.Stats {
		if _, dup := s.Stats.Get(st.ID); dup {
			return nil, fmt.Errorf("importing state: duplicate stat %q", st.ID)
		}
		s.Stats.Set(st.ID, st.Value)
	}
	for _, it := range d.Inventory {
		if _, dup := s.Inventory[it.ID]; dup {
			return nil, fmt.Errorf("importing state: duplicate item %q", it.ID)
		}
		s.Inventory[it.ID] = it
	}
	for _, eq := range d.Equipment {
		if _, dup := s.Equipment[eq.Slot]; dup {
			return nil, fmt.Errorf("importing state: duplicate equipment slot %q", eq.Slot)
		}
		s.Equipment[eq.Slot] = eq
	}
	for _, l := range d.Loot {
		if _, dup := s.Loot[l.Item]; dup {
			return nil, fmt.Errorf("importing state: duplicate loot %q", l.Item)
		}
		s.Loot[l.Item] = l
	}
	for _, b := range d.Currencies {
		if _, dup := s.Currencies[b.Currency]; dup {
			return nil, fmt.Errorf("importing state: duplicate currency %q", b.Currency)
		}
		s.Currencies[b.Currency] = b.Amount
	}
	for _, n := range d.NPCs {
		if s.IDTaken(n.ID) {
			return nil, fmt.Errorf("importing state: duplicate id %q", n.ID)
		}
		s.NPCs[n.ID] = cloneNpc(n)
	}
	for _, f := range d.Factions {
		if s.IDTaken(f.ID) {
			return nil, fmt.Errorf("importing state: duplicate id %q", f.ID)
		}
		s.Factions[f.ID] = f
	}
	for _, q := range d.Quests {
		if _, dup := s.Quests[q.ID]; dup {
			return nil, fmt.Errorf("importing state: duplicate quest %q", q.ID)
		}
		s.Quests[q.ID] = cloneQuest(q)
	}
	for _, p := range d.Powers {
		if _, dup := s.Powers[p.ID]; dup {
			return nil, fmt.Errorf("importing state: duplicate power %q", p.ID)
		}
		s.Powers[p.ID] = p
	}
	for _, r := range d.Relationships {
		key := RelKey{Subject: r.Subject, Target: r.Target}
		if _, dup := s.Relationships[key]; dup {
			return nil, fmt.Errorf("importing state: duplicate relationship %s", key)
		}
		s.Relationships[key] = r.Value
	}
	for _, flag := range d.Flags {
		s.Flags[flag] = struct{}{}
	}
	for _, sec := range d.Sections {
		if strings.TrimSpace(sec.Name) == "" {
			return nil, fmt.Errorf("importing state: section with empty name")
		}
		for _, c := range sec.Cards {
			if _, dup := s.Card(sec.Name, c.ID); dup {
				return nil, fmt.Errorf("importing state: duplicate card %q in section %q", c.ID, sec.Name)
			}
			s.PutCard(sec.Name, CloneCard(c))
		}
	}
	return s, nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
