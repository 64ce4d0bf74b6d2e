// Package world holds the authoritative game state the engine mutates.
package world

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Cards is the ordered set of cards in one section.
type Cards = orderedmap.OrderedMap[string, Card]

// State is the entity graph owned by one engine. It is not safe for
// concurrent use; the batch processor serializes access.
type State struct {
	// Player is nil until a session has been started.
	Player *Player

	Stats         *orderedmap.OrderedMap[string, int]
	Inventory     map[string]Item
	Equipment     map[string]Equipped
	Loot          map[string]LootDrop
	Currencies    map[string]int
	NPCs          map[string]Npc
	Factions      map[string]Faction
	Quests        map[string]Quest
	Powers        map[string]Power
	Relationships map[RelKey]int
	Flags         map[string]struct{}
	Sections      *orderedmap.OrderedMap[string, *Cards]

	// Clock counts in-world minutes since the session started.
	Clock int
}

// New returns an empty state with no player.
func New() *State {
	return &State{
		Stats:         orderedmap.New[string, int](),
		Inventory:     make(map[string]Item),
		Equipment:     make(map[string]Equipped),
		Loot:          make(map[string]LootDrop),
		Currencies:    make(map[string]int),
		NPCs:          make(map[string]Npc),
		Factions:      make(map[string]Faction),
		Quests:        make(map[string]Quest),
		Powers:        make(map[string]Power),
		Relationships: make(map[RelKey]int),
		Flags:         make(map[string]struct{}),
		Sections:      orderedmap.New[string, *Cards](),
	}
}

// NewSession returns a state for a freshly started session.
func NewSession(p Player) *State {
	s := New()
	if p.Level < 1 {
		p.Level = 1
	}
	if p.ExpToNext < 1 {
		p.ExpToNext = 100
	}
	if p.ExpMultiplier <= 0 {
		p.ExpMultiplier = 2.0
	}
	s.Player = clonePlayer(&p)
	return s
}

// IDTaken reports whether id already names the player, an NPC or a faction.
// These share one namespace so relationship edges resolve unambiguously.
func (s *State) IDTaken(id string) bool {
	if id == PlayerID {
		return true
	}
	if _, ok := s.NPCs[id]; ok {
		return true
	}
	_, ok := s.Factions[id]
	return ok
}

// HasActor reports whether id can be the endpoint of a relationship edge.
func (s *State) HasActor(id string) bool {
	if id == PlayerID {
		return s.Player != nil
	}
	return s.IDTaken(id)
}

// Card looks up a section card.
func (s *State) Card(section, id string) (Card, bool) {
	cards, ok := s.Sections.Get(section)
	if !ok {
		return Card{}, false
	}
	return cards.Get(id)
}

// PutCard inserts or replaces a card, creating the section if needed.
func (s *State) PutCard(section string, c Card) {
	cards, ok := s.Sections.Get(section)
	if !ok {
		cards = orderedmap.New[string, Card]()
		s.Sections.Set(section, cards)
	}
	cards.Set(c.ID, c)
}

// RemoveCard deletes a card and drops the section once it is empty.
func (s *State) RemoveCard(section, id string) {
	cards, ok := s.Sections.Get(section)
	if !ok {
		return
	}
	cards.Delete(id)
	if cards.Len() == 0 {
		s.Sections.Delete(section)
	}
}

// Clone returns a deep copy sharing no mutable memory with s.
func (s *State) Clone() *State {
	c := New()
	c.Player = clonePlayer(s.Player)
	c.Clock = s.Clock

	for p := s.Stats.Oldest(); p != nil; p = p.Next() {
		c.Stats.Set(p.Key, p.Value)
	}
	for k, v := range s.Inventory {
		c.Inventory[k] = v
	}
	for k, v := range s.Equipment {
		c.Equipment[k] = v
	}
	for k, v := range s.Loot {
		c.Loot[k] = v
	}
	for k, v := range s.Currencies {
		c.Currencies[k] = v
	}
	for k, v := range s.NPCs {
		c.NPCs[k] = cloneNpc(v)
	}
	for k, v := range s.Factions {
		c.Factions[k] = v
	}
	for k, v := range s.Quests {
		c.Quests[k] = cloneQuest(v)
	}
	for k, v := range s.Powers {
		c.Powers[k] = v
	}
	for k, v := range s.Relationships {
		c.Relationships[k] = v
	}
	for k := range s.Flags {
		c.Flags[k] = struct{}{}
	}
	for sec := s.Sections.Oldest(); sec != nil; sec = sec.Next() {
		for card := sec.Value.Oldest(); card != nil; card = card.Next() {
			c.PutCard(sec.Key, CloneCard(card.Value))
		}
	}
	return c
}

func clonePlayer(p *Player) *Player {
	if p == nil {
		return nil
	}
	c := *p
	c.Tags = cloneStrings(p.Tags)
	c.Weapons = cloneStrings(p.Weapons)
	c.Armor = cloneStrings(p.Armor)
	c.Clothing = cloneStrings(p.Clothing)
	return &c
}

func cloneNpc(n Npc) Npc {
	n.Notes = cloneStrings(n.Notes)
	n.Weapons = cloneStrings(n.Weapons)
	n.Armor = cloneStrings(n.Armor)
	n.Clothing = cloneStrings(n.Clothing)
	return n
}

func cloneQuest(q Quest) Quest {
	q.RewardOptions = cloneStrings(q.RewardOptions)
	q.Rewards = cloneStrings(q.Rewards)
	if q.SubQuests != nil {
		q.SubQuests = append([]SubQuest(nil), q.SubQuests...)
	}
	return q
}

// CloneCard copies a card's slices.
func CloneCard(c Card) Card {
	c.Notes = cloneStrings(c.Notes)
	c.Tags = cloneStrings(c.Tags)
	c.Items = cloneStrings(c.Items)
	return c
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}
