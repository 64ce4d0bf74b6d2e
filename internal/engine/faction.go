package engine

import (
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

func checkFactionSpawn(s *world.State, e event.FactionSpawn, _ Rules) *Reason {
	if r := required("id", e.ID, "name", e.Name); r != nil {
		return r
	}
	if s.IDTaken(e.ID) {
		return duplicate(e.ID)
	}
	return nil
}

func applyFactionSpawn(s *world.State, e event.FactionSpawn, r Rules) {
	s.Factions[e.ID] = world.Faction{
		ID:          e.ID,
		Name:        strings.TrimSpace(e.Name),
		Kind:        strings.TrimSpace(e.FactionKind),
		Description: clip(e.Description, r.MaxDetailsLength),
	}
}

func checkFactionUpdate(s *world.State, e event.FactionUpdate, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	if _, ok := s.Factions[e.ID]; !ok {
		return unknown("faction", e.ID)
	}
	return nil
}

func applyFactionUpdate(s *world.State, e event.FactionUpdate, r Rules) {
	f := s.Factions[e.ID]
	if v := strings.TrimSpace(e.Name); v != "" {
		f.Name = v
	}
	if v := strings.TrimSpace(e.FactionKind); v != "" {
		f.Kind = v
	}
	if v := clip(e.Description, r.MaxDetailsLength); v != "" {
		f.Description = v
	}
	s.Factions[e.ID] = f
}

func checkFactionRepChange(s *world.State, e event.FactionRepChange, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	if _, ok := s.Factions[e.ID]; !ok {
		return unknown("faction", e.ID)
	}
	return nil
}

func applyFactionRepChange(s *world.State, e event.FactionRepChange, r Rules) {
	f := s.Factions[e.ID]
	f.Reputation = r.clampReputation(saturatingAdd(f.Reputation, e.Delta))
	s.Factions[e.ID] = f
}
