package engine

import (
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

func checkNpcSpawn(s *world.State, e event.NpcSpawn, _ Rules) *Reason {
	if r := required("id", e.ID, "name", e.Name); r != nil {
		return r
	}
	if s.IDTaken(e.ID) {
		return duplicate(e.ID)
	}
	return nil
}

func applyNpcSpawn(s *world.State, e event.NpcSpawn, r Rules) {
	s.NPCs[e.ID] = world.Npc{
		ID:      e.ID,
		Name:    strings.TrimSpace(e.Name),
		Role:    strings.TrimSpace(e.Role),
		Details: clip(e.Details, r.MaxDetailsLength),
	}
}

func checkNpcUpdate(s *world.State, e event.NpcUpdate, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	if _, ok := s.NPCs[e.ID]; !ok {
		return unknown("npc", e.ID)
	}
	return nil
}

func applyNpcUpdate(s *world.State, e event.NpcUpdate, r Rules) {
	n := s.NPCs[e.ID]
	if v := strings.TrimSpace(e.Name); v != "" {
		n.Name = v
	}
	if v := strings.TrimSpace(e.Role); v != "" {
		n.Role = v
	}
	if v := clip(e.Details, r.MaxDetailsLength); v != "" {
		n.Details = v
	}
	if v := clip(e.Notes, r.MaxDetailsLength); v != "" {
		n.Notes = append(n.Notes, v)
		// oldest notes fall off first
		if r.MaxListItems > 0 && len(n.Notes) > r.MaxListItems {
			n.Notes = n.Notes[len(n.Notes)-r.MaxListItems:]
		}
	}
	s.NPCs[e.ID] = n
}

func checkNpcDespawn(s *world.State, e event.NpcDespawn, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	if _, ok := s.NPCs[e.ID]; !ok {
		return unknown("npc", e.ID)
	}
	return nil
}

func applyNpcDespawn(s *world.State, e event.NpcDespawn, _ Rules) {
	delete(s.NPCs, e.ID)
	for k := range s.Relationships {
		if k.Subject == e.ID || k.Target == e.ID {
			delete(s.Relationships, k)
		}
	}
}

func checkNpcJoinParty(s *world.State, e event.NpcJoinParty, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	n, ok := s.NPCs[e.ID]
	if !ok {
		return unknown("npc", e.ID)
	}
	if n.InParty {
		return reasonf(CodeAlreadyInParty, "already in party: %s", e.ID)
	}
	return nil
}

func applyNpcJoinParty(s *world.State, e event.NpcJoinParty, _ Rules) {
	n := s.NPCs[e.ID]
	n.InParty = true
	s.NPCs[e.ID] = n
}

func checkNpcLeaveParty(s *world.State, e event.NpcLeaveParty, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	n, ok := s.NPCs[e.ID]
	if !ok {
		return unknown("npc", e.ID)
	}
	if !n.InParty {
		return reasonf(CodeNotInParty, "not in party: %s", e.ID)
	}
	return nil
}

func applyNpcLeaveParty(s *world.State, e event.NpcLeaveParty, _ Rules) {
	n := s.NPCs[e.ID]
	n.InParty = false
	s.NPCs[e.ID] = n
}

func checkAddPartyMember(s *world.State, e event.AddPartyMember, _ Rules) *Reason {
	if r := required("id", e.ID, "name", e.Name); r != nil {
		return r
	}
	if s.IDTaken(e.ID) {
		return duplicate(e.ID)
	}
	return nil
}

func applyAddPartyMember(s *world.State, e event.AddPartyMember, r Rules) {
	s.NPCs[e.ID] = world.Npc{
		ID:      e.ID,
		Name:    strings.TrimSpace(e.Name),
		Role:    strings.TrimSpace(e.Role),
		Details: clip(e.Details, r.MaxDetailsLength),
		InParty: true,
	}
}

func checkPartyUpdate(s *world.State, e event.PartyUpdate, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	n, ok := s.NPCs[e.ID]
	if !ok {
		return unknown("party member", e.ID)
	}
	if !n.InParty {
		return reasonf(CodeNotInParty, "not in party: %s", e.ID)
	}
	return nil
}

func applyPartyUpdate(s *world.State, e event.PartyUpdate, r Rules) {
	n := s.NPCs[e.ID]
	if v := strings.TrimSpace(e.Name); v != "" {
		n.Name = v
	}
	if v := strings.TrimSpace(e.Role); v != "" {
		n.Role = v
	}
	if v := clip(e.Details, r.MaxDetailsLength); v != "" {
		n.Details = v
	}
	n.Clothing = mergeList(n.Clothing, e.ClothingAdd, e.ClothingRemove, r.MaxListItems)
	n.Weapons = mergeList(n.Weapons, e.WeaponsAdd, e.WeaponsRemove, r.MaxListItems)
	n.Armor = mergeList(n.Armor, e.ArmorAdd, e.ArmorRemove, r.MaxListItems)
	s.NPCs[e.ID] = n
}

func checkRelationshipChange(s *world.State, e event.RelationshipChange, _ Rules) *Reason {
	if r := required("subject_id", e.SubjectID, "target_id", e.TargetID); r != nil {
		return r
	}
	if e.SubjectID == e.TargetID {
		return reasonf(CodeInvalidValue, "invalid value: %s cannot relate to itself", e.SubjectID)
	}
	for _, id := range []string{e.SubjectID, e.TargetID} {
		if id == world.PlayerID {
			if r := needPlayer(s); r != nil {
				return r
			}
			continue
		}
		if !s.HasActor(id) {
			return unknown("actor", id)
		}
	}
	return nil
}

func applyRelationshipChange(s *world.State, e event.RelationshipChange, r Rules) {
	key := world.RelKey{Subject: e.SubjectID, Target: e.TargetID}
	v := r.clampRelationship(saturatingAdd(s.Relationships[key], e.Delta))
	if v == 0 {
		delete(s.Relationships, key)
		return
	}
	s.Relationships[key] = v
}
