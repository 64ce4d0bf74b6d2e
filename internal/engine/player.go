package engine

import (
	"math"
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

func checkModifyStat(s *world.State, e event.ModifyStat, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("stat_id", e.StatID); r != nil {
		return r
	}
	cur, _ := s.Stats.Get(e.StatID)
	return inRange(e.StatID, cur, e.Delta)
}

// applyModifyStat creates the stat at zero when it does not exist yet.
func applyModifyStat(s *world.State, e event.ModifyStat, _ Rules) {
	cur, _ := s.Stats.Get(e.StatID)
	s.Stats.Set(e.StatID, cur+e.Delta)
}

func checkPlayerUpdate(s *world.State, _ event.PlayerUpdate, _ Rules) *Reason {
	return needPlayer(s)
}

func applyPlayerUpdate(s *world.State, e event.PlayerUpdate, r Rules) {
	p := s.Player
	if v := strings.TrimSpace(e.Name); v != "" {
		p.Name = v
	}
	if v := strings.TrimSpace(e.Role); v != "" {
		p.Role = v
	}
	if v := strings.TrimSpace(e.Status); v != "" {
		p.Status = v
	}
	if v := clip(e.Notes, r.MaxDetailsLength); v != "" {
		p.Notes = v
	}
	p.Tags = mergeList(p.Tags, e.TagsAdd, e.TagsRemove, 0)
}

func checkAddExp(s *world.State, e event.AddExp, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := positive("amount", e.Amount); r != nil {
		return r
	}
	return inRange("exp", s.Player.Exp, e.Amount)
}

// applyAddExp levels the player up as many times as the gained exp allows,
// at most MaxLevelsPerEvent times. Surplus exp carries over.
func applyAddExp(s *world.State, e event.AddExp, r Rules) {
	p := s.Player
	p.Exp += e.Amount
	for range r.MaxLevelsPerEvent {
		if p.ExpToNext < 1 || p.Exp < p.ExpToNext {
			return
		}
		p.Exp -= p.ExpToNext
		levelUp(p)
	}
}

func checkLevelUp(s *world.State, e event.LevelUp, rules Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := positive("levels", e.Levels); r != nil {
		return r
	}
	if e.Levels > rules.MaxLevelsPerEvent {
		return reasonf(CodeInvalidValue, "invalid value: levels must be at most %d, got %d", rules.MaxLevelsPerEvent, e.Levels)
	}
	return inRange("level", s.Player.Level, e.Levels)
}

func applyLevelUp(s *world.State, e event.LevelUp, _ Rules) {
	for range e.Levels {
		levelUp(s.Player)
	}
}

func levelUp(p *world.Player) {
	p.Level = saturatingAdd(p.Level, 1)
	next := math.MaxInt
	if grown := math.Ceil(float64(p.ExpToNext) * p.ExpMultiplier); grown < float64(math.MaxInt) {
		next = int(grown)
	}
	if next <= p.ExpToNext {
		next = saturatingAdd(p.ExpToNext, 1)
	}
	p.ExpToNext = next
}

func checkGrantPower(s *world.State, e event.GrantPower, _ Rules) *Reason {
	if r := needPlayer(s); r != nil {
		return r
	}
	if r := required("id", e.ID, "name", e.Name); r != nil {
		return r
	}
	if _, ok := s.Powers[e.ID]; ok {
		return duplicate(e.ID)
	}
	return nil
}

func applyGrantPower(s *world.State, e event.GrantPower, r Rules) {
	s.Powers[e.ID] = world.Power{
		ID:          e.ID,
		Name:        strings.TrimSpace(e.Name),
		Description: clip(e.Description, r.MaxDetailsLength),
	}
}
