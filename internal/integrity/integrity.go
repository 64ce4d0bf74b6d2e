// Package integrity audits a persisted world for invariant violations.
package integrity

import (
	"fmt"
	"strings"

	"lorekeeper/internal/config"
	"lorekeeper/internal/world"
)

type Severity string

const (
	SeverityError Severity = "error"
	SeverityWarn  Severity = "warning"
)

const (
	codeMissingID            = "missing_id"
	codeMissingName          = "missing_name"
	codeInvalidQuantity      = "invalid_quantity"
	codeNegativeBalance      = "negative_balance"
	codeInvalidQuestStatus   = "invalid_quest_status"
	codeDuplicateID          = "duplicate_id"
	codeDanglingRelationship = "dangling_relationship"
	codeEnumInvalid          = "enum_value_invalid"
	codeUnknownSection       = "unknown_section"
	codeInvalidLevel         = "invalid_level"
	codeInvalidClock         = "invalid_clock"
)

type Issue struct {
	Severity Severity
	Code     string
	Message  string
	Area     string
	Entity   string
}

type Report struct {
	Issues []Issue
}

func (r *Report) HasErrors() bool {
	for _, issue := range r.Issues {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Err summarizes error-severity issues, or returns nil.
func (r *Report) Err() error {
	var msgs []string
	for _, issue := range r.Issues {
		if issue.Severity != SeverityError {
			continue
		}
		msgs = append(msgs, fmt.Sprintf("%s %s: %s", issue.Area, issue.Entity, issue.Message))
	}
	if len(msgs) == 0 {
		return nil
	}
	return fmt.Errorf("integrity check failed: %s", strings.Join(msgs, "; "))
}

// Audit checks d against the world invariants. Sections may be nil.
func Audit(d world.Data, sections *config.SectionSchema) *Report {
	a := &auditor{}

	if d.ClockMinutes < 0 {
		a.add(SeverityError, codeInvalidClock, "clock", "", "world clock is negative")
	}
	if d.Player != nil {
		if strings.TrimSpace(d.Player.Name) == "" {
			a.add(SeverityWarn, codeMissingName, "player", "", "player has no name")
		}
		if d.Player.Level < 1 {
			a.add(SeverityError, codeInvalidLevel, "player", d.Player.Name, fmt.Sprintf("level %d is below 1", d.Player.Level))
		}
	}

	for _, st := range d.Stats {
		a.requireID("stats", st.ID)
	}
	for _, it := range d.Inventory {
		a.requireID("inventory", it.ID)
		if it.Quantity < 1 {
			a.add(SeverityError, codeInvalidQuantity, "inventory", it.ID, fmt.Sprintf("quantity %d is not positive", it.Quantity))
		}
	}
	for _, eq := range d.Equipment {
		a.requireID("equipment", eq.Slot)
		a.requireID("equipment", eq.ItemID)
	}
	for _, l := range d.Loot {
		a.requireID("loot", l.Item)
		if l.Quantity < 1 {
			a.add(SeverityError, codeInvalidQuantity, "loot", l.Item, fmt.Sprintf("quantity %d is not positive", l.Quantity))
		}
	}
	for _, b := range d.Currencies {
		a.requireID("currencies", b.Currency)
		if b.Amount < 0 {
			a.add(SeverityError, codeNegativeBalance, "currencies", b.Currency, fmt.Sprintf("balance %d is negative", b.Amount))
		}
	}
	for _, n := range d.NPCs {
		a.requireID("npcs", n.ID)
		a.requireName("npcs", n.ID, n.Name)
	}
	for _, f := range d.Factions {
		a.requireID("factions", f.ID)
		a.requireName("factions", f.ID, f.Name)
	}
	for _, q := range d.Quests {
		a.requireID("quests", q.ID)
		a.requireName("quests", q.ID, q.Title)
		switch q.Status {
		case world.QuestActive, world.QuestCompleted, world.QuestFailed:
		default:
			a.add(SeverityError, codeInvalidQuestStatus, "quests", q.ID, fmt.Sprintf("invalid status %q", q.Status))
		}
		seen := make(map[string]struct{})
		for _, sub := range q.SubQuests {
			if _, dup := seen[sub.ID]; dup {
				a.add(SeverityError, codeDuplicateID, "quests", q.ID, fmt.Sprintf("duplicate sub-quest %q", sub.ID))
			}
			seen[sub.ID] = struct{}{}
		}
	}
	for _, p := range d.Powers {
		a.requireID("powers", p.ID)
	}

	actors := actorSet(d)
	for _, r := range d.Relationships {
		key := r.Subject + "::" + r.Target
		if _, ok := actors[r.Subject]; !ok {
			a.add(SeverityError, codeDanglingRelationship, "relationships", key, fmt.Sprintf("unknown subject %q", r.Subject))
		}
		if _, ok := actors[r.Target]; !ok {
			a.add(SeverityError, codeDanglingRelationship, "relationships", key, fmt.Sprintf("unknown target %q", r.Target))
		}
	}

	for _, sec := range d.Sections {
		if !sections.IsValidSection(sec.Name) {
			a.add(SeverityWarn, codeUnknownSection, "sections", sec.Name, "section is not declared in the schema")
		}
		for _, c := range sec.Cards {
			a.requireID("sections", c.ID)
			if c.Status != "" && !sections.AllowsStatus(sec.Name, c.Status) {
				a.add(SeverityError, codeEnumInvalid, "sections", sec.Name+"/"+c.ID, fmt.Sprintf("invalid status: %s", c.Status))
			}
		}
	}

	return &Report{Issues: a.issues}
}

type auditor struct {
	issues []Issue
}

func (a *auditor) add(severity Severity, code, area, entity, message string) {
	a.issues = append(a.issues, Issue{
		Severity: severity,
		Code:     code,
		Message:  message,
		Area:     area,
		Entity:   entity,
	})
}

func (a *auditor) requireID(area, id string) {
	if strings.TrimSpace(id) == "" {
		a.add(SeverityError, codeMissingID, area, "", "record has no id")
	}
}

func (a *auditor) requireName(area, id, name string) {
	if strings.TrimSpace(name) == "" {
		a.add(SeverityWarn, codeMissingName, area, id, "record has no name")
	}
}

func actorSet(d world.Data) map[string]struct{} {
	actors := make(map[string]struct{}, len(d.NPCs)+len(d.Factions)+1)
	if d.Player != nil {
		actors[world.PlayerID] = struct{}{}
	}
	for _, n := range d.NPCs {
		actors[n.ID] = struct{}{}
	}
	for _, f := range d.Factions {
		actors[f.ID] = struct{}{}
	}
	return actors
}
