package integrity

import (
	"testing"

	"lorekeeper/internal/config"
	"lorekeeper/internal/world"
)

func cleanData() world.Data {
	s := world.NewSession(world.Player{Name: "Ash"})
	s.Inventory["torch"] = world.Item{ID: "torch", Quantity: 1}
	s.NPCs["mira"] = world.Npc{ID: "mira", Name: "Mira", InParty: true}
	s.Factions["watch"] = world.Faction{ID: "watch", Name: "The Watch"}
	s.Quests["q1"] = world.Quest{ID: "q1", Title: "Ash Road", Status: world.QuestActive}
	s.Relationships[world.RelKey{Subject: world.PlayerID, Target: "mira"}] = 5
	s.Relationships[world.RelKey{Subject: "mira", Target: "watch"}] = -5
	s.PutCard("locations", world.Card{ID: "ford", Name: "Grey Ford", Status: "visited"})
	return s.Export()
}

func TestAudit_Clean(t *testing.T) {
	report := Audit(cleanData(), nil)
	if len(report.Issues) != 0 {
		t.Fatalf("expected no issues, got %+v", report.Issues)
	}
	if report.Err() != nil {
		t.Fatalf("expected nil error")
	}
}

func TestAudit_Violations(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(d *world.Data)
		code     string
		severity Severity
	}{
		{
			name:     "zero quantity item",
			mutate:   func(d *world.Data) { d.Inventory[0].Quantity = 0 },
			code:     codeInvalidQuantity,
			severity: SeverityError,
		},
		{
			name:     "negative balance",
			mutate:   func(d *world.Data) { d.Currencies = append(d.Currencies, world.Balance{Currency: "gold", Amount: -1}) },
			code:     codeNegativeBalance,
			severity: SeverityError,
		},
		{
			name:     "unknown quest status",
			mutate:   func(d *world.Data) { d.Quests[0].Status = "paused" },
			code:     codeInvalidQuestStatus,
			severity: SeverityError,
		},
		{
			name:     "dangling relationship",
			mutate:   func(d *world.Data) { d.NPCs = nil },
			code:     codeDanglingRelationship,
			severity: SeverityError,
		},
		{
			name:     "player edge without player",
			mutate:   func(d *world.Data) { d.Player = nil },
			code:     codeDanglingRelationship,
			severity: SeverityError,
		},
		{
			name:     "npc without name",
			mutate:   func(d *world.Data) { d.NPCs[0].Name = " " },
			code:     codeMissingName,
			severity: SeverityWarn,
		},
		{
			name:     "duplicate sub-quest",
			mutate:   func(d *world.Data) { d.Quests[0].SubQuests = []world.SubQuest{{ID: "a"}, {ID: "a"}} },
			code:     codeDuplicateID,
			severity: SeverityError,
		},
		{
			name:     "negative clock",
			mutate:   func(d *world.Data) { d.ClockMinutes = -1 },
			code:     codeInvalidClock,
			severity: SeverityError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := cleanData()
			tt.mutate(&d)
			report := Audit(d, nil)
			if !hasIssue(report, tt.code, tt.severity) {
				t.Fatalf("expected %s issue %s, got %+v", tt.severity, tt.code, report.Issues)
			}
			if tt.severity == SeverityError && report.Err() == nil {
				t.Fatalf("expected error summary")
			}
		})
	}
}

func TestAudit_SectionSchema(t *testing.T) {
	schema, err := config.NewSectionSchema(config.SectionType{Name: "locations", Statuses: []string{"rumored"}})
	if err != nil {
		t.Fatalf("building schema: %v", err)
	}

	d := cleanData()
	d.Sections = append(d.Sections, world.Section{Name: "weather", Cards: []world.Card{{ID: "storm", Name: "Storm"}}})

	report := Audit(d, schema)
	if !hasIssue(report, codeEnumInvalid, SeverityError) {
		t.Fatalf("expected enum issue, got %+v", report.Issues)
	}
	if !hasIssue(report, codeUnknownSection, SeverityWarn) {
		t.Fatalf("expected unknown section warning, got %+v", report.Issues)
	}
}

func hasIssue(report *Report, code string, severity Severity) bool {
	for _, issue := range report.Issues {
		if issue.Code == code && issue.Severity == severity {
			return true
		}
	}
	return false
}
