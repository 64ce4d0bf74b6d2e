package engine

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lorekeeper/internal/config"
	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

// mustApply fails the test unless every event is applied.
func mustApply(t *testing.T, s *world.State, rules Rules, events ...event.Event) {
	t.Helper()
	for _, ev := range events {
		out := Step(s, ev, rules)
		require.Equal(t, StatusApplied, out.Status, "%s: %s", ev.Kind(), out.Message)
	}
}

func TestCreation_SharedNamespace(t *testing.T) {
	s := populated()
	rules := DefaultRules()

	tests := []event.Event{
		event.NpcSpawn{ID: "watch", Name: "Watchman"},
		event.NpcSpawn{ID: world.PlayerID, Name: "Impostor"},
		event.AddPartyMember{ID: "mira", Name: "Mira"},
		event.FactionSpawn{ID: "mira", Name: "Mira's Band"},
		event.StartQuest{ID: "q1", Title: "Again"},
		event.GrantPower{ID: "ember", Name: "Ember"},
	}
	s.Powers["ember"] = world.Power{ID: "ember", Name: "Ember"}

	for _, ev := range tests {
		out := Step(s, ev, rules)
		assert.Equal(t, CodeDuplicateID, out.Code, string(ev.Kind()))
	}
}

func TestCreation_MissingFields(t *testing.T) {
	s := newState()
	tests := []event.Event{
		event.NpcSpawn{ID: " ", Name: "Nobody"},
		event.FactionSpawn{ID: "f", Name: ""},
		event.StartQuest{ID: "q", Title: "  "},
		event.AddItem{ItemID: "", Quantity: 1},
		event.SetFlag{Flag: ""},
		event.SectionUpsert{Section: "locations", ID: "ford"},
		event.StartQuest{ID: "q", Title: "T", SubQuests: []event.SubQuest{{ID: ""}}},
	}
	for _, ev := range tests {
		out := Step(s, ev, DefaultRules())
		assert.Equal(t, StatusRejected, out.Status, string(ev.Kind()))
		assert.Equal(t, CodeMissingField, out.Code, string(ev.Kind()))
	}
}

func TestNpcDespawn_RemovesEdges(t *testing.T) {
	s := populated()
	s.Relationships[world.RelKey{Subject: world.PlayerID, Target: "mira"}] = 10
	s.Relationships[world.RelKey{Subject: world.PlayerID, Target: "watch"}] = 4

	mustApply(t, s, DefaultRules(), event.NpcDespawn{ID: "mira", Reason: "fell at the ford"})

	_, ok := s.NPCs["mira"]
	assert.False(t, ok)
	assert.Equal(t, map[world.RelKey]int{{Subject: world.PlayerID, Target: "watch"}: 4}, s.Relationships)
}

func TestParty_Membership(t *testing.T) {
	s := populated()

	out := Step(s, event.NpcJoinParty{ID: "mira"}, DefaultRules())
	assert.Equal(t, CodeAlreadyInParty, out.Code)

	mustApply(t, s, DefaultRules(), event.NpcLeaveParty{ID: "mira"})
	assert.False(t, s.NPCs["mira"].InParty)

	out = Step(s, event.NpcLeaveParty{ID: "mira"}, DefaultRules())
	assert.Equal(t, CodeNotInParty, out.Code)
	out = Step(s, event.PartyUpdate{ID: "mira", Role: "scout"}, DefaultRules())
	assert.Equal(t, CodeNotInParty, out.Code)

	mustApply(t, s, DefaultRules(), event.AddPartyMember{ID: "oren", Name: "Oren", Role: "ferryman"})
	assert.True(t, s.NPCs["oren"].InParty)
}

func TestPartyUpdate_Sanitizes(t *testing.T) {
	s := populated()
	rules := DefaultRules()
	rules.MaxDetailsLength = 10
	rules.MaxListItems = 2

	mustApply(t, s, rules, event.PartyUpdate{
		ID:         "mira",
		Details:    "abcdefghijklmno",
		WeaponsAdd: []string{"sword", " ", "SWORD", "bow", "axe"},
		ArmorAdd:   []string{"  leather  "},
	})
	mira := s.NPCs["mira"]
	assert.Equal(t, "abcdefg...", mira.Details)
	assert.Equal(t, []string{"sword", "bow"}, mira.Weapons)
	assert.Equal(t, []string{"leather"}, mira.Armor)

	mustApply(t, s, rules, event.PartyUpdate{ID: "mira", WeaponsRemove: []string{"Sword"}})
	assert.Equal(t, []string{"bow"}, s.NPCs["mira"].Weapons)
	assert.Equal(t, "abcdefg...", s.NPCs["mira"].Details)
}

func TestNpcUpdate_AppendsNotes(t *testing.T) {
	s := populated()
	rules := DefaultRules()
	rules.MaxListItems = 2

	mustApply(t, s, rules,
		event.NpcUpdate{ID: "mira", Notes: "first"},
		event.NpcUpdate{ID: "mira", Notes: "second"},
		event.NpcUpdate{ID: "mira", Notes: "third", Role: "scout"},
	)
	assert.Equal(t, []string{"second", "third"}, s.NPCs["mira"].Notes)
	assert.Equal(t, "scout", s.NPCs["mira"].Role)
	assert.Equal(t, "Mira", s.NPCs["mira"].Name)
}

func TestStanding_Clamped(t *testing.T) {
	s := populated()
	rules := DefaultRules()
	key := world.RelKey{Subject: world.PlayerID, Target: "mira"}

	mustApply(t, s, rules, event.RelationshipChange{SubjectID: world.PlayerID, TargetID: "mira", Delta: 500})
	assert.Equal(t, 100, s.Relationships[key])

	mustApply(t, s, rules, event.RelationshipChange{SubjectID: world.PlayerID, TargetID: "mira", Delta: -100})
	_, ok := s.Relationships[key]
	assert.False(t, ok, "neutral edges are dropped")

	mustApply(t, s, rules, event.FactionRepChange{ID: "watch", Delta: -250})
	assert.Equal(t, -100, s.Factions["watch"].Reputation)

	out := Step(s, event.RelationshipChange{SubjectID: "mira", TargetID: "mira", Delta: 1}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)
}

func TestRelationship_PlayerMissingDefers(t *testing.T) {
	s := world.New()
	s.NPCs["mira"] = world.Npc{ID: "mira", Name: "Mira"}

	out := Step(s, event.RelationshipChange{SubjectID: world.PlayerID, TargetID: "mira", Delta: 1}, DefaultRules())
	assert.Equal(t, StatusDeferred, out.Status)
	assert.Equal(t, CodePlayerMissing, out.Code)
}

func TestEquipment(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	mustApply(t, s, rules,
		event.AddItem{ItemID: "sword", Quantity: 1, SetID: "iron"},
		event.EquipItem{ItemID: "sword", Slot: "Main_Hand"},
	)
	_, held := s.Inventory["sword"]
	assert.False(t, held)
	assert.Equal(t, world.Equipped{Slot: "main_hand", ItemID: "sword", SetID: "iron"}, s.Equipment["main_hand"])
	assert.Equal(t, []string{"sword"}, s.Player.Weapons)

	mustApply(t, s, rules, event.AddItem{ItemID: "axe", Quantity: 1})
	out := Step(s, event.EquipItem{ItemID: "axe", Slot: "main_hand"}, rules)
	assert.Equal(t, CodeSlotOccupied, out.Code)
	assert.Equal(t, "slot occupied: main_hand holds sword", out.Message)

	mustApply(t, s, rules, event.EquipItem{ItemID: "axe", Slot: "main_hand", Replace: true})
	assert.Equal(t, "axe", s.Equipment["main_hand"].ItemID)
	assert.Equal(t, world.Item{ID: "sword", Quantity: 1, SetID: "iron"}, s.Inventory["sword"])
	assert.Equal(t, []string{"axe"}, s.Player.Weapons)

	mustApply(t, s, rules, event.UnequipItem{ItemID: "axe"})
	assert.Empty(t, s.Equipment)
	assert.Equal(t, 1, s.Inventory["axe"].Quantity)
	assert.Empty(t, s.Player.Weapons)

	mustApply(t, s, rules, event.AddItem{ItemID: "cloak", Quantity: 1}, event.EquipItem{ItemID: "cloak", Slot: "back"})
	assert.Equal(t, []string{"cloak"}, s.Player.Clothing)
	mustApply(t, s, rules, event.EquipItem{ItemID: "sword", Slot: "off_hand"})
	assert.Equal(t, []string{"sword"}, s.Player.Weapons)
}

func TestInventoryQuantities(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	mustApply(t, s, rules, event.AddItem{ItemID: "torch", Quantity: 3, Description: "pitch-soaked"})
	mustApply(t, s, rules, event.AddItem{ItemID: "torch", Quantity: 2})
	assert.Equal(t, world.Item{ID: "torch", Quantity: 5, Description: "pitch-soaked"}, s.Inventory["torch"])

	out := Step(s, event.RemoveItem{ItemID: "torch", Quantity: 6}, rules)
	assert.Equal(t, CodeInsufficientQuantity, out.Code)
	assert.Equal(t, 5, s.Inventory["torch"].Quantity)

	out = Step(s, event.AddItem{ItemID: "torch", Quantity: 0}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)
	out = Step(s, event.RemoveItem{ItemID: "torch", Quantity: -1}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)

	mustApply(t, s, rules, event.DropItem{ItemID: "torch", Quantity: 2})
	assert.Equal(t, 3, s.Inventory["torch"].Quantity)
	assert.Equal(t, world.LootDrop{Item: "torch", Quantity: 2, Description: "pitch-soaked"}, s.Loot["torch"])

	mustApply(t, s, rules, event.PickupLoot{Item: "torch", Quantity: 1})
	assert.Equal(t, 1, s.Loot["torch"].Quantity)
	assert.Equal(t, 4, s.Inventory["torch"].Quantity)

	out = Step(s, event.PickupLoot{Item: "torch", Quantity: 5}, rules)
	assert.Equal(t, CodeInsufficientQuantity, out.Code)

	mustApply(t, s, rules, event.PickupLoot{Item: "torch"})
	assert.Empty(t, s.Loot)
	assert.Equal(t, 5, s.Inventory["torch"].Quantity)

	mustApply(t, s, rules, event.RemoveItem{ItemID: "torch", Quantity: 5})
	_, ok := s.Inventory["torch"]
	assert.False(t, ok, "empty records are removed")
}

func TestLootProducers(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	mustApply(t, s, rules,
		event.SpawnLoot{Item: "coin purse"},
		event.Craft{Item: "arrow", Quantity: 10, Quality: "fine"},
		event.Gather{Item: "herb", Quantity: 3},
		event.Gather{Item: "herb"},
	)
	assert.Equal(t, 1, s.Loot["coin purse"].Quantity)
	assert.Equal(t, world.LootDrop{Item: "arrow", Quantity: 10, Description: "fine"}, s.Loot["arrow"])
	assert.Equal(t, 4, s.Loot["herb"].Quantity)
	assert.Empty(t, s.Inventory)

	out := Step(s, event.SpawnLoot{Item: "gem", Quantity: -2}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)
}

func TestCurrency(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	out := Step(s, event.CurrencyChange{Currency: "gold", Delta: -5}, rules)
	assert.Equal(t, CodeInsufficientFunds, out.Code)
	assert.Empty(t, s.Currencies)

	mustApply(t, s, rules,
		event.CurrencyChange{Currency: "Gold", Delta: 10},
		event.CurrencyChange{Currency: "gold", Delta: -4},
	)
	assert.Equal(t, 6, s.Currencies["gold"])

	out = Step(s, event.CurrencyChange{Currency: "gold", Delta: -7}, rules)
	assert.Equal(t, CodeInsufficientFunds, out.Code)
	assert.Equal(t, 6, s.Currencies["gold"])
}

func TestPlayerProgression(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	mustApply(t, s, rules, event.AddExp{Amount: 350})
	assert.Equal(t, 3, s.Player.Level)
	assert.Equal(t, 50, s.Player.Exp)
	assert.Equal(t, 400, s.Player.ExpToNext)

	mustApply(t, s, rules, event.LevelUp{Levels: 2})
	assert.Equal(t, 5, s.Player.Level)
	assert.Equal(t, 1600, s.Player.ExpToNext)

	out := Step(s, event.AddExp{Amount: 0}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)

	mustApply(t, s, rules,
		event.ModifyStat{StatID: "souls", Delta: 5},
		event.ModifyStat{StatID: "souls", Delta: -8},
		event.PlayerUpdate{Role: "oathbreaker", TagsAdd: []string{"cursed", "marked"}},
		event.PlayerUpdate{TagsRemove: []string{"CURSED"}},
		event.GrantPower{ID: "ember", Name: "Ember Touch"},
	)
	souls, _ := s.Stats.Get("souls")
	assert.Equal(t, -3, souls)
	assert.Equal(t, "Ash", s.Player.Name)
	assert.Equal(t, "oathbreaker", s.Player.Role)
	assert.Equal(t, []string{"marked"}, s.Player.Tags)
	assert.Equal(t, "Ember Touch", s.Powers["ember"].Name)
}

func TestQuestRewardsAndSubQuests(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	mustApply(t, s, rules, event.StartQuest{
		ID:        "q2",
		Title:     "The Ferryman's Debt",
		Rewards:   []string{"50 gold", "Potion x2", "Ring (set:moon)"},
		SubQuests: []event.SubQuest{{ID: "a", Description: "find Oren"}},
	})
	mustApply(t, s, rules, event.UpdateQuest{
		ID:        "q2",
		SubQuests: []event.SubQuest{{ID: "a", Completed: true}, {ID: "b", Description: "pay the toll"}},
	})
	q := s.Quests["q2"]
	assert.Equal(t, []world.SubQuest{
		{ID: "a", Description: "find Oren", Completed: true},
		{ID: "b", Description: "pay the toll"},
	}, q.SubQuests)

	mustApply(t, s, rules, event.UpdateQuest{ID: "q2", Status: "Completed"})
	assert.Equal(t, 50, s.Currencies["gold"])
	assert.Equal(t, 2, s.Inventory["Potion"].Quantity)
	assert.Equal(t, "moon", s.Inventory["Ring"].SetID)
	assert.True(t, s.Quests["q2"].RewardsClaimed)

	mustApply(t, s, rules, event.UpdateQuest{ID: "q2", Status: "completed"})
	assert.Equal(t, 50, s.Currencies["gold"], "rewards are granted once")

	out := Step(s, event.UpdateQuest{ID: "q2", Status: "paused"}, rules)
	assert.Equal(t, CodeInvalidStatus, out.Code)
}

func TestSections(t *testing.T) {
	schema, err := config.NewSectionSchema(config.SectionType{Name: "locations", Statuses: []string{"rumored", "visited"}})
	require.NoError(t, err)
	rules := DefaultRules()
	rules.Sections = schema
	s := newState()

	out := Step(s, event.SectionUpsert{Section: "Weather", ID: "storm", Name: "Storm"}, rules)
	assert.Equal(t, CodeUnknownSection, out.Code)

	out = Step(s, event.SectionUpsert{Section: "locations", ID: "ford", Name: "Grey Ford", Status: "flooded"}, rules)
	assert.Equal(t, CodeInvalidStatus, out.Code)

	mustApply(t, s, rules,
		event.SectionUpsert{Section: "Locations", ID: "ford", Name: "Grey Ford", Status: "Rumored", Tags: []string{"river", ""}},
		event.SectionUpsert{Section: "locations", ID: "ford", Name: "Grey Ford", Status: "visited", Details: "Knee deep."},
	)
	card, ok := s.Card("locations", "ford")
	require.True(t, ok)
	assert.Equal(t, world.Card{ID: "ford", Name: "Grey Ford", Status: "visited", Details: "Knee deep.", Tags: []string{"river"}}, card)

	mustApply(t, s, rules, event.SectionRemove{Section: "locations", ID: "ford"})
	assert.Equal(t, 0, s.Sections.Len())

	mustApply(t, newState(), DefaultRules(), event.SectionUpsert{Section: "weather", ID: "storm", Name: "Storm"})
}

func TestFlagsAndTime(t *testing.T) {
	s := newState()
	rules := DefaultRules()

	mustApply(t, s, rules, event.SetFlag{Flag: "met_the_oracle"}, event.SetFlag{Flag: "met_the_oracle"})
	assert.Len(t, s.Flags, 1)
	mustApply(t, s, rules, event.ClearFlag{Flag: "met_the_oracle"})
	out := Step(s, event.ClearFlag{Flag: "met_the_oracle"}, rules)
	assert.Equal(t, CodeFlagNotSet, out.Code)

	mustApply(t, s, rules, event.TimePassed{Hours: 2, Minutes: 30}, event.TimePassed{Days: 1})
	assert.Equal(t, 150+24*60, s.Clock)

	out = Step(s, event.TimePassed{}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)
	out = Step(s, event.TimePassed{Hours: 1, Minutes: -90}, rules)
	assert.Equal(t, CodeInvalidValue, out.Code)
}

func TestNarrativeOnly(t *testing.T) {
	s := populated()
	before := s.Export()
	mustApply(t, s, DefaultRules(),
		event.Dialogue{Speaker: "Mira", Text: "The river is rising."},
		event.Combat{Target: "wolves", Outcome: "driven off"},
		event.Travel{Destination: "Grey Ford"},
		event.Rest{},
	)
	assert.Equal(t, before, s.Export())

	out := Step(s, event.RequestContext{Topics: []string{" "}}, DefaultRules())
	assert.Equal(t, StatusRejected, out.Status)
	assert.Equal(t, CodeMissingField, out.Code)
}

func TestArithmetic_OutOfRangeRejected(t *testing.T) {
	rules := DefaultRules()

	t.Run("inventory stack", func(t *testing.T) {
		s := newState()
		mustApply(t, s, rules, event.AddItem{ItemID: "torch", Quantity: math.MaxInt})
		out := Step(s, event.AddItem{ItemID: "torch", Quantity: 1}, rules)
		assert.Equal(t, StatusRejected, out.Status)
		assert.Equal(t, CodeInvalidValue, out.Code)
		assert.Equal(t, math.MaxInt, s.Inventory["torch"].Quantity)
	})

	t.Run("currency balance", func(t *testing.T) {
		s := newState()
		mustApply(t, s, rules, event.CurrencyChange{Currency: "gold", Delta: math.MaxInt})
		out := Step(s, event.CurrencyChange{Currency: "gold", Delta: 1}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
		assert.Equal(t, math.MaxInt, s.Currencies["gold"])
	})

	t.Run("stat", func(t *testing.T) {
		s := newState()
		mustApply(t, s, rules, event.ModifyStat{StatID: "souls", Delta: -5})
		out := Step(s, event.ModifyStat{StatID: "souls", Delta: math.MinInt}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
		souls, _ := s.Stats.Get("souls")
		assert.Equal(t, -5, souls)
	})

	t.Run("exp", func(t *testing.T) {
		s := newState()
		s.Player.Exp = math.MaxInt - 1
		s.Player.ExpToNext = math.MaxInt
		out := Step(s, event.AddExp{Amount: 2}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
	})

	t.Run("pickup onto a full stack", func(t *testing.T) {
		s := newState()
		s.Inventory["torch"] = world.Item{ID: "torch", Quantity: math.MaxInt}
		s.Loot["torch"] = world.LootDrop{Item: "torch", Quantity: 1}
		out := Step(s, event.PickupLoot{Item: "torch"}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
		assert.Equal(t, 1, s.Loot["torch"].Quantity)
	})

	t.Run("loot pile", func(t *testing.T) {
		s := newState()
		s.Loot["arrow"] = world.LootDrop{Item: "arrow", Quantity: math.MaxInt}
		for _, ev := range []event.Event{
			event.SpawnLoot{Item: "arrow"},
			event.Craft{Item: "arrow", Quantity: 3},
			event.Gather{Item: "arrow"},
		} {
			out := Step(s, ev, rules)
			assert.Equal(t, CodeInvalidValue, out.Code, string(ev.Kind()))
		}
	})

	t.Run("time", func(t *testing.T) {
		s := newState()
		out := Step(s, event.TimePassed{Days: math.MaxInt / 2}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
		assert.Equal(t, 0, s.Clock)

		s.Clock = math.MaxInt - 10
		out = Step(s, event.TimePassed{Minutes: 11}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
		mustApply(t, s, rules, event.TimePassed{Minutes: 10})
		assert.Equal(t, math.MaxInt, s.Clock)
	})

	t.Run("quest rewards", func(t *testing.T) {
		s := newState()
		s.Currencies["gold"] = math.MaxInt
		mustApply(t, s, rules, event.StartQuest{ID: "q1", Title: "Toll", Rewards: []string{"50 gold"}})
		out := Step(s, event.UpdateQuest{ID: "q1", Status: "completed"}, rules)
		assert.Equal(t, CodeInvalidValue, out.Code)
		assert.Equal(t, world.QuestActive, s.Quests["q1"].Status)
		assert.False(t, s.Quests["q1"].RewardsClaimed)

		mustApply(t, s, rules, event.UpdateQuest{ID: "q1", Status: "completed", Rewards: []string{"Potion x2"}})
		assert.Equal(t, 2, s.Inventory["Potion"].Quantity)
	})
}

func TestStanding_SaturatesBeforeClamping(t *testing.T) {
	s := populated()
	rules := DefaultRules()
	key := world.RelKey{Subject: world.PlayerID, Target: "mira"}

	mustApply(t, s, rules,
		event.RelationshipChange{SubjectID: world.PlayerID, TargetID: "mira", Delta: math.MaxInt},
		event.FactionRepChange{ID: "watch", Delta: math.MaxInt},
	)
	assert.Equal(t, 100, s.Relationships[key])
	assert.Equal(t, 100, s.Factions["watch"].Reputation)

	mustApply(t, s, rules, event.RelationshipChange{SubjectID: world.PlayerID, TargetID: "mira", Delta: math.MinInt})
	assert.Equal(t, -100, s.Relationships[key])
}

func TestRelationship_OwnBounds(t *testing.T) {
	s := populated()
	rules := DefaultRules()
	rules.RelationshipMin, rules.RelationshipMax = -20, 20
	key := world.RelKey{Subject: world.PlayerID, Target: "mira"}

	mustApply(t, s, rules,
		event.RelationshipChange{SubjectID: world.PlayerID, TargetID: "mira", Delta: 500},
		event.FactionRepChange{ID: "watch", Delta: 500},
	)
	assert.Equal(t, 20, s.Relationships[key])
	assert.Equal(t, 100, s.Factions["watch"].Reputation)
}

func TestLevelUp_Capped(t *testing.T) {
	s := newState()
	rules := DefaultRules()
	rules.MaxLevelsPerEvent = 3

	out := Step(s, event.LevelUp{Levels: 2_000_000_000}, rules)
	assert.Equal(t, StatusRejected, out.Status)
	assert.Equal(t, CodeInvalidValue, out.Code)
	assert.Equal(t, 1, s.Player.Level)

	mustApply(t, s, rules, event.LevelUp{Levels: 3})
	assert.Equal(t, 4, s.Player.Level)
}

func TestAddExp_LevelsCappedPerEvent(t *testing.T) {
	s := newState()
	rules := DefaultRules()
	rules.MaxLevelsPerEvent = 3

	mustApply(t, s, rules, event.AddExp{Amount: 100_000})
	assert.Equal(t, 4, s.Player.Level)
	assert.Equal(t, 100_000-100-200-400, s.Player.Exp)
	assert.Equal(t, 800, s.Player.ExpToNext)

	s.Player.ExpMultiplier = 1
	mustApply(t, s, rules, event.AddExp{Amount: math.MaxInt - s.Player.Exp})
	assert.Equal(t, 7, s.Player.Level)
}

func TestLevelUp_ExpToNextSaturates(t *testing.T) {
	s := newState()
	s.Player.ExpToNext = math.MaxInt / 2

	mustApply(t, s, DefaultRules(), event.LevelUp{Levels: 3})
	assert.Equal(t, 4, s.Player.Level)
	assert.Equal(t, math.MaxInt, s.Player.ExpToNext)
}

func TestRulesFromConfig_KeepsDefaultsForUnsetBounds(t *testing.T) {
	r := RulesFromConfig(&config.ProjectConfig{Rules: config.RulesConfig{
		Reputation:       config.BoundsConfig{Min: -10, Max: 10},
		MaxDetailsLength: 100,
		MaxListItems:     4,
	}}, nil)

	assert.Equal(t, 10, r.ReputationMax)
	assert.Equal(t, -100, r.RelationshipMin)
	assert.Equal(t, 100, r.RelationshipMax)
	assert.Equal(t, 100, r.MaxLevelsPerEvent)
}
