package engine

import (
	"sort"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

// handlerEntry pairs the pure validation of one event kind with the mutation
// that runs once validation passed. apply must not fail.
type handlerEntry struct {
	check func(*world.State, event.Event, Rules) *Reason
	apply func(*world.State, event.Event, Rules)
}

func handle[E event.Event](check func(*world.State, E, Rules) *Reason, apply func(*world.State, E, Rules)) handlerEntry {
	return handlerEntry{
		check: func(s *world.State, ev event.Event, r Rules) *Reason {
			e, ok := ev.(E)
			if !ok {
				return reasonf(CodeMalformedEvent, "malformed event: unexpected payload %T", ev)
			}
			return check(s, e, r)
		},
		apply: func(s *world.State, ev event.Event, r Rules) {
			if e, ok := ev.(E); ok {
				apply(s, e, r)
			}
		},
	}
}

// handlers maps each event kind to its handler entry. Kinds missing here are
// deferred as unhandled.
var handlers = map[event.Kind]handlerEntry{
	// npcs and party
	event.KindNpcSpawn:           handle(checkNpcSpawn, applyNpcSpawn),
	event.KindNpcUpdate:          handle(checkNpcUpdate, applyNpcUpdate),
	event.KindNpcDespawn:         handle(checkNpcDespawn, applyNpcDespawn),
	event.KindNpcJoinParty:       handle(checkNpcJoinParty, applyNpcJoinParty),
	event.KindNpcLeaveParty:      handle(checkNpcLeaveParty, applyNpcLeaveParty),
	event.KindAddPartyMember:     handle(checkAddPartyMember, applyAddPartyMember),
	event.KindPartyUpdate:        handle(checkPartyUpdate, applyPartyUpdate),
	event.KindRelationshipChange: handle(checkRelationshipChange, applyRelationshipChange),

	// factions
	event.KindFactionSpawn:     handle(checkFactionSpawn, applyFactionSpawn),
	event.KindFactionUpdate:    handle(checkFactionUpdate, applyFactionUpdate),
	event.KindFactionRepChange: handle(checkFactionRepChange, applyFactionRepChange),

	// quests
	event.KindStartQuest:  handle(checkStartQuest, applyStartQuest),
	event.KindUpdateQuest: handle(checkUpdateQuest, applyUpdateQuest),

	// inventory, equipment, loot, money
	event.KindAddItem:        handle(checkAddItem, applyAddItem),
	event.KindRemoveItem:     handle(checkRemoveItem, applyRemoveItem),
	event.KindDropItem:       handle(checkDropItem, applyDropItem),
	event.KindEquipItem:      handle(checkEquipItem, applyEquipItem),
	event.KindUnequipItem:    handle(checkUnequipItem, applyUnequipItem),
	event.KindSpawnLoot:      handle(checkSpawnLoot, applySpawnLoot),
	event.KindPickupLoot:     handle(checkPickupLoot, applyPickupLoot),
	event.KindCurrencyChange: handle(checkCurrencyChange, applyCurrencyChange),
	event.KindCraft:          handle(checkCraft, applyCraft),
	event.KindGather:         handle(checkGather, applyGather),

	// player
	event.KindModifyStat:   handle(checkModifyStat, applyModifyStat),
	event.KindPlayerUpdate: handle(checkPlayerUpdate, applyPlayerUpdate),
	event.KindAddExp:       handle(checkAddExp, applyAddExp),
	event.KindLevelUp:      handle(checkLevelUp, applyLevelUp),
	event.KindGrantPower:   handle(checkGrantPower, applyGrantPower),

	// flags and section cards
	event.KindSetFlag:       handle(checkSetFlag, applySetFlag),
	event.KindClearFlag:     handle(checkClearFlag, applyClearFlag),
	event.KindSectionUpsert: handle(checkSectionUpsert, applySectionUpsert),
	event.KindSectionRemove: handle(checkSectionRemove, applySectionRemove),

	// time and narration
	event.KindTimePassed: handle(checkTimePassed, applyTimePassed),
	event.KindDialogue:   handle(narrativeOnly[event.Dialogue], noop[event.Dialogue]),
	event.KindCombat:     handle(narrativeOnly[event.Combat], noop[event.Combat]),
	event.KindTravel:     handle(narrativeOnly[event.Travel], noop[event.Travel]),
	event.KindRest:       handle(narrativeOnly[event.Rest], noop[event.Rest]),

	// requests back to the caller
	event.KindRequestContext: handle(checkRequestContext, noop[event.RequestContext]),
	event.KindRequestRetcon:  handle(checkRequestRetcon, noop[event.RequestRetcon]),
}

// HandledKinds returns every kind with a registered handler, sorted.
func HandledKinds() []event.Kind {
	kinds := make([]event.Kind, 0, len(handlers))
	for k := range handlers {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

func narrativeOnly[E event.Event](*world.State, E, Rules) *Reason { return nil }

func noop[E event.Event](*world.State, E, Rules) {}
