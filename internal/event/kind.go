package event

import "sort"

// Kind names an event on the wire.
type Kind string

const (
	KindNpcSpawn           Kind = "npc_spawn"
	KindNpcUpdate          Kind = "npc_update"
	KindNpcDespawn         Kind = "npc_despawn"
	KindNpcJoinParty       Kind = "npc_join_party"
	KindNpcLeaveParty      Kind = "npc_leave_party"
	KindAddPartyMember     Kind = "add_party_member"
	KindPartyUpdate        Kind = "party_update"
	KindRelationshipChange Kind = "relationship_change"

	KindFactionSpawn     Kind = "faction_spawn"
	KindFactionUpdate    Kind = "faction_update"
	KindFactionRepChange Kind = "faction_rep_change"

	KindStartQuest  Kind = "start_quest"
	KindUpdateQuest Kind = "update_quest"

	KindAddItem        Kind = "add_item"
	KindRemoveItem     Kind = "remove_item"
	KindDropItem       Kind = "drop_item"
	KindEquipItem      Kind = "equip_item"
	KindUnequipItem    Kind = "unequip_item"
	KindSpawnLoot      Kind = "spawn_loot"
	KindPickupLoot     Kind = "pickup_loot"
	KindCurrencyChange Kind = "currency_change"

	KindModifyStat   Kind = "modify_stat"
	KindPlayerUpdate Kind = "player_update"
	KindAddExp       Kind = "add_exp"
	KindLevelUp      Kind = "level_up"
	KindGrantPower   Kind = "grant_power"

	KindSetFlag   Kind = "set_flag"
	KindClearFlag Kind = "clear_flag"

	KindSectionUpsert Kind = "section_upsert"
	KindSectionRemove Kind = "section_remove"

	KindTimePassed Kind = "time_passed"
	KindDialogue   Kind = "dialogue"
	KindCombat     Kind = "combat"
	KindTravel     Kind = "travel"
	KindRest       Kind = "rest"
	KindCraft      Kind = "craft"
	KindGather     Kind = "gather"

	KindRequestContext Kind = "request_context"
	KindRequestRetcon  Kind = "request_retcon"

	// KindUnrecognized is reported for payloads that did not decode into a
	// declared kind.
	KindUnrecognized Kind = "unrecognized"
)

// Kinds returns every declared kind, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(decoders))
	for k := range decoders {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Known reports whether k is a declared kind.
func Known(k Kind) bool {
	_, ok := decoders[k]
	return ok
}
