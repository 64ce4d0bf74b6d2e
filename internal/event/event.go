// Package event defines the narrative events a narrator may propose and
// decodes them from their JSON wire form.
package event

import "encoding/json"

// Event is a single proposed change to the world.
type Event interface {
	Kind() Kind
}

// Unrecognized carries a payload that could not be decoded into a declared
// kind. Problem is empty when the kind is simply unknown.
type Unrecognized struct {
	Type    string          `json:"type"`
	Raw     json.RawMessage `json:"raw"`
	Problem string          `json:"problem,omitempty"`
}

func (Unrecognized) Kind() Kind { return KindUnrecognized }

// Malformed reports whether the payload named a declared kind but did not
// match its shape.
func (u Unrecognized) Malformed() bool { return u.Problem != "" }

type NpcSpawn struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Details string `json:"details,omitempty"`
}

type NpcUpdate struct {
	ID      string `json:"id"`
	Name    string `json:"name,omitempty"`
	Role    string `json:"role,omitempty"`
	Details string `json:"details,omitempty"`
	Notes   string `json:"notes,omitempty"`
}

type NpcDespawn struct {
	ID     string `json:"id"`
	Reason string `json:"reason,omitempty"`
}

type NpcJoinParty struct {
	ID string `json:"id"`
}

type NpcLeaveParty struct {
	ID string `json:"id"`
}

type AddPartyMember struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Role    string `json:"role,omitempty"`
	Details string `json:"details,omitempty"`
}

type PartyUpdate struct {
	ID             string   `json:"id"`
	Name           string   `json:"name,omitempty"`
	Role           string   `json:"role,omitempty"`
	Details        string   `json:"details,omitempty"`
	ClothingAdd    []string `json:"clothing_add,omitempty"`
	ClothingRemove []string `json:"clothing_remove,omitempty"`
	WeaponsAdd     []string `json:"weapons_add,omitempty"`
	WeaponsRemove  []string `json:"weapons_remove,omitempty"`
	ArmorAdd       []string `json:"armor_add,omitempty"`
	ArmorRemove    []string `json:"armor_remove,omitempty"`
}

type RelationshipChange struct {
	SubjectID string `json:"subject_id"`
	TargetID  string `json:"target_id"`
	Delta     int    `json:"delta"`
}

type FactionSpawn struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	FactionKind string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
}

type FactionUpdate struct {
	ID          string `json:"id"`
	Name        string `json:"name,omitempty"`
	FactionKind string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
}

type FactionRepChange struct {
	ID    string `json:"id"`
	Delta int    `json:"delta"`
}

type SubQuest struct {
	ID          string `json:"id"`
	Description string `json:"description,omitempty"`
	Completed   bool   `json:"completed,omitempty"`
}

type StartQuest struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	Negotiable    bool       `json:"negotiable,omitempty"`
	Declinable    bool       `json:"declinable,omitempty"`
	RewardOptions []string   `json:"reward_options,omitempty"`
	Rewards       []string   `json:"rewards,omitempty"`
	SubQuests     []SubQuest `json:"sub_quests,omitempty"`
}

type UpdateQuest struct {
	ID            string     `json:"id"`
	Title         string     `json:"title,omitempty"`
	Description   string     `json:"description,omitempty"`
	Status        string     `json:"status,omitempty"`
	Difficulty    string     `json:"difficulty,omitempty"`
	Negotiable    *bool      `json:"negotiable,omitempty"`
	RewardOptions []string   `json:"reward_options,omitempty"`
	Rewards       []string   `json:"rewards,omitempty"`
	SubQuests     []SubQuest `json:"sub_quests,omitempty"`
}

type AddItem struct {
	ItemID      string `json:"item_id"`
	Quantity    int    `json:"quantity"`
	Quality     string `json:"quality,omitempty"`
	Description string `json:"description,omitempty"`
	SetID       string `json:"set_id,omitempty"`
}

type RemoveItem struct {
	ItemID   string `json:"item_id"`
	Quantity int    `json:"quantity"`
}

type DropItem struct {
	ItemID      string `json:"item_id"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
}

type EquipItem struct {
	ItemID      string `json:"item_id"`
	Slot        string `json:"slot"`
	Replace     bool   `json:"replace,omitempty"`
	SetID       string `json:"set_id,omitempty"`
	Description string `json:"description,omitempty"`
}

type UnequipItem struct {
	ItemID string `json:"item_id"`
}

type SpawnLoot struct {
	Item        string `json:"item"`
	Quantity    int    `json:"quantity,omitempty"`
	Description string `json:"description,omitempty"`
	SetID       string `json:"set_id,omitempty"`
}

type PickupLoot struct {
	Item     string `json:"item"`
	Quantity int    `json:"quantity,omitempty"`
}

type CurrencyChange struct {
	Currency string `json:"currency"`
	Delta    int    `json:"delta"`
}

type ModifyStat struct {
	StatID string `json:"stat_id"`
	Delta  int    `json:"delta"`
}

type PlayerUpdate struct {
	Name       string   `json:"name,omitempty"`
	Role       string   `json:"role,omitempty"`
	Status     string   `json:"status,omitempty"`
	Notes      string   `json:"notes,omitempty"`
	TagsAdd    []string `json:"tags_add,omitempty"`
	TagsRemove []string `json:"tags_remove,omitempty"`
}

type AddExp struct {
	Amount int `json:"amount"`
}

type LevelUp struct {
	Levels int `json:"levels"`
}

type GrantPower struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

type SetFlag struct {
	Flag string `json:"flag"`
}

type ClearFlag struct {
	Flag string `json:"flag"`
}

type SectionUpsert struct {
	Section string   `json:"section"`
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    string   `json:"role,omitempty"`
	Status  string   `json:"status,omitempty"`
	Details string   `json:"details,omitempty"`
	Notes   []string `json:"notes,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Items   []string `json:"items,omitempty"`
}

type SectionRemove struct {
	Section string `json:"section"`
	ID      string `json:"id"`
}

type TimePassed struct {
	Minutes int `json:"minutes,omitempty"`
	Hours   int `json:"hours,omitempty"`
	Days    int `json:"days,omitempty"`
}

// Total returns the elapsed time in minutes.
func (e TimePassed) Total() int {
	return e.Minutes + e.Hours*60 + e.Days*24*60
}

type Dialogue struct {
	Speaker string `json:"speaker,omitempty"`
	Text    string `json:"text,omitempty"`
}

type Combat struct {
	Target  string `json:"target,omitempty"`
	Outcome string `json:"outcome,omitempty"`
}

type Travel struct {
	Destination string `json:"destination,omitempty"`
}

type Rest struct {
	Description string `json:"description,omitempty"`
}

type Craft struct {
	Item        string `json:"item"`
	Quantity    int    `json:"quantity,omitempty"`
	Quality     string `json:"quality,omitempty"`
	Description string `json:"description,omitempty"`
	SetID       string `json:"set_id,omitempty"`
}

type Gather struct {
	Item        string `json:"item"`
	Quantity    int    `json:"quantity,omitempty"`
	Description string `json:"description,omitempty"`
}

type RequestContext struct {
	Topics []string `json:"topics"`
}

type RequestRetcon struct {
	Reason string `json:"reason,omitempty"`
}

func (NpcSpawn) Kind() Kind           { return KindNpcSpawn }
func (NpcUpdate) Kind() Kind          { return KindNpcUpdate }
func (NpcDespawn) Kind() Kind         { return KindNpcDespawn }
func (NpcJoinParty) Kind() Kind       { return KindNpcJoinParty }
func (NpcLeaveParty) Kind() Kind      { return KindNpcLeaveParty }
func (AddPartyMember) Kind() Kind     { return KindAddPartyMember }
func (PartyUpdate) Kind() Kind        { return KindPartyUpdate }
func (RelationshipChange) Kind() Kind { return KindRelationshipChange }
func (FactionSpawn) Kind() Kind       { return KindFactionSpawn }
func (FactionUpdate) Kind() Kind      { return KindFactionUpdate }
func (FactionRepChange) Kind() Kind   { return KindFactionRepChange }
func (StartQuest) Kind() Kind         { return KindStartQuest }
func (UpdateQuest) Kind() Kind        { return KindUpdateQuest }
func (AddItem) Kind() Kind            { return KindAddItem }
func (RemoveItem) Kind() Kind         { return KindRemoveItem }
func (DropItem) Kind() Kind           { return KindDropItem }
func (EquipItem) Kind() Kind          { return KindEquipItem }
func (UnequipItem) Kind() Kind        { return KindUnequipItem }
func (SpawnLoot) Kind() Kind          { return KindSpawnLoot }
func (PickupLoot) Kind() Kind         { return KindPickupLoot }
func (CurrencyChange) Kind() Kind     { return KindCurrencyChange }
func (ModifyStat) Kind() Kind         { return KindModifyStat }
func (PlayerUpdate) Kind() Kind       { return KindPlayerUpdate }
func (AddExp) Kind() Kind             { return KindAddExp }
func (LevelUp) Kind() Kind            { return KindLevelUp }
func (GrantPower) Kind() Kind         { return KindGrantPower }
func (SetFlag) Kind() Kind            { return KindSetFlag }
func (ClearFlag) Kind() Kind          { return KindClearFlag }
func (SectionUpsert) Kind() Kind      { return KindSectionUpsert }
func (SectionRemove) Kind() Kind      { return KindSectionRemove }
func (TimePassed) Kind() Kind         { return KindTimePassed }
func (Dialogue) Kind() Kind           { return KindDialogue }
func (Combat) Kind() Kind             { return KindCombat }
func (Travel) Kind() Kind             { return KindTravel }
func (Rest) Kind() Kind               { return KindRest }
func (Craft) Kind() Kind              { return KindCraft }
func (Gather) Kind() Kind             { return KindGather }
func (RequestContext) Kind() Kind     { return KindRequestContext }
func (RequestRetcon) Kind() Kind      { return KindRequestRetcon }
