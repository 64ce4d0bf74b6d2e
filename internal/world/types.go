package world

import "strings"

// PlayerID is the reserved id of the player in relationship edges.
const PlayerID = "player"

type QuestStatus string

const (
	QuestActive    QuestStatus = "active"
	QuestCompleted QuestStatus = "completed"
	QuestFailed    QuestStatus = "failed"
)

// Terminal reports whether no further status change is allowed.
func (s QuestStatus) Terminal() bool {
	return s == QuestCompleted || s == QuestFailed
}

// ParseQuestStatus accepts exactly the three statuses, ignoring case and
// surrounding space.
func ParseQuestStatus(s string) (QuestStatus, bool) {
	switch status := QuestStatus(strings.ToLower(strings.TrimSpace(s))); status {
	case QuestActive, QuestCompleted, QuestFailed:
		return status, true
	}
	return "", false
}

type Player struct {
	Name          string   `json:"name"`
	Role          string   `json:"role,omitempty"`
	Status        string   `json:"status,omitempty"`
	Notes         string   `json:"notes,omitempty"`
	Tags          []string `json:"tags,omitempty"`
	Level         int      `json:"level"`
	Exp           int      `json:"exp"`
	ExpToNext     int      `json:"exp_to_next"`
	ExpMultiplier float64  `json:"exp_multiplier"`
	Weapons       []string `json:"weapons,omitempty"`
	Armor         []string `json:"armor,omitempty"`
	Clothing      []string `json:"clothing,omitempty"`
}

// Npc is any named character. Party membership is a flag on the record.
type Npc struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role,omitempty"`
	Details  string   `json:"details,omitempty"`
	Notes    []string `json:"notes,omitempty"`
	InParty  bool     `json:"in_party"`
	Weapons  []string `json:"weapons,omitempty"`
	Armor    []string `json:"armor,omitempty"`
	Clothing []string `json:"clothing,omitempty"`
}

type Faction struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Kind        string `json:"kind,omitempty"`
	Description string `json:"description,omitempty"`
	Reputation  int    `json:"reputation"`
}

type SubQuest struct {
	ID          string `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

type Quest struct {
	ID             string      `json:"id"`
	Title          string      `json:"title"`
	Description    string      `json:"description,omitempty"`
	Status         QuestStatus `json:"status"`
	Difficulty     string      `json:"difficulty,omitempty"`
	Negotiable     bool        `json:"negotiable,omitempty"`
	Declinable     bool        `json:"declinable,omitempty"`
	RewardOptions  []string    `json:"reward_options,omitempty"`
	Rewards        []string    `json:"rewards,omitempty"`
	SubQuests      []SubQuest  `json:"sub_quests,omitempty"`
	RewardsClaimed bool        `json:"rewards_claimed,omitempty"`
}

// Item is an inventory record. Records with zero quantity do not exist.
type Item struct {
	ID          string `json:"id"`
	Quantity    int    `json:"quantity"`
	Quality     string `json:"quality,omitempty"`
	Description string `json:"description,omitempty"`
	SetID       string `json:"set_id,omitempty"`
}

type Equipped struct {
	Slot        string `json:"slot"`
	ItemID      string `json:"item_id"`
	SetID       string `json:"set_id,omitempty"`
	Description string `json:"description,omitempty"`
}

// LootDrop is an item lying in the world, not held by anyone.
type LootDrop struct {
	Item        string `json:"item"`
	Quantity    int    `json:"quantity"`
	Description string `json:"description,omitempty"`
	SetID       string `json:"set_id,omitempty"`
}

type Power struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Card is a free-form record in a named section such as "locations".
type Card struct {
	ID      string   `json:"id"`
	Name    string   `json:"name"`
	Role    string   `json:"role,omitempty"`
	Status  string   `json:"status,omitempty"`
	Details string   `json:"details,omitempty"`
	Notes   []string `json:"notes,omitempty"`
	Tags    []string `json:"tags,omitempty"`
	Items   []string `json:"items,omitempty"`
}

// RelKey identifies a directed relationship edge.
type RelKey struct {
	Subject string
	Target  string
}

func (k RelKey) String() string {
	return k.Subject + "::" + k.Target
}
