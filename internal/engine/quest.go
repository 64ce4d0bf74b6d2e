package engine

import (
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

func checkStartQuest(s *world.State, e event.StartQuest, _ Rules) *Reason {
	if r := required("id", e.ID, "title", e.Title); r != nil {
		return r
	}
	if _, ok := s.Quests[e.ID]; ok {
		return duplicate(e.ID)
	}
	return checkSubQuests(e.SubQuests)
}

func applyStartQuest(s *world.State, e event.StartQuest, _ Rules) {
	q := world.Quest{
		ID:            e.ID,
		Title:         strings.TrimSpace(e.Title),
		Description:   strings.TrimSpace(e.Description),
		Status:        world.QuestActive,
		Difficulty:    strings.TrimSpace(e.Difficulty),
		Negotiable:    e.Negotiable,
		Declinable:    e.Declinable,
		RewardOptions: cleanList(e.RewardOptions, 0),
		Rewards:       cleanList(e.Rewards, 0),
	}
	q.SubQuests = mergeSubQuests(nil, e.SubQuests)
	s.Quests[e.ID] = q
}

func checkUpdateQuest(s *world.State, e event.UpdateQuest, _ Rules) *Reason {
	if r := required("id", e.ID); r != nil {
		return r
	}
	q, ok := s.Quests[e.ID]
	if !ok {
		return unknown("quest", e.ID)
	}
	if e.Status != "" {
		next, ok := world.ParseQuestStatus(e.Status)
		if !ok {
			return reasonf(CodeInvalidStatus, "invalid status: %q is not one of active, completed, failed", e.Status)
		}
		if q.Status.Terminal() && next != q.Status {
			return reasonf(CodeTerminalStatus, "terminal status: quest %s is already %s", e.ID, q.Status)
		}
		if next == world.QuestActive {
			return reasonf(CodeInvalidStatus, "invalid status: quest %s is already active, expected completed or failed", e.ID)
		}
		if next == world.QuestCompleted && !q.RewardsClaimed {
			rewards := q.Rewards
			if e.Rewards != nil {
				rewards = cleanList(e.Rewards, 0)
			}
			if r := checkRewards(s, rewards); r != nil {
				return r
			}
		}
	}
	return checkSubQuests(e.SubQuests)
}

func applyUpdateQuest(s *world.State, e event.UpdateQuest, _ Rules) {
	q := s.Quests[e.ID]
	if v := strings.TrimSpace(e.Title); v != "" {
		q.Title = v
	}
	if v := strings.TrimSpace(e.Description); v != "" {
		q.Description = v
	}
	if v := strings.TrimSpace(e.Difficulty); v != "" {
		q.Difficulty = v
	}
	if e.Negotiable != nil {
		q.Negotiable = *e.Negotiable
	}
	if e.RewardOptions != nil {
		q.RewardOptions = cleanList(e.RewardOptions, 0)
	}
	if e.Rewards != nil {
		q.Rewards = cleanList(e.Rewards, 0)
	}
	q.SubQuests = mergeSubQuests(q.SubQuests, e.SubQuests)

	if e.Status != "" {
		next, _ := world.ParseQuestStatus(e.Status)
		if next == world.QuestCompleted && !q.RewardsClaimed {
			grantRewards(s, q.Rewards)
			q.RewardsClaimed = true
		}
		q.Status = next
	}
	s.Quests[e.ID] = q
}

func checkSubQuests(subs []event.SubQuest) *Reason {
	seen := make(map[string]struct{}, len(subs))
	for _, sub := range subs {
		if strings.TrimSpace(sub.ID) == "" {
			return reasonf(CodeMissingField, "missing field: sub_quests.id")
		}
		if _, dup := seen[sub.ID]; dup {
			return reasonf(CodeDuplicateID, "duplicate id: sub-quest %s listed twice", sub.ID)
		}
		seen[sub.ID] = struct{}{}
	}
	return nil
}

// mergeSubQuests updates existing sub-quests by id and appends new ones.
// A completed sub-quest stays completed.
func mergeSubQuests(existing []world.SubQuest, updates []event.SubQuest) []world.SubQuest {
	out := append([]world.SubQuest(nil), existing...)
	for _, u := range updates {
		i := indexSubQuest(out, u.ID)
		if i < 0 {
			out = append(out, world.SubQuest{
				ID:          u.ID,
				Description: strings.TrimSpace(u.Description),
				Completed:   u.Completed,
			})
			continue
		}
		if v := strings.TrimSpace(u.Description); v != "" {
			out[i].Description = v
		}
		out[i].Completed = out[i].Completed || u.Completed
	}
	return out
}

func indexSubQuest(subs []world.SubQuest, id string) int {
	for i, sub := range subs {
		if sub.ID == id {
			return i
		}
	}
	return -1
}
