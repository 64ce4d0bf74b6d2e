package engine

import "lorekeeper/internal/config"

// Rules are the policy knobs handlers consult. They never change within a
// batch.
type Rules struct {
	ReputationMin     int
	ReputationMax     int
	RelationshipMin   int
	RelationshipMax   int
	MaxDetailsLength  int
	MaxListItems      int
	MaxLevelsPerEvent int
	Sections          *config.SectionSchema
}

func DefaultRules() Rules {
	return Rules{
		ReputationMin:     -100,
		ReputationMax:     100,
		RelationshipMin:   -100,
		RelationshipMax:   100,
		MaxDetailsLength:  320,
		MaxListItems:      8,
		MaxLevelsPerEvent: 100,
	}
}

func RulesFromConfig(cfg *config.ProjectConfig, sections *config.SectionSchema) Rules {
	r := DefaultRules()
	if cfg != nil {
		r.ReputationMin = cfg.Rules.Reputation.Min
		r.ReputationMax = cfg.Rules.Reputation.Max
		if cfg.Rules.Relationship != (config.BoundsConfig{}) {
			r.RelationshipMin = cfg.Rules.Relationship.Min
			r.RelationshipMax = cfg.Rules.Relationship.Max
		}
		r.MaxDetailsLength = cfg.Rules.MaxDetailsLength
		r.MaxListItems = cfg.Rules.MaxListItems
		if cfg.Rules.MaxLevelsPerEvent > 0 {
			r.MaxLevelsPerEvent = cfg.Rules.MaxLevelsPerEvent
		}
	}
	r.Sections = sections
	return r
}

func (r Rules) clampReputation(v int) int {
	return clamp(v, r.ReputationMin, r.ReputationMax)
}

func (r Rules) clampRelationship(v int) int {
	return clamp(v, r.RelationshipMin, r.RelationshipMax)
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
