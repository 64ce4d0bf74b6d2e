package engine

import (
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

func checkSetFlag(_ *world.State, e event.SetFlag, _ Rules) *Reason {
	return required("flag", e.Flag)
}

// applySetFlag is idempotent.
func applySetFlag(s *world.State, e event.SetFlag, _ Rules) {
	s.Flags[strings.TrimSpace(e.Flag)] = struct{}{}
}

func checkClearFlag(s *world.State, e event.ClearFlag, _ Rules) *Reason {
	if r := required("flag", e.Flag); r != nil {
		return r
	}
	if _, ok := s.Flags[strings.TrimSpace(e.Flag)]; !ok {
		return reasonf(CodeFlagNotSet, "flag not set: %s", e.Flag)
	}
	return nil
}

func applyClearFlag(s *world.State, e event.ClearFlag, _ Rules) {
	delete(s.Flags, strings.TrimSpace(e.Flag))
}

func checkSectionUpsert(_ *world.State, e event.SectionUpsert, rules Rules) *Reason {
	if r := required("section", e.Section, "id", e.ID, "name", e.Name); r != nil {
		return r
	}
	section := sectionName(e.Section)
	if !rules.Sections.IsValidSection(section) {
		return reasonf(CodeUnknownSection, "unknown section: %s", section)
	}
	if e.Status != "" && !rules.Sections.AllowsStatus(section, e.Status) {
		return reasonf(CodeInvalidStatus, "invalid status: %q for section %s", e.Status, section)
	}
	return nil
}

// applySectionUpsert replaces the text fields of an existing card only where
// the event carries a value; list fields given in the event replace the old
// lists.
func applySectionUpsert(s *world.State, e event.SectionUpsert, r Rules) {
	section := sectionName(e.Section)
	c, ok := s.Card(section, e.ID)
	if !ok {
		c = world.Card{ID: e.ID}
	}
	c.Name = strings.TrimSpace(e.Name)
	if v := strings.TrimSpace(e.Role); v != "" {
		c.Role = v
	}
	if v := strings.ToLower(strings.TrimSpace(e.Status)); v != "" {
		c.Status = v
	}
	if v := clip(e.Details, r.MaxDetailsLength); v != "" {
		c.Details = v
	}
	if e.Notes != nil {
		c.Notes = cleanList(e.Notes, r.MaxListItems)
	}
	if e.Tags != nil {
		c.Tags = cleanList(e.Tags, r.MaxListItems)
	}
	if e.Items != nil {
		c.Items = cleanList(e.Items, r.MaxListItems)
	}
	s.PutCard(section, c)
}

func checkSectionRemove(s *world.State, e event.SectionRemove, _ Rules) *Reason {
	if r := required("section", e.Section, "id", e.ID); r != nil {
		return r
	}
	if _, ok := s.Card(sectionName(e.Section), e.ID); !ok {
		return unknown("card", sectionName(e.Section)+"/"+e.ID)
	}
	return nil
}

func applySectionRemove(s *world.State, e event.SectionRemove, _ Rules) {
	s.RemoveCard(sectionName(e.Section), e.ID)
}
