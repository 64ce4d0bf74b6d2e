package engine

import (
	"math"
	"strings"

	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

func checkTimePassed(s *world.State, e event.TimePassed, _ Rules) *Reason {
	if e.Minutes < 0 || e.Hours < 0 || e.Days < 0 {
		return reasonf(CodeInvalidValue, "invalid value: time cannot run backwards")
	}
	total, ok := elapsedMinutes(e)
	if !ok {
		return reasonf(CodeInvalidValue, "invalid value: elapsed time is out of range")
	}
	if total == 0 {
		return reasonf(CodeInvalidValue, "invalid value: no time passed")
	}
	return inRange("clock", s.Clock, total)
}

// elapsedMinutes is e.Total, reporting false instead of overflowing.
func elapsedMinutes(e event.TimePassed) (int, bool) {
	if e.Days > math.MaxInt/(24*60) || e.Hours > math.MaxInt/60 {
		return 0, false
	}
	total := e.Days * 24 * 60
	for _, part := range []int{e.Hours * 60, e.Minutes} {
		if addOverflows(total, part) {
			return 0, false
		}
		total += part
	}
	return total, true
}

func applyTimePassed(s *world.State, e event.TimePassed, _ Rules) {
	s.Clock += e.Total()
}

// checkRequestContext always defers: the caller answers with rendered
// context, the world does not change.
func checkRequestContext(_ *world.State, e event.RequestContext, _ Rules) *Reason {
	topics := cleanList(e.Topics, 0)
	if len(topics) == 0 {
		return reasonf(CodeMissingField, "missing field: topics")
	}
	return reasonf(CodeContextRequested, "context requested: %s", strings.Join(topics, ", "))
}

func checkRequestRetcon(_ *world.State, e event.RequestRetcon, _ Rules) *Reason {
	if v := strings.TrimSpace(e.Reason); v != "" {
		return reasonf(CodeRetconRequested, "retcon requested: %s", v)
	}
	return reasonf(CodeRetconRequested, "retcon requested")
}
