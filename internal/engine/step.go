// Package engine validates narrative events against World State and applies
// the ones that pass.
package engine

import (
	"lorekeeper/internal/event"
	"lorekeeper/internal/world"
)

// Validate reports why ev cannot be applied to s, or nil when it can. It never
// mutates s.
func Validate(s *world.State, ev event.Event, rules Rules) *Reason {
	if ev == nil {
		return reasonf(CodeMalformedEvent, "malformed event: empty event")
	}
	if u, ok := ev.(event.Unrecognized); ok {
		if u.Malformed() {
			return reasonf(CodeMalformedEvent, "malformed event: %s", u.Problem)
		}
		return reasonf(CodeUnhandledKind, "unhandled event kind: %s", u.Type)
	}
	h, ok := handlers[ev.Kind()]
	if !ok {
		return reasonf(CodeUnhandledKind, "unhandled event kind: %s", ev.Kind())
	}
	return h.check(s, ev, rules)
}

// Step validates ev and applies it when validation passes.
func Step(s *world.State, ev event.Event, rules Rules) Outcome {
	if ev == nil {
		ev = event.Unrecognized{Problem: "empty event"}
	}
	out := Outcome{Kind: ev.Kind(), Status: StatusApplied}
	if u, ok := ev.(event.Unrecognized); ok {
		out.Type = u.Type
	}
	if r := Validate(s, ev, rules); r != nil {
		out.Status = r.Code.Status()
		out.Code = r.Code
		out.Message = r.Message
		return out
	}
	handlers[ev.Kind()].apply(s, ev, rules)
	return out
}
