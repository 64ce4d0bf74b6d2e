package engine

import (
	"math"
	"strings"

	"lorekeeper/internal/world"
)

// required returns a missing_field reason for the first blank value. Fields
// are given as name, value pairs.
func required(fields ...string) *Reason {
	for i := 0; i+1 < len(fields); i += 2 {
		if strings.TrimSpace(fields[i+1]) == "" {
			return reasonf(CodeMissingField, "missing field: %s", fields[i])
		}
	}
	return nil
}

func needPlayer(s *world.State) *Reason {
	if s.Player == nil {
		return reasonf(CodePlayerMissing, "player missing: no session has been started")
	}
	return nil
}

func positive(field string, v int) *Reason {
	if v < 1 {
		return reasonf(CodeInvalidValue, "invalid value: %s must be at least 1, got %d", field, v)
	}
	return nil
}

// optionalQuantity treats zero as one and rejects negatives.
func optionalQuantity(q int) (int, *Reason) {
	switch {
	case q < 0:
		return 0, reasonf(CodeInvalidValue, "invalid value: quantity must not be negative, got %d", q)
	case q == 0:
		return 1, nil
	}
	return q, nil
}

func unknown(what, id string) *Reason {
	return reasonf(CodeUnknownID, "unknown %s: %s", what, id)
}

func duplicate(id string) *Reason {
	return reasonf(CodeDuplicateID, "duplicate id: %s already exists", id)
}

func sectionName(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// addOverflows reports whether a+b falls outside the int range.
func addOverflows(a, b int) bool {
	if b > 0 {
		return a > math.MaxInt-b
	}
	return a < math.MinInt-b
}

// saturatingAdd returns a+b pinned to the int range.
func saturatingAdd(a, b int) int {
	switch {
	case !addOverflows(a, b):
		return a + b
	case b > 0:
		return math.MaxInt
	}
	return math.MinInt
}

func inRange(field string, cur, delta int) *Reason {
	if addOverflows(cur, delta) {
		return reasonf(CodeInvalidValue, "invalid value: %s %d%+d is out of range", field, cur, delta)
	}
	return nil
}
