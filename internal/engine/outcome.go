package engine

import (
	"fmt"

	"lorekeeper/internal/event"
)

type Status string

const (
	StatusApplied  Status = "applied"
	StatusRejected Status = "rejected"
	StatusDeferred Status = "deferred"
)

// Code is the machine-readable part of a rejection or deferral.
type Code string

// Rejections.
const (
	CodeMissingField         Code = "missing_field"
	CodeInvalidValue         Code = "invalid_value"
	CodeUnknownID            Code = "unknown_id"
	CodeDuplicateID          Code = "duplicate_id"
	CodeTerminalStatus       Code = "terminal_status"
	CodeInvalidStatus        Code = "invalid_status"
	CodeItemNotHeld          Code = "item_not_held"
	CodeInsufficientQuantity Code = "insufficient_quantity"
	CodeInsufficientFunds    Code = "insufficient_funds"
	CodeSlotOccupied         Code = "slot_occupied"
	CodeNotEquipped          Code = "not_equipped"
	CodeNotInParty           Code = "not_in_party"
	CodeAlreadyInParty       Code = "already_in_party"
	CodeUnknownSection       Code = "unknown_section"
	CodeFlagNotSet           Code = "flag_not_set"
)

// Deferrals.
const (
	CodePlayerMissing    Code = "player_missing"
	CodeContextRequested Code = "context_requested"
	CodeRetconRequested  Code = "retcon_requested"
	CodeUnhandledKind    Code = "unhandled_kind"
	CodeMalformedEvent   Code = "malformed_event"
)

var deferredCodes = map[Code]struct{}{
	CodePlayerMissing:    {},
	CodeContextRequested: {},
	CodeRetconRequested:  {},
	CodeUnhandledKind:    {},
	CodeMalformedEvent:   {},
}

// Status returns the outcome status an event failing with c receives.
func (c Code) Status() Status {
	if _, ok := deferredCodes[c]; ok {
		return StatusDeferred
	}
	return StatusRejected
}

// Reason explains why an event was not applied.
type Reason struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
}

func (r *Reason) String() string {
	return fmt.Sprintf("%s: %s", r.Code, r.Message)
}

func reasonf(code Code, format string, args ...any) *Reason {
	return &Reason{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Outcome is the engine's verdict on one event of a batch.
type Outcome struct {
	Index int        `json:"index"`
	Kind  event.Kind `json:"kind"`
	// Type is the raw type string of an unrecognized payload.
	Type    string `json:"type,omitempty"`
	Status  Status `json:"status"`
	Code    Code   `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
}

// Reason returns nil for applied outcomes.
func (o Outcome) Reason() *Reason {
	if o.Status == StatusApplied {
		return nil
	}
	return &Reason{Code: o.Code, Message: o.Message}
}

func (o Outcome) String() string {
	if o.Status == StatusApplied {
		return string(o.Status)
	}
	return fmt.Sprintf("%s(%s)", o.Status, o.Message)
}
