package store

import "time"

type Batch struct {
	ID          string    `json:"batch_id"`
	SessionID   string    `json:"session_id"`
	PayloadHash string    `json:"payload_hash"`
	Applied     int       `json:"applied"`
	Rejected    int       `json:"rejected"`
	Deferred    int       `json:"deferred"`
	CreatedAt   time.Time `json:"created_at"`
}

// Outcome is the journaled result of one event in a batch.
type Outcome struct {
	BatchID string `json:"batch_id"`
	Index   int    `json:"index"`
	Kind    string `json:"kind"`
	Type    string `json:"type,omitempty"`
	Status  string `json:"status"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message,omitempty"`
	Payload string `json:"payload,omitempty"`
}

// Checkpoint is the latest persisted world of a session, as world.Data JSON.
type Checkpoint struct {
	SessionID string    `json:"session_id"`
	Data      []byte    `json:"data"`
	SavedAt   time.Time `json:"saved_at"`
}
