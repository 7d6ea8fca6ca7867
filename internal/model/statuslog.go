package model

import "time"

// StatusLogEntry is an immutable audit record of one status transition.
// Entries are only ever created, never updated or deleted.
type StatusLogEntry struct {
	ID        string    `json:"id"`
	FridgeID  string    `json:"fridge_id"`
	Status    string    `json:"status"`
	Note      string    `json:"note,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}
