// Package events defines the payloads published for record mutations.
package events

import "time"

// RecordCreated is emitted when a researcher adds an activity record.
type RecordCreated struct {
	RecordID     string    `json:"record_id"`
	ResearcherID string    `json:"researcher_id"`
	Kind         string    `json:"kind"`
	Title        string    `json:"title"`
	Status       string    `json:"status"`
	OccurredAt   time.Time `json:"occurred_at"`
}

// RecordUpdated is emitted after a partial update is applied.
type RecordUpdated struct {
	RecordID     string    `json:"record_id"`
	ResearcherID string    `json:"researcher_id"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// RecordDeleted is emitted after a physical delete.
type RecordDeleted struct {
	RecordID     string    `json:"record_id"`
	ResearcherID string    `json:"researcher_id"`
	Kind         string    `json:"kind"`
	DeletedAt    time.Time `json:"deleted_at"`
}
