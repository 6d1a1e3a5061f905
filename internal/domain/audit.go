package domain

import "time"

// AuditEntry is one row of the researcher-facing activity log, built by the
// consumer from published record events.
type AuditEntry struct {
	EventType  string
	RecordID   string
	Kind       string
	ReceivedAt time.Time
}
