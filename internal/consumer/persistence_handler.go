package consumer

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"
)

// PersistenceHandler projects consumed record events into the activity audit log.
type PersistenceHandler struct {
	pool *pgxpool.Pool
}

// NewPersistenceHandler constructs a handler backed by the provided pool.
func NewPersistenceHandler(pool *pgxpool.Pool) *PersistenceHandler {
	return &PersistenceHandler{pool: pool}
}

// Handle stores the event in the activity_audit_log table.
func (h *PersistenceHandler) Handle(ctx context.Context, msg Message) error {
	conn, err := h.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	recordID, kind := payloadFields(msg.Payload)

	_, err = conn.Exec(ctx,
		`INSERT INTO activity_audit_log (researcher_id, record_id, kind, event_type, schema_id, schema_subject, topic, partition, record_offset, payload, received_at)
         VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)`,
		msg.ResearcherID,
		recordID,
		kind,
		msg.EventType,
		msg.SchemaID,
		msg.SchemaSubject,
		msg.Topic,
		msg.Partition,
		msg.Offset,
		msg.Payload,
		msg.Timestamp,
	)
	return err
}

// payloadFields pulls the record identity out of the event payload. Events
// missing those fields still land in the log with empty values.
func payloadFields(payload json.RawMessage) (string, string) {
	var fields struct {
		RecordID string `json:"record_id"`
		Kind     string `json:"kind"`
	}
	if err := json.Unmarshal(payload, &fields); err != nil {
		return "", ""
	}
	return fields.RecordID, fields.Kind
}
