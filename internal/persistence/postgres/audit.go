package postgres

import (
	"context"

	"example.com/portal/internal/domain"
)

// ListAuditEntries returns the most recent activity-log rows for a researcher.
func (r *Repository) ListAuditEntries(ctx context.Context, researcherID string, limit int) ([]domain.AuditEntry, error) {
	const query = `SELECT event_type, COALESCE(record_id, ''), COALESCE(kind, ''), received_at
        FROM activity_audit_log
        WHERE researcher_id=$1
        ORDER BY received_at DESC, audit_id DESC
        LIMIT $2`

	rows, err := r.pool.Query(ctx, query, researcherID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.AuditEntry, 0, limit)
	for rows.Next() {
		var entry domain.AuditEntry
		if err := rows.Scan(&entry.EventType, &entry.RecordID, &entry.Kind, &entry.ReceivedAt); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}
