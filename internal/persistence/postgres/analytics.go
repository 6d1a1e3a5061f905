package postgres

import (
	"context"
	"time"

	"example.com/portal/internal/analytics"
)

// Facts reads the analytics projection of a researcher's records for a window.
// Rows come back in occurrence order so downstream tie-breaking by
// first-encountered order is deterministic.
func (r *Repository) Facts(ctx context.Context, researcherID string, from, to time.Time) ([]analytics.Fact, error) {
	const query = `SELECT kind, category, COALESCE(venue, ''), COALESCE(scope, ''), occurred_at
        FROM activity_records
        WHERE researcher_id=$1 AND occurred_at >= $2 AND occurred_at <= $3
        ORDER BY occurred_at ASC, created_at ASC`

	rows, err := r.pool.Query(ctx, query, researcherID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	facts := make([]analytics.Fact, 0)
	for rows.Next() {
		var fact analytics.Fact
		if err := rows.Scan(&fact.Kind, &fact.Category, &fact.Venue, &fact.Scope, &fact.OccurredAt); err != nil {
			return nil, err
		}
		facts = append(facts, fact)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return facts, nil
}
