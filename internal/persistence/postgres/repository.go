// Package postgres provides pgx-backed persistence for activity records and
// the transactional outbox.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/portal/internal/domain"
	"example.com/portal/internal/events"
	"example.com/portal/internal/observability"
)

const recordColumns = `record_id, researcher_id, kind, title, description, status, category, subcategory, venue, scope, occurred_at, completed_at, created_at, updated_at`

// Repository provides Postgres-backed persistence for records and outbox events.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Create persists the record and enqueues the created event in one transaction.
func (r *Repository) Create(ctx context.Context, rec domain.Record) error {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const insertRecord = `INSERT INTO activity_records (record_id, researcher_id, kind, title, description, status, category, subcategory, venue, scope, occurred_at, completed_at, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)`

	_, err = tx.Exec(ctx, insertRecord,
		rec.ID,
		rec.ResearcherID,
		rec.Kind,
		rec.Title,
		nullIfEmpty(rec.Description),
		rec.Status,
		rec.Category,
		nullIfEmpty(rec.Subcategory),
		nullIfEmpty(rec.Venue),
		nullIfEmpty(string(rec.Scope)),
		rec.OccurredAt,
		rec.CompletedAt,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return err
	}

	if err = r.insertOutbox(ctx, tx, rec, "record.created", events.RecordCreated{
		RecordID:     rec.ID,
		ResearcherID: rec.ResearcherID,
		Kind:         string(rec.Kind),
		Title:        rec.Title,
		Status:       string(rec.Status),
		OccurredAt:   rec.OccurredAt,
	}); err != nil {
		return err
	}

	if err = tx.Commit(ctx); err != nil {
		return err
	}
	observability.RecordPersisted(rec.UpdatedAt)
	return nil
}

// Get retrieves a record scoped to its owner. A missing row or an ownership
// mismatch both return nil.
func (r *Repository) Get(ctx context.Context, researcherID, recordID string) (*domain.Record, error) {
	query := `SELECT ` + recordColumns + ` FROM activity_records WHERE researcher_id=$1 AND record_id=$2`

	row := r.pool.QueryRow(ctx, query, researcherID, recordID)
	rec, err := scanRecord(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return rec, nil
}

// Update overwrites the mutable columns of an owned record and enqueues the
// updated event. Returns false when no owned row matched.
func (r *Repository) Update(ctx context.Context, rec domain.Record) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	const update = `UPDATE activity_records
        SET title=$3, description=$4, status=$5, category=$6, subcategory=$7, venue=$8, scope=$9, occurred_at=$10, completed_at=$11, updated_at=$12
        WHERE researcher_id=$1 AND record_id=$2`

	tag, err := tx.Exec(ctx, update,
		rec.ResearcherID,
		rec.ID,
		rec.Title,
		nullIfEmpty(rec.Description),
		rec.Status,
		rec.Category,
		nullIfEmpty(rec.Subcategory),
		nullIfEmpty(rec.Venue),
		nullIfEmpty(string(rec.Scope)),
		rec.OccurredAt,
		rec.CompletedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		tx.Rollback(ctx)
		return false, nil
	}

	if err = r.insertOutbox(ctx, tx, rec, "record.updated", events.RecordUpdated{
		RecordID:     rec.ID,
		ResearcherID: rec.ResearcherID,
		Kind:         string(rec.Kind),
		Status:       string(rec.Status),
		UpdatedAt:    rec.UpdatedAt,
	}); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, err
	}
	observability.RecordPersisted(rec.UpdatedAt)
	return true, nil
}

// Delete physically removes an owned record and enqueues the deleted event.
func (r *Repository) Delete(ctx context.Context, researcherID, recordID string) (bool, error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return false, err
	}
	defer func() {
		if err != nil {
			tx.Rollback(ctx)
		}
	}()

	row := tx.QueryRow(ctx, `SELECT kind, updated_at FROM activity_records WHERE researcher_id=$1 AND record_id=$2`, researcherID, recordID)
	var rec domain.Record
	if err = row.Scan(&rec.Kind, &rec.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			tx.Rollback(ctx)
			return false, nil
		}
		return false, err
	}
	rec.ID = recordID
	rec.ResearcherID = researcherID

	if _, err = tx.Exec(ctx, `DELETE FROM activity_records WHERE researcher_id=$1 AND record_id=$2`, researcherID, recordID); err != nil {
		return false, err
	}

	if err = r.insertOutbox(ctx, tx, rec, "record.deleted", events.RecordDeleted{
		RecordID:     rec.ID,
		ResearcherID: rec.ResearcherID,
		Kind:         string(rec.Kind),
		DeletedAt:    rec.UpdatedAt,
	}); err != nil {
		return false, err
	}

	if err = tx.Commit(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// List returns owned records matching the conjunctive filters, ordered by
// occurrence date descending then creation time descending.
func (r *Repository) List(ctx context.Context, researcherID string, filters domain.ListFilters, cursor *domain.Cursor, limit int) ([]domain.Record, *domain.Cursor, error) {
	query := `SELECT ` + recordColumns + ` FROM activity_records WHERE researcher_id=$1`
	args := []interface{}{researcherID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		query += fmt.Sprintf(" AND %s$%d", clause, len(args))
	}

	if filters.Kind != "" {
		add("kind=", filters.Kind)
	}
	if filters.Status != "" {
		add("status=", filters.Status)
	}
	if filters.Category != "" {
		add("category=", filters.Category)
	}
	if filters.Year != 0 {
		add("EXTRACT(YEAR FROM occurred_at)=", filters.Year)
	}
	if search := strings.TrimSpace(filters.Search); search != "" {
		args = append(args, "%"+search+"%")
		query += fmt.Sprintf(" AND (title ILIKE $%d OR description ILIKE $%d OR venue ILIKE $%d)", len(args), len(args), len(args))
	}
	if cursor != nil {
		args = append(args, cursor.OccurredAt, cursor.CreatedAt, cursor.ID)
		query += fmt.Sprintf(" AND (occurred_at, created_at, record_id) < ($%d, $%d, $%d)", len(args)-2, len(args)-1, len(args))
	}

	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY occurred_at DESC, created_at DESC, record_id DESC LIMIT $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, err
	}
	defer rows.Close()

	results := make([]domain.Record, 0, limit)
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, nil, err
		}
		results = append(results, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, nil, err
	}

	var nextCursor *domain.Cursor
	if len(results) == limit {
		last := results[len(results)-1]
		nextCursor = &domain.Cursor{OccurredAt: last.OccurredAt, CreatedAt: last.CreatedAt, ID: last.ID}
	}

	return results, nextCursor, nil
}

func (r *Repository) insertOutbox(ctx context.Context, tx pgx.Tx, rec domain.Record, eventType string, payload interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	meta, ok := eventCatalog[eventType]
	if !ok {
		return fmt.Errorf("unknown event type: %s", eventType)
	}

	dedupeKey := fmt.Sprintf("%s:%s:%d", rec.ID, eventType, rec.UpdatedAt.UnixNano())

	const stmt = `INSERT INTO outbox (researcher_id, aggregate_type, aggregate_id, event_type, topic, schema_subject, partition_key, payload, dedupe_key)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`

	_, err = tx.Exec(ctx, stmt,
		rec.ResearcherID,
		"record",
		rec.ID,
		eventType,
		meta.Topic,
		meta.SchemaSubject,
		rec.ResearcherID,
		body,
		dedupeKey,
	)
	return err
}

type scannable interface {
	Scan(dest ...interface{}) error
}

func scanRecord(row scannable) (*domain.Record, error) {
	var (
		rec         domain.Record
		description *string
		subcategory *string
		venue       *string
		scope       *string
	)
	if err := row.Scan(
		&rec.ID,
		&rec.ResearcherID,
		&rec.Kind,
		&rec.Title,
		&description,
		&rec.Status,
		&rec.Category,
		&subcategory,
		&venue,
		&scope,
		&rec.OccurredAt,
		&rec.CompletedAt,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if description != nil {
		rec.Description = *description
	}
	if subcategory != nil {
		rec.Subcategory = *subcategory
	}
	if venue != nil {
		rec.Venue = *venue
	}
	if scope != nil {
		rec.Scope = domain.Scope(*scope)
	}
	return &rec, nil
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}

// EventMetadata describes how to route an outbox event.
type EventMetadata struct {
	Topic         string
	SchemaSubject string
}

var eventCatalog = map[string]EventMetadata{
	"record.created": {
		Topic:         "research_activity_events",
		SchemaSubject: "research_activity_events-value",
	},
	"record.updated": {
		Topic:         "research_activity_events",
		SchemaSubject: "research_activity_events-value",
	},
	"record.deleted": {
		Topic:         "research_activity_events",
		SchemaSubject: "research_activity_events-value",
	},
}
