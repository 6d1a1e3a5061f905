package domain

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRecordNotFound is returned when a record does not exist or belongs to a
// different researcher. Ownership mismatches deliberately look identical to
// missing rows so existence never leaks.
var ErrRecordNotFound = errors.New("record not found")

// ListFilters narrows a listing. Zero values mean "no filter".
type ListFilters struct {
	Kind     string
	Status   string
	Category string
	Year     int
	Search   string
}

// Cursor models the keyset pagination token matching the list ordering
// (occurred_at, created_at, record_id), all descending.
type Cursor struct {
	OccurredAt time.Time
	CreatedAt  time.Time
	ID         string
}

// RecordRepository captures persistence operations for activity records.
type RecordRepository interface {
	Create(ctx context.Context, rec Record) error
	Get(ctx context.Context, researcherID, recordID string) (*Record, error)
	Update(ctx context.Context, rec Record) (bool, error)
	Delete(ctx context.Context, researcherID, recordID string) (bool, error)
	List(ctx context.Context, researcherID string, filters ListFilters, cursor *Cursor, limit int) ([]Record, *Cursor, error)
}

// Service orchestrates record workflows. Every operation is scoped to the
// researcher identity provided by the caller.
type Service struct {
	repo RecordRepository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo RecordRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// CreateRecord validates and persists a new activity record.
func (s *Service) CreateRecord(ctx context.Context, researcherID string, in CreateRecordInput) (*Record, error) {
	if err := ValidateCreate(in); err != nil {
		return nil, err
	}

	now := s.now().UTC()
	rec := Record{
		ID:           uuid.NewString(),
		ResearcherID: researcherID,
		Kind:         Kind(in.Kind),
		Title:        strings.TrimSpace(in.Title),
		Description:  strings.TrimSpace(in.Description),
		Status:       Status(in.Status),
		Category:     strings.TrimSpace(in.Category),
		Subcategory:  strings.TrimSpace(in.Subcategory),
		Venue:        strings.TrimSpace(in.Venue),
		Scope:        Scope(in.Scope),
		OccurredAt:   in.OccurredAt.UTC(),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.CompletedAt != nil {
		completed := in.CompletedAt.UTC()
		rec.CompletedAt = &completed
	}

	// Rules run again right before the write regardless of what the API
	// boundary already checked.
	if err := CheckRules(rec, s.now()); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, rec); err != nil {
		return nil, err
	}
	return &rec, nil
}

// UpdateRecord applies the provided partial fields to an owned record.
func (s *Service) UpdateRecord(ctx context.Context, researcherID, recordID string, in UpdateRecordInput) (*Record, error) {
	if err := ValidateUpdate(in); err != nil {
		return nil, err
	}

	existing, err := s.repo.Get(ctx, researcherID, recordID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, ErrRecordNotFound
	}

	merged := *existing
	if in.Title != nil {
		merged.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		merged.Description = strings.TrimSpace(*in.Description)
	}
	if in.Status != nil {
		merged.Status = Status(*in.Status)
	}
	if in.Category != nil {
		merged.Category = strings.TrimSpace(*in.Category)
	}
	if in.Subcategory != nil {
		merged.Subcategory = strings.TrimSpace(*in.Subcategory)
	}
	if in.Venue != nil {
		merged.Venue = strings.TrimSpace(*in.Venue)
	}
	if in.Scope != nil {
		merged.Scope = Scope(*in.Scope)
	}
	if in.OccurredAt != nil {
		merged.OccurredAt = in.OccurredAt.UTC()
	}
	if in.CompletedAt != nil {
		completed := in.CompletedAt.UTC()
		merged.CompletedAt = &completed
	}
	// A completion date left over from a previous state no longer applies once
	// the record is not completed. An explicitly supplied one is rejected by
	// the rules below instead of being dropped silently.
	if merged.Status != StatusCompleted && in.CompletedAt == nil {
		merged.CompletedAt = nil
	}

	if err := CheckRules(merged, s.now()); err != nil {
		return nil, err
	}

	merged.UpdatedAt = s.now().UTC()
	found, err := s.repo.Update(ctx, merged)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, ErrRecordNotFound
	}
	return &merged, nil
}

// DeleteRecord physically removes an owned record.
func (s *Service) DeleteRecord(ctx context.Context, researcherID, recordID string) error {
	found, err := s.repo.Delete(ctx, researcherID, recordID)
	if err != nil {
		return err
	}
	if !found {
		return ErrRecordNotFound
	}
	return nil
}

// GetRecord fetches an owned record by id.
func (s *Service) GetRecord(ctx context.Context, researcherID, recordID string) (*Record, error) {
	rec, err := s.repo.Get(ctx, researcherID, recordID)
	if err != nil {
		return nil, err
	}
	if rec == nil {
		return nil, ErrRecordNotFound
	}
	return rec, nil
}

// ListRecords fetches records with filters and cursor pagination.
func (s *Service) ListRecords(ctx context.Context, researcherID string, filters ListFilters, cursor *Cursor, limit int) ([]Record, *Cursor, error) {
	return s.repo.List(ctx, researcherID, filters, cursor, limit)
}
