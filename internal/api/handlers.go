// Package api exposes HTTP handlers for the researcher portal.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"example.com/portal/internal/analytics"
	"example.com/portal/internal/auth"
	"example.com/portal/internal/domain"
	"example.com/portal/internal/persistence"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
	auditLogLimit    = 50
)

// AuditLister reads the researcher-facing activity log.
type AuditLister interface {
	ListAuditEntries(ctx context.Context, researcherID string, limit int) ([]domain.AuditEntry, error)
}

// Handler coordinates HTTP requests with the domain and analytics services.
type Handler struct {
	records   *domain.Service
	analytics *analytics.Service
	audit     AuditLister
	logger    *zap.Logger
}

// NewHandler builds a Handler.
func NewHandler(records *domain.Service, analyticsService *analytics.Service, audit AuditLister, logger *zap.Logger) *Handler {
	return &Handler{records: records, analytics: analyticsService, audit: audit, logger: logger}
}

// RegisterRoutes wires endpoints to the mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/v1/records", h.recordsCollection)
	mux.HandleFunc("/v1/records/", h.recordByID)
	mux.HandleFunc("/v1/analytics/overview", h.analyticsOverview)
	mux.HandleFunc("/v1/analytics/heatmap", h.analyticsHeatmap)
	mux.HandleFunc("/v1/analytics/breakdowns", h.analyticsBreakdowns)
	mux.HandleFunc("/v1/activity-log", h.activityLog)
	mux.HandleFunc("/healthz", healthz)
}

// healthz reports a simple OK status for container health checks.
func healthz(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (h *Handler) recordsCollection(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createRecord(w, r)
	case http.MethodGet:
		h.listRecords(w, r)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) recordByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/records/")
	if id == "" || strings.Contains(id, "/") {
		writeError(w, http.StatusBadRequest, "invalid_request", "missing record id")
		return
	}

	switch r.Method {
	case http.MethodGet:
		h.getRecord(w, r, id)
	case http.MethodPut:
		h.updateRecord(w, r, id)
	case http.MethodDelete:
		h.deleteRecord(w, r, id)
	default:
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
	}
}

func (h *Handler) createRecord(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireScope(w, r, auth.ScopeRecordsWrite)
	if !ok {
		return
	}

	var req RecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	rec, err := h.records.CreateRecord(r.Context(), claims.Subject, domain.CreateRecordInput{
		Kind:        req.Kind,
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Venue:       req.Venue,
		Scope:       req.Scope,
		OccurredAt:  req.OccurredAt,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toRecordView(*rec))
}

func (h *Handler) getRecord(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := h.requireReadScope(w, r)
	if !ok {
		return
	}

	rec, err := h.records.GetRecord(r.Context(), claims.Subject, id)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordView(*rec))
}

func (h *Handler) updateRecord(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := h.requireScope(w, r, auth.ScopeRecordsWrite)
	if !ok {
		return
	}

	var req UpdateRecordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "unable to parse body")
		return
	}

	rec, err := h.records.UpdateRecord(r.Context(), claims.Subject, id, domain.UpdateRecordInput{
		Title:       req.Title,
		Description: req.Description,
		Status:      req.Status,
		Category:    req.Category,
		Subcategory: req.Subcategory,
		Venue:       req.Venue,
		Scope:       req.Scope,
		OccurredAt:  req.OccurredAt,
		CompletedAt: req.CompletedAt,
	})
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toRecordView(*rec))
}

func (h *Handler) deleteRecord(w http.ResponseWriter, r *http.Request, id string) {
	claims, ok := h.requireScope(w, r, auth.ScopeRecordsWrite)
	if !ok {
		return
	}

	if err := h.records.DeleteRecord(r.Context(), claims.Subject, id); err != nil {
		h.writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) listRecords(w http.ResponseWriter, r *http.Request) {
	claims, ok := h.requireReadScope(w, r)
	if !ok {
		return
	}

	query := r.URL.Query()
	filters := domain.ListFilters{
		Kind:     strings.TrimSpace(query.Get("kind")),
		Status:   strings.TrimSpace(query.Get("status")),
		Category: strings.TrimSpace(query.Get("category")),
		Search:   strings.TrimSpace(query.Get("search")),
	}
	if raw := query.Get("year"); raw != "" {
		year, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid year")
			return
		}
		filters.Year = year
	}

	limit := defaultListLimit
	if raw := query.Get("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 {
			if parsed > maxListLimit {
				parsed = maxListLimit
			}
			limit = parsed
		}
	}

	cursor, err := persistence.DecodeCursor(query.Get("cursor"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid cursor")
		return
	}

	records, next, err := h.records.ListRecords(r.Context(), claims.Subject, filters, cursor, limit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]RecordView, 0, len(records))
	for _, rec := range records {
		items = append(items, toRecordView(rec))
	}

	writeJSON(w, http.StatusOK, ListRecordsResponse{
		Items:      items,
		NextCursor: persistence.EncodeCursor(next),
	})
}

func (h *Handler) analyticsOverview(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := h.requireScope(w, r, auth.ScopeAnalyticsRead)
	if !ok {
		return
	}

	query := r.URL.Query()
	from, err := parseWindowTime(query.Get("from"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid from date")
		return
	}
	to, err := parseWindowTime(query.Get("to"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid to date")
		return
	}

	overviewQuery := analytics.OverviewQuery{
		From:        from,
		To:          to,
		Granularity: analytics.Granularity(query.Get("granularity")),
	}
	if raw := query.Get("compare_from"); raw != "" {
		parsed, err := parseWindowTime(raw, false)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid compare_from date")
			return
		}
		overviewQuery.CompareFrom = &parsed
	}
	if raw := query.Get("compare_to"); raw != "" {
		parsed, err := parseWindowTime(raw, true)
		if err != nil {
			writeError(w, http.StatusBadRequest, "validation_failed", "invalid compare_to date")
			return
		}
		overviewQuery.CompareTo = &parsed
	}

	overview, err := h.analytics.Overview(r.Context(), claims.Subject, overviewQuery)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, overview)
}

func (h *Handler) analyticsHeatmap(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := h.requireScope(w, r, auth.ScopeAnalyticsRead)
	if !ok {
		return
	}

	cells, err := h.analytics.Heatmap(r.Context(), claims.Subject)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, HeatmapResponse{Cells: cells})
}

func (h *Handler) analyticsBreakdowns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := h.requireScope(w, r, auth.ScopeAnalyticsRead)
	if !ok {
		return
	}

	from, err := parseWindowTime(r.URL.Query().Get("from"), false)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid from date")
		return
	}
	to, err := parseWindowTime(r.URL.Query().Get("to"), true)
	if err != nil {
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid to date")
		return
	}

	breakdowns, err := h.analytics.Breakdowns(r.Context(), claims.Subject, from, to)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, breakdowns)
}

func (h *Handler) activityLog(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method_not_allowed", "unsupported method")
		return
	}

	claims, ok := h.requireReadScope(w, r)
	if !ok {
		return
	}

	entries, err := h.audit.ListAuditEntries(r.Context(), claims.Subject, auditLogLimit)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}

	items := make([]AuditEntryView, 0, len(entries))
	for _, entry := range entries {
		items = append(items, AuditEntryView{
			EventType:  entry.EventType,
			RecordID:   entry.RecordID,
			Kind:       entry.Kind,
			ReceivedAt: entry.ReceivedAt,
		})
	}

	writeJSON(w, http.StatusOK, ActivityLogResponse{Items: items})
}

// requireScope extracts claims and checks for a single scope.
func (h *Handler) requireScope(w http.ResponseWriter, r *http.Request, scope string) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if !claims.HasScope(scope) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+scope+" required")
		return nil, false
	}
	return claims, true
}

// requireReadScope accepts records:read or records:write, since write access
// implies the ability to read what was written.
func (h *Handler) requireReadScope(w http.ResponseWriter, r *http.Request) (*auth.Claims, bool) {
	claims, ok := auth.FromContext(r.Context())
	if !ok {
		writeError(w, http.StatusUnauthorized, "unauthorized", "missing bearer token")
		return nil, false
	}
	if !claims.HasScope(auth.ScopeRecordsRead) && !claims.HasScope(auth.ScopeRecordsWrite) {
		writeError(w, http.StatusForbidden, "forbidden", "scope "+auth.ScopeRecordsRead+" or "+auth.ScopeRecordsWrite+" required")
		return nil, false
	}
	return claims, true
}

func (h *Handler) writeServiceError(w http.ResponseWriter, err error) {
	var validationErr *domain.ValidationError
	switch {
	case errors.As(err, &validationErr):
		writeError(w, http.StatusBadRequest, "validation_failed", validationErr.Error())
	case errors.Is(err, domain.ErrRecordNotFound):
		writeError(w, http.StatusNotFound, "not_found", "record not found")
	case errors.Is(err, analytics.ErrInvalidWindow):
		writeError(w, http.StatusBadRequest, "validation_failed", "invalid date window")
	default:
		h.logger.Error("request failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "server_error", "internal error")
	}
}

// parseWindowTime accepts RFC 3339 timestamps or bare dates. A bare date used
// as a window end resolves to the end of that day so the day is included.
func parseWindowTime(raw string, windowEnd bool) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	if ts, err := time.Parse(time.RFC3339, raw); err == nil {
		return ts.UTC(), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, err
	}
	if windowEnd {
		return day.AddDate(0, 0, 1).Add(-time.Nanosecond), nil
	}
	return day, nil
}

// RecordRequest is the payload for POST /v1/records.
type RecordRequest struct {
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory"`
	Venue       string     `json:"venue"`
	Scope       string     `json:"scope"`
	OccurredAt  time.Time  `json:"occurred_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// UpdateRecordRequest carries partial fields for PUT /v1/records/{id}.
// Absent fields leave the stored values untouched.
type UpdateRecordRequest struct {
	Title       *string    `json:"title,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Category    *string    `json:"category,omitempty"`
	Subcategory *string    `json:"subcategory,omitempty"`
	Venue       *string    `json:"venue,omitempty"`
	Scope       *string    `json:"scope,omitempty"`
	OccurredAt  *time.Time `json:"occurred_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// RecordView exposes full details about a stored record.
type RecordView struct {
	RecordID    string     `json:"record_id"`
	Kind        string     `json:"kind"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Status      string     `json:"status"`
	Category    string     `json:"category"`
	Subcategory string     `json:"subcategory,omitempty"`
	Venue       string     `json:"venue,omitempty"`
	Scope       string     `json:"scope,omitempty"`
	OccurredAt  time.Time  `json:"occurred_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// ListRecordsResponse packages list results.
type ListRecordsResponse struct {
	Items      []RecordView `json:"items"`
	NextCursor string       `json:"next_cursor,omitempty"`
}

// HeatmapResponse wraps the trailing 24-month cells.
type HeatmapResponse struct {
	Cells []analytics.HeatmapCell `json:"cells"`
}

// AuditEntryView is one activity-log row.
type AuditEntryView struct {
	EventType  string    `json:"event_type"`
	RecordID   string    `json:"record_id,omitempty"`
	Kind       string    `json:"kind,omitempty"`
	ReceivedAt time.Time `json:"received_at"`
}

// ActivityLogResponse packages activity-log entries.
type ActivityLogResponse struct {
	Items []AuditEntryView `json:"items"`
}

func writeError(w http.ResponseWriter, status int, code, detail string) {
	payload := map[string]string{
		"type":   code,
		"detail": detail,
	}
	writeJSON(w, status, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func toRecordView(rec domain.Record) RecordView {
	return RecordView{
		RecordID:    rec.ID,
		Kind:        string(rec.Kind),
		Title:       rec.Title,
		Description: rec.Description,
		Status:      string(rec.Status),
		Category:    rec.Category,
		Subcategory: rec.Subcategory,
		Venue:       rec.Venue,
		Scope:       string(rec.Scope),
		OccurredAt:  rec.OccurredAt,
		CompletedAt: rec.CompletedAt,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
