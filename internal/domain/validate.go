package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// ValidationError carries the first failing field and a human-readable message.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("kind", func(fl validator.FieldLevel) bool {
		_, ok := kindRegistry[Kind(fl.Field().String())]
		return ok
	})
	return v
}

// CreateRecordInput is the validated payload for creating a record.
type CreateRecordInput struct {
	Kind        string     `validate:"required,kind"`
	Title       string     `validate:"required,min=2"`
	Description string     `validate:"omitempty,min=2"`
	Status      string     `validate:"required,oneof=in_progress completed"`
	Category    string     `validate:"required,min=2"`
	Subcategory string     `validate:"omitempty,min=2"`
	Venue       string     `validate:"omitempty,min=2"`
	Scope       string     `validate:"omitempty,oneof=local international"`
	OccurredAt  time.Time  `validate:"required"`
	CompletedAt *time.Time `validate:"-"`
}

// UpdateRecordInput carries the partial fields of an update; nil means "leave as is".
type UpdateRecordInput struct {
	Title       *string    `validate:"omitempty,min=2"`
	Description *string    `validate:"omitempty,min=2"`
	Status      *string    `validate:"omitempty,oneof=in_progress completed"`
	Category    *string    `validate:"omitempty,min=2"`
	Subcategory *string    `validate:"-"`
	Venue       *string    `validate:"-"`
	Scope       *string    `validate:"omitempty,oneof=local international"`
	OccurredAt  *time.Time `validate:"-"`
	CompletedAt *time.Time `validate:"-"`
}

// ValidateCreate checks shape constraints on a create payload. Business rules
// are verified separately by CheckRules, which the service invokes again
// before the write.
func ValidateCreate(in CreateRecordInput) error {
	if err := validate.Struct(in); err != nil {
		return firstFieldError(err)
	}
	return nil
}

// ValidateUpdate checks shape constraints on the provided partial fields.
func ValidateUpdate(in UpdateRecordInput) error {
	if err := validate.Struct(in); err != nil {
		return firstFieldError(err)
	}
	return nil
}

// CheckRules enforces the cross-field business rules on a fully merged record.
// It is the single rule module invoked both at the API boundary and by the
// service immediately before any write.
func CheckRules(rec Record, now time.Time) error {
	spec, ok := kindRegistry[rec.Kind]
	if !ok {
		return invalid("kind", "unknown activity kind")
	}

	if len(strings.TrimSpace(rec.Title)) < 2 {
		return invalid("title", "title must be at least 2 characters")
	}

	if !spec.HasCategory(rec.Category) {
		return invalid("category", fmt.Sprintf("category must be one of %s", strings.Join(spec.Categories, ", ")))
	}

	if spec.RequiresSubcategory(rec.Category) {
		if rec.Subcategory == "" {
			return invalid("subcategory", fmt.Sprintf("subcategory is required when category is %s", rec.Category))
		}
		if !spec.HasSubcategory(rec.Subcategory) {
			return invalid("subcategory", fmt.Sprintf("subcategory must be one of %s", strings.Join(spec.Subcategories, ", ")))
		}
	} else if rec.Subcategory != "" {
		return invalid("subcategory", fmt.Sprintf("subcategory does not apply to category %s", rec.Category))
	}

	cutoff := endOfDay(now)
	if rec.OccurredAt.IsZero() {
		return invalid("occurred_at", "date is required")
	}
	if rec.OccurredAt.After(cutoff) {
		return invalid("occurred_at", "date must not be in the future")
	}

	switch rec.Status {
	case StatusCompleted:
		if rec.CompletedAt == nil {
			return invalid("completed_at", "completion date is required for completed records")
		}
		if rec.CompletedAt.Before(rec.OccurredAt) {
			return invalid("completed_at", "completion date must not be before the start date")
		}
		if rec.CompletedAt.After(cutoff) {
			return invalid("completed_at", "completion date must not be in the future")
		}
	case StatusInProgress:
		if rec.CompletedAt != nil {
			return invalid("completed_at", "completion date does not apply to in-progress records")
		}
	default:
		return invalid("status", "status must be in_progress or completed")
	}

	return nil
}

// endOfDay returns 23:59:59.999 of the given day in its location.
func endOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, 999_000_000, t.Location())
}

var fieldMessages = map[string]string{
	"Kind.kind":       "unknown activity kind",
	"Kind.required":   "kind is required",
	"Title.required":  "title is required",
	"Title.min":       "title must be at least 2 characters",
	"Status.required": "status is required",
	"Status.oneof":    "status must be in_progress or completed",
	"Scope.oneof":     "scope must be local or international",
}

// firstFieldError converts a validator error into the first failing field's
// human-readable message, mirroring how callers surface a single string.
func firstFieldError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return err
	}
	first := errs[0]
	field := snakeCase(first.Field())
	if msg, ok := fieldMessages[first.Field()+"."+first.Tag()]; ok {
		return invalid(field, msg)
	}
	switch first.Tag() {
	case "required":
		return invalid(field, field+" is required")
	case "min":
		return invalid(field, fmt.Sprintf("%s must be at least %s characters", field, first.Param()))
	case "oneof":
		return invalid(field, fmt.Sprintf("%s must be one of %s", field, first.Param()))
	default:
		return invalid(field, field+" is invalid")
	}
}

func snakeCase(field string) string {
	var b strings.Builder
	for i, r := range field {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
