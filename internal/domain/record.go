// Package domain defines the researcher activity record model and business logic.
package domain

import "time"

// Kind identifies one of the activity domains a researcher can record.
type Kind string

const (
	KindAssignment   Kind = "assignment"
	KindCertificate  Kind = "certificate"
	KindJournal      Kind = "journal"
	KindPosition     Kind = "position"
	KindReviewing    Kind = "reviewing"
	KindSeminar      Kind = "seminar"
	KindSupervision  Kind = "supervision"
	KindVolunteering Kind = "volunteering"
	KindConference   Kind = "conference"
	KindPublication  Kind = "publication"
	KindCommittee    Kind = "committee"
	KindWorkshop     Kind = "workshop"
)

// Status represents the completion state of a record.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
)

// Scope marks whether an activity was local or international.
type Scope string

const (
	ScopeLocal         Scope = "local"
	ScopeInternational Scope = "international"
)

// Record is the single aggregate stored for every activity kind. Kind-specific
// vocabulary lives in the KindSpec registry rather than in per-kind tables.
type Record struct {
	ID           string
	ResearcherID string
	Kind         Kind
	Title        string
	Description  string
	Status       Status
	Category     string
	Subcategory  string
	Venue        string
	Scope        Scope
	OccurredAt   time.Time
	CompletedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// KindSpec describes the vocabulary and gating rules for one activity kind.
type KindSpec struct {
	Kind                Kind
	Label               string
	Categories          []string
	Subcategories       []string
	SubcategoryRequired []string // categories that require a subcategory
}

// HasCategory reports whether value is a valid category for the kind.
func (s KindSpec) HasCategory(value string) bool {
	for _, c := range s.Categories {
		if c == value {
			return true
		}
	}
	return false
}

// HasSubcategory reports whether value is a valid subcategory for the kind.
func (s KindSpec) HasSubcategory(value string) bool {
	for _, c := range s.Subcategories {
		if c == value {
			return true
		}
	}
	return false
}

// RequiresSubcategory reports whether the given category gates a mandatory
// subcategory (e.g. supervision type for phd/masters degrees).
func (s KindSpec) RequiresSubcategory(category string) bool {
	for _, c := range s.SubcategoryRequired {
		if c == category {
			return true
		}
	}
	return false
}

var kindRegistry = map[Kind]KindSpec{
	KindAssignment: {
		Kind:       KindAssignment,
		Label:      "Assignment",
		Categories: []string{"teaching", "grading", "curriculum"},
	},
	KindCertificate: {
		Kind:       KindCertificate,
		Label:      "Certificate",
		Categories: []string{"professional", "academic"},
	},
	KindJournal: {
		Kind:       KindJournal,
		Label:      "Journal",
		Categories: []string{"author", "co_author", "editor"},
	},
	KindPosition: {
		Kind:       KindPosition,
		Label:      "Position",
		Categories: []string{"head", "coordinator", "member"},
	},
	KindReviewing: {
		Kind:       KindReviewing,
		Label:      "Reviewing",
		Categories: []string{"journal", "conference", "grant"},
	},
	KindSeminar: {
		Kind:       KindSeminar,
		Label:      "Seminar",
		Categories: []string{"speaker", "attendee", "organizer"},
	},
	KindSupervision: {
		Kind:                KindSupervision,
		Label:               "Supervision",
		Categories:          []string{"phd", "masters", "bachelors"},
		Subcategories:       []string{"academic", "industrial"},
		SubcategoryRequired: []string{"phd", "masters"},
	},
	KindVolunteering: {
		Kind:       KindVolunteering,
		Label:      "Volunteering",
		Categories: []string{"outreach", "mentoring", "event"},
	},
	KindConference: {
		Kind:       KindConference,
		Label:      "Conference",
		Categories: []string{"speaker", "attendee", "organizer", "panelist"},
	},
	KindPublication: {
		Kind:       KindPublication,
		Label:      "Publication",
		Categories: []string{"article", "book_chapter", "preprint"},
	},
	KindCommittee: {
		Kind:       KindCommittee,
		Label:      "Committee",
		Categories: []string{"chair", "member", "secretary"},
	},
	KindWorkshop: {
		Kind:       KindWorkshop,
		Label:      "Workshop",
		Categories: []string{"instructor", "participant", "organizer"},
	},
}

// SpecFor returns the registry entry for a kind.
func SpecFor(kind Kind) (KindSpec, bool) {
	spec, ok := kindRegistry[kind]
	return spec, ok
}

// Kinds lists every registered activity kind.
func Kinds() []Kind {
	out := make([]Kind, 0, len(kindRegistry))
	for kind := range kindRegistry {
		out = append(out, kind)
	}
	return out
}
