// Package analytics turns activity records into time-bucketed series,
// period-over-period comparisons, heatmaps, and derived insights. Everything
// here is pure computation over facts fetched by a repository.
package analytics

import "time"

// Category is one of the headline KPI groupings.
type Category string

const (
	CategoryResearch   Category = "research"
	CategoryConference Category = "conference"
	CategoryWorkshop   Category = "workshop"
	CategoryCommittee  Category = "committee"
)

// Categories lists the KPI groupings in display order.
var Categories = []Category{CategoryResearch, CategoryConference, CategoryWorkshop, CategoryCommittee}

// Fact is the minimal projection of a record the aggregation layer needs. The
// relevant date is the record's primary date, never its creation time.
type Fact struct {
	Kind       string
	Category   string
	Venue      string
	Scope      string
	OccurredAt time.Time
}

var kindCategories = map[string]Category{
	"journal":      CategoryResearch,
	"publication":  CategoryResearch,
	"conference":   CategoryConference,
	"seminar":      CategoryConference,
	"workshop":     CategoryWorkshop,
	"certificate":  CategoryWorkshop,
	"committee":    CategoryCommittee,
	"reviewing":    CategoryCommittee,
	"assignment":   CategoryCommittee,
	"position":     CategoryCommittee,
	"supervision":  CategoryCommittee,
	"volunteering": CategoryCommittee,
}

// CategoryOf maps an activity kind to its KPI category. Unknown kinds count
// toward the committee/service bucket so totals never silently drop records.
func CategoryOf(kind string) Category {
	if c, ok := kindCategories[kind]; ok {
		return c
	}
	return CategoryCommittee
}
