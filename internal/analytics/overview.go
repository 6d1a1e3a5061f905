package analytics

import (
	"math"
	"time"
)

// KPIs are the headline totals across the whole window.
type KPIs struct {
	Total       int     `json:"total"`
	Research    int     `json:"research"`
	Conference  int     `json:"conference"`
	Workshop    int     `json:"workshop"`
	Committee   int     `json:"committee"`
	MonthlyRate float64 `json:"monthly_rate"`
}

func (k KPIs) count(c Category) int {
	switch c {
	case CategoryResearch:
		return k.Research
	case CategoryConference:
		return k.Conference
	case CategoryWorkshop:
		return k.Workshop
	default:
		return k.Committee
	}
}

// TimelinePoint is one bucket of the aggregated series.
type TimelinePoint struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Total      int    `json:"total"`
	Research   int    `json:"research"`
	Conference int    `json:"conference"`
	Workshop   int    `json:"workshop"`
	Committee  int    `json:"committee"`
}

// Window describes the aggregation period and its granularity.
type Window struct {
	From        time.Time   `json:"from"`
	To          time.Time   `json:"to"`
	Granularity Granularity `json:"granularity"`
}

// Overview is the analytical payload for one researcher and window.
type Overview struct {
	Window          Window          `json:"window"`
	KPIs            KPIs            `json:"kpis"`
	Timeline        []TimelinePoint `json:"timeline"`
	BestPeriodLabel string          `json:"best_period_label,omitempty"`
	Comparison      *Comparison     `json:"comparison,omitempty"`
	Insights        []string        `json:"insights"`
}

// BuildOverview aggregates facts into the timeline and KPI payload. The
// timeline always contains one point per bucket in the window; an empty fact
// set degrades to zero-filled points rather than an error.
func BuildOverview(facts []Fact, window Window) Overview {
	buckets := Buckets(window.From, window.To, window.Granularity)

	points := make([]TimelinePoint, len(buckets))
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		points[i] = TimelinePoint{Key: b.Key, Label: b.Label}
		index[b.Key] = i
	}

	var kpis KPIs
	for _, fact := range facts {
		if fact.OccurredAt.Before(window.From) || fact.OccurredAt.After(window.To) {
			continue
		}
		i, ok := index[BucketKey(fact.OccurredAt, window.Granularity)]
		if !ok {
			continue
		}
		points[i].Total++
		kpis.Total++
		switch CategoryOf(fact.Kind) {
		case CategoryResearch:
			points[i].Research++
			kpis.Research++
		case CategoryConference:
			points[i].Conference++
			kpis.Conference++
		case CategoryWorkshop:
			points[i].Workshop++
			kpis.Workshop++
		default:
			points[i].Committee++
			kpis.Committee++
		}
	}

	kpis.MonthlyRate = round2(float64(kpis.Total) / float64(monthsSpanned(window.From, window.To)))

	return Overview{
		Window:          window,
		KPIs:            kpis,
		Timeline:        points,
		BestPeriodLabel: bestPeriod(points),
	}
}

// bestPeriod returns the label of the bucket with the highest total, first
// occurrence winning ties. No activity at all means no best period.
func bestPeriod(points []TimelinePoint) string {
	best := ""
	max := 0
	for _, p := range points {
		if p.Total > max {
			max = p.Total
			best = p.Label
		}
	}
	return best
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
