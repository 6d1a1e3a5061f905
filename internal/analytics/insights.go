package analytics

import "fmt"

var categoryLabels = map[Category]string{
	CategoryResearch:   "research output",
	CategoryConference: "conference participation",
	CategoryWorkshop:   "workshops and training",
	CategoryCommittee:  "service and committee work",
}

// BuildInsights fills sentence templates from already-computed aggregates.
// Pure presentation; no additional counting happens here.
func BuildInsights(o Overview, topVenue string) []string {
	if o.KPIs.Total == 0 {
		return []string{"No recorded activity in this period."}
	}

	var out []string

	dominant := Categories[0]
	for _, c := range Categories[1:] {
		if o.KPIs.count(c) > o.KPIs.count(dominant) {
			dominant = c
		}
	}
	share := o.KPIs.count(dominant) * 100 / o.KPIs.Total
	out = append(out, fmt.Sprintf("Most of your activity is %s (%d%% of %d records).", categoryLabels[dominant], share, o.KPIs.Total))

	if o.BestPeriodLabel != "" {
		out = append(out, fmt.Sprintf("Your most productive period was %s.", o.BestPeriodLabel))
	}

	if o.Comparison != nil {
		switch {
		case o.Comparison.Total.New:
			out = append(out, "This period has activity where the previous one had none.")
		case o.Comparison.Total.Pct != nil && *o.Comparison.Total.Pct < 0:
			out = append(out, fmt.Sprintf("Overall activity is down %d%% versus the previous period.", -*o.Comparison.Total.Pct))
		case o.Comparison.Total.Pct != nil && *o.Comparison.Total.Pct > 0:
			out = append(out, fmt.Sprintf("Overall activity is up %d%% versus the previous period.", *o.Comparison.Total.Pct))
		}
	}

	if topVenue != "" {
		out = append(out, fmt.Sprintf("Your most frequent venue is %s.", topVenue))
	}

	return out
}
