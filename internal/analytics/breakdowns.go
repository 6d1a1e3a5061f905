package analytics

import "sort"

// topVenueLimit caps the venue leaderboard.
const topVenueLimit = 5

// CountItem pairs a label with its count.
type CountItem struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// YearCount is one year's record count.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// Breakdowns are the read-only sub-aggregations consumed by the reporting
// charts. No cross-bucket carry-over; each is an independent summarization.
type Breakdowns struct {
	ConferencesByScope         []CountItem `json:"conferences_by_scope"`
	ConferencesByParticipation []CountItem `json:"conferences_by_participation"`
	PublicationsByYear         []YearCount `json:"publications_by_year"`
	TopVenues                  []CountItem `json:"top_venues"`
}

// BuildBreakdowns derives the grouped summaries from facts. Facts must be in
// occurrence order: venue ties are broken by first-encountered order.
func BuildBreakdowns(facts []Fact) Breakdowns {
	scopeCounts := map[string]int{}
	participationCounts := map[string]int{}
	var participationOrder []string
	yearCounts := map[int]int{}
	venueCounts := map[string]int{}
	var venueOrder []string

	for _, fact := range facts {
		if fact.Kind == "conference" {
			if fact.Scope != "" {
				scopeCounts[fact.Scope]++
			}
			if fact.Category != "" {
				if _, seen := participationCounts[fact.Category]; !seen {
					participationOrder = append(participationOrder, fact.Category)
				}
				participationCounts[fact.Category]++
			}
		}
		if fact.Kind == "publication" || fact.Kind == "journal" {
			yearCounts[fact.OccurredAt.Year()]++
		}
		if fact.Venue != "" {
			if _, seen := venueCounts[fact.Venue]; !seen {
				venueOrder = append(venueOrder, fact.Venue)
			}
			venueCounts[fact.Venue]++
		}
	}

	out := Breakdowns{}

	for _, scope := range []string{"local", "international"} {
		if n := scopeCounts[scope]; n > 0 {
			out.ConferencesByScope = append(out.ConferencesByScope, CountItem{Label: scope, Count: n})
		}
	}

	for _, label := range participationOrder {
		out.ConferencesByParticipation = append(out.ConferencesByParticipation, CountItem{Label: label, Count: participationCounts[label]})
	}

	years := make([]int, 0, len(yearCounts))
	for year := range yearCounts {
		years = append(years, year)
	}
	sort.Ints(years)
	for _, year := range years {
		out.PublicationsByYear = append(out.PublicationsByYear, YearCount{Year: year, Count: yearCounts[year]})
	}

	venues := make([]CountItem, 0, len(venueOrder))
	for _, venue := range venueOrder {
		venues = append(venues, CountItem{Label: venue, Count: venueCounts[venue]})
	}
	sort.SliceStable(venues, func(i, j int) bool { return venues[i].Count > venues[j].Count })
	if len(venues) > topVenueLimit {
		venues = venues[:topVenueLimit]
	}
	out.TopVenues = venues

	return out
}
