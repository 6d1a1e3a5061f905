package analytics

import "time"

// heatmapMonths is the fixed trailing window the heatmap always covers,
// independent of whatever filter window the caller is using elsewhere.
const heatmapMonths = 24

// HeatmapCell holds one month's total activity count.
type HeatmapCell struct {
	Key   string `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
}

// HeatmapWindow returns the bounds of the trailing 24-month window ending at
// the month containing now.
func HeatmapWindow(now time.Time) (time.Time, time.Time) {
	end := bucketStart(now.UTC(), GranularityMonth).AddDate(0, 1, 0).Add(-time.Nanosecond)
	start := bucketStart(now.UTC(), GranularityMonth).AddDate(0, -(heatmapMonths - 1), 0)
	return start, end
}

// BuildHeatmap counts facts per month over the trailing 24 months. The result
// always has exactly 24 cells, zero-filled where nothing happened.
func BuildHeatmap(facts []Fact, now time.Time) []HeatmapCell {
	from, to := HeatmapWindow(now)
	buckets := Buckets(from, to, GranularityMonth)

	cells := make([]HeatmapCell, len(buckets))
	index := make(map[string]int, len(buckets))
	for i, b := range buckets {
		cells[i] = HeatmapCell{Key: b.Key, Label: b.Label}
		index[b.Key] = i
	}

	for _, fact := range facts {
		if fact.OccurredAt.Before(from) || fact.OccurredAt.After(to) {
			continue
		}
		if i, ok := index[BucketKey(fact.OccurredAt, GranularityMonth)]; ok {
			cells[i].Count++
		}
	}
	return cells
}
