package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHeatmapAlwaysCoversTrailing24Months(t *testing.T) {
	now := time.Date(2025, time.August, 17, 9, 30, 0, 0, time.UTC)

	cells := BuildHeatmap(nil, now)

	require.Len(t, cells, 24)
	require.Equal(t, "2023-09", cells[0].Key)
	require.Equal(t, "2025-08", cells[23].Key)
	for _, c := range cells {
		require.Zero(t, c.Count)
	}
}

func TestHeatmapCountsOnlyWindowFacts(t *testing.T) {
	now := time.Date(2025, time.August, 17, 9, 30, 0, 0, time.UTC)
	facts := []Fact{
		{Kind: "publication", OccurredAt: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)},
		{Kind: "seminar", OccurredAt: time.Date(2025, time.August, 30, 0, 0, 0, 0, time.UTC)},
		{Kind: "workshop", OccurredAt: time.Date(2023, time.September, 1, 0, 0, 0, 0, time.UTC)},
		// One month too old.
		{Kind: "workshop", OccurredAt: time.Date(2023, time.August, 31, 0, 0, 0, 0, time.UTC)},
	}

	cells := BuildHeatmap(facts, now)

	require.Equal(t, 1, cells[0].Count)
	require.Equal(t, 2, cells[23].Count)

	total := 0
	for _, c := range cells {
		total += c.Count
	}
	require.Equal(t, 3, total)
}

func TestHeatmapWindowBounds(t *testing.T) {
	now := time.Date(2025, time.January, 15, 12, 0, 0, 0, time.UTC)
	from, to := HeatmapWindow(now)

	require.Equal(t, time.Date(2023, time.February, 1, 0, 0, 0, 0, time.UTC), from)
	require.True(t, to.After(time.Date(2025, time.January, 31, 23, 59, 59, 0, time.UTC)))
	require.True(t, to.Before(time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)))
}
