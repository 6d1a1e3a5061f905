package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func windowJanToJun() Window {
	return Window{
		From:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2025, time.June, 30, 23, 59, 59, 0, time.UTC),
		Granularity: GranularityMonth,
	}
}

func TestBuildOverviewZeroFillsEmptyWindow(t *testing.T) {
	o := BuildOverview(nil, windowJanToJun())

	require.Len(t, o.Timeline, 6)
	for _, p := range o.Timeline {
		require.Zero(t, p.Total)
	}
	require.Zero(t, o.KPIs.Total)
	require.Zero(t, o.KPIs.MonthlyRate)
	require.Empty(t, o.BestPeriodLabel)
}

func TestBuildOverviewCountsPerCategory(t *testing.T) {
	facts := []Fact{
		{Kind: "publication", OccurredAt: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)},
		{Kind: "journal", OccurredAt: time.Date(2025, time.January, 20, 0, 0, 0, 0, time.UTC)},
		{Kind: "conference", OccurredAt: time.Date(2025, time.March, 5, 0, 0, 0, 0, time.UTC)},
		{Kind: "workshop", OccurredAt: time.Date(2025, time.March, 6, 0, 0, 0, 0, time.UTC)},
		{Kind: "reviewing", OccurredAt: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)},
		// Outside the window, must not count.
		{Kind: "conference", OccurredAt: time.Date(2025, time.July, 1, 0, 0, 0, 0, time.UTC)},
	}

	o := BuildOverview(facts, windowJanToJun())

	require.Equal(t, 5, o.KPIs.Total)
	require.Equal(t, 2, o.KPIs.Research)
	require.Equal(t, 1, o.KPIs.Conference)
	require.Equal(t, 1, o.KPIs.Workshop)
	require.Equal(t, 1, o.KPIs.Committee)

	require.Equal(t, 2, o.Timeline[0].Total)
	require.Equal(t, 0, o.Timeline[1].Total)
	require.Equal(t, 2, o.Timeline[2].Total)

	// 5 records over 6 months.
	require.InDelta(t, 0.83, o.KPIs.MonthlyRate, 0.001)
}

func TestBuildOverviewBestPeriodFirstWinsTies(t *testing.T) {
	facts := []Fact{
		{Kind: "seminar", OccurredAt: time.Date(2025, time.February, 1, 0, 0, 0, 0, time.UTC)},
		{Kind: "seminar", OccurredAt: time.Date(2025, time.April, 1, 0, 0, 0, 0, time.UTC)},
	}

	o := BuildOverview(facts, windowJanToJun())
	require.Equal(t, "Feb 2025", o.BestPeriodLabel)
}

func TestCategoryOfUnknownKind(t *testing.T) {
	require.Equal(t, CategoryCommittee, CategoryOf("interpretive_dance"))
}
