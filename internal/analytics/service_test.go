package analytics

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type stubFactsRepo struct {
	byWindow map[string][]Fact
	err      error
	calls    int
}

func (s *stubFactsRepo) Facts(_ context.Context, _ string, from, to time.Time) ([]Fact, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return s.byWindow[from.Format("2006-01-02")], nil
}

func fixedNow() time.Time {
	return time.Date(2025, time.August, 17, 12, 0, 0, 0, time.UTC)
}

func TestOverviewWithComparison(t *testing.T) {
	repo := &stubFactsRepo{byWindow: map[string][]Fact{
		"2025-01-01": {
			{Kind: "publication", OccurredAt: time.Date(2025, time.January, 10, 0, 0, 0, 0, time.UTC)},
			{Kind: "conference", OccurredAt: time.Date(2025, time.February, 10, 0, 0, 0, 0, time.UTC)},
		},
		"2024-01-01": {
			{Kind: "publication", OccurredAt: time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)},
		},
	}}
	svc := NewService(repo)
	svc.now = fixedNow

	compareFrom := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)
	compareTo := time.Date(2024, time.June, 30, 0, 0, 0, 0, time.UTC)

	overview, err := svc.Overview(context.Background(), "researcher-1", OverviewQuery{
		From:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		CompareFrom: &compareFrom,
		CompareTo:   &compareTo,
	})
	require.NoError(t, err)
	require.Equal(t, 2, repo.calls)

	require.Equal(t, 2, overview.KPIs.Total)
	require.NotNil(t, overview.Comparison)
	require.Equal(t, 1, overview.Comparison.Previous.Total)
	require.Equal(t, 100, *overview.Comparison.Total.Pct)
	require.NotEmpty(t, overview.Insights)
}

func TestOverviewPartialCompareWindowDisablesComparison(t *testing.T) {
	repo := &stubFactsRepo{}
	svc := NewService(repo)
	svc.now = fixedNow

	compareFrom := time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC)

	overview, err := svc.Overview(context.Background(), "researcher-1", OverviewQuery{
		From:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2025, time.June, 30, 0, 0, 0, 0, time.UTC),
		CompareFrom: &compareFrom,
	})
	require.NoError(t, err)
	require.Nil(t, overview.Comparison)
	require.Equal(t, 1, repo.calls)
}

func TestOverviewRejectsInvalidWindows(t *testing.T) {
	svc := NewService(&stubFactsRepo{})
	svc.now = fixedNow

	_, err := svc.Overview(context.Background(), "researcher-1", OverviewQuery{})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Overview(context.Background(), "researcher-1", OverviewQuery{
		From: time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, ErrInvalidWindow)

	_, err = svc.Overview(context.Background(), "researcher-1", OverviewQuery{
		From:        time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:          time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		Granularity: "weekly",
	})
	require.ErrorIs(t, err, ErrInvalidWindow)
}

func TestOverviewPropagatesRepositoryError(t *testing.T) {
	boom := errors.New("connection refused")
	svc := NewService(&stubFactsRepo{err: boom})
	svc.now = fixedNow

	_, err := svc.Overview(context.Background(), "researcher-1", OverviewQuery{
		From: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
		To:   time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
	})
	require.ErrorIs(t, err, boom)
}

func TestHeatmapUsesFixedTrailingWindow(t *testing.T) {
	repo := &stubFactsRepo{byWindow: map[string][]Fact{
		"2023-09-01": {
			{Kind: "seminar", OccurredAt: time.Date(2025, time.August, 1, 0, 0, 0, 0, time.UTC)},
		},
	}}
	svc := NewService(repo)
	svc.now = fixedNow

	cells, err := svc.Heatmap(context.Background(), "researcher-1")
	require.NoError(t, err)
	require.Len(t, cells, 24)
	require.Equal(t, 1, cells[23].Count)
}

func TestBreakdownsValidatesWindow(t *testing.T) {
	svc := NewService(&stubFactsRepo{})
	svc.now = fixedNow

	_, err := svc.Breakdowns(context.Background(), "researcher-1",
		time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC))
	require.ErrorIs(t, err, ErrInvalidWindow)
}
