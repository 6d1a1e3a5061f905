package analytics

import (
	"context"
	"errors"
	"time"

	"golang.org/x/sync/errgroup"

	"example.com/portal/internal/observability"
)

// ErrInvalidWindow is returned when the requested window is malformed.
var ErrInvalidWindow = errors.New("invalid analytics window")

// FactsRepository reads activity facts for a researcher and date window.
type FactsRepository interface {
	Facts(ctx context.Context, researcherID string, from, to time.Time) ([]Fact, error)
}

// Service coordinates repository reads and the pure aggregation functions.
type Service struct {
	repo FactsRepository
	now  func() time.Time
}

// NewService constructs a Service.
func NewService(repo FactsRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

// OverviewQuery describes the requested window and optional comparison window.
type OverviewQuery struct {
	From        time.Time
	To          time.Time
	Granularity Granularity
	CompareFrom *time.Time
	CompareTo   *time.Time
}

func (q OverviewQuery) compareWindow() (time.Time, time.Time, bool) {
	// A partially supplied comparison window disables comparison rather than
	// erroring.
	if q.CompareFrom == nil || q.CompareTo == nil {
		return time.Time{}, time.Time{}, false
	}
	if q.CompareFrom.After(*q.CompareTo) {
		return time.Time{}, time.Time{}, false
	}
	return *q.CompareFrom, *q.CompareTo, true
}

// Overview builds the analytical payload for one researcher. The current and
// comparison windows are independent reads and are issued concurrently.
func (s *Service) Overview(ctx context.Context, researcherID string, q OverviewQuery) (*Overview, error) {
	defer func(start time.Time) {
		observability.ObserveAnalyticsBuild("overview", time.Since(start))
	}(s.now())

	if q.From.IsZero() || q.To.IsZero() || q.From.After(q.To) {
		return nil, ErrInvalidWindow
	}
	switch q.Granularity {
	case GranularityMonth, GranularityYear:
	case "":
		q.Granularity = GranularityMonth
	default:
		return nil, ErrInvalidWindow
	}

	var (
		current  []Fact
		previous []Fact
	)
	compareFrom, compareTo, withComparison := q.compareWindow()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		facts, err := s.repo.Facts(gctx, researcherID, q.From, q.To)
		if err != nil {
			return err
		}
		current = facts
		return nil
	})
	if withComparison {
		g.Go(func() error {
			facts, err := s.repo.Facts(gctx, researcherID, compareFrom, compareTo)
			if err != nil {
				return err
			}
			previous = facts
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	overview := BuildOverview(current, Window{From: q.From, To: q.To, Granularity: q.Granularity})
	if withComparison {
		previousOverview := BuildOverview(previous, Window{From: compareFrom, To: compareTo, Granularity: q.Granularity})
		overview.Comparison = Compare(overview.KPIs, previousOverview.KPIs)
	}

	topVenue := ""
	if venues := BuildBreakdowns(current).TopVenues; len(venues) > 0 {
		topVenue = venues[0].Label
	}
	overview.Insights = BuildInsights(overview, topVenue)

	return &overview, nil
}

// Heatmap builds the trailing 24-month activity heatmap. The window is fixed
// relative to now and ignores any filter window used elsewhere.
func (s *Service) Heatmap(ctx context.Context, researcherID string) ([]HeatmapCell, error) {
	now := s.now()
	defer func() {
		observability.ObserveAnalyticsBuild("heatmap", s.now().Sub(now))
	}()

	from, to := HeatmapWindow(now)
	facts, err := s.repo.Facts(ctx, researcherID, from, to)
	if err != nil {
		return nil, err
	}
	return BuildHeatmap(facts, now), nil
}

// Breakdowns builds the grouped summaries for the requested window.
func (s *Service) Breakdowns(ctx context.Context, researcherID string, from, to time.Time) (*Breakdowns, error) {
	defer func(start time.Time) {
		observability.ObserveAnalyticsBuild("breakdowns", time.Since(start))
	}(s.now())

	if from.IsZero() || to.IsZero() || from.After(to) {
		return nil, ErrInvalidWindow
	}
	facts, err := s.repo.Facts(ctx, researcherID, from, to)
	if err != nil {
		return nil, err
	}
	out := BuildBreakdowns(facts)
	return &out, nil
}
