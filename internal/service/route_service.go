package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/internal/engine"
)

// candidateMarginKm widens the origin/destination bounding box when
// fetching candidate segments
const candidateMarginKm = 2.0

// RouteService generates and scores route alternatives from live
// snapshots
type RouteService struct {
	repo       SnapshotRepository
	weatherSvc *WeatherService
	generator  *engine.Generator
	scorer     *engine.Scorer
}

// NewRouteService creates a new route service
func NewRouteService(repo SnapshotRepository, weatherSvc *WeatherService) *RouteService {
	return &RouteService{
		repo:       repo,
		weatherSvc: weatherSvc,
		generator:  engine.NewGenerator(),
		scorer:     engine.NewScorer(),
	}
}

// GetAlternatives validates the request, generates route candidates,
// scores them against the current weather/hazard/event snapshots, and
// returns them sorted descending by composite score
func (s *RouteService) GetAlternatives(ctx context.Context, req domain.RouteRequest) ([]domain.Route, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	segments, err := s.repo.SegmentsInBoundingBox(ctx, req.Origin, req.Destination, candidateMarginKm)
	if err != nil {
		return nil, err
	}

	routes, err := s.generator.Generate(req.Origin, req.Destination, segments, req.MaxRoutes())
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return []domain.Route{}, nil
	}

	weather, zones, events := s.fetchScoringContext(ctx)

	for i := range routes {
		routes[i] = s.scorer.Score(routes[i], weather, events, zones, req.Preferences)
	}
	engine.SortByScore(routes)

	return routes, nil
}

// GetOptimalRoute returns the highest-scoring alternative, or nil when
// no candidate segments exist. An empty result is not an error.
func (s *RouteService) GetOptimalRoute(ctx context.Context, req domain.RouteRequest) (*domain.Route, error) {
	routes, err := s.GetAlternatives(ctx, req)
	if err != nil {
		return nil, err
	}
	if len(routes) == 0 {
		return nil, nil
	}
	return &routes[0], nil
}

// fetchScoringContext gathers weather, high-risk arroyos, and upcoming
// events concurrently. Each source degrades independently: an
// unreachable source means a neutral default, never a failed request.
func (s *RouteService) fetchScoringContext(ctx context.Context) (*domain.WeatherSnapshot, []domain.HazardZone, []domain.EventRecord) {
	var (
		weather *domain.WeatherSnapshot
		zones   []domain.HazardZone
		events  []domain.EventRecord
		wg      sync.WaitGroup
		mu      sync.Mutex
	)

	wg.Add(1)
	go func() {
		defer wg.Done()
		w, err := s.weatherSvc.GetCurrentWeather(ctx)
		if err != nil {
			log.Printf("Route scoring: weather fetch failed, using neutral default: %v", err)
			return
		}
		mu.Lock()
		weather = &w
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		z, err := s.repo.HighRiskZones(ctx)
		if err != nil {
			log.Printf("Route scoring: hazard zone fetch failed, treating as none nearby: %v", err)
			return
		}
		mu.Lock()
		zones = z
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		e, err := s.repo.UpcomingEvents(ctx, time.Now())
		if err != nil {
			log.Printf("Route scoring: event fetch failed, treating as none nearby: %v", err)
			return
		}
		mu.Lock()
		events = e
		mu.Unlock()
	}()

	wg.Wait()
	return weather, zones, events
}
