package engine

import (
	"sort"
	"testing"

	"github.com/viabaq/backend/internal/domain"
)

var (
	testOrigin      = domain.Coordinate{Lat: 11.0, Lng: -74.8}
	testDestination = domain.Coordinate{Lat: 10.95, Lng: -74.79}
)

func seg(id int64, class domain.RoadClass, lengthKm, speedKmh float64, congestion domain.CongestionLevel) domain.RoadSegment {
	return domain.RoadSegment{
		ID:              id,
		Name:            "segment",
		Class:           class,
		Lanes:           2,
		MaxSpeedKmh:     60,
		LengthKm:        lengthKm,
		CurrentSpeedKmh: speedKmh,
		Congestion:      congestion,
	}
}

func mixedCandidates() []domain.RoadSegment {
	return []domain.RoadSegment{
		seg(1, domain.RoadHighway, 6.0, 70, domain.CongestionLow),
		seg(2, domain.RoadAvenue, 2.5, 20, domain.CongestionHigh),
		seg(3, domain.RoadStreet, 1.2, 35, domain.CongestionLow),
		seg(4, domain.RoadAvenue, 4.0, 55, domain.CongestionModerate),
		seg(5, domain.RoadStreet, 0.8, 12, domain.CongestionSevere),
		seg(6, domain.RoadHighway, 8.0, 65, domain.CongestionModerate),
		seg(7, domain.RoadStreet, 1.9, 30, domain.CongestionLow),
	}
}

func TestGenerateDistinctSegmentSets(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	routes, err := g.Generate(testOrigin, testDestination, mixedCandidates(), 5)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(routes) == 0 {
		t.Fatal("expected at least one route")
	}

	seen := make(map[string]bool)
	for _, r := range routes {
		if len(r.Segments) == 0 {
			t.Fatal("route with no segments")
		}
		key := segmentSetKey(r)
		if seen[key] {
			t.Errorf("duplicate segment set %q in result", key)
		}
		seen[key] = true
	}
}

func TestGenerateEmptyCandidates(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	routes, err := g.Generate(testOrigin, testDestination, nil, 3)
	if err != nil {
		t.Fatalf("empty candidate set must not be an error, got: %v", err)
	}
	if len(routes) != 0 {
		t.Errorf("expected no routes, got %d", len(routes))
	}
}

func TestGenerateOutOfBoundsCoordinates(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		origin domain.Coordinate
		dest   domain.Coordinate
	}{
		{"origin north of city", domain.Coordinate{Lat: 43.23, Lng: -74.8}, testDestination},
		{"destination wrong hemisphere", testOrigin, domain.Coordinate{Lat: 10.95, Lng: 74.79}},
		{"missing origin", domain.Coordinate{}, testDestination},
	}

	g := NewGenerator()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := g.Generate(tc.origin, tc.dest, mixedCandidates(), 3)
			if err == nil {
				t.Fatal("expected validation error")
			}
			if _, ok := err.(*domain.ValidationError); !ok {
				t.Fatalf("expected *domain.ValidationError, got %T", err)
			}
		})
	}
}

func TestGenerateRespectsMaxRoutes(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	routes, err := g.Generate(testOrigin, testDestination, mixedCandidates(), 1)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(routes) != 1 {
		t.Errorf("expected exactly 1 route, got %d", len(routes))
	}
}

func TestGenerateSegmentCountClamp(t *testing.T) {
	t.Parallel()

	g := NewGenerator()
	routes, err := g.Generate(testOrigin, testDestination, mixedCandidates(), 5)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	for _, r := range routes {
		if len(r.Segments) > MaxRouteSegments {
			t.Errorf("route has %d segments, max is %d", len(r.Segments), MaxRouteSegments)
		}
	}
}

func TestGenerateStrategyFallback(t *testing.T) {
	t.Parallel()

	// No highways, nothing faster than 50, everything congested: the
	// fastest and avoid-congestion subsets are empty and must fall
	// back to the full candidate set.
	candidates := []domain.RoadSegment{
		seg(1, domain.RoadStreet, 2.0, 15, domain.CongestionSevere),
		seg(2, domain.RoadStreet, 3.0, 20, domain.CongestionHigh),
		seg(3, domain.RoadStreet, 1.0, 18, domain.CongestionSevere),
	}

	g := NewGenerator()
	routes, err := g.Generate(testOrigin, testDestination, candidates, 3)
	if err != nil {
		t.Fatalf("Generate returned error: %v", err)
	}
	if len(routes) == 0 {
		t.Fatal("expected fallback routes from full candidate set")
	}
}

func TestGenerateSkipsMalformedCandidate(t *testing.T) {
	t.Parallel()

	// The broken segment sorts first on length, so the shortest
	// strategy's route fails. The other strategies never select it.
	candidates := []domain.RoadSegment{
		seg(1, domain.RoadHighway, 6.0, 70, domain.CongestionLow),
		seg(2, domain.RoadHighway, 4.0, 60, domain.CongestionLow),
		seg(3, domain.RoadAvenue, 2.0, 55, domain.CongestionModerate),
		seg(4, domain.RoadStreet, -1.0, 10, domain.CongestionSevere),
	}

	g := NewGenerator()
	routes, err := g.Generate(testOrigin, testDestination, candidates, 5)
	if err != nil {
		t.Fatalf("one malformed candidate must not fail the batch: %v", err)
	}
	if len(routes) == 0 {
		t.Fatal("expected surviving routes")
	}
	for _, r := range routes {
		for _, s := range r.Segments {
			if s.ID == 4 {
				t.Error("route contains the malformed segment")
			}
		}
	}
}

func TestBuildRouteAggregates(t *testing.T) {
	t.Parallel()

	ordered := []domain.RoadSegment{
		seg(1, domain.RoadAvenue, 5.0, 50, domain.CongestionLow), // 6 min
		seg(2, domain.RoadAvenue, 2.0, 0, domain.CongestionLow),  // unknown speed -> 40 km/h, 3 min
	}

	route, err := buildRoute(ordered)
	if err != nil {
		t.Fatalf("buildRoute returned error: %v", err)
	}

	if got := route.TotalDistanceKm; got != 7.0 {
		t.Errorf("TotalDistanceKm = %v, want 7.0", got)
	}
	if got := route.TotalTimeMin; got != 9.0 {
		t.Errorf("TotalTimeMin = %v, want 9.0", got)
	}
	wantAvg := 7.0 / (9.0 / 60.0)
	if diff := route.AvgSpeedKmh - wantAvg; diff > 1e-9 || diff < -1e-9 {
		t.Errorf("AvgSpeedKmh = %v, want %v", route.AvgSpeedKmh, wantAvg)
	}
	if got := route.Segments[1].TravelTimeMin; got != 3.0 {
		t.Errorf("segment travel time with default speed = %v, want 3.0", got)
	}
}

func TestShortestStrategyOrdering(t *testing.T) {
	t.Parallel()

	ordered := shortestSegments(mixedCandidates())
	if !sort.SliceIsSorted(ordered, func(i, j int) bool {
		return ordered[i].LengthKm < ordered[j].LengthKm
	}) {
		t.Error("shortest strategy did not sort ascending by length")
	}
}

func TestFastestStrategyFilters(t *testing.T) {
	t.Parallel()

	for _, s := range fastestSegments(mixedCandidates()) {
		if s.Class != domain.RoadHighway && s.CurrentSpeedKmh <= 50 {
			t.Errorf("segment %d is neither highway nor faster than 50 km/h", s.ID)
		}
	}
}

func TestUncongestedStrategyFilters(t *testing.T) {
	t.Parallel()

	for _, s := range uncongestedSegments(mixedCandidates()) {
		if s.Congestion != domain.CongestionLow && s.Congestion != domain.CongestionModerate {
			t.Errorf("segment %d has congestion %q", s.ID, s.Congestion)
		}
	}
}
