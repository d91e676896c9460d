package engine

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/viabaq/backend/internal/domain"
)

// Generator produces route alternatives from a candidate segment
// snapshot using fixed prioritization strategies. It holds no state and
// is safe for concurrent use.
type Generator struct{}

// NewGenerator creates a route alternative generator
func NewGenerator() *Generator {
	return &Generator{}
}

// strategy orders a prioritized subset of the candidate segments.
// Returning an empty slice means the strategy has nothing to offer
// beyond the full candidate set.
type strategy struct {
	name   string
	filter func([]domain.RoadSegment) []domain.RoadSegment
}

var strategies = []strategy{
	{name: "fastest", filter: fastestSegments},
	{name: "shortest", filter: shortestSegments},
	{name: "avoid_congestion", filter: uncongestedSegments},
}

// Generate builds up to maxRoutes distinct route alternatives between
// origin and destination from the pre-filtered candidate snapshot.
// Candidates are assumed to already be spatially scoped by the caller.
// An empty candidate set is not an error: it yields zero routes.
func (g *Generator) Generate(origin, destination domain.Coordinate, candidates []domain.RoadSegment, maxRoutes int) ([]domain.Route, error) {
	req := domain.RouteRequest{Origin: origin, Destination: destination}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if maxRoutes <= 0 {
		maxRoutes = domain.DefaultMaxRoutes
	}

	// The three strategies are independent; build their candidates
	// concurrently, then deduplicate sequentially in strategy order.
	built := make([]*domain.Route, len(strategies))
	var wg sync.WaitGroup
	for i, st := range strategies {
		wg.Add(1)
		go func(i int, st strategy) {
			defer wg.Done()
			subset := st.filter(candidates)
			if len(subset) == 0 {
				subset = candidates
			}
			if len(subset) == 0 {
				return
			}
			route, err := buildRoute(subset)
			if err != nil {
				// A malformed candidate fails only its own route.
				return
			}
			built[i] = &route
		}(i, st)
	}
	wg.Wait()

	seen := make(map[string]struct{}, len(strategies))
	routes := make([]domain.Route, 0, maxRoutes)
	for _, r := range built {
		if r == nil {
			continue
		}
		key := segmentSetKey(*r)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		routes = append(routes, *r)
		if len(routes) == maxRoutes {
			break
		}
	}
	return routes, nil
}

// buildRoute assembles a route from the head of a strategy-ordered
// segment list, taking between 2 and 5 segments when enough exist.
func buildRoute(ordered []domain.RoadSegment) (domain.Route, error) {
	// Take min(len, 5) from the head; a single-segment candidate list
	// still yields a one-segment route rather than none.
	count := len(ordered)
	if count > MaxRouteSegments {
		count = MaxRouteSegments
	}

	route := domain.Route{Segments: make([]domain.RouteSegment, 0, count)}
	var totalKm, totalMin float64
	for _, seg := range ordered[:count] {
		if seg.LengthKm <= 0 {
			return domain.Route{}, fmt.Errorf("generator: segment %d has invalid length %.2f", seg.ID, seg.LengthKm)
		}
		speed := seg.CurrentSpeedKmh
		if speed <= 0 {
			speed = DefaultSpeedKmh
		}
		minutes := seg.LengthKm / speed * 60
		route.Segments = append(route.Segments, domain.RouteSegment{
			RoadSegment:   seg,
			TravelTimeMin: minutes,
		})
		totalKm += seg.LengthKm
		totalMin += minutes
	}

	route.TotalDistanceKm = totalKm
	route.TotalTimeMin = totalMin
	if totalMin > 0 {
		route.AvgSpeedKmh = totalKm / (totalMin / 60)
	}
	return route, nil
}

// segmentSetKey canonicalizes a route's segment ids into an
// order-independent dedup key
func segmentSetKey(r domain.Route) string {
	ids := r.SegmentIDs()
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, "-")
}

// fastestSegments keeps highways and free-flowing roads, fastest first
func fastestSegments(segments []domain.RoadSegment) []domain.RoadSegment {
	var out []domain.RoadSegment
	for _, s := range segments {
		if s.Class == domain.RoadHighway || s.CurrentSpeedKmh > 50 {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return effectiveSpeed(out[i]) > effectiveSpeed(out[j])
	})
	return out
}

// shortestSegments orders all candidates ascending by length
func shortestSegments(segments []domain.RoadSegment) []domain.RoadSegment {
	out := make([]domain.RoadSegment, len(segments))
	copy(out, segments)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].LengthKm < out[j].LengthKm
	})
	return out
}

// uncongestedSegments keeps low and moderate congestion, calmest first
func uncongestedSegments(segments []domain.RoadSegment) []domain.RoadSegment {
	var out []domain.RoadSegment
	for _, s := range segments {
		if s.Congestion == domain.CongestionLow || s.Congestion == domain.CongestionModerate {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return congestionScore(out[i].Congestion) > congestionScore(out[j].Congestion)
	})
	return out
}

func effectiveSpeed(s domain.RoadSegment) float64 {
	if s.CurrentSpeedKmh > 0 {
		return s.CurrentSpeedKmh
	}
	return DefaultSpeedKmh
}
