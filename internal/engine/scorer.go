package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/viabaq/backend/internal/domain"
)

// Scorer computes composite 0-100 scores for routes. Stateless; safe
// for concurrent use.
type Scorer struct{}

// NewScorer creates a route scorer
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score fills in the route's sub-scores, composite score, warnings and
// metadata flags. A nil weather snapshot degrades to the neutral
// default; nil zone/event slices mean nothing is nearby.
func (s *Scorer) Score(route domain.Route, weather *domain.WeatherSnapshot, nearbyEvents []domain.EventRecord, nearbyHighRiskZones []domain.HazardZone, prefs *domain.RoutePreferences) domain.Route {
	w := domain.NeutralWeather()
	if weather != nil {
		w = *weather
	}

	route.Breakdown = domain.ScoreBreakdown{
		Traffic:  s.trafficScore(route.Segments),
		Weather:  s.weatherScore(w),
		Safety:   s.safetyScore(len(nearbyHighRiskZones), len(nearbyEvents)),
		Distance: s.distanceScore(route.TotalDistanceKm),
	}

	route.Flags.WeatherAffected = route.Breakdown.Weather < 70
	route.Flags.ArroyoRiskNearby = len(nearbyHighRiskZones) > 0
	route.Flags.EventNearby = len(nearbyEvents) > 0
	route.Flags.CongestedSegments = countCongested(route.Segments)

	weights := WeightsFor(prefs)
	composite := route.Breakdown.Traffic*weights.Traffic +
		route.Breakdown.Weather*weights.Weather +
		route.Breakdown.Safety*weights.Safety +
		route.Breakdown.Distance*weights.Distance
	route.Score = math.Round(composite)

	route.Warnings = s.buildWarnings(route, w, len(nearbyHighRiskZones), len(nearbyEvents))
	return route
}

// SortByScore orders routes descending by composite score, in place
func SortByScore(routes []domain.Route) {
	sort.SliceStable(routes, func(i, j int) bool {
		return routes[i].Score > routes[j].Score
	})
}

// trafficScore averages the congestion table over the route's segments
func (s *Scorer) trafficScore(segments []domain.RouteSegment) float64 {
	if len(segments) == 0 {
		return UnknownCongestionScore
	}
	var sum float64
	for _, seg := range segments {
		sum += congestionScore(seg.Congestion)
	}
	return sum / float64(len(segments))
}

// weatherScore starts at 100 and applies capped penalties for rain
// probability, heat, wind, and severe conditions
func (s *Scorer) weatherScore(w domain.WeatherSnapshot) float64 {
	score := 100.0

	score -= math.Min(w.RainProbability*0.5, 50)
	if w.Temperature > 35 {
		score -= math.Min((w.Temperature-35)*2, 20)
	}
	if w.WindSpeedKmh > 30 {
		score -= math.Min(w.WindSpeedKmh-30, 20)
	}
	if _, severe := SevereConditions[w.Condition]; severe {
		score -= 30
	}

	return math.Max(score, 0)
}

// safetyScore penalizes 10 points per nearby high-risk arroyo and 5 per
// nearby event
func (s *Scorer) safetyScore(zoneCount, eventCount int) float64 {
	score := 100.0 - float64(zoneCount)*10 - float64(eventCount)*5
	return math.Max(score, 0)
}

// distanceScore favors shorter routes on the fixed 30 km city scale
func (s *Scorer) distanceScore(totalKm float64) float64 {
	ratio := math.Min(totalKm/DistanceNormKm, 1)
	return math.Round((1 - ratio) * 100)
}

func (s *Scorer) buildWarnings(route domain.Route, w domain.WeatherSnapshot, zoneCount, eventCount int) []string {
	var warnings []string
	if route.Flags.CongestedSegments > 0 {
		warnings = append(warnings, fmt.Sprintf("%d congested segment(s) on this route", route.Flags.CongestedSegments))
	}
	if w.RainProbability > 50 {
		warnings = append(warnings, fmt.Sprintf("High rain probability (%.0f%%)", w.RainProbability))
	}
	if zoneCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%d high-risk arroyo(s) near this route", zoneCount))
	}
	if eventCount > 0 {
		warnings = append(warnings, fmt.Sprintf("%d event(s) near this route", eventCount))
	}
	if route.AvgSpeedKmh > 0 && route.AvgSpeedKmh < 25 {
		warnings = append(warnings, fmt.Sprintf("Slow average speed (%.0f km/h)", route.AvgSpeedKmh))
	}
	return warnings
}

func countCongested(segments []domain.RouteSegment) int {
	n := 0
	for _, seg := range segments {
		if seg.Congestion == domain.CongestionHigh || seg.Congestion == domain.CongestionSevere {
			n++
		}
	}
	return n
}
