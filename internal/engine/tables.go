package engine

import "github.com/viabaq/backend/internal/domain"

// Static lookup tables shared by the scorer and detector. Treated as
// immutable; never written after init.

// CongestionScores maps a congestion level to its 0-100 traffic score
var CongestionScores = map[domain.CongestionLevel]float64{
	domain.CongestionLow:      100,
	domain.CongestionModerate: 70,
	domain.CongestionHigh:     40,
	domain.CongestionSevere:   10,
}

// UnknownCongestionScore is used for levels missing from the table
const UnknownCongestionScore = 50

// ArroyoRiskEncoding maps an arroyo risk level onto the 0-1 scale the
// prediction model was trained on
var ArroyoRiskEncoding = map[domain.RiskLevel]float64{
	domain.RiskLow:      0.25,
	domain.RiskMedium:   0.5,
	domain.RiskHigh:     0.75,
	domain.RiskCritical: 1.0,
}

// SevereConditions are weather condition labels that carry a flat
// scoring penalty
var SevereConditions = map[string]struct{}{
	"Thunderstorm": {},
	"Heavy Rain":   {},
	"Storm":        {},
}

// Weights are the relative importances of the four sub-scores
type Weights struct {
	Traffic  float64
	Weather  float64
	Safety   float64
	Distance float64
}

// BaseWeights is the default weight profile before preference bumps
var BaseWeights = Weights{
	Traffic:  0.35,
	Weather:  0.20,
	Safety:   0.30,
	Distance: 0.15,
}

// Preference bumps added to the base weights before renormalization
const (
	AvoidCongestionTrafficBump = 0.15
	AvoidArroyosSafetyBump     = 0.15
	AvoidEventsSafetyBump      = 0.10
)

const (
	// DistanceNormKm is the city-scale normalization constant for the
	// distance sub-score: routes at or beyond it score 0.
	DistanceNormKm = 30

	// DefaultSpeedKmh is the effective speed assumed for segments with
	// no current speed observation
	DefaultSpeedKmh = 40

	// MinRouteSegments and MaxRouteSegments bound how many segments a
	// strategy takes from the head of its ordered candidate list
	MinRouteSegments = 2
	MaxRouteSegments = 5
)

// Sum returns the total of the four weights
func (w Weights) Sum() float64 {
	return w.Traffic + w.Weather + w.Safety + w.Distance
}

// Normalized returns the weights scaled to sum to 1
func (w Weights) Normalized() Weights {
	total := w.Sum()
	if total <= 0 {
		return BaseWeights
	}
	return Weights{
		Traffic:  w.Traffic / total,
		Weather:  w.Weather / total,
		Safety:   w.Safety / total,
		Distance: w.Distance / total,
	}
}

// WeightsFor applies the caller's preference bumps to the base weights
// and renormalizes
func WeightsFor(prefs *domain.RoutePreferences) Weights {
	w := BaseWeights
	if prefs != nil {
		if prefs.AvoidCongestion {
			w.Traffic += AvoidCongestionTrafficBump
		}
		if prefs.AvoidArroyos {
			w.Safety += AvoidArroyosSafetyBump
		}
		if prefs.AvoidEvents {
			w.Safety += AvoidEventsSafetyBump
		}
	}
	return w.Normalized()
}

// congestionScore looks up a level's traffic score with the unknown default
func congestionScore(level domain.CongestionLevel) float64 {
	if s, ok := CongestionScores[level]; ok {
		return s
	}
	return UnknownCongestionScore
}
