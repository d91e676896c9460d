package domain

import "time"

// AlertType enumerates the four hazard correlations the detector emits
type AlertType string

const (
	AlertArroyoFloodRisk  AlertType = "arroyo_flood_risk"
	AlertSevereCongestion AlertType = "severe_congestion"
	AlertWeatherTraffic   AlertType = "weather_traffic_impact"
	AlertEventTraffic     AlertType = "event_traffic_impact"
)

// AlertSeverity grades an alert
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// Alert is a classified, time-bounded hazard notification. Alerts are
// value objects recomputed fresh on every detection pass: ids are
// synthesized per pass and are not stable across runs.
type Alert struct {
	ID              string                 `json:"id"`
	Type            AlertType              `json:"type"`
	Severity        AlertSeverity          `json:"severity"`
	Title           string                 `json:"title"`
	Description     string                 `json:"description"`
	AffectedZoneIDs []int64                `json:"affected_zone_ids"`
	AffectedRoadIDs []int64                `json:"affected_road_ids,omitempty"`
	Timestamp       time.Time              `json:"timestamp"`
	ExpiresAt       time.Time              `json:"expires_at"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
}

// ActiveAt reports whether the alert has not yet expired at t
func (a Alert) ActiveAt(t time.Time) bool {
	return a.ExpiresAt.After(t)
}
