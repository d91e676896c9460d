package engine

import (
	"testing"
	"time"

	"github.com/viabaq/backend/internal/domain"
)

func rainSnapshot(mmPerHour float64) *domain.WeatherSnapshot {
	w := domain.WeatherSnapshot{
		Temperature: 28,
		Condition:   "Rain",
		Timestamp:   time.Now(),
	}
	if mmPerHour > 0 {
		w.RainfallMmHour = &mmPerHour
		w.RainProbability = 90
	}
	return &w
}

func severeSegments(n int) []domain.RoadSegment {
	segments := make([]domain.RoadSegment, n)
	for i := range segments {
		segments[i] = seg(int64(i+1), domain.RoadAvenue, 2.0, 8, domain.CongestionSevere)
	}
	return segments
}

func countByType(alerts []domain.Alert, t domain.AlertType) int {
	n := 0
	for _, a := range alerts {
		if a.Type == t {
			n++
		}
	}
	return n
}

func TestDetectSevereCongestionOnly(t *testing.T) {
	t.Parallel()

	now := time.Now()
	snap := Snapshot{
		Weather:  rainSnapshot(0),
		Segments: severeSegments(6),
		Now:      now,
	}

	alerts := NewDetector().Detect(snap)

	if got := countByType(alerts, domain.AlertSevereCongestion); got != 1 {
		t.Fatalf("severe_congestion alerts = %d, want exactly 1", got)
	}
	if got := countByType(alerts, domain.AlertArroyoFloodRisk); got != 0 {
		t.Errorf("flood alerts with no rain = %d, want 0", got)
	}
	if got := countByType(alerts, domain.AlertWeatherTraffic); got != 0 {
		t.Errorf("weather-impact alerts with no rain = %d, want 0", got)
	}

	congestion := alerts[countIndex(alerts, domain.AlertSevereCongestion)]
	if congestion.Severity != domain.SeverityHigh {
		t.Errorf("severity = %q, want high", congestion.Severity)
	}
	if got := congestion.ExpiresAt.Sub(congestion.Timestamp); got != 30*time.Minute {
		t.Errorf("expiry window = %v, want 30m", got)
	}
	if len(congestion.AffectedRoadIDs) != 6 {
		t.Errorf("affected roads = %d, want all 6 aggregated into one alert", len(congestion.AffectedRoadIDs))
	}
}

func countIndex(alerts []domain.Alert, alertType domain.AlertType) int {
	for i, a := range alerts {
		if a.Type == alertType {
			return i
		}
	}
	return -1
}

func TestDetectFloodRiskSeverity(t *testing.T) {
	t.Parallel()

	zones := []domain.HazardZone{
		{ID: 1, Name: "Arroyo de la 84", Risk: domain.RiskHigh, ZoneID: int64Ptr(2)},
	}

	tests := []struct {
		name     string
		rainfall float64
		want     domain.AlertSeverity
	}{
		{"above critical threshold", 8, domain.SeverityCritical},
		{"below critical threshold", 3, domain.SeverityHigh},
		{"exactly at threshold stays high", 5, domain.SeverityHigh},
	}

	d := NewDetector()
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			snap := Snapshot{Weather: rainSnapshot(tc.rainfall), Zones: zones, Now: time.Now()}
			alerts := d.DetectFloodRisk(snap)
			if len(alerts) != 1 {
				t.Fatalf("flood alerts = %d, want exactly 1", len(alerts))
			}
			if alerts[0].Severity != tc.want {
				t.Errorf("severity = %q, want %q", alerts[0].Severity, tc.want)
			}
			if got := alerts[0].ExpiresAt.Sub(alerts[0].Timestamp); got != 2*time.Hour {
				t.Errorf("expiry window = %v, want 2h", got)
			}
		})
	}
}

func TestDetectFloodRiskAggregatesZones(t *testing.T) {
	t.Parallel()

	zones := []domain.HazardZone{
		{ID: 1, Name: "Arroyo de la 84", Risk: domain.RiskHigh, ZoneID: int64Ptr(2)},
		{ID: 2, Name: "Arroyo de la 79", Risk: domain.RiskHigh, ZoneID: int64Ptr(2)},
		{ID: 3, Name: "Arroyo Don Juan", Risk: domain.RiskCritical, ZoneID: int64Ptr(5)},
		{ID: 4, Name: "Arroyo Rebolo", Risk: domain.RiskHigh}, // no parent zone
	}

	snap := Snapshot{Weather: rainSnapshot(2), Zones: zones, Now: time.Now()}
	alerts := NewDetector().DetectFloodRisk(snap)

	if len(alerts) != 1 {
		t.Fatalf("expected one aggregated flood alert, got %d", len(alerts))
	}
	if got := len(alerts[0].AffectedZoneIDs); got != 2 {
		t.Errorf("affected zone ids = %v, want 2 deduplicated non-null ids", alerts[0].AffectedZoneIDs)
	}
}

func TestDetectFloodRiskRequiresBothSignals(t *testing.T) {
	t.Parallel()

	zones := []domain.HazardZone{{ID: 1, Name: "Arroyo de la 84", Risk: domain.RiskHigh}}
	d := NewDetector()

	if alerts := d.DetectFloodRisk(Snapshot{Weather: rainSnapshot(0), Zones: zones, Now: time.Now()}); len(alerts) != 0 {
		t.Errorf("no rain must mean no flood alert, got %d", len(alerts))
	}
	if alerts := d.DetectFloodRisk(Snapshot{Weather: rainSnapshot(4), Now: time.Now()}); len(alerts) != 0 {
		t.Errorf("no high-risk zones must mean no flood alert, got %d", len(alerts))
	}
	if alerts := d.DetectFloodRisk(Snapshot{Zones: zones, Now: time.Now()}); len(alerts) != 0 {
		t.Errorf("missing weather source must disable the rule, got %d", len(alerts))
	}
}

func TestDetectWeatherTrafficImpact(t *testing.T) {
	t.Parallel()

	segments := []domain.RoadSegment{
		seg(1, domain.RoadAvenue, 2.0, 15, domain.CongestionHigh),
		seg(2, domain.RoadAvenue, 2.0, 45, domain.CongestionLow),
	}

	d := NewDetector()
	alerts := d.DetectWeatherTrafficImpact(Snapshot{Weather: rainSnapshot(1.5), Segments: segments, Now: time.Now()})
	if len(alerts) != 1 {
		t.Fatalf("weather-impact alerts = %d, want 1", len(alerts))
	}
	if alerts[0].Severity != domain.SeverityMedium {
		t.Errorf("severity = %q, want medium", alerts[0].Severity)
	}
	if got := alerts[0].ExpiresAt.Sub(alerts[0].Timestamp); got != time.Hour {
		t.Errorf("expiry window = %v, want 1h", got)
	}

	calm := []domain.RoadSegment{seg(1, domain.RoadAvenue, 2.0, 45, domain.CongestionLow)}
	if alerts := d.DetectWeatherTrafficImpact(Snapshot{Weather: rainSnapshot(1.5), Segments: calm, Now: time.Now()}); len(alerts) != 0 {
		t.Errorf("rain without congestion must not alert, got %d", len(alerts))
	}
}

func TestDetectEventTrafficImpact(t *testing.T) {
	t.Parallel()

	now := time.Now()
	events := []domain.EventRecord{
		{ID: 1, Title: "Junior vs. Nacional", Status: domain.EventOngoing, EndsAt: now.Add(2 * time.Hour)},
		{ID: 2, Title: "Carnaval parade", Status: domain.EventScheduled, EndsAt: now.Add(5 * time.Hour)},
		{ID: 3, Title: "Finished concert", Status: domain.EventCompleted, EndsAt: now.Add(time.Hour)},
		{ID: 4, Title: "Cancelled fair", Status: domain.EventCancelled, EndsAt: now.Add(time.Hour)},
	}

	snap := Snapshot{
		Segments: severeSegments(2),
		Events:   events,
		Now:      now,
	}

	alerts := NewDetector().DetectEventTrafficImpact(snap)
	if len(alerts) != 2 {
		t.Fatalf("event-impact alerts = %d, want one per qualifying event (2)", len(alerts))
	}
	for _, a := range alerts {
		if a.Severity != domain.SeverityMedium {
			t.Errorf("severity = %q, want medium", a.Severity)
		}
	}
	if !alerts[0].ExpiresAt.Equal(events[0].EndsAt) {
		t.Errorf("alert expiry %v, want event end %v", alerts[0].ExpiresAt, events[0].EndsAt)
	}
	if !alerts[1].ExpiresAt.Equal(events[1].EndsAt) {
		t.Errorf("alert expiry %v, want event end %v", alerts[1].ExpiresAt, events[1].EndsAt)
	}
}

func TestDetectEventImpactNeedsCongestion(t *testing.T) {
	t.Parallel()

	now := time.Now()
	snap := Snapshot{
		Segments: []domain.RoadSegment{seg(1, domain.RoadAvenue, 2.0, 45, domain.CongestionLow)},
		Events:   []domain.EventRecord{{ID: 1, Title: "Junior match", Status: domain.EventOngoing, EndsAt: now.Add(time.Hour)}},
		Now:      now,
	}
	if alerts := NewDetector().DetectEventTrafficImpact(snap); len(alerts) != 0 {
		t.Errorf("free-flowing city must not produce event alerts, got %d", len(alerts))
	}
}

func TestDetectAllAlertsExpireAfterCreation(t *testing.T) {
	t.Parallel()

	now := time.Now()
	snap := Snapshot{
		Weather:  rainSnapshot(8),
		Segments: severeSegments(4),
		Zones: []domain.HazardZone{
			{ID: 1, Name: "Arroyo de la 84", Risk: domain.RiskHigh, ZoneID: int64Ptr(2)},
		},
		Events: []domain.EventRecord{
			{ID: 1, Title: "Junior match", Status: domain.EventOngoing, EndsAt: now.Add(90 * time.Minute)},
		},
		RoadZones: map[int64]int64{1: 10, 2: 10, 3: 11},
		Now:       now,
	}

	alerts := NewDetector().Detect(snap)
	if len(alerts) != 4 {
		t.Fatalf("expected all four rules to fire, got %d alerts", len(alerts))
	}
	for _, a := range alerts {
		if !a.ExpiresAt.After(a.Timestamp) {
			t.Errorf("alert %s expires at %v, not after its creation %v", a.ID, a.ExpiresAt, a.Timestamp)
		}
		if a.ID == "" {
			t.Error("alert without id")
		}
	}
}

func TestDetectCongestionZoneMapping(t *testing.T) {
	t.Parallel()

	snap := Snapshot{
		Segments:  severeSegments(3),
		RoadZones: map[int64]int64{1: 10, 2: 10, 3: 11},
		Now:       time.Now(),
	}

	alerts := NewDetector().DetectSevereCongestion(snap)
	if len(alerts) != 1 {
		t.Fatalf("expected one aggregated congestion alert, got %d", len(alerts))
	}
	if got := len(alerts[0].AffectedZoneIDs); got != 2 {
		t.Errorf("affected zones = %v, want 2 deduplicated ids", alerts[0].AffectedZoneIDs)
	}
}

func int64Ptr(v int64) *int64 { return &v }
