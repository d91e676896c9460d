package engine

import (
	"fmt"
	"sync"
	"time"

	"github.com/viabaq/backend/internal/domain"
)

// Alert expiry windows per detection rule
const (
	floodAlertWindow      = 2 * time.Hour
	congestionAlertWindow = 30 * time.Minute
	weatherAlertWindow    = time.Hour
)

// CriticalRainfallMmHour is the rainfall rate above which a flood-risk
// alert escalates from high to critical
const CriticalRainfallMmHour = 5.0

// Snapshot bundles the read-only inputs one detection pass consumes
type Snapshot struct {
	Weather  *domain.WeatherSnapshot
	Segments []domain.RoadSegment
	Zones    []domain.HazardZone
	Events   []domain.EventRecord

	// RoadZones maps road ids to their administrative zone ids, used to
	// derive affected zones for congestion alerts
	RoadZones map[int64]int64

	Now time.Time
}

// Detector runs the four hazard correlation rules over a snapshot.
// Each rule is stateless and independent of the others.
type Detector struct{}

// NewDetector creates an alert detector
func NewDetector() *Detector {
	return &Detector{}
}

// Detect evaluates all four rules concurrently and concatenates their
// alerts in fixed rule order. A missing weather snapshot disables the
// rain-dependent rules rather than failing the pass.
func (d *Detector) Detect(snap Snapshot) []domain.Alert {
	if snap.Now.IsZero() {
		snap.Now = time.Now()
	}

	results := make([][]domain.Alert, 4)
	rules := []func(Snapshot) []domain.Alert{
		d.DetectFloodRisk,
		d.DetectSevereCongestion,
		d.DetectWeatherTrafficImpact,
		d.DetectEventTrafficImpact,
	}

	var wg sync.WaitGroup
	for i, rule := range rules {
		wg.Add(1)
		go func(i int, rule func(Snapshot) []domain.Alert) {
			defer wg.Done()
			results[i] = rule(snap)
		}(i, rule)
	}
	wg.Wait()

	var alerts []domain.Alert
	for _, r := range results {
		alerts = append(alerts, r...)
	}
	return alerts
}

// DetectFloodRisk emits one alert aggregating all high-risk arroyos
// when it is raining and at least one such arroyo exists
func (d *Detector) DetectFloodRisk(snap Snapshot) []domain.Alert {
	if snap.Weather == nil || snap.Weather.Rainfall() <= 0 || len(snap.Zones) == 0 {
		return nil
	}

	rainfall := snap.Weather.Rainfall()
	severity := domain.SeverityHigh
	if rainfall > CriticalRainfallMmHour {
		severity = domain.SeverityCritical
	}

	zoneIDs := make([]int64, 0, len(snap.Zones))
	seen := make(map[int64]struct{})
	names := make([]string, 0, len(snap.Zones))
	for _, z := range snap.Zones {
		names = append(names, z.Name)
		if z.ZoneID == nil {
			continue
		}
		if _, ok := seen[*z.ZoneID]; ok {
			continue
		}
		seen[*z.ZoneID] = struct{}{}
		zoneIDs = append(zoneIDs, *z.ZoneID)
	}

	return []domain.Alert{{
		ID:              alertID(domain.AlertArroyoFloodRisk, snap.Now),
		Type:            domain.AlertArroyoFloodRisk,
		Severity:        severity,
		Title:           "Arroyo flood risk",
		Description:     fmt.Sprintf("Rainfall of %.1f mm/h with %d high-risk arroyo(s) active", rainfall, len(snap.Zones)),
		AffectedZoneIDs: zoneIDs,
		Timestamp:       snap.Now,
		ExpiresAt:       snap.Now.Add(floodAlertWindow),
		Metadata: map[string]interface{}{
			"rainfall_mm_hour": rainfall,
			"arroyo_names":     names,
		},
	}}
}

// DetectSevereCongestion emits one alert aggregating every severely
// congested segment
func (d *Detector) DetectSevereCongestion(snap Snapshot) []domain.Alert {
	var roadIDs []int64
	for _, seg := range snap.Segments {
		if seg.Congestion == domain.CongestionSevere {
			roadIDs = append(roadIDs, seg.ID)
		}
	}
	if len(roadIDs) == 0 {
		return nil
	}

	zoneIDs := make([]int64, 0, len(roadIDs))
	seen := make(map[int64]struct{})
	for _, id := range roadIDs {
		zoneID, ok := snap.RoadZones[id]
		if !ok {
			continue
		}
		if _, dup := seen[zoneID]; dup {
			continue
		}
		seen[zoneID] = struct{}{}
		zoneIDs = append(zoneIDs, zoneID)
	}

	return []domain.Alert{{
		ID:              alertID(domain.AlertSevereCongestion, snap.Now),
		Type:            domain.AlertSevereCongestion,
		Severity:        domain.SeverityHigh,
		Title:           "Severe congestion",
		Description:     fmt.Sprintf("%d road segment(s) at severe congestion", len(roadIDs)),
		AffectedZoneIDs: zoneIDs,
		AffectedRoadIDs: roadIDs,
		Timestamp:       snap.Now,
		ExpiresAt:       snap.Now.Add(congestionAlertWindow),
		Metadata: map[string]interface{}{
			"segment_count": len(roadIDs),
		},
	}}
}

// DetectWeatherTrafficImpact correlates active rain with heavy traffic
func (d *Detector) DetectWeatherTrafficImpact(snap Snapshot) []domain.Alert {
	if snap.Weather == nil || snap.Weather.Rainfall() <= 0 {
		return nil
	}
	congested := countCongestedSegments(snap.Segments)
	if congested == 0 {
		return nil
	}

	return []domain.Alert{{
		ID:              alertID(domain.AlertWeatherTraffic, snap.Now),
		Type:            domain.AlertWeatherTraffic,
		Severity:        domain.SeverityMedium,
		Title:           "Rain-related traffic impact",
		Description:     fmt.Sprintf("Rain of %.1f mm/h with %d congested segment(s)", snap.Weather.Rainfall(), congested),
		AffectedZoneIDs: []int64{},
		Timestamp:       snap.Now,
		ExpiresAt:       snap.Now.Add(weatherAlertWindow),
		Metadata: map[string]interface{}{
			"rainfall_mm_hour": snap.Weather.Rainfall(),
			"congested_count":  congested,
		},
	}}
}

// DetectEventTrafficImpact emits one alert per upcoming or ongoing
// event while the system shows heavy congestion anywhere. The
// system-wide count is a deliberate proxy: no spatial join between the
// event location and the congested segments is performed.
func (d *Detector) DetectEventTrafficImpact(snap Snapshot) []domain.Alert {
	congested := countCongestedSegments(snap.Segments)
	if congested == 0 {
		return nil
	}

	var alerts []domain.Alert
	for _, ev := range snap.Events {
		if !ev.IsRelevantAt(snap.Now) {
			continue
		}
		// An alert must outlive its creation instant; an event ending
		// right now cannot carry one.
		if !ev.EndsAt.After(snap.Now) {
			continue
		}
		alerts = append(alerts, domain.Alert{
			ID:              alertID(domain.AlertEventTraffic, snap.Now) + fmt.Sprintf("-%d", ev.ID),
			Type:            domain.AlertEventTraffic,
			Severity:        domain.SeverityMedium,
			Title:           fmt.Sprintf("Traffic impact near %s", ev.Title),
			Description:     fmt.Sprintf("Event %q with %d congested segment(s) in the city", ev.Title, congested),
			AffectedZoneIDs: []int64{},
			Timestamp:       snap.Now,
			ExpiresAt:       ev.EndsAt,
			Metadata: map[string]interface{}{
				"event_id":        ev.ID,
				"event_type":      ev.Type,
				"congested_count": congested,
			},
		})
	}
	return alerts
}

// alertID synthesizes a per-pass alert id from the rule type and the
// detection timestamp. Ids are not stable across passes.
func alertID(t domain.AlertType, now time.Time) string {
	return fmt.Sprintf("%s-%d", t, now.UnixNano())
}

func countCongestedSegments(segments []domain.RoadSegment) int {
	n := 0
	for _, seg := range segments {
		if seg.Congestion == domain.CongestionHigh || seg.Congestion == domain.CongestionSevere {
			n++
		}
	}
	return n
}
