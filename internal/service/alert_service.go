package service

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/internal/engine"
)

// AlertService runs hazard detection over city-wide snapshots and
// serves filtered alert views
type AlertService struct {
	repo       SnapshotRepository
	weatherSvc *WeatherService
	detector   *engine.Detector
	lifecycle  *engine.Lifecycle
}

// NewAlertService creates a new alert service
func NewAlertService(repo SnapshotRepository, weatherSvc *WeatherService) *AlertService {
	return &AlertService{
		repo:       repo,
		weatherSvc: weatherSvc,
		detector:   engine.NewDetector(),
		lifecycle:  engine.NewLifecycle(),
	}
}

// DetectActiveAlerts gathers the live snapshots concurrently, runs all
// four detection rules, and returns only the alerts still active now.
// Each source degrades independently on fetch failure.
func (s *AlertService) DetectActiveAlerts(ctx context.Context) ([]domain.Alert, error) {
	snap := s.gatherSnapshot(ctx)
	alerts := s.detector.Detect(snap)
	return s.lifecycle.ActiveAlerts(alerts, snap.Now), nil
}

// FilterBySeverity narrows an alert set to one severity
func (s *AlertService) FilterBySeverity(alerts []domain.Alert, severity domain.AlertSeverity) []domain.Alert {
	return s.lifecycle.FilterBySeverity(alerts, severity)
}

// FilterByType narrows an alert set to one alert type
func (s *AlertService) FilterByType(alerts []domain.Alert, alertType domain.AlertType) []domain.Alert {
	return s.lifecycle.FilterByType(alerts, alertType)
}

// gatherSnapshot fetches weather, segments, arroyos, and events
// concurrently; the rules read whatever sources answered.
func (s *AlertService) gatherSnapshot(ctx context.Context) engine.Snapshot {
	now := time.Now()
	snap := engine.Snapshot{Now: now}

	var wg sync.WaitGroup
	var mu sync.Mutex

	wg.Add(1)
	go func() {
		defer wg.Done()
		w, err := s.weatherSvc.GetCurrentWeather(ctx)
		if err != nil {
			log.Printf("Alert detection: weather fetch failed, rain rules disabled: %v", err)
			return
		}
		mu.Lock()
		snap.Weather = &w
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		origin := domain.Coordinate{Lat: domain.ServiceAreaMinLat, Lng: domain.ServiceAreaMinLng}
		dest := domain.Coordinate{Lat: domain.ServiceAreaMaxLat, Lng: domain.ServiceAreaMaxLng}
		segments, err := s.repo.SegmentsInBoundingBox(ctx, origin, dest, 0)
		if err != nil {
			log.Printf("Alert detection: segment fetch failed, congestion rules disabled: %v", err)
			return
		}
		mu.Lock()
		snap.Segments = segments
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		zones, err := s.repo.HighRiskZones(ctx)
		if err != nil {
			log.Printf("Alert detection: hazard zone fetch failed, flood rule disabled: %v", err)
			return
		}
		mu.Lock()
		snap.Zones = zones
		mu.Unlock()
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		events, err := s.repo.UpcomingEvents(ctx, now)
		if err != nil {
			log.Printf("Alert detection: event fetch failed, event rule disabled: %v", err)
			return
		}
		mu.Lock()
		snap.Events = events
		mu.Unlock()
	}()

	wg.Wait()

	// Zone mapping depends on the fetched segments, so it runs after.
	if len(snap.Segments) > 0 {
		ids := make([]int64, len(snap.Segments))
		for i, seg := range snap.Segments {
			ids[i] = seg.ID
		}
		roadZones, err := s.repo.ZonesForRoads(ctx, ids)
		if err != nil {
			log.Printf("Alert detection: zone mapping failed, alerts carry no zone ids: %v", err)
		} else {
			snap.RoadZones = roadZones
		}
	}

	return snap
}
