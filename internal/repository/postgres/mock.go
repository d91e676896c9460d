package postgres

import (
	"context"
	"time"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/pkg/utils"
)

// MockRepository implements domain.SnapshotRepository with seeded
// Barranquilla data for demo mode and tests
type MockRepository struct {
	segments []mockSegment
	zones    []domain.HazardZone
	events   []domain.EventRecord
}

type mockSegment struct {
	seg      domain.RoadSegment
	lat, lng float64
}

func int64Ptr(v int64) *int64 { return &v }

// NewMockRepository creates a repository seeded with a small snapshot
// of the city's main corridors
func NewMockRepository() *MockRepository {
	now := time.Now()
	return &MockRepository{
		segments: []mockSegment{
			{seg: domain.RoadSegment{ID: 1, Name: "Vía 40", Class: domain.RoadHighway, Lanes: 4, MaxSpeedKmh: 80, LengthKm: 6.2, CurrentSpeedKmh: 58, Congestion: domain.CongestionLow, ZoneID: int64Ptr(1)}, lat: 11.015, lng: -74.795},
			{seg: domain.RoadSegment{ID: 2, Name: "Calle 84", Class: domain.RoadAvenue, Lanes: 2, MaxSpeedKmh: 50, LengthKm: 2.8, CurrentSpeedKmh: 22, Congestion: domain.CongestionHigh, ZoneID: int64Ptr(2)}, lat: 11.006, lng: -74.812},
			{seg: domain.RoadSegment{ID: 3, Name: "Carrera 46 - Av. Olaya Herrera", Class: domain.RoadAvenue, Lanes: 3, MaxSpeedKmh: 60, LengthKm: 4.5, CurrentSpeedKmh: 31, Congestion: domain.CongestionModerate, ZoneID: int64Ptr(3)}, lat: 10.985, lng: -74.793},
			{seg: domain.RoadSegment{ID: 4, Name: "Calle 72", Class: domain.RoadAvenue, Lanes: 2, MaxSpeedKmh: 50, LengthKm: 3.1, CurrentSpeedKmh: 18, Congestion: domain.CongestionHigh, ZoneID: int64Ptr(2)}, lat: 10.998, lng: -74.805},
			{seg: domain.RoadSegment{ID: 5, Name: "Av. Circunvalar", Class: domain.RoadHighway, Lanes: 4, MaxSpeedKmh: 80, LengthKm: 8.4, CurrentSpeedKmh: 64, Congestion: domain.CongestionLow, ZoneID: int64Ptr(4)}, lat: 10.955, lng: -74.82},
			{seg: domain.RoadSegment{ID: 6, Name: "Calle 30 - Av. del Aeropuerto", Class: domain.RoadAvenue, Lanes: 3, MaxSpeedKmh: 60, LengthKm: 5.6, CurrentSpeedKmh: 26, Congestion: domain.CongestionModerate, ZoneID: int64Ptr(5)}, lat: 10.945, lng: -74.79},
			{seg: domain.RoadSegment{ID: 7, Name: "Carrera 43", Class: domain.RoadStreet, Lanes: 2, MaxSpeedKmh: 40, LengthKm: 2.2, CurrentSpeedKmh: 14, Congestion: domain.CongestionSevere, ZoneID: int64Ptr(3)}, lat: 10.99, lng: -74.8},
			{seg: domain.RoadSegment{ID: 8, Name: "Carrera 51B", Class: domain.RoadStreet, Lanes: 2, MaxSpeedKmh: 40, LengthKm: 1.9, CurrentSpeedKmh: 35, Congestion: domain.CongestionLow, ZoneID: int64Ptr(2)}, lat: 11.01, lng: -74.82},
		},
		zones: []domain.HazardZone{
			{ID: 1, Name: "Arroyo de la 84", Risk: domain.RiskHigh, ZoneID: int64Ptr(2), HasDrainage: false},
			{ID: 2, Name: "Arroyo de la 79", Risk: domain.RiskHigh, ZoneID: int64Ptr(2), HasDrainage: false},
			{ID: 3, Name: "Arroyo Don Juan", Risk: domain.RiskCritical, ZoneID: int64Ptr(5), HasDrainage: false},
			{ID: 4, Name: "Arroyo Felicidad", Risk: domain.RiskMedium, ZoneID: int64Ptr(3), HasDrainage: true, DrainageKm: 3.2},
		},
		events: []domain.EventRecord{
			{
				ID: 1, Title: "Junior vs. Millonarios", Type: "sports",
				Status: domain.EventScheduled,
				StartsAt: now.Add(3 * time.Hour), EndsAt: now.Add(6 * time.Hour),
				Latitude: 10.925, Longitude: -74.785,
			},
			{
				ID: 2, Title: "Concierto Malecón del Río", Type: "concert",
				Status: domain.EventOngoing,
				StartsAt: now.Add(-1 * time.Hour), EndsAt: now.Add(2 * time.Hour),
				Latitude: 11.012, Longitude: -74.79,
			},
		},
	}
}

// SegmentsInBoundingBox filters the seeded segments by bounding box
func (r *MockRepository) SegmentsInBoundingBox(ctx context.Context, a, b domain.Coordinate, marginKm float64) ([]domain.RoadSegment, error) {
	minLat, maxLat := orderPair(a.Lat, b.Lat)
	minLng, maxLng := orderPair(a.Lng, b.Lng)

	minLat -= utils.KmToLatDegrees(marginKm)
	maxLat += utils.KmToLatDegrees(marginKm)
	lngMargin := utils.KmToLngDegrees(marginKm, (minLat+maxLat)/2)
	minLng -= lngMargin
	maxLng += lngMargin

	var out []domain.RoadSegment
	for _, ms := range r.segments {
		if ms.lat >= minLat && ms.lat <= maxLat && ms.lng >= minLng && ms.lng <= maxLng {
			out = append(out, ms.seg)
		}
	}
	return out, nil
}

// HighRiskZones returns the seeded arroyos at high or critical risk
func (r *MockRepository) HighRiskZones(ctx context.Context) ([]domain.HazardZone, error) {
	var out []domain.HazardZone
	for _, z := range r.zones {
		if z.IsHighRisk() {
			out = append(out, z)
		}
	}
	return out, nil
}

// UpcomingEvents returns seeded events still relevant at t
func (r *MockRepository) UpcomingEvents(ctx context.Context, t time.Time) ([]domain.EventRecord, error) {
	var out []domain.EventRecord
	for _, e := range r.events {
		if e.IsRelevantAt(t) {
			out = append(out, e)
		}
	}
	return out, nil
}

// ZonesForRoads maps seeded road ids to zone ids
func (r *MockRepository) ZonesForRoads(ctx context.Context, roadIDs []int64) (map[int64]int64, error) {
	byID := make(map[int64]*int64, len(r.segments))
	for _, ms := range r.segments {
		byID[ms.seg.ID] = ms.seg.ZoneID
	}

	zones := make(map[int64]int64, len(roadIDs))
	for _, id := range roadIDs {
		if zoneID, ok := byID[id]; ok && zoneID != nil {
			zones[id] = *zoneID
		}
	}
	return zones, nil
}

// Health always returns nil in mock mode
func (r *MockRepository) Health(ctx context.Context) error {
	return nil
}
