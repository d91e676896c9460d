package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/viabaq/backend/internal/domain"
	"github.com/viabaq/backend/pkg/utils"
)

// PostgresRepository implements domain.SnapshotRepository
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL repository
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

// SegmentsInBoundingBox returns current road segments whose center
// point falls in the rectangle spanned by a and b, expanded by marginKm
func (r *PostgresRepository) SegmentsInBoundingBox(ctx context.Context, a, b domain.Coordinate, marginKm float64) ([]domain.RoadSegment, error) {
	minLat, maxLat := orderPair(a.Lat, b.Lat)
	minLng, maxLng := orderPair(a.Lng, b.Lng)

	latMargin := utils.KmToLatDegrees(marginKm)
	lngMargin := utils.KmToLngDegrees(marginKm, (minLat+maxLat)/2)

	query := `
		SELECT id, name, road_class, lanes, max_speed_kmh, length_km,
			   current_speed_kmh, congestion_level, zone_id, geometry
		FROM road_segments
		WHERE center_lat BETWEEN $1 AND $2
		  AND center_lng BETWEEN $3 AND $4
	`

	rows, err := r.pool.Query(ctx, query,
		minLat-latMargin, maxLat+latMargin,
		minLng-lngMargin, maxLng+lngMargin,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query road segments: %w", err)
	}
	defer rows.Close()

	var segments []domain.RoadSegment
	for rows.Next() {
		var s domain.RoadSegment
		err := rows.Scan(
			&s.ID, &s.Name, &s.Class, &s.Lanes, &s.MaxSpeedKmh, &s.LengthKm,
			&s.CurrentSpeedKmh, &s.Congestion, &s.ZoneID, &s.Geometry,
		)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan road segment row: %w", err)
		}
		segments = append(segments, s)
	}

	return segments, nil
}

// HighRiskZones returns arroyos currently at high or critical risk
func (r *PostgresRepository) HighRiskZones(ctx context.Context) ([]domain.HazardZone, error) {
	query := `
		SELECT id, name, risk_level, zone_id, drainage_km, has_drainage
		FROM arroyos
		WHERE risk_level IN ('high', 'critical')
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query arroyos: %w", err)
	}
	defer rows.Close()

	var zones []domain.HazardZone
	for rows.Next() {
		var z domain.HazardZone
		err := rows.Scan(&z.ID, &z.Name, &z.Risk, &z.ZoneID, &z.DrainageKm, &z.HasDrainage)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan arroyo row: %w", err)
		}
		zones = append(zones, z)
	}

	return zones, nil
}

// UpcomingEvents returns events that are ongoing, or scheduled and not
// yet ended, as of t
func (r *PostgresRepository) UpcomingEvents(ctx context.Context, t time.Time) ([]domain.EventRecord, error) {
	query := `
		SELECT id, title, event_type, status, starts_at, ends_at, lat, lng
		FROM city_events
		WHERE status = 'ongoing'
		   OR (status = 'scheduled' AND ends_at > $1)
		ORDER BY starts_at
		LIMIT 100
	`

	rows, err := r.pool.Query(ctx, query, t)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query events: %w", err)
	}
	defer rows.Close()

	var events []domain.EventRecord
	for rows.Next() {
		var e domain.EventRecord
		err := rows.Scan(&e.ID, &e.Title, &e.Type, &e.Status, &e.StartsAt, &e.EndsAt, &e.Latitude, &e.Longitude)
		if err != nil {
			return nil, fmt.Errorf("postgres: failed to scan event row: %w", err)
		}
		events = append(events, e)
	}

	return events, nil
}

// ZonesForRoads maps road segment ids to their zone ids; roads without
// a zone are omitted
func (r *PostgresRepository) ZonesForRoads(ctx context.Context, roadIDs []int64) (map[int64]int64, error) {
	if len(roadIDs) == 0 {
		return map[int64]int64{}, nil
	}

	query := `
		SELECT id, zone_id
		FROM road_segments
		WHERE id = ANY($1) AND zone_id IS NOT NULL
	`

	rows, err := r.pool.Query(ctx, query, roadIDs)
	if err != nil {
		return nil, fmt.Errorf("postgres: failed to query road zones: %w", err)
	}
	defer rows.Close()

	zones := make(map[int64]int64, len(roadIDs))
	for rows.Next() {
		var roadID, zoneID int64
		if err := rows.Scan(&roadID, &zoneID); err != nil {
			return nil, fmt.Errorf("postgres: failed to scan road zone row: %w", err)
		}
		zones[roadID] = zoneID
	}

	return zones, nil
}

// Health checks database connectivity
func (r *PostgresRepository) Health(ctx context.Context) error {
	if err := r.pool.Ping(ctx); err != nil {
		return fmt.Errorf("postgres: health check failed: %w", err)
	}
	return nil
}

func orderPair(x, y float64) (float64, float64) {
	if x > y {
		return y, x
	}
	return x, y
}
