package domain

import (
	"context"
	"time"
)

// SnapshotRepository supplies the live input snapshots the decision
// engine consumes. The domain defines the interface; postgres and mock
// implementations live in the repository package.
type SnapshotRepository interface {
	// SegmentsInBoundingBox returns current road segments within the
	// rectangle spanned by the two points, expanded by marginKm.
	SegmentsInBoundingBox(ctx context.Context, a, b Coordinate, marginKm float64) ([]RoadSegment, error)

	// HighRiskZones returns hazard zones currently at high or critical risk
	HighRiskZones(ctx context.Context) ([]HazardZone, error)

	// UpcomingEvents returns events that are ongoing, or scheduled and
	// not yet ended, as of t
	UpcomingEvents(ctx context.Context, t time.Time) ([]EventRecord, error)

	// ZonesForRoads maps road segment ids to their administrative zone
	// ids; roads without a zone are omitted from the result.
	ZonesForRoads(ctx context.Context, roadIDs []int64) (map[int64]int64, error)

	// Health checks connectivity to the backing store
	Health(ctx context.Context) error
}
