package domain

import "encoding/json"

// CongestionLevel is the categorical traffic state of a road segment,
// ordered low < moderate < high < severe.
type CongestionLevel string

const (
	CongestionLow      CongestionLevel = "low"
	CongestionModerate CongestionLevel = "moderate"
	CongestionHigh     CongestionLevel = "high"
	CongestionSevere   CongestionLevel = "severe"
)

// RoadClass categorizes a segment by road hierarchy
type RoadClass string

const (
	RoadHighway RoadClass = "highway"
	RoadAvenue  RoadClass = "avenue"
	RoadStreet  RoadClass = "street"
	RoadLocal   RoadClass = "local"
)

// RoadSegment is a live traffic snapshot of one stretch of road.
// Segments are read fresh from the feed on each request and never
// mutated by the engine.
type RoadSegment struct {
	ID              int64           `json:"id"`
	Name            string          `json:"name"`
	Class           RoadClass       `json:"road_class"`
	Lanes           int             `json:"lanes"`
	MaxSpeedKmh     float64         `json:"max_speed_kmh"`
	LengthKm        float64         `json:"length_km"`
	CurrentSpeedKmh float64         `json:"current_speed_kmh"`
	Congestion      CongestionLevel `json:"congestion_level"`
	ZoneID          *int64          `json:"zone_id,omitempty"`
	Geometry        json.RawMessage `json:"geometry,omitempty"`
}

// RouteSegment is a RoadSegment annotated with its computed travel time
// for inclusion in a route
type RouteSegment struct {
	RoadSegment
	TravelTimeMin float64 `json:"travel_time_min"`
}

// ScoreBreakdown holds the four 0-100 sub-scores behind a composite score
type ScoreBreakdown struct {
	Traffic  float64 `json:"traffic"`
	Weather  float64 `json:"weather"`
	Safety   float64 `json:"safety"`
	Distance float64 `json:"distance"`
}

// RouteFlags carries scoring metadata surfaced alongside a route
type RouteFlags struct {
	WeatherAffected   bool `json:"weather_affected"`
	ArroyoRiskNearby  bool `json:"arroyo_risk_nearby"`
	EventNearby       bool `json:"event_nearby"`
	CongestedSegments int  `json:"congested_segments"`
}

// Route is an ordered traversal of road segments with aggregate metrics.
// Score and Breakdown are zero until the route has been scored.
type Route struct {
	Segments        []RouteSegment `json:"segments"`
	TotalDistanceKm float64        `json:"total_distance_km"`
	TotalTimeMin    float64        `json:"total_time_min"`
	AvgSpeedKmh     float64        `json:"avg_speed_kmh"`
	Score           float64        `json:"score"`
	Breakdown       ScoreBreakdown `json:"score_breakdown"`
	Warnings        []string       `json:"warnings"`
	Flags           RouteFlags     `json:"flags"`
}

// SegmentIDs returns the ids of the route's segments in traversal order
func (r Route) SegmentIDs() []int64 {
	ids := make([]int64, len(r.Segments))
	for i, s := range r.Segments {
		ids[i] = s.ID
	}
	return ids
}
