package domain

import "fmt"

// Barranquilla city center and service-area bounding box
const (
	BarranquillaCenterLat = 10.9685
	BarranquillaCenterLng = -74.7813

	ServiceAreaMinLat = 10.9
	ServiceAreaMaxLat = 11.1
	ServiceAreaMinLng = -74.9
	ServiceAreaMaxLng = -74.7
)

// DefaultMaxRoutes is the number of alternatives returned when the
// request does not ask for a specific count
const DefaultMaxRoutes = 3

// ValidationError marks a request rejected before any route work began
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Reason)
}

// Coordinate is a WGS84 point
type Coordinate struct {
	Lat float64 `json:"lat" validate:"required,latitude"`
	Lng float64 `json:"lng" validate:"required,longitude"`
}

// InServiceArea reports whether the point falls inside the city's
// service bounding box
func (c Coordinate) InServiceArea() bool {
	return c.Lat >= ServiceAreaMinLat && c.Lat <= ServiceAreaMaxLat &&
		c.Lng >= ServiceAreaMinLng && c.Lng <= ServiceAreaMaxLng
}

// RoutePreferences weights the caller's priorities when scoring routes
type RoutePreferences struct {
	AvoidArroyos    bool `json:"avoid_arroyos"`
	AvoidCongestion bool `json:"avoid_congestion"`
	AvoidEvents     bool `json:"avoid_events"`
	MaxRoutes       int  `json:"max_routes" validate:"omitempty,min=1,max=5"`
}

// RouteRequest asks for route alternatives between two points
type RouteRequest struct {
	Origin      Coordinate        `json:"origin" validate:"required"`
	Destination Coordinate        `json:"destination" validate:"required"`
	Preferences *RoutePreferences `json:"preferences,omitempty"`
}

// MaxRoutes returns the requested alternative count, defaulted and
// clamped to the allowed 1-5 range
func (r RouteRequest) MaxRoutes() int {
	if r.Preferences == nil || r.Preferences.MaxRoutes == 0 {
		return DefaultMaxRoutes
	}
	n := r.Preferences.MaxRoutes
	if n < 1 {
		n = 1
	}
	if n > 5 {
		n = 5
	}
	return n
}

// Validate checks the request against the service area. Structural
// validation (required fields, coordinate ranges) runs at the transport
// boundary; this covers the city-specific bounds.
func (r RouteRequest) Validate() error {
	if r.Origin == (Coordinate{}) {
		return &ValidationError{Field: "origin", Reason: "missing coordinates"}
	}
	if r.Destination == (Coordinate{}) {
		return &ValidationError{Field: "destination", Reason: "missing coordinates"}
	}
	if !r.Origin.InServiceArea() {
		return &ValidationError{Field: "origin", Reason: "outside service area"}
	}
	if !r.Destination.InServiceArea() {
		return &ValidationError{Field: "destination", Reason: "outside service area"}
	}
	return nil
}
