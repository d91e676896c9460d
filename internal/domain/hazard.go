package domain

// RiskLevel is the flood/drainage risk assigned to a hazard zone
type RiskLevel string

const (
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// HazardZone is an arroyo: a street or area that floods during rain.
// ZoneID links it to the administrative zone it runs through, when known.
type HazardZone struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Risk        RiskLevel `json:"risk_level"`
	ZoneID      *int64    `json:"zone_id,omitempty"`
	DrainageKm  float64   `json:"drainage_km,omitempty"`
	HasDrainage bool      `json:"has_drainage"`
}

// IsHighRisk reports whether the zone is in the high or critical band
func (h HazardZone) IsHighRisk() bool {
	return h.Risk == RiskHigh || h.Risk == RiskCritical
}
