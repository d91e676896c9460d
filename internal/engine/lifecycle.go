package engine

import (
	"time"

	"github.com/viabaq/backend/internal/domain"
)

// Lifecycle filters alert sets into views. Alerts are never mutated:
// expiry and dismissal are both expressed as exclusion from a freshly
// filtered slice.
type Lifecycle struct{}

// NewLifecycle creates an alert lifecycle manager
func NewLifecycle() *Lifecycle {
	return &Lifecycle{}
}

// ActiveAlerts returns the alerts that have not expired as of now.
// Idempotent: filtering an already-filtered set is a no-op.
func (l *Lifecycle) ActiveAlerts(alerts []domain.Alert, now time.Time) []domain.Alert {
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.ActiveAt(now) {
			out = append(out, a)
		}
	}
	return out
}

// FilterBySeverity keeps alerts at exactly the given severity
func (l *Lifecycle) FilterBySeverity(alerts []domain.Alert, severity domain.AlertSeverity) []domain.Alert {
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Severity == severity {
			out = append(out, a)
		}
	}
	return out
}

// FilterByType keeps alerts of exactly the given type
func (l *Lifecycle) FilterByType(alerts []domain.Alert, alertType domain.AlertType) []domain.Alert {
	out := make([]domain.Alert, 0, len(alerts))
	for _, a := range alerts {
		if a.Type == alertType {
			out = append(out, a)
		}
	}
	return out
}
