package domain

import "time"

// EventStatus is the lifecycle state of a city event
type EventStatus string

const (
	EventScheduled EventStatus = "scheduled"
	EventOngoing   EventStatus = "ongoing"
	EventCompleted EventStatus = "completed"
	EventCancelled EventStatus = "cancelled"
)

// EventRecord is a city event (concert, match, parade) that can affect
// traffic around its location
type EventRecord struct {
	ID        int64       `json:"id"`
	Title     string      `json:"title"`
	Type      string      `json:"type"`
	Status    EventStatus `json:"status"`
	StartsAt  time.Time   `json:"starts_at"`
	EndsAt    time.Time   `json:"ends_at"`
	Latitude  float64     `json:"lat"`
	Longitude float64     `json:"lng"`
}

// IsRelevantAt reports whether the event should influence decisions at t:
// ongoing, or scheduled and not yet ended.
func (e EventRecord) IsRelevantAt(t time.Time) bool {
	switch e.Status {
	case EventOngoing:
		return true
	case EventScheduled:
		return e.EndsAt.After(t)
	default:
		return false
	}
}
