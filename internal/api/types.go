package api

import (
	"github.com/vitalsalud/agenda/internal/booking"
	"github.com/vitalsalud/agenda/internal/calendar"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// EventsResponse is the calendar feed payload.
type EventsResponse struct {
	Events []calendar.Event `json:"events"`
}

// DoctorCardsResponse carries the booking picker. Stale marks a cache
// fallback so the UI can show a "data may be outdated" indicator.
type DoctorCardsResponse struct {
	Doctors []booking.DoctorCard `json:"doctors"`
	Stale   bool                 `json:"stale"`
	Warning string               `json:"warning,omitempty"`
}

// DraftResponse wraps the stored booking selection; Selection is null when
// nothing is stored.
type DraftResponse struct {
	Selection *booking.Selection `json:"selection"`
}
