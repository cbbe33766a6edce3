package sessionlog

import (
	"context"
	"time"
)

// Kind distinguishes flight sessions from charge sessions.
type Kind string

const (
	KindFlight Kind = "flight"
	KindCharge Kind = "charge"
)

// Record captures one flight or charge session of an aircraft. Hours and
// WaitHours are simulated time; Start and End are wall-clock timestamps.
type Record struct {
	ID             string    `json:"id"`
	Kind           Kind      `json:"kind"`
	AircraftID     string    `json:"aircraft_id"`
	Manufacturer   string    `json:"manufacturer"`
	Start          time.Time `json:"start"`
	End            time.Time `json:"end"`
	Hours          float64   `json:"hours"`
	Miles          float64   `json:"miles,omitempty"`
	Faults         float64   `json:"faults,omitempty"`
	PassengerMiles float64   `json:"passenger_miles,omitempty"`
	Ticket         uint64    `json:"ticket,omitempty"`
	StationID      int       `json:"station_id,omitempty"`
	WaitHours      float64   `json:"wait_hours,omitempty"`
	Charged        bool      `json:"charged,omitempty"`
}

// Query defines filters for retrieving records. Zero fields match all.
type Query struct {
	Start        time.Time
	End          time.Time
	AircraftID   string
	Manufacturer string
	Kind         Kind
}

// Matches reports whether r passes every filter of q. Time bounds apply to
// the session start and are inclusive.
func (q Query) Matches(r Record) bool {
	if !q.Start.IsZero() && r.Start.Before(q.Start) {
		return false
	}
	if !q.End.IsZero() && r.Start.After(q.End) {
		return false
	}
	if q.Kind != "" && r.Kind != q.Kind {
		return false
	}
	if q.AircraftID != "" && r.AircraftID != q.AircraftID {
		return false
	}
	if q.Manufacturer != "" && r.Manufacturer != q.Manufacturer {
		return false
	}
	return true
}

// Store persists Records and supports querying.
type Store interface {
	Append(ctx context.Context, rec Record) error
	Query(ctx context.Context, q Query) ([]Record, error)
	Close() error
}
