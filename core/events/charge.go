package events

import "time"

// Kind identifies a step in the life of a charge request.
type Kind string

const (
	KindAdmitted Kind = "admitted"
	KindAssigned Kind = "assigned"
	KindCharged  Kind = "charged"
	KindDrained  Kind = "drained"
)

// ChargeEvent is published by the charging scheduler at each transition.
// StationID is zero for events not tied to a station.
type ChargeEvent struct {
	Kind       Kind      `json:"kind"`
	Ticket     uint64    `json:"ticket"`
	StationID  int       `json:"station_id,omitempty"`
	AircraftID string    `json:"aircraft_id"`
	Time       time.Time `json:"time"`
}

// Publisher accepts charge events. *eventbus.Bus[ChargeEvent] satisfies it.
type Publisher interface {
	Publish(ChargeEvent)
}
