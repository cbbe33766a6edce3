package charging

import (
	"fmt"
	"sync"
	"time"
)

// StationState is the lifecycle state of one charging station.
type StationState int32

const (
	StationIdle StationState = iota
	StationAssigned
	StationCharging
	StationPublishing
	StationRetired
)

var stationStateNames = [...]string{
	StationIdle:       "idle",
	StationAssigned:   "assigned",
	StationCharging:   "charging",
	StationPublishing: "publishing",
	StationRetired:    "retired",
}

func (s StationState) String() string {
	if s < 0 || int(s) >= len(stationStateNames) {
		return fmt.Sprintf("StationState(%d)", int32(s))
	}
	return stationStateNames[s]
}

// MarshalText renders the state by name in JSON responses.
func (s StationState) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

// StationSnapshot is a point-in-time copy of a station's bookkeeping.
type StationSnapshot struct {
	ID         int          `json:"id"`
	State      StationState `json:"state"`
	Busy       bool         `json:"busy"`
	Ticket     Ticket       `json:"ticket,omitempty"`
	AircraftID string       `json:"aircraft_id,omitempty"`
	Since      time.Time    `json:"since"`
	Charges    uint64       `json:"charges"`
}

type station struct {
	id int

	mu       sync.Mutex
	state    StationState
	busy     bool
	ticket   Ticket
	aircraft string
	since    time.Time
	charges  uint64
}

func newStation(id int) *station {
	return &station{id: id, state: StationIdle, since: time.Now()}
}

func (st *station) assign(t Ticket, label string, at time.Time) {
	st.mu.Lock()
	st.state = StationAssigned
	st.busy = true
	st.ticket = t
	st.aircraft = label
	st.since = at
	st.mu.Unlock()
}

func (st *station) setState(s StationState) {
	st.mu.Lock()
	st.state = s
	st.since = time.Now()
	st.mu.Unlock()
}

func (st *station) release() {
	st.mu.Lock()
	st.state = StationIdle
	st.busy = false
	st.ticket = NoTicket
	st.aircraft = ""
	st.since = time.Now()
	st.charges++
	st.mu.Unlock()
}

func (st *station) retire() {
	st.mu.Lock()
	st.state = StationRetired
	st.busy = false
	st.since = time.Now()
	st.mu.Unlock()
}

func (st *station) snapshot() StationSnapshot {
	st.mu.Lock()
	defer st.mu.Unlock()
	return StationSnapshot{
		ID:         st.id,
		State:      st.state,
		Busy:       st.busy,
		Ticket:     st.ticket,
		AircraftID: st.aircraft,
		Since:      st.since,
		Charges:    st.charges,
	}
}
