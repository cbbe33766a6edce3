package stations

import (
	"encoding/json"
	"net/http"

	"github.com/kilianp07/evtol/core/charging"
)

// Source exposes the scheduler state the handler reports.
type Source interface {
	Stations() []charging.StationSnapshot
	Queue() []charging.QueueEntry
	Pending() int
	Outstanding() int
	Closed() bool
}

// Status is the body of GET /api/stations.
type Status struct {
	Stations    []charging.StationSnapshot `json:"stations"`
	Queue       []charging.QueueEntry      `json:"queue"`
	Busy        int                        `json:"busy"`
	Pending     int                        `json:"pending"`
	Outstanding int                        `json:"outstanding"`
	Closed      bool                       `json:"closed"`
}

// NewHandler returns an HTTP handler exposing charging station snapshots via
// GET /api/stations. A non-empty token is required as a bearer token.
func NewHandler(src Source, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		st := Status{
			Stations:    src.Stations(),
			Queue:       src.Queue(),
			Pending:     src.Pending(),
			Outstanding: src.Outstanding(),
			Closed:      src.Closed(),
		}
		if st.Stations == nil {
			st.Stations = []charging.StationSnapshot{}
		}
		if st.Queue == nil {
			st.Queue = []charging.QueueEntry{}
		}
		for _, s := range st.Stations {
			if s.Busy {
				st.Busy++
			}
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(st); err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
	})
}
