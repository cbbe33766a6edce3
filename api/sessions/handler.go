package sessions

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/kilianp07/evtol/core/report"
	"github.com/kilianp07/evtol/core/sessionlog"
)

// NewHandler returns an HTTP handler exposing logged sessions via
// GET /api/sessions. Requests must include an Authorization header with
// "Bearer <token>" when token is non-empty.
//
// Supported filters: start, end (RFC3339), aircraft_id, manufacturer and
// kind (flight|charge).
func NewHandler(store sessionlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recs, ok := query(w, r, store, token)
		if !ok {
			return
		}
		if recs == nil {
			recs = []sessionlog.Record{}
		}
		writeJSON(w, recs)
	})
}

// NewSummaryHandler serves the per-manufacturer report of the sessions
// matching the same filters via GET /api/sessions/summary.
func NewSummaryHandler(store sessionlog.Store, token string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		recs, ok := query(w, r, store, token)
		if !ok {
			return
		}
		writeJSON(w, report.Build(recs))
	})
}

func query(w http.ResponseWriter, r *http.Request, store sessionlog.Store, token string) ([]sessionlog.Record, bool) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return nil, false
	}
	if token != "" && r.Header.Get("Authorization") != "Bearer "+token {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	q, err := parseQuery(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return nil, false
	}
	recs, err := store.Query(r.Context(), q)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return recs, true
}

func parseQuery(r *http.Request) (sessionlog.Query, error) {
	v := r.URL.Query()
	q := sessionlog.Query{
		AircraftID:   v.Get("aircraft_id"),
		Manufacturer: v.Get("manufacturer"),
	}
	for name, dst := range map[string]*time.Time{"start": &q.Start, "end": &q.End} {
		s := v.Get(name)
		if s == "" {
			continue
		}
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return q, fmt.Errorf("invalid %s: %w", name, err)
		}
		*dst = t
	}
	switch k := sessionlog.Kind(v.Get("kind")); k {
	case "", sessionlog.KindFlight, sessionlog.KindCharge:
		q.Kind = k
	default:
		return q, fmt.Errorf("invalid kind %q", k)
	}
	return q, nil
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}
