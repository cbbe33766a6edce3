package sessions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/kilianp07/evtol/core/report"
	"github.com/kilianp07/evtol/core/sessionlog"
)

func seededStore(t *testing.T) sessionlog.Store {
	t.Helper()
	store := sessionlog.NewMemoryStore()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	recs := []sessionlog.Record{
		{ID: "1", Kind: sessionlog.KindFlight, AircraftID: "ALPHA01", Manufacturer: "Alpha", Start: base, Hours: 1, Miles: 120},
		{ID: "2", Kind: sessionlog.KindCharge, AircraftID: "ALPHA01", Manufacturer: "Alpha", Start: base.Add(time.Hour), Hours: 0.6, Charged: true},
		{ID: "3", Kind: sessionlog.KindFlight, AircraftID: "BRAVO01", Manufacturer: "Bravo", Start: base.Add(2 * time.Hour), Hours: 0.5, Miles: 50},
	}
	for _, r := range recs {
		if err := store.Append(context.Background(), r); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	return store
}

func get(t *testing.T, h http.Handler, url, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	return rr
}

func TestHandlerAuthAndFilters(t *testing.T) {
	h := NewHandler(seededStore(t), "tok")

	if rr := get(t, h, "/api/sessions", ""); rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rr.Code)
	}

	cases := map[string][]string{
		"/api/sessions":                                {"1", "2", "3"},
		"/api/sessions?aircraft_id=ALPHA01":            {"1", "2"},
		"/api/sessions?manufacturer=Bravo":             {"3"},
		"/api/sessions?kind=charge":                    {"2"},
		"/api/sessions?start=2025-03-01T11:00:00Z":     {"2", "3"},
		"/api/sessions?end=2025-03-01T10:30:00Z":       {"1"},
		"/api/sessions?kind=flight&manufacturer=Alpha": {"1"},
		"/api/sessions?manufacturer=Charlie":           {},
	}
	for url, want := range cases {
		rr := get(t, h, url, "tok")
		if rr.Code != http.StatusOK {
			t.Fatalf("%s: status %d", url, rr.Code)
		}
		if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
			t.Fatalf("%s: content type %q", url, ct)
		}
		var out []sessionlog.Record
		if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
			t.Fatalf("%s: unmarshal: %v", url, err)
		}
		if len(out) != len(want) {
			t.Fatalf("%s: got %d records want %d", url, len(out), len(want))
		}
		for i, id := range want {
			if out[i].ID != id {
				t.Fatalf("%s: record %d is %s want %s", url, i, out[i].ID, id)
			}
		}
	}
}

func TestHandlerBadRequests(t *testing.T) {
	h := NewHandler(seededStore(t), "")
	for _, url := range []string{"/api/sessions?start=yesterday", "/api/sessions?kind=taxi"} {
		if rr := get(t, h, url, ""); rr.Code != http.StatusBadRequest {
			t.Fatalf("%s: expected 400 got %d", url, rr.Code)
		}
	}
	req := httptest.NewRequest(http.MethodPost, "/api/sessions", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)
	if rr.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405 got %d", rr.Code)
	}
}

func TestSummaryHandler(t *testing.T) {
	h := NewSummaryHandler(seededStore(t), "")
	rr := get(t, h, "/api/sessions/summary", "")
	if rr.Code != http.StatusOK {
		t.Fatalf("status %d", rr.Code)
	}
	var out []report.Summary
	if err := json.Unmarshal(rr.Body.Bytes(), &out); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(out) != 2 || out[0].Manufacturer != "Alpha" || out[0].Charges != 1 || out[1].Flights != 1 {
		t.Fatalf("unexpected summary %+v", out)
	}
}
