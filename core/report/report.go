// Package report summarises logged sessions per manufacturer.
package report

import (
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/kilianp07/evtol/core/sessionlog"
)

// Summary holds the statistics of one manufacturer. Hour figures are
// simulated time.
type Summary struct {
	Manufacturer        string  `json:"manufacturer"`
	Aircraft            int     `json:"aircraft"`
	Flights             int     `json:"flights"`
	Charges             int     `json:"charges"`
	Drained             int     `json:"drained"`
	MeanFlightHours     float64 `json:"mean_flight_hours"`
	StdDevFlightHours   float64 `json:"stddev_flight_hours"`
	MeanMilesPerFlight  float64 `json:"mean_miles_per_flight"`
	MeanChargeHours     float64 `json:"mean_charge_hours"`
	StdDevChargeHours   float64 `json:"stddev_charge_hours"`
	MeanWaitHours       float64 `json:"mean_wait_hours"`
	TotalFlightHours    float64 `json:"total_flight_hours"`
	TotalMiles          float64 `json:"total_miles"`
	TotalFaults         float64 `json:"total_faults"`
	TotalPassengerMiles float64 `json:"total_passenger_miles"`
}

type samples struct {
	aircraft       map[string]struct{}
	flightHours    []float64
	miles          []float64
	faults         []float64
	passengerMiles []float64
	chargeHours    []float64
	waitHours      []float64
	drained        int
}

// Build computes one Summary per manufacturer, sorted by name. Charge
// sessions that ended without charging only count as Drained.
func Build(recs []sessionlog.Record) []Summary {
	groups := make(map[string]*samples)
	for _, r := range recs {
		g, ok := groups[r.Manufacturer]
		if !ok {
			g = &samples{aircraft: make(map[string]struct{})}
			groups[r.Manufacturer] = g
		}
		g.aircraft[r.AircraftID] = struct{}{}
		switch r.Kind {
		case sessionlog.KindFlight:
			g.flightHours = append(g.flightHours, r.Hours)
			g.miles = append(g.miles, r.Miles)
			g.faults = append(g.faults, r.Faults)
			g.passengerMiles = append(g.passengerMiles, r.PassengerMiles)
		case sessionlog.KindCharge:
			if !r.Charged {
				g.drained++
				continue
			}
			g.chargeHours = append(g.chargeHours, r.Hours)
			g.waitHours = append(g.waitHours, r.WaitHours)
		}
	}

	out := make([]Summary, 0, len(groups))
	for name, g := range groups {
		s := Summary{
			Manufacturer:        name,
			Aircraft:            len(g.aircraft),
			Flights:             len(g.flightHours),
			Charges:             len(g.chargeHours),
			Drained:             g.drained,
			TotalFlightHours:    floats.Sum(g.flightHours),
			TotalMiles:          floats.Sum(g.miles),
			TotalFaults:         floats.Sum(g.faults),
			TotalPassengerMiles: floats.Sum(g.passengerMiles),
			MeanMilesPerFlight:  mean(g.miles),
			MeanWaitHours:       mean(g.waitHours),
		}
		s.MeanFlightHours, s.StdDevFlightHours = meanStdDev(g.flightHours)
		s.MeanChargeHours, s.StdDevChargeHours = meanStdDev(g.chargeHours)
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Manufacturer < out[j].Manufacturer })
	return out
}

// Total folds summaries into a fleet-wide one named "total". Means are
// weighted by session counts.
func Total(sums []Summary) Summary {
	t := Summary{Manufacturer: "total"}
	var flightW, chargeW []float64
	var flightMeans, milesMeans, chargeMeans, waitMeans []float64
	for _, s := range sums {
		t.Aircraft += s.Aircraft
		t.Flights += s.Flights
		t.Charges += s.Charges
		t.Drained += s.Drained
		t.TotalFlightHours += s.TotalFlightHours
		t.TotalMiles += s.TotalMiles
		t.TotalFaults += s.TotalFaults
		t.TotalPassengerMiles += s.TotalPassengerMiles
		if s.Flights > 0 {
			flightW = append(flightW, float64(s.Flights))
			flightMeans = append(flightMeans, s.MeanFlightHours)
			milesMeans = append(milesMeans, s.MeanMilesPerFlight)
		}
		if s.Charges > 0 {
			chargeW = append(chargeW, float64(s.Charges))
			chargeMeans = append(chargeMeans, s.MeanChargeHours)
			waitMeans = append(waitMeans, s.MeanWaitHours)
		}
	}
	if len(flightW) > 0 {
		t.MeanFlightHours = stat.Mean(flightMeans, flightW)
		t.MeanMilesPerFlight = stat.Mean(milesMeans, flightW)
	}
	if len(chargeW) > 0 {
		t.MeanChargeHours = stat.Mean(chargeMeans, chargeW)
		t.MeanWaitHours = stat.Mean(waitMeans, chargeW)
	}
	return t
}

func mean(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return stat.Mean(x, nil)
}

// meanStdDev returns zeros for empty input and a zero deviation for a
// single sample.
func meanStdDev(x []float64) (float64, float64) {
	switch len(x) {
	case 0:
		return 0, 0
	case 1:
		return x[0], 0
	}
	return stat.MeanStdDev(x, nil)
}
