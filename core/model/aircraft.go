package model

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// FullBattery is the battery level of a charged aircraft in percent.
const FullBattery = 100.0

// Aircraft is one simulated eVTOL. It is safe for concurrent use.
//
// Durations returned by FlightDuration and ChargeDuration are real time:
// simulated time divided by the time scale.
type Aircraft struct {
	id        string
	maker     Manufacturer
	timeScale float64

	mu      sync.Mutex
	battery float64
	charges int
	flights int
}

// NewAircraft creates a fully charged aircraft. A timeScale <= 0 means 1.
func NewAircraft(id string, maker Manufacturer, timeScale float64) *Aircraft {
	if timeScale <= 0 {
		timeScale = 1
	}
	return &Aircraft{id: id, maker: maker, timeScale: timeScale, battery: FullBattery}
}

// SerialNumber builds the label of the n-th aircraft of a manufacturer, for
// example "ALPHA03_20250101T120000".
func SerialNumber(manufacturer string, n int, at time.Time) string {
	name := strings.ToUpper(strings.ReplaceAll(manufacturer, " ", ""))
	return fmt.Sprintf("%s%02d_%s", name, n, at.UTC().Format("20060102T150405"))
}

func (a *Aircraft) Label() string              { return a.id }
func (a *Aircraft) Manufacturer() Manufacturer { return a.maker }

// FlightDuration is the scaled time a full battery lasts.
func (a *Aircraft) FlightDuration() time.Duration { return a.scale(a.maker.FlightTime()) }

// ChargeDuration is the scaled time the aircraft occupies a charger.
func (a *Aircraft) ChargeDuration() time.Duration { return a.scale(a.maker.ChargeTime()) }

// SimulatedHours converts a real duration back to simulated hours.
func (a *Aircraft) SimulatedHours(d time.Duration) float64 {
	return d.Hours() * a.timeScale
}

// Fly drains the battery by the share used over d of real time and returns
// the simulated flight statistics.
func (a *Aircraft) Fly(d time.Duration) FlightStats {
	h := a.SimulatedHours(d)
	used := 0.0
	if fh := a.maker.FlightHours(); fh > 0 {
		used = h / fh * FullBattery
	}
	a.mu.Lock()
	a.battery -= used
	if a.battery < 0 {
		a.battery = 0
	}
	a.flights++
	a.mu.Unlock()
	return a.maker.Stats(h)
}

// Recharge restores a full battery.
func (a *Aircraft) Recharge() {
	a.mu.Lock()
	a.battery = FullBattery
	a.charges++
	a.mu.Unlock()
}

func (a *Aircraft) BatteryLevel() float64 {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.battery
}

// Counts returns the number of completed flights and charges.
func (a *Aircraft) Counts() (flights, charges int) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.flights, a.charges
}

func (a *Aircraft) scale(d time.Duration) time.Duration {
	return time.Duration(float64(d) / a.timeScale)
}
