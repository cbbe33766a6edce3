package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/kilianp07/evtol/core/events"
	"github.com/kilianp07/evtol/core/sessionlog"
)

// PromSink records sessions and scheduler events in Prometheus metrics.
type PromSink struct {
	sessions       *prometheus.CounterVec
	hours          *prometheus.HistogramVec
	miles          *prometheus.CounterVec
	passengerMiles *prometheus.CounterVec
	faults         *prometheus.CounterVec
	waits          *prometheus.HistogramVec
	chargeEvents   *prometheus.CounterVec
	fleet          *prometheus.GaugeVec
}

// NewPromSink registers session metrics on the default Prometheus registerer.
// The /metrics endpoint is served separately, see Serve.
func NewPromSink() (*PromSink, error) {
	return NewPromSinkWithRegistry(prometheus.DefaultRegisterer)
}

// NewPromSinkWithRegistry registers metrics on the provided registerer.
// A nil registerer defaults to the global Prometheus registerer. Collectors
// already registered by an earlier sink are reused.
func NewPromSinkWithRegistry(reg prometheus.Registerer) (*PromSink, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	s := &PromSink{
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evtol_sessions_total",
			Help: "Completed sessions by kind and manufacturer",
		}, []string{"kind", "manufacturer"}),
		hours: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evtol_session_hours",
			Help:    "Simulated length of sessions in hours",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 4, 8},
		}, []string{"kind", "manufacturer"}),
		miles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evtol_flight_miles_total",
			Help: "Miles flown",
		}, []string{"manufacturer"}),
		passengerMiles: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evtol_passenger_miles_total",
			Help: "Passenger miles flown",
		}, []string{"manufacturer"}),
		faults: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evtol_faults_total",
			Help: "Expected faults accumulated in flight",
		}, []string{"manufacturer"}),
		waits: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "evtol_charge_wait_hours",
			Help:    "Simulated time spent queued for a charger",
			Buckets: []float64{0, 0.1, 0.25, 0.5, 1, 2, 4},
		}, []string{"manufacturer"}),
		chargeEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "evtol_charge_events_total",
			Help: "Charging scheduler lifecycle events",
		}, []string{"kind"}),
		fleet: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "evtol_fleet_size",
			Help: "Aircraft per manufacturer",
		}, []string{"manufacturer"}),
	}
	var err error
	if s.sessions, err = register(reg, s.sessions); err != nil {
		return nil, err
	}
	if s.hours, err = register(reg, s.hours); err != nil {
		return nil, err
	}
	if s.miles, err = register(reg, s.miles); err != nil {
		return nil, err
	}
	if s.passengerMiles, err = register(reg, s.passengerMiles); err != nil {
		return nil, err
	}
	if s.faults, err = register(reg, s.faults); err != nil {
		return nil, err
	}
	if s.waits, err = register(reg, s.waits); err != nil {
		return nil, err
	}
	if s.chargeEvents, err = register(reg, s.chargeEvents); err != nil {
		return nil, err
	}
	if s.fleet, err = register(reg, s.fleet); err != nil {
		return nil, err
	}
	return s, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, c C) (C, error) {
	if err := reg.Register(c); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return c, err
	}
	return c, nil
}

// RecordSession updates the counters for one session.
func (s *PromSink) RecordSession(rec sessionlog.Record) error {
	kind := string(rec.Kind)
	s.sessions.WithLabelValues(kind, rec.Manufacturer).Inc()
	s.hours.WithLabelValues(kind, rec.Manufacturer).Observe(rec.Hours)
	switch rec.Kind {
	case sessionlog.KindFlight:
		s.miles.WithLabelValues(rec.Manufacturer).Add(rec.Miles)
		s.passengerMiles.WithLabelValues(rec.Manufacturer).Add(rec.PassengerMiles)
		s.faults.WithLabelValues(rec.Manufacturer).Add(rec.Faults)
	case sessionlog.KindCharge:
		s.waits.WithLabelValues(rec.Manufacturer).Observe(rec.WaitHours)
	}
	return nil
}

// RecordChargeEvent counts scheduler events by kind.
func (s *PromSink) RecordChargeEvent(ev events.ChargeEvent) error {
	s.chargeEvents.WithLabelValues(string(ev.Kind)).Inc()
	return nil
}

// RecordFleetSize sets the fleet gauge for a manufacturer.
func (s *PromSink) RecordFleetSize(manufacturer string, size int) error {
	s.fleet.WithLabelValues(manufacturer).Set(float64(size))
	return nil
}
