package metrics

import (
	"github.com/kilianp07/evtol/core/events"
	"github.com/kilianp07/evtol/core/sessionlog"
)

// SessionSink records completed sessions for observability purposes.
type SessionSink interface {
	RecordSession(rec sessionlog.Record) error
}

// ChargeEventRecorder is implemented by sinks that track scheduler events.
type ChargeEventRecorder interface {
	RecordChargeEvent(ev events.ChargeEvent) error
}

// FleetSizeRecorder records the number of aircraft per manufacturer.
type FleetSizeRecorder interface {
	RecordFleetSize(manufacturer string, size int) error
}

// NopSink discards everything.
type NopSink struct{}

func (NopSink) RecordSession(sessionlog.Record) error      { return nil }
func (NopSink) RecordChargeEvent(events.ChargeEvent) error { return nil }
func (NopSink) RecordFleetSize(string, int) error          { return nil }

// MultiSink fans records out to several sinks.
type MultiSink struct {
	Sinks []SessionSink
}

// NewMultiSink creates a MultiSink with the provided sinks.
func NewMultiSink(sinks ...SessionSink) *MultiSink {
	return &MultiSink{Sinks: sinks}
}

// RecordSession forwards the record to all sinks, returning the first error encountered.
func (m *MultiSink) RecordSession(rec sessionlog.Record) error {
	for _, s := range m.Sinks {
		if err := s.RecordSession(rec); err != nil {
			return err
		}
	}
	return nil
}

// RecordChargeEvent forwards the event to sinks that support it.
func (m *MultiSink) RecordChargeEvent(ev events.ChargeEvent) error {
	for _, s := range m.Sinks {
		if r, ok := s.(ChargeEventRecorder); ok {
			if err := r.RecordChargeEvent(ev); err != nil {
				return err
			}
		}
	}
	return nil
}

// RecordFleetSize forwards fleet sizes to sinks that support it.
func (m *MultiSink) RecordFleetSize(manufacturer string, size int) error {
	for _, s := range m.Sinks {
		if r, ok := s.(FleetSizeRecorder); ok {
			if err := r.RecordFleetSize(manufacturer, size); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close closes every sink that holds resources.
func (m *MultiSink) Close() {
	for _, s := range m.Sinks {
		if c, ok := s.(interface{ Close() }); ok {
			c.Close()
		}
	}
}
