package metrics

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/kilianp07/evtol/core/events"
	"github.com/kilianp07/evtol/core/sessionlog"
	"github.com/kilianp07/evtol/internal/eventbus"
)

func TestPromSink_RecordSession(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	flight := sessionlog.Record{Kind: sessionlog.KindFlight, Manufacturer: "Alpha", Hours: 1, Miles: 120, PassengerMiles: 480, Faults: 0.25}
	charge := sessionlog.Record{Kind: sessionlog.KindCharge, Manufacturer: "Alpha", Hours: 0.6, WaitHours: 0.2, Charged: true}
	for _, r := range []sessionlog.Record{flight, flight, charge} {
		if err := sink.RecordSession(r); err != nil {
			t.Fatalf("record: %v", err)
		}
	}

	expected := `
# HELP evtol_sessions_total Completed sessions by kind and manufacturer
# TYPE evtol_sessions_total counter
evtol_sessions_total{kind="charge",manufacturer="Alpha"} 1
evtol_sessions_total{kind="flight",manufacturer="Alpha"} 2
`
	if err := testutil.CollectAndCompare(sink.sessions, strings.NewReader(expected)); err != nil {
		t.Errorf("unexpected metrics: %v", err)
	}
	if got := testutil.ToFloat64(sink.miles.WithLabelValues("Alpha")); got != 240 {
		t.Errorf("expected 240 miles, got %v", got)
	}
	if got := testutil.ToFloat64(sink.passengerMiles.WithLabelValues("Alpha")); got != 960 {
		t.Errorf("expected 960 passenger miles, got %v", got)
	}
	if c := testutil.CollectAndCount(sink.waits); c == 0 {
		t.Errorf("wait not recorded")
	}

	if err := sink.RecordFleetSize("Alpha", 4); err != nil {
		t.Fatalf("fleet size: %v", err)
	}
	if got := testutil.ToFloat64(sink.fleet.WithLabelValues("Alpha")); got != 4 {
		t.Errorf("expected fleet gauge 4, got %v", got)
	}
}

func TestPromSink_ReusesCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	a, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("first sink: %v", err)
	}
	b, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("second sink: %v", err)
	}
	_ = a.RecordChargeEvent(events.ChargeEvent{Kind: events.KindCharged})
	_ = b.RecordChargeEvent(events.ChargeEvent{Kind: events.KindCharged})
	if got := testutil.ToFloat64(a.chargeEvents.WithLabelValues("charged")); got != 2 {
		t.Fatalf("expected shared counter at 2, got %v", got)
	}
}

func TestEventCollectorForwardsEvents(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPromSinkWithRegistry(reg)
	if err != nil {
		t.Fatalf("create sink: %v", err)
	}
	bus := eventbus.New[events.ChargeEvent]()
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	StartEventCollector(ctx, bus, sink)
	bus.Publish(events.ChargeEvent{Kind: events.KindAdmitted})
	bus.Publish(events.ChargeEvent{Kind: events.KindDrained})

	deadline := time.Now().Add(time.Second)
	for testutil.ToFloat64(sink.chargeEvents.WithLabelValues("drained")) != 1 {
		if time.Now().After(deadline) {
			t.Fatalf("drained event not collected")
		}
		time.Sleep(5 * time.Millisecond)
	}
	if got := testutil.ToFloat64(sink.chargeEvents.WithLabelValues("admitted")); got != 1 {
		t.Fatalf("expected one admitted event, got %v", got)
	}
}
