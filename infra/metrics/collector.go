package metrics

import (
	"context"

	"github.com/kilianp07/evtol/core/events"
	coremetrics "github.com/kilianp07/evtol/core/metrics"
	"github.com/kilianp07/evtol/internal/eventbus"
)

// StartEventCollector subscribes to the charge event bus and forwards
// events to sink when it records them. It stops when ctx is cancelled or
// the bus is closed.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.ChargeEvent], sink coremetrics.SessionSink) {
	if bus == nil || sink == nil {
		return
	}
	rec, ok := sink.(coremetrics.ChargeEventRecorder)
	if !ok {
		return
	}
	sub := bus.Subscribe()
	go func() {
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				_ = rec.RecordChargeEvent(ev)
			}
		}
	}()
}
