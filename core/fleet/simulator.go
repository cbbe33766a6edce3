package fleet

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/kilianp07/evtol/core/charging"
	"github.com/kilianp07/evtol/core/logger"
	"github.com/kilianp07/evtol/core/metrics"
	"github.com/kilianp07/evtol/core/model"
	"github.com/kilianp07/evtol/core/monitoring"
	"github.com/kilianp07/evtol/core/sessionlog"
)

// Scheduler is the charging scheduler the fleet queues on.
type Scheduler = charging.Scheduler[*model.Aircraft]

// Options configures a Simulator.
type Options struct {
	// Stations is passed to Scheduler.Initialize when Run starts.
	Stations int
	Store    sessionlog.Store
	Sink     metrics.SessionSink
	Logger   logger.Logger
}

// Simulator flies a fleet and sends it to charge when the battery is empty.
type Simulator struct {
	sched    *Scheduler
	fleet    []*model.Aircraft
	stations int
	store    sessionlog.Store
	sink     metrics.SessionSink
	log      logger.Logger
}

// NewSimulator returns a simulator for fleet. Store and Sink are optional.
func NewSimulator(sched *Scheduler, fleet []*model.Aircraft, opts Options) *Simulator {
	sink := opts.Sink
	if sink == nil {
		sink = metrics.NopSink{}
	}
	return &Simulator{
		sched:    sched,
		fleet:    fleet,
		stations: opts.Stations,
		store:    opts.Store,
		sink:     sink,
		log:      logger.OrNop(opts.Logger),
	}
}

// Fleet returns the simulated aircraft.
func (s *Simulator) Fleet() []*model.Aircraft { return s.fleet }

// Run starts the scheduler and one goroutine per aircraft, then blocks until
// ctx is done. It shuts the scheduler down and returns once every aircraft
// goroutine has exited.
func (s *Simulator) Run(ctx context.Context) error {
	if err := s.sched.Initialize(s.stations); err != nil {
		return fmt.Errorf("initialize scheduler: %w", err)
	}
	s.recordFleetSizes()

	var wg sync.WaitGroup
	for _, a := range s.fleet {
		wg.Add(1)
		go func(a *model.Aircraft) {
			defer wg.Done()
			tags := map[string]string{"module": "fleet", "aircraft_id": a.Label()}
			if err := monitoring.Guard(tags, func() { s.fly(ctx, a) }); err != nil {
				s.log.Errorf("aircraft %s stopped: %v", a.Label(), err)
			}
		}(a)
	}
	s.log.Infof("fleet of %d aircraft airborne", len(s.fleet))

	<-ctx.Done()
	s.sched.BeginShutdown()
	s.sched.Shutdown()
	wg.Wait()
	s.log.Infof("fleet landed")
	return nil
}

func (s *Simulator) fly(ctx context.Context, a *model.Aircraft) {
	for {
		start := time.Now()
		d := time.Duration(float64(a.FlightDuration()) * a.BatteryLevel() / model.FullBattery)
		if d <= 0 {
			return
		}
		timer := time.NewTimer(d)
		select {
		case <-ctx.Done():
			timer.Stop()
			s.recordFlight(ctx, a, start, time.Now())
			return
		case <-timer.C:
		}
		s.recordFlight(ctx, a, start, time.Now())

		res, err := s.sched.SubmitAndAwait(a)
		if err != nil {
			if !errors.Is(err, charging.ErrShutdown) {
				s.log.Errorf("aircraft %s: charge request: %v", a.Label(), err)
			}
			return
		}
		s.recordCharge(ctx, a, res)
		if !res.Charged {
			return
		}
	}
}

func (s *Simulator) recordFlight(ctx context.Context, a *model.Aircraft, start, end time.Time) {
	stats := a.Fly(end.Sub(start))
	s.record(ctx, sessionlog.Record{
		Kind:           sessionlog.KindFlight,
		AircraftID:     a.Label(),
		Manufacturer:   a.Manufacturer().Name,
		Start:          start,
		End:            end,
		Hours:          stats.Hours,
		Miles:          stats.Miles,
		Faults:         stats.Faults,
		PassengerMiles: stats.PassengerMiles,
	})
}

func (s *Simulator) recordCharge(ctx context.Context, a *model.Aircraft, res charging.Result[*model.Aircraft]) {
	start := res.Started
	if start.IsZero() {
		start = res.Submitted
	}
	s.record(ctx, sessionlog.Record{
		Kind:         sessionlog.KindCharge,
		AircraftID:   a.Label(),
		Manufacturer: a.Manufacturer().Name,
		Start:        start,
		End:          res.Finished,
		Hours:        a.SimulatedHours(res.ChargeTime()),
		Ticket:       uint64(res.Ticket),
		StationID:    res.StationID,
		WaitHours:    a.SimulatedHours(res.Wait()),
		Charged:      res.Charged,
	})
}

func (s *Simulator) record(ctx context.Context, rec sessionlog.Record) {
	rec.ID = sessionlog.NewID()
	// sessions finishing during shutdown are still persisted
	ctx = context.WithoutCancel(ctx)
	if s.store != nil {
		if err := s.store.Append(ctx, rec); err != nil {
			s.log.Errorf("store %s session of %s: %v", rec.Kind, rec.AircraftID, err)
			monitoring.CaptureException(err, map[string]string{"module": "fleet", "aircraft_id": rec.AircraftID})
		}
	}
	if err := s.sink.RecordSession(rec); err != nil {
		s.log.Warnf("sink %s session of %s: %v", rec.Kind, rec.AircraftID, err)
	}
	s.log.Debugw("session", map[string]any{
		"kind":     string(rec.Kind),
		"aircraft": rec.AircraftID,
		"hours":    rec.Hours,
	})
}

func (s *Simulator) recordFleetSizes() {
	r, ok := s.sink.(metrics.FleetSizeRecorder)
	if !ok {
		return
	}
	sizes := make(map[string]int)
	var order []string
	for _, a := range s.fleet {
		name := a.Manufacturer().Name
		if _, ok := sizes[name]; !ok {
			order = append(order, name)
		}
		sizes[name]++
	}
	for _, name := range order {
		if err := r.RecordFleetSize(name, sizes[name]); err != nil {
			s.log.Warnf("record fleet size for %s: %v", name, err)
		}
	}
}
