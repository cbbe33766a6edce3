package app

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/evtol/api/sessions"
	"github.com/kilianp07/evtol/api/stations"
	"github.com/kilianp07/evtol/config"
	"github.com/kilianp07/evtol/core/charging"
	"github.com/kilianp07/evtol/core/events"
	"github.com/kilianp07/evtol/core/fleet"
	coremetrics "github.com/kilianp07/evtol/core/metrics"
	"github.com/kilianp07/evtol/core/model"
	coremon "github.com/kilianp07/evtol/core/monitoring"
	"github.com/kilianp07/evtol/core/sessionlog"
	"github.com/kilianp07/evtol/infra/logger"
	"github.com/kilianp07/evtol/infra/metrics"
	"github.com/kilianp07/evtol/infra/monitoring"
	"github.com/kilianp07/evtol/infra/mqtt"
	"github.com/kilianp07/evtol/internal/eventbus"
)

// Service wires the fleet simulation, the charging scheduler and their
// outputs together.
type Service struct {
	Store     sessionlog.Store
	Sink      coremetrics.SessionSink
	Scheduler *fleet.Scheduler
	Simulator *fleet.Simulator

	cfg       *config.Config
	bus       *eventbus.Bus[events.ChargeEvent]
	publisher *mqtt.EventPublisher
	log       logger.Logger
}

// New creates a Service from the configuration.
func New(cfg *config.Config) (*Service, error) {
	logg := logger.New("service")

	mon, err := monitoring.NewSentryMonitor(cfg.Sentry)
	if err != nil {
		return nil, err
	}
	coremon.Init(mon)

	makers, err := fleet.LoadManufacturers(cfg.Simulation.ManufacturersFile)
	if err != nil {
		return nil, err
	}
	store, err := sessionlog.Open(cfg.Logging.StoreOptions())
	if err != nil {
		return nil, fmt.Errorf("session store: %w", err)
	}
	sink, err := coremetrics.NewSessionSink(cfg.Metrics.Sinks)
	if err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("metrics sinks: %w", err)
	}

	svc := &Service{Store: store, Sink: sink, cfg: cfg, log: logg}
	if cfg.MQTT.Enabled {
		pub, err := mqtt.NewEventPublisher(cfg.MQTT)
		if err != nil {
			closeSink(sink)
			_ = store.Close()
			return nil, fmt.Errorf("mqtt publisher: %w", err)
		}
		svc.publisher = pub
	}

	seed := cfg.Simulation.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	counts := fleet.AssignCapacity(cfg.Simulation.Aircraft, len(makers), rand.New(rand.NewSource(seed)))
	aircraft := fleet.Build(makers, counts, cfg.Simulation.TimeScale, time.Now())
	for i, m := range makers {
		logg.Infof("%s: %d aircraft", m.Name, counts[i])
	}

	svc.bus = eventbus.New[events.ChargeEvent]()
	svc.Scheduler = charging.New[*model.Aircraft](charging.Options{
		Logger: logger.New("charging"),
		Events: svc.bus,
	})
	svc.Simulator = fleet.NewSimulator(svc.Scheduler, aircraft, fleet.Options{
		Stations: cfg.Charging.Stations,
		Store:    store,
		Sink:     sink,
		Logger:   logger.New("fleet"),
	})
	return svc, nil
}

// Run simulates for the configured duration or until ctx is cancelled,
// serving metrics and the API meanwhile.
func (s *Service) Run(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Simulation.Duration)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)
	metrics.StartEventCollector(gctx, s.bus, s.Sink)
	if s.publisher != nil {
		g.Go(func() error {
			s.publisher.Forward(gctx, s.bus)
			return nil
		})
	}
	switch {
	case s.cfg.API.Enabled:
		mux := s.Handler()
		g.Go(func() error { return metrics.Serve(gctx, s.cfg.API.Addr, mux) })
	case s.cfg.Metrics.PrometheusAddr != "":
		g.Go(func() error { return metrics.StartPromServer(gctx, s.cfg.Metrics.PrometheusAddr) })
	}
	g.Go(func() error { return s.Simulator.Run(gctx) })

	s.log.Infof("simulating %d aircraft on %d stations for %s",
		len(s.Simulator.Fleet()), s.cfg.Charging.Stations, s.cfg.Simulation.Duration)
	err := g.Wait()
	s.log.Infof("simulation finished, %d tickets issued", s.Scheduler.Issued())
	return err
}

// Handler returns the HTTP routes: /metrics plus the session and station API.
func (s *Service) Handler() *http.ServeMux {
	token := s.cfg.API.Token
	mux := metrics.NewMux()
	mux.Handle("/api/sessions", sessions.NewHandler(s.Store, token))
	mux.Handle("/api/sessions/summary", sessions.NewSummaryHandler(s.Store, token))
	mux.Handle("/api/stations", stations.NewHandler(s.Scheduler, token))
	return mux
}

// Close releases resources held by the service.
func (s *Service) Close() error {
	s.Scheduler.Shutdown()
	s.bus.Close()
	if s.publisher != nil {
		s.publisher.Close()
	}
	closeSink(s.Sink)
	coremon.Flush(2 * time.Second)
	return s.Store.Close()
}

func closeSink(sink coremetrics.SessionSink) {
	if c, ok := sink.(interface{ Close() }); ok {
		c.Close()
	}
}
