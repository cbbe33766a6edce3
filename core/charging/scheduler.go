package charging

import (
	"sync"
	"time"

	"github.com/kilianp07/evtol/core/events"
	"github.com/kilianp07/evtol/core/logger"
)

// Aircraft is the part of a vehicle the scheduler needs. ChargeDuration and
// Recharge run on a station goroutine: they may call BeginShutdown but must
// never call Shutdown, which waits for that same station and deadlocks.
type Aircraft interface {
	Label() string
	// ChargeDuration is how long the aircraft occupies a station.
	ChargeDuration() time.Duration
	// Recharge restores the battery once the charge completed.
	Recharge()
}

// Options configures a Scheduler. Zero values are valid.
type Options struct {
	Logger logger.Logger
	// Events receives lifecycle events. Publish must not block.
	Events events.Publisher
}

// Scheduler assigns aircraft to a fixed pool of charging stations in strict
// submission order.
type Scheduler[A Aircraft] struct {
	log    logger.Logger
	events events.Publisher

	issuer      TicketIssuer
	admission   *admissionQueue[A]
	work        *workQueue[A]
	completions *completionTable[A]

	// gate orders submissions against Initialize and BeginShutdown: every
	// request admitted before the closing flip is already queued.
	gate        sync.RWMutex
	initialized bool
	closing     bool
	stations    []*station

	done      chan struct{}
	wg        sync.WaitGroup
	stopOnce  sync.Once
	drainOnce sync.Once
}

// New returns a scheduler with no stations. Call Initialize before
// submitting.
func New[A Aircraft](opts Options) *Scheduler[A] {
	return &Scheduler[A]{
		log:         logger.OrNop(opts.Logger),
		events:      opts.Events,
		admission:   newAdmissionQueue[A](),
		work:        newWorkQueue[A](),
		completions: newCompletionTable[A](),
		done:        make(chan struct{}),
	}
}

// Initialize starts stationCount station workers and the dispatcher.
// Later calls are no-ops.
func (s *Scheduler[A]) Initialize(stationCount int) error {
	s.gate.Lock()
	defer s.gate.Unlock()
	if s.closing {
		return ErrShutdown
	}
	if s.initialized {
		return nil
	}
	if stationCount <= 0 {
		return ErrInvalidStationCount
	}
	s.stations = make([]*station, stationCount)
	for i := range s.stations {
		s.stations[i] = newStation(i + 1)
	}
	s.wg.Add(stationCount + 1)
	go s.dispatch()
	for _, st := range s.stations {
		go s.runStation(st)
	}
	s.initialized = true
	s.log.Infof("charging scheduler started with %d stations", stationCount)
	return nil
}

// SubmitAndAwait queues a for charging and blocks until it comes back. On
// error the caller keeps a and nothing was queued. A request admitted before
// shutdown always resolves: charged, or returned by the drain with
// Charged=false.
func (s *Scheduler[A]) SubmitAndAwait(a A) (Result[A], error) {
	req, err := s.admit(a)
	if err != nil {
		requestsTotal.WithLabelValues(outcomeRejected).Inc()
		return Result[A]{Aircraft: a}, err
	}
	res, ok := s.completions.await(req.Ticket)
	if !ok {
		s.log.Warnf("ticket %s drained without a result", req.Ticket)
		return Result[A]{Ticket: req.Ticket, Aircraft: a, Submitted: req.Submitted, Finished: time.Now()}, nil
	}
	return res, nil
}

func (s *Scheduler[A]) admit(a A) (Request[A], error) {
	s.gate.RLock()
	defer s.gate.RUnlock()
	if s.closing {
		return Request[A]{}, ErrShutdown
	}
	if !s.initialized {
		return Request[A]{}, ErrNotInitialized
	}
	t := s.issuer.Next()
	if t == NoTicket {
		return Request[A]{}, ErrShutdown
	}
	req := Request[A]{Ticket: t, Aircraft: a, Submitted: time.Now()}
	label := a.Label()
	s.completions.reserve(t)
	s.emit(events.KindAdmitted, t, 0, label, req.Submitted)
	requestsTotal.WithLabelValues(outcomeAdmitted).Inc()
	s.admission.push(req)
	return req, nil
}

func (s *Scheduler[A]) runStation(st *station) {
	defer s.wg.Done()
	defer st.retire()
	for {
		req, ok := s.work.next()
		if !ok {
			s.log.Debugf("station %d retired", st.id)
			return
		}
		queueDepth.Set(float64(s.work.len()))
		s.charge(st, req)
	}
}

// charge runs one request to completion. No lock is held while the station
// waits out the charge.
func (s *Scheduler[A]) charge(st *station, req Request[A]) {
	label := req.Aircraft.Label()
	started := time.Now()
	st.assign(req.Ticket, label, started)
	stationsBusy.Inc()
	waitSeconds.Observe(started.Sub(req.Submitted).Seconds())
	s.emit(events.KindAssigned, req.Ticket, st.id, label, started)

	st.setState(StationCharging)
	time.Sleep(req.Aircraft.ChargeDuration())
	req.Aircraft.Recharge()
	finished := time.Now()

	st.setState(StationPublishing)
	s.completions.fulfill(Result[A]{
		Ticket:    req.Ticket,
		Aircraft:  req.Aircraft,
		StationID: st.id,
		Charged:   true,
		Submitted: req.Submitted,
		Started:   started,
		Finished:  finished,
	})
	st.release()
	stationsBusy.Dec()
	chargeDuration.Observe(finished.Sub(started).Seconds())
	requestsTotal.WithLabelValues(outcomeCharged).Inc()
	s.emit(events.KindCharged, req.Ticket, st.id, label, finished)
	s.work.wake()
}

// BeginShutdown stops admissions and tells idle stations to retire. It
// does not wait for workers.
func (s *Scheduler[A]) BeginShutdown() {
	s.stopOnce.Do(func() {
		s.gate.Lock()
		s.closing = true
		s.issuer.Close()
		s.gate.Unlock()
		close(s.done)
		s.work.close()
		s.log.Infof("charging scheduler shutting down")
	})
}

// Shutdown runs BeginShutdown, waits for the dispatcher and every station,
// then returns all still-queued aircraft to their callers un-charged.
// Concurrent callers block until the drain finished. It must not be called
// from a station.
func (s *Scheduler[A]) Shutdown() {
	s.BeginShutdown()
	s.drainOnce.Do(func() {
		s.wg.Wait()
		left := s.work.drain()
		left = append(left, s.admission.takeAll()...)
		now := time.Now()
		for _, req := range left {
			label := req.Aircraft.Label()
			s.completions.fulfill(Result[A]{
				Ticket:    req.Ticket,
				Aircraft:  req.Aircraft,
				Submitted: req.Submitted,
				Finished:  now,
			})
			requestsTotal.WithLabelValues(outcomeDrained).Inc()
			s.emit(events.KindDrained, req.Ticket, 0, label, now)
		}
		s.completions.markDrained()
		queueDepth.Set(0)
		s.log.Infof("charging scheduler stopped, %d requests drained", len(left))
	})
}

// Stations returns a snapshot of every station, ordered by ID.
func (s *Scheduler[A]) Stations() []StationSnapshot {
	s.gate.RLock()
	stations := s.stations
	s.gate.RUnlock()
	out := make([]StationSnapshot, len(stations))
	for i, st := range stations {
		out[i] = st.snapshot()
	}
	return out
}

// Pending returns the number of requests waiting for a station.
func (s *Scheduler[A]) Pending() int {
	return s.admission.len() + s.work.len()
}

// Outstanding returns the number of admitted requests whose caller has not
// picked up the result yet.
func (s *Scheduler[A]) Outstanding() int { return s.completions.size() }

// Issued returns the number of tickets handed out so far.
func (s *Scheduler[A]) Issued() uint64 { return s.issuer.Issued() }

// QueueEntry describes a request waiting for a station.
type QueueEntry struct {
	Position   int       `json:"position"`
	Ticket     Ticket    `json:"ticket"`
	AircraftID string    `json:"aircraft_id"`
	Submitted  time.Time `json:"submitted"`
}

// Queue lists the requests the dispatcher already handed to the stations,
// head first. Requests still in admission are not included.
func (s *Scheduler[A]) Queue() []QueueEntry {
	reqs := s.work.snapshot()
	out := make([]QueueEntry, len(reqs))
	for i, r := range reqs {
		out[i] = QueueEntry{Position: i + 1, Ticket: r.Ticket, AircraftID: r.Aircraft.Label(), Submitted: r.Submitted}
	}
	return out
}

// Closed reports whether shutdown has begun.
func (s *Scheduler[A]) Closed() bool { return s.issuer.Closed() }

func (s *Scheduler[A]) emit(kind events.Kind, t Ticket, stationID int, label string, at time.Time) {
	if s.events == nil {
		return
	}
	s.events.Publish(events.ChargeEvent{
		Kind:       kind,
		Ticket:     uint64(t),
		StationID:  stationID,
		AircraftID: label,
		Time:       at,
	})
}
