package charging

import (
	"sync"
	"time"
)

// Result is what SubmitAndAwait hands back to the caller together with the
// aircraft.
type Result[A Aircraft] struct {
	Ticket    Ticket
	Aircraft  A
	StationID int
	// Charged is false when the request was returned by the shutdown drain.
	Charged   bool
	Submitted time.Time
	Started   time.Time
	Finished  time.Time
}

// Wait is the time spent queued before a station picked the request up.
// For drained requests it is the time until the drain.
func (r Result[A]) Wait() time.Duration {
	if r.Started.IsZero() {
		if r.Finished.IsZero() {
			return 0
		}
		return r.Finished.Sub(r.Submitted)
	}
	return r.Started.Sub(r.Submitted)
}

// ChargeTime is the time the aircraft spent on a station.
func (r Result[A]) ChargeTime() time.Duration {
	if !r.Charged {
		return 0
	}
	return r.Finished.Sub(r.Started)
}

// completionTable maps tickets to results. A nil value marks a reserved
// entry that has not been filled yet. Callers share one condition and each
// re-checks only its own ticket.
type completionTable[A Aircraft] struct {
	mu      sync.Mutex
	cond    *sync.Cond
	entries map[Ticket]*Result[A]
	drained bool
}

func newCompletionTable[A Aircraft]() *completionTable[A] {
	c := &completionTable[A]{entries: make(map[Ticket]*Result[A])}
	c.cond = sync.NewCond(&c.mu)
	return c
}

func (c *completionTable[A]) reserve(t Ticket) {
	c.mu.Lock()
	c.entries[t] = nil
	c.mu.Unlock()
}

// fulfill stores r for its ticket. It reports false when the ticket has no
// reservation or was already filled.
func (c *completionTable[A]) fulfill(r Result[A]) bool {
	c.mu.Lock()
	e, ok := c.entries[r.Ticket]
	if !ok || e != nil {
		c.mu.Unlock()
		return false
	}
	c.entries[r.Ticket] = &r
	c.mu.Unlock()
	c.cond.Broadcast()
	return true
}

// await blocks until t is filled or the table is drained, then removes the
// entry. ok is false when the table was drained with no result for t.
func (c *completionTable[A]) await(t Ticket) (res Result[A], ok bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for {
		if e := c.entries[t]; e != nil {
			delete(c.entries, t)
			return *e, true
		}
		if c.drained {
			delete(c.entries, t)
			return res, false
		}
		c.cond.Wait()
	}
}

func (c *completionTable[A]) markDrained() {
	c.mu.Lock()
	c.drained = true
	c.mu.Unlock()
	c.cond.Broadcast()
}

// size counts entries not yet picked up, filled or not.
func (c *completionTable[A]) size() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
