package charging

import (
	"sync"
	"time"

	"github.com/gammazero/deque"
)

// Request is one aircraft waiting for a station. Whoever holds the Request
// owns the aircraft.
type Request[A Aircraft] struct {
	Ticket    Ticket
	Aircraft  A
	Submitted time.Time
}

// admissionQueue stages submissions so producers never touch the lock
// stations wait on. notify carries at most one pending wake-up.
type admissionQueue[A Aircraft] struct {
	mu     sync.Mutex
	items  deque.Deque[Request[A]]
	notify chan struct{}
}

func newAdmissionQueue[A Aircraft]() *admissionQueue[A] {
	return &admissionQueue[A]{notify: make(chan struct{}, 1)}
}

func (q *admissionQueue[A]) push(r Request[A]) {
	q.mu.Lock()
	q.items.PushBack(r)
	q.mu.Unlock()
	select {
	case q.notify <- struct{}{}:
	default:
	}
}

// takeAll removes every staged request in arrival order.
func (q *admissionQueue[A]) takeAll() []Request[A] {
	q.mu.Lock()
	defer q.mu.Unlock()
	n := q.items.Len()
	if n == 0 {
		return nil
	}
	out := make([]Request[A], 0, n)
	for q.items.Len() > 0 {
		out = append(out, q.items.PopFront())
	}
	return out
}

func (q *admissionQueue[A]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// workQueue holds requests waiting for a free station. Stations block in
// next until a request is queued or the queue is closed.
type workQueue[A Aircraft] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  deque.Deque[Request[A]]
	closed bool
}

func newWorkQueue[A Aircraft]() *workQueue[A] {
	q := &workQueue[A]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// pushAll appends reqs in order and wakes idle stations. Pushing to a
// closed queue is allowed: the shutdown drain collects those requests.
func (q *workQueue[A]) pushAll(reqs []Request[A]) int {
	q.mu.Lock()
	for _, r := range reqs {
		q.items.PushBack(r)
	}
	n := q.items.Len()
	q.mu.Unlock()
	if len(reqs) > 0 {
		q.cond.Broadcast()
	}
	return n
}

// next pops the head of the queue. ok is false once the queue is closed,
// even when requests remain.
func (q *workQueue[A]) next() (req Request[A], ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.items.Len() == 0 && !q.closed {
		q.cond.Wait()
	}
	if q.closed {
		return req, false
	}
	return q.items.PopFront(), true
}

// wake nudges idle stations to re-check the queue.
func (q *workQueue[A]) wake() { q.cond.Broadcast() }

func (q *workQueue[A]) close() {
	q.mu.Lock()
	q.closed = true
	q.mu.Unlock()
	q.cond.Broadcast()
}

// drain removes every queued request in FIFO order.
func (q *workQueue[A]) drain() []Request[A] {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Request[A], 0, q.items.Len())
	for q.items.Len() > 0 {
		out = append(out, q.items.PopFront())
	}
	return out
}

func (q *workQueue[A]) len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.items.Len()
}

// snapshot copies the queued requests in FIFO order.
func (q *workQueue[A]) snapshot() []Request[A] {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Request[A], q.items.Len())
	for i := range out {
		out[i] = q.items.At(i)
	}
	return out
}
