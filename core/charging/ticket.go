package charging

import (
	"fmt"
	"sync/atomic"
)

// Ticket correlates a submitted request with its result.
type Ticket uint64

// NoTicket is handed out by a closed issuer and never identifies a request.
const NoTicket Ticket = 0

func (t Ticket) String() string {
	if t == NoTicket {
		return "T-none"
	}
	return fmt.Sprintf("T-%06d", uint64(t))
}

// TicketIssuer hands out unique, monotonically increasing tickets.
// The zero value is ready to use.
type TicketIssuer struct {
	last   atomic.Uint64
	closed atomic.Bool
}

// Next returns a fresh ticket, or NoTicket once the issuer is closed.
func (i *TicketIssuer) Next() Ticket {
	if i.closed.Load() {
		return NoTicket
	}
	return Ticket(i.last.Add(1))
}

// Close makes every later Next call return NoTicket.
func (i *TicketIssuer) Close() { i.closed.Store(true) }

// Closed reports whether Close was called.
func (i *TicketIssuer) Closed() bool { return i.closed.Load() }

// Issued returns the number of tickets handed out so far.
func (i *TicketIssuer) Issued() uint64 { return i.last.Load() }
