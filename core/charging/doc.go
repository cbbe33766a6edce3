// Package charging schedules aircraft onto a fixed pool of charging stations.
//
// Callers hand an aircraft to SubmitAndAwait and block until it comes back.
// Requests land in an admission queue, a dispatcher goroutine moves them in
// FIFO order to the work queue, and one goroutine per station pops the head,
// charges for the aircraft's declared duration and publishes the result in
// the completion table, where the waiting caller picks it up.
//
// Shutdown is two-phase. BeginShutdown stops admissions and tells stations to
// retire once idle; Shutdown additionally joins every worker and hands each
// request still queued back to its caller un-charged. A station that is
// mid-charge always finishes that charge before retiring.
package charging
