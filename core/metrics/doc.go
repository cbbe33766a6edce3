// Package metrics defines the sinks that observe the simulation. A
// SessionSink records every completed flight and charge session; sinks that
// also implement ChargeEventRecorder receive scheduler lifecycle events.
// Concrete sinks live in infra/metrics and register themselves by type name
// so a configuration can list several of them; NewSessionSink wraps more
// than one in a MultiSink.
package metrics
