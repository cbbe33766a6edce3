// Package fleet builds the simulated eVTOL fleet from a manufacturer
// catalogue and flies it against a charging scheduler.
//
// Each aircraft runs its own goroutine: it flies until the battery is empty,
// logs the flight, queues for a charger and logs the charge. Sessions go to
// a sessionlog.Store and a metrics.SessionSink.
package fleet
