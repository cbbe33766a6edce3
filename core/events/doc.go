// Package events defines the charging lifecycle events emitted on the event bus.
//
// Available event kinds:
//   - KindAdmitted: a request received a ticket and entered the admission queue
//   - KindAssigned: a station took the request from the work queue
//   - KindCharged: the station finished charging and published the result
//   - KindDrained: the request was handed back un-charged during shutdown
package events
