package monitoring

import (
	"fmt"
	"time"
)

// Monitor defines methods used for error reporting.
type Monitor interface {
	CaptureException(err error, tags map[string]string)
	CapturePanic(v any, tags map[string]string)
	Flush(timeout time.Duration)
}

type NopMonitor struct{}

func (NopMonitor) CaptureException(error, map[string]string) {}
func (NopMonitor) CapturePanic(any, map[string]string)       {}
func (NopMonitor) Flush(time.Duration)                       {}

var current Monitor = NopMonitor{}

// Init sets the global monitor implementation.
func Init(m Monitor) {
	if m != nil {
		current = m
	}
}

// Current returns the installed monitor.
func Current() Monitor { return current }

// CaptureException records the error with optional tags.
func CaptureException(err error, tags map[string]string) {
	if err != nil {
		current.CaptureException(err, tags)
	}
}

// Recover reports a panic and re-raises it. It must be deferred directly:
//
//	defer monitoring.Recover()
func Recover() {
	if r := recover(); r != nil {
		current.CapturePanic(r, nil)
		current.Flush(2 * time.Second)
		panic(r)
	}
}

// Guard runs fn and turns a panic into a reported error tagged with tags.
func Guard(tags map[string]string, fn func()) (err error) {
	defer func() {
		if r := recover(); r != nil {
			current.CapturePanic(r, tags)
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	fn()
	return nil
}

// Flush flushes buffered events.
func Flush(d time.Duration) { current.Flush(d) }
