package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recordingMonitor struct {
	errs   []error
	panics []any
	tags   map[string]string
}

func (r *recordingMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = tags
}

func (r *recordingMonitor) CapturePanic(v any, tags map[string]string) {
	r.panics = append(r.panics, v)
	r.tags = tags
}

func (r *recordingMonitor) Flush(time.Duration) {}

func install(t *testing.T) *recordingMonitor {
	t.Helper()
	prev := current
	rec := &recordingMonitor{}
	Init(rec)
	t.Cleanup(func() { current = prev })
	return rec
}

func TestCaptureException(t *testing.T) {
	rec := install(t)
	CaptureException(nil, nil)
	CaptureException(errors.New("boom"), map[string]string{"aircraft": "A1"})
	if len(rec.errs) != 1 || rec.tags["aircraft"] != "A1" {
		t.Fatalf("unexpected capture %+v", rec)
	}
}

func TestGuardReportsPanic(t *testing.T) {
	rec := install(t)
	err := Guard(map[string]string{"component": "fleet"}, func() { panic("bad battery") })
	if err == nil {
		t.Fatalf("expected error from panic")
	}
	if len(rec.panics) != 1 || rec.panics[0] != "bad battery" || rec.tags["component"] != "fleet" {
		t.Fatalf("panic not captured: %+v", rec)
	}
	if err := Guard(nil, func() {}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRecoverRepanics(t *testing.T) {
	rec := install(t)
	defer func() {
		if r := recover(); r != "again" {
			t.Fatalf("expected re-panic, got %v", r)
		}
		if len(rec.panics) != 1 {
			t.Fatalf("panic not captured")
		}
	}()
	func() {
		defer Recover()
		panic("again")
	}()
}

func TestInitIgnoresNil(t *testing.T) {
	rec := install(t)
	Init(nil)
	if Current() != Monitor(rec) {
		t.Fatalf("nil monitor should be ignored")
	}
}
