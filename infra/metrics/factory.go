package metrics

import (
	"github.com/kilianp07/evtol/core/factory"
	coremetrics "github.com/kilianp07/evtol/core/metrics"
)

// init registers built-in session sinks.
func init() {
	_ = coremetrics.RegisterSessionSink("nop", func(map[string]any) (coremetrics.SessionSink, error) {
		return coremetrics.NopSink{}, nil
	})

	_ = coremetrics.RegisterSessionSink("prometheus", func(map[string]any) (coremetrics.SessionSink, error) {
		s, err := NewPromSink()
		if err != nil {
			return nil, err
		}
		return s, nil
	})

	_ = coremetrics.RegisterSessionSink("influx", func(conf map[string]any) (coremetrics.SessionSink, error) {
		var c struct {
			URL    string `json:"url"`
			Token  string `json:"token"`
			Org    string `json:"org"`
			Bucket string `json:"bucket"`
		}
		if err := factory.Decode(conf, &c); err != nil {
			return nil, err
		}
		return NewInfluxSinkWithFallback(c.URL, c.Token, c.Org, c.Bucket), nil
	})
}
