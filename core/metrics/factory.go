package metrics

import (
	"fmt"

	"github.com/kilianp07/evtol/core/factory"
)

var sinkRegistry = factory.NewRegistry[SessionSink]()

// RegisterSessionSink adds a sink factory identified by name.
func RegisterSessionSink(name string, f factory.Factory[SessionSink]) error {
	return sinkRegistry.Register(name, f)
}

// SinkTypes returns the registered sink names.
func SinkTypes() []string { return sinkRegistry.Names() }

// NewSessionSink creates a SessionSink from the provided configuration.
func NewSessionSink(cfgs []factory.ModuleConfig) (SessionSink, error) {
	if len(cfgs) == 0 {
		return NopSink{}, nil
	}
	if len(cfgs) == 1 {
		return sinkRegistry.Create(cfgs[0])
	}
	sinks := make([]SessionSink, len(cfgs))
	for i, c := range cfgs {
		s, err := sinkRegistry.Create(c)
		if err != nil {
			return nil, fmt.Errorf("sink %d: %w", i, err)
		}
		sinks[i] = s
	}
	return NewMultiSink(sinks...), nil
}
