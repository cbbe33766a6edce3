package config

import (
	"fmt"

	"github.com/kilianp07/evtol/core/factory"
)

// APIConfig configures the HTTP server exposing sessions and stations.
type APIConfig struct {
	Enabled bool   `json:"enabled"`
	Addr    string `json:"addr" default:":8080"`
	// Token, when set, is required as a bearer token on /api routes.
	Token string `json:"token"`
}

// MetricsConfig lists session sinks and where /metrics is served.
type MetricsConfig struct {
	Sinks []factory.ModuleConfig `json:"sinks"`
	// PrometheusAddr serves /metrics on its own listener when the API is
	// disabled. With the API enabled /metrics shares the API listener.
	PrometheusAddr string `json:"prometheus_addr"`
}

func (c MetricsConfig) Validate() error {
	for i, s := range c.Sinks {
		if s.Type == "" {
			return fmt.Errorf("metrics.sinks[%d]: type is required", i)
		}
	}
	return nil
}
