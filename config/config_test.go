package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

//nolint:gocyclo
func TestLoad(t *testing.T) {
	path := writeConfig(t, "config.yaml", `simulation:
  aircraft: 12
  duration: "90s"
  time_scale: 7200
  seed: 42
  manufacturers_file: "manufacturers.json"
charging:
  stations: 4
logging:
  backend: "sqlite"
  path: "out/sessions.db"
metrics:
  prometheus_addr: ":9100"
  sinks:
    - type: "prometheus"
    - type: "influx"
      conf:
        url: "http://influx:8086"
mqtt:
  enabled: true
  broker: "tcp://localhost:1883"
  client_id: "cli"
  qos: 1
api:
  enabled: true
  token: "secret"
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	checks := []struct {
		name string
		got  any
		want any
	}{
		{"aircraft", cfg.Simulation.Aircraft, 12},
		{"duration", cfg.Simulation.Duration, 90 * time.Second},
		{"time_scale", cfg.Simulation.TimeScale, 7200.0},
		{"seed", cfg.Simulation.Seed, int64(42)},
		{"manufacturers_file", cfg.Simulation.ManufacturersFile, "manufacturers.json"},
		{"stations", cfg.Charging.Stations, 4},
		{"backend", cfg.Logging.Backend, "sqlite"},
		{"path", cfg.Logging.Path, "out/sessions.db"},
		{"prometheus_addr", cfg.Metrics.PrometheusAddr, ":9100"},
		{"sinks", len(cfg.Metrics.Sinks), 2},
		{"influx url", cfg.Metrics.Sinks[1].Conf["url"], "http://influx:8086"},
		{"broker", cfg.MQTT.Broker, "tcp://localhost:1883"},
		{"client_id", cfg.MQTT.ClientID, "cli"},
		{"qos", cfg.MQTT.QoS, byte(1)},
		{"topic_prefix default", cfg.MQTT.TopicPrefix, "evtol"},
		{"api addr default", cfg.API.Addr, ":8080"},
		{"api token", cfg.API.Token, "secret"},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s mismatch: got %v want %v", c.name, c.got, c.want)
		}
	}
}

func TestLoadDefaultsFromEnvOnly(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Simulation.Aircraft != 20 || cfg.Charging.Stations != 3 || cfg.Simulation.TimeScale != 3600 {
		t.Fatalf("unexpected defaults %+v", cfg.Simulation)
	}
	if cfg.Logging.Backend != "jsonl" || cfg.Logging.Path != "logs/sessions.jsonl" {
		t.Fatalf("unexpected logging defaults %+v", cfg.Logging)
	}
}

func TestLoadEnvOverride(t *testing.T) {
	path := writeConfig(t, "config.json", `{"charging":{"stations":2},"simulation":{"aircraft":5}}`)
	t.Setenv("K_CHARGING__STATIONS", "6")
	t.Setenv("K_SIMULATION__DURATION", "45s")
	t.Setenv("K_LOGGING__MAX_SIZE_MB", "8")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Charging.Stations != 6 {
		t.Fatalf("env override not applied: %d", cfg.Charging.Stations)
	}
	if cfg.Logging.MaxSizeMB != 8 {
		t.Fatalf("underscored field not overridden: %d", cfg.Logging.MaxSizeMB)
	}
	if cfg.Simulation.Duration != 45*time.Second || cfg.Simulation.Aircraft != 5 {
		t.Fatalf("unexpected simulation %+v", cfg.Simulation)
	}
}

func TestLoadValidation(t *testing.T) {
	path := writeConfig(t, "bad.yaml", `charging:
  stations: -1
logging:
  backend: "csv"
mqtt:
  enabled: true
`)
	_, err := Load(path)
	if err == nil {
		t.Fatalf("expected validation error")
	}
	for _, want := range []string{"charging.stations", "unknown backend csv", "broker is required"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("error %q missing %q", err, want)
		}
	}
}

func TestLoadUnsupportedFormat(t *testing.T) {
	if _, err := Load("config.toml"); err == nil {
		t.Fatalf("expected unsupported format error")
	}
}

func TestLoggingStoreOptions(t *testing.T) {
	c := LoggingConfig{Backend: "sqlite"}
	c.SetDefaults()
	opts := c.StoreOptions()
	if opts.Backend != "sqlite" || opts.Path != "logs/sessions.db" {
		t.Fatalf("unexpected options %+v", opts)
	}
}
