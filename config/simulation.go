package config

import (
	"fmt"
	"time"
)

// SimulationConfig describes the fleet and how long it flies.
type SimulationConfig struct {
	// Aircraft is the fleet size split across manufacturers.
	Aircraft int `json:"aircraft" default:"20"`
	// Duration is the wall-clock length of the run.
	Duration time.Duration `json:"duration" default:"3m"`
	// TimeScale is the number of simulated seconds per real second.
	TimeScale float64 `json:"time_scale" default:"3600"`
	// Seed drives the fleet split. Zero picks a time-based seed.
	Seed int64 `json:"seed"`
	// ManufacturersFile is a JSON or YAML catalogue. Empty uses the built-in one.
	ManufacturersFile string `json:"manufacturers_file"`
}

// Validate checks the configuration ranges.
func (c SimulationConfig) Validate() error {
	if c.Aircraft <= 0 {
		return fmt.Errorf("simulation.aircraft must be positive")
	}
	if c.Duration <= 0 {
		return fmt.Errorf("simulation.duration must be positive")
	}
	if c.TimeScale <= 0 {
		return fmt.Errorf("simulation.time_scale must be positive")
	}
	return nil
}

// ChargingConfig sizes the charging station pool.
type ChargingConfig struct {
	Stations int `json:"stations" default:"3"`
}

func (c ChargingConfig) Validate() error {
	if c.Stations <= 0 {
		return fmt.Errorf("charging.stations must be positive")
	}
	return nil
}
