package model

import (
	"errors"
	"fmt"
	"time"
)

// Manufacturer holds the fixed characteristics shared by every aircraft of
// one vehicle type. Field tags follow the catalogue file format.
type Manufacturer struct {
	Name                string  `json:"Name" yaml:"Name"`
	CruiseSpeedMPH      float64 `json:"Cruise_Speed" yaml:"Cruise_Speed"`
	PassengerCount      int     `json:"Passenger_Count" yaml:"Passenger_Count"`
	BatteryCapacityKWh  float64 `json:"Battery_Capacity" yaml:"Battery_Capacity"`
	EnergyUseKWhPerMile float64 `json:"Energy_use_at_Cruise" yaml:"Energy_use_at_Cruise"`
	FaultsPerHour       float64 `json:"Probability_of_fault_per_hour" yaml:"Probability_of_fault_per_hour"`
	TimeToChargeHours   float64 `json:"Time_to_Charge" yaml:"Time_to_Charge"`
}

// Validate checks that the manufacturer can produce flyable aircraft.
func (m Manufacturer) Validate() error {
	var errs []error
	if m.Name == "" {
		errs = append(errs, errors.New("name is required"))
	}
	if m.CruiseSpeedMPH <= 0 {
		errs = append(errs, fmt.Errorf("cruise speed must be positive"))
	}
	if m.PassengerCount < 0 {
		errs = append(errs, fmt.Errorf("passenger count must not be negative"))
	}
	if m.BatteryCapacityKWh <= 0 {
		errs = append(errs, fmt.Errorf("battery capacity must be positive"))
	}
	if m.EnergyUseKWhPerMile <= 0 {
		errs = append(errs, fmt.Errorf("energy use must be positive"))
	}
	if m.FaultsPerHour < 0 {
		errs = append(errs, fmt.Errorf("fault rate must not be negative"))
	}
	if m.TimeToChargeHours <= 0 {
		errs = append(errs, fmt.Errorf("time to charge must be positive"))
	}
	if len(errs) > 0 {
		return fmt.Errorf("manufacturer %q: %w", m.Name, errors.Join(errs...))
	}
	return nil
}

// FlightHours is the time a full battery lasts at cruise.
func (m Manufacturer) FlightHours() float64 {
	return m.BatteryCapacityKWh / (m.CruiseSpeedMPH * m.EnergyUseKWhPerMile)
}

// FlightTime is FlightHours as a duration.
func (m Manufacturer) FlightTime() time.Duration { return hours(m.FlightHours()) }

// ChargeTime is the time to recharge an empty battery.
func (m Manufacturer) ChargeTime() time.Duration { return hours(m.TimeToChargeHours) }

// FlightStats describes one flight of the given length.
type FlightStats struct {
	Hours          float64
	Miles          float64
	Faults         float64
	PassengerMiles float64
}

// Stats computes distance, expected faults and passenger miles for a flight
// of h hours.
func (m Manufacturer) Stats(h float64) FlightStats {
	miles := m.CruiseSpeedMPH * h
	return FlightStats{
		Hours:          h,
		Miles:          miles,
		Faults:         m.FaultsPerHour * h,
		PassengerMiles: miles * float64(m.PassengerCount),
	}
}

func hours(h float64) time.Duration {
	return time.Duration(h * float64(time.Hour))
}
