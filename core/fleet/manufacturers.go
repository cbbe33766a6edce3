package fleet

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/evtol/core/model"
)

// Catalogue is the manufacturer file layout.
type Catalogue struct {
	Manufacturers []model.Manufacturer `json:"Manufacturers" yaml:"Manufacturers"`
}

// DefaultManufacturers is used when no catalogue file is configured.
func DefaultManufacturers() []model.Manufacturer {
	return []model.Manufacturer{
		{Name: "Alpha", CruiseSpeedMPH: 120, PassengerCount: 4, BatteryCapacityKWh: 320, EnergyUseKWhPerMile: 1.6, FaultsPerHour: 0.25, TimeToChargeHours: 0.6},
		{Name: "Bravo", CruiseSpeedMPH: 100, PassengerCount: 5, BatteryCapacityKWh: 100, EnergyUseKWhPerMile: 1.5, FaultsPerHour: 0.10, TimeToChargeHours: 0.2},
		{Name: "Charlie", CruiseSpeedMPH: 160, PassengerCount: 3, BatteryCapacityKWh: 220, EnergyUseKWhPerMile: 2.2, FaultsPerHour: 0.05, TimeToChargeHours: 0.8},
		{Name: "Delta", CruiseSpeedMPH: 90, PassengerCount: 2, BatteryCapacityKWh: 120, EnergyUseKWhPerMile: 0.8, FaultsPerHour: 0.22, TimeToChargeHours: 0.62},
		{Name: "Echo", CruiseSpeedMPH: 30, PassengerCount: 2, BatteryCapacityKWh: 150, EnergyUseKWhPerMile: 5.8, FaultsPerHour: 0.61, TimeToChargeHours: 0.3},
	}
}

// LoadManufacturers reads a JSON or YAML catalogue. An empty path returns
// DefaultManufacturers.
func LoadManufacturers(path string) ([]model.Manufacturer, error) {
	if path == "" {
		return DefaultManufacturers(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manufacturers: %w", err)
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		return ParseManufacturers(data, "yaml")
	case ".json":
		return ParseManufacturers(data, "json")
	default:
		return nil, fmt.Errorf("unsupported manufacturers format: %s", ext)
	}
}

// ParseManufacturers decodes a catalogue in the given format ("json" or
// "yaml") and validates every entry.
func ParseManufacturers(data []byte, format string) ([]model.Manufacturer, error) {
	var c Catalogue
	var err error
	switch format {
	case "json":
		err = json.Unmarshal(data, &c)
	case "yaml":
		err = yaml.Unmarshal(data, &c)
	default:
		return nil, fmt.Errorf("unsupported manufacturers format: %s", format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode manufacturers: %w", err)
	}
	if err := validateCatalogue(c.Manufacturers); err != nil {
		return nil, err
	}
	return c.Manufacturers, nil
}

func validateCatalogue(ms []model.Manufacturer) error {
	if len(ms) == 0 {
		return errors.New("catalogue has no manufacturers")
	}
	seen := make(map[string]struct{}, len(ms))
	var errs []error
	for _, m := range ms {
		if err := m.Validate(); err != nil {
			errs = append(errs, err)
			continue
		}
		if _, dup := seen[m.Name]; dup {
			errs = append(errs, fmt.Errorf("duplicate manufacturer %q", m.Name))
		}
		seen[m.Name] = struct{}{}
	}
	return errors.Join(errs...)
}
