package service

import (
	"strconv"

	"energydash/internal/models"
)

// ParsePowerWatts returns a reading's power in watts. Sentinel and unparsable
// states contribute zero rather than failing the enclosing computation.
// Values reported in kilowatts are converted to watts.
func ParsePowerWatts(reading models.Reading) float64 {
	if reading.StateUnavailable() {
		return 0.0
	}

	value, err := strconv.ParseFloat(reading.State, 64)
	if err != nil {
		return 0.0
	}

	switch reading.Unit("W") {
	case "kW", "kilowatt":
		value *= 1000
	}
	return value
}

// TotalPowerWatts sums the power of all readings in watts.
func TotalPowerWatts(readings []models.Reading) float64 {
	total := 0.0
	for _, reading := range readings {
		total += ParsePowerWatts(reading)
	}
	return total
}

// parseEnergyValue parses a raw state string and converts it to kWh based on
// the unit. The second return is false for sentinel or unparsable states.
func parseEnergyValue(state, unit string) (float64, bool) {
	value, err := strconv.ParseFloat(state, 64)
	if err != nil {
		return 0, false
	}
	if unit == "Wh" {
		value /= 1000
	}
	return value, true
}
