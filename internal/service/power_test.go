package service

import (
	"testing"

	"energydash/internal/models"

	"github.com/stretchr/testify/assert"
)

func reading(entityID, name, state, unit string) models.Reading {
	return models.Reading{
		EntityID: entityID,
		State:    state,
		Attributes: models.ReadingAttributes{
			FriendlyName:      name,
			UnitOfMeasurement: unit,
		},
	}
}

func TestParsePowerWattsSentinels(t *testing.T) {
	for _, state := range []string{"unknown", "unavailable", "none", "", "Unknown", "UNAVAILABLE"} {
		r := reading("sensor.x", "X", state, "W")
		assert.Equal(t, 0.0, ParsePowerWatts(r), "state %q should contribute zero", state)
	}
}

func TestParsePowerWattsUnparsable(t *testing.T) {
	r := reading("sensor.x", "X", "on", "W")
	assert.Equal(t, 0.0, ParsePowerWatts(r))
}

func TestParsePowerWattsUnits(t *testing.T) {
	tests := []struct {
		state string
		unit  string
		want  float64
	}{
		{"1.5", "kW", 1500.0},
		{"1500", "W", 1500.0},
		{"2", "kilowatt", 2000.0},
		{"42", "watt", 42.0},
		{"250", "", 250.0}, // missing unit assumed watts
	}
	for _, tt := range tests {
		r := reading("sensor.x", "X", tt.state, tt.unit)
		assert.Equal(t, tt.want, ParsePowerWatts(r), "%s %s", tt.state, tt.unit)
	}
}

func TestTotalPowerWatts(t *testing.T) {
	readings := []models.Reading{
		reading("sensor.a", "A", "100", "W"),
		reading("sensor.b", "B", "0.5", "kW"),
		reading("sensor.c", "C", "unavailable", "W"),
	}
	assert.Equal(t, 600.0, TotalPowerWatts(readings))
}
