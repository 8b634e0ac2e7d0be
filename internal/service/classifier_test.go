package service

import (
	"testing"

	"energydash/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifySensors(t *testing.T) {
	states := []models.Reading{
		reading("sensor.fridge_power", "Fridge", "150", "W"),
		reading("sensor.heater", "Heater", "1.2", "kW"),
		reading("sensor.total_energy", "Total Energy", "105.5", "kWh"),
		reading("sensor.small_energy", "Small Energy", "350", "Wh"),
		reading("sensor.outside_temp", "Outside", "21.5", "°C"),
		reading("light.kitchen", "Kitchen Light", "120", "W"), // not sensor-namespaced
	}

	power, energy := ClassifySensors(states)

	require.Len(t, power, 2)
	assert.Equal(t, "sensor.fridge_power", power[0].EntityID)
	assert.Equal(t, "sensor.heater", power[1].EntityID)

	require.Len(t, energy, 2)
	assert.Equal(t, "sensor.total_energy", energy[0].EntityID)
	assert.Equal(t, "sensor.small_energy", energy[1].EntityID)
}

func TestSplitMeterPartition(t *testing.T) {
	power := []models.Reading{
		reading("sensor.bitshake_meter", "BitShake SmartMeter", "2500", "W"),
		reading("sensor.kitchen_fridge", "Kitchen Fridge", "150", "W"),
		reading("sensor.office_pc", "Office PC", "300", "W"),
	}

	meter, tracked := SplitMeter(power, "bitshake")

	require.NotNil(t, meter)
	assert.Equal(t, "sensor.bitshake_meter", meter.EntityID)
	require.Len(t, tracked, 2)
	for _, sensor := range tracked {
		assert.NotEqual(t, meter.EntityID, sensor.EntityID)
	}
}

func TestSplitMeterMatchesFriendlyName(t *testing.T) {
	power := []models.Reading{
		reading("sensor.house_total", "BitShake Mains", "2000", "W"),
	}

	meter, tracked := SplitMeter(power, "BitShake")

	require.NotNil(t, meter)
	assert.Empty(t, tracked)
}

func TestSplitMeterNoMatch(t *testing.T) {
	power := []models.Reading{
		reading("sensor.kitchen_fridge", "Kitchen Fridge", "150", "W"),
	}

	meter, tracked := SplitMeter(power, "bitshake")

	assert.Nil(t, meter)
	assert.Len(t, tracked, 1)
}

func TestSplitMeterDisabled(t *testing.T) {
	power := []models.Reading{
		reading("sensor.bitshake_meter", "BitShake SmartMeter", "2500", "W"),
		reading("sensor.kitchen_fridge", "Kitchen Fridge", "150", "W"),
	}

	meter, tracked := SplitMeter(power, "")

	assert.Nil(t, meter)
	assert.Len(t, tracked, 2)
}

func TestSplitMeterFirstMatchWins(t *testing.T) {
	power := []models.Reading{
		reading("sensor.bitshake_a", "Meter A", "2500", "W"),
		reading("sensor.bitshake_b", "Meter B", "2600", "W"),
	}

	meter, tracked := SplitMeter(power, "bitshake")

	require.NotNil(t, meter)
	assert.Equal(t, "sensor.bitshake_a", meter.EntityID)
	require.Len(t, tracked, 1)
	assert.Equal(t, "sensor.bitshake_b", tracked[0].EntityID)
}
