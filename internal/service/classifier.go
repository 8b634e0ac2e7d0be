package service

import (
	"log"
	"strings"

	"energydash/internal/models"
)

// ClassifySensors partitions a state snapshot into power sensors (instantaneous
// watts) and energy sensors (watt-hours). A reading may belong to neither set.
func ClassifySensors(states []models.Reading) (power, energy []models.Reading) {
	for _, state := range states {
		if !strings.HasPrefix(state.EntityID, "sensor.") {
			continue
		}
		switch state.Attributes.UnitOfMeasurement {
		case "W", "kW", "watt", "kilowatt":
			power = append(power, state)
		case "kWh", "Wh":
			energy = append(energy, state)
		}
	}
	return power, energy
}

// SplitMeter separates the whole-house meter sensor from individually tracked
// device sensors. A sensor is meter-designated when its entity id or friendly
// name contains the keyword, case-insensitive. The first match wins; further
// matches stay tracked and are logged. An empty keyword disables the split.
func SplitMeter(power []models.Reading, keyword string) (meter *models.Reading, tracked []models.Reading) {
	if keyword == "" {
		return nil, power
	}

	keyword = strings.ToLower(keyword)
	for _, sensor := range power {
		isMeter := strings.Contains(strings.ToLower(sensor.EntityID), keyword) ||
			strings.Contains(strings.ToLower(sensor.Attributes.FriendlyName), keyword)
		if isMeter && meter == nil {
			s := sensor
			meter = &s
			continue
		}
		if isMeter {
			log.Printf("Multiple sensors match meter keyword %q, keeping %s and tracking %s", keyword, meter.EntityID, sensor.EntityID)
		}
		tracked = append(tracked, sensor)
	}
	return meter, tracked
}
