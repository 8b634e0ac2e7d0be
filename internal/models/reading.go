package models

import (
	"strings"
	"time"
)

// ReadingAttributes carries the subset of entity attributes the dashboard
// cares about.
type ReadingAttributes struct {
	FriendlyName      string `json:"friendly_name"`
	UnitOfMeasurement string `json:"unit_of_measurement"`
}

// Reading is one entity state snapshot as returned by the hub. The same shape
// is used for history entries, where LastChanged is the point in time the
// value was recorded.
type Reading struct {
	EntityID    string            `json:"entity_id"`
	State       string            `json:"state"`
	Attributes  ReadingAttributes `json:"attributes"`
	LastChanged time.Time         `json:"last_changed"`
}

// Name returns the friendly name, falling back to the entity id.
func (r Reading) Name() string {
	if r.Attributes.FriendlyName != "" {
		return r.Attributes.FriendlyName
	}
	return r.EntityID
}

// Unit returns the unit of measurement, falling back to def when the
// attribute is absent.
func (r Reading) Unit(def string) string {
	if r.Attributes.UnitOfMeasurement != "" {
		return r.Attributes.UnitOfMeasurement
	}
	return def
}

// StateUnavailable reports whether the state is one of the hub's
// "no value" sentinels. Sentinel states contribute zero, they are not errors.
func (r Reading) StateUnavailable() bool {
	switch strings.ToLower(r.State) {
	case "", "unknown", "unavailable", "none":
		return true
	}
	return false
}
