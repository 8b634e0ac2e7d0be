package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAttributeRoom(t *testing.T) {
	tests := []struct {
		name     string
		entityID string
		want     string
	}{
		{"Kitchen Fridge", "sensor.x", "Kitchen"},
		{"KITCHEN FRIDGE", "sensor.x", "Kitchen"},
		{"Weird Gadget", "sensor.y", "Other"},
		{"", "sensor.living_room_tv_power", "Living Room"},
		{"", "sensor.dining_room_lamp", "Dining Room"},
		{"Office PC", "sensor.office_pc", "Office"},
		{"", "sensor.unlabelled", "Other"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, AttributeRoom(tt.name, tt.entityID), "name=%q id=%q", tt.name, tt.entityID)
	}
}

func TestAttributeRoomNameBeforeEntityID(t *testing.T) {
	// Friendly name is checked first; the entity id mentioning another room
	// must not win.
	assert.Equal(t, "Bedroom", AttributeRoom("Bedroom Fan", "sensor.kitchen_fan"))
}

func TestAttributeRoomVocabularyOrder(t *testing.T) {
	// "living room" precedes "bedroom" in the vocabulary and wins the tie.
	assert.Equal(t, "Living Room", AttributeRoom("living room bedroom combo", "sensor.x"))
}
