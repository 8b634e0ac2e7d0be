package service

import "strings"

// roomVocabulary lists the known room names. Order matters: the first match
// wins when a name mentions more than one room.
var roomVocabulary = []string{
	"living room",
	"bedroom",
	"kitchen",
	"bathroom",
	"office",
	"garage",
	"basement",
	"attic",
	"dining room",
	"laundry",
}

// AttributeRoom maps a sensor to a room by substring matching its friendly
// name, then its entity id with spaces replaced by underscores. Returns
// "Other" when no room name appears in either.
func AttributeRoom(friendlyName, entityID string) string {
	nameLower := strings.ToLower(friendlyName)
	for _, room := range roomVocabulary {
		if strings.Contains(nameLower, room) {
			return titleCase(room)
		}
	}

	entityLower := strings.ToLower(entityID)
	for _, room := range roomVocabulary {
		slug := strings.ReplaceAll(room, " ", "_")
		if strings.Contains(entityLower, slug) {
			return titleCase(room)
		}
	}

	return "Other"
}

func titleCase(room string) string {
	words := strings.Fields(room)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
