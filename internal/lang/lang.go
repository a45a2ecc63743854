package lang

import (
	"fmt"
	"log"
)

var lang = "en"

// Setup selects the language for all user-visible messages.
func Setup(language string) {
	if language != "" {
		lang = language
	}
}

// GetMessage renders the message for id in the configured language,
// falling back to English when the translation is missing.
func GetMessage(id MessageID, args ...any) string {
	if m, ok := messages[id]; ok {
		if msg, ok := m[lang]; ok {
			return fmt.Sprintf(msg, args...)
		}
		if msg, ok := m["en"]; ok {
			return fmt.Sprintf(msg, args...)
		}
	}
	log.Printf("Message not found for ID: %s", id)
	return "Message not found"
}
