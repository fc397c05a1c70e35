// Package chat implements the conversation layer: intent classification
// and dispatch of incoming messages to the campus modules.
package chat

import (
	"strings"

	"github.com/askdsu/campus-assistant-go/internal/stringutil"
)

// Intent identifies which campus module should answer a message.
type Intent string

const (
	IntentClassroom Intent = "classroom"
	IntentLibrary   Intent = "library"
	IntentFaculty   Intent = "faculty"
	IntentUnknown   Intent = "unknown"
)

// intentRule pairs an intent with its trigger keywords.
type intentRule struct {
	intent   Intent
	keywords []string
}

// intentRules is evaluated in order; the first rule with any keyword
// found as a substring of the normalized message wins. A message that
// mentions both classrooms and the library is a classroom query.
var intentRules = []intentRule{
	{
		intent: IntentClassroom,
		keywords: []string{
			"classroom", "class room", "free room", "empty room",
			"available room", "vacant", "free class", "empty class",
			"room free", "room available", "lecture hall", "lab free",
			"free lab",
		},
	},
	{
		intent: IntentLibrary,
		keywords: []string{
			"library", "occupancy", "seats", "seat", "crowded", "crowd",
			"study space", "reading room", "how full",
		},
	},
	{
		intent: IntentFaculty,
		keywords: []string{
			"faculty", "professor", "teacher", "cabin", "sir", "madam",
			"mam", "where is", "hod", "dr.", "dr ", "staff", "lecturer",
		},
	},
}

// Classify maps a raw message to an intent. Matching is substring-based
// over the normalized message, so the "seat" keyword also fires inside
// "seating". Unmatched messages classify as IntentUnknown.
func Classify(message string) Intent {
	normalized := stringutil.NormalizeQuery(message)
	if normalized == "" {
		return IntentUnknown
	}

	for _, rule := range intentRules {
		for _, keyword := range rule.keywords {
			if strings.Contains(normalized, keyword) {
				return rule.intent
			}
		}
	}
	return IntentUnknown
}
