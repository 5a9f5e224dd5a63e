// internal/notify/topic.go
package notify

import "strings"

// BroadcastTopic is subscribed to by every installed client.
const BroadcastTopic = "all"

// NormalizeTopic maps an arbitrary targeting value (state name, interest
// name, user or event identifier) onto a valid gateway topic name:
// lowercase, with every rune outside [a-z0-9_-] replaced by an underscore.
// This is the only binding between human-readable targeting values and
// topic names, so it must be applied identically on the subscribe side.
// Normalization is idempotent.
func NormalizeTopic(value string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z':
			return r + ('a' - 'A')
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '-':
			return r
		default:
			return '_'
		}
	}, value)
}

// CompoundTopic joins normalized parts with a dash, e.g. interest-state.
func CompoundTopic(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		normalized[i] = NormalizeTopic(p)
	}
	return strings.Join(normalized, "-")
}

// FavoriteTopic is the per-event channel for users who favorited the event.
func FavoriteTopic(eventID string) string {
	return "favorite-" + NormalizeTopic(eventID)
}
