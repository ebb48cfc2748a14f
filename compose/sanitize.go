package compose

import "strings"

// fallbackNodeName is used when sanitization leaves nothing usable.
const fallbackNodeName = "node"

// SanitizeNodeName produces a display name safe for the scene
// document: whitespace is trimmed, every character outside
// [A-Za-z0-9 _-] becomes one underscore, and a result that is empty or
// all underscores collapses to "node". Idempotent.
func SanitizeNodeName(name string) string {
	name = strings.TrimSpace(name)

	var b strings.Builder
	b.Grow(len(name))
	underscores := 0
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == ' ', r == '-':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
			underscores++
		}
	}

	out := b.String()
	if out == "" || underscores == len(out) {
		return fallbackNodeName
	}
	return out
}
