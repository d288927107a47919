// Package slug derives URL-safe identifiers from display names. Slugs are
// the public keys of the catalog: universities are addressed by slug and
// dorms by (universitySlug, slug).
package slug

import "strings"

// Make lowercases the name, maps runs of separators to a single hyphen,
// drops apostrophes without a break ("George's" → "georges"), and discards
// everything else outside [a-z0-9-]. It is idempotent:
// Make(Make(x)) == Make(x).
func Make(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	lastHyphen := true // suppress a leading hyphen
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		case r == ' ' || r == '-' || r == '_' || r == '.' || r == '/':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	return strings.TrimRight(b.String(), "-")
}
