// internal/app/system/slug/slug.go

// Package slug derives URL slugs for verified organizations.
package slug

import "strings"

// Make builds a slug from an organization name and its id hex: the name is
// lowercased, runs of non-alphanumeric characters collapse to single
// hyphens, and the last six characters of the id are appended to keep
// same-named organizations distinct. Deterministic for a given input pair.
func Make(name, idHex string) string {
	var b strings.Builder
	b.Grow(len(name) + 7)
	hyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			hyphen = false
		default:
			if !hyphen && b.Len() > 0 {
				b.WriteByte('-')
				hyphen = true
			}
		}
	}
	s := strings.TrimSuffix(b.String(), "-")

	suffix := idHex
	if len(suffix) > 6 {
		suffix = suffix[len(suffix)-6:]
	}
	if s == "" {
		return suffix
	}
	return s + "-" + suffix
}
