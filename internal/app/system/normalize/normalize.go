// internal/app/system/normalize/normalize.go
//
// Package normalize trims and canonicalizes request input before
// validation and storage.
package normalize

import "strings"

// Email lowercases and trims an email address.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims a display name, preserving case.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Status lowercases and trims a status value.
func Status(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Role lowercases and trims a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Serial uppercases and trims a certificate serial so lookups are
// case-insensitive.
func Serial(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
