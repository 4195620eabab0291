// Package normalize trims and canonicalizes user input before it is
// validated or stored.
package normalize

import "strings"

// Text collapses surrounding whitespace.
func Text(s string) string { return strings.TrimSpace(s) }

// Email lowercases and trims an email address.
func Email(s string) string { return strings.ToLower(strings.TrimSpace(s)) }

// TeamCode uppercases and trims a team invite code so user-typed codes
// match the stored form.
func TeamCode(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }

// Department uppercases and trims a department code.
func Department(s string) string { return strings.ToUpper(strings.TrimSpace(s)) }
