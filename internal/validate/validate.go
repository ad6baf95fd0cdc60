// Package validate holds the format predicates shared by the booking and
// user-management flows. All of them are pure; callers decide how failures
// map to HTTP responses.
package validate

import (
	"regexp"
	"strings"
)

var (
	// 10 digits, first digit 6-9, after canonicalization.
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)

	// local@domain.tld shape. Identity comparisons downstream are
	// case-insensitive; this only checks structure.
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	upperRe   = regexp.MustCompile(`[A-Z]`)
	lowerRe   = regexp.MustCompile(`[a-z]`)
	digitRe   = regexp.MustCompile(`\d`)
	specialRe = regexp.MustCompile(`[!@#$%^&*(),.?":{}|<>]`)
)

// Phone strips whitespace, hyphens, and parentheses, and reports whether the
// canonical form is a valid phone number. The canonical form is returned even
// when invalid so callers can include it in error messages.
func Phone(raw string) (string, bool) {
	clean := strings.NewReplacer(" ", "", "-", "", "(", "", ")", "", "\t", "").Replace(raw)
	return clean, phoneRe.MatchString(clean)
}

// Email reports whether raw has a well-formed local@domain.tld shape.
func Email(raw string) bool {
	return emailRe.MatchString(raw)
}

// NormalizeEmail returns the canonical form used for identity matching.
func NormalizeEmail(raw string) string {
	return strings.ToLower(strings.TrimSpace(raw))
}

// Password checks the password strength rules and returns one message per
// unmet rule, in a stable order. An empty slice means the password is
// acceptable. Each rule is reported independently so the UI can render a
// requirements checklist.
func Password(pw string) []string {
	var unmet []string
	if len(pw) < 8 {
		unmet = append(unmet, "Password must be at least 8 characters.")
	}
	if !upperRe.MatchString(pw) {
		unmet = append(unmet, "Password must contain at least one uppercase letter.")
	}
	if !lowerRe.MatchString(pw) {
		unmet = append(unmet, "Password must contain at least one lowercase letter.")
	}
	if !digitRe.MatchString(pw) {
		unmet = append(unmet, "Password must contain at least one number.")
	}
	if !specialRe.MatchString(pw) {
		unmet = append(unmet, "Password must contain at least one special character.")
	}
	return unmet
}
