// Package sanitize normalizes and bounds untrusted string fields before
// validation. Stripping '<' and '>' is a denylist against trivial HTML
// injection in downstream email rendering, not context-aware escaping; the
// rendering side must still escape on output.
package sanitize

import "strings"

// DefaultMaxLength is the global length ceiling applied to every field.
const DefaultMaxLength = 2000

// Sanitizer trims, strips disallowed characters, and length-caps raw input.
type Sanitizer struct {
	maxLength int
}

// New constructs a Sanitizer with the given length ceiling. Non-positive
// ceilings fall back to DefaultMaxLength.
func New(maxLength int) *Sanitizer {
	if maxLength <= 0 {
		maxLength = DefaultMaxLength
	}
	return &Sanitizer{maxLength: maxLength}
}

// Clean sanitizes a raw field value. Non-string input yields the empty
// string. The result carries no leading/trailing whitespace, no '<' or '>'
// characters, and at most maxLength runes. Clean is idempotent.
func (s *Sanitizer) Clean(raw any) string {
	value, ok := raw.(string)
	if !ok {
		return ""
	}
	value = strings.Map(dropAngleBrackets, value)
	value = strings.TrimSpace(value)
	if runes := []rune(value); len(runes) > s.maxLength {
		value = strings.TrimSpace(string(runes[:s.maxLength]))
	}
	return value
}

// MaxLength returns the configured length ceiling.
func (s *Sanitizer) MaxLength() int { return s.maxLength }

// dropAngleBrackets removes '<' and '>' and keeps everything else.
func dropAngleBrackets(r rune) rune {
	if r == '<' || r == '>' {
		return -1
	}
	return r
}
