// Package validate provides the format and length predicates applied to
// sanitized submission fields. Every check is a total function: it returns a
// definite verdict and never panics.
package validate

import (
	"fmt"
	"regexp"
	"unicode/utf8"
)

// maxEmailLength caps the overall email length per RFC 5321 transport limits.
const maxEmailLength = 254

// emailPattern is intentionally permissive: something before an '@',
// something after it, and at least one dot in the domain part. It is not an
// RFC 5322 parser and is not meant to become one.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// Email reports whether s looks like a deliverable email address.
func Email(s string) bool {
	if s == "" || utf8.RuneCountInString(s) > maxEmailLength {
		return false
	}
	return emailPattern.MatchString(s)
}

// Result is the verdict of a single field check.
type Result struct {
	OK     bool
	Field  string
	Reason string
}

// pass returns a passing verdict for the field.
func pass(field string) Result {
	return Result{OK: true, Field: field}
}

// fail returns a failing verdict with a caller-facing reason.
func fail(field, reason string) Result {
	return Result{OK: false, Field: field, Reason: reason}
}

// LengthRange checks that the rune count of value falls within [min, max],
// producing a field-specific reason per violated bound.
func LengthRange(field, value string, min, max int) Result {
	n := utf8.RuneCountInString(value)
	if n < min {
		return fail(field, fmt.Sprintf("%s must be at least %d characters", field, min))
	}
	if n > max {
		return fail(field, fmt.Sprintf("%s must be at most %d characters", field, max))
	}
	return pass(field)
}

// EmailField checks that value is a plausible email address.
func EmailField(field, value string) Result {
	if !Email(value) {
		return fail(field, fmt.Sprintf("%s must be a valid email address", field))
	}
	return pass(field)
}

// Bounds for the contact-form fields.
const (
	NameMin    = 2
	NameMax    = 100
	SubjectMin = 5
	SubjectMax = 200
	MessageMin = 10
	MessageMax = 2000
)

// Name checks the contact-form name bounds.
func Name(value string) Result { return LengthRange("name", value, NameMin, NameMax) }

// Subject checks the contact-form subject bounds.
func Subject(value string) Result { return LengthRange("subject", value, SubjectMin, SubjectMax) }

// Message checks the contact-form message bounds.
func Message(value string) Result { return LengthRange("message", value, MessageMin, MessageMax) }
