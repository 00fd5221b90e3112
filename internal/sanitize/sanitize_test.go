package sanitize

import (
	"strings"
	"testing"
)

func TestCleanNonString(t *testing.T) {
	s := New(0)
	for _, raw := range []any{nil, 42, 3.14, true, []string{"x"}, map[string]any{"a": 1}} {
		if got := s.Clean(raw); got != "" {
			t.Fatalf("expected empty string for %T, got %q", raw, got)
		}
	}
}

func TestCleanTrimsAndStrips(t *testing.T) {
	s := New(0)
	got := s.Clean("  <b>hello</b> world  ")
	if got != "bhello/b world" {
		t.Fatalf("expected stripped output, got %q", got)
	}
	if strings.ContainsAny(got, "<>") {
		t.Fatalf("output still contains angle brackets: %q", got)
	}
}

func TestCleanLengthCeiling(t *testing.T) {
	s := New(0)
	long := strings.Repeat("a", 5000)
	got := s.Clean(long)
	if len([]rune(got)) != DefaultMaxLength {
		t.Fatalf("expected %d runes, got %d", DefaultMaxLength, len([]rune(got)))
	}
}

func TestCleanCustomCeiling(t *testing.T) {
	s := New(10)
	got := s.Clean("abcdefghij-tail")
	if got != "abcdefghij" {
		t.Fatalf("expected 10-rune cap, got %q", got)
	}
}

func TestCleanIdempotent(t *testing.T) {
	s := New(0)
	inputs := []string{
		"  plain  ",
		"<script>alert(1)</script>",
		strings.Repeat("x ", 1500),
		"\t\nmixed <tags> and space ",
	}
	for _, input := range inputs {
		once := s.Clean(input)
		twice := s.Clean(once)
		if once != twice {
			t.Fatalf("not idempotent for %q: %q != %q", input, once, twice)
		}
	}
}

func TestCleanTrimsAfterTruncation(t *testing.T) {
	s := New(5)
	// Truncation at the ceiling can expose trailing whitespace; it must not survive.
	got := s.Clean("abcd  efgh")
	if got != strings.TrimSpace(got) {
		t.Fatalf("expected trimmed output, got %q", got)
	}
}
