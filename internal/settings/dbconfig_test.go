package settings

import (
	"encoding/json"
	"testing"
)

func TestIntValueFormsAndFallback(t *testing.T) {
	ReplaceDBConfig(map[string]json.RawMessage{
		"NUMBER": json.RawMessage(`42`),
		"QUOTED": json.RawMessage(`"17"`),
		"BAD":    json.RawMessage(`"not a number"`),
		"ZERO":   json.RawMessage(`0`),
	})
	t.Cleanup(func() { ReplaceDBConfig(nil) })

	if got := IntValue("NUMBER", 1); got != 42 {
		t.Fatalf("number form: got %d", got)
	}
	if got := IntValue("QUOTED", 1); got != 17 {
		t.Fatalf("quoted form: got %d", got)
	}
	if got := IntValue("BAD", 9); got != 9 {
		t.Fatalf("bad value must fall back: got %d", got)
	}
	if got := IntValue("ZERO", 9); got != 9 {
		t.Fatalf("non-positive must fall back: got %d", got)
	}
	if got := IntValue("MISSING", 5); got != 5 {
		t.Fatalf("missing key must fall back: got %d", got)
	}
}

func TestStringValue(t *testing.T) {
	ReplaceDBConfig(map[string]json.RawMessage{
		"NAME":  json.RawMessage(`"Kamunity"`),
		"EMPTY": json.RawMessage(`""`),
	})
	t.Cleanup(func() { ReplaceDBConfig(nil) })

	if got := StringValue("NAME", "x"); got != "Kamunity" {
		t.Fatalf("got %q", got)
	}
	if got := StringValue("EMPTY", "fallback"); got != "fallback" {
		t.Fatalf("empty must fall back: got %q", got)
	}
	if got := StringValue("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("missing must fall back: got %q", got)
	}
}
