package content

import (
	"strings"
	"time"
)

// Feed window identifiers accepted by the public content endpoint.
const (
	WindowAll   = "all"
	WindowDay   = "day"
	WindowWeek  = "week"
	WindowMonth = "month"
)

// Filter narrows the feed. Zero values mean "no constraint"; Limit <= 0
// means no page cap.
type Filter struct {
	Type     string // Content type, e.g. "post" or "video".
	Tag      string // Single tag match, case-insensitive.
	Window   string // Trailing time window relative to now.
	Featured bool   // Keep only featured entries.
	Offset   int
	Limit    int
}

// windowCutoff returns the earliest date admitted by the window, or zero
// time for "all" and unrecognized values.
func windowCutoff(window string, now time.Time) time.Time {
	switch strings.ToLower(strings.TrimSpace(window)) {
	case WindowDay:
		return now.AddDate(0, 0, -1)
	case WindowWeek:
		return now.AddDate(0, 0, -7)
	case WindowMonth:
		return now.AddDate(0, -1, 0)
	default:
		return time.Time{}
	}
}

// Apply filters the snapshot, preserving its newest-first order, then
// applies offset and limit pagination.
func Apply(items []Item, filter Filter, now time.Time) []Item {
	cutoff := windowCutoff(filter.Window, now)

	matched := make([]Item, 0, len(items))
	for _, item := range items {
		if filter.Type != "" && !strings.EqualFold(item.Type, filter.Type) {
			continue
		}
		if filter.Tag != "" && !item.HasTag(filter.Tag) {
			continue
		}
		if filter.Featured && !item.Featured {
			continue
		}
		if !cutoff.IsZero() && item.Date.Before(cutoff) {
			continue
		}
		matched = append(matched, item)
	}

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []Item{}
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched
}
