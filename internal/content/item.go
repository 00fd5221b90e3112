package content

import (
	"strings"
	"time"
)

// Item is one published media entry loaded from a markdown file.
type Item struct {
	Title    string    `yaml:"title" json:"title"`
	Slug     string    `yaml:"slug" json:"slug"`
	Type     string    `yaml:"type" json:"type"`
	Tags     []string  `yaml:"tags" json:"tags"`
	Date     time.Time `yaml:"date" json:"date"`
	Featured bool      `yaml:"featured" json:"featured"`
	Summary  string    `yaml:"summary" json:"summary"`
	Body     string    `yaml:"-" json:"body,omitempty"`
}

// HasTag reports whether the item carries the tag, case-insensitively.
func (i *Item) HasTag(tag string) bool {
	for _, t := range i.Tags {
		if strings.EqualFold(t, tag) {
			return true
		}
	}
	return false
}
