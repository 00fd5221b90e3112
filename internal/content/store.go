// Package content loads the markdown media feed from disk. Each entry is a
// .md file with a YAML frontmatter block; the store keeps a sorted in-memory
// snapshot that can be reloaded without restarting the server.
package content

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	log "github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

var frontmatterDelimiter = []byte("---")

// ErrNotFound indicates no item exists for the requested slug.
var ErrNotFound = errors.New("content: item not found")

// Store holds the loaded feed. Reads take a snapshot under the lock;
// Reload swaps the whole slice so readers never see a partial load.
type Store struct {
	dir   string
	mu    sync.RWMutex
	items []Item
}

// NewStore creates a store over the given content directory.
func NewStore(dir string) *Store {
	return &Store{dir: dir}
}

// Reload re-reads every markdown file in the directory. Files that fail to
// parse are logged and skipped so one bad entry never empties the feed.
func (s *Store) Reload() error {
	entries, errRead := os.ReadDir(s.dir)
	if errRead != nil {
		return fmt.Errorf("content: read dir %s: %w", s.dir, errRead)
	}

	items := make([]Item, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		path := filepath.Join(s.dir, entry.Name())
		item, errParse := parseFile(path)
		if errParse != nil {
			log.WithError(errParse).WithField("file", entry.Name()).Warn("skipping unparseable content file")
			continue
		}
		items = append(items, item)
	}

	// Newest first; ties broken by slug for a stable feed order.
	sort.Slice(items, func(a, b int) bool {
		if !items[a].Date.Equal(items[b].Date) {
			return items[a].Date.After(items[b].Date)
		}
		return items[a].Slug < items[b].Slug
	})

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()
	return nil
}

// Items returns a copy of the current snapshot, newest first.
func (s *Store) Items() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

// BySlug returns the item with the given slug.
func (s *Store) BySlug(slug string) (Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, item := range s.items {
		if item.Slug == slug {
			return item, nil
		}
	}
	return Item{}, ErrNotFound
}

// parseFile splits a markdown file into frontmatter and body. The file must
// open with a --- line; the frontmatter runs to the next --- line.
func parseFile(path string) (Item, error) {
	raw, errRead := os.ReadFile(path)
	if errRead != nil {
		return Item{}, fmt.Errorf("content: read %s: %w", path, errRead)
	}

	header, body, errSplit := splitFrontmatter(raw)
	if errSplit != nil {
		return Item{}, fmt.Errorf("content: %s: %w", filepath.Base(path), errSplit)
	}

	var item Item
	if errDecode := yaml.Unmarshal(header, &item); errDecode != nil {
		return Item{}, fmt.Errorf("content: decode frontmatter of %s: %w", filepath.Base(path), errDecode)
	}
	item.Body = strings.TrimSpace(string(body))
	if item.Slug == "" {
		item.Slug = slugFromFilename(path)
	}
	if item.Title == "" {
		return Item{}, fmt.Errorf("content: %s: missing title", filepath.Base(path))
	}
	return item, nil
}

func splitFrontmatter(raw []byte) (header, body []byte, err error) {
	trimmed := bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})
	trimmed = bytes.TrimLeft(trimmed, "\r\n")
	if !bytes.HasPrefix(trimmed, frontmatterDelimiter) {
		return nil, nil, errors.New("missing frontmatter block")
	}
	rest := trimmed[len(frontmatterDelimiter):]
	end := bytes.Index(rest, append([]byte("\n"), frontmatterDelimiter...))
	if end < 0 {
		return nil, nil, errors.New("unterminated frontmatter block")
	}
	header = rest[:end]
	body = rest[end+1+len(frontmatterDelimiter):]
	return header, body, nil
}

func slugFromFilename(path string) string {
	base := filepath.Base(path)
	return strings.ToLower(strings.TrimSuffix(base, ".md"))
}
