package content

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeEntry(t *testing.T, dir, name, body string) {
	t.Helper()
	if errWrite := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); errWrite != nil {
		t.Fatalf("write %s: %v", name, errWrite)
	}
}

func newLoadedStore(t *testing.T) *Store {
	t.Helper()
	dir := t.TempDir()
	writeEntry(t, dir, "launch.md", `---
title: Launch Week
slug: launch-week
type: post
tags: [news, launch]
date: 2026-08-20T10:00:00Z
featured: true
summary: We are live.
---
Body of the launch post.
`)
	writeEntry(t, dir, "roundtable.md", `---
title: Community Roundtable
type: video
tags: [community]
date: 2026-08-25T09:00:00Z
summary: Monthly call recording.
---
Watch the recording.
`)
	writeEntry(t, dir, "archive.md", `---
title: From the Archive
slug: archive-piece
type: post
tags: [news]
date: 2026-06-01T08:00:00Z
---
Old but gold.
`)
	writeEntry(t, dir, "broken.md", "no frontmatter here")
	writeEntry(t, dir, "notes.txt", "not markdown, ignored")

	store := NewStore(dir)
	if errReload := store.Reload(); errReload != nil {
		t.Fatalf("reload: %v", errReload)
	}
	return store
}

func TestReloadParsesAndSortsNewestFirst(t *testing.T) {
	store := newLoadedStore(t)
	items := store.Items()
	if len(items) != 3 {
		t.Fatalf("expected 3 items (broken and non-md skipped), got %d", len(items))
	}
	if items[0].Slug != "roundtable" {
		t.Fatalf("expected newest first, got %q", items[0].Slug)
	}
	if items[2].Slug != "archive-piece" {
		t.Fatalf("expected oldest last, got %q", items[2].Slug)
	}
}

func TestSlugDefaultsToFilename(t *testing.T) {
	store := newLoadedStore(t)
	item, errFind := store.BySlug("roundtable")
	if errFind != nil {
		t.Fatalf("expected filename-derived slug: %v", errFind)
	}
	if item.Type != "video" {
		t.Fatalf("unexpected type %q", item.Type)
	}
	if item.Body != "Watch the recording." {
		t.Fatalf("unexpected body %q", item.Body)
	}
}

func TestBySlugNotFound(t *testing.T) {
	store := newLoadedStore(t)
	if _, errFind := store.BySlug("missing"); !errors.Is(errFind, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", errFind)
	}
}

func TestApplyTypeAndTagFilters(t *testing.T) {
	store := newLoadedStore(t)
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	posts := Apply(store.Items(), Filter{Type: "post"}, now)
	if len(posts) != 2 {
		t.Fatalf("expected 2 posts, got %d", len(posts))
	}

	news := Apply(store.Items(), Filter{Tag: "NEWS"}, now)
	if len(news) != 2 {
		t.Fatalf("expected case-insensitive tag match, got %d", len(news))
	}

	featured := Apply(store.Items(), Filter{Featured: true}, now)
	if len(featured) != 1 || featured[0].Slug != "launch-week" {
		t.Fatalf("expected only the featured launch post, got %v", featured)
	}
}

func TestApplyTimeWindows(t *testing.T) {
	store := newLoadedStore(t)
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	week := Apply(store.Items(), Filter{Window: WindowWeek}, now)
	if len(week) != 2 {
		t.Fatalf("expected 2 items within a week, got %d", len(week))
	}

	day := Apply(store.Items(), Filter{Window: WindowDay}, now)
	if len(day) != 1 || day[0].Slug != "roundtable" {
		t.Fatalf("expected only the newest item within a day, got %v", day)
	}

	all := Apply(store.Items(), Filter{Window: WindowAll}, now)
	if len(all) != 3 {
		t.Fatalf("expected all items, got %d", len(all))
	}
}

func TestApplyPagination(t *testing.T) {
	store := newLoadedStore(t)
	now := time.Date(2026, 8, 26, 0, 0, 0, 0, time.UTC)

	page := Apply(store.Items(), Filter{Offset: 1, Limit: 1}, now)
	if len(page) != 1 || page[0].Slug != "launch-week" {
		t.Fatalf("expected second item only, got %v", page)
	}

	empty := Apply(store.Items(), Filter{Offset: 10}, now)
	if len(empty) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(empty))
	}
}
