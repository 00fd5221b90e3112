package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	conn, errOpen := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if errOpen != nil {
		t.Fatalf("open db: %v", errOpen)
	}
	if errMigrate := conn.AutoMigrate(&models.Setting{}); errMigrate != nil {
		t.Fatalf("migrate: %v", errMigrate)
	}
	return conn
}

func TestSettingsChangedBaselineAndUpdate(t *testing.T) {
	conn := openTestDB(t)
	w := New(conn, nil, "")
	ctx := context.Background()

	changed, errCheck := w.settingsChanged(ctx)
	if errCheck != nil {
		t.Fatalf("check: %v", errCheck)
	}
	if changed {
		t.Fatalf("first poll must only establish the baseline")
	}

	setting := models.Setting{Key: "SITE_NAME", Value: datatypes.JSON(`"Kamunity"`)}
	if errCreate := conn.Create(&setting).Error; errCreate != nil {
		t.Fatalf("create: %v", errCreate)
	}

	changed, errCheck = w.settingsChanged(ctx)
	if errCheck != nil {
		t.Fatalf("check: %v", errCheck)
	}
	if !changed {
		t.Fatalf("expected change after insert")
	}

	changed, errCheck = w.settingsChanged(ctx)
	if errCheck != nil {
		t.Fatalf("check: %v", errCheck)
	}
	if changed {
		t.Fatalf("expected no change without edits")
	}
}

func TestContentChangedDetectsNewFile(t *testing.T) {
	dir := t.TempDir()
	entry := `---
title: First
date: 2026-08-20T10:00:00Z
---
Body.
`
	if errWrite := os.WriteFile(filepath.Join(dir, "first.md"), []byte(entry), 0o644); errWrite != nil {
		t.Fatalf("write: %v", errWrite)
	}

	store := content.NewStore(dir)
	if errReload := store.Reload(); errReload != nil {
		t.Fatalf("reload: %v", errReload)
	}

	w := New(nil, store, dir)
	changed, errCheck := w.contentChanged()
	if errCheck != nil {
		t.Fatalf("check: %v", errCheck)
	}
	if changed {
		t.Fatalf("first poll must only establish the baseline")
	}

	// Backdate nothing; a new file bumps the count regardless of mtime.
	if errWrite := os.WriteFile(filepath.Join(dir, "second.md"), []byte(entry), 0o644); errWrite != nil {
		t.Fatalf("write: %v", errWrite)
	}
	changed, errCheck = w.contentChanged()
	if errCheck != nil {
		t.Fatalf("check: %v", errCheck)
	}
	if !changed {
		t.Fatalf("expected change after new file")
	}
}

func TestPollOnceReloadsContent(t *testing.T) {
	conn := openTestDB(t)
	dir := t.TempDir()
	store := content.NewStore(dir)
	if errReload := store.Reload(); errReload != nil {
		t.Fatalf("reload: %v", errReload)
	}

	w := New(conn, store, dir)
	ctx := context.Background()
	w.pollOnce(ctx)

	entry := `---
title: Late Arrival
date: 2026-08-25T10:00:00Z
---
Body.
`
	if errWrite := os.WriteFile(filepath.Join(dir, "late.md"), []byte(entry), 0o644); errWrite != nil {
		t.Fatalf("write: %v", errWrite)
	}
	w.pollOnce(ctx)

	if len(store.Items()) != 1 {
		t.Fatalf("expected store reload to pick up the new entry, got %d items", len(store.Items()))
	}
}
