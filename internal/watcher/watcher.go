// Package watcher polls the settings table and the content directory so
// dashboard edits and new markdown entries go live without a restart.
package watcher

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	internalsettings "github.com/makemikefulleragain/kamunity-10july-sub001/internal/settings"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Default timings for the watcher loop.
const (
	// defaultPollInterval controls how often sources are checked.
	defaultPollInterval = 30 * time.Second
	// defaultQueryTimeout bounds DB query duration.
	defaultQueryTimeout = 10 * time.Second
)

// Watcher refreshes in-memory snapshots when their backing sources change.
type Watcher struct {
	db    *gorm.DB
	store *content.Store
	dir   string

	pollInterval time.Duration

	// settings snapshot state
	settingsLatestAt time.Time
	settingsCount    int64
	hasSettingsState bool

	// content snapshot state
	contentLatestAt time.Time
	contentCount    int
	hasContentState bool
}

// New constructs a watcher over the settings table and content directory.
// The content store may be nil when no feed is configured.
func New(db *gorm.DB, store *content.Store, contentDir string) *Watcher {
	return &Watcher{
		db:           db,
		store:        store,
		dir:          contentDir,
		pollInterval: defaultPollInterval,
	}
}

// Start runs the poll loop until the context is canceled.
func (w *Watcher) Start(ctx context.Context) {
	if w == nil {
		return
	}
	go func() {
		ticker := time.NewTicker(w.pollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				w.pollOnce(ctx)
			}
		}
	}()
}

func (w *Watcher) pollOnce(ctx context.Context) {
	queryCtx, cancel := context.WithTimeout(ctx, defaultQueryTimeout)
	defer cancel()

	if changed, errCheck := w.settingsChanged(queryCtx); errCheck != nil {
		log.WithError(errCheck).Warn("settings change check failed")
	} else if changed {
		if errRefresh := internalsettings.Refresh(queryCtx, w.db); errRefresh != nil {
			log.WithError(errRefresh).Warn("settings snapshot refresh failed")
		} else {
			log.Info("settings snapshot refreshed")
		}
	}

	if w.store == nil {
		return
	}
	if changed, errCheck := w.contentChanged(); errCheck != nil {
		log.WithError(errCheck).Warn("content change check failed")
	} else if changed {
		if errReload := w.store.Reload(); errReload != nil {
			log.WithError(errReload).Warn("content reload failed")
		} else {
			log.Info("content feed reloaded")
		}
	}
}

// settingsChanged compares the table's row count and newest updated_at
// against the last poll.
func (w *Watcher) settingsChanged(ctx context.Context) (bool, error) {
	var count int64
	if errCount := w.db.WithContext(ctx).Model(&models.Setting{}).Count(&count).Error; errCount != nil {
		return false, errCount
	}
	var latest models.Setting
	errFind := w.db.WithContext(ctx).Order("updated_at DESC").Limit(1).Find(&latest).Error
	if errFind != nil {
		return false, errFind
	}

	// First poll establishes the baseline; the boot path already refreshed.
	firstPoll := !w.hasSettingsState
	changed := count != w.settingsCount || latest.UpdatedAt.After(w.settingsLatestAt)
	w.settingsCount = count
	w.settingsLatestAt = latest.UpdatedAt
	w.hasSettingsState = true
	if firstPoll {
		return false, nil
	}
	return changed, nil
}

// contentChanged compares the directory's markdown file count and newest
// modification time against the last poll.
func (w *Watcher) contentChanged() (bool, error) {
	entries, errRead := os.ReadDir(w.dir)
	if errRead != nil {
		return false, errRead
	}
	var latest time.Time
	count := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".md") {
			continue
		}
		count++
		info, errStat := os.Stat(filepath.Join(w.dir, entry.Name()))
		if errStat != nil {
			continue
		}
		if info.ModTime().After(latest) {
			latest = info.ModTime()
		}
	}

	changed := w.hasContentState && (count != w.contentCount || latest.After(w.contentLatestAt))
	w.contentCount = count
	w.contentLatestAt = latest
	w.hasContentState = true
	return changed, nil
}
