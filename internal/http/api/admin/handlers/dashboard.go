package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"gorm.io/gorm"
)

// DashboardHandler aggregates KPIs for the admin landing page.
type DashboardHandler struct {
	db *gorm.DB
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{db: db}
}

// KPI returns headline counts: total and unread messages, subscribers, and
// events captured in the last 7 days.
func (h *DashboardHandler) KPI(c *gin.Context) {
	ctx := c.Request.Context()

	var totalMessages, unreadMessages, totalSubscribers, weekEvents int64
	if errCount := h.db.WithContext(ctx).Model(&models.ContactMessage{}).Count(&totalMessages).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kpi query failed"})
		return
	}
	if errCount := h.db.WithContext(ctx).Model(&models.ContactMessage{}).
		Where("status = ?", models.ContactStatusUnread).
		Count(&unreadMessages).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kpi query failed"})
		return
	}
	if errCount := h.db.WithContext(ctx).Model(&models.Subscriber{}).Count(&totalSubscribers).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kpi query failed"})
		return
	}
	weekStart := time.Now().UTC().AddDate(0, 0, -7)
	if errCount := h.db.WithContext(ctx).Model(&models.AnalyticsEvent{}).
		Where("created_at >= ?", weekStart).
		Count(&weekEvents).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "kpi query failed"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"total_messages":    totalMessages,
		"unread_messages":   unreadMessages,
		"total_subscribers": totalSubscribers,
		"week_events":       weekEvents,
	})
}

// Trend returns per-day event counts for the trailing 7 days, split by kind.
func (h *DashboardHandler) Trend(c *gin.Context) {
	now := time.Now().UTC()
	weekStart := now.AddDate(0, 0, -7)

	var rows []models.AnalyticsEvent
	if errFind := h.db.WithContext(c.Request.Context()).
		Where("created_at >= ?", weekStart).
		Order("created_at ASC").
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "trend query failed"})
		return
	}

	// Bucket in Go rather than SQL so the query stays portable across
	// SQLite and Postgres date functions.
	type bucket struct {
		Contact   int64
		Subscribe int64
	}
	buckets := make(map[string]*bucket, 7)
	days := make([]string, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		buckets[day] = &bucket{}
		days = append(days, day)
	}
	for _, row := range rows {
		day := row.CreatedAt.UTC().Format("2006-01-02")
		entry, ok := buckets[day]
		if !ok {
			continue
		}
		switch row.Kind {
		case models.EventContactSubmitted:
			entry.Contact++
		case models.EventSubscribeCaptured:
			entry.Subscribe++
		}
	}

	out := make([]gin.H, 0, len(days))
	for _, day := range days {
		out = append(out, gin.H{
			"date":      day,
			"contact":   buckets[day].Contact,
			"subscribe": buckets[day].Subscribe,
		})
	}
	c.JSON(http.StatusOK, gin.H{"days": out})
}
