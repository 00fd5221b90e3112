package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	internaldb "github.com/makemikefulleragain/kamunity-10july-sub001/internal/db"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"gorm.io/gorm"
)

// SubscriberHandler serves the subscriber list to the dashboard.
type SubscriberHandler struct {
	db *gorm.DB
}

// NewSubscriberHandler constructs a SubscriberHandler.
func NewSubscriberHandler(db *gorm.DB) *SubscriberHandler {
	return &SubscriberHandler{db: db}
}

// List returns subscribers newest first, with optional email search and
// source filter.
func (h *SubscriberHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.Subscriber{})
	if search := strings.TrimSpace(c.Query("search")); search != "" {
		pattern := internaldb.NormalizeLikePattern(h.db, "%"+search+"%")
		query = query.Where(internaldb.CaseInsensitiveLikeExpr(h.db, "email"), pattern)
	}
	if source := strings.TrimSpace(c.Query("source")); source != "" {
		query = query.Where("source = ?", source)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list subscribers failed"})
		return
	}

	var rows []models.Subscriber
	if errFind := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list subscribers failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, gin.H{
			"id":         row.ID,
			"email":      row.Email,
			"source":     row.Source,
			"confirmed":  row.Confirmed,
			"client_ip":  row.ClientIP,
			"created_at": row.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"subscribers": out, "total": total, "page": page, "page_size": pageSize})
}
