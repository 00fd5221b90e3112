package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// ContactHandler serves contact-form submissions to the dashboard.
type ContactHandler struct {
	db *gorm.DB
}

// NewContactHandler constructs a ContactHandler.
func NewContactHandler(db *gorm.DB) *ContactHandler {
	return &ContactHandler{db: db}
}

// List returns messages newest first, optionally filtered by read status.
func (h *ContactHandler) List(c *gin.Context) {
	page, pageSize := parsePagination(c)

	query := h.db.WithContext(c.Request.Context()).Model(&models.ContactMessage{})
	if status := strings.TrimSpace(c.Query("status")); status != "" {
		if status != models.ContactStatusUnread && status != models.ContactStatusRead {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status"})
			return
		}
		query = query.Where("status = ?", status)
	}

	var total int64
	if errCount := query.Count(&total).Error; errCount != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list messages failed"})
		return
	}

	var rows []models.ContactMessage
	if errFind := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&rows).Error; errFind != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "list messages failed"})
		return
	}

	out := make([]gin.H, 0, len(rows))
	for _, row := range rows {
		out = append(out, formatContactMessage(&row, false))
	}
	c.JSON(http.StatusOK, gin.H{"messages": out, "total": total, "page": page, "page_size": pageSize})
}

// Get returns one message with its full body.
func (h *ContactHandler) Get(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}
	var row models.ContactMessage
	if errFind := h.db.WithContext(c.Request.Context()).First(&row, id).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "query failed"})
		return
	}
	c.JSON(http.StatusOK, formatContactMessage(&row, true))
}

// MarkRead flips a message to the read state. Marking an already-read
// message is a no-op success.
func (h *ContactHandler) MarkRead(c *gin.Context) {
	id, errParse := strconv.ParseUint(c.Param("id"), 10, 64)
	if errParse != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return
	}

	result := h.db.WithContext(c.Request.Context()).
		Model(&models.ContactMessage{}).
		Where("id = ?", id).
		Update("status", models.ContactStatusRead)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "update failed"})
		return
	}
	if result.RowsAffected == 0 {
		var exists int64
		h.db.WithContext(c.Request.Context()).Model(&models.ContactMessage{}).Where("id = ?", id).Count(&exists)
		if exists == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": models.ContactStatusRead})
}

func formatContactMessage(m *models.ContactMessage, includeBody bool) gin.H {
	out := gin.H{
		"id":         m.ID,
		"reference":  m.Reference,
		"name":       m.Name,
		"email":      m.Email,
		"subject":    m.Subject,
		"status":     m.Status,
		"client_ip":  m.ClientIP,
		"device":     m.Device,
		"created_at": m.CreatedAt,
	}
	if includeBody {
		out["message"] = m.Message
	}
	return out
}

func parsePagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}
