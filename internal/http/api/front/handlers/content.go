package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
)

const defaultFeedLimit = 20

// ContentFrontHandler serves the public media feed.
type ContentFrontHandler struct {
	store *content.Store
}

// NewContentFrontHandler constructs a ContentFrontHandler.
func NewContentFrontHandler(store *content.Store) *ContentFrontHandler {
	return &ContentFrontHandler{store: store}
}

// List returns feed items matching the query filters, newest first.
func (h *ContentFrontHandler) List(c *gin.Context) {
	filter := content.Filter{
		Type:     c.Query("type"),
		Tag:      c.Query("tag"),
		Window:   c.DefaultQuery("window", content.WindowAll),
		Featured: c.Query("featured") == "true",
		Offset:   parseNonNegativeQuery(c.Query("offset"), 0),
		Limit:    parseNonNegativeQuery(c.Query("limit"), defaultFeedLimit),
	}

	items := content.Apply(h.store.Items(), filter, time.Now())
	out := make([]gin.H, 0, len(items))
	for _, item := range items {
		out = append(out, gin.H{
			"title":    item.Title,
			"slug":     item.Slug,
			"type":     item.Type,
			"tags":     item.Tags,
			"date":     item.Date,
			"featured": item.Featured,
			"summary":  item.Summary,
		})
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"items": out, "count": len(out)}})
}

// Get returns one feed item with its full body.
func (h *ContentFrontHandler) Get(c *gin.Context) {
	item, errFind := h.store.BySlug(c.Param("slug"))
	if errFind != nil {
		if errors.Is(errFind, content.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "error": "Content not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"success": false, "error": "Something went wrong"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": gin.H{"item": item}})
}

func parseNonNegativeQuery(raw string, fallback int) int {
	if raw == "" {
		return fallback
	}
	value, errParse := strconv.Atoi(raw)
	if errParse != nil || value < 0 {
		return fallback
	}
	return value
}
