package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
)

// ContentAdminHandler manages the media feed from the dashboard.
type ContentAdminHandler struct {
	store *content.Store
}

// NewContentAdminHandler constructs a ContentAdminHandler.
func NewContentAdminHandler(store *content.Store) *ContentAdminHandler {
	return &ContentAdminHandler{store: store}
}

// Reload re-reads the content directory so new markdown entries go live
// without a restart.
func (h *ContentAdminHandler) Reload(c *gin.Context) {
	if errReload := h.store.Reload(); errReload != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "reload content failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": len(h.store.Items())})
}
