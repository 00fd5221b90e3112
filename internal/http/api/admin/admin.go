// Package admin registers the dashboard API behind JWT session auth.
package admin

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
	handlers "github.com/makemikefulleragain/kamunity-10july-sub001/internal/http/api/admin/handlers"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/models"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/security"
	"gorm.io/gorm"
)

// RegisterAdminRoutes registers admin routes, middleware, and handlers.
func RegisterAdminRoutes(r *gin.Engine, db *gorm.DB, jwtCfg config.JWTConfig, store *content.Store) {
	if r == nil || db == nil {
		return
	}

	healthHandler := handlers.NewHealthHandler(db)
	r.GET("/healthz", healthHandler.Healthz)

	adminGroup := r.Group("/api/admin")

	authHandler := handlers.NewAuthHandler(db, jwtCfg)
	adminGroup.POST("/login", authHandler.Login)

	authed := adminGroup.Group("")
	authed.Use(adminAuthMiddleware(db, jwtCfg))

	authed.POST("/totp/prepare", authHandler.PrepareTOTP)
	authed.POST("/totp/confirm", authHandler.ConfirmTOTP)
	authed.POST("/totp/disable", authHandler.DisableTOTP)

	contactHandler := handlers.NewContactHandler(db)
	authed.GET("/messages", contactHandler.List)
	authed.GET("/messages/:id", contactHandler.Get)
	authed.POST("/messages/:id/read", contactHandler.MarkRead)

	subscriberHandler := handlers.NewSubscriberHandler(db)
	authed.GET("/subscribers", subscriberHandler.List)

	dashboardHandler := handlers.NewDashboardHandler(db)
	authed.GET("/dashboard/kpi", dashboardHandler.KPI)
	authed.GET("/dashboard/trend", dashboardHandler.Trend)

	settingHandler := handlers.NewSettingHandler(db)
	authed.POST("/settings", settingHandler.Create)
	authed.GET("/settings", settingHandler.List)
	authed.GET("/settings/:key", settingHandler.Get)
	authed.PUT("/settings/:key", settingHandler.Update)
	authed.DELETE("/settings/:key", settingHandler.Delete)

	if store != nil {
		contentHandler := handlers.NewContentAdminHandler(store)
		authed.POST("/content/reload", contentHandler.Reload)
	}
}

// adminAuthMiddleware validates admin JWTs and loads admin context.
func adminAuthMiddleware(db *gorm.DB, jwtCfg config.JWTConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization format"})
			return
		}
		token = strings.TrimSpace(token)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "empty token"})
			return
		}

		claims, errJWT := security.ParseAdminToken(jwtCfg.Secret, token)
		if errJWT != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		var admin models.Admin
		if errFind := db.WithContext(c.Request.Context()).First(&admin, claims.AdminID).Error; errFind != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "admin not found"})
			return
		}
		if !admin.Active {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin disabled"})
			return
		}

		c.Set("adminID", admin.ID)
		c.Set("adminUsername", admin.Username)
		c.Next()
	}
}
