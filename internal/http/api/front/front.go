// Package front registers the public website API: contact submission,
// subscription capture, and the media content feed.
package front

import (
	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/admission"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
	handlers "github.com/makemikefulleragain/kamunity-10july-sub001/internal/http/api/front/handlers"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/notify"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/sanitize"
	internalsettings "github.com/makemikefulleragain/kamunity-10july-sub001/internal/settings"
	"gorm.io/gorm"
)

// RegisterFrontRoutes wires the public endpoints. Mutation endpoints go
// through the admission pipeline; the method gate owns 405 handling, so
// they are registered for every verb. The sanitizer ceiling and site host
// come from the settings snapshot on each request, falling back to config.
func RegisterFrontRoutes(r *gin.Engine, db *gorm.DB, limiter admission.Limiter, site config.SiteConfig, store *content.Store, sink notify.Sink, reporter *notify.Reporter) {
	if r == nil || db == nil {
		return
	}

	sanitizer := func() *sanitize.Sanitizer {
		return sanitize.New(internalsettings.IntValue(internalsettings.SanitizeMaxLengthKey, internalsettings.DefaultSanitizeMaxLength))
	}
	siteHost := func() string {
		return internalsettings.StringValue(internalsettings.SiteHostKey, site.Host)
	}

	contactHandler := handlers.NewContactFrontHandler(db, sink, reporter)
	contactPipeline := admission.NewPipeline(contactHandler.Endpoint(), limiter, sanitizer, siteHost)
	r.Any("/api/contact", contactPipeline.Handle)

	subscribeHandler := handlers.NewSubscribeFrontHandler(db, sink, reporter)
	subscribePipeline := admission.NewPipeline(subscribeHandler.Endpoint(), limiter, sanitizer, siteHost)
	r.Any("/api/subscribe", subscribePipeline.Handle)

	contentHandler := handlers.NewContentFrontHandler(store)
	r.GET("/api/content", contentHandler.List)
	r.GET("/api/content/:slug", contentHandler.Get)
}
