// Package app wires configuration, storage, and HTTP surfaces into the
// running server.
package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/config"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/content"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/db"
	adminapi "github.com/makemikefulleragain/kamunity-10july-sub001/internal/http/api/admin"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/http/api/front"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/notify"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/ratelimit"
	internalsettings "github.com/makemikefulleragain/kamunity-10july-sub001/internal/settings"
	"github.com/makemikefulleragain/kamunity-10july-sub001/internal/watcher"
	log "github.com/sirupsen/logrus"
)

const shutdownGrace = 10 * time.Second

// Migrate opens the database and runs migrations.
func Migrate(ctx context.Context, cfg config.AppConfig) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	return db.Migrate(conn)
}

// RunServer boots the site API with database-backed components and blocks
// until the context is canceled.
func RunServer(ctx context.Context, cfg config.AppConfig, defaultPort int) error {
	configPath := config.ResolveConfigPath(cfg.ConfigPath)
	dsn, err := config.LoadDatabaseDSN(configPath)
	if err != nil {
		return err
	}
	conn, err := db.Open(dsn)
	if err != nil {
		return err
	}
	if errMigrate := db.Migrate(conn); errMigrate != nil {
		return errMigrate
	}
	if errSeed := SeedAdminFromEnv(conn); errSeed != nil {
		return errSeed
	}
	if errRefresh := internalsettings.Refresh(ctx, conn); errRefresh != nil {
		return errRefresh
	}

	jwtConfig, _ := config.LoadJWTConfig(configPath)
	if jwtConfig.Secret == "" {
		log.Warn("no jwt secret configured, admin login disabled")
	}

	siteConfig, _ := config.LoadSiteConfig(configPath)

	notifyConfig, _ := config.LoadNotifyConfig(configPath)
	var sink notify.Sink = notify.LogSink{}
	if smtpSink := notify.NewSMTPSink(notifyConfig); smtpSink != nil {
		sink = smtpSink
	} else {
		log.Warn("no smtp relay configured, notifications go to the log")
	}
	reporter := notify.NewReporter(conn, notifyConfig)

	contentConfig, _ := config.LoadContentConfig(configPath)
	store := content.NewStore(contentConfig.Dir)
	if errReload := store.Reload(); errReload != nil {
		log.WithError(errReload).Warn("content feed unavailable, starting with an empty feed")
	}

	limiter := ratelimit.NewManager(nil, nil, nil)
	limiter.StartSweeper(ctx, maxConfiguredWindow())

	watcher.New(conn, store, contentConfig.Dir).Start(ctx)

	engine := gin.New()
	engine.Use(gin.Recovery(), requestLogMiddleware())

	front.RegisterFrontRoutes(engine, conn, limiter, siteConfig, store, sink, reporter)
	adminapi.RegisterAdminRoutes(engine, conn, jwtConfig, store)

	port := defaultPort
	if port <= 0 {
		port = 8318
	}
	server := &http.Server{
		Addr:    fmt.Sprintf(":%d", port),
		Handler: engine,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infof("listening on %s with config=%s", server.Addr, configPath)
		errCh <- server.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if errShutdown := server.Shutdown(shutdownCtx); errShutdown != nil {
			return fmt.Errorf("app: shutdown: %w", errShutdown)
		}
		return nil
	case errServe := <-errCh:
		if errors.Is(errServe, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("app: serve: %w", errServe)
	}
}

// maxConfiguredWindow returns the longest rate-limit window in use so the
// sweeper never evicts a live window.
func maxConfiguredWindow() time.Duration {
	window := ratelimit.ContactLimits().Window
	if subscribe := ratelimit.SubscribeLimits().Window; subscribe > window {
		window = subscribe
	}
	return window
}

// requestLogMiddleware logs one line per request with logrus fields.
func requestLogMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		log.WithFields(log.Fields{
			"method":  c.Request.Method,
			"path":    c.Request.URL.Path,
			"status":  c.Writer.Status(),
			"latency": time.Since(start).String(),
		}).Info("request")
	}
}
