// Package app assembles the service from its configuration.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/tserv/shift-control/pkg/auth"
	"github.com/tserv/shift-control/pkg/config"
	"github.com/tserv/shift-control/pkg/database"
	"github.com/tserv/shift-control/pkg/handlers"
	"github.com/tserv/shift-control/pkg/rostercache"
	"github.com/tserv/shift-control/pkg/scheduler"
	"github.com/tserv/shift-control/pkg/upstream"
	"go.uber.org/zap"
)

// Version is reported by the banner route
const Version = "1.0.0"

// App holds the wired service and what must be closed on shutdown
type App struct {
	Handler *handlers.Handler
	Router  *gin.Engine
	closers []func() error
}

// New connects storage, the roster cache and the upstream client and builds the router
func New(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, error) {
	gin.SetMode(cfg.GinMode)

	db, err := database.InitDB(cfg.DatabaseURL, cfg.DataPath, log)
	if err != nil {
		return nil, err
	}
	a := &App{}
	if sqlDB, err := db.DB(); err == nil {
		a.closers = append(a.closers, sqlDB.Close)
	}

	authSvc := auth.NewService(cfg.JWTSecret, cfg.APIMasterSecret)
	if err := authSvc.EnsureAdminExists(db, cfg.AdminUsername, cfg.AdminPassword, log); err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to ensure admin: %w", err)
	}

	var cache rostercache.Cache
	if cfg.RedisAddr != "" {
		client := rostercache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err != nil {
			client.Close()
			a.Close()
			return nil, fmt.Errorf("failed to connect redis at %s: %w", cfg.RedisAddr, err)
		}
		a.closers = append(a.closers, client.Close)
		cache = rostercache.NewRedisCache(client, cfg.RosterTTL)
		log.Info("roster cache: redis", zap.String("addr", cfg.RedisAddr), zap.Duration("ttl", cfg.RosterTTL))
	} else {
		cache = rostercache.NewMemoryCache(cfg.RosterTTL)
		log.Info("roster cache: in-memory", zap.Duration("ttl", cfg.RosterTTL))
	}

	api := upstream.NewClient(cfg.UpstreamURL, log)
	a.Handler = &handlers.Handler{
		DB:           db,
		Auth:         authSvc,
		API:          api,
		Roster:       rostercache.NewRoster(cache, api, log),
		Clock:        scheduler.SystemClock{},
		Logger:       log,
		ServiceToken: cfg.UpstreamServiceToken,
		Version:      Version,
	}
	a.Router = handlers.NewRouter(a.Handler)
	return a, nil
}

// Close releases the database and cache connections
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i]()
	}
}
