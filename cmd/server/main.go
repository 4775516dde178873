package main

import (
	"context"

	"github.com/datera/datera-backend/internal/app"
	"github.com/datera/datera-backend/internal/cache"
	"github.com/datera/datera-backend/internal/config"
	"github.com/datera/datera-backend/internal/db"
	"github.com/datera/datera-backend/internal/entitlement"
	"github.com/datera/datera-backend/internal/handler"
	"github.com/datera/datera-backend/internal/logger"
	"github.com/datera/datera-backend/internal/server"
)

func main() {
	cfg := config.New()

	// Init logger (global singleton)
	logger.InitFromConfig(cfg)
	log := logger.L()

	// Init DB
	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		return
	}

	// Init Redis
	redisCache := cache.NewRedisCache(cfg)
	if err := redisCache.Ping(context.Background()); err != nil {
		log.Error("failed to connect to redis", "err", err)
		return
	}

	appCtx := app.New(database, redisCache, log)
	oracle := entitlement.FromConfig(cfg, redisCache)

	registrars := []server.Registrar{
		handler.NewInteractionsHandler(appCtx),
		handler.NewMessagingHandler(appCtx, oracle),
	}

	if cfg.App.ENV == "development" {
		if err := db.SeedTestData(database); err != nil {
			log.Error("failed to seed", "err", err)
		}
	}

	addr := cfg.HTTP.Host + ":" + cfg.HTTP.Port
	log.Info("starting HTTP server", "addr", addr)

	if err := server.StartHTTPServer(cfg, log, registrars...); err != nil {
		log.Error("failed to start HTTP server", "err", err)
	}
}
