package server

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/datera/datera-backend/internal/config"
	"github.com/datera/datera-backend/internal/handler"
)

// StartHTTPServer boots the gin engine and registers all provided route sets.
func StartHTTPServer(cfg *config.Config, log *slog.Logger, registrars ...Registrar) error {
	if cfg.App.ENV != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(
		handler.RequestID(),
		handler.RequestLogger(log),
		handler.Recovery(log),
	)

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// register all route sets
	for _, reg := range registrars {
		reg.Register(r)
	}

	addr := fmt.Sprintf("%s:%s", cfg.HTTP.Host, cfg.HTTP.Port)
	return r.Run(addr)
}
