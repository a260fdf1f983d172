package api

import (
	"github.com/gin-gonic/gin"
	"github.com/leadworks/lsabudget/api/handler"
	"github.com/leadworks/lsabudget/api/middleware"
	"github.com/leadworks/lsabudget/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:     Recovery → Logger
//	Calculate:  Auth (if enabled) → RateLimit
//
// Health and the industry catalog stay outside auth so monitoring probes
// and the public form always work.
func NewRouter(svc handler.BudgetService, stats handler.SessionStats, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	r.GET("/health", handler.Health(stats, cfg.Env.Name))
	r.GET("/industries", handler.Industries())

	protected := r.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/calculate-budget", handler.CalculateBudget(svc, cfg.Env.Serverless))

	return r
}
