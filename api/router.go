package api

import (
	"github.com/gin-gonic/gin"

	"github.com/eyeonstox/stoxagent/api/handler"
	"github.com/eyeonstox/stoxagent/api/middleware"
	"github.com/eyeonstox/stoxagent/config"
	"github.com/eyeonstox/stoxagent/planner"
	"github.com/eyeonstox/stoxagent/session"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(mgr *session.Manager, pl *planner.Planner, cfg *config.Config) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health — no auth required.
	v1.GET("/health", handler.Health(mgr))

	// Protected group — auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	// Combined prompt-driven endpoint: plan, route, scrape, summarize.
	protected.POST("/query", handler.Query(mgr, pl, cfg))

	// Per-capability endpoints.
	protected.POST("/stocks", handler.Stocks(mgr, pl, cfg))
	protected.POST("/stock/single", handler.Single(mgr, pl, cfg))
	protected.GET("/stock/news", handler.News(mgr, cfg))
	protected.GET("/sector", handler.Sector(mgr, cfg))
	protected.GET("/chart", handler.Chart(mgr, cfg))

	return r
}
