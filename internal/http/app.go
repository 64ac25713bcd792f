// Package http provides HTTP server infrastructure including module registration.
package http

import (
	"context"
	"net/http"

	"caterops_backend/platform/config"
	"caterops_backend/platform/events"
	"caterops_backend/platform/httpkit"
	"caterops_backend/platform/logger"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

// RouterConfig combines the config interfaces needed by the HTTP router.
type RouterConfig interface {
	config.HTTPConfig
	config.JWTConfig
	config.RateLimitConfig
}

// HealthChecker exposes minimal functionality for readiness checks.
type HealthChecker interface {
	Ping(ctx context.Context) error
}

// App holds the fully initialized application dependencies.
// This is populated by main.go (the composition root) and passed to the router.
type App struct {
	// Config holds the router configuration (HTTP, JWT and rate-limit settings).
	Config RouterConfig
	// Logger is the structured logger.
	Logger *logger.Logger
	// Health is used for readiness/health checks (e.g., DB ping).
	Health HealthChecker
	// EventBus is the domain event bus for cross-module communication.
	EventBus events.Bus
	// Modules contains all HTTP-facing domain modules.
	Modules []Module
}

// BuildRouter assembles the Gin engine: shared middleware, health endpoints,
// and every module's routes under /api/v1.
func (a *App) BuildRouter() *gin.Engine {
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(httpkit.RequestLogger(a.Logger))
	engine.Use(httpkit.SecurityHeaders())
	engine.Use(corsMiddleware(a.Config))

	limiter := httpkit.NewIPRateLimiter(
		rate.Limit(a.Config.GetRateLimitRPS()), a.Config.GetRateLimitBurst(), a.Logger)
	engine.Use(limiter.RateLimit())

	engine.GET("/api/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	engine.GET("/api/ready", func(c *gin.Context) {
		if err := a.Health.Ping(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	v1 := engine.Group("/api/v1")
	authMiddleware := httpkit.Auth(a.Config)
	protected := v1.Group("")
	protected.Use(authMiddleware)

	routerCtx := &RouterContext{
		Engine:         engine,
		V1:             v1,
		Protected:      protected,
		Config:         a.Config,
		AuthMiddleware: authMiddleware,
	}

	for _, module := range a.Modules {
		module.RegisterRoutes(routerCtx)
		a.Logger.Info("module routes registered", "module", module.Name())
	}

	return engine
}

func corsMiddleware(cfg config.HTTPConfig) gin.HandlerFunc {
	corsCfg := cors.DefaultConfig()
	if cfg.GetCORSAllowAll() {
		corsCfg.AllowAllOrigins = true
	} else if origins := cfg.GetCORSOrigins(); len(origins) > 0 {
		corsCfg.AllowOrigins = origins
	} else {
		corsCfg.AllowOrigins = []string{"http://localhost:3000"}
	}
	corsCfg.AllowCredentials = cfg.GetCORSAllowCreds()
	corsCfg.AllowHeaders = append(corsCfg.AllowHeaders, "Authorization", httpkit.WorkspaceHeader)
	return cors.New(corsCfg)
}
