package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/api/auth"
	"github.com/grangou/restaurant-dashboard/internal/api/dashboard"
	"github.com/grangou/restaurant-dashboard/internal/middleware"
	authService "github.com/grangou/restaurant-dashboard/internal/service/auth"
	dashboardService "github.com/grangou/restaurant-dashboard/internal/service/dashboard"
)

// Services are the dependencies the HTTP layer needs. RateLimitClient may be
// nil, in which case only the in-memory limiter is used.
type Services struct {
	Auth            *authService.AuthService
	Dashboard       *dashboardService.DashboardService
	RateLimitClient *redis.Client
	JWTSecret       string
	Health          func() map[string]string
}

// RegisterRoutes wires all HTTP routes.
func RegisterRoutes(r *gin.Engine, log *zap.Logger, s Services) {
	r.Use(middleware.MetricsMiddleware())
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"name":        "Grangou Restaurant Dashboard",
			"description": "Partner analytics for restaurants matched through the Grangou app: guests, revenue estimates, ratings and traffic.",
			"version":     "1.0.0",
			"docs":        "/docs",
			"endpoints":   []string{"/v1/health", "/v1/restaurant-auth", "/v1/restaurant-data"},
		})
	})
	r.GET("/v1/health", func(c *gin.Context) {
		body := gin.H{"status": "ok"}
		if s.Health != nil {
			deps := s.Health()
			for _, v := range deps {
				if v != "ok" {
					body["status"] = "degraded"
				}
			}
			body["dependencies"] = deps
		}
		c.JSON(http.StatusOK, body)
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	RegisterDocs(r)

	var limiter gin.HandlerFunc
	if s.RateLimitClient != nil {
		limiter = middleware.HybridRateLimit(s.RateLimitClient, 20, 60)
	} else {
		limiter = middleware.RateLimit(20, 60)
	}

	auth.NewAuthHandler(log, s.Auth, s.JWTSecret).Register(r)
	dashboard.NewDashboardHandler(log, s.Auth, s.Dashboard, s.JWTSecret).Register(r, limiter)
}
