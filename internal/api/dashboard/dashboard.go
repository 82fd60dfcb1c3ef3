package dashboard

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	authMiddleware "github.com/grangou/restaurant-dashboard/internal/middleware"
	authService "github.com/grangou/restaurant-dashboard/internal/service/auth"
	dashboardService "github.com/grangou/restaurant-dashboard/internal/service/dashboard"
)

type DashboardHandler struct {
	log    *zap.Logger
	auth   *authService.AuthService
	svc    *dashboardService.DashboardService
	secret string
}

func NewDashboardHandler(log *zap.Logger, auth *authService.AuthService, svc *dashboardService.DashboardService, secret string) *DashboardHandler {
	return &DashboardHandler{log: log, auth: auth, svc: svc, secret: secret}
}

// Register mounts the restaurant data routes. extra runs after authentication,
// so it can key on the restaurant.
func (h *DashboardHandler) Register(r *gin.Engine, extra ...gin.HandlerFunc) {
	g := r.Group("/v1/restaurant-data")
	g.Use(authMiddleware.RestaurantAuth(h.secret))
	g.Use(extra...)
	g.Use(h.identity)
	{
		g.GET("/profile", h.profile)
		g.GET("/metrics", h.metrics)
		g.GET("/experiences", h.experiences)
		g.GET("/flavors", h.flavors)
		g.GET("/traffic", h.traffic)
		g.GET("/traffic/summary", h.trafficSummary)
		g.GET("/suggestions", h.suggestions)
		g.GET("/match-types", h.matchTypes)
		g.GET("/peak-hours", h.peakHours)
		g.GET("/dashboard", h.dashboard)
	}
}

const identityKey = "restaurant_identity"

// identity resolves the token's restaurant into its partner record.
func (h *DashboardHandler) identity(c *gin.Context) {
	rid, _ := authMiddleware.RestaurantID(c)
	id, err := h.auth.Identity(c.Request.Context(), rid)
	if err != nil {
		if errors.Is(err, authService.ErrPartnerNotFound) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized", "message": "Invalid or missing token"})
			return
		}
		h.log.Error("identity lookup failed", zap.Int64("restaurant_id", rid), zap.Error(err))
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "identity lookup failed"})
		return
	}
	c.Set(identityKey, id)
	c.Next()
}

func restaurant(c *gin.Context) analytics.RestaurantIdentity {
	return c.MustGet(identityKey).(analytics.RestaurantIdentity)
}

func (h *DashboardHandler) fail(c *gin.Context, section string, err error) {
	if errors.Is(err, dashboardService.ErrSourceUnavailable) {
		h.log.Warn("record source unavailable", zap.String("section", section), zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Service Unavailable", "message": "match data is temporarily unavailable"})
		return
	}
	h.log.Error("section failed", zap.String("section", section), zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal Server Error", "message": "failed to compute " + section})
}

func (h *DashboardHandler) respond(c *gin.Context, section string, v interface{}, err error) {
	if err != nil {
		h.fail(c, section, err)
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *DashboardHandler) now() time.Time { return h.svc.Now() }

func (h *DashboardHandler) profile(c *gin.Context) {
	v, err := h.svc.Profile(c.Request.Context(), restaurant(c))
	h.respond(c, "profile", v, err)
}

func (h *DashboardHandler) metrics(c *gin.Context) {
	v, err := h.svc.Metrics(c.Request.Context(), restaurant(c), h.now())
	h.respond(c, "metrics", v, err)
}

func (h *DashboardHandler) experiences(c *gin.Context) {
	v, err := h.svc.Experiences(c.Request.Context(), restaurant(c), h.now())
	h.respond(c, "experiences", v, err)
}

func (h *DashboardHandler) flavors(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Flavors())
}

func (h *DashboardHandler) traffic(c *gin.Context) {
	v, err := h.svc.Traffic(c.Request.Context(), restaurant(c), h.now())
	h.respond(c, "traffic", v, err)
}

func (h *DashboardHandler) trafficSummary(c *gin.Context) {
	v, err := h.svc.TrafficSummary(c.Request.Context(), restaurant(c), h.now())
	h.respond(c, "traffic_summary", v, err)
}

func (h *DashboardHandler) suggestions(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Suggestions())
}

func (h *DashboardHandler) matchTypes(c *gin.Context) {
	v, err := h.svc.MatchTypes(c.Request.Context(), restaurant(c))
	h.respond(c, "match_types", v, err)
}

func (h *DashboardHandler) peakHours(c *gin.Context) {
	v, err := h.svc.PeakHours(c.Request.Context(), restaurant(c))
	h.respond(c, "peak_hours", v, err)
}

func (h *DashboardHandler) dashboard(c *gin.Context) {
	v, err := h.svc.Compute(c.Request.Context(), restaurant(c))
	h.respond(c, "dashboard", v, err)
}
