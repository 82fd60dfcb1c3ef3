package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/api"
	"github.com/grangou/restaurant-dashboard/internal/config"
	"github.com/grangou/restaurant-dashboard/internal/logger"
	"github.com/grangou/restaurant-dashboard/internal/middleware"
	redisx "github.com/grangou/restaurant-dashboard/internal/redis"
	authService "github.com/grangou/restaurant-dashboard/internal/service/auth"
	dashboardService "github.com/grangou/restaurant-dashboard/internal/service/dashboard"
	"github.com/grangou/restaurant-dashboard/internal/store"
	"github.com/grangou/restaurant-dashboard/internal/store/guests"
	"github.com/grangou/restaurant-dashboard/internal/store/matches"
	"github.com/grangou/restaurant-dashboard/internal/store/partners"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()
	for _, w := range cfg.Warnings {
		log.Warn("config", zap.String("warning", w))
	}

	ctx := context.Background()
	partnerDB, err := store.NewDB(ctx, cfg.PartnerDatabaseURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("partner db connect", zap.Error(err))
	}
	mobileDB, err := store.NewReadOnlyDB(ctx, cfg.MobileDatabaseURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("mobile db connect", zap.Error(err))
	}
	redisClient := redisx.NewClient(cfg.RedisAddr)
	cache := redisx.NewDashboardCache(redisClient)
	defer func() {
		partnerDB.Close()
		mobileDB.Close()
		if err := cache.Close(); err != nil {
			log.Warn("close redis", zap.Error(err))
		}
	}()

	partnersRepo := partners.NewPartnersRepository(partnerDB, log)
	authSvc := authService.NewAuthService(log, partnersRepo, cfg.JWTSigningSecret, cfg.TokenTTL)
	if err := authSvc.SeedDemoPartner(ctx, cfg.DemoPartnerName, cfg.DemoPartnerEmail, cfg.DemoPartnerPassword); err != nil {
		log.Error("Failed to create demo partner", zap.Error(err))
	}

	dashSvc := dashboardService.NewDashboardService(log,
		matches.NewMatchesRepository(mobileDB, log),
		guests.NewGuestsRepository(mobileDB, log),
		cache,
		dashboardService.Options{
			Settings:     analytics.Settings{PerGuestValue: cfg.PerGuestValue, Period: cfg.Period()},
			TrafficDays:  cfg.TrafficDays,
			FetchTimeout: cfg.FetchTimeout,
			CacheTTL:     cfg.DashboardCacheTTL,
		})

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger(log))

	api.RegisterRoutes(r, log, api.Services{
		Auth:            authSvc,
		Dashboard:       dashSvc,
		RateLimitClient: cache.GetClient(),
		JWTSecret:       cfg.JWTSigningSecret,
		Health: func() map[string]string {
			hctx, cancel := context.WithTimeout(context.Background(), time.Second)
			defer cancel()
			return map[string]string{
				"partner_db": status(partnerDB.Ping(hctx)),
				"mobile_db":  status(mobileDB.Ping(hctx)),
				"redis":      status(redisClient.Ping(hctx).Err()),
			}
		},
	})

	c := cors.New(cors.Options{
		AllowedOrigins: cfg.CORSAllowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "Content-Type", "X-Client-Info", "Apikey", middleware.RequestIDHeader},
		ExposedHeaders: []string{middleware.RequestIDHeader, "X-RateLimit-Remaining", "Retry-After"},
	})

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:        c.Handler(r),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   20 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		log.Info("server starting", zap.Int("port", cfg.HTTPPort))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("http server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	sctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
	log.Info("server exited")
}

func status(err error) string {
	if err != nil {
		return err.Error()
	}
	return "ok"
}
