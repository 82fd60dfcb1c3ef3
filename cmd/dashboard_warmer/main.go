package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/config"
	"github.com/grangou/restaurant-dashboard/internal/logger"
	redisx "github.com/grangou/restaurant-dashboard/internal/redis"
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

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	partnerDB, err := store.NewDB(ctx, cfg.PartnerDatabaseURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("Failed to connect to partner database", zap.Error(err))
	}
	defer partnerDB.Close()
	mobileDB, err := store.NewReadOnlyDB(ctx, cfg.MobileDatabaseURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("Failed to connect to mobile database", zap.Error(err))
	}
	defer mobileDB.Close()

	redisClient := redisx.NewClient(cfg.RedisAddr)
	defer redisClient.Close()

	dashSvc := dashboardService.NewDashboardService(log,
		matches.NewMatchesRepository(mobileDB, log),
		guests.NewGuestsRepository(mobileDB, log),
		redisx.NewDashboardCache(redisClient),
		dashboardService.Options{
			Settings:     analytics.Settings{PerGuestValue: cfg.PerGuestValue, Period: cfg.Period()},
			TrafficDays:  cfg.TrafficDays,
			FetchTimeout: cfg.FetchTimeout,
			CacheTTL:     cfg.DashboardCacheTTL,
		})

	// the lock outlives one refresh but never a whole interval
	lock := redisx.NewRefreshLock(redisClient, cfg.WarmInterval/2)
	warmer := dashboardService.NewWarmer(log, dashSvc, partners.NewPartnersRepository(partnerDB, log), lock, cfg.MaxWorkerCount)

	log.Info("Dashboard warmer started", zap.Duration("interval", cfg.WarmInterval))
	warmer.RunPeriodic(ctx, cfg.WarmInterval)
	log.Info("Shutting down dashboard warmer")
}
