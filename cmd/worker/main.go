package main

import (
	"context"
	"os/signal"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/config"
	kafkax "github.com/grangou/restaurant-dashboard/internal/kafka"
	"github.com/grangou/restaurant-dashboard/internal/logger"
	redisx "github.com/grangou/restaurant-dashboard/internal/redis"
	"github.com/grangou/restaurant-dashboard/internal/worker"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()
	log.Info("worker starting", zap.String("topic", cfg.MatchEventsTopic))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	brokers := strings.Split(cfg.KafkaBrokers, ",")
	cache := redisx.NewDashboardCache(redisx.NewClient(cfg.RedisAddr))
	consumer := kafkax.NewConsumer(brokers, "grangou-dashboard-invalidator", cfg.MatchEventsTopic)
	dlq := kafkax.NewProducer(brokers, cfg.MatchEventsTopic+"-dlq")

	inv := worker.NewInvalidator(log, cache, consumer, dlq, cfg.MaxWorkerCount)
	if err := inv.Run(ctx); err != nil && ctx.Err() == nil {
		log.Error("invalidator stopped", zap.Error(err))
	}

	if err := multierr.Combine(consumer.Close(), dlq.Close(), cache.Close()); err != nil {
		log.Warn("shutdown", zap.Error(err))
	}
	log.Info("worker stopped")
}
