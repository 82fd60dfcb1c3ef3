package worker

import (
	"context"
	"fmt"
	"sync"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	kafkax "github.com/grangou/restaurant-dashboard/internal/kafka"
	"github.com/grangou/restaurant-dashboard/internal/metrics"
)

type messageSource interface {
	Fetch(ctx context.Context) (kafka.Message, error)
	Commit(ctx context.Context, m kafka.Message) error
}

type publisher interface {
	Publish(ctx context.Context, key, value []byte, headers ...kafka.Header) error
}

type cacheDeleter interface {
	Delete(ctx context.Context, restaurantName string) (bool, error)
}

// Invalidator drops cached dashboards when the underlying matches change.
type Invalidator struct {
	log        *zap.Logger
	cache      cacheDeleter
	c          messageSource
	dlq        publisher
	maxWorkers int
}

func NewInvalidator(log *zap.Logger, cache cacheDeleter, c messageSource, dlq publisher, maxWorkers int) *Invalidator {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Invalidator{
		log:        log,
		cache:      cache,
		c:          c,
		dlq:        dlq,
		maxWorkers: maxWorkers,
	}
}

// Run consumes until ctx is cancelled and waits for in-flight messages.
func (inv *Invalidator) Run(ctx context.Context) error {
	sem := make(chan struct{}, inv.maxWorkers)
	var wg sync.WaitGroup
	defer wg.Wait()

	for {
		m, err := inv.c.Fetch(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			inv.log.Error("failed to read message", zap.Error(err))
			continue
		}

		select {
		case sem <- struct{}{}:
		case <-ctx.Done():
			return ctx.Err()
		}
		wg.Add(1)
		go func(m kafka.Message) {
			defer wg.Done()
			defer func() { <-sem }()
			inv.process(ctx, m)
		}(m)
	}
}

func (inv *Invalidator) process(ctx context.Context, m kafka.Message) {
	outcome, err := inv.handleMessage(ctx, m)
	if err != nil {
		inv.log.Error("failed to handle message",
			zap.Int64("offset", m.Offset),
			zap.Error(err),
		)
		reason := kafka.Header{Key: kafkax.HeaderError, Value: []byte(err.Error())}
		if perr := inv.dlq.Publish(ctx, m.Key, m.Value, reason); perr != nil {
			// leave uncommitted so the message is redelivered
			inv.log.Error("failed to publish to dlq", zap.Error(perr))
			metrics.CacheInvalidationsTotal.WithLabelValues("error").Inc()
			return
		}
		outcome = "dead_lettered"
	}
	metrics.CacheInvalidationsTotal.WithLabelValues(outcome).Inc()
	if err := inv.c.Commit(ctx, m); err != nil {
		inv.log.Warn("commit failed", zap.Error(err))
	}
}

func (inv *Invalidator) handleMessage(ctx context.Context, m kafka.Message) (string, error) {
	e, err := kafkax.ParseEnvelope(m.Value)
	if err != nil {
		return "", err
	}
	if !e.Known() {
		inv.log.Debug("ignoring event", zap.String("type", e.Type))
		return "ignored", nil
	}
	existed, err := inv.cache.Delete(ctx, e.RestaurantName)
	if err != nil {
		return "", fmt.Errorf("delete cached dashboard: %w", err)
	}
	inv.log.Info("dashboard invalidated",
		zap.String("restaurant", e.RestaurantName),
		zap.String("event", e.Type),
		zap.String("match_id", e.MatchID),
		zap.Bool("was_cached", existed),
	)
	if !existed {
		return "miss", nil
	}
	return "invalidated", nil
}
