package dashboard

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/metrics"
)

type PartnerLister interface {
	List(ctx context.Context) ([]analytics.RestaurantIdentity, error)
}

type RefreshLocker interface {
	Acquire(ctx context.Context, restaurantName, token string) (bool, error)
	Release(ctx context.Context, restaurantName, token string) error
}

// Warmer precomputes every partner's dashboard so first page loads hit the cache.
type Warmer struct {
	log        *zap.Logger
	dashboards *DashboardService
	partners   PartnerLister
	lock       RefreshLocker
	maxWorkers int
}

func NewWarmer(log *zap.Logger, dashboards *DashboardService, partners PartnerLister, lock RefreshLocker, maxWorkers int) *Warmer {
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	return &Warmer{
		log:        log,
		dashboards: dashboards,
		partners:   partners,
		lock:       lock,
		maxWorkers: maxWorkers,
	}
}

// WarmResult counts what one pass did.
type WarmResult struct {
	Warmed  int
	Skipped int
	Failed  int
}

// WarmAll refreshes each partner's dashboard. Restaurants whose refresh lock is
// held elsewhere are skipped. Per-restaurant errors are combined.
func (w *Warmer) WarmAll(ctx context.Context) (WarmResult, error) {
	metrics.WarmRunsTotal.Inc()
	list, err := w.partners.List(ctx)
	if err != nil {
		return WarmResult{}, err
	}

	var (
		mu   sync.Mutex
		res  WarmResult
		errs error
		wg   sync.WaitGroup
	)
	sem := make(chan struct{}, w.maxWorkers)
	for _, id := range list {
		if ctx.Err() != nil {
			break
		}
		sem <- struct{}{}
		wg.Add(1)
		go func(id analytics.RestaurantIdentity) {
			defer wg.Done()
			defer func() { <-sem }()

			warmed, err := w.warmOne(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				res.Failed++
				errs = multierr.Append(errs, err)
			case warmed:
				res.Warmed++
			default:
				res.Skipped++
			}
		}(id)
	}
	wg.Wait()

	w.log.Info("dashboard warm pass done",
		zap.Int("partners", len(list)),
		zap.Int("warmed", res.Warmed),
		zap.Int("skipped", res.Skipped),
		zap.Int("failed", res.Failed),
	)
	return res, errs
}

func (w *Warmer) warmOne(ctx context.Context, id analytics.RestaurantIdentity) (bool, error) {
	if w.lock != nil {
		token := uuid.NewString()
		ok, err := w.lock.Acquire(ctx, id.Name, token)
		if err != nil {
			w.log.Warn("refresh lock unavailable, warming anyway", zap.String("restaurant", id.Name), zap.Error(err))
		} else if !ok {
			return false, nil
		} else {
			defer func() {
				if err := w.lock.Release(context.WithoutCancel(ctx), id.Name, token); err != nil {
					w.log.Warn("release refresh lock", zap.String("restaurant", id.Name), zap.Error(err))
				}
			}()
		}
	}
	if _, err := w.dashboards.Refresh(ctx, id); err != nil {
		return false, err
	}
	return true, nil
}

// RunPeriodic warms immediately and then on every tick until ctx is done.
func (w *Warmer) RunPeriodic(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.log.Info("Starting periodic dashboard warmer", zap.Duration("interval", interval))
	w.runOnce(ctx)

	for {
		select {
		case <-ctx.Done():
			w.log.Info("Stopping periodic dashboard warmer")
			return
		case <-ticker.C:
			w.runOnce(ctx)
		}
	}
}

func (w *Warmer) runOnce(ctx context.Context) {
	if _, err := w.WarmAll(ctx); err != nil {
		w.log.Error("Periodic warm failed", zap.Error(err))
	}
}
