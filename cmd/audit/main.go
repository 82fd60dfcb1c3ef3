package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/config"
	"github.com/grangou/restaurant-dashboard/internal/logger"
	"github.com/grangou/restaurant-dashboard/internal/metrics"
	"github.com/grangou/restaurant-dashboard/internal/store"
	"github.com/grangou/restaurant-dashboard/internal/store/matches"
	"github.com/grangou/restaurant-dashboard/internal/store/partners"
)

type partnerReport struct {
	ID         int64          `json:"id"`
	Name       string         `json:"name"`
	Matches    int            `json:"matches"`
	Rejections map[string]int `json:"rejections,omitempty"`
}

type report struct {
	Store    store.MatchAudit `json:"store"`
	Partners []partnerReport  `json:"partners"`
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	log := logger.New(cfg.Env)
	defer log.Sync()
	ctx := context.Background()

	partnerDB, err := store.NewDB(ctx, cfg.PartnerDatabaseURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("partner db", zap.Error(err))
	}
	defer partnerDB.Close()
	mobileDB, err := store.NewReadOnlyDB(ctx, cfg.MobileDatabaseURL, int32(cfg.MaxDBConnections))
	if err != nil {
		log.Fatal("mobile db", zap.Error(err))
	}
	defer mobileDB.Close()

	metrics.AuditRunsTotal.Inc()

	// both comparison periods
	to := time.Now().UTC()
	from := to.Add(-2 * cfg.Period())

	var out report
	out.Store, err = store.NewAuditRepository(mobileDB).StatusBreakdown(ctx, from, to)
	if err != nil {
		log.Fatal("status breakdown", zap.Error(err))
	}

	list, err := partners.NewPartnersRepository(partnerDB, log).List(ctx)
	if err != nil {
		log.Fatal("list partners", zap.Error(err))
	}
	matchesRepo := matches.NewMatchesRepository(mobileDB, log)
	for _, p := range list {
		raws, err := matchesRepo.Fetch(ctx, p.Name, matches.Filter{})
		if err != nil {
			log.Error("fetch matches", zap.String("restaurant", p.Name), zap.Error(err))
			continue
		}
		_, rejections := analytics.Normalize(raws)
		pr := partnerReport{ID: p.ID, Name: p.Name, Matches: len(raws)}
		for _, r := range rejections {
			if pr.Rejections == nil {
				pr.Rejections = map[string]int{}
			}
			pr.Rejections[r.Reason]++
			metrics.MalformedRecordsTotal.WithLabelValues(r.Reason).Inc()
		}
		if len(rejections) > 0 {
			log.Warn("malformed records", zap.String("restaurant", p.Name), zap.Int("count", len(rejections)))
		}
		out.Partners = append(out.Partners, pr)
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Fatal("encode report", zap.Error(err))
	}
	fmt.Fprintln(os.Stderr, "audit complete at", to.Format(time.RFC3339))
}
