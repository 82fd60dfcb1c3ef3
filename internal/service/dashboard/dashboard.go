package dashboard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/metrics"
	"github.com/grangou/restaurant-dashboard/internal/store/matches"
)

// ErrSourceUnavailable wraps every failure to read matches or guest profiles.
var ErrSourceUnavailable = errors.New("record source unavailable")

type MatchSource interface {
	Fetch(ctx context.Context, restaurantName string, f matches.Filter) ([]analytics.RawMatch, error)
	LatestRestaurantData(ctx context.Context, restaurantName string) (analytics.RestaurantData, error)
}

type ProfileResolver interface {
	ResolveProfiles(ctx context.Context, ids []string) (map[string]analytics.GuestProfile, error)
}

// SnapshotCache holds serialized dashboards keyed by restaurant name.
type SnapshotCache interface {
	Get(ctx context.Context, restaurantName string) ([]byte, bool, error)
	Set(ctx context.Context, restaurantName string, payload []byte, ttl time.Duration) error
}

// Dashboard is everything the restaurant dashboard renders, computed against a
// single reference time.
type Dashboard struct {
	Profile        analytics.Profile          `json:"profile"`
	Metrics        analytics.ImpactMetrics    `json:"metrics"`
	Experiences    []analytics.Experience     `json:"experiences"`
	FlavorInsights []FlavorInsight            `json:"flavorInsights"`
	Traffic        []analytics.TrafficPoint   `json:"traffic"`
	Suggestions    []Suggestion               `json:"suggestions"`
	MatchTypes     []analytics.MatchTypeShare `json:"matchTypes"`
	PeakHours      []analytics.HourBucket     `json:"peakHours"`
	GeneratedAt    time.Time                  `json:"generatedAt"`
}

type Options struct {
	Settings        analytics.Settings
	TrafficDays     int
	HourLabels      []string
	ExperienceLimit int
	FetchTimeout    time.Duration
	CacheTTL        time.Duration
	Clock           func() time.Time
}

func (o Options) withDefaults() Options {
	if o.Settings.PerGuestValue.IsZero() {
		o.Settings.PerGuestValue = analytics.DefaultPerGuestValue
	}
	if o.Settings.Period <= 0 {
		o.Settings.Period = analytics.DefaultPeriod
	}
	if o.TrafficDays <= 0 {
		o.TrafficDays = analytics.DefaultTrafficDays
	}
	if len(o.HourLabels) == 0 {
		o.HourLabels = analytics.DefaultHourLabels
	}
	if o.ExperienceLimit <= 0 {
		o.ExperienceLimit = analytics.DefaultExperienceLimit
	}
	if o.FetchTimeout <= 0 {
		o.FetchTimeout = 5 * time.Second
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 5 * time.Minute
	}
	if o.Clock == nil {
		o.Clock = time.Now
	}
	return o
}

type DashboardService struct {
	log      *zap.Logger
	source   MatchSource
	profiles ProfileResolver
	cache    SnapshotCache
	opts     Options
}

// NewDashboardService wires the orchestrator. cache may be nil.
func NewDashboardService(log *zap.Logger, source MatchSource, profiles ProfileResolver, cache SnapshotCache, opts Options) *DashboardService {
	return &DashboardService{
		log:      log,
		source:   source,
		profiles: profiles,
		cache:    cache,
		opts:     opts.withDefaults(),
	}
}

// Now is the reference time for one request, in UTC.
func (s *DashboardService) Now() time.Time { return s.opts.Clock().UTC() }

// Compute returns the cached dashboard when there is one and builds and caches
// it otherwise. Cache failures never fail the request.
func (s *DashboardService) Compute(ctx context.Context, id analytics.RestaurantIdentity) (*Dashboard, error) {
	if d, ok := s.cached(ctx, id.Name); ok {
		return d, nil
	}
	return s.Refresh(ctx, id)
}

// Refresh rebuilds the dashboard and overwrites the cached copy.
func (s *DashboardService) Refresh(ctx context.Context, id analytics.RestaurantIdentity) (*Dashboard, error) {
	d, err := s.Build(ctx, id, s.Now())
	if err != nil {
		return nil, err
	}
	s.store(ctx, id.Name, d)
	return d, nil
}

// Build computes all sections concurrently against now. The first failing
// section cancels the rest and fails the whole dashboard.
func (s *DashboardService) Build(ctx context.Context, id analytics.RestaurantIdentity, now time.Time) (*Dashboard, error) {
	d := &Dashboard{
		FlavorInsights: s.Flavors(),
		Suggestions:    s.Suggestions(),
		GeneratedAt:    now,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		d.Profile, err = s.Profile(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.Metrics, err = s.Metrics(gctx, id, now)
		return err
	})
	g.Go(func() (err error) {
		d.Experiences, err = s.Experiences(gctx, id, now)
		return err
	})
	g.Go(func() (err error) {
		d.Traffic, err = s.Traffic(gctx, id, now)
		return err
	})
	g.Go(func() (err error) {
		d.MatchTypes, err = s.MatchTypes(gctx, id)
		return err
	})
	g.Go(func() (err error) {
		d.PeakHours, err = s.PeakHours(gctx, id)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("dashboard build failed",
			zap.Int64("restaurant_id", id.ID),
			zap.String("restaurant", id.Name),
			zap.Error(err),
		)
		return nil, err
	}
	return d, nil
}

func (s *DashboardService) Profile(ctx context.Context, id analytics.RestaurantIdentity) (analytics.Profile, error) {
	defer observe("profile", time.Now())
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	data, err := s.source.LatestRestaurantData(ctx, id.Name)
	if err != nil {
		return analytics.Profile{}, fmt.Errorf("%w: restaurant data: %w", ErrSourceUnavailable, err)
	}
	return analytics.BuildProfile(id, data), nil
}

func (s *DashboardService) Metrics(ctx context.Context, id analytics.RestaurantIdentity, now time.Time) (analytics.ImpactMetrics, error) {
	defer observe("metrics", time.Now())
	all, err := s.load(ctx, id.Name, matches.Filter{})
	if err != nil {
		return analytics.ImpactMetrics{}, err
	}
	return analytics.ComputeImpactMetrics(all, now, s.opts.Settings), nil
}

func (s *DashboardService) Experiences(ctx context.Context, id analytics.RestaurantIdentity, now time.Time) ([]analytics.Experience, error) {
	defer observe("experiences", time.Now())
	rows, err := s.load(ctx, id.Name, matches.Filter{FeedbackOnly: true, Limit: s.opts.ExperienceLimit})
	if err != nil {
		return nil, err
	}
	recent := analytics.SelectRecentFeedback(rows, s.opts.ExperienceLimit)
	if len(recent) == 0 {
		return []analytics.Experience{}, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()
	profiles, err := s.profiles.ResolveProfiles(ctx, analytics.ParticipantIDs(recent))
	if err != nil {
		return nil, fmt.Errorf("%w: guest profiles: %w", ErrSourceUnavailable, err)
	}
	return analytics.FormatExperiences(recent, profiles, now), nil
}

func (s *DashboardService) Traffic(ctx context.Context, id analytics.RestaurantIdentity, now time.Time) ([]analytics.TrafficPoint, error) {
	defer observe("traffic", time.Now())
	days := s.opts.TrafficDays
	today := now.UTC().Truncate(24 * time.Hour)
	rows, err := s.load(ctx, id.Name, matches.Filter{Since: today.AddDate(0, 0, -(days - 1))})
	if err != nil {
		return nil, err
	}
	return analytics.DailySeries(rows, days, now), nil
}

func (s *DashboardService) TrafficSummary(ctx context.Context, id analytics.RestaurantIdentity, now time.Time) (analytics.TrafficSummary, error) {
	series, err := s.Traffic(ctx, id, now)
	if err != nil {
		return analytics.TrafficSummary{}, err
	}
	return analytics.SummarizeTraffic(series), nil
}

func (s *DashboardService) MatchTypes(ctx context.Context, id analytics.RestaurantIdentity) ([]analytics.MatchTypeShare, error) {
	defer observe("match_types", time.Now())
	all, err := s.load(ctx, id.Name, matches.Filter{})
	if err != nil {
		return nil, err
	}
	return analytics.MatchTypeBreakdown(all), nil
}

func (s *DashboardService) PeakHours(ctx context.Context, id analytics.RestaurantIdentity) ([]analytics.HourBucket, error) {
	defer observe("peak_hours", time.Now())
	all, err := s.load(ctx, id.Name, matches.Filter{})
	if err != nil {
		return nil, err
	}
	return analytics.HourlyHistogram(all, s.opts.HourLabels), nil
}

// load fetches and normalizes one restaurant's matches under the fetch timeout.
func (s *DashboardService) load(ctx context.Context, restaurantName string, f matches.Filter) ([]analytics.Match, error) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.FetchTimeout)
	defer cancel()

	raws, err := s.source.Fetch(ctx, restaurantName, f)
	if err != nil {
		return nil, fmt.Errorf("%w: matches: %w", ErrSourceUnavailable, err)
	}
	out, rejections := analytics.Normalize(raws)
	for _, r := range rejections {
		metrics.MalformedRecordsTotal.WithLabelValues(r.Reason).Inc()
		s.log.Warn("malformed match record",
			zap.String("restaurant", restaurantName),
			zap.String("match_id", r.MatchID),
			zap.String("reason", r.Reason),
			zap.Bool("dropped", r.Dropped),
		)
	}
	return out, nil
}

func (s *DashboardService) cached(ctx context.Context, restaurantName string) (*Dashboard, bool) {
	if s.cache == nil {
		return nil, false
	}
	b, ok, err := s.cache.Get(ctx, restaurantName)
	if err != nil {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		s.log.Warn("dashboard cache read failed", zap.String("restaurant", restaurantName), zap.Error(err))
		return nil, false
	}
	if !ok {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.CacheMiss).Inc()
		return nil, false
	}
	var d Dashboard
	if err := json.Unmarshal(b, &d); err != nil {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		s.log.Warn("corrupt cached dashboard", zap.String("restaurant", restaurantName), zap.Error(err))
		return nil, false
	}
	metrics.DashboardCacheTotal.WithLabelValues(metrics.CacheHit).Inc()
	return &d, true
}

func (s *DashboardService) store(ctx context.Context, restaurantName string, d *Dashboard) {
	if s.cache == nil {
		return
	}
	b, err := json.Marshal(d)
	if err != nil {
		s.log.Warn("marshal dashboard", zap.Error(err))
		return
	}
	if err := s.cache.Set(ctx, restaurantName, b, s.opts.CacheTTL); err != nil {
		metrics.DashboardCacheTotal.WithLabelValues(metrics.CacheError).Inc()
		s.log.Warn("dashboard cache write failed", zap.String("restaurant", restaurantName), zap.Error(err))
	}
}

func observe(section string, start time.Time) {
	metrics.DashboardSectionDuration.WithLabelValues(section).Observe(time.Since(start).Seconds())
}
