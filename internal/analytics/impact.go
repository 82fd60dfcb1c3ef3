package analytics

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings are the tunables of the impact metrics.
type Settings struct {
	PerGuestValue decimal.Decimal
	Period        time.Duration
}

// DefaultSettings match the dashboard's historical behaviour.
func DefaultSettings() Settings {
	return Settings{PerGuestValue: DefaultPerGuestValue, Period: DefaultPeriod}
}

// ImpactMetrics is the headline card row of the dashboard.
type ImpactMetrics struct {
	TotalGuests      int     `json:"totalGrangouGuests"`
	GuestGrowth      float64 `json:"guestGrowth"`
	EstimatedRevenue float64 `json:"estimatedRevenue"`
	RevenueGrowth    float64 `json:"revenueGrowth"`
	AverageRating    float64 `json:"averageRating"`
	RatingChange     float64 `json:"ratingChange"`
	TotalReviews     int     `json:"totalReviews"`
	RepeatVisitors   float64 `json:"repeatVisitors"`
}

// ComputeImpactMetrics runs the guest, revenue and rating aggregators over one
// restaurant's matches.
func ComputeImpactMetrics(matches []Match, now time.Time, s Settings) ImpactMetrics {
	if s.PerGuestValue.IsZero() {
		s.PerGuestValue = DefaultPerGuestValue
	}
	w := NewWindow(now, s.Period)
	ratings := SummarizeRatings(matches, w)

	return ImpactMetrics{
		TotalGuests:      TotalGuests(matches),
		GuestGrowth:      GuestGrowth(matches, w),
		EstimatedRevenue: EstimatedRevenue(matches, s.PerGuestValue).InexactFloat64(),
		RevenueGrowth:    RevenueGrowth(matches, w, s.PerGuestValue),
		AverageRating:    ratings.Average,
		RatingChange:     ratings.Change,
		TotalReviews:     ratings.TotalReviews,
		RepeatVisitors:   RepeatVisitorRate(matches),
	}
}
