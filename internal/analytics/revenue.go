package analytics

import "github.com/shopspring/decimal"

// DefaultPerGuestValue is the assumed spend per guest, in currency units.
var DefaultPerGuestValue = decimal.NewFromInt(35)

// EstimatedRevenue charges perGuest for every participant of every completed
// match. A guest who came back twice is billed twice, unlike TotalGuests.
func EstimatedRevenue(matches []Match, perGuest decimal.Decimal) decimal.Decimal {
	seats := 0
	for _, m := range completedOnly(matches) {
		seats += len(m.ParticipantIDs)
	}
	return perGuest.Mul(decimal.NewFromInt(int64(seats)))
}

// PeriodRevenue sums estimated revenue for the current and previous periods.
func PeriodRevenue(matches []Match, w Window, perGuest decimal.Decimal) (current, previous decimal.Decimal) {
	var cur, prev int64
	for _, m := range completedOnly(matches) {
		switch w.Classify(m.EffectiveTime()) {
		case PeriodCurrent:
			cur += int64(len(m.ParticipantIDs))
		case PeriodPrevious:
			prev += int64(len(m.ParticipantIDs))
		}
	}
	return perGuest.Mul(decimal.NewFromInt(cur)), perGuest.Mul(decimal.NewFromInt(prev))
}

// RevenueGrowth applies the guest growth rule to period revenue sums.
func RevenueGrowth(matches []Match, w Window, perGuest decimal.Decimal) float64 {
	current, previous := PeriodRevenue(matches, w, perGuest)
	if !previous.IsPositive() {
		return 0
	}
	pct := current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100))
	// same half-up rule as Round1, kept in decimal so x.x5 stays exact
	return pct.Shift(1).Add(decimal.New(5, -1)).Floor().Shift(-1).InexactFloat64()
}
