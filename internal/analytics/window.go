package analytics

import "time"

// DefaultPeriod is the rolling window used for period-over-period comparisons.
const DefaultPeriod = 30 * 24 * time.Hour

// Period says which comparison bucket an instant falls in.
type Period int

const (
	PeriodNone Period = iota
	PeriodCurrent
	PeriodPrevious
)

// Window holds the boundaries of the current and previous rolling periods.
// Current is [CurrentStart, +inf), previous is [PreviousStart, CurrentStart).
type Window struct {
	CurrentStart  time.Time
	PreviousStart time.Time
}

// NewWindow anchors two back-to-back periods of the given length at now.
// A non-positive length falls back to DefaultPeriod.
func NewWindow(now time.Time, length time.Duration) Window {
	if length <= 0 {
		length = DefaultPeriod
	}
	now = now.UTC()
	return Window{
		CurrentStart:  now.Add(-length),
		PreviousStart: now.Add(-2 * length),
	}
}

// Classify buckets t into the current or previous period.
func (w Window) Classify(t time.Time) Period {
	switch {
	case !t.Before(w.CurrentStart):
		return PeriodCurrent
	case !t.Before(w.PreviousStart):
		return PeriodPrevious
	default:
		return PeriodNone
	}
}

// dayKey is the UTC calendar day of t.
func dayKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// DayLabel is the chart label for a calendar day, e.g. "Oct 19".
func DayLabel(t time.Time) string {
	return t.UTC().Format("Jan 2")
}
