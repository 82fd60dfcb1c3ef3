package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSummarizeRatingsCurrentOnly(t *testing.T) {
	w := NewWindow(testNow, DefaultPeriod)
	matches := []Match{
		rated(completed("a", daysAgo(1), "A"), 4),
		rated(completed("b", daysAgo(2), "B"), 5),
	}

	s := SummarizeRatings(matches, w)
	assert.Equal(t, 4.5, s.Average)
	assert.Equal(t, float64(0), s.Change)
	assert.Equal(t, 2, s.TotalReviews)
}

func TestSummarizeRatingsEmpty(t *testing.T) {
	s := SummarizeRatings(nil, NewWindow(testNow, DefaultPeriod))
	assert.Equal(t, RatingSummary{}, s)
	assert.Equal(t, float64(0), AverageRating(nil))
}

func TestSummarizeRatingsIgnoresStatus(t *testing.T) {
	cancelled := rated(completed("c", daysAgo(1), "A"), 2)
	cancelled.Status = StatusCancelled

	s := SummarizeRatings([]Match{cancelled, rated(completed("ok", daysAgo(1), "B"), 4)}, NewWindow(testNow, DefaultPeriod))
	assert.Equal(t, 2, s.TotalReviews)
	assert.Equal(t, float64(3), s.Average)
}

func TestSummarizeRatingsExcludesMissingRating(t *testing.T) {
	textOnly := completed("t", daysAgo(1), "A")
	textOnly.Feedback = &Feedback{Text: "nice"}

	s := SummarizeRatings([]Match{textOnly, rated(completed("r", daysAgo(1), "B"), 5)}, NewWindow(testNow, DefaultPeriod))
	assert.Equal(t, 1, s.TotalReviews)
	assert.Equal(t, float64(5), s.Average)
}

func TestSummarizeRatingsChange(t *testing.T) {
	w := NewWindow(testNow, DefaultPeriod)
	matches := []Match{
		rated(completed("c1", daysAgo(1), "A"), 5),
		rated(completed("c2", daysAgo(3), "B"), 4),
		rated(completed("p1", daysAgo(35), "C"), 3),
		rated(completed("p2", daysAgo(50), "D"), 4),
		rated(completed("old", daysAgo(90), "E"), 1),
	}

	s := SummarizeRatings(matches, w)
	// current 4.5, previous 3.5
	assert.Equal(t, float64(1), s.Change)
	// (5+4+3+4+1)/5 = 3.4
	assert.Equal(t, 3.4, s.Average)
	assert.Equal(t, 5, s.TotalReviews)
}
