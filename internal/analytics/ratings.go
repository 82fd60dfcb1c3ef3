package analytics

// RatingSummary is the rating part of the impact metrics.
type RatingSummary struct {
	Average      float64 `json:"averageRating"`
	Change       float64 `json:"ratingChange"`
	TotalReviews int     `json:"totalReviews"`
}

// SummarizeRatings aggregates every rated match. Status is deliberately not
// checked here: a rated match counts even if it never reached
// completed_successful.
func SummarizeRatings(matches []Match, w Window) RatingSummary {
	var all, current, previous []float64
	for _, m := range matches {
		r, ok := m.Rating()
		if !ok {
			continue
		}
		all = append(all, r)
		switch w.Classify(m.EffectiveTime()) {
		case PeriodCurrent:
			current = append(current, r)
		case PeriodPrevious:
			previous = append(previous, r)
		}
	}

	s := RatingSummary{TotalReviews: len(all)}
	if len(all) > 0 {
		s.Average = Round1(mean(all))
	}
	if len(current) > 0 && len(previous) > 0 {
		s.Change = Round1(mean(current) - mean(previous))
	}
	return s
}

// AverageRating is the mean rating rounded to one decimal, or 0 with no ratings.
func AverageRating(matches []Match) float64 {
	return SummarizeRatings(matches, Window{}).Average
}

func mean(vs []float64) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range vs {
		sum += v
	}
	return sum / float64(len(vs))
}
