package analytics

import "time"

var testNow = time.Date(2026, 10, 19, 15, 30, 0, 0, time.UTC)

func daysAgo(n int) time.Time {
	return testNow.Add(-time.Duration(n) * 24 * time.Hour)
}

func ptrTime(t time.Time) *time.Time { return &t }

func ptrFloat(v float64) *float64 { return &v }

func completed(id string, at time.Time, guests ...string) Match {
	return Match{
		ID:             id,
		MatchType:      MatchTypeOneOnOne,
		Status:         StatusCompletedSuccessful,
		ParticipantIDs: guests,
		CreatedAt:      at.Add(-2 * time.Hour),
		CompletedAt:    ptrTime(at),
	}
}

func rated(m Match, rating float64) Match {
	m.Feedback = &Feedback{Rating: ptrFloat(rating), Text: "great"}
	return m
}
