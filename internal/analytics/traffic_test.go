package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func createdAt(at time.Time) Match {
	return Match{ID: at.String(), MatchType: MatchTypeGroup4, Status: StatusPending, CreatedAt: at}
}

func TestDailySeriesLengthAlwaysMatches(t *testing.T) {
	dense := make([]Match, 0, 200)
	for i := 0; i < 200; i++ {
		dense = append(dense, createdAt(testNow.Add(-time.Duration(i)*3*time.Hour)))
	}
	inputs := map[string][]Match{
		"empty":  nil,
		"sparse": {createdAt(daysAgo(2)), createdAt(daysAgo(400))},
		"dense":  dense,
	}
	for name, matches := range inputs {
		for _, days := range []int{1, 7, 30, 90} {
			assert.Len(t, DailySeries(matches, days, testNow), days, name)
		}
	}
	assert.Empty(t, DailySeries(dense, 0, testNow))
}

func TestDailySeriesBucketsByUTCDay(t *testing.T) {
	today := time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC)
	matches := []Match{
		createdAt(today.Add(time.Minute)),
		createdAt(today.Add(14 * time.Hour)),
		createdAt(today.Add(-time.Minute)), // Oct 18, 23:59
		createdAt(today.AddDate(0, 0, -29)),
		createdAt(today.AddDate(0, 0, -30)), // outside the range
	}

	series := DailySeries(matches, 30, testNow)
	require.Len(t, series, 30)
	assert.Equal(t, TrafficPoint{Date: "Sep 20", Visitors: 1}, series[0])
	assert.Equal(t, TrafficPoint{Date: "Oct 18", Visitors: 1}, series[28])
	assert.Equal(t, TrafficPoint{Date: "Oct 19", Visitors: 2}, series[29])

	total := 0
	for _, p := range series {
		total += p.Visitors
	}
	assert.Equal(t, 4, total)
}

func TestDailySeriesZeroFill(t *testing.T) {
	series := DailySeries(nil, 30, testNow)
	for _, p := range series {
		assert.Zero(t, p.Visitors)
		assert.NotEmpty(t, p.Date)
	}
}

func TestSummarizeTraffic(t *testing.T) {
	series := make([]TrafficPoint, 14)
	for i := range series {
		series[i] = TrafficPoint{Date: DayLabel(daysAgo(13 - i)), Visitors: 1}
	}
	series[3].Visitors = 0
	series[10].Visitors = 6

	s := SummarizeTraffic(series)
	assert.Equal(t, 18, s.TotalVisitors)
	assert.Equal(t, 1.3, s.AverageVisitors)
	assert.Equal(t, series[10], s.PeakDay)
	assert.Equal(t, series[3], s.LowDay)
	// last 7 = 6 + 6*1 = 12, prior 7 = 6
	assert.Equal(t, 12, s.LastWeekVisitors)
	assert.Equal(t, float64(100), s.WeekOverWeekGrowth)
}

func TestSummarizeTrafficEmptyAndQuiet(t *testing.T) {
	assert.Equal(t, TrafficSummary{}, SummarizeTraffic(nil))

	s := SummarizeTraffic(DailySeries(nil, 30, testNow))
	assert.Equal(t, float64(0), s.AverageVisitors)
	assert.Equal(t, float64(0), s.WeekOverWeekGrowth)
	assert.Equal(t, "Sep 20", s.PeakDay.Date)
}

func TestParseHourLabel(t *testing.T) {
	cases := map[string]int{
		"11 AM": 11,
		"12 PM": 12,
		"1 PM":  13,
		"9 PM":  21,
		"12 AM": 0,
		"1 am":  1,
	}
	for label, want := range cases {
		got, err := ParseHourLabel(label)
		require.NoError(t, err, label)
		assert.Equal(t, want, got, label)
	}

	for _, bad := range []string{"", "13 PM", "0 AM", "noon", "5 XM", "5PM"} {
		_, err := ParseHourLabel(bad)
		assert.Error(t, err, bad)
	}
}

func TestHourlyHistogram(t *testing.T) {
	day := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	matches := []Match{
		createdAt(day.Add(11*time.Hour + 5*time.Minute)),
		createdAt(day.Add(19 * time.Hour)),
		createdAt(day.AddDate(0, 0, 3).Add(19*time.Hour + 59*time.Minute)),
		createdAt(day.Add(2 * time.Hour)), // before opening, not on the chart
	}

	got := HourlyHistogram(matches, DefaultHourLabels)
	require.Len(t, got, len(DefaultHourLabels))
	assert.Equal(t, HourBucket{Hour: "11 AM", Traffic: 1}, got[0])
	assert.Equal(t, HourBucket{Hour: "7 PM", Traffic: 2}, got[8])

	midnight := HourlyHistogram([]Match{createdAt(day)}, []string{"12 AM", "bogus"})
	assert.Equal(t, []HourBucket{{Hour: "12 AM", Traffic: 1}, {Hour: "bogus"}}, midnight)
}
