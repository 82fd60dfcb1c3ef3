package analytics

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// DefaultTrafficDays is the length of the traffic chart.
const DefaultTrafficDays = 30

// DefaultHourLabels is the opening-hours range of the peak hours chart.
var DefaultHourLabels = []string{
	"11 AM", "12 PM", "1 PM", "2 PM", "3 PM", "4 PM", "5 PM", "6 PM", "7 PM", "8 PM", "9 PM",
}

// TrafficPoint is one day of the traffic chart.
type TrafficPoint struct {
	Date     string `json:"date"`
	Visitors int    `json:"visitors"`
}

// DailySeries counts matches of any status per UTC calendar day by creation
// time, for the days-long range ending on now's day. The result always has
// exactly days entries; days without matches are zero.
func DailySeries(matches []Match, days int, now time.Time) []TrafficPoint {
	if days <= 0 {
		return []TrafficPoint{}
	}
	counts := make(map[string]int)
	for _, m := range matches {
		counts[dayKey(m.CreatedAt)]++
	}

	now = now.UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	series := make([]TrafficPoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		d := today.AddDate(0, 0, -i)
		series = append(series, TrafficPoint{Date: DayLabel(d), Visitors: counts[dayKey(d)]})
	}
	return series
}

// TrafficSummary condenses a daily series for the traffic card.
type TrafficSummary struct {
	TotalVisitors      int          `json:"totalVisitors"`
	AverageVisitors    float64      `json:"averageVisitors"`
	PeakDay            TrafficPoint `json:"peakDay"`
	LowDay             TrafficPoint `json:"lowDay"`
	LastWeekVisitors   int          `json:"lastWeekVisitors"`
	WeekOverWeekGrowth float64      `json:"weekOverWeekGrowth"`
}

// SummarizeTraffic computes mean, max and min over the series and compares the
// last 7 entries with the 7 before them. Ties for peak and low keep the
// earliest day.
func SummarizeTraffic(series []TrafficPoint) TrafficSummary {
	var s TrafficSummary
	if len(series) == 0 {
		return s
	}
	s.PeakDay, s.LowDay = series[0], series[0]
	for _, p := range series {
		s.TotalVisitors += p.Visitors
		if p.Visitors > s.PeakDay.Visitors {
			s.PeakDay = p
		}
		if p.Visitors < s.LowDay.Visitors {
			s.LowDay = p
		}
	}
	s.AverageVisitors = Round1(float64(s.TotalVisitors) / float64(len(series)))

	last := sumVisitors(tail(series, 0, 7))
	prior := sumVisitors(tail(series, 7, 7))
	s.LastWeekVisitors = last
	s.WeekOverWeekGrowth = GrowthPercent(float64(last), float64(prior))
	return s
}

// tail returns up to n entries ending skip entries before the end.
func tail(series []TrafficPoint, skip, n int) []TrafficPoint {
	end := len(series) - skip
	if end <= 0 {
		return nil
	}
	start := end - n
	if start < 0 {
		start = 0
	}
	return series[start:end]
}

func sumVisitors(points []TrafficPoint) int {
	total := 0
	for _, p := range points {
		total += p.Visitors
	}
	return total
}

// HourBucket is one bar of the peak hours chart.
type HourBucket struct {
	Hour    string `json:"hour"`
	Traffic int    `json:"traffic"`
}

// ParseHourLabel converts a 12-hour clock label such as "11 AM" or "12 PM" to
// an hour of day in [0, 23].
func ParseHourLabel(label string) (int, error) {
	fields := strings.Fields(strings.ToUpper(label))
	if len(fields) != 2 {
		return 0, fmt.Errorf("hour label %q: want \"<hour> AM|PM\"", label)
	}
	h, err := strconv.Atoi(fields[0])
	if err != nil || h < 1 || h > 12 {
		return 0, fmt.Errorf("hour label %q: bad hour", label)
	}
	switch fields[1] {
	case "AM":
		if h == 12 {
			h = 0
		}
	case "PM":
		if h != 12 {
			h += 12
		}
	default:
		return 0, fmt.Errorf("hour label %q: bad meridiem", label)
	}
	return h, nil
}

// HourlyHistogram counts matches per UTC creation hour for each label, in label
// order. Labels that do not parse get zero traffic.
func HourlyHistogram(matches []Match, labels []string) []HourBucket {
	var byHour [24]int
	for _, m := range matches {
		byHour[m.CreatedAt.UTC().Hour()]++
	}
	out := make([]HourBucket, 0, len(labels))
	for _, label := range labels {
		b := HourBucket{Hour: label}
		if h, err := ParseHourLabel(label); err == nil {
			b.Traffic = byHour[h]
		}
		out = append(out, b)
	}
	return out
}
