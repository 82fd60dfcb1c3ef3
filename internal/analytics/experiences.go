package analytics

import (
	"fmt"
	"sort"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	// DefaultExperienceLimit is how many reviews the recent experiences card shows.
	DefaultExperienceLimit = 10
	maxKeywords            = 3
	anonymousGuest         = "Guest"
	noFeedbackText         = "No feedback provided"
)

// Experience is one entry of the recent guest experiences card.
type Experience struct {
	ID           int      `json:"id"`
	UserName     string   `json:"userName"`
	Avatar       string   `json:"avatar"`
	Rating       float64  `json:"rating"`
	Review       string   `json:"review"`
	MatchType    string   `json:"matchType"`
	Keywords     []string `json:"keywords"`
	TimeAgo      string   `json:"timeAgo"`
	Acknowledged bool     `json:"acknowledged"`
}

// SelectRecentFeedback returns up to limit matches carrying feedback, newest
// effective completion first.
func SelectRecentFeedback(matches []Match, limit int) []Match {
	withFeedback := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Feedback != nil {
			withFeedback = append(withFeedback, m)
		}
	}
	sort.SliceStable(withFeedback, func(i, j int) bool {
		return withFeedback[i].EffectiveTime().After(withFeedback[j].EffectiveTime())
	})
	if limit >= 0 && len(withFeedback) > limit {
		withFeedback = withFeedback[:limit]
	}
	return withFeedback
}

// ParticipantIDs collects the distinct participants of matches, in first-seen order.
func ParticipantIDs(matches []Match) []string {
	var ids []string
	seen := make(map[string]struct{})
	for _, m := range matches {
		for _, id := range m.ParticipantIDs {
			if _, ok := seen[id]; ok {
				continue
			}
			seen[id] = struct{}{}
			ids = append(ids, id)
		}
	}
	return ids
}

// FormatExperiences renders matches in the given order. profiles may miss ids;
// those guests are shown as "Guest". timeAgo is computed once here against now.
func FormatExperiences(matches []Match, profiles map[string]GuestProfile, now time.Time) []Experience {
	out := make([]Experience, 0, len(matches))
	for i, m := range matches {
		var first GuestProfile
		if len(m.ParticipantIDs) > 0 {
			first = profiles[m.ParticipantIDs[0]]
		}
		name, avatar := displayName(first)

		e := Experience{
			ID:        i + 1,
			UserName:  name,
			Avatar:    avatar,
			Review:    noFeedbackText,
			MatchType: LookupMatchType(m.MatchType).Label,
			Keywords:  keywords(m.ParticipantIDs, profiles),
			TimeAgo:   TimeAgo(m.EffectiveTime(), now),
		}
		if r, ok := m.Rating(); ok {
			e.Rating = r
		}
		if m.Feedback != nil && strings.TrimSpace(m.Feedback.Text) != "" {
			e.Review = m.Feedback.Text
		}
		out = append(out, e)
	}
	return out
}

// displayName builds "First L." and the "FL" avatar initials.
func displayName(p GuestProfile) (string, string) {
	first := strings.TrimSpace(p.FirstName)
	last := strings.TrimSpace(p.LastName)
	if first == "" {
		first = anonymousGuest
	}
	name, avatar := first, firstRune(first)
	if last != "" {
		name += " " + firstRune(last) + "."
		avatar += firstRune(last)
	}
	return name, strings.ToUpper(avatar)
}

func firstRune(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if size == 0 || r == utf8.RuneError {
		return ""
	}
	return string(r)
}

func keywords(ids []string, profiles map[string]GuestProfile) []string {
	out := []string{}
	seen := make(map[string]struct{})
	for _, id := range ids {
		for _, c := range profiles[id].PreferredCuisines {
			if c == "" {
				continue
			}
			if _, ok := seen[c]; ok {
				continue
			}
			seen[c] = struct{}{}
			out = append(out, c)
			if len(out) == maxKeywords {
				return out
			}
		}
	}
	return out
}

// TimeAgo renders the elapsed time between then and now at day or hour
// granularity, e.g. "3 days ago", "1 hour ago", "just now".
func TimeAgo(then, now time.Time) string {
	elapsed := now.Sub(then)
	hours := int(elapsed / time.Hour)
	days := hours / 24
	switch {
	case days > 0:
		return fmt.Sprintf("%d %s ago", days, plural(days, "day"))
	case hours > 0:
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	default:
		return "just now"
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
