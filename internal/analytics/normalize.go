package analytics

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// RawMatch is a matches row as scanned from the mobile app database, before
// any cleanup. Feedback is the raw completion_feedback jsonb.
type RawMatch struct {
	ID             string
	MatchType      *string
	Status         *string
	ParticipantIDs []string
	Feedback       []byte
	CreatedAt      *time.Time
	CompletedAt    *time.Time
}

// Rejection reasons.
const (
	ReasonMissingID        = "missing_id"
	ReasonMissingCreatedAt = "missing_created_at"
	ReasonBadFeedback      = "bad_feedback"
	ReasonRatingRange      = "rating_out_of_range"
)

// Rejection describes a data quality problem found while normalizing. Dropped
// is false when the record was kept after repair.
type Rejection struct {
	MatchID string
	Reason  string
	Dropped bool
}

// rawFeedback accepts ratings stored either as numbers or numeric strings.
type rawFeedback struct {
	Rating   json.RawMessage `json:"rating"`
	Feedback string          `json:"feedback"`
}

// Normalize converts raw rows into canonical matches. Rows without an id or a
// creation time are skipped; fixable problems are repaired in place.
func Normalize(raws []RawMatch) ([]Match, []Rejection) {
	matches := make([]Match, 0, len(raws))
	var rejections []Rejection

	for _, r := range raws {
		id := strings.TrimSpace(r.ID)
		if id == "" {
			rejections = append(rejections, Rejection{Reason: ReasonMissingID, Dropped: true})
			continue
		}
		if r.CreatedAt == nil || r.CreatedAt.IsZero() {
			rejections = append(rejections, Rejection{MatchID: id, Reason: ReasonMissingCreatedAt, Dropped: true})
			continue
		}

		m := Match{
			ID:             id,
			MatchType:      deref(r.MatchType),
			Status:         Status(deref(r.Status)),
			ParticipantIDs: uniqueIDs(r.ParticipantIDs),
			CreatedAt:      r.CreatedAt.UTC(),
		}
		if r.CompletedAt != nil && !r.CompletedAt.IsZero() {
			completed := r.CompletedAt.UTC()
			m.CompletedAt = &completed
		}

		fb, reason := parseFeedback(r.Feedback)
		if reason != "" {
			rejections = append(rejections, Rejection{MatchID: id, Reason: reason})
		}
		m.Feedback = fb

		matches = append(matches, m)
	}
	return matches, rejections
}

func parseFeedback(b []byte) (*Feedback, string) {
	if len(b) == 0 || string(b) == "null" {
		return nil, ""
	}
	var raw rawFeedback
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, ReasonBadFeedback
	}
	fb := &Feedback{Text: raw.Feedback}

	rating, present, ok := parseRating(raw.Rating)
	if !present {
		return fb, ""
	}
	if !ok {
		return fb, ReasonBadFeedback
	}
	if rating < 1 || rating > 5 {
		return fb, ReasonRatingRange
	}
	fb.Rating = &rating
	return fb, ""
}

// parseRating reports whether a rating was present at all and whether it
// parsed as a number.
func parseRating(b json.RawMessage) (v float64, present, ok bool) {
	s := strings.TrimSpace(string(b))
	if s == "" || s == "null" {
		return 0, false, false
	}
	s = strings.Trim(s, `"`)
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, true, false
	}
	return v, true, true
}

func uniqueIDs(ids []string) []string {
	if len(ids) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.TrimSpace(id)
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
