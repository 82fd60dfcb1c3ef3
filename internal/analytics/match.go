package analytics

import "time"

// Status is the lifecycle state of a match in the mobile app database.
type Status string

const (
	StatusPending             Status = "pending"
	StatusCompletedSuccessful Status = "completed_successful"
	StatusCancelled           Status = "cancelled"
)

// Feedback is what a guest leaves after the meal. Rating is nil when the guest
// wrote a review without scoring it.
type Feedback struct {
	Rating *float64 `json:"rating,omitempty"`
	Text   string   `json:"feedback,omitempty"`
}

// Match is the canonical shape every aggregator works on. Build it with Normalize.
type Match struct {
	ID             string
	MatchType      string
	Status         Status
	ParticipantIDs []string
	Feedback       *Feedback
	CreatedAt      time.Time
	CompletedAt    *time.Time
}

// EffectiveTime is the instant used for period bucketing: completion time when
// known, creation time otherwise.
func (m Match) EffectiveTime() time.Time {
	if m.CompletedAt != nil && !m.CompletedAt.IsZero() {
		return m.CompletedAt.UTC()
	}
	return m.CreatedAt.UTC()
}

// Completed reports whether the match counts toward guest and revenue metrics.
func (m Match) Completed() bool {
	return m.Status == StatusCompletedSuccessful
}

// Rating returns the guest rating and whether one was given.
func (m Match) Rating() (float64, bool) {
	if m.Feedback == nil || m.Feedback.Rating == nil {
		return 0, false
	}
	return *m.Feedback.Rating, true
}

// GuestProfile is the subset of a mobile app user the dashboard displays.
type GuestProfile struct {
	FirstName         string   `json:"first_name"`
	LastName          string   `json:"last_name"`
	PreferredCuisines []string `json:"preferred_cuisines"`
}

// RestaurantIdentity is the authenticated partner. Name is the join key into
// the match store.
type RestaurantIdentity struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

// RestaurantData is the restaurant snapshot the mobile app stores on each match.
type RestaurantData struct {
	Cuisine string `json:"cuisine"`
	Address string `json:"address"`
	Image   string `json:"image"`
}

func completedOnly(matches []Match) []Match {
	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if m.Completed() {
			out = append(out, m)
		}
	}
	return out
}
