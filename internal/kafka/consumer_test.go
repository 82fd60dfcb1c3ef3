package kafkax

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnvelope(t *testing.T) {
	e, err := ParseEnvelope([]byte(`{"id":"e1","type":"match.completed","restaurant_name":" Chez Gou ","match_id":"m1","occurred_at":"2026-10-19T12:00:00Z"}`))
	require.NoError(t, err)
	assert.Equal(t, MatchEvent{
		ID:             "e1",
		Type:           EventMatchCompleted,
		RestaurantName: "Chez Gou",
		MatchID:        "m1",
		OccurredAt:     time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC),
	}, e)
	assert.True(t, e.Known())
}

func TestParseEnvelopeErrors(t *testing.T) {
	_, err := ParseEnvelope([]byte(`not json`))
	assert.Error(t, err)

	_, err = ParseEnvelope([]byte(`{"type":"match.created"}`))
	assert.ErrorIs(t, err, ErrMissingRestaurant)
}

func TestKnownEventTypes(t *testing.T) {
	assert.False(t, MatchEvent{Type: "restaurant.updated"}.Known())
	assert.True(t, MatchEvent{Type: EventMatchFeedback}.Known())
}
