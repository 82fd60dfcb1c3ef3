package kafkax

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/segmentio/kafka-go"
)

type Consumer struct {
	reader *kafka.Reader
}

func NewConsumer(brokers []string, group, topic string) *Consumer {
	return &Consumer{reader: kafka.NewReader(kafka.ReaderConfig{
		Brokers:  brokers,
		GroupID:  group,
		Topic:    topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})}
}

func (c *Consumer) Fetch(ctx context.Context) (kafka.Message, error) {
	return c.reader.FetchMessage(ctx)
}

func (c *Consumer) Commit(ctx context.Context, m kafka.Message) error {
	return c.reader.CommitMessages(ctx, m)
}

func (c *Consumer) Close() error { return c.reader.Close() }

// Match event types emitted by the mobile app.
const (
	EventMatchCreated   = "match.created"
	EventMatchCompleted = "match.completed"
	EventMatchFeedback  = "match.feedback"
	EventMatchCancelled = "match.cancelled"
)

// MatchEvent is the envelope of every message on the match events topic.
type MatchEvent struct {
	ID             string    `json:"id"`
	Type           string    `json:"type"`
	RestaurantName string    `json:"restaurant_name"`
	MatchID        string    `json:"match_id"`
	OccurredAt     time.Time `json:"occurred_at"`
}

var ErrMissingRestaurant = errors.New("match event without restaurant_name")

// Known reports whether the event type is one the dashboard reacts to.
func (e MatchEvent) Known() bool {
	switch e.Type {
	case EventMatchCreated, EventMatchCompleted, EventMatchFeedback, EventMatchCancelled:
		return true
	}
	return false
}

func ParseEnvelope(b []byte) (MatchEvent, error) {
	var e MatchEvent
	if err := json.Unmarshal(b, &e); err != nil {
		return e, err
	}
	e.RestaurantName = strings.TrimSpace(e.RestaurantName)
	if e.RestaurantName == "" {
		return e, ErrMissingRestaurant
	}
	return e, nil
}
