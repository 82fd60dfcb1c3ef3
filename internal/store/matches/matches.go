package matches

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/store"
)

// Filter narrows a Fetch. Zero values mean no restriction.
type Filter struct {
	Since        time.Time
	Status       analytics.Status
	FeedbackOnly bool
	// Limit applies after ordering by effective time, newest first.
	Limit int
}

// MatchesRepository reads the mobile app's matches table.
type MatchesRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewMatchesRepository(db *store.DB, log *zap.Logger) *MatchesRepository {
	return &MatchesRepository{db: db, log: log}
}

const matchColumns = `id::text, match_type, status, matched_user_ids::text[], completion_feedback, created_at, completed_at`

// Fetch returns the raw match rows for one restaurant.
func (r *MatchesRepository) Fetch(ctx context.Context, restaurantName string, f Filter) ([]analytics.RawMatch, error) {
	query, args := buildFetchQuery(restaurantName, f)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query matches: %w", err)
	}
	defer rows.Close()

	var out []analytics.RawMatch
	for rows.Next() {
		var m analytics.RawMatch
		if err := rows.Scan(&m.ID, &m.MatchType, &m.Status, &m.ParticipantIDs, &m.Feedback, &m.CreatedAt, &m.CompletedAt); err != nil {
			return nil, fmt.Errorf("scan match: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate matches: %w", err)
	}
	r.log.Debug("fetched matches",
		zap.String("restaurant", restaurantName),
		zap.Int("rows", len(out)),
	)
	return out, nil
}

func buildFetchQuery(restaurantName string, f Filter) (string, []interface{}) {
	var b strings.Builder
	b.WriteString("SELECT " + matchColumns + " FROM matches WHERE restaurant_name = $1")
	args := []interface{}{restaurantName}

	if !f.Since.IsZero() {
		args = append(args, f.Since.UTC())
		fmt.Fprintf(&b, " AND created_at >= $%d", len(args))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		fmt.Fprintf(&b, " AND status = $%d", len(args))
	}
	if f.FeedbackOnly {
		b.WriteString(" AND completion_feedback IS NOT NULL")
	}
	b.WriteString(" ORDER BY COALESCE(completed_at, created_at) DESC NULLS LAST, id")
	if f.Limit > 0 {
		args = append(args, f.Limit)
		fmt.Fprintf(&b, " LIMIT $%d", len(args))
	}
	return b.String(), args
}

// LatestRestaurantData reads the restaurant snapshot stored on the newest
// match. A restaurant without matches gets an empty snapshot.
func (r *MatchesRepository) LatestRestaurantData(ctx context.Context, restaurantName string) (analytics.RestaurantData, error) {
	var data analytics.RestaurantData
	var raw []byte
	err := r.db.Pool.QueryRow(ctx, `
		SELECT restaurant_data
		FROM matches
		WHERE restaurant_name = $1
		ORDER BY created_at DESC NULLS LAST
		LIMIT 1`, restaurantName).Scan(&raw)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return data, nil
		}
		return data, fmt.Errorf("query restaurant data: %w", err)
	}
	if len(raw) == 0 {
		return data, nil
	}
	if err := json.Unmarshal(raw, &data); err != nil {
		r.log.Warn("unreadable restaurant_data",
			zap.String("restaurant", restaurantName),
			zap.Error(err),
		)
		return analytics.RestaurantData{}, nil
	}
	return data, nil
}
