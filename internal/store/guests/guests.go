package guests

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/store"
)

// GuestsRepository resolves mobile app users into display profiles.
type GuestsRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewGuestsRepository(db *store.DB, log *zap.Logger) *GuestsRepository {
	return &GuestsRepository{db: db, log: log}
}

// ResolveProfiles looks up every id at once. Unknown ids are absent from the
// result.
func (r *GuestsRepository) ResolveProfiles(ctx context.Context, ids []string) (map[string]analytics.GuestProfile, error) {
	out := make(map[string]analytics.GuestProfile, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	rows, err := r.db.Pool.Query(ctx, `
		SELECT id::text, COALESCE(first_name, ''), COALESCE(last_name, ''), COALESCE(preferred_cuisines, '{}')
		FROM users
		WHERE id::text = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("query users: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id string
		var p analytics.GuestProfile
		if err := rows.Scan(&id, &p.FirstName, &p.LastName, &p.PreferredCuisines); err != nil {
			return nil, fmt.Errorf("scan user: %w", err)
		}
		out[id] = p
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate users: %w", err)
	}
	if missing := len(ids) - len(out); missing > 0 {
		r.log.Debug("unresolved guest ids", zap.Int("missing", missing))
	}
	return out, nil
}
