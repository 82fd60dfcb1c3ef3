package partners

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	"github.com/grangou/restaurant-dashboard/internal/store"
)

// Partner is a restaurant account in the B2B database.
type Partner struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the view of the partner the dashboard works with.
func (p *Partner) Identity() analytics.RestaurantIdentity {
	return analytics.RestaurantIdentity{ID: p.ID, Name: p.Name, Email: p.Email, CreatedAt: p.CreatedAt}
}

// PartnersRepository reads and writes the restaraunts table (sic, the
// table name predates this service).
type PartnersRepository struct {
	db  *store.DB
	log *zap.Logger
}

func NewPartnersRepository(db *store.DB, log *zap.Logger) *PartnersRepository {
	return &PartnersRepository{db: db, log: log}
}

const partnerColumns = `id, name, email, password_hash, created_at, updated_at`

func (r *PartnersRepository) Create(ctx context.Context, p *Partner) (*Partner, error) {
	query := `
		INSERT INTO restaraunts (name, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at`

	p.Email = strings.ToLower(strings.TrimSpace(p.Email))
	err := r.db.Pool.QueryRow(ctx, query, p.Name, p.Email, p.PasswordHash).
		Scan(&p.ID, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// GetByID returns nil, nil when the partner does not exist.
func (r *PartnersRepository) GetByID(ctx context.Context, id int64) (*Partner, error) {
	return r.getOne(ctx, `SELECT `+partnerColumns+` FROM restaraunts WHERE id = $1`, id)
}

// GetByEmail matches case-insensitively. Returns nil, nil when not found.
func (r *PartnersRepository) GetByEmail(ctx context.Context, email string) (*Partner, error) {
	return r.getOne(ctx, `SELECT `+partnerColumns+` FROM restaraunts WHERE email = $1`, strings.ToLower(strings.TrimSpace(email)))
}

func (r *PartnersRepository) getOne(ctx context.Context, query string, arg interface{}) (*Partner, error) {
	p := &Partner{}
	err := r.db.Pool.QueryRow(ctx, query, arg).Scan(
		&p.ID, &p.Name, &p.Email, &p.PasswordHash, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return p, nil
}

// List returns every partner, oldest first.
func (r *PartnersRepository) List(ctx context.Context) ([]analytics.RestaurantIdentity, error) {
	rows, err := r.db.Pool.Query(ctx, `SELECT id, name, email, created_at FROM restaraunts ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []analytics.RestaurantIdentity
	for rows.Next() {
		var id analytics.RestaurantIdentity
		if err := rows.Scan(&id.ID, &id.Name, &id.Email, &id.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}
