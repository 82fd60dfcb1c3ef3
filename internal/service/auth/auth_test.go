package auth

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	jwtMiddleware "github.com/grangou/restaurant-dashboard/internal/middleware"
	"github.com/grangou/restaurant-dashboard/internal/store/partners"
)

type fakePartners struct {
	byID    map[int64]*partners.Partner
	created []*partners.Partner
}

func newFakePartners(ps ...*partners.Partner) *fakePartners {
	f := &fakePartners{byID: map[int64]*partners.Partner{}}
	for _, p := range ps {
		f.byID[p.ID] = p
	}
	return f
}

func (f *fakePartners) GetByID(_ context.Context, id int64) (*partners.Partner, error) {
	return f.byID[id], nil
}

func (f *fakePartners) GetByEmail(_ context.Context, email string) (*partners.Partner, error) {
	for _, p := range f.byID {
		if p.Email == strings.ToLower(email) {
			return p, nil
		}
	}
	return nil, nil
}

func (f *fakePartners) Create(_ context.Context, p *partners.Partner) (*partners.Partner, error) {
	p.ID = int64(len(f.byID) + 1)
	f.byID[p.ID] = p
	f.created = append(f.created, p)
	return p, nil
}

func hashed(t *testing.T, pw string) string {
	t.Helper()
	b, err := bcrypt.GenerateFromPassword([]byte(pw), bcrypt.MinCost)
	require.NoError(t, err)
	return string(b)
}

const secret = "s3cret"

func TestLogin(t *testing.T) {
	store := newFakePartners(&partners.Partner{ID: 9, Name: "Chez Gou", Email: "chef@chezgou.fr", PasswordHash: hashed(t, "bonappetit")})
	svc := NewAuthService(zap.NewNop(), store, secret, time.Hour)

	resp, err := svc.Login(context.Background(), LoginRequest{Email: "Chef@ChezGou.fr", Password: "bonappetit"})
	require.NoError(t, err)
	assert.Equal(t, int64(9), resp.User.ID)

	claims, err := jwtMiddleware.ParseBearer(secret, "Bearer "+resp.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(9), claims.RestaurantID)
}

func TestLoginFailures(t *testing.T) {
	store := newFakePartners(&partners.Partner{ID: 9, Email: "chef@chezgou.fr", PasswordHash: hashed(t, "bonappetit")})
	svc := NewAuthService(zap.NewNop(), store, secret, time.Hour)
	ctx := context.Background()

	_, err := svc.Login(ctx, LoginRequest{Email: "chef@chezgou.fr"})
	assert.ErrorIs(t, err, ErrMissingCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "chef@chezgou.fr", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.Login(ctx, LoginRequest{Email: "nobody@example.com", Password: "bonappetit"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestIdentity(t *testing.T) {
	created := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	svc := NewAuthService(zap.NewNop(), newFakePartners(&partners.Partner{ID: 4, Name: "Trattoria", CreatedAt: created}), secret, time.Hour)

	id, err := svc.Identity(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Trattoria", id.Name)
	assert.Equal(t, created, id.CreatedAt)

	_, err = svc.Identity(context.Background(), 5)
	assert.ErrorIs(t, err, ErrPartnerNotFound)
}

func TestSeedDemoPartnerIsIdempotent(t *testing.T) {
	store := newFakePartners()
	svc := NewAuthService(zap.NewNop(), store, secret, time.Hour)

	require.NoError(t, svc.SeedDemoPartner(context.Background(), "Demo", "demo@grangou.com", "demo123"))
	require.NoError(t, svc.SeedDemoPartner(context.Background(), "Demo", "demo@grangou.com", "demo123"))
	require.Len(t, store.created, 1)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(store.created[0].PasswordHash), []byte("demo123")))
}
