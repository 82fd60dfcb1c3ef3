package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/grangou/restaurant-dashboard/internal/analytics"
	jwtMiddleware "github.com/grangou/restaurant-dashboard/internal/middleware"
	"github.com/grangou/restaurant-dashboard/internal/store/partners"
)

type partnerStore interface {
	GetByID(ctx context.Context, id int64) (*partners.Partner, error)
	GetByEmail(ctx context.Context, email string) (*partners.Partner, error)
	Create(ctx context.Context, p *partners.Partner) (*partners.Partner, error)
}

type AuthService struct {
	log      *zap.Logger
	partners partnerStore
	secret   string
	ttl      time.Duration
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token   string       `json:"token"`
	User    *PartnerInfo `json:"user"`
	Expires time.Time    `json:"expires"`
}

type PartnerInfo struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

var (
	ErrMissingCredentials = errors.New("email and password are required")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrPartnerNotFound    = errors.New("user not found")
)

func NewAuthService(log *zap.Logger, partners partnerStore, secret string, ttl time.Duration) *AuthService {
	return &AuthService{
		log:      log,
		partners: partners,
		secret:   secret,
		ttl:      ttl,
	}
}

func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*LoginResponse, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, ErrMissingCredentials
	}
	p, err := s.partners.GetByEmail(ctx, req.Email)
	if err != nil {
		return nil, fmt.Errorf("lookup partner: %w", err)
	}
	// unknown email and wrong password look the same to the caller
	if p == nil || p.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(p.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	expires := time.Now().Add(s.ttl)
	token, err := jwtMiddleware.Issue(s.secret, p.ID, p.Email, s.ttl)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	s.log.Info("partner logged in", zap.Int64("restaurant_id", p.ID))
	return &LoginResponse{Token: token, User: toInfo(p), Expires: expires}, nil
}

// Verify returns the partner behind an already validated token.
func (s *AuthService) Verify(ctx context.Context, restaurantID int64) (*PartnerInfo, error) {
	p, err := s.lookup(ctx, restaurantID)
	if err != nil {
		return nil, err
	}
	return toInfo(p), nil
}

// Identity is the authenticated restaurant lookup the dashboard runs on.
func (s *AuthService) Identity(ctx context.Context, restaurantID int64) (analytics.RestaurantIdentity, error) {
	p, err := s.lookup(ctx, restaurantID)
	if err != nil {
		return analytics.RestaurantIdentity{}, err
	}
	return p.Identity(), nil
}

func (s *AuthService) lookup(ctx context.Context, restaurantID int64) (*partners.Partner, error) {
	p, err := s.partners.GetByID(ctx, restaurantID)
	if err != nil {
		return nil, fmt.Errorf("lookup partner: %w", err)
	}
	if p == nil {
		return nil, ErrPartnerNotFound
	}
	return p, nil
}

// SeedDemoPartner creates the demo account if no partner uses its email yet.
func (s *AuthService) SeedDemoPartner(ctx context.Context, name, email, password string) error {
	existing, err := s.partners.GetByEmail(ctx, email)
	if err != nil {
		return fmt.Errorf("failed to check existing partner: %w", err)
	}
	if existing != nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	p, err := s.partners.Create(ctx, &partners.Partner{Name: name, Email: email, PasswordHash: string(hashedPassword)})
	if err != nil {
		return fmt.Errorf("failed to create demo partner: %w", err)
	}
	s.log.Info("demo partner created", zap.Int64("restaurant_id", p.ID), zap.String("email", p.Email))
	return nil
}

func toInfo(p *partners.Partner) *PartnerInfo {
	return &PartnerInfo{ID: p.ID, Email: p.Email, Name: p.Name, CreatedAt: p.CreatedAt, UpdatedAt: p.UpdatedAt}
}
