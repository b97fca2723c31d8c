package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/tkasten/wayfare/backend/internal/auth"
	"github.com/tkasten/wayfare/backend/internal/domain"
	"github.com/tkasten/wayfare/backend/internal/repo"
)

const minPasswordLen = 8

// AuthResult is what a successful register or login returns: the account and
// a signed access token with its expiry.
type AuthResult struct {
	User      domain.User
	Token     string
	ExpiresAt time.Time
}

// UserService implements account registration, login, and profile lookup.
type UserService struct {
	repo       repo.UserRepo
	jwtSecret  string
	tokenTTL   time.Duration
	bcryptCost int
}

// NewUserService constructs a UserService.
func NewUserService(r repo.UserRepo, jwtSecret string, tokenTTL time.Duration, bcryptCost int) *UserService {
	return &UserService{repo: r, jwtSecret: jwtSecret, tokenTTL: tokenTTL, bcryptCost: bcryptCost}
}

// Register creates a new account and returns it with a fresh access token.
// Emails are lowercased before storage so logins are case-insensitive.
// Returns domain.ErrValidation for malformed input or an already-registered
// email.
func (s *UserService) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	name = strings.TrimSpace(name)
	email = strings.ToLower(strings.TrimSpace(email))

	if name == "" {
		return AuthResult{}, fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if email == "" || !strings.Contains(email, "@") {
		return AuthResult{}, fmt.Errorf("%w: a valid email is required", domain.ErrValidation)
	}
	if len(password) < minPasswordLen {
		return AuthResult{}, fmt.Errorf("%w: password must be at least %d characters", domain.ErrValidation, minPasswordLen)
	}

	hash, err := auth.HashPassword(password, s.bcryptCost)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	user, err := s.repo.Create(ctx, domain.User{Name: name, Email: email, PasswordHash: hash})
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.UserService.Register: %w", err)
	}

	return s.withToken(user)
}

// Login verifies credentials and returns the account with a fresh access
// token. An unknown email and a wrong password produce the same
// domain.ErrValidation so the response does not leak which emails exist.
func (s *UserService) Login(ctx context.Context, email, password string) (AuthResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	user, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return AuthResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrValidation)
	}
	if !auth.VerifyPassword(user.PasswordHash, password) {
		return AuthResult{}, fmt.Errorf("%w: invalid email or password", domain.ErrValidation)
	}

	return s.withToken(user)
}

// GetByID returns the account for the given id.
func (s *UserService) GetByID(ctx context.Context, id uuid.UUID) (domain.User, error) {
	user, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return domain.User{}, fmt.Errorf("service.UserService.GetByID: %w", err)
	}
	return user, nil
}

// withToken pairs a user with a newly minted access token.
func (s *UserService) withToken(user domain.User) (AuthResult, error) {
	token, exp, err := auth.NewToken(s.jwtSecret, user.ID, s.tokenTTL)
	if err != nil {
		return AuthResult{}, fmt.Errorf("service.UserService: mint token: %w", err)
	}
	return AuthResult{User: user, Token: token, ExpiresAt: exp}, nil
}
