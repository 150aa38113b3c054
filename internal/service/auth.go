package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
)

type AuthUserRepository interface {
	Create(ctx context.Context, user domain.User) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// AuthService registers staff accounts and checks their credentials.
// Guests never log in; they are identified by their QR code.
type AuthService struct {
	repo AuthUserRepository
	cost int
}

type AuthOption func(*AuthService)

// WithBcryptCost overrides bcrypt.DefaultCost. Out of range values are ignored.
func WithBcryptCost(cost int) AuthOption {
	return func(s *AuthService) {
		if cost >= bcrypt.MinCost && cost <= bcrypt.MaxCost {
			s.cost = cost
		}
	}
}

func NewAuthService(repo AuthUserRepository, opts ...AuthOption) *AuthService {
	s := &AuthService{
		repo: repo,
		cost: bcrypt.DefaultCost,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Signup stores a new staff account. Accounts without a role become operators.
func (s *AuthService) Signup(ctx context.Context, user domain.User) (domain.User, error) {
	user.Email = normalizeEmail(user.Email)
	user.Name = strings.TrimSpace(user.Name)
	if user.Role == "" {
		user.Role = domain.RoleOperator
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(user.Password), s.cost)
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.GenerateFromPassword -> %w", err)
	}
	user.Password = string(hash)

	created, err := s.repo.Create(ctx, user)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.repo.Create -> %w", err)
	}

	return created, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (domain.User, error) {
	user, err := s.repo.FindByEmail(ctx, normalizeEmail(email))
	switch {
	case errors.Is(err, repository.ErrUserNotFound):
		return domain.User{}, ErrUserNotFound
	case err != nil:
		return domain.User{}, fmt.Errorf("s.repo.FindByEmail -> %w", err)
	}

	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return domain.User{}, ErrWrongPassword
	}
	if err != nil {
		return domain.User{}, fmt.Errorf("bcrypt.CompareHashAndPassword -> %w", err)
	}

	return user, nil
}
