package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/domain"
	"github.com/VictorG0234/EventosQRFerromex-sub002/internal/repository"
)

type userStore struct {
	byEmail map[string]domain.User
	findErr error
}

func (r *userStore) Create(_ context.Context, u domain.User) (domain.User, error) {
	if _, ok := r.byEmail[u.Email]; ok {
		return domain.User{}, fmt.Errorf("r.dao.Insert -> %w", repository.ErrUserEmailExists)
	}
	u.ID = uint(len(r.byEmail) + 1)
	r.byEmail[u.Email] = u
	return u, nil
}

func (r *userStore) FindByEmail(_ context.Context, email string) (domain.User, error) {
	if r.findErr != nil {
		return domain.User{}, r.findErr
	}
	u, ok := r.byEmail[email]
	if !ok {
		return domain.User{}, fmt.Errorf("r.dao.FindByEmail -> %w", repository.ErrUserNotFound)
	}
	return u, nil
}

func newAuthFixture() (*AuthService, *userStore) {
	repo := &userStore{byEmail: map[string]domain.User{}}
	return NewAuthService(repo, WithBcryptCost(bcrypt.MinCost)), repo
}

func TestAuthService_Signup(t *testing.T) {
	svc, repo := newAuthFixture()

	user, err := svc.Signup(context.Background(), domain.User{
		Email:    "  Ana.Lopez@Ferromex.MX ",
		Password: "secret123",
		Name:     " Ana ",
	})
	require.NoError(t, err)

	assert.Equal(t, "ana.lopez@ferromex.mx", user.Email)
	assert.Equal(t, "Ana", user.Name)
	assert.Equal(t, domain.RoleOperator, user.Role)
	assert.NotEqual(t, "secret123", user.Password)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(repo.byEmail[user.Email].Password), []byte("secret123")))

	_, err = svc.Signup(context.Background(), domain.User{Email: "ana.lopez@ferromex.mx", Password: "other123"})
	assert.ErrorIs(t, err, ErrUserEmailExists)
}

func TestAuthService_Login(t *testing.T) {
	svc, repo := newAuthFixture()
	_, err := svc.Signup(context.Background(), domain.User{
		Email:    "admin@ferromex.mx",
		Password: "secret123",
		Role:     domain.RoleAdmin,
	})
	require.NoError(t, err)

	tests := []struct {
		name     string
		email    string
		password string
		findErr  error
		wantErr  error
	}{
		{name: "ok", email: "ADMIN@ferromex.mx", password: "secret123"},
		{name: "wrong password", email: "admin@ferromex.mx", password: "secret124", wantErr: ErrWrongPassword},
		{name: "unknown email", email: "nobody@ferromex.mx", password: "secret123", wantErr: ErrUserNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			user, err := svc.Login(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, domain.RoleAdmin, user.Role)
			assert.True(t, user.IsAdmin())
		})
	}

	repo.findErr = errors.New("connection reset")
	_, err = svc.Login(context.Background(), "admin@ferromex.mx", "secret123")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUserNotFound)
	assert.NotErrorIs(t, err, ErrWrongPassword)
}

func TestWithBcryptCost_IgnoresOutOfRange(t *testing.T) {
	svc := NewAuthService(&userStore{}, WithBcryptCost(100))
	assert.Equal(t, bcrypt.DefaultCost, svc.cost)
}
