package service

import (
	"context"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"labdash-backend/internal/repository"
)

func TestRegisterAndLogin(t *testing.T) {
	s := NewUserService(repository.NewMemoryUserRepository(), nil, "secret")

	user, err := s.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.NotEqual(t, "hunter22", user.Password, "password must be stored hashed")

	token, err := s.Login(context.Background(), "alice@example.com", "hunter22")
	require.NoError(t, err)

	claims := &JwtCustomClaims{}
	_, err = jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return []byte("secret"), nil
	})
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.Name)
	assert.Equal(t, "alice@example.com", claims.Email)
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	s := NewUserService(repository.NewMemoryUserRepository(), nil, "secret")

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = s.Register(context.Background(), "alice2", "alice@example.com", "hunter23")
	assert.ErrorIs(t, err, ErrConflict)
}

func TestRegisterRequiresAllFields(t *testing.T) {
	s := NewUserService(repository.NewMemoryUserRepository(), nil, "secret")

	_, err := s.Register(context.Background(), "alice", "", "hunter22")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	s := NewUserService(repository.NewMemoryUserRepository(), nil, "secret")

	_, err := s.Register(context.Background(), "alice", "alice@example.com", "hunter22")
	require.NoError(t, err)

	_, err = s.Login(context.Background(), "alice@example.com", "wrong")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = s.Login(context.Background(), "nobody@example.com", "hunter22")
	assert.ErrorIs(t, err, ErrValidation)
}
