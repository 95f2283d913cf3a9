package service_test

import (
	"context"
	"testing"
	"time"

	"fitagent/coaching-app/internal/domain"
	"fitagent/coaching-app/internal/service"

	"github.com/golang-jwt/jwt/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key"

func TestAuthService_Register(t *testing.T) {
	ctx := context.Background()

	t.Run("Should create a client account", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewAuthService(repo, testJWTSecret, time.Hour)

		user, err := svc.Register(ctx, "newuser", "supersecret")
		require.NoError(t, err)

		assert.Equal(t, "newuser", user.Username)
		assert.Equal(t, []domain.Role{domain.RoleClient}, user.Roles)
		assert.Empty(t, user.PasswordHash)
		assert.False(t, user.ID.IsZero())
	})

	t.Run("Should store a hash, never the password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewAuthService(repo, testJWTSecret, time.Hour)

		user, err := svc.Register(ctx, "hashed", "supersecret")
		require.NoError(t, err)

		stored, err := repo.GetByID(ctx, user.ID)
		require.NoError(t, err)
		assert.NotEmpty(t, stored.PasswordHash)
		assert.NotEqual(t, "supersecret", stored.PasswordHash)
	})

	t.Run("Should reject a duplicate username", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewAuthService(repo, testJWTSecret, time.Hour)

		_, err := svc.Register(ctx, "taken", "supersecret")
		require.NoError(t, err)
		_, err = svc.Register(ctx, "taken", "othersecret")
		assert.ErrorIs(t, err, service.ErrUserAlreadyExists)
	})
}

func TestAuthService_Login(t *testing.T) {
	ctx := context.Background()

	t.Run("Should return a token carrying the user's identity and roles", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewAuthService(repo, testJWTSecret, time.Hour)

		registered, err := svc.Register(ctx, "login", "supersecret")
		require.NoError(t, err)

		token, user, err := svc.Login(ctx, "login", "supersecret")
		require.NoError(t, err)
		assert.Equal(t, registered.ID, user.ID)
		assert.Empty(t, user.PasswordHash)

		claims := &service.AuthClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
			return []byte(testJWTSecret), nil
		})
		require.NoError(t, err)
		assert.True(t, parsed.Valid)
		assert.Equal(t, registered.ID.Hex(), claims.UserID)
		assert.Equal(t, []domain.Role{domain.RoleClient}, claims.Roles)
	})

	t.Run("Should reject a wrong password", func(t *testing.T) {
		repo := newFakeUserRepo()
		svc := service.NewAuthService(repo, testJWTSecret, time.Hour)

		_, err := svc.Register(ctx, "login", "supersecret")
		require.NoError(t, err)

		_, _, err = svc.Login(ctx, "login", "wrong")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})

	t.Run("Should reject an unknown username with the same error", func(t *testing.T) {
		svc := service.NewAuthService(newFakeUserRepo(), testJWTSecret, time.Hour)
		_, _, err := svc.Login(ctx, "ghost", "whatever")
		assert.ErrorIs(t, err, service.ErrAuthenticationFailed)
	})
}
