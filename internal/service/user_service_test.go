package service

import (
	"context"
	"strconv"
	"testing"
	"time"

	"worksync/internal/cache"
	"worksync/internal/model"
	"worksync/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService_RegisterAndLogin(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()
	ctx := context.Background()

	user, err := svc.Register(ctx, RegisterRequest{Username: "dave", Password: "hunter22", FirstName: "Dave"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleEmployee, user.Role)

	_, err = svc.Register(ctx, RegisterRequest{Username: "dave", Password: "another1"})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.Login(ctx, LoginRequest{Username: "dave", Password: "wrong"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = svc.Login(ctx, LoginRequest{Username: "nobody", Password: "hunter22"})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	res, err := svc.Login(ctx, LoginRequest{Username: "dave", Password: "hunter22"})
	require.NoError(t, err)
	assert.Equal(t, "Dave", res.User.FirstName)

	token, err := jwt.Parse(res.Token, func(*jwt.Token) (interface{}, error) { return []byte("test-secret"), nil })
	require.NoError(t, err)
	claims := token.Claims.(jwt.MapClaims)
	assert.Equal(t, strconv.FormatUint(uint64(user.ID), 10), claims["sub"])
	assert.Equal(t, "employee", claims["role"])
	assert.NotEmpty(t, claims["jti"])
	assert.WithinDuration(t, time.Now().Add(time.Hour), res.ExpiresAt, time.Minute)
}

func TestUserService_LogoutRevokesToken(t *testing.T) {
	f := newFixture(t)
	bl := cache.NewMemoryBlacklist()
	svc := NewUserService(f.users, repository.NewAPIKeyRepository(f.db), f.audit, f.tx, bl, []byte("s"), time.Hour)
	ctx := context.Background()

	require.NoError(t, svc.Logout(ctx, "jti-1", time.Now().Add(time.Minute)))
	revoked, err := bl.IsRevoked(ctx, "jti-1")
	require.NoError(t, err)
	assert.True(t, revoked)

	require.NoError(t, svc.Logout(ctx, "", time.Now().Add(time.Minute)))
}

func TestUserService_APIKeys(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()
	ctx := context.Background()

	_, err := svc.GetAPIKey(ctx, f.employee.ID)
	assert.ErrorIs(t, err, ErrAPIKeyNotFound)

	first, err := svc.CreateAPIKey(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Len(t, first.APIKey, 32)

	second, err := svc.CreateAPIKey(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.NotEqual(t, first.APIKey, second.APIKey)

	got, err := svc.GetAPIKey(ctx, f.employee.ID)
	require.NoError(t, err)
	assert.Equal(t, second.APIKey, got.APIKey)

	require.NoError(t, svc.DeleteAPIKey(ctx, f.employee.ID))
	assert.ErrorIs(t, svc.DeleteAPIKey(ctx, f.employee.ID), ErrAPIKeyNotFound)
}

func TestUserService_EnsureAdmin(t *testing.T) {
	f := newFixture(t)
	svc := f.userService()
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, "", ""))
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "rootpass"))
	require.NoError(t, svc.EnsureAdmin(ctx, "root", "ignored"))

	res, err := svc.Login(ctx, LoginRequest{Username: "root", Password: "rootpass"})
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, res.User.Role)

	_, err = svc.GetUserByID(ctx, 4242)
	assert.ErrorIs(t, err, ErrUserNotFound)
}
