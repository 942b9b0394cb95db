package service_test

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/config"
	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/service"
)

func newAuthService(f *fixture) (*service.AuthService, *auth.TokenManager, config.AuthConfig) {
	cfg := config.AuthConfig{
		JWTSecret:     "test-secret",
		BcryptCost:    4,
		AdminEmail:    "root@example.com",
		AdminPassword: "s3cret-pass",
		AdminFullname: "Root Admin",
		AdminGender:   "male",
	}
	tokens := auth.NewTokenManager(cfg.JWTSecret, time.Hour)
	svc := service.NewAuthService(cfg, service.AuthDependencies{
		UserRepo:    f.repos.Users,
		Revocations: f.repos.Revocations,
		Tokens:      tokens,
		Clock:       f.clock.Now,
	})
	return svc, tokens, cfg
}

func TestRegisterLoginLogout(t *testing.T) {
	f := newFixture(t)
	svc, tokens, _ := newAuthService(f)
	ctx := context.Background()

	user, token, err := svc.Register(ctx, service.RegisterInput{
		Fullname: " Nora New ",
		Email:    "nora@example.com",
		Password: "password1",
		Gender:   domain.GenderFemale,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.AccountRegular, user.AccountType)
	assert.Equal(t, "Nora New", user.Fullname)
	assert.NotEqual(t, "password1", user.PasswordHash)

	claims, err := tokens.ParseToken(token.Value)
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
	assert.Equal(t, domain.AccountRegular, claims.AccountType)

	_, _, err = svc.Register(ctx, service.RegisterInput{
		Fullname: "Nora Again", Email: "NORA@example.com", Password: "password2", Gender: domain.GenderFemale,
	})
	requireStatus(t, err, http.StatusConflict, "Email already exists.")

	loggedIn, token, err := svc.Login(ctx, "Nora@Example.com", "password1")
	require.NoError(t, err)
	assert.Equal(t, user.ID, loggedIn.ID)

	_, _, err = svc.Login(ctx, "nora@example.com", "wrong")
	requireStatus(t, err, http.StatusUnauthorized, "Invalid email or password.")
	_, _, err = svc.Login(ctx, "nobody@example.com", "password1")
	requireStatus(t, err, http.StatusUnauthorized, "Invalid email or password.")

	require.NoError(t, svc.Logout(ctx, token.Value))
	revoked, err := f.repos.Revocations.IsRevoked(ctx, token.ID)
	require.NoError(t, err)
	assert.True(t, revoked)

	requireStatus(t, svc.Logout(ctx, ""), http.StatusBadRequest, "No token found. Already logged out?")
}

func TestRegisterRejectsUnknownGender(t *testing.T) {
	f := newFixture(t)
	svc, _, _ := newAuthService(f)

	_, _, err := svc.Register(context.Background(), service.RegisterInput{
		Fullname: "X", Email: "x@example.com", Password: "password1", Gender: "other",
	})
	requireStatus(t, err, http.StatusBadRequest, "Invalid value for field: gender")
}

func TestLoginSuspended(t *testing.T) {
	f := newFixture(t)
	svc, _, _ := newAuthService(f)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, service.RegisterInput{
		Fullname: "Sue", Email: "sue@example.com", Password: "password1", Gender: domain.GenderFemale,
	})
	require.NoError(t, err)
	require.NoError(t, f.repos.Users.SetStatus(ctx, user.ID, domain.AccountSuspended))

	_, _, err = svc.Login(ctx, "sue@example.com", "password1")
	requireStatus(t, err, http.StatusForbidden, "Account suspended")
}

func TestEnsureAdmin(t *testing.T) {
	f := newFixture(t)
	svc, _, cfg := newAuthService(f)
	ctx := context.Background()

	require.NoError(t, svc.EnsureAdmin(ctx, cfg))
	require.NoError(t, svc.EnsureAdmin(ctx, cfg), "second run is a no-op")

	admin, err := f.repos.Users.GetByEmail(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, domain.AccountAdmin, admin.AccountType)
	assert.Equal(t, domain.GenderMale, admin.Gender)
	require.NoError(t, auth.ComparePassword(admin.PasswordHash, "s3cret-pass"))

	_, _, err = svc.Login(ctx, "root@example.com", "s3cret-pass")
	require.NoError(t, err)

	cfg.AdminEmail = ""
	require.NoError(t, svc.EnsureAdmin(ctx, cfg), "bootstrap disabled")

	cfg.AdminEmail = "other@example.com"
	cfg.AdminGender = "robot"
	assert.Error(t, svc.EnsureAdmin(ctx, cfg))
}
