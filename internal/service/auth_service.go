package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/config"
	"github.com/eventhub/event-service/internal/domain"
	"github.com/eventhub/event-service/internal/repository"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

const invalidCredentials = "Invalid email or password."

// AuthService coordinates registration and login flows.
type AuthService struct {
	users       repository.UserRepository
	revocations auth.RevocationStore
	tokenMgr    *auth.TokenManager
	bcryptCost  int
	now         Clock
	logger      *zap.Logger
}

// AuthDependencies encapsulates requirements for the auth service.
type AuthDependencies struct {
	UserRepo    repository.UserRepository
	Revocations auth.RevocationStore
	Tokens      *auth.TokenManager
	Clock       Clock
	Logger      *zap.Logger
}

// NewAuthService builds the service.
func NewAuthService(cfg config.AuthConfig, deps AuthDependencies) *AuthService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthService{
		users:       deps.UserRepo,
		revocations: deps.Revocations,
		tokenMgr:    deps.Tokens,
		bcryptCost:  cfg.BcryptCost,
		now:         deps.Clock.orDefault(),
		logger:      logger,
	}
}

// RegisterInput describes a self sign-up.
type RegisterInput struct {
	Fullname    string
	Email       string
	Password    string
	Gender      domain.Gender
	PhoneNumber *string
	Birthday    *time.Time
}

// Register creates a regular account and issues its session token.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*domain.User, auth.IssuedToken, error) {
	if !input.Gender.Valid() {
		return nil, auth.IssuedToken{}, apperrors.NewValidationError("Invalid value for field: gender")
	}

	hash, err := auth.HashPassword(input.Password, s.bcryptCost)
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}

	user := &domain.User{
		AccountType:   domain.AccountRegular,
		AccountStatus: domain.AccountActive,
		DateJoined:    domain.DateOf(s.now()),
		Fullname:      strings.TrimSpace(input.Fullname),
		Gender:        input.Gender,
		Email:         strings.TrimSpace(input.Email),
		PhoneNumber:   input.PhoneNumber,
		Birthday:      input.Birthday,
		PasswordHash:  hash,
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, auth.IssuedToken{}, apperrors.NewConflict("Email already exists.")
		}
		return nil, auth.IssuedToken{}, err
	}

	token, err := s.tokenMgr.GenerateToken(user.ID, user.AccountType)
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}
	return user, token, nil
}

// Login authenticates by email and password. Unknown emails and wrong
// passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, email, password string) (*domain.User, auth.IssuedToken, error) {
	user, err := s.users.GetByEmail(ctx, strings.TrimSpace(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, auth.IssuedToken{}, apperrors.NewUnauthorized(invalidCredentials)
		}
		return nil, auth.IssuedToken{}, err
	}
	if err := auth.ComparePassword(user.PasswordHash, password); err != nil {
		return nil, auth.IssuedToken{}, apperrors.NewUnauthorized(invalidCredentials)
	}
	if user.AccountStatus == domain.AccountSuspended {
		return nil, auth.IssuedToken{}, apperrors.NewForbidden("Account suspended")
	}

	token, err := s.tokenMgr.GenerateToken(user.ID, user.AccountType)
	if err != nil {
		return nil, auth.IssuedToken{}, err
	}
	return user, token, nil
}

// Logout revokes the presented token until it would have expired. Tokens
// that no longer verify are already unusable and are ignored.
func (s *AuthService) Logout(ctx context.Context, rawToken string) error {
	if rawToken == "" {
		return apperrors.NewValidationError("No token found. Already logged out?")
	}
	claims, err := s.tokenMgr.ParseToken(rawToken)
	if err != nil || s.revocations == nil {
		return nil
	}
	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		s.logger.Warn("token revocation failed", zap.String("jti", claims.ID), zap.Error(err))
	}
	return nil
}

// EnsureAdmin creates the configured bootstrap admin when its email is not
// yet registered. Existing accounts are left untouched.
func (s *AuthService) EnsureAdmin(ctx context.Context, cfg config.AuthConfig) error {
	if !cfg.BootstrapAdmin() {
		return nil
	}
	gender := domain.Gender(cfg.AdminGender)
	if !gender.Valid() {
		return fmt.Errorf("invalid admin gender %q", cfg.AdminGender)
	}
	email := strings.TrimSpace(cfg.AdminEmail)

	_, err := s.users.GetByEmail(ctx, email)
	if err == nil {
		return nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return err
	}

	hash, err := auth.HashPassword(cfg.AdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.User{
		AccountType:   domain.AccountAdmin,
		AccountStatus: domain.AccountActive,
		DateJoined:    domain.DateOf(s.now()),
		Fullname:      cfg.AdminFullname,
		Gender:        gender,
		Email:         email,
		PasswordHash:  hash,
	}
	if err := s.users.Create(ctx, admin); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	s.logger.Info("bootstrap admin ensured", zap.String("email", email))
	return nil
}
