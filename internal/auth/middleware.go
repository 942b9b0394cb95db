package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/eventhub/event-service/internal/domain"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

const (
	principalKey = "auth_principal"
	claimsKey    = "auth_claims"
)

// UserLookup loads the account behind a token.
type UserLookup interface {
	GetByID(ctx context.Context, id int64) (*domain.User, error)
}

// AuthMiddleware validates session tokens and loads principals.
type AuthMiddleware struct {
	tokens     *TokenManager
	users      UserLookup
	revoked    RevocationStore
	cookieName string
	logger     *zap.Logger
}

// NewAuthMiddleware constructs middleware. revoked may be nil.
func NewAuthMiddleware(tokens *TokenManager, users UserLookup, revoked RevocationStore, cookieName string, logger *zap.Logger) *AuthMiddleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuthMiddleware{tokens: tokens, users: users, revoked: revoked, cookieName: cookieName, logger: logger}
}

// TokenFromRequest reads the session cookie, falling back to a bearer header.
func TokenFromRequest(c *fiber.Ctx, cookieName string) string {
	if token := c.Cookies(cookieName); token != "" {
		return token
	}
	parts := strings.SplitN(c.Get(fiber.HeaderAuthorization), " ", 2)
	if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
		return strings.TrimSpace(parts[1])
	}
	return ""
}

// Handle enforces authentication for protected routes. A missing token is
// 401, an unverifiable one 403.
func (m *AuthMiddleware) Handle(c *fiber.Ctx) error {
	raw := TokenFromRequest(c, m.cookieName)
	if raw == "" {
		return apperrors.NewUnauthorized("Unauthorized: No token provided")
	}

	claims, err := m.tokens.ParseToken(raw)
	if err != nil {
		return apperrors.NewForbidden("Invalid token")
	}

	if m.revoked != nil {
		revoked, err := m.revoked.IsRevoked(c.UserContext(), claims.ID)
		switch {
		case err != nil:
			m.logger.Warn("revocation lookup failed", zap.String("jti", claims.ID), zap.Error(err))
		case revoked:
			return apperrors.NewUnauthorized("Session has ended")
		}
	}

	user, err := m.users.GetByID(c.UserContext(), claims.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewUnauthorized("Account not found")
		}
		return apperrors.MapError(err)
	}
	if user.AccountStatus == domain.AccountSuspended {
		return apperrors.NewForbidden("Account suspended")
	}

	c.Locals(principalKey, domain.Principal{ID: user.ID, AccountType: user.AccountType})
	c.Locals(claimsKey, claims)
	return c.Next()
}

// PrincipalFromContext retrieves the authenticated caller.
func PrincipalFromContext(c *fiber.Ctx) (domain.Principal, bool) {
	principal, ok := c.Locals(principalKey).(domain.Principal)
	return principal, ok
}

// ClaimsFromContext retrieves the verified token claims.
func ClaimsFromContext(c *fiber.Ctx) (*Claims, bool) {
	claims, ok := c.Locals(claimsKey).(*Claims)
	return claims, ok
}
