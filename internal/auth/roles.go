package auth

import (
	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/policy"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

// Require rejects callers whose role has no entry for resource.action in the
// policy table. Ownership and self rules pass through and are resolved by the
// service once the target is loaded.
func Require(resource policy.Resource, action policy.Action) fiber.Handler {
	return func(c *fiber.Ctx) error {
		principal, ok := PrincipalFromContext(c)
		if !ok {
			return apperrors.NewUnauthorized("Unauthorized: No token provided")
		}
		if policy.EffectFor(principal.AccountType, resource, action) == policy.Deny {
			return apperrors.NewForbidden("Access denied")
		}
		return c.Next()
	}
}

