package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/eventhub/event-service/internal/api/dto"
	"github.com/eventhub/event-service/internal/auth"
	"github.com/eventhub/event-service/internal/domain"
	apperrors "github.com/eventhub/event-service/pkg/util/errorutil"
)

func principal(c *fiber.Ctx) (domain.Principal, error) {
	p, ok := auth.PrincipalFromContext(c)
	if !ok {
		return domain.Principal{}, apperrors.NewUnauthorized("Unauthorized: No token provided")
	}
	return p, nil
}

func paramID(c *fiber.Ctx, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Params(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apperrors.NewValidationError("Invalid value for field: " + name)
	}
	return id, nil
}

func pageFromQuery(c *fiber.Ctx) domain.Page {
	return domain.NewPage(c.QueryInt("limit", domain.DefaultPageSize), c.QueryInt("offset", 0))
}

// parseBody decodes and validates a JSON request body.
func parseBody(c *fiber.Ctx, out any) error {
	if err := c.BodyParser(out); err != nil {
		return apperrors.NewValidationError("Invalid request body.")
	}
	return dto.Validate(out)
}

func queryInt64(c *fiber.Ctx, key string) int64 {
	v, err := strconv.ParseInt(strings.TrimSpace(c.Query(key)), 10, 64)
	if err != nil {
		return 0
	}
	return v
}

func queryBool(c *fiber.Ctx, key string) bool {
	return c.Query(key) == "true"
}
