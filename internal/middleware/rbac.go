package middleware

import (
	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ideabank-api/internal/access"
	"github.com/noah-isme/ideabank-api/internal/utils"
)

// RequireOperation rejects callers whose role the policy table does not allow for op.
// Anonymous callers get 401, everyone else who fails the table gets 403.
func RequireOperation(op access.Operation) fiber.Handler {
	return func(c *fiber.Ctx) error {
		actor := ActorFromContext(c)
		if actor.ID == 0 {
			return utils.SendError(c, fiber.StatusUnauthorized, "authentication required")
		}
		if err := access.Authorize(op, actor); err != nil {
			return utils.SendError(c, fiber.StatusForbidden, "insufficient permissions")
		}
		return c.Next()
	}
}
