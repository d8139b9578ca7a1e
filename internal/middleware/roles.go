package middleware

import (
	"github.com/gofiber/fiber/v2"
	"github.com/tripwiseapp/tripwise-backend/internal/dto"
	"github.com/tripwiseapp/tripwise-backend/internal/models"
	"github.com/tripwiseapp/tripwise-backend/internal/session"
)

// RequireRoles gates a route group by role allow-list. It is the HTTP twin of
// the session guard: the JWT middleware has already established identity, so
// the remaining question is whether the account's role is on the list. The
// role comes from the users table on every request; it is never trusted from
// token claims.
func RequireRoles(dir session.Directory, allowed ...models.Role) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID, err := UserID(c)
		if err != nil {
			return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
				Error: true, Message: "Unauthorized",
			})
		}

		account, err := dir.AccountByID(c.UserContext(), userID)
		if err != nil {
			return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
				Error: true, Message: "Access denied",
			})
		}

		for _, role := range allowed {
			if account.Role == role {
				return c.Next()
			}
		}

		return c.Status(fiber.StatusForbidden).JSON(dto.ErrorResponse{
			Error: true, Message: "Access denied",
		})
	}
}
