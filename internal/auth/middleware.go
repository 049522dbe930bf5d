package auth

import (
	"errors"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// localsKey is the fiber.Ctx locals slot holding the validated payload.
const localsKey = "authUser"

// Middleware validates the Authorization bearer token and stores the payload
// in the request locals for handlers to read.
func Middleware(tm *TokenManager) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}

		payload, err := tm.Parse(token)
		if err != nil {
			if errors.Is(err, ErrTokenExpired) {
				return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "token expired"})
			}
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "invalid token"})
		}

		StorePayload(c, payload)
		return c.Next()
	}
}

// StorePayload places the payload where PayloadFromCtx finds it. Exposed for
// handler tests that skip the token roundtrip.
func StorePayload(c *fiber.Ctx, payload UserPayload) {
	c.Locals(localsKey, payload)
}

// RequireRoles allows the request through only when the authenticated payload
// carries one of the given roles.
func RequireRoles(roles ...string) fiber.Handler {
	return func(c *fiber.Ctx) error {
		payload, ok := PayloadFromCtx(c)
		if !ok {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "missing bearer token"})
		}
		for _, role := range roles {
			if payload.Role == role {
				return c.Next()
			}
		}
		return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "insufficient role"})
	}
}

// PayloadFromCtx returns the validated payload stored by Middleware.
func PayloadFromCtx(c *fiber.Ctx) (UserPayload, bool) {
	payload, ok := c.Locals(localsKey).(UserPayload)
	return payload, ok
}
