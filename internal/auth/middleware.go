package auth

import (
	"github.com/gofiber/fiber/v2"
	jwtware "github.com/gofiber/jwt/v2"
	"github.com/golang-jwt/jwt/v4"
)

const tokenLocal = "user"

// Middleware rejects requests without a valid admin token.
func Middleware(secret string) fiber.Handler {
	return jwtware.New(jwtware.Config{
		SigningKey: []byte(secret),
		ContextKey: tokenLocal,
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "unauthorized"})
		},
	})
}

// RequireAdmin must run after Middleware.
func RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if _, err := AdminFromCtx(c); err != nil {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{"message": "forbidden"})
		}
		return c.Next()
	}
}

// AdminFromCtx returns the subject of the admin token stored by Middleware.
func AdminFromCtx(c *fiber.Ctx) (string, error) {
	tok, ok := c.Locals(tokenLocal).(*jwt.Token)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	claims, ok := tok.Claims.(jwt.MapClaims)
	if !ok {
		return "", fiber.ErrUnauthorized
	}
	if role, _ := claims["role"].(string); role != RoleAdmin {
		return "", fiber.ErrForbidden
	}
	sub, _ := claims["sub"].(string)
	if sub == "" {
		return "", fiber.ErrUnauthorized
	}
	return sub, nil
}
