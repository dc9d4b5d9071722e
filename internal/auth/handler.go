package auth

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
)

type Handler struct {
	service *Service
}

func NewHandler(s *Service) *Handler {
	return &Handler{service: s}
}

// RegisterPublicRoutes must be called before the admin group is mounted so
// that sign-in is served ahead of the token check.
func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/v1/admin/sign-in", h.signIn)
}

type signInRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (h *Handler) signIn(c *fiber.Ctx) error {
	payload := new(signInRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	token, err := h.service.SignIn(payload.Username, payload.Password)
	switch {
	case err == nil:
	case errors.Is(err, ErrInvalidCredentials):
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"message": "Invalid username or password"})
	case errors.Is(err, ErrNotConfigured):
		slog.Warn("admin sign-in attempted without admin credentials configured")
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": "failed to generate token"})
	}

	return c.JSON(fiber.Map{
		"message": "Sign-in successful",
		"token":   token,
	})
}
