package order

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/store-catalog/internal/cart"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/localization"
	"github.com/wichananm65/store-catalog/internal/product"
)

// Handler delegates order operations to the order service. Checkout reads
// the caller's session cart, so SessionMiddleware must run first.
type Handler struct {
	service   *Service
	carts     *cart.Service
	localizer localization.Localizer
	culture   localization.Culture
}

func NewHandler(s *Service, carts *cart.Service, l localization.Localizer, defaultCulture localization.Culture) *Handler {
	return &Handler{service: s, carts: carts, localizer: l, culture: defaultCulture}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Post("/api/v1/orders", h.checkout)
}

// RegisterProtectedRoutes expects the authenticated admin group.
func (h *Handler) RegisterProtectedRoutes(admin fiber.Router) {
	admin.Get("/orders", h.listOrders)
}

type checkoutRequest struct {
	Name    string `json:"name" form:"name"`
	Address string `json:"address" form:"address"`
	City    string `json:"city" form:"city"`
	Zip     string `json:"zip" form:"zip"`
	Country string `json:"country" form:"country"`
}

func (h *Handler) checkout(c *fiber.Ctx) error {
	payload := new(checkoutRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	ctx := c.UserContext()
	sessionID := cart.SessionID(c)
	sessionCart, err := h.carts.GetCart(ctx, sessionID)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	created, err := h.service.Checkout(ctx, sessionCart, entity.Order{
		Name:    payload.Name,
		Address: payload.Address,
		City:    payload.City,
		Zip:     payload.Zip,
		Country: payload.Country,
	})

	var stockErr *product.StockUpdateError
	switch {
	case err == nil:
	case errors.As(err, &stockErr):
		// the order exists; stock drift is for the admin to reconcile
		slog.Warn("checkout stock update incomplete", "order", created.ID, "err", err)
	default:
		return h.fail(c, err)
	}

	if err := h.carts.SaveCart(ctx, sessionID, sessionCart); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) listOrders(c *fiber.Ctx) error {
	orders, err := h.service.List(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(orders)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	culture := localization.FromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage), h.culture)

	var verrs ValidationErrors
	switch {
	case errors.Is(err, ErrEmptyCart):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": h.localizer.Localize(culture, KeyCartEmpty)})
	case errors.As(err, &verrs):
		out := make([]product.LocalizedError, 0, len(verrs))
		for _, fe := range verrs {
			out = append(out, product.LocalizedError{Field: fe.Field, Key: fe.Key, Message: h.localizer.Localize(culture, fe.Key)})
		}
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": out})
	case errors.Is(err, cart.ErrNotEnoughStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": h.localizer.Localize(culture, "NotEnoughStock")})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
