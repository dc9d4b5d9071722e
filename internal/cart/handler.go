package cart

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/store-catalog/internal/localization"
)

// Handler delegates cart operations to the cart service.
// Routes expect SessionMiddleware to have run.
type Handler struct {
	service   *Service
	localizer localization.Localizer
	culture   localization.Culture
}

func NewHandler(s *Service, l localization.Localizer, defaultCulture localization.Culture) *Handler {
	return &Handler{service: s, localizer: l, culture: defaultCulture}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/cart", h.getCart)
	app.Post("/api/v1/cart", h.addToCart)
	app.Delete("/api/v1/cart", h.clearCart)
	app.Delete("/api/v1/cart/:productId<int>", h.removeLine)
}

type cartRequest struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type cartResponse struct {
	Lines   []Line          `json:"lines"`
	Total   decimal.Decimal `json:"total"`
	Average decimal.Decimal `json:"average"`
}

func newCartResponse(c *Cart) cartResponse {
	return cartResponse{Lines: c.Lines(), Total: c.TotalValue(), Average: c.AverageValue()}
}

func (h *Handler) getCart(c *fiber.Ctx) error {
	cart, err := h.service.GetCart(c.UserContext(), SessionID(c))
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(newCartResponse(cart))
}

func (h *Handler) addToCart(c *fiber.Ctx) error {
	payload := new(cartRequest)
	if err := c.BodyParser(payload); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	if payload.Quantity == 0 {
		payload.Quantity = 1
	}

	cart, err := h.service.AddToCart(c.UserContext(), SessionID(c), payload.ProductID, payload.Quantity)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(newCartResponse(cart))
}

func (h *Handler) removeLine(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("productId"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	cart, err := h.service.RemoveFromCart(c.UserContext(), SessionID(c), id)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(newCartResponse(cart))
}

func (h *Handler) clearCart(c *fiber.Ctx) error {
	if err := h.service.ClearCart(c.UserContext(), SessionID(c)); err != nil {
		return h.fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) fail(c *fiber.Ctx, err error) error {
	culture := localization.FromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage), h.culture)
	switch {
	case errors.Is(err, ErrProductNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"message": h.localizer.Localize(culture, "ProductNotFound")})
	case errors.Is(err, ErrNotEnoughStock):
		return c.Status(fiber.StatusConflict).JSON(fiber.Map{"message": h.localizer.Localize(culture, "NotEnoughStock")})
	case errors.Is(err, ErrInvalidQuantity), errors.Is(err, ErrInvalidSession):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
}
