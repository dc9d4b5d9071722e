package product

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"github.com/wichananm65/store-catalog/internal/cart"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/localization"
)

type Handler struct {
	service    *Service
	carts      *cart.Service
	culture    localization.Culture
	allowReset bool
}

func NewHandler(service *Service, carts *cart.Service, defaultCulture localization.Culture, allowReset bool) *Handler {
	return &Handler{service: service, carts: carts, culture: defaultCulture, allowReset: allowReset}
}

func (h *Handler) RegisterPublicRoutes(app fiber.Router) {
	app.Get("/api/v1/products", h.getProducts)
	app.Get("/api/v1/products/:id<int>", h.getProduct)

	// dev-only endpoint to reset products, enabled by ALLOW_RESET_PRODUCTS=1
	app.Post("/dev/reset-products", h.resetProducts)
}

// RegisterProtectedRoutes expects admin to be the authenticated admin group
// (mounted at /api/v1/admin).
func (h *Handler) RegisterProtectedRoutes(admin fiber.Router) {
	admin.Post("/products", h.createProduct)
	admin.Get("/products/:id<int>", h.getProductViewModel)
	admin.Put("/products/:id<int>", h.updateProduct)
	admin.Delete("/products/:id<int>", h.deleteProduct)
}

func (h *Handler) cultureOf(c *fiber.Ctx) localization.Culture {
	return localization.FromAcceptLanguage(c.Get(fiber.HeaderAcceptLanguage), h.culture)
}

func (h *Handler) getProducts(c *fiber.Ctx) error {
	products, err := h.service.GetProducts(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.JSON(products)
}

func (h *Handler) getProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	p, err := h.service.GetProduct(c.UserContext(), id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if p == nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.JSON(p)
}

func (h *Handler) getProductViewModel(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	vm, err := h.service.GetProductByIDViewModel(id)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if vm == nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.JSON(vm)
}

// parseViewModel reads a JSON or form body and validates it, writing the
// 400 response itself when the body is unusable.
func (h *Handler) parseViewModel(c *fiber.Ctx) (ViewModel, bool, error) {
	vm := new(ViewModel)
	if err := c.BodyParser(vm); err != nil {
		return ViewModel{}, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}
	// the id is never taken from the client
	vm.ID = 0

	// return all validation errors together
	if errs := h.service.CheckProductModelErrors(*vm, h.cultureOf(c)); len(errs) > 0 {
		return ViewModel{}, false, c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"errors": errs})
	}
	return *vm, true, nil
}

func (h *Handler) createProduct(c *fiber.Ctx) error {
	vm, ok, err := h.parseViewModel(c)
	if !ok {
		return err
	}

	created, err := h.service.SaveProduct(vm, h.cultureOf(c))
	if err != nil {
		if errors.Is(err, ErrConversion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	return c.Status(fiber.StatusCreated).JSON(created)
}

func (h *Handler) updateProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
	}

	vm, ok, err := h.parseViewModel(c)
	if !ok {
		return err
	}

	updated, err := h.service.UpdateProduct(c.UserContext(), id, vm, h.cultureOf(c))
	if err != nil {
		if errors.Is(err, ErrConversion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"message": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}
	if updated == nil {
		return c.Status(fiber.StatusNotFound).SendString("Product not found")
	}
	return c.JSON(updated)
}

// deleteProduct also drops the product from the caller's session cart.
func (h *Handler) deleteProduct(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(err.Error())
	}

	ctx := c.UserContext()
	sessionID := cart.SessionID(c)
	var sessionCart *cart.Cart
	if sessionID != "" && h.carts != nil {
		if sessionCart, err = h.carts.GetCart(ctx, sessionID); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}

	if err := h.service.WithCart(sessionCart).DeleteProduct(ctx, id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
	}

	if sessionCart != nil {
		if err := h.carts.SaveCart(ctx, sessionID, sessionCart); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"message": err.Error()})
		}
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// resetProducts replaces the catalog with the posted list, or with the sample
// catalog when the body is not a product list. An empty list clears it.
func (h *Handler) resetProducts(c *fiber.Ctx) error {
	if !h.allowReset {
		return c.Status(fiber.StatusForbidden).SendString("reset not allowed")
	}

	var products []entity.Product
	if err := c.BodyParser(&products); err != nil {
		products = SampleProducts()
	}

	if err := h.service.ResetProducts(products); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(err.Error())
	}
	return c.JSON(products)
}

// SampleProducts is the default demo catalog.
func SampleProducts() []entity.Product {
	return []entity.Product{
		{
			Name:        "Echo Dot",
			Description: "(2nd Generation) - Black",
			Details:     "Smart speaker with voice assistant",
			Price:       decimal.RequireFromString("92.50"),
			Quantity:    10,
		},
		{
			Name:        "Anker 3ft / 0.9m Nylon Braided",
			Description: "Tangle-Free Micro USB Cable",
			Details:     "Charging cable",
			Price:       decimal.RequireFromString("9.99"),
			Quantity:    20,
		},
		{
			Name:        "JVC HAFX8R Headphone",
			Description: "Riptidz, In-Ear",
			Details:     "Wired earbuds",
			Price:       decimal.RequireFromString("69.99"),
			Quantity:    30,
		},
		{
			Name:        "VTech CS6114 DECT 6.0",
			Description: "Cordless Phone",
			Details:     "Single handset",
			Price:       decimal.RequireFromString("32.50"),
			Quantity:    40,
		},
		{
			Name:        "NOKIA OEM BL-5J",
			Description: "Cell Phone",
			Details:     "Replacement battery",
			Price:       decimal.RequireFromString("895.00"),
			Quantity:    50,
		},
	}
}
