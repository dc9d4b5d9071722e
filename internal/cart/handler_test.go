package cart

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/wichananm65/store-catalog/internal/domain/entity"
	"github.com/wichananm65/store-catalog/internal/localization"
)

type fakeFinder map[int]entity.Product

func (f fakeFinder) GetProduct(ctx context.Context, id int) (*entity.Product, error) {
	p, ok := f[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func makeAppWithCartHandler(t *testing.T) *fiber.App {
	t.Helper()
	finder := fakeFinder{
		1: product(1, "10.00"),
		2: {ID: 2, Name: "rare", Price: product(2, "5").Price, Quantity: 1},
	}
	h := NewHandler(NewService(NewInMemoryStore(), finder), localization.NewCatalog(), localization.English)
	app := fiber.New()
	app.Use(SessionMiddleware())
	h.RegisterPublicRoutes(app)
	return app
}

func sessionCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, c := range res.Cookies() {
		if c.Name == SessionCookie {
			return c
		}
	}
	t.Fatalf("expected %s cookie to be issued", SessionCookie)
	return nil
}

func TestCartRoutes_Basic(t *testing.T) {
	app := makeAppWithCartHandler(t)

	routes := map[string]bool{}
	for _, grp := range app.Stack() {
		for _, r := range grp {
			routes[r.Path] = true
		}
	}
	if !routes["/api/v1/cart"] {
		t.Fatalf("expected route '/api/v1/cart' to be registered")
	}

	// first request issues a session cookie
	res, err := app.Test(httptest.NewRequest("GET", "/api/v1/cart", nil))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200, got %d", res.StatusCode)
	}
	cookie := sessionCookie(t, res)

	post := func(body string) *http.Response {
		req := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		req.AddCookie(cookie)
		res, err := app.Test(req)
		if err != nil {
			t.Fatalf("request failed: %v", err)
		}
		return res
	}

	if res := post(`{"productId":1,"quantity":5}`); res.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for add, got %d", res.StatusCode)
	}
	res2 := post(`{"productId":1,"quantity":3}`)
	b, _ := io.ReadAll(res2.Body)
	if !strings.Contains(string(b), `"quantity":8`) {
		t.Fatalf("expected merged quantity 8, got %s", string(b))
	}
	if strings.Count(string(b), `"product"`) != 1 {
		t.Fatalf("expected a single line, got %s", string(b))
	}

	// unknown product
	if res := post(`{"productId":99,"quantity":1}`); res.StatusCode != fiber.StatusNotFound {
		t.Fatalf("expected 404 for unknown product, got %d", res.StatusCode)
	}
	// more than in stock
	if res := post(`{"productId":2,"quantity":2}`); res.StatusCode != fiber.StatusConflict {
		t.Fatalf("expected 409 for insufficient stock, got %d", res.StatusCode)
	}
	// negative quantity
	if res := post(`{"productId":1,"quantity":-1}`); res.StatusCode != fiber.StatusBadRequest {
		t.Fatalf("expected 400 for negative quantity, got %d", res.StatusCode)
	}

	// remove the line
	req := httptest.NewRequest("DELETE", "/api/v1/cart/1", nil)
	req.AddCookie(cookie)
	res3, _ := app.Test(req)
	if res3.StatusCode != fiber.StatusOK {
		t.Fatalf("expected 200 for remove, got %d", res3.StatusCode)
	}
	b3, _ := io.ReadAll(res3.Body)
	if strings.Contains(string(b3), `"id":1`) {
		t.Fatalf("expected product 1 removed, got %s", string(b3))
	}

	// clear
	req4 := httptest.NewRequest("DELETE", "/api/v1/cart", nil)
	req4.AddCookie(cookie)
	res4, _ := app.Test(req4)
	if res4.StatusCode != fiber.StatusNoContent {
		t.Fatalf("expected 204 for clear, got %d", res4.StatusCode)
	}
}

func TestCartRoutes_LocalizedError(t *testing.T) {
	app := makeAppWithCartHandler(t)

	req := httptest.NewRequest("POST", "/api/v1/cart", strings.NewReader(`{"productId":99,"quantity":1}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept-Language", "fr-FR")
	res, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	b, _ := io.ReadAll(res.Body)
	if !strings.Contains(string(b), "Produit introuvable") {
		t.Fatalf("expected french message, got %s", string(b))
	}
}
