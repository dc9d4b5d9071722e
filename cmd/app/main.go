package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/google/uuid"
	"github.com/wichananm65/store-catalog/internal/auth"
	"github.com/wichananm65/store-catalog/internal/cart"
	"github.com/wichananm65/store-catalog/internal/config"
	"github.com/wichananm65/store-catalog/internal/domain/repository"
	"github.com/wichananm65/store-catalog/internal/infrastructure/database/postgres"
	"github.com/wichananm65/store-catalog/internal/localization"
	"github.com/wichananm65/store-catalog/internal/order"
	"github.com/wichananm65/store-catalog/internal/platform/logging"
	"github.com/wichananm65/store-catalog/internal/product"
)

func main() {
	sigCtx, stop := signalContext()
	defer stop()

	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	logger := logging.Init(os.Stderr, cfg.LogLevel)
	cfg.Print()

	culture, err := localization.Parse(cfg.DefaultCulture)
	if err != nil {
		slog.Warn("falling back to English", "err", err)
		culture = localization.English
	}
	if cfg.JWTSecret == "" {
		// tokens will not survive a restart
		slog.Warn("JWT_SECRET is not set, using a random secret")
		cfg.JWTSecret = uuid.NewString()
	}

	s, closeStores := mustOpenStores(sigCtx, cfg)
	defer closeStores()

	catalog := localization.NewCatalog()
	productService := product.NewService(nil, s.products, s.orders, catalog)
	cartService := cart.NewService(s.carts, productService)
	orderService := order.NewService(s.orders, productService)
	authService := auth.NewService(cfg.AdminUser, cfg.AdminPasswordHash, cfg.JWTSecret)

	app := fiber.New(fiber.Config{DisableStartupMessage: true})
	setupCORS(app)
	app.Use(logging.Middleware(logger))
	app.Use(cart.SessionMiddleware())

	productHandler := product.NewHandler(productService, cartService, culture, cfg.AllowReset)
	cartHandler := cart.NewHandler(cartService, catalog, culture)
	orderHandler := order.NewHandler(orderService, cartService, catalog, culture)
	authHandler := auth.NewHandler(authService)

	// sign-in must be registered ahead of the admin group
	authHandler.RegisterPublicRoutes(app)
	productHandler.RegisterPublicRoutes(app)
	cartHandler.RegisterPublicRoutes(app)
	orderHandler.RegisterPublicRoutes(app)

	admin := app.Group("/api/v1/admin", auth.Middleware(cfg.JWTSecret), auth.RequireAdmin())
	productHandler.RegisterProtectedRoutes(admin)
	orderHandler.RegisterProtectedRoutes(admin)

	go func() {
		slog.Info("http server listening", "addr", cfg.Addr)
		if err := app.Listen(cfg.Addr); err != nil {
			slog.Error("http server stopped", "err", err)
			stop()
		}
	}()

	<-sigCtx.Done()
	slog.Info("application is closing...")

	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		slog.Error("failed to shutdown http server gracefully", "err", err)
	}
	slog.Info("application is closed")
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(
		context.Background(),
		syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT,
	)
}

func setupCORS(app *fiber.App) {
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,HEAD,PUT,DELETE,PATCH",
		AllowHeaders: "Origin, Content-Type, Accept, Accept-Language, Authorization",
	}))
}

type stores struct {
	products repository.ProductRepository
	orders   repository.OrderRepository
	carts    cart.Store
}

// mustOpenStores uses Postgres when DATABASE_URL is set and in-memory
// storage seeded with the sample catalog otherwise.
func mustOpenStores(ctx context.Context, cfg config.Config) (stores, func()) {
	if cfg.DatabaseURL == "" {
		slog.Info("DATABASE_URL not set, using in-memory storage")
		products := product.NewInMemoryRepository(nil)
		if err := products.Reset(product.SampleProducts()); err != nil {
			die("main.mustOpenStores", err)
		}
		return stores{
			products: products,
			orders:   order.NewInMemoryRepository(),
			carts:    cart.NewInMemoryStore(),
		}, func() {}
	}

	db := mustOpenDB(ctx, cfg.DatabaseURL)
	return stores{
		products: product.NewPostgresRepository(db),
		orders:   order.NewPostgresRepository(db),
		carts:    cart.NewPostgresStore(db),
	}, func() { db.Close() }
}

func mustOpenDB(ctx context.Context, dbURL string) *sql.DB {
	const op = "main.mustOpenDB"

	db, err := postgres.Open(ctx, dbURL)
	if err != nil {
		die(op, err)
	}
	if err := postgres.EnsureSchema(ctx, db); err != nil {
		db.Close()
		die(op, err)
	}
	return db
}

func die(op string, err error) {
	slog.Error("fatal", "op", op, "err", err)
	os.Exit(1)
}
