package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/nats-io/nats.go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/fairyhunter13/edu-checkout/internal/checkout"
	"github.com/fairyhunter13/edu-checkout/internal/config"
	"github.com/fairyhunter13/edu-checkout/internal/delivery"
	"github.com/fairyhunter13/edu-checkout/internal/events"
	"github.com/fairyhunter13/edu-checkout/internal/handler"
	"github.com/fairyhunter13/edu-checkout/internal/metrics"
	"github.com/fairyhunter13/edu-checkout/internal/order"
	"github.com/fairyhunter13/edu-checkout/internal/pricing"
	"github.com/fairyhunter13/edu-checkout/internal/repository"
	"github.com/fairyhunter13/edu-checkout/internal/service"
	"github.com/fairyhunter13/edu-checkout/internal/validator"
	"github.com/fairyhunter13/edu-checkout/pkg/database"
)

func main() {
	// Load configuration first
	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	initLogger(cfg)

	ctx := context.Background()

	// Initialize database pool with retry
	pool, err := database.NewPool(ctx, cfg.DB.DSN(), 5)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}

	if cfg.DB.AutoMigrate {
		if err := database.Migrate(ctx, pool); err != nil {
			log.Fatal().Err(err).Msg("failed to migrate database")
		}
	}

	fees, err := cfg.Delivery.Fees()
	if err != nil {
		log.Fatal().Err(err).Msg("invalid delivery fees")
	}
	selector, err := delivery.NewSelector(fees)
	if err != nil {
		log.Fatal().Err(err).Msg("invalid delivery fees")
	}

	// Order events are optional; without NATS_URL orders are only persisted.
	var (
		nc        *nats.Conn
		publisher events.Publisher = events.Noop{}
	)
	if cfg.Events.Enabled() {
		nc, err = events.Connect(cfg.Events.NATSURL)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to connect to event bus")
		}
		publisher = events.NewNATSPublisher(nc, cfg.Events.OrderSubject)
	}

	m := metrics.New()

	app := fiber.New(fiber.Config{
		AppName:      "Edu Checkout",
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
		BodyLimit:    1 * 1024 * 1024,
	})

	app.Use(recover.New())
	app.Use(requestid.New()) // Adds X-Request-ID header to all requests
	app.Use(logger.New())
	app.Use(m.Middleware())

	validate := validator.New()
	calc := pricing.NewCalculator(selector)
	assembler := order.NewAssembler(calc, validate)

	// Layered wiring: repositories -> services -> handlers
	productRepo := repository.NewProductRepository(pool)
	promoRepo := repository.NewPromoRepository(pool)
	orderRepo := repository.NewOrderRepository(pool)

	catalogService := service.NewCatalogService(productRepo)
	promoService := service.NewPromoService(promoRepo, productRepo, m)
	orderService := service.NewOrderService(orderRepo, publisher, m)
	checkoutService := service.NewCheckoutService(checkout.Deps{
		Products:   catalogService,
		Promos:     promoService.Validator(),
		Calculator: calc,
		Assembler:  assembler,
		Submitter:  orderService,
	}, m)
	manualService := service.NewManualEntryService(catalogService, assembler, orderService)

	productHandler := handler.NewProductHandler(catalogService)
	promoHandler := handler.NewPromoHandler(promoService, validate)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService, validate)
	manualHandler := handler.NewManualEntryHandler(manualService, validate)

	var eventStatus handler.ConnStatus
	if nc != nil {
		eventStatus = nc
	}
	healthHandler := handler.NewHealthHandler(pool, eventStatus)
	app.Get("/health", healthHandler.Check)
	app.Get("/metrics", m.Handler())

	// Storefront routes
	api := app.Group("/api")
	api.Get("/products/:ref", productHandler.GetProduct)
	api.Post("/promos/validate", promoHandler.ValidatePromo)
	api.Post("/checkout/quote", checkoutHandler.Quote)
	api.Post("/orders", checkoutHandler.PlaceOrder)

	// Back-office routes
	admin := api.Group("/admin")
	admin.Post("/promos", promoHandler.CreatePromo)
	admin.Get("/promos", promoHandler.ListPromos)
	admin.Get("/promos/:code", promoHandler.GetPromo)
	admin.Put("/promos/:code", promoHandler.UpdatePromo)
	admin.Patch("/promos/:code/status", promoHandler.SetPromoStatus)
	admin.Post("/orders/manual", manualHandler.CreateOrder)
	admin.Post("/enrollments/manual", manualHandler.CreateEnrollment)

	// Start server with graceful shutdown
	go func() {
		log.Info().Str("port", cfg.Server.Port).Msg("starting server")
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	log.Info().Str("signal", sig.String()).Msg("received shutdown signal")
	log.Info().Int("timeout_seconds", cfg.Server.ShutdownTimeout).Msg("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(
		context.Background(),
		time.Duration(cfg.Server.ShutdownTimeout)*time.Second,
	)
	defer shutdownCancel()

	// Shutdown server (waits for in-flight requests)
	log.Info().Msg("waiting for in-flight requests to complete...")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("error during server shutdown")
	}

	// Flush pending order events before the connection goes away
	if nc != nil {
		log.Info().Msg("draining event bus connection...")
		if err := nc.Drain(); err != nil {
			log.Error().Err(err).Msg("error draining event bus connection")
		}
	}

	// Close database pool AFTER server shutdown (even if shutdown timed out)
	log.Info().Msg("closing database connections...")
	pool.Close()
	log.Info().Msg("server stopped")
}

// initLogger configures zerolog based on the application configuration.
func initLogger(cfg *config.Config) {
	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)

	if cfg.Log.Pretty {
		// Human-readable output for development
		log.Logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).
			With().Timestamp().Logger()
	} else {
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
		log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
	}
}
