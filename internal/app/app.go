package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/app"
	"github.com/go-faster/sdk/zctx"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"

	"github.com/zahrashop/backend/internal/domain/cart"
	"github.com/zahrashop/backend/internal/domain/content"
	"github.com/zahrashop/backend/internal/domain/order"
	"github.com/zahrashop/backend/internal/domain/user"
	"github.com/zahrashop/backend/internal/gateway"
	"github.com/zahrashop/backend/internal/handler"
	"github.com/zahrashop/backend/internal/messaging/kafka"
	"github.com/zahrashop/backend/internal/payment"
	"github.com/zahrashop/backend/internal/storage/postgres"
	"github.com/zahrashop/backend/pkg/health"
	"github.com/zahrashop/backend/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, m *app.Telemetry, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	// PostgreSQL pool + migrations.
	pool, err := postgres.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return errors.Wrap(err, "create db pool")
	}
	defer pool.Close()

	if err := postgres.RunMigrations(ctx, pool); err != nil {
		return errors.Wrap(err, "run migrations")
	}

	// Health probes.
	checker := health.NewChecker()
	checker.Readiness("postgres", 5*time.Second, func(ctx context.Context) error {
		return pool.Ping(ctx)
	})
	checker.Liveness("goroutines", time.Second, health.MaxGoroutines(10000))
	checker.Run(ctx, 10*time.Second)
	checker.MarkReady(true)

	// Repositories.
	productRepo := postgres.NewProductRepository(pool)
	offerRepo := postgres.NewOfferRepository(pool)
	cartRepo := postgres.NewCartRepository(pool)
	orderRepo := postgres.NewOrderRepository(pool)
	userRepo := postgres.NewUserRepository(pool)
	addressRepo := postgres.NewAddressRepository(pool)
	wishlistRepo := postgres.NewWishlistRepository(pool)
	sizeRepo := postgres.NewSizeRepository(pool)
	colorRepo := postgres.NewColorRepository(pool)
	categoryRepo := postgres.NewCategoryRepository(pool)
	subCategoryRepo := postgres.NewSubCategoryRepository(pool)
	bannerRepo := postgres.NewBannerRepository(pool)
	storyRepo := postgres.NewStoryRepository(pool)

	// Order events are optional: without brokers the services skip publishing.
	var publisher order.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, lg)
		if err != nil {
			return errors.Wrap(err, "create kafka producer")
		}
		defer func() {
			if err := producer.Close(); err != nil {
				lg.Warn("Closing kafka producer", zap.Error(err))
			}
		}()
		publisher = producer
	}

	// Payment backends.
	gatewayClient := gateway.NewClient(cfg.Gateway.clientConfig())
	stripeClient := payment.NewStripeClient(cfg.Stripe.clientConfig())

	// Domain services.
	cartService := cart.NewService(cartRepo, productRepo, offerRepo)
	orderService := order.NewService(orderRepo, cartRepo, productRepo, offerRepo, publisher, nil)
	paymentService := payment.NewService(orderRepo, gatewayClient, stripeClient, publisher)
	profileService := user.NewService(userRepo, addressRepo)
	wishlistService := user.NewWishlistService(wishlistRepo, productRepo, offerRepo)
	contentService := content.NewService(bannerRepo, storyRepo, productRepo, categoryRepo, offerRepo, wishlistRepo)

	// HTTP engine.
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(
		httpmiddleware.RequestID(),
		httpmiddleware.ContextLogger(zctx.From(ctx)),
		httpmiddleware.Recovery(),
		httpmiddleware.CORS(httpmiddleware.CORSConfig{
			AllowOrigins:     cfg.CORS.Origins,
			AllowHeaders:     []string{"Content-Type", "Authorization", "Accept-Language"},
			AllowCredentials: cfg.CORS.AllowCredentials,
			MaxAge:           86400,
		}),
		httpmiddleware.RateLimit(ctx, httpmiddleware.RateLimitConfig{
			Max:    cfg.RateLimit.Max,
			Window: cfg.RateLimit.Window,
		}),
		httpmiddleware.Instrument("zahra-api", m.MeterProvider()),
	)

	engine.GET("/livez", checker.LiveHandler())
	engine.GET("/readyz", checker.ReadyHandler())

	h := handler.New(handler.Services{
		Products:      productRepo,
		Sizes:         sizeRepo,
		Colors:        colorRepo,
		Categories:    categoryRepo,
		SubCategories: subCategoryRepo,
		Offers:        offerRepo,
		Views:         productRepo,

		Cart:     cartService,
		Orders:   orderService,
		Payments: paymentService,
		Profile:  profileService,
		Wishlist: wishlistService,
		Content:  contentService,
	})
	h.Routes(engine, handler.NewJWTVerifier(cfg.JWTSecret))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: otelhttp.NewHandler(engine, "zahra-api",
			otelhttp.WithTracerProvider(m.TracerProvider()),
			otelhttp.WithMeterProvider(m.MeterProvider()),
		),
	}

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		checker.MarkReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		checker.Shutdown()
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}
