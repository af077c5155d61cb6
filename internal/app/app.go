package app

import (
	"context"
	"net/http"
	"time"

	"github.com/go-faster/errors"
	"github.com/go-faster/sdk/zctx"
	"go.uber.org/zap"

	"github.com/tableside/restaurant-orders/internal/domain/coupon"
	"github.com/tableside/restaurant-orders/internal/domain/order"
	"github.com/tableside/restaurant-orders/internal/domain/product"
	"github.com/tableside/restaurant-orders/internal/handler"
	"github.com/tableside/restaurant-orders/internal/memory"
	"github.com/tableside/restaurant-orders/internal/menu"
	"github.com/tableside/restaurant-orders/internal/repository"
	"github.com/tableside/restaurant-orders/pkg/health"
	"github.com/tableside/restaurant-orders/pkg/httpmiddleware"
)

// Run creates all dependencies, starts the HTTP server, and handles graceful
// shutdown. It is the single wiring point for the application.
func Run(ctx context.Context, lg *zap.Logger, cfg *Config) error {
	lg.Info("Initializing", zap.String("addr", cfg.Addr))

	healthSvc := health.New()
	healthSvc.AddLivenessCheck("goroutines", time.Second, health.GoroutineCountCheck(10000))

	var (
		orderRepo   order.Repository
		productRepo product.Repository
		couponRepo  coupon.Repository
	)

	if cfg.DatabaseURL != "" {
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL)
		if err != nil {
			return errors.Wrap(err, "create db pool")
		}
		defer pool.Close()

		if err := repository.RunMigrations(ctx, pool); err != nil {
			return errors.Wrap(err, "run migrations")
		}

		healthSvc.AddReadinessCheck("postgres", 5*time.Second, func(ctx context.Context) error {
			return pool.Ping(ctx)
		})

		orderRepo = repository.NewOrderRepository(pool)
		productRepo = repository.NewProductRepository(pool)
		couponRepo = repository.NewCouponRepository(pool)
	} else {
		lg.Info("No database URL configured, using in-memory repositories")
		orderRepo = memory.NewOrderRepository()
		productRepo = memory.NewProductRepository()
		couponRepo = memory.NewCouponRepository()
	}

	if cfg.MenuFile != "" {
		if err := loadMenuOnce(ctx, lg, cfg.MenuFile, productRepo); err != nil {
			return errors.Wrap(err, "load menu")
		}
	}

	var couponValidator coupon.Validator
	switch cfg.CouponSource {
	case CouponSourceDB:
		couponValidator = coupon.NewRepoValidator(couponRepo)
	default:
		couponValidator = coupon.CodeValidator{}
	}

	orderService := order.NewService(orderRepo, productRepo, couponValidator)
	h := handler.New(orderService, productRepo, lg)

	mux := http.NewServeMux()
	mux.HandleFunc("/livez", healthSvc.LiveEndpoint)
	mux.HandleFunc("/readyz", healthSvc.ReadyEndpoint)
	mux.Handle("/api/", h.Routes(cfg.CORS.Origins))

	server := &http.Server{
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
		Addr:              cfg.Addr,
		Handler: httpmiddleware.Wrap(mux,
			httpmiddleware.Recovery(),
			httpmiddleware.RequestID(),
			httpmiddleware.InjectLogger(zctx.From(ctx)),
			httpmiddleware.LogRequests(),
		),
	}

	healthSvc.SetReady(true)

	// Graceful shutdown: wait for context cancellation, drain, then stop.
	shutdownDone := make(chan struct{})
	go func() {
		<-ctx.Done()
		healthSvc.SetReady(false)
		lg.Info("Readiness set to false, draining", zap.Duration("delay", cfg.Graceful.ReadinessDelay))
		time.Sleep(cfg.Graceful.ReadinessDelay)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Graceful.ShutdownTimeout)
		defer cancel()

		lg.Info("Shutting down server", zap.Duration("timeout", cfg.Graceful.ShutdownTimeout))
		if err := server.Shutdown(shutdownCtx); err != nil {
			lg.Error("Server shutdown error", zap.Error(err))
		}
		close(shutdownDone)
	}()

	lg.Info("Server listening", zap.String("addr", cfg.Addr))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return errors.Wrap(err, "server")
	}
	<-shutdownDone
	return nil
}

// loadMenuOnce seeds the catalog from the menu file, skipping the load when
// the catalog already has products.
func loadMenuOnce(ctx context.Context, lg *zap.Logger, path string, catalog product.Repository) error {
	existing, err := catalog.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		lg.Info("Catalog already seeded, skipping menu file", zap.Int("products", len(existing)))
		return nil
	}

	n, err := menu.LoadFile(ctx, path, catalog)
	if err != nil {
		return err
	}
	lg.Info("Menu loaded", zap.String("file", path), zap.Int("products", n))
	return nil
}
