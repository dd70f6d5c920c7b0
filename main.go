package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yeremiapane/restaurant-pos/cart"
	"github.com/yeremiapane/restaurant-pos/config"
	"github.com/yeremiapane/restaurant-pos/events"
	"github.com/yeremiapane/restaurant-pos/kds"
	"github.com/yeremiapane/restaurant-pos/lifecycle"
	"github.com/yeremiapane/restaurant-pos/router"
	"github.com/yeremiapane/restaurant-pos/services"
	"github.com/yeremiapane/restaurant-pos/utils"
	"gorm.io/gorm"
)

type app struct {
	db      *gorm.DB
	engine  *gin.Engine
	hub     *kds.Hub
	pollers []*services.QueuePoller
	closers []func()
}

// newApp opens storage and wires services, background pollers and routes.
func newApp(cfg *config.Config) (*app, error) {
	utils.SetJWTSecret(cfg.JWTSecret)

	db, err := config.InitDB(cfg)
	if err != nil {
		return nil, err
	}
	if err := config.Migrate(db); err != nil {
		return nil, err
	}

	var store cart.Store
	switch cfg.CartStore {
	case "file":
		fs, err := cart.NewFileStore(cfg.CartDir)
		if err != nil {
			return nil, err
		}
		store = fs
	default:
		store = services.NewGormCartStore(db)
	}

	var discounts services.DiscountValidator
	if cfg.DiscountAPIURL != "" {
		discounts = services.NewDiscountClient(cfg.DiscountAPIURL, cfg.DiscountAPIKey)
	} else {
		utils.InfoLogger.Warn("DISCOUNT_API_URL not set, discount codes are disabled")
	}

	a := &app{db: db, hub: kds.NewHub()}
	notifiers := services.Notifiers{a.hub}
	if cfg.AMQPURL != "" {
		publisher, err := events.Dial(cfg.AMQPURL)
		if err != nil {
			utils.ErrorLogger.Errorf("RabbitMQ unavailable, order events will not be published: %v", err)
		} else {
			a.closers = append(a.closers, publisher.Close)
			notifiers = append(notifiers, publisher)
		}
	}

	catalog := services.NewCatalogService(db)
	carts := services.NewCartService(catalog, store, discounts)
	orders := services.NewOrderService(db, catalog, carts, discounts, notifiers)
	transitions := services.NewTransitionService(db, orders, services.NewLoyaltyService(cfg.LoyaltyPointValue), notifiers)
	payments := services.NewPaymentService(db, orders, notifiers)

	queues := map[lifecycle.Role][]lifecycle.Status{
		lifecycle.RoleKitchen: lifecycle.KitchenStatuses,
		lifecycle.RoleStaff:   lifecycle.ActiveStatuses(),
	}
	for role, statuses := range queues {
		p := services.NewQueuePoller(services.QueueFor(orders, statuses), cfg.QueuePollInterval,
			func(s services.QueueSnapshot) { a.hub.BroadcastQueue(role, s) })
		transitions.OnAcknowledged(p.Acknowledge)
		a.pollers = append(a.pollers, p)
	}

	a.engine = router.SetupRouter(router.Deps{
		Catalog:         catalog,
		Carts:           carts,
		Orders:          orders,
		Transitions:     transitions,
		Payments:        payments,
		Hub:             a.hub,
		CORSOrigin:      cfg.CORSOrigin,
		PublicRateLimit: cfg.RateLimitPerMin,
	})
	return a, nil
}

// start runs the queue pollers until ctx is cancelled.
func (a *app) start(ctx context.Context) {
	for _, p := range a.pollers {
		p.Start(ctx)
	}
}

func (a *app) close() {
	for _, fn := range a.closers {
		fn()
	}
	if sqlDB, err := a.db.DB(); err == nil {
		_ = sqlDB.Close()
	}
}

func main() {
	utils.InitLogger()
	cfg := config.Load()
	if err := utils.ConfigureLogger(cfg.LogLevel, cfg.LogFormat); err != nil {
		utils.InfoLogger.Warnf("invalid LOG_LEVEL %q: %v", cfg.LogLevel, err)
	}

	if err := cfg.Validate(); err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}
	if cfg.GinMode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.JWTSecret == "" {
		utils.InfoLogger.Warn("JWT_SECRET not set, using the built-in development secret")
	}

	a, err := newApp(cfg)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to start: %v", err)
	}
	defer a.close()

	if err := a.engine.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		utils.ErrorLogger.Errorf("trusted proxies: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	a.start(ctx)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           a.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.InfoLogger.Printf("Listening on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.ErrorLogger.Fatal(err)
		}
	}()

	<-ctx.Done()
	utils.InfoLogger.Println("Shutting down...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.ErrorLogger.Errorf("server shutdown: %v", err)
	}
}
