package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/sirupsen/logrus"

	"github.com/georgemunganga/bizdesk-backend/internal/config"
	"github.com/georgemunganga/bizdesk-backend/internal/jsonstore"
	"github.com/georgemunganga/bizdesk-backend/internal/logger"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/costing"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/currency"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/customer"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/forwarder"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/inventory"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/notification"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/order"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/report"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/sale"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/settings"
	"github.com/georgemunganga/bizdesk-backend/internal/modules/supplier"
	"github.com/georgemunganga/bizdesk-backend/internal/respond"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.WithError(err).Fatal("failed to load configuration")
	}

	log, err := logger.New(logger.Config{
		Level:      cfg.LogLevel,
		Format:     cfg.LogFormat,
		Output:     cfg.LogOutput,
		Path:       cfg.LogPath,
		File:       cfg.LogFile,
		MaxSize:    cfg.LogMaxSize,
		MaxBackups: cfg.LogMaxBackups,
		MaxAge:     cfg.LogMaxAge,
		Compress:   cfg.LogCompress,
	})
	if err != nil {
		logrus.WithError(err).Fatal("failed to build logger")
	}

	base, err := currency.Parse(cfg.DefaultCurrency)
	if err != nil {
		log.WithError(err).Fatal("invalid DEFAULT_CURRENCY")
	}

	db, err := jsonstore.Open(cfg.DataDir)
	if err != nil {
		log.WithError(err).Fatal("failed to open data directory")
	}
	log.WithField("dir", db.Dir()).Info("data directory ready")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	router.Use(logger.Middleware(log))
	router.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		respond.JSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	// ── Phase 1: Currency & Settings ────────────────────────
	normalizer := currency.NewNormalizer(db, log.WithField("module", "currency"))
	currency.NewHandler(log).RegisterRoutes(router)

	broker := settings.NewBroker(log.WithField("module", "settings"))
	defer broker.Close()
	settingsService := settings.NewService(settings.NewStore(db, settings.Defaults(base)), normalizer, broker, log.WithField("module", "settings"))
	current, err := settingsService.Load(ctx)
	if err != nil {
		log.WithError(err).Fatal("failed to load settings")
	}
	settings.NewHandler(settingsService, log).RegisterRoutes(router)

	// ── Phase 2: Notifications ──────────────────────────────
	notificationService := notification.NewService(notification.NewStore(db), log.WithField("module", "notification"))
	notificationService.SetPreferences(current.Notifications)
	changes, unsubscribe := broker.Subscribe(16)
	defer unsubscribe()
	go notificationService.Watch(ctx, changes)
	notification.NewHandler(notificationService, log).RegisterRoutes(router)

	// ── Phase 3: Partners ───────────────────────────────────
	supplier.NewHandler(supplier.NewService(supplier.NewStore(db)), log).RegisterRoutes(router)
	forwarder.NewHandler(forwarder.NewService(forwarder.NewStore(db)), log).RegisterRoutes(router)

	customerService := customer.NewService(customer.NewStore(db), log.WithField("module", "customer"))
	customer.NewHandler(customerService, log).RegisterRoutes(router)

	// ── Phase 4: Inventory & Orders ─────────────────────────
	lowStockThreshold := func() int { return settingsService.Current().LowStockThreshold }
	inventoryService := inventory.NewService(inventory.NewItemRepository(db), notificationService, lowStockThreshold, log.WithField("module", "inventory"))
	inventory.NewHandler(inventoryService, log).RegisterRoutes(router)

	orderService := order.NewService(order.NewRepository(db), inventoryService, notificationService, log.WithField("module", "order"))
	order.NewHandler(orderService, log).RegisterRoutes(router)

	// ── Phase 5: Sales, Costings & Reports ──────────────────
	saleService := sale.NewService(sale.NewStore(db), inventoryService, customerService, log.WithField("module", "sale"))
	if _, err := saleService.Migrate(ctx); err != nil {
		log.WithError(err).Fatal("failed to migrate sales")
	}
	sale.NewHandler(saleService, log).RegisterRoutes(router)

	baseCurrency := func() currency.Code { return settingsService.Current().Currency }
	costing.NewHandler(costing.NewService(costing.NewStore(db), baseCurrency), log).RegisterRoutes(router)

	generator := report.NewGenerator(saleService, orderService, inventoryService)
	report.NewHandler(report.NewService(report.NewStore(db), generator, log.WithField("module", "report")), log).RegisterRoutes(router)

	// ── Start Server ─────────────────────────────────────────
	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	serverErr := make(chan error, 1)
	go func() {
		log.WithFields(logrus.Fields{"addr": server.Addr, "currency": current.Currency}).Info("API server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
		close(serverErr)
	}()

	select {
	case err := <-serverErr:
		if err != nil {
			log.WithError(err).Error("HTTP server failed")
			os.Exit(1)
		}
	case <-ctx.Done():
	}

	log.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGrace())
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server forced to shutdown")
	}
	log.Info("server exited")
}
