package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"net/http"
	"time"

	"cashapp-gateway/internal/cart"
	"cashapp-gateway/internal/cashapp"
	"cashapp-gateway/internal/checkout"
	"cashapp-gateway/internal/config"
	"cashapp-gateway/internal/db"
	"cashapp-gateway/internal/logger"
	"cashapp-gateway/internal/metrics"
	"cashapp-gateway/internal/middleware"
	"cashapp-gateway/internal/notification"
	"cashapp-gateway/internal/order"
	"cashapp-gateway/internal/payment"
	"cashapp-gateway/internal/settings"
	"cashapp-gateway/internal/utils"

	"go.uber.org/zap"
)

var (
	initDBFunc      = db.InitDB
	startServerFunc = func(addr string, handler http.Handler) error {
		srv := &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 5 * time.Second,
		}
		return srv.ListenAndServe()
	}
)

func main() {
	if err := run(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal(err)
	}
}

func run() error {
	cfg := config.LoadConfig()
	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := initDBFunc(cfg)
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handler, err := newServer(ctx, cfg, database)
	if err != nil {
		return err
	}

	addr := ":" + cfg.AppPort
	logger.L().Info("checkout server starting", zap.String("addr", addr), zap.String("env", cfg.AppEnv))
	return startServerFunc(addr, handler)
}

// newServer wires the stores, gateways and HTTP surface.
func newServer(ctx context.Context, cfg *config.Config, database *sql.DB) (http.Handler, error) {
	orderSvc := order.NewService(order.NewRepository(database), cfg.StoreURL)
	cartSvc := cart.NewService(cart.NewRepository(database))
	settingsRepo := settings.NewRepository(database)

	deps := cashapp.Deps{
		Orders:   orderSvc,
		Cart:     cartSvc,
		Settings: settingsRepo,
		IconURL:  cfg.CashAppIconURL,
	}
	gw, err := cashapp.New(ctx, deps)
	if err != nil {
		var loadErr *payment.ConfigLoadError
		if !errors.As(err, &loadErr) {
			return nil, err
		}
		logger.L().Warn("cashapp gateway registered disabled", zap.Error(err))
		gw = cashapp.NewDisabled(deps)
	}

	registry, err := payment.NewRegistry(gw)
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway registry: %w", err)
	}

	dispatcher := notification.NewDispatcher(notification.NewSMTPMailer(cfg), notification.SettingsFromConfig(cfg))
	dispatcher.RegisterBeforeOrderTable(gw.EmailInstructions)

	m := metrics.NewSet()
	checkoutH := checkout.NewHandler(registry, orderSvc, dispatcher, m, cfg.ShopName)

	return setupRouter(checkoutH, m, middleware.NewRateLimiter(ctx), cfg.SecretKey), nil
}

func setupRouter(h *checkout.Handler, m *metrics.Set, limiter *middleware.RateLimiter, secret string) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	mux.Handle("GET /admin/metrics", middleware.RequireAdmin(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, m.Snapshot())
	})))

	h.Register(mux, middleware.RequireAdmin)

	var handler http.Handler = mux
	handler = limiter.Middleware(handler)
	handler = middleware.CartSession(handler)
	handler = middleware.Auth(secret)(handler)
	handler = logger.LoggingMiddleware(handler)
	handler = logger.RequestIDMiddleware(handler)
	return handler
}
