// Package main boots the Cart Aggregator HTTP service.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jscartlabs/cart-service/internal/cart"
	"github.com/jscartlabs/cart-service/internal/catalog"
	"github.com/jscartlabs/cart-service/internal/config"
	httpapi "github.com/jscartlabs/cart-service/internal/http"
	"github.com/jscartlabs/cart-service/internal/money"
	"github.com/jscartlabs/cart-service/internal/obs"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	obs.InitLogger()
	obs.Logger.Info("service_starting")

	var cat *catalog.Catalog
	if cfg.CatalogPath != "" {
		var err error
		cat, err = catalog.LoadFile(cfg.CatalogPath)
		if err != nil {
			obs.Logger.Error("catalog_load_failed", "path", cfg.CatalogPath, "error", err)
			os.Exit(1)
		}
	} else {
		cat = catalog.Default()
	}
	obs.Logger.Info("catalog_ready", "products", cat.Len())

	st := cart.NewStore(cat)
	ctrl := cart.NewController(cat, st, cfg.ActionBuffer)
	// Demo renderer: the presentation boundary is a structured log line
	// carrying both totals from the same committed snapshot.
	ctrl.Subscribe(func(ch cart.Change) {
		obs.Logger.Info("cart_changed",
			"sequence", ch.Sequence,
			"action", ch.Action,
			"product_id", ch.ProductID,
			"total_quantity", ch.Summary.TotalQuantity,
			"total_price", money.Format(ch.Summary.TotalPrice),
		)
	})
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctrl.Start(ctx)

	app := httpapi.NewApp(cfg, cat, st, ctrl)
	mux := httpapi.NewRouter(app)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		obs.Logger.Info("http_listen", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			obs.Logger.Error("http_server_error", "error", err)
			os.Exit(1)
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, syscall.SIGINT, syscall.SIGTERM)
	s := <-sigc
	obs.Logger.Info("shutdown_signal", "signal", s.String())

	app.StartShutdown()
	ctxDrain, cancelDrain := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancelDrain()
	if drained := ctrl.DrainUntil(ctxDrain); !drained {
		obs.Logger.Warn("shutdown_drain_timeout")
	} else {
		obs.Logger.Info("shutdown_drain_complete")
	}

	ctxSrv, cancelSrv := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancelSrv()
	if err := srv.Shutdown(ctxSrv); err != nil {
		obs.Logger.Error("http_shutdown_error", "error", err)
	}
	ctrl.Stop()
	obs.Logger.Info("service_stopped")
}
