package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/agrolocal/farmstand/internal/checkout"
	"github.com/agrolocal/farmstand/internal/config"
	"github.com/agrolocal/farmstand/internal/events"
	"github.com/agrolocal/farmstand/internal/httpserver"
	"github.com/agrolocal/farmstand/internal/logging"
	"github.com/agrolocal/farmstand/internal/snapshot"
	"github.com/agrolocal/farmstand/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	snap, err := snapshot.Open(cfg.SnapshotPath)
	if err != nil {
		log.Fatalf("snapshot store init error: %v", err)
	}

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	catalog, err := store.NewCatalog(initCtx, snap, logger)
	if err != nil {
		cancel()
		log.Fatalf("catalog init error: %v", err)
	}
	cart, err := store.NewCart(initCtx, catalog, snap, logger)
	if err != nil {
		cancel()
		log.Fatalf("cart init error: %v", err)
	}
	sessions, err := store.NewSession(initCtx, snap, logger)
	if err != nil {
		cancel()
		log.Fatalf("session init error: %v", err)
	}
	cancel()

	producer := events.NewProducer(cfg.KafkaBrokers, logger)

	checkoutSvc := &checkout.Service{
		Cart:     cart,
		Session:  sessions,
		Producer: producer,
		Delay:    cfg.CheckoutDelay,
	}

	jwtSecret := []byte(cfg.JWTSecret)

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(httpserver.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		SessionHandler:  &httpserver.SessionHandler{Sessions: sessions, Producer: producer, Secret: jwtSecret},
		ProductHandler:  &httpserver.ProductHandler{Catalog: catalog, Producer: producer},
		CartHandler:     &httpserver.CartHandler{Cart: cart, Producer: producer},
		CheckoutHandler: &httpserver.CheckoutHandler{Svc: checkoutSvc},
		Dashboard:       &httpserver.DashboardHandler{Catalog: catalog},
		Auth:            &httpserver.AuthMiddleware{Secret: jwtSecret},
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("starting server", "addr", srv.Addr, "snapshot", cfg.SnapshotPath)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Printf("http server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("server shutdown error: %v", err)
	}
	if err := snap.Close(); err != nil {
		log.Printf("snapshot store close error: %v", err)
	}
	if err := producer.Close(); err != nil {
		log.Printf("kafka close error: %v", err)
	}

	logger.Info("shutdown complete")
}
