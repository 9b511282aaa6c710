package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"vitrine/internal/config"
	httpapi "vitrine/internal/http"
	"vitrine/internal/repository"
	"vitrine/internal/service"

	_ "vitrine/docs"
)

// @title Vitrine API
// @version 1.0
// @description Bio-link storefront catalog with a WhatsApp checkout hand-off.
// @BasePath /api
// @securityDefinitions.apikey AdminToken
// @in header
// @name Authorization
func main() {
	cfg := config.Load()

	if err := os.MkdirAll(cfg.UploadsDir, 0o755); err != nil {
		slog.Error("cannot create uploads dir", "dir", cfg.UploadsDir, "err", err)
		os.Exit(1)
	}
	store, err := repository.NewFileStore(cfg.DataFile)
	if err != nil {
		slog.Error("cannot open catalog store", "file", cfg.DataFile, "err", err)
		os.Exit(1)
	}

	catalogSvc := service.NewCatalogService(store)
	orderSvc := service.NewOrderService(cfg.Business)

	srv := httpapi.NewServer(cfg, catalogSvc, orderSvc)

	httpServer := &http.Server{
		Addr:    cfg.Addr,
		Handler: srv.Engine(),
	}

	go func() {
		slog.Info("HTTP server listening", "addr", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := httpServer.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "err", err)
	}
}
