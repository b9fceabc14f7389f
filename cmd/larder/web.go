package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"larder/internal/cache"
	"larder/internal/config"
	"larder/internal/grocery"
	"larder/internal/history"
	"larder/internal/pantry"
	"larder/internal/recipes"
	"larder/internal/users"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func runServer(cfg *config.Config) error {
	store, err := cache.MakeCache()
	if err != nil {
		return fmt.Errorf("failed to create cache: %w", err)
	}

	mux := http.NewServeMux()

	userStorage := users.NewStorage(store)
	userHandler := users.NewHandler(userStorage)
	userHandler.Register(mux)

	hist := history.NewStore(cfg.History.StoragePath, cfg.History.RetentionDays)

	pantryStorage := pantry.NewStorage(store)
	pantryHandler := pantry.NewHandler(pantryStorage, userStorage, hist)
	pantryHandler.Register(mux)

	recipeStorage := recipes.NewStorage(store)
	recipeHandler := recipes.NewHandler(recipeStorage, pantryStorage, userStorage)
	recipeHandler.Register(mux)

	groceryStorage := grocery.NewStorage(store)
	reconciler := grocery.NewReconciler(groceryStorage)
	groceryHandler := grocery.NewHandler(groceryStorage, reconciler, userStorage)
	groceryHandler.Register(mux)

	ro := &readyOnce{}
	ro.Add(func(ctx context.Context) error {
		_, err := store.Exists(ctx, "ready-probe")
		return err
	})
	mux.Handle("/ready", ro)
	mux.Handle("/metrics", promhttp.Handler())

	server := &http.Server{
		Addr:    cfg.Addr,
		Handler: WithMiddleware(mux),
	}

	serverErrors := make(chan error, 1)
	go func() {
		slog.Info("Serving Larder", "address", cfg.Addr)
		serverErrors <- server.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case sig := <-shutdown:
		slog.Info("Shutdown signal received", "signal", sig)
		return gracefulShutdown(server)
	}
}

func gracefulShutdown(svr *http.Server) error {
	// Give outstanding requests 25 seconds to complete (kubernetes has 30 second grace period)
	ctx, cancel := context.WithTimeout(context.Background(), 25*time.Second)
	defer cancel()

	if err := svr.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown error", "error", err)
		if closeErr := svr.Close(); closeErr != nil {
			slog.Error("Server close error", "error", closeErr)
		}
		return err
	}
	return nil
}
