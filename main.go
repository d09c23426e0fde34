package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Uditkumarpal/messy-meal-manager/internal/config"
	"github.com/Uditkumarpal/messy-meal-manager/internal/database"
	"github.com/Uditkumarpal/messy-meal-manager/internal/repository"
	"github.com/Uditkumarpal/messy-meal-manager/internal/server"
	"github.com/Uditkumarpal/messy-meal-manager/internal/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("loading config", "error", err)
		os.Exit(1)
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	db, err := database.Open(cfg.DatabasePath)
	if err != nil {
		slog.Error("opening database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		slog.Error("running migrations", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	userRepo := repository.NewUserRepository(db)
	adminKeyRepo := repository.NewAdminKeyRepository(db)
	authService := services.NewAuthService(cfg, userRepo, adminKeyRepo)

	if cfg.SeedDefaults {
		if err := services.SeedDefaults(ctx, db, authService); err != nil {
			slog.Error("seeding defaults", "error", err)
			os.Exit(1)
		}
	}

	if cfg.BillingAutoGenerate {
		go runBillScheduler(ctx, services.NewBillingService(db), cfg.BillingInterval)
	}

	srv := server.New(db, cfg, authService, services.NewRealtimeHub())
	if err := srv.Start(ctx); err != nil {
		slog.Error("server error", "error", err)
		os.Exit(1)
	}
}

func runBillScheduler(ctx context.Context, billingService *services.BillingService, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		created, err := billingService.GeneratePreviousMonth(ctx)
		if err != nil {
			slog.Error("generating monthly bills", "error", err)
		} else if created > 0 {
			slog.Info("generated monthly bills", "count", created)
		}

		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
