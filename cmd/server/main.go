package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v3"

	"github.com/HavanaWeb3/HVNA-sub002/internal/config"
	"github.com/HavanaWeb3/HVNA-sub002/internal/db"
	"github.com/HavanaWeb3/HVNA-sub002/internal/handler"
	"github.com/HavanaWeb3/HVNA-sub002/internal/middleware"
	"github.com/HavanaWeb3/HVNA-sub002/internal/repository"
	"github.com/HavanaWeb3/HVNA-sub002/internal/router"
	"github.com/HavanaWeb3/HVNA-sub002/internal/service"
)

const maintenanceInterval = time.Hour

func main() {
	cfg := config.Load()
	middleware.InitLogger(cfg.LogLevel, "hvna-policy")

	ctx := context.Background()
	pool, err := db.NewPool(ctx, cfg.DatabaseURL, db.Options{
		MaxConns:       int32(cfg.DBMaxConns),
		MinConns:       int32(cfg.DBMinConns),
		ConnectRetries: cfg.DBConnectRetries,
	})
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer pool.Close()

	handler.InitMetrics(pool)

	cache := service.NewCacheService(cfg.RedisURL)

	// Repositories
	engagements := repository.NewEngagementRepo(pool)
	accounts := repository.NewAccountRepo(pool)
	posts := repository.NewPostRepo(pool)
	flags := repository.NewFlagRepo(pool)
	warnings := repository.NewWarningRepo(pool)
	earnings := repository.NewEarningRepo(pool)

	// Mode and policy services
	mode := service.StaticMode(service.ParseMode(cfg.PlatformMode))
	modes := service.NewModeConfig(mode, service.Overrides{
		Velocity:  cfg.VelocityThreshold,
		Diversity: cfg.DiversityThreshold,
		PerPost:   cfg.PerPostCapDollars,
		Daily:     cfg.DailyCapDollars,
	})

	warningSvc := service.NewWarningService(warnings, accounts, earnings, &service.LogNotifier{}, cache)
	velocitySvc := service.NewVelocityService(modes, engagements, posts, flags, earnings, warningSvc, cache)
	diversitySvc := service.NewDiversityService(modes, engagements, posts, flags, warningSvc, cache)
	earningsSvc := service.NewEarningsService(modes, posts, accounts, earnings, diversitySvc, warningSvc)
	detector := service.NewBotDetector()

	worker := service.NewMaintenanceWorker(warningSvc, diversitySvc, maintenanceInterval)
	workerCtx, stopWorker := context.WithCancel(ctx)
	go worker.Start(workerCtx)

	app := fiber.New(fiber.Config{
		AppName:      "HVNA Policy Engine",
		ServerHeader: "HVNA",
	})

	h := &router.Handlers{
		Engagement: handler.NewEngagementHandler(velocitySvc),
		Diversity:  handler.NewDiversityHandler(diversitySvc),
		Earnings:   handler.NewEarningsHandler(earningsSvc),
		Warnings:   handler.NewWarningHandler(warningSvc),
		Moderation: handler.NewModerationHandler(accounts, detector),
		Health:     handler.NewHealthHandler(pool, cache.Client(), mode),
	}
	router.Setup(app, h, cfg.CORSOrigins)

	// Graceful shutdown on SIGINT/SIGTERM
	go func() {
		sig := make(chan os.Signal, 1)
		signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
		<-sig

		log.Println("shutting down")
		stopWorker()
		worker.Stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := app.ShutdownWithContext(shutdownCtx); err != nil {
			log.Printf("server shutdown error: %v", err)
		}
	}()

	log.Printf("HVNA policy engine starting on :%s (mode=%s env=%s)", cfg.Port, mode.CurrentMode(), cfg.Environment)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %v", err)
	}
}
