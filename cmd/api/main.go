package main

import (
	"context"
	"crypto/tls"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	"github.com/medicare-clinic/scheduling-platform/internal/api/router"
	"github.com/medicare-clinic/scheduling-platform/internal/appointments"
	"github.com/medicare-clinic/scheduling-platform/internal/availability"
	"github.com/medicare-clinic/scheduling-platform/internal/booking"
	appconfig "github.com/medicare-clinic/scheduling-platform/internal/config"
	"github.com/medicare-clinic/scheduling-platform/internal/notify"
	"github.com/medicare-clinic/scheduling-platform/internal/observability/metrics"
	"github.com/medicare-clinic/scheduling-platform/internal/patients"
	"github.com/medicare-clinic/scheduling-platform/internal/storage/postgres"
	"github.com/medicare-clinic/scheduling-platform/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting scheduling-platform API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"backend", cfg.StorageBackend,
	)

	var (
		directory patients.Directory
		inventory availability.Inventory
		ledger    appointments.Ledger
		opts      []booking.Option
	)

	switch cfg.StorageBackend {
	case appconfig.BackendPostgres:
		pool, err := postgres.NewPool(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("failed to connect to postgres", "error", err)
			os.Exit(1)
		}
		defer pool.Close()

		directory = patients.NewPostgresDirectory(pool)
		inventory = availability.NewPostgresInventory(pool)
		ledger = appointments.NewPostgresLedger(pool)
		opts = append(opts, booking.WithAtomicBooker(postgres.NewTxBooker(pool)))
	case appconfig.BackendCSV:
		directory = patients.NewCSVDirectory(filepath.Join(cfg.DataDir, "patients.csv"))
		inventory = availability.NewCSVInventory(filepath.Join(cfg.DataDir, "availability.csv"))
		ledger = appointments.NewCSVLedger(filepath.Join(cfg.DataDir, "appointments.csv"))
	default:
		logger.Error("unknown storage backend", "backend", cfg.StorageBackend)
		os.Exit(1)
	}

	if cfg.RedisAddr != "" {
		redisOpts := &redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		}
		if cfg.RedisTLS {
			redisOpts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
		}
		client := redis.NewClient(redisOpts)
		if err := client.Ping(context.Background()).Err(); err != nil {
			logger.Error("failed to connect to redis", "error", err)
			os.Exit(1)
		}
		opts = append(opts, booking.WithLocker(booking.NewRedisLocker(client, cfg.BookingLockTTL)))
		logger.Info("distributed booking locks enabled", "addr", cfg.RedisAddr)
	}

	opts = append(opts, booking.WithMetrics(metrics.NewBookingMetrics(nil)))

	bookingSvc := booking.NewService(inventory, ledger, logger, opts...)

	var sender notify.EmailSender
	if sg := notify.NewSendGridSender(notify.SendGridConfig{
		APIKey:    cfg.SendGridAPIKey,
		FromEmail: cfg.SendGridFromEmail,
		FromName:  cfg.SendGridFromName,
	}, logger); sg != nil {
		sender = sg
	} else {
		logger.Info("sendgrid not configured, email sends are simulated")
	}
	notifier := notify.NewService(sender, logger)

	r := router.New(router.Deps{
		Directory:      directory,
		Inventory:      inventory,
		Ledger:         ledger,
		Booking:        bookingSvc,
		Notifier:       notifier,
		DefaultDoctors: cfg.DefaultDoctors,
		AdminJWTSecret: cfg.AdminJWTSecret,
		Logger:         logger,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}
