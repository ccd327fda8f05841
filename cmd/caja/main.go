package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"caja/internal/amqp"
	"caja/internal/config"
	"caja/internal/docgen"
	apphttp "caja/internal/http"
	"caja/internal/services"
	"caja/internal/storage"
)

func main() {
	// Load .env for local development; in containers the environment
	// is already set.
	_ = godotenv.Load()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", "error", err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	// The export queue is optional; without it movements stay flagged
	// pending and the worker's periodic sweep picks them up.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", "error", err)
			os.Exit(1)
		}
		defer amqpClient.Close()
		logger.Info("AMQP export queue connected", "exchange", cfg.AMQPExchange, "queue", cfg.AMQPQueue)
	} else {
		logger.Info("AMQP disabled - movements rely on the periodic export sweep")
	}

	docs, err := docgen.NewRenderer(cfg.DocsDir)
	if err != nil {
		logger.Error("Failed to initialize receipt renderer", "error", err)
		os.Exit(1)
	}

	reports := services.NewReportService(repo, cfg.UTCOffset)
	srv := apphttp.NewServer(cfg, repo, apphttp.Services{
		Users:     services.NewUserService(repo),
		Company:   services.NewCompanyService(repo, cfg.UploadDir),
		Invoices:  services.NewInvoiceService(repo, amqpClient),
		Expenses:  services.NewExpenseService(repo, amqpClient, cfg.UTCOffset),
		Movements: services.NewMovementService(repo, amqpClient, cfg.UTCOffset),
		Products:  services.NewProductService(repo),
		Reports:   reports,
		Closes:    services.NewCloseService(repo, reports),
		Docs:      docs,
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigChan
		logger.Info("Shutdown signal received", "signal", sig.String())

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown error", "error", err)
		}
		cancel()
	}()

	logger.Info("Starting caja server", "port", cfg.Port)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("Server error", "error", err, "port", cfg.Port)
		os.Exit(1)
	}

	<-ctx.Done()
	logger.Info("Server stopped gracefully")
}
