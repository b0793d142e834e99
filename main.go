package main

import (
	"context"
	"crypto/tls"
	"errors"
	stdlog "log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/username/networth/backend/src/config"
	"github.com/username/networth/backend/src/database"
	"github.com/username/networth/backend/src/handlers"
	"github.com/username/networth/backend/src/logger"
	"github.com/username/networth/backend/src/security/validation"
	"github.com/username/networth/backend/src/services"
)

func proxyHeadersMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Forwarded-Proto") == "https" {
			r.URL.Scheme = "https"
			r.TLS = &tls.ConnectionState{}
		}
		next.ServeHTTP(w, r)
	})
}

func main() {
	config.LoadConfig()
	logger.InitLogger(config.Cfg.LogLevel)

	logger.L.Info("Net worth backend server starting...")

	if err := validation.ValidateCurrencyCode(config.Cfg.DefaultCurrency); err != nil {
		logger.L.Error("DEFAULT_CURRENCY configuration invalid.", "error", err)
		os.Exit(1)
	}

	logger.L.Info("Initializing database...", "path", config.Cfg.DatabasePath)
	database.InitDB(config.Cfg.DatabasePath)
	database.RunMigrations()

	db := database.DB
	router := handlers.NewRouter(config.Cfg, handlers.Services{
		Users:        services.NewUserService(db),
		Accounts:     services.NewAccountService(db),
		Transactions: services.NewTransactionService(db),
		Holdings:     services.NewHoldingsService(db),
		Reports:      services.NewReportService(db),
		Properties:   services.NewPropertyService(db),
		Valuations: services.NewValuationJob(db, services.DefaultValuationProviders(),
			config.Cfg.ValuationDelay, config.Cfg.ValuationCacheTTL, config.Cfg.DefaultCurrency),
	})

	serverAddr := ":" + config.Cfg.Port
	server := &http.Server{
		Addr:         serverAddr,
		Handler:      proxyHeadersMiddleware(router),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.L.Info("Server starting", "address", serverAddr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			stdlog.Fatalf("Failed to start server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	logger.L.Info("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		logger.L.Error("Graceful shutdown failed", "error", err)
	}
	if err := db.Close(); err != nil {
		logger.L.Error("Failed to close database", "error", err)
	}
}
