package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/robfig/cron/v3"

	"scanner-backend/internal/config"
	httpdelivery "scanner-backend/internal/delivery/http"
	"scanner-backend/internal/domain"
	"scanner-backend/internal/infrastructure/db"
	"scanner-backend/internal/infrastructure/fcm"
	"scanner-backend/internal/infrastructure/yahoo"
	"scanner-backend/internal/logger"
	"scanner-backend/internal/repository"
	"scanner-backend/internal/usecase"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.yaml"
	}
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "invalid config: %v\n", err)
		os.Exit(1)
	}

	if err := logger.Init(cfg.Development); err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	logger.SetServiceName("scanner")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Symbol universe source: Postgres when a DSN is configured, otherwise
	// a JSON file (or the embedded default list).
	var source domain.SymbolSource
	if cfg.Database.DSN != "" {
		pool, err := db.NewPool(ctx, cfg.Database.DSN, db.PoolConfigFromEnv())
		if err != nil {
			logger.Fatal("connect database: %v", err)
		}
		defer pool.Close()
		if err := db.Migrate(ctx, pool); err != nil {
			logger.Fatal("migrate database: %v", err)
		}
		source = repository.NewPostgresSymbolRepository(pool)
		logger.Info("symbol universe source: postgres")
	} else {
		source = repository.NewFileSymbolRepository(cfg.Symbols.File)
		logger.Info("symbol universe source: file (%s)", cfg.Symbols.File)
	}

	cache := repository.NewSymbolCache(source, cfg.Symbols.CacheTTL)
	provider := yahoo.NewClient(".NS")
	scanner := usecase.NewScanner(cache, provider, cfg.Scanner.Workers, cfg.Scanner.ScanTimeout, cfg.Scanner.LookbackDays)

	tokens := repository.NewTokenRepository()
	fcmClient, err := fcm.NewClient(ctx, cfg.Alerts.FirebaseCreds)
	if err != nil {
		logger.Warn("firebase init failed, alerts disabled: %v", err)
		fcmClient = fcm.Disabled()
	}

	scheduler := cron.New()
	if cfg.Alerts.Enabled && fcmClient.IsEnabled() {
		alerter := usecase.NewAlerter(scanner, fcmClient, tokens, cfg.Alerts.MinScore,
			time.Duration(cfg.Alerts.CooldownMinutes)*time.Minute)
		if _, err := scheduler.AddFunc(cfg.Alerts.ScanCron, func() { alerter.RunScan(ctx) }); err != nil {
			logger.Fatal("schedule alert scan: %v", err)
		}
		logger.Info("alert scan scheduled: %s", cfg.Alerts.ScanCron)
	}
	if _, err := scheduler.AddFunc(cfg.Alerts.RefreshCron, func() {
		if n, err := cache.ForceRefresh(ctx); err != nil {
			logger.Warn("scheduled universe refresh failed: %v", err)
		} else {
			logger.Info("universe refreshed: %d symbols", n)
		}
	}); err != nil {
		logger.Fatal("schedule universe refresh: %v", err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	scanHandler := httpdelivery.NewScanHandler(scanner, cache, cfg.Server.Version)
	tokenHandler := httpdelivery.NewTokenHandler(tokens)

	mux := http.NewServeMux()
	mux.HandleFunc("/api/health", scanHandler.HandleHealth)
	mux.HandleFunc("/api/symbols", scanHandler.HandleSymbols)
	mux.HandleFunc("/api/scan", scanHandler.HandleScan)
	mux.HandleFunc("/api/refresh-symbols", scanHandler.HandleRefreshSymbols)
	mux.HandleFunc("/api/tokens/register", tokenHandler.HandleRegister)
	mux.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregister)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("server listening on :%d", cfg.Server.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("shutdown: %v", err)
	}
}
