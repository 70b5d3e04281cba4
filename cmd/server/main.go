package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"
	"golang.org/x/time/rate"

	"github.com/mmynk/latepizza/internal/auth"
	"github.com/mmynk/latepizza/internal/config"
	"github.com/mmynk/latepizza/internal/ledger"
	"github.com/mmynk/latepizza/internal/metrics"
	"github.com/mmynk/latepizza/internal/middleware"
	"github.com/mmynk/latepizza/internal/service"
	"github.com/mmynk/latepizza/internal/storage"
	"github.com/mmynk/latepizza/internal/storage/memory"
	"github.com/mmynk/latepizza/internal/storage/sqlite"
	"github.com/mmynk/latepizza/pkg/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config) error {
	store, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer store.Close()

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	collector := metrics.NewCollector(reg)

	limiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		Rate:            rate.Limit(cfg.RateLimit),
		Burst:           cfg.RateBurst,
		CleanupInterval: 5 * time.Minute,
	})
	defer limiter.Stop()

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL).WithVerificationDuration(cfg.VerifyTokenTTL)
	logger := slog.Default()
	// TODO: swap LogSender for an SMTP sender once outbound mail is configured.
	sender := auth.LogSender{Logger: logger}

	router := service.NewRouter(service.RouterDeps{
		Ledger:      service.NewLedgerService(ledger.New(store, ledger.WithMetrics(collector), ledger.WithLogger(logger))),
		Auth:        service.NewAuthService(auth.NewPasswordAuthenticator(store), jwtManager, sender, logger),
		JWTManager:  jwtManager,
		RateLimiter: limiter,
		Metrics:     collector,
		Gatherer:    reg,
		CORSOrigins: cfg.CORSOrigins,
	})

	// h2c for HTTP/2 without TLS, needed by Connect streaming clients
	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("Connect server starting", "address", cfg.Addr, "store", cfg.Store)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	slog.Info("Shutting down", "timeout", cfg.ShutdownTimeout)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}

func openStore(cfg config.Config) (storage.Store, error) {
	if cfg.Store == config.StoreMemory {
		slog.Warn("Using in-memory storage; data is lost on exit")
		return memory.New(), nil
	}

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return nil, fmt.Errorf("initialize storage: %w", err)
	}
	slog.Info("Storage initialized", "database", cfg.DBPath)
	return store, nil
}
