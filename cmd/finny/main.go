package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"finny/internal/amqp"
	"finny/internal/cache"
	"finny/internal/cli"
	apphttp "finny/internal/http"
	"finny/internal/log"
	"finny/internal/middleware/ratelimit"
	"finny/internal/middleware/security"
	"finny/internal/services"
)

const (
	shutdownTimeout = 30 * time.Second
	sweepInterval   = time.Minute
)

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger(log.ComponentApp)
	logger.Info("Starting finny", log.FieldOperation, log.OpStartup)

	cfg := cli.LoadAndValidateConfig(logger)

	repo := cli.InitSQLite(logger, cfg.SQLiteDBPath)
	defer repo.Close()

	// Notifications are best effort; the API runs without a broker.
	var notifier services.Notifier
	if cfg.NotificationsEnabled() {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger)
		if err != nil {
			logger.Warn("Failed to initialize AMQP client, budget alerts disabled", log.FieldError, err)
		} else {
			defer client.Close()
			notifier = client
			logger.Info("AMQP client initialized", "exchange", cfg.AMQPExchange)
		}
	} else {
		logger.Info("AMQP disabled, budget alerts will not be published")
	}

	finance := services.NewFinance(repo, notifier, logger)
	sessions := services.NewSessionRegistry(cfg.SessionCacheSize, cfg.SessionTTL)

	caches := cache.NewManager(logger)
	caches.Register(sessions.Cleaner())

	resolver := security.NewClientResolver()
	for _, cidr := range cfg.TrustedProxies {
		if err := resolver.AddTrustedProxy(cidr); err != nil {
			logger.Error("Invalid trusted proxy", log.FieldError, err, "cidr", cidr)
			os.Exit(1)
		}
	}

	limiter := ratelimit.NewLimiter(ratelimit.Config{RequestsPerMinute: cfg.LoginRatePerMinute})

	srv := apphttp.NewServer(":"+cfg.Port, apphttp.Deps{
		Finance:        finance,
		Sessions:       sessions,
		Health:         repo,
		LoginLimiter:   limiter,
		ClientIP:       resolver.ClientIP,
		Logger:         logger,
		AllowedOrigins: cfg.CORSAllowedOrigins,
	})

	ctx, stop := cli.SignalContext(logger)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("HTTP server listening", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	g.Go(func() error { return caches.Run(gctx, sweepInterval) })
	g.Go(func() error { return limiter.Run(gctx) })

	if err := g.Wait(); err != nil {
		logger.Error("Server stopped with error", log.FieldError, err)
		os.Exit(1)
	}
	logger.Info("Server stopped gracefully", log.FieldOperation, log.OpShutdown)
}
