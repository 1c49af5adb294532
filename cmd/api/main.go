package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/leadhook/leadhook/internal/api/router"
	"github.com/leadhook/leadhook/internal/channels/meta"
	appconfig "github.com/leadhook/leadhook/internal/config"
	"github.com/leadhook/leadhook/internal/dedupe"
	"github.com/leadhook/leadhook/internal/leads"
	"github.com/leadhook/leadhook/internal/notify"
	"github.com/leadhook/leadhook/internal/observability/metrics"
	"github.com/leadhook/leadhook/internal/pages"
	"github.com/leadhook/leadhook/pkg/logging"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel)
	logger.Info("starting leadhook API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	ctx := context.Background()

	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Error("failed to create database pool", "error", err)
		os.Exit(1)
	}
	defer pool.Close()
	if err := pool.Ping(ctx); err != nil {
		logger.Error("database not reachable", "error", err)
		os.Exit(1)
	}

	// Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	webhookMetrics := metrics.NewWebhookMetrics(registry)

	// Repositories
	leadsRepo := leads.NewPostgresRepository(pool)
	pagesRepo := pages.NewPostgresRepository(pool)

	// Optional lead notification email
	var notifier leads.Notifier
	if cfg.LeadNotifyEnabled {
		sender := notify.NewSendGridSender(notify.SendGridConfig{
			APIKey:    cfg.SendGridAPIKey,
			FromEmail: cfg.SendGridFromEmail,
			FromName:  cfg.SendGridFromName,
		}, logger)
		if leadNotifier := notify.NewLeadNotifier(sender, pagesRepo, logger); leadNotifier != nil {
			notifier = leadNotifier
			logger.Info("lead notifications enabled", "from", cfg.SendGridFromEmail)
		} else {
			logger.Warn("lead notifications enabled but sendgrid not configured")
		}
	}

	leadsService := leads.NewService(leadsRepo, notifier, webhookMetrics, logger)

	// Optional redelivery cache
	var deduper meta.Deduper
	if redisClient := buildRedisClient(ctx, cfg, logger); redisClient != nil {
		deduper = dedupe.NewCache(redisClient, cfg.WebhookDedupeTTL, logger)
		defer redisClient.Close()
	}

	// Graph API client and webhook pipeline
	graphClient := meta.NewClient(logger)
	if cfg.MetaGraphAPIBase != "" {
		graphClient.SetGraphAPIBase(cfg.MetaGraphAPIBase)
	}
	processor := meta.NewProcessor(meta.ProcessorConfig{
		Resolver:     pagesRepo,
		Capturer:     leadsService,
		Graph:        graphClient,
		Dedupe:       deduper,
		Metrics:      webhookMetrics,
		Logger:       logger,
		FetchTimeout: cfg.MetaFetchTimeout,
	})
	webhookHandler := meta.NewWebhookHandler(cfg.MetaVerifyToken, cfg.MetaAppSecret, processor, logger)

	// Handlers
	leadsHandler := leads.NewHandler(leadsService, logger)
	pagesHandler := pages.NewHandler(pagesRepo, graphClient, cfg.PageTokenTTL, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		MetaWebhook:        webhookHandler,
		LeadsHandler:       leadsHandler,
		PagesHandler:       pagesHandler,
		MetricsHandler:     promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		AuthJWTSecret:      cfg.AuthJWTSecret,
		CORSAllowedOrigins: splitOrigins(cfg.CORSAllowedOrigins),
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

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server forced to shutdown", "error", err)
		os.Exit(1)
	}

	logger.Info("server stopped")
}

// buildRedisClient returns a verified Redis client or nil when disabled or
// unreachable. The dedupe cache is an optimization, so a missing Redis never
// blocks startup.
func buildRedisClient(ctx context.Context, cfg *appconfig.Config, logger *logging.Logger) *redis.Client {
	if strings.TrimSpace(cfg.RedisAddr) == "" {
		return nil
	}
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		logger.Warn("redis not available, webhook dedupe cache disabled", "error", err)
		_ = client.Close()
		return nil
	}
	return client
}

func splitOrigins(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			origins = append(origins, trimmed)
		}
	}
	return origins
}
