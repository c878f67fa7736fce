// Package app wires the storefront together and owns its lifecycle.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dukahub/storefront/internal/auth"
	"github.com/dukahub/storefront/internal/backend"
	"github.com/dukahub/storefront/internal/cart"
	"github.com/dukahub/storefront/internal/catalog"
	"github.com/dukahub/storefront/internal/checkout"
	"github.com/dukahub/storefront/internal/config"
	"github.com/dukahub/storefront/internal/event"
	handler "github.com/dukahub/storefront/internal/handler/http"
	"github.com/dukahub/storefront/internal/session"
	"github.com/dukahub/storefront/pkg/database"
	"github.com/dukahub/storefront/pkg/health"
	"github.com/dukahub/storefront/pkg/httpclient"
	"github.com/dukahub/storefront/pkg/kafka"
	"github.com/dukahub/storefront/pkg/logger"
	"github.com/dukahub/storefront/pkg/tracing"
)

// App is the assembled storefront service.
type App struct {
	cfg    *config.Config
	logger *slog.Logger

	server         *http.Server
	redis          *redis.Client
	producer       *kafka.Producer
	tracerShutdown func(context.Context) error
}

// NewApp builds the service from configuration.
func NewApp(cfg *config.Config) (*App, error) {
	l := logger.New(cfg.ServiceName, cfg.LogLevel)

	tcfg := tracing.DefaultConfig(cfg.ServiceName)
	tcfg.OTLPEndpoint = cfg.TracingEndpoint
	tcfg.Environment = cfg.Environment
	tcfg.Enabled = cfg.TracingEnabled

	tracerShutdown, err := tracing.InitTracer(context.Background(), tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}

	rdb, err := database.NewRedisClient(context.Background(), database.RedisConfig{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})
	if err != nil {
		return nil, err
	}

	var producer *kafka.Producer
	var events *event.Publisher
	if cfg.KafkaEnabled {
		producer = kafka.NewProducer(kafka.DefaultProducerConfig(cfg.KafkaBrokers), l)
		events = event.NewPublisher(producer, l)
	}

	clientCfg := httpclient.DefaultConfig()
	clientCfg.Timeout = cfg.BackendTimeout
	// The mirror chain owns failover; per-attempt retries would stack delays.
	clientCfg.MaxRetries = 0

	chain, err := backend.NewMirrorChain(cfg.BackendURLs, httpclient.New(clientCfg), cfg.MirrorDelay, l)
	if err != nil {
		return nil, err
	}
	breaker := httpclient.NewCircuitBreakerClient(chain,
		httpclient.DefaultCircuitBreakerConfig("tenant-backend"), l)
	tenantClient := backend.NewClient(breaker, cfg.Tenant)

	store := session.NewStore(rdb, cfg.SessionTTL)
	tokens := auth.NewTokenManager(cfg.SessionSecret, cfg.SessionTTL)

	authSvc := auth.NewService(tenantClient, store, l)
	cartSvc := cart.NewService(store, tenantClient, events, l)
	catalogSvc := catalog.NewService(tenantClient, rdb, l)
	policies := catalog.NewPolicies(tenantClient, rdb, l)
	info := checkout.NewCachedInfo(tenantClient, rdb, l)
	checkoutSvc := checkout.NewService(store, tenantClient, info, events, l)

	healthHandler := health.NewHandler()
	healthHandler.Register("redis", func(ctx context.Context) error {
		return rdb.Ping(ctx).Err()
	})
	if producer != nil {
		healthHandler.Register("kafka", producer.Ping)
	}

	router := handler.NewRouter(handler.RouterConfig{
		ServiceName:       cfg.ServiceName,
		PprofEnabled:      cfg.PprofEnabled,
		PprofCIDRs:        cfg.PprofCIDRs,
		PolicyCacheMaxAge: cfg.PolicyCacheMaxAge,
	}, handler.Handlers{
		Products: handler.NewProductHandler(catalogSvc, l),
		Cart:     handler.NewCartHandler(cartSvc, l),
		Checkout: handler.NewCheckoutHandler(checkoutSvc, l),
		Auth:     handler.NewAuthHandler(authSvc, l),
		Orders:   handler.NewOrderHandler(tenantClient, policies, authSvc, l),
		Session:  handler.NewSessionMiddleware(tokens, l),
		Health:   healthHandler,
	}, l)

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	return &App{
		cfg:            cfg,
		logger:         l,
		server:         server,
		redis:          rdb,
		producer:       producer,
		tracerShutdown: tracerShutdown,
	}, nil
}

// Run starts the HTTP server and blocks until it stops.
func (a *App) Run() error {
	a.logger.Info("storefront listening",
		slog.Int("port", a.cfg.Port),
		slog.String("tenant", a.cfg.Tenant),
		slog.String("environment", a.cfg.Environment),
	)

	if err := a.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and closes shared resources.
func (a *App) Shutdown(ctx context.Context) error {
	a.logger.Info("shutting down")

	if err := a.server.Shutdown(ctx); err != nil {
		a.logger.Error("server shutdown failed", slog.String("error", err.Error()))
	}
	if a.producer != nil {
		if err := a.producer.Close(); err != nil {
			a.logger.Error("kafka producer close failed", slog.String("error", err.Error()))
		}
	}
	if a.tracerShutdown != nil {
		if err := a.tracerShutdown(ctx); err != nil {
			a.logger.Error("tracer shutdown failed", slog.String("error", err.Error()))
		}
	}
	return a.redis.Close()
}
