package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/redis/go-redis/v9"

	"github.com/nkapur/storefront/internal/config"
	"github.com/nkapur/storefront/internal/httpapi"
	"github.com/nkapur/storefront/internal/platform/mongodb"
	"github.com/nkapur/storefront/pkg/idempotency"
	"github.com/nkapur/storefront/pkg/logging"
	"github.com/nkapur/storefront/pkg/shutdown"
	"github.com/nkapur/storefront/pkg/tracing"

	catalogapp "github.com/nkapur/storefront/internal/catalog/application"
	cataloghttp "github.com/nkapur/storefront/internal/catalog/infrastructure/http"
	catalogmongo "github.com/nkapur/storefront/internal/catalog/infrastructure/mongodb"
	orderapp "github.com/nkapur/storefront/internal/order/application"
	orderhttp "github.com/nkapur/storefront/internal/order/infrastructure/http"
	orderkafka "github.com/nkapur/storefront/internal/order/infrastructure/kafka"
	ordermongo "github.com/nkapur/storefront/internal/order/infrastructure/mongodb"
)

func main() {
	log := logging.New("storefront")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		log.Error("config load failed", "err", err)
		os.Exit(1)
	}

	tp, err := tracing.Init(ctx, "storefront", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// Mongo setup with bounded startup retry
	client, err := mongodb.Connect(ctx, log, cfg.MongoURI, cfg.ConnectRetries, cfg.ConnectBackoff)
	if err != nil {
		log.Error("mongo connect failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()
	db := client.Database(cfg.MongoDB)

	// Repositories: the catalog repository doubles as the order service's
	// stock adjuster.
	catalogRepo := catalogmongo.NewRepository(log, db)
	orderRepo := ordermongo.NewRepository(log, db)

	// Order events (optional)
	var publisher orderapp.EventPublisher
	if cfg.KafkaAddr != "" {
		producer := orderkafka.NewProducer(log, []string{cfg.KafkaAddr}, cfg.OrderTopic)
		defer producer.Close()
		publisher = producer
		log.Info("order event publishing enabled", "topic", cfg.OrderTopic)
	}

	catalogSvc := catalogapp.NewService(catalogRepo, cfg.MaxPageSize)
	orderSvc := orderapp.NewService(log, orderRepo, catalogRepo, publisher, cfg.MaxPageSize)

	catalogHandler := cataloghttp.NewHandler(log, catalogSvc)
	orderHandler := orderhttp.NewHandler(log, orderSvc)

	// Idempotency (optional)
	var idemStore *idempotency.Store
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		idemStore = idempotency.NewStore(rdb, cfg.IdempotencyTTL)
		log.Info("idempotency checks enabled", "addr", cfg.RedisAddr)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(httpapi.RequestLogger(log))
	r.Use(httpapi.CORS)

	r.Get("/healthz", httpapi.Health(log, func(ctx context.Context) error {
		return mongodb.Ping(ctx, client)
	}))
	r.Mount("/products", catalogHandler.Routes())
	r.Route("/orders", func(r chi.Router) {
		if idemStore != nil {
			r.Use(idempotency.Middleware(idemStore, log))
		}
		r.Mount("/", orderHandler.Routes())
	})

	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      r,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	log.Info("storefront shutdown complete")
}
