package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/technewwings/payload-ecommerce-cod/internal/cache"
	codhttp "github.com/technewwings/payload-ecommerce-cod/internal/http"
	"github.com/technewwings/payload-ecommerce-cod/internal/publisher"
	"github.com/technewwings/payload-ecommerce-cod/internal/service"
	"github.com/technewwings/payload-ecommerce-cod/internal/store"
)

type Config struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR" default:":8080"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	MongoURI    string `envconfig:"MONGO_URI" default:"mongodb://localhost:27017"`
	MongoDBName string `envconfig:"MONGO_DB_NAME" default:"ecommerce"`

	CartsCollection        string `envconfig:"CARTS_COLLECTION" default:"carts"`
	OrdersCollection       string `envconfig:"ORDERS_COLLECTION" default:"orders"`
	TransactionsCollection string `envconfig:"TRANSACTIONS_COLLECTION" default:"transactions"`

	// Empty REDIS_ADDR disables the status cache and the confirm guard.
	RedisAddr     string `envconfig:"REDIS_ADDR" default:""`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`

	// Unset KAFKA_BROKERS disables lifecycle events.
	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`

	Label                   string   `envconfig:"COD_LABEL" default:""`
	MinimumOrder            int64    `envconfig:"COD_MINIMUM_ORDER" default:"0"`
	MaximumOrder            int64    `envconfig:"COD_MAXIMUM_ORDER" default:"0"`
	AllowedRegions          []string `envconfig:"COD_ALLOWED_REGIONS"`
	SupportedCurrencies     []string `envconfig:"COD_SUPPORTED_CURRENCIES"`
	ServiceChargePercentage float64  `envconfig:"COD_SERVICE_CHARGE_PERCENTAGE" default:"0"`
	FixedServiceCharge      int64    `envconfig:"COD_FIXED_SERVICE_CHARGE" default:"0"`
}

func main() {
	logger := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		logger.Fatal().Err(err).Msg("failed to load configuration")
	}

	ctx := context.Background()
	mongoDB, err := store.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	logger.Info().Str("uri", cfg.MongoURI).Msg("connected to MongoDB")

	st := store.NewMongoStore(mongoDB, store.Collections{
		Carts:        cfg.CartsCollection,
		Orders:       cfg.OrdersCollection,
		Transactions: cfg.TransactionsCollection,
	})
	if err := st.CreateIndexes(ctx); err != nil {
		logger.Fatal().Err(err).Msg("failed to create indexes")
	}

	svcCfg := service.Config{
		Store:  st,
		Logger: logger,
		Label:  cfg.Label,
	}

	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			logger.Fatal().Err(err).Msg("Redis connection failed")
		}
		logger.Info().Str("addr", cfg.RedisAddr).Msg("Redis ping succeeded")

		svcCfg.Cache = cache.NewRedisCache(redisClient)
		svcCfg.Guard = cache.NewRedisGuard(redisClient)
	}

	if len(cfg.KafkaBrokers) > 0 {
		events := publisher.NewKafkaPublisher(cfg.KafkaBrokers...)
		defer events.Close()
		svcCfg.Events = events
	}

	svc := service.New(svcCfg)

	policy := service.Policy{
		MinimumOrder:            cfg.MinimumOrder,
		MaximumOrder:            cfg.MaximumOrder,
		AllowedRegions:          cfg.AllowedRegions,
		SupportedCurrencies:     cfg.SupportedCurrencies,
		ServiceChargePercentage: cfg.ServiceChargePercentage,
		FixedServiceCharge:      cfg.FixedServiceCharge,
	}

	handler := codhttp.NewHandler(svc, policy, cfg.RequestTimeout)

	router := chi.NewRouter()
	router.Use(middleware.RequestID)
	router.Use(middleware.Recoverer)
	handler.Routes(router)

	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: router,
	}

	go func() {
		logger.Info().Str("addr", cfg.HTTPAddr).Msg("COD payment service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
}
