package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	_ "github.com/storefront/commerce-api/docs"
	"github.com/storefront/commerce-api/internal/api"
	"github.com/storefront/commerce-api/internal/infrastructure/config"
	mongodb "github.com/storefront/commerce-api/internal/infrastructure/db/mongo"
	redisdb "github.com/storefront/commerce-api/internal/infrastructure/db/redis"
	"github.com/storefront/commerce-api/internal/infrastructure/mail"
	"github.com/storefront/commerce-api/internal/infrastructure/payment"
	"github.com/storefront/commerce-api/internal/infrastructure/queue"
	"github.com/storefront/commerce-api/pkg/logger"
)

const shutdownTimeout = 15 * time.Second

// @title        Storefront Commerce API
// @version      1.0
// @description  Catalog, cart, and checkout backend with idempotent payments.
//
// @securityDefinitions.apikey CookieAuth
// @in   cookie
// @name token
func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- MongoDB ---
	mongoClient, db, err := mongodb.Connect(ctx, mongodb.Config{
		URI:      cfg.Mongo.URI,
		Database: cfg.Mongo.Database,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("mongo connection failed")
	}
	defer func() {
		disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = mongoClient.Disconnect(disconnectCtx)
	}()
	log.Info().Str("database", cfg.Mongo.Database).Msg("connected to mongodb")

	if err := ensureIndexes(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("index creation failed")
	}

	// --- Redis ---
	rdb, err := redisdb.Connect(ctx, redisdb.Config{Addr: cfg.Redis.Addr, DB: cfg.Redis.DB})
	if err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	defer rdb.Close()
	log.Info().Str("addr", cfg.Redis.Addr).Msg("connected to redis")

	// --- Outbound adapters ---
	payments := payment.NewStripeGateway(cfg.Stripe.SecretKey)
	mailer := mail.NewSendGridMailer(cfg.Mail.SendGridAPIKey, cfg.Mail.From, cfg.Mail.FromName)
	dispatcher := queue.NewMailDispatcher(cfg.Mail.Workers, mailer, log)
	dispatcher.Start(ctx)

	// --- HTTP server ---
	e := api.NewRouter(api.Dependencies{
		DB:       db,
		Redis:    rdb,
		Payments: payments,
		Mail:     dispatcher,
		Config:   cfg,
		Log:      log,
	})

	go func() {
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server stopped")
		}
	}()
	log.Info().Str("port", cfg.Port).Str("env", cfg.Env).Msg("server started")

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}

// ensureIndexes creates every collection index the repositories rely on.
// Creation is idempotent, so running it on every boot is safe.
func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	if err := mongodb.NewUserRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	if err := mongodb.NewCartRepository(db).EnsureIndexes(ctx); err != nil {
		return err
	}
	return mongodb.NewOrderRepository(db).EnsureIndexes(ctx)
}
