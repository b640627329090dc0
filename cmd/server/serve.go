package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/alejogim/sistema-de-reserva/internal/config"
	"github.com/alejogim/sistema-de-reserva/internal/database"
	"github.com/alejogim/sistema-de-reserva/internal/handler"
	"github.com/alejogim/sistema-de-reserva/internal/middleware"
	"github.com/alejogim/sistema-de-reserva/internal/payment"
	"github.com/alejogim/sistema-de-reserva/internal/queue"
	"github.com/alejogim/sistema-de-reserva/internal/repository"
	"github.com/alejogim/sistema-de-reserva/internal/router"
	"github.com/alejogim/sistema-de-reserva/internal/service"
)

const shutdownTimeout = 10 * time.Second

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := bootstrap()
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer cancel()
			return serve(ctx, cfg, log)
		},
	}
}

func seedOptions(cfg config.Config) database.SeedOptions {
	return database.SeedOptions{
		AdminUsername:  cfg.DefaultAdmin.Username,
		AdminPassword:  cfg.DefaultAdmin.Password,
		AdminEmail:     cfg.DefaultAdmin.Email,
		BcryptCost:     cfg.BcryptCost,
		SampleServices: cfg.SeedSampleServices,
	}
}

func serve(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	db, err := openDB(ctx, cfg)
	if err != nil {
		return err
	}
	defer db.Close()

	created, err := database.Seed(ctx, db, seedOptions(cfg))
	if err != nil {
		return err
	}
	if created {
		log.Warn("default admin created, change its password",
			zap.String("username", cfg.DefaultAdmin.Username))
	}

	rdb := config.NewRedisClient(cfg.Redis)
	if rdb != nil {
		defer rdb.Close()
	} else {
		log.Info("redis unavailable, using in-process rate limiting and no response cache")
	}

	gateway, err := payment.New(payment.Config{
		Provider:            cfg.Payment.Provider,
		MPAccessToken:       cfg.Payment.MPAccessToken,
		StripeSecretKey:     cfg.Payment.StripeSecretKey,
		StripeWebhookSecret: cfg.Payment.StripeWebhookSecret,
		Timeout:             cfg.Payment.Timeout,
	}, log)
	if err != nil {
		return err
	}
	var stripeParser handler.WebhookParser
	switch g := gateway.(type) {
	case nil:
		log.Warn("payment gateway not configured, bookings will carry no payment link",
			zap.String("provider", cfg.Payment.Provider))
	case *payment.Stripe:
		stripeParser = g
	}

	publisher := queue.NewPublisher(cfg.RabbitURL)
	if cfg.RabbitURL != "" && cfg.ConsumerEnabled {
		consumer := queue.NewConsumer(cfg.RabbitURL, cfg.BookingLogPath, log)
		go func() {
			if err := consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				log.Error("booking consumer stopped", zap.Error(err))
			}
		}()
	}

	cache := middleware.NewResponseCache(cfg.Cache, rdb, log)
	services := repository.NewServiceRepo(db)

	booking := service.NewBookingService(repository.NewReservationRepo(db), services, gateway, publisher, log,
		service.BookingConfig{
			BaseURL:        cfg.BaseURL,
			Currency:       cfg.Payment.Currency,
			HoldUnpaid:     cfg.HoldUnpaidSlots,
			GatewayTimeout: cfg.Payment.Timeout,
		})
	catalog := service.NewCatalogService(services, repository.NewClientRepo(db), cache, log)
	admins := service.NewAdminService(repository.NewAdminRepo(db), log, service.AdminConfig{
		JWTSecret:   cfg.JWTSecret,
		TokenTTLMin: cfg.AccessTTLMin,
		BcryptCost:  cfg.BcryptCost,
	})

	e := router.New(router.Handlers{
		Public:       handler.NewPublicHandler(booking, catalog),
		Admin:        handler.NewAdminHandler(admins, booking),
		AdminCatalog: handler.NewAdminCatalogHandler(catalog),
		Webhook:      handler.NewWebhookHandler(booking, stripeParser, log),
		Pages:        handler.NewPaymentPages(booking, cfg.BusinessPhone, log),
	}, router.Options{
		DB:         db,
		Authorizer: admins,
		Cache:      cache,
		Limiter:    middleware.NewTokenBucket(cfg.RateLimit, rdb, log),
		Log:        log,
	})

	errCh := make(chan error, 1)
	go func() {
		log.Info("listening", zap.String("addr", ":"+cfg.Port), zap.String("env", cfg.Env))
		if err := e.Start(":" + cfg.Port); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return err
		}
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Error("http shutdown", zap.Error(err))
	}
	booking.Wait()
	return nil
}
