package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/finpay/payments/src/internal/adapter/client"
	"github.com/finpay/payments/src/internal/adapter/events"
	"github.com/finpay/payments/src/internal/adapter/http/controller"
	"github.com/finpay/payments/src/internal/adapter/http/middleware"
	"github.com/finpay/payments/src/internal/adapter/http/router"
	"github.com/finpay/payments/src/internal/adapter/repository/postgres"
	"github.com/finpay/payments/src/internal/config"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/finpay/payments/src/internal/usecase/clients"
	"github.com/finpay/payments/src/internal/usecase/services"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/sync/errgroup"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	migrateCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	if err := postgres.RunMigrations(migrateCtx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		cancel()
		log.Fatalf("run migrations: %v", err)
	}
	cancel()

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accountRepo := postgres.NewAccountRepository(db)
	transactionRepo := postgres.NewTransactionRepository(db)
	fraudRepo := postgres.NewFraudCheckRepository(db)
	notificationRepo := postgres.NewNotificationRepository(db)

	accountService := services.NewAccountService(accountRepo)
	fraudService := services.NewFraudService(fraudRepo, cfg.FraudThreshold)
	notificationService := services.NewNotificationService(notificationRepo, services.LogSender{})

	credentials := client.ChannelCredentials{ID: cfg.ChannelID, Key: cfg.ChannelKey}
	httpClient := &http.Client{Timeout: cfg.CallTimeout}

	var accountClient clients.AccountClient = client.NewLocalAccountClient(accountService)
	if cfg.AccountServiceURL != "" {
		accountClient = client.NewHTTPAccountClient(cfg.AccountServiceURL, credentials, httpClient)
	}
	var fraudClient clients.FraudClient = client.NewLocalFraudClient(fraudService)
	if cfg.FraudServiceURL != "" {
		fraudClient = client.NewHTTPFraudClient(cfg.FraudServiceURL, credentials, httpClient)
	}
	var notificationClient clients.NotificationClient = client.NewLocalNotificationClient(notificationService)
	if cfg.NotificationServiceURL != "" {
		notificationClient = client.NewHTTPNotificationClient(cfg.NotificationServiceURL, credentials, httpClient)
	}

	var publisher clients.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		kafkaPublisher := events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	} else {
		logger.Warn("no kafka brokers configured, using in-memory event log", nil)
		publisher = events.NewMemoryLog(8)
	}

	transferService := services.NewTransferService(
		transactionRepo,
		accountClient,
		fraudClient,
		notificationClient,
		publisher,
		cfg.CallTimeout,
		services.GoDispatcher,
	)

	channelKeyHash, err := bcrypt.GenerateFromPassword([]byte(cfg.ChannelKey), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash channel key: %v", err)
	}
	authMiddleware := middleware.ChannelAuth(cfg.ChannelID, channelKeyHash)

	handler := router.New(
		authMiddleware,
		controller.NewTransferController(transferService),
		controller.NewAccountController(accountService),
		controller.NewFraudController(fraudService),
		controller.NewNotificationController(notificationService),
	)

	server := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		logger.Info("http server listening", logger.Fields{"addr": cfg.HTTPAddr})
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Fatalf("server exited: %v", err)
	}
	logger.Info("server stopped", nil)
}
