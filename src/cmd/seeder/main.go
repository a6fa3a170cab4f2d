// Seeds the database with a pair of demo accounts for local development.
package main

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/finpay/payments/src/internal/adapter/repository/postgres"
	"github.com/finpay/payments/src/internal/commons"
	"github.com/finpay/payments/src/internal/config"
	"github.com/finpay/payments/src/internal/domain"
	"github.com/finpay/payments/src/internal/logger"
	"github.com/shopspring/decimal"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	accounts := postgres.NewAccountRepository(db)
	demo := []domain.Account{
		{OwnerEmail: "alice@example.com", Balance: decimal.NewFromInt(1000)},
		{OwnerEmail: "bob@example.com", Balance: decimal.NewFromInt(500)},
	}

	for _, account := range demo {
		created, err := accounts.Create(ctx, account)
		if errors.Is(err, commons.ErrDuplicateKey) {
			logger.Info("seeder account already exists", logger.Fields{
				"ownerEmail": account.OwnerEmail,
			})
			continue
		}
		if err != nil {
			log.Fatalf("seed account %s: %v", account.OwnerEmail, err)
		}
		logger.Info("seeder created account", logger.Fields{
			"accountId":  created.ID,
			"ownerEmail": created.OwnerEmail,
			"balance":    created.Balance,
		})
	}
}
