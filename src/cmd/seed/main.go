package main

import (
	"context"
	"log"
	"time"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/repository/postgres"
	"github.com/api-sage/smartbank-demo/src/internal/config"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/services"
)

// Seeds the postgres store with the demo dataset. Destructive: wipes
// every user and transaction first.
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	seeder := services.NewSeedService(postgres.NewUserRepository(db), postgres.NewTransactionRepository(db), cfg.SeedPin)
	if err := seeder.Seed(ctx); err != nil {
		log.Fatalf("seed demo data: %v", err)
	}

	log.Println("demo data seeded successfully")
}
