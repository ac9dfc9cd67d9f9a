package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/controller"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/middleware"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/http/router"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/repository/memory"
	"github.com/api-sage/smartbank-demo/src/internal/adapter/repository/postgres"
	"github.com/api-sage/smartbank-demo/src/internal/config"
	"github.com/api-sage/smartbank-demo/src/internal/domain"
	"github.com/api-sage/smartbank-demo/src/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	users, transactions, poster, cleanup, err := buildStores(ctx, cfg)
	cancel()
	if err != nil {
		log.Fatalf("initialize stores: %v", err)
	}
	defer cleanup()

	userService := services.NewUserService(users, cfg.BankName)
	transactionService := services.NewTransactionService(users, transactions)
	transferService := services.NewTransferService(users, transactions, poster)

	mux := router.New(
		controller.NewUserController(userService),
		controller.NewTransactionController(transactionService),
		controller.NewTransferController(transferService),
		middleware.BasicAuth(cfg.ChannelID, cfg.ChannelKey),
	)

	server := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Printf("listening on %s", cfg.Addr())
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("server stopped")
}

// buildStores wires either the in-memory pair (seeded with the demo
// dataset) or the postgres pair after running migrations. The poster is
// nil for the memory store, which cannot post a transfer atomically;
// the transfer engine compensates there instead.
func buildStores(ctx context.Context, cfg config.Config) (domain.UserRepository, domain.TransactionRepository, domain.TransferPoster, func(), error) {
	if cfg.UseMemoryStore {
		users := memory.NewUserRepository()
		transactions := memory.NewTransactionRepository()
		seeder := services.NewSeedService(users, transactions, cfg.SeedPin)
		if err := seeder.Seed(ctx); err != nil {
			return nil, nil, nil, nil, err
		}
		return users, transactions, nil, func() {}, nil
	}

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		return nil, nil, nil, nil, err
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	users := postgres.NewUserRepository(db)
	transactions := postgres.NewTransactionRepository(db)
	transfers := postgres.NewTransferRepository(db)
	return users, transactions, transfers, func() { _ = db.Close() }, nil
}
