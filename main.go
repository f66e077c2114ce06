// Package main is the entry point for the fuel escrow service
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ankushsph/fuel/app/handlers"
	"github.com/Ankushsph/fuel/app/router"
	"github.com/Ankushsph/fuel/app/services"
	businessflow "github.com/Ankushsph/fuel/business_flow"
	"github.com/Ankushsph/fuel/config"
	"github.com/Ankushsph/fuel/models"
	"github.com/Ankushsph/fuel/repository"
	"github.com/gofiber/fiber/v3"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// application bundles the wired components
type application struct {
	router router.Router
	server *fiber.App
	rc     *redis.Client
}

func main() {
	log.Println("Starting fuel escrow service...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	app, err := initializeApplication(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize application: %v", err)
	}

	app.router.SetupRoutes()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		address := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
		if err := app.server.Listen(address); err != nil {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	<-sigChan
	log.Println("Shutting down gracefully...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()

	if err := app.server.ShutdownWithContext(shutdownCtx); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}
	if app.rc != nil {
		_ = app.rc.Close()
	}

	log.Println("Server stopped")
}

// initializeApplication wires the repositories, flows, and HTTP layer
func initializeApplication(cfg *config.Config) (*application, error) {
	db, err := initializeDatabase(cfg.Database)
	if err != nil {
		return nil, err
	}

	rc, err := initializeCache(cfg.Cache)
	if err != nil {
		log.Printf("Cache unavailable, continuing without it: %v", err)
		rc = nil
	}

	transactionRepo := repository.NewFuelTransactionRepository(db)
	pumpRepo := repository.NewPumpRepository(db)
	pumpOwnerRepo := repository.NewPumpOwnerRepository(db)
	vehicleRepo := repository.NewVehicleRepository(db)
	driverRepo := repository.NewDriverRepository(db)
	driverWalletRepo := repository.NewDriverWalletRepository(db)
	pumpWalletRepo := repository.NewPumpWalletRepository(db)
	ledgerRepo := repository.NewWalletLedgerRepository(db)
	settlementRepo := repository.NewPumpSettlementRepository(db)

	resolver := businessflow.NewVehicleRegistryResolver(vehicleRepo, driverWalletRepo)
	if rc != nil {
		resolver = services.NewCachedDriverResolver(resolver, rc, cfg.Cache.ResolverTTL)
	}
	notifier := services.NewLogNotifier(nil)

	escrowFlow := businessflow.NewEscrowFlow(
		transactionRepo, pumpRepo, vehicleRepo, driverRepo,
		driverWalletRepo, pumpWalletRepo, ledgerRepo,
		resolver, notifier, db, cfg.Escrow,
	)
	walletFlow := businessflow.NewWalletFlow(
		driverRepo, pumpOwnerRepo, driverWalletRepo, pumpWalletRepo, ledgerRepo, db, cfg.Escrow,
	)
	payoutFlow := businessflow.NewPayoutFlow(
		settlementRepo, pumpOwnerRepo, pumpWalletRepo, transactionRepo, ledgerRepo, notifier, db, cfg.Escrow,
	)

	escrowHandler := handlers.NewEscrowHandler(escrowFlow)
	walletHandler := handlers.NewWalletHandler(walletFlow)
	payoutHandler := handlers.NewPayoutHandler(payoutFlow)

	r := router.NewFiberRouter(cfg, escrowHandler, walletHandler, payoutHandler)

	return &application{
		router: r,
		server: r.GetApp(),
		rc:     rc,
	}, nil
}

// initializeDatabase initializes the database connection with connection pooling
func initializeDatabase(cfg config.DatabaseConfig) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxOpenConns(cfg.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cfg.MaxIdleConns)
	sqlDB.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	sqlDB.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	if err := db.AutoMigrate(
		&models.PumpOwner{},
		&models.Pump{},
		&models.Driver{},
		&models.Vehicle{},
		&models.DriverWallet{},
		&models.PumpWallet{},
		&models.FuelTransaction{},
		&models.WalletLedgerEntry{},
		&models.PumpSettlement{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	log.Printf("Database connection established with %d max open connections, %d max idle connections",
		cfg.MaxOpenConns, cfg.MaxIdleConns)
	return db, nil
}

// initializeCache connects to Redis when caching is enabled
func initializeCache(cfg config.CacheConfig) (*redis.Client, error) {
	if !cfg.Enabled {
		return nil, nil
	}

	opt, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	opt.DB = cfg.RedisDB

	rc := redis.NewClient(opt)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rc.Ping(ctx).Err(); err != nil {
		_ = rc.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	log.Printf("Redis connection established (db=%d)", cfg.RedisDB)
	return rc, nil
}
