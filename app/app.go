package app

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"marketplace-api/internal/config"
	"marketplace-api/internal/controller"
	"marketplace-api/internal/payment"
	"marketplace-api/internal/repo"
	"marketplace-api/internal/service"
	"marketplace-api/pkg/http_server"
	"marketplace-api/pkg/postgres"

	"github.com/golang-migrate/migrate/v4"
	pgmigrate "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/labstack/echo"
)

func runMigrations(postgresDB *postgres.Postgres, sourceURL string) {
	driver, err := pgmigrate.WithInstance(postgresDB.Database, &pgmigrate.Config{})
	if err != nil {
		log.Fatal(err)
	}

	migrations, err := migrate.NewWithDatabaseInstance(sourceURL, "postgres", driver)
	if err != nil {
		log.Fatal(err)
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			log.Println("no change made by migration scripts")
		} else {
			log.Fatal(err)
		}
	}
}

func Run() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal("Error occurred while loading config: ", err)
	}

	log.Println("Connecting database...")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		log.Fatal("Error occurred while connecting to db: ", err)
	}
	defer postgresDB.Close()

	log.Println("Running migrations...")
	sourceURL := cfg.MigrationURL
	if sourceURL == "" {
		sourceURL = "file://migrations"
	}
	runMigrations(postgresDB, sourceURL)

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories, service.AuthConfig{
		JWTSecret:     cfg.JWTSecret,
		TokenTTLHours: cfg.TokenTTLHours,
	})
	payments := payment.NewAdapter(payment.Config{
		MerchantId: cfg.PaymentMerchantId,
		Secret:     cfg.PaymentSecret,
		ReturnURL:  cfg.PaymentReturnURL,
	})
	handler := echo.New()

	log.Println("Setup routes...")
	controller.SetupRoutesHandlers(handler, services, payments)

	log.Println("Starting background sweep...")
	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweeper := service.NewSweeper(repositories)
	go sweeper.Run(sweepCtx, time.Duration(cfg.SweepIntervalMinutes)*time.Minute)

	log.Println("Starting server...")
	httpServer := http_server.New(handler, cfg.ServerAddress)

	log.Println("Ready to process requests...")

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		log.Println("Got signal: " + s.String())
	case err = <-httpServer.Notify():
		log.Println("Notify error: ", err)
	}

	log.Println("Shutting down...")
	stopSweep()
	if err := httpServer.Shutdown(); err != nil {
		log.Fatal("Shutdown error: ", err)
	}

	log.Println("Successful shutdown")
}
