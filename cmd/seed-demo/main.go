package main

import (
	"flag"
	"fmt"
	"os"

	"feedmill-production/internal/config"
	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"
	"feedmill-production/internal/seed"
	"feedmill-production/pkg/database"
	"feedmill-production/pkg/jwt"
	"feedmill-production/pkg/logger"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

func main() {
	withToken := flag.Bool("token", false, "also print a bearer token holding every production privilege")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "invalid configuration:", err)
		os.Exit(1)
	}
	log := logger.Must(logger.New(cfg.Server.Env, cfg.Log.Level))
	defer log.Sync() //nolint:errcheck

	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	ledger := repository.NewStockLedger(db, cfg.Production.HubLocationID, repository.NewMovementRepo(db))
	demo, err := seed.LayerMash(db, ledger, seed.DefaultStock(), "seed-demo")
	if err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}

	log.Info("demo data ready",
		zap.String("formula_id", demo.Formula.ID.String()),
		zap.String("product_id", demo.Product.ID.String()),
		zap.String("packaging_material_id", demo.Bag.ID.String()),
		zap.String("hub", ledger.LocationID()))

	if *withToken {
		if cfg.IsProduction() {
			log.Fatal("refusing to mint a demo token in production")
		}
		tokens := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration)
		token, err := tokens.GenerateToken(uuid.New(), "demo@feedmill.local", "Demo Officer", model.ProductionPrivileges)
		if err != nil {
			log.Fatal("token generation failed", zap.Error(err))
		}
		fmt.Println(token)
	}
}
