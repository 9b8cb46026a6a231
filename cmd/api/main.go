package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"feedmill-production/internal/config"
	"feedmill-production/internal/handler"
	"feedmill-production/internal/model"
	"feedmill-production/internal/service"
	"feedmill-production/internal/ws"
	"feedmill-production/pkg/database"
	"feedmill-production/pkg/jwt"
	"feedmill-production/pkg/logger"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

func main() {
	// 1. Config & logging
	cfg, err := config.Load()
	if err != nil {
		panic("invalid configuration: " + err.Error())
	}
	log := logger.Must(logger.New(cfg.Server.Env, cfg.Log.Level))
	defer log.Sync() //nolint:errcheck

	// 2. Database
	db, err := database.Connect(cfg.Database, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}
	// Auto migrate
	if err := db.AutoMigrate(model.All()...); err != nil {
		log.Fatal("auto migrate failed", zap.Error(err))
	}

	// 3. WebSocket hub
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	hub := ws.NewHub(logger.Named(log, "ws"))
	go hub.Run(ctx)

	// 4. Wiring
	engine := service.NewEngine(db, service.Settings{
		LocationID:    cfg.Production.HubLocationID,
		BatchPrefix:   cfg.Production.BatchPrefix,
		SerialPrefix:  cfg.Production.SerialPrefix,
		ShelfLifeDays: cfg.Production.ShelfLifeDays,
		Location:      cfg.Production.Location(),
	}, hub, logger.Named(log, "production"))

	app := handler.NewApp(handler.Handlers{
		Batch:   handler.NewBatchHandler(engine.Batches),
		Cost:    handler.NewCostHandler(engine.Costs),
		Formula: handler.NewFormulaHandler(engine.Formulas, engine.Availability),
		Stock:   handler.NewStockHandler(engine.Ledger, engine.Movements),
		Unit:    handler.NewUnitHandler(engine.Trace),
	}, handler.RouterOptions{
		Tokens:      jwt.NewManager(cfg.JWT.Secret, cfg.JWT.Issuer, cfg.JWT.Expiration),
		Logger:      logger.Named(log, "http"),
		CORSOrigins: cfg.Server.CORSOrigins,
	})

	// WebSocket route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(hub.Handler()))

	// 5. Serve until signalled
	go func() {
		log.Info("server listening",
			zap.String("port", cfg.Server.Port),
			zap.String("hub", cfg.Production.HubLocationID))
		if err := app.Listen(":" + cfg.Server.Port); err != nil {
			log.Error("server stopped", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down server")
	if err := app.ShutdownWithTimeout(10 * time.Second); err != nil {
		log.Error("server forced to shutdown", zap.Error(err))
		os.Exit(1)
	}
	log.Info("server exited")
}
