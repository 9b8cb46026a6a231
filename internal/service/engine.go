package service

import (
	"feedmill-production/internal/repository"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Engine bundles the production services over one database and hub.
type Engine struct {
	Formulas     repository.FormulaRepository
	Ledger       repository.StockLedger
	Availability AvailabilityService
	Packaging    PackagingService
	Batches      BatchService
	Costs        CostService
	Trace        TraceService
	Movements    repository.MovementRepository
}

func NewEngine(db *gorm.DB, settings Settings, notifier Notifier, logger *zap.Logger) *Engine {
	formulaRepo := repository.NewFormulaRepo(db)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewMovementRepo(db)
	sequenceRepo := repository.NewSequenceRepo(db)
	unitRepo := repository.NewUnitRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	ledger := repository.NewStockLedger(db, settings.LocationID, movementRepo)

	availability := NewAvailabilityService(db, formulaRepo, ledger)
	packaging := NewPackagingService(productRepo, unitRepo, sequenceRepo, batchRepo, ledger, settings)

	batches := NewBatchService(BatchServiceDeps{
		DB:           db,
		Batches:      batchRepo,
		Units:        unitRepo,
		Movements:    movementRepo,
		Sequences:    sequenceRepo,
		Ledger:       ledger,
		Availability: availability,
		Packaging:    packaging,
		Notifier:     notifier,
		Settings:     settings,
		Logger:       logger,
	})

	return &Engine{
		Formulas:     formulaRepo,
		Ledger:       ledger,
		Availability: availability,
		Packaging:    packaging,
		Batches:      batches,
		Costs:        NewCostService(batchRepo),
		Trace:        NewTraceService(unitRepo, batchRepo),
		Movements:    movementRepo,
	}
}
