package service

import (
	"context"
	"fmt"
	"time"

	"feedmill-production/internal/metrics"
	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CreateBatchRequest struct {
	FormulaID           uuid.UUID `json:"formula_id" validate:"uuid_required"`
	BatchSize           int       `json:"batch_size" validate:"required,gte=1"`
	ProductionOfficerID uuid.UUID `json:"production_officer_id" validate:"uuid_required"`
	SupervisorID        uuid.UUID `json:"supervisor_id" validate:"uuid_required"`
	Notes               string    `json:"notes"`
}

type CompleteBatchRequest struct {
	ActualYield decimal.Decimal `json:"actual_yield" validate:"gte=0"`
	// WastagePercent is derived from expected vs actual yield when omitted.
	WastagePercent *decimal.Decimal     `json:"wastage_percent" validate:"omitempty,gte=0,lte=100"`
	Packages       []PackageDeclaration `json:"packages" validate:"required,min=1,dive"`
}

// CreatedUnit is the caller-facing view of a serialized unit.
type CreatedUnit struct {
	SerialNumber   string    `json:"serial_number"`
	ProductID      uuid.UUID `json:"product_id"`
	ProductionDate time.Time `json:"production_date"`
	ExpiryDate     time.Time `json:"expiry_date"`
}

type CompletionResult struct {
	Batch         *model.Batch    `json:"batch"`
	CreatedUnits  []CreatedUnit   `json:"created_units"`
	PackagingCost decimal.Decimal `json:"packaging_cost"`
}

// BatchDetails is the read model handed to reporting and audit.
type BatchDetails struct {
	Batch     *model.Batch             `json:"header"`
	Units     []model.FinishedGoodUnit `json:"units"`
	Movements []model.StockMovement    `json:"movements"`
	Cost      *BatchCost               `json:"cost"`
}

type BatchService interface {
	Create(ctx context.Context, req *CreateBatchRequest, actor string) (*model.Batch, error)
	Start(ctx context.Context, id uuid.UUID, actor string) (*model.Batch, error)
	Pause(ctx context.Context, id uuid.UUID, reason, actor string) (*model.Batch, error)
	Resume(ctx context.Context, id uuid.UUID, actor string) (*model.Batch, error)
	Complete(ctx context.Context, id uuid.UUID, req *CompleteBatchRequest, actor string) (*CompletionResult, error)
	Cancel(ctx context.Context, id uuid.UUID, reason, actor string) (*model.Batch, error)
	GetDetails(ctx context.Context, id uuid.UUID) (*BatchDetails, error)
	List(ctx context.Context, status model.BatchStatus) ([]model.Batch, error)
}

type batchService struct {
	db           *gorm.DB
	batchRepo    repository.BatchRepository
	unitRepo     repository.UnitRepository
	movements    repository.MovementRepository
	sequences    repository.SequenceRepository
	ledger       repository.StockLedger
	availability AvailabilityService
	packaging    PackagingService
	notifier     Notifier
	settings     Settings
	logger       *zap.Logger
}

type BatchServiceDeps struct {
	DB           *gorm.DB
	Batches      repository.BatchRepository
	Units        repository.UnitRepository
	Movements    repository.MovementRepository
	Sequences    repository.SequenceRepository
	Ledger       repository.StockLedger
	Availability AvailabilityService
	Packaging    PackagingService
	Notifier     Notifier
	Settings     Settings
	Logger       *zap.Logger
}

func NewBatchService(deps BatchServiceDeps) BatchService {
	if deps.Notifier == nil {
		deps.Notifier = nopNotifier{}
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	return &batchService{
		db:           deps.DB,
		batchRepo:    deps.Batches,
		unitRepo:     deps.Units,
		movements:    deps.Movements,
		sequences:    deps.Sequences,
		ledger:       deps.Ledger,
		availability: deps.Availability,
		packaging:    deps.Packaging,
		notifier:     deps.Notifier,
		settings:     deps.Settings,
		logger:       deps.Logger,
	}
}

func (s *batchService) Create(ctx context.Context, req *CreateBatchRequest, actor string) (*model.Batch, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	now := s.settings.now()
	var batch *model.Batch

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Stock is re-read inside the transaction; a report fetched earlier
		// by the caller may be stale.
		report, formula, err := s.availability.EvaluateTx(tx, req.FormulaID, req.BatchSize)
		if err != nil {
			return err
		}
		if !report.Available {
			return &ShortageError{FormulaID: req.FormulaID, BatchSize: req.BatchSize, Shortages: report.Shortages()}
		}

		day := s.settings.productionDay(now)
		seq, err := s.sequences.Reserve(tx, batchNumberScope(s.settings.BatchPrefix, day), 1, 0)
		if err != nil {
			return fmt.Errorf("allocate batch number: %w", err)
		}

		lines := make([]model.BatchMaterialLine, 0, len(report.Ingredients))
		for _, ing := range report.Ingredients {
			lines = append(lines, model.BatchMaterialLine{
				RawMaterialID:   ing.RawMaterialID,
				PlannedQuantity: ing.Required,
				UnitCost:        ing.UnitCost,
				TotalCost:       ing.LineCost,
			})
		}

		batch = &model.Batch{
			BatchNumber:         BatchNumber(s.settings.BatchPrefix, day, seq),
			FormulaID:           formula.ID,
			LocationID:          s.ledger.LocationID(),
			BatchSize:           req.BatchSize,
			ExpectedYield:       report.ExpectedYield,
			YieldUnit:           report.YieldUnit,
			IngredientCost:      report.TotalCost,
			PackagingCost:       decimal.Zero,
			ProductionCost:      report.TotalCost,
			Status:              model.BatchPlanned,
			Notes:               req.Notes,
			ProductionOfficerID: req.ProductionOfficerID,
			SupervisorID:        req.SupervisorID,
			MaterialLines:       lines,
		}
		batch.CreatedBy = actor
		batch.UpdatedBy = actor
		return s.batchRepo.Create(tx, batch)
	})
	metrics.ObserveTransition("create", err)
	if err != nil {
		s.logger.Warn("batch creation failed",
			zap.String("formula_id", req.FormulaID.String()),
			zap.Int("batch_size", req.BatchSize),
			zap.String("actor", actor),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("batch created",
		zap.String("batch_id", batch.ID.String()),
		zap.String("batch_number", batch.BatchNumber),
		zap.String("ingredient_cost", batch.IngredientCost.String()),
		zap.String("actor", actor))
	s.publish(EventBatchCreated, batch, actor, fmt.Sprintf("batch %s planned (x%d)", batch.BatchNumber, batch.BatchSize), 0)
	return batch, nil
}

func (s *batchService) Start(ctx context.Context, id uuid.UUID, actor string) (*model.Batch, error) {
	batch, err := s.transition(ctx, id, "start", []model.BatchStatus{model.BatchPlanned}, actor,
		func(tx *gorm.DB, b *model.Batch, now time.Time) (map[string]interface{}, error) {
			batchID := b.ID
			for _, line := range b.MaterialLines {
				_, err := s.ledger.Debit(tx, model.RawMaterialRef(line.RawMaterialID), line.PlannedQuantity, model.MovementMeta{
					BatchID: &batchID,
					Actor:   actor,
					Note:    "consumed by batch " + b.BatchNumber,
				})
				if err != nil {
					return nil, fmt.Errorf("start batch %s: ingredient %s: %w", b.BatchNumber, line.RawMaterialID, err)
				}
				if err := s.batchRepo.SetActualQuantity(tx, line.ID, line.PlannedQuantity); err != nil {
					return nil, err
				}
			}
			return map[string]interface{}{
				"status":     model.BatchInProgress,
				"started_at": now,
			}, nil
		})
	if err != nil {
		return nil, err
	}
	s.publish(EventBatchStarted, batch, actor, fmt.Sprintf("batch %s started", batch.BatchNumber), 0)
	return batch, nil
}

func (s *batchService) Pause(ctx context.Context, id uuid.UUID, reason, actor string) (*model.Batch, error) {
	batch, err := s.transition(ctx, id, "pause", []model.BatchStatus{model.BatchInProgress}, actor,
		func(tx *gorm.DB, b *model.Batch, now time.Time) (map[string]interface{}, error) {
			return map[string]interface{}{
				"status":       model.BatchPaused,
				"paused_at":    now,
				"pause_reason": reason,
			}, nil
		})
	if err != nil {
		return nil, err
	}
	msg := fmt.Sprintf("batch %s paused", batch.BatchNumber)
	if reason != "" {
		msg += ": " + reason
	}
	s.publish(EventBatchPaused, batch, actor, msg, 0)
	return batch, nil
}

func (s *batchService) Resume(ctx context.Context, id uuid.UUID, actor string) (*model.Batch, error) {
	batch, err := s.transition(ctx, id, "resume", []model.BatchStatus{model.BatchPaused}, actor,
		func(tx *gorm.DB, b *model.Batch, now time.Time) (map[string]interface{}, error) {
			return map[string]interface{}{
				"status":    model.BatchInProgress,
				"paused_at": nil,
			}, nil
		})
	if err != nil {
		return nil, err
	}
	s.publish(EventBatchResumed, batch, actor, fmt.Sprintf("batch %s resumed", batch.BatchNumber), 0)
	return batch, nil
}

func (s *batchService) Complete(ctx context.Context, id uuid.UUID, req *CompleteBatchRequest, actor string) (*CompletionResult, error) {
	if err := validate(req); err != nil {
		return nil, err
	}

	var packed *PackagingResult
	batch, err := s.transition(ctx, id, "complete", []model.BatchStatus{model.BatchInProgress, model.BatchPaused}, actor,
		func(tx *gorm.DB, b *model.Batch, now time.Time) (map[string]interface{}, error) {
			wastage := wastageFor(b.ExpectedYield, req.ActualYield, req.WastagePercent)

			var err error
			packed, err = s.packaging.Package(tx, b, req.Packages, now, actor)
			if err != nil {
				return nil, err
			}
			if err := s.batchRepo.AddPackagingCost(tx, b.ID, packed.PackagingCost); err != nil {
				return nil, err
			}
			return map[string]interface{}{
				"status":          model.BatchCompleted,
				"actual_yield":    req.ActualYield,
				"wastage_percent": wastage,
				"completed_at":    now,
				"paused_at":       nil,
			}, nil
		})
	if err != nil {
		return nil, err
	}

	result := &CompletionResult{
		Batch:         batch,
		CreatedUnits:  make([]CreatedUnit, 0, len(packed.Units)),
		PackagingCost: packed.PackagingCost,
	}
	for _, u := range packed.Units {
		result.CreatedUnits = append(result.CreatedUnits, CreatedUnit{
			SerialNumber:   u.SerialNumber,
			ProductID:      u.ProductID,
			ProductionDate: u.ProductionDate,
			ExpiryDate:     u.ExpiryDate,
		})
	}
	for _, line := range batch.ProductLines {
		sku := line.ProductID.String()
		if line.Product != nil {
			sku = line.Product.SKU
		}
		metrics.UnitsSerialized.WithLabelValues(sku).Add(float64(line.UnitCount))
	}
	cost, _ := batch.ProductionCost.Float64()
	metrics.ProductionCost.Observe(cost)

	s.publish(EventBatchCompleted, batch, actor,
		fmt.Sprintf("batch %s completed with %d units", batch.BatchNumber, len(result.CreatedUnits)),
		len(result.CreatedUnits))
	return result, nil
}

// Cancel abandons a batch that has not consumed any stock yet.
func (s *batchService) Cancel(ctx context.Context, id uuid.UUID, reason, actor string) (*model.Batch, error) {
	batch, err := s.transition(ctx, id, "cancel", []model.BatchStatus{model.BatchPlanned}, actor,
		func(tx *gorm.DB, b *model.Batch, now time.Time) (map[string]interface{}, error) {
			return map[string]interface{}{
				"status":        model.BatchCancelled,
				"cancelled_at":  now,
				"cancel_reason": reason,
			}, nil
		})
	if err != nil {
		return nil, err
	}
	s.publish(EventBatchCancelled, batch, actor, fmt.Sprintf("batch %s cancelled", batch.BatchNumber), 0)
	return batch, nil
}

func (s *batchService) GetDetails(ctx context.Context, id uuid.UUID) (*BatchDetails, error) {
	batch, err := s.batchRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	units, err := s.unitRepo.FindByBatch(id)
	if err != nil {
		return nil, err
	}
	movements, err := s.movements.FindByBatch(id)
	if err != nil {
		return nil, err
	}
	return &BatchDetails{
		Batch:     batch,
		Units:     units,
		Movements: movements,
		Cost:      SummarizeCost(batch),
	}, nil
}

func (s *batchService) List(ctx context.Context, status model.BatchStatus) ([]model.Batch, error) {
	if status != "" && !status.Valid() {
		return nil, invalid(fmt.Sprintf("unknown batch status %q", status))
	}
	return s.batchRepo.FindAll(status)
}

type transitionFunc func(tx *gorm.DB, b *model.Batch, now time.Time) (map[string]interface{}, error)

// transition runs one lifecycle step as a single transaction: lock the
// header, check the source state, apply the step's mutations, then
// compare-and-set the status. Any error rolls everything back.
func (s *batchService) transition(ctx context.Context, id uuid.UUID, op string, from []model.BatchStatus, actor string, apply transitionFunc) (*model.Batch, error) {
	now := s.settings.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		batch, err := s.batchRepo.FindForUpdate(tx, id)
		if err != nil {
			return err
		}
		if !statusIn(batch.Status, from) {
			return &TransitionError{BatchID: id, Op: op, From: batch.Status}
		}

		updates, err := apply(tx, batch, now)
		if err != nil {
			return err
		}
		updates["updated_by"] = actor

		ok, err := s.batchRepo.Transition(tx, id, from, updates)
		if err != nil {
			return err
		}
		if !ok {
			return &TransitionError{BatchID: id, Op: op, From: batch.Status}
		}
		return nil
	})
	metrics.ObserveTransition(op, err)
	if err != nil {
		s.logger.Warn("batch transition rejected",
			zap.String("operation", op),
			zap.String("batch_id", id.String()),
			zap.String("actor", actor),
			zap.Error(err))
		return nil, err
	}

	batch, err := s.batchRepo.FindByID(id)
	if err != nil {
		return nil, err
	}
	s.logger.Info("batch transitioned",
		zap.String("operation", op),
		zap.String("batch_number", batch.BatchNumber),
		zap.String("status", string(batch.Status)),
		zap.String("actor", actor))
	return batch, nil
}

func (s *batchService) publish(typ BatchEventType, b *model.Batch, actor, msg string, units int) {
	s.notifier.Publish(BatchEvent{
		Type:        typ,
		BatchID:     b.ID,
		BatchNumber: b.BatchNumber,
		Status:      b.Status,
		Actor:       actor,
		Message:     msg,
		UnitsMade:   units,
		At:          s.settings.now(),
	})
}

func statusIn(status model.BatchStatus, set []model.BatchStatus) bool {
	for _, s := range set {
		if status == s {
			return true
		}
	}
	return false
}

var hundred = decimal.NewFromInt(100)

// wastageFor returns the caller's figure, or derives the yield loss as a
// percentage of the expected yield (never negative).
func wastageFor(expected, actual decimal.Decimal, declared *decimal.Decimal) decimal.Decimal {
	if declared != nil {
		return *declared
	}
	if !expected.IsPositive() || actual.GreaterThanOrEqual(expected) {
		return decimal.Zero
	}
	return expected.Sub(actual).Mul(hundred).DivRound(expected, 4)
}
