package service

import (
	"errors"
	"fmt"
	"time"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// PackageDeclaration is one package size bagged off a completed batch.
type PackageDeclaration struct {
	ProductID           uuid.UUID         `json:"product_id" validate:"uuid_required"`
	PackageSize         model.PackageSize `json:"package_size"`
	UnitCount           int               `json:"unit_count" validate:"required,gt=0"`
	PackagingMaterialID uuid.UUID         `json:"packaging_material_id" validate:"uuid_required"`
}

type PackagingResult struct {
	ProductLines  []model.BatchProductLine
	Units         []model.FinishedGoodUnit
	PackagingCost decimal.Decimal
}

// PackagingService turns package declarations into serialized units. It
// runs inside the caller's transaction and never commits on its own.
type PackagingService interface {
	Package(tx *gorm.DB, batch *model.Batch, decls []PackageDeclaration, productionDate time.Time, actor string) (*PackagingResult, error)
}

type packagingService struct {
	products  repository.ProductRepository
	units     repository.UnitRepository
	sequences repository.SequenceRepository
	batchRepo repository.BatchRepository
	ledger    repository.StockLedger
	settings  Settings
}

func NewPackagingService(
	products repository.ProductRepository,
	units repository.UnitRepository,
	sequences repository.SequenceRepository,
	batchRepo repository.BatchRepository,
	ledger repository.StockLedger,
	settings Settings,
) PackagingService {
	return &packagingService{
		products:  products,
		units:     units,
		sequences: sequences,
		batchRepo: batchRepo,
		ledger:    ledger,
		settings:  settings,
	}
}

func (s *packagingService) Package(tx *gorm.DB, batch *model.Batch, decls []PackageDeclaration, productionDate time.Time, actor string) (*PackagingResult, error) {
	packaging, err := s.ledger.Materials(model.KindPackagingMaterial)
	if err != nil {
		return nil, err
	}

	day := s.settings.productionDay(productionDate)
	expiry := s.settings.expiryFor(day)
	result := &PackagingResult{PackagingCost: decimal.Zero}

	for i, decl := range decls {
		if err := validate(&decl); err != nil {
			return nil, err
		}
		if err := decl.PackageSize.Validate(); err != nil {
			return nil, &ValidationError{Field: fmt.Sprintf("packages[%d].package_size", i), Msg: err.Error()}
		}

		product, err := s.products.FindByID(tx, decl.ProductID)
		if err != nil {
			return nil, err
		}
		material, err := packaging.Find(tx, decl.PackagingMaterialID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("%w: %s", ErrPackagingMaterialNotFound, decl.PackagingMaterialID)
			}
			return nil, err
		}

		count := decimal.NewFromInt(int64(decl.UnitCount))
		cost := count.Mul(material.UnitCost)

		floor, err := s.units.MaxSequence(tx, batch.ID)
		if err != nil {
			return nil, err
		}
		first, err := s.sequences.Reserve(tx, serialScope(batch.ID), decl.UnitCount, floor)
		if err != nil {
			return nil, fmt.Errorf("reserve serials for %s: %w", product.SKU, err)
		}

		line := model.BatchProductLine{
			BatchID:             batch.ID,
			ProductID:           product.ID,
			PackageWeight:       decl.PackageSize.Weight,
			PackageUnit:         decl.PackageSize.Unit,
			PackageLabel:        decl.PackageSize.Label(),
			UnitCount:           decl.UnitCount,
			TotalWeightKG:       decl.PackageSize.TotalKG(decl.UnitCount),
			PackagingMaterialID: material.Ref.ID,
			PackagingUnitCost:   material.UnitCost,
			PackagingCost:       cost,
			FirstSequence:       int(first),
			LastSequence:        int(first) + decl.UnitCount - 1,
		}
		if err := s.batchRepo.CreateProductLine(tx, &line); err != nil {
			return nil, err
		}

		units := make([]model.FinishedGoodUnit, decl.UnitCount)
		for n := range units {
			seq := first + int64(n)
			u := &units[n]
			u.ProductID = product.ID
			u.BatchID = batch.ID
			u.ProductLineID = line.ID
			u.Sequence = int(seq)
			u.SerialNumber = SerialNumber(s.settings.SerialPrefix, batch.BatchNumber, seq)
			u.LocationID = s.ledger.LocationID()
			u.Status = model.UnitSealed
			u.ProductionDate = day
			u.ExpiryDate = expiry
			u.CreatedBy = actor
			u.UpdatedBy = actor
		}
		if err := s.units.CreateMany(tx, units); err != nil {
			return nil, err
		}

		batchID := batch.ID
		if _, err := s.ledger.Debit(tx, material.Ref, count, model.MovementMeta{
			BatchID: &batchID,
			Actor:   actor,
			Note:    fmt.Sprintf("packaging %s x%d for %s", line.PackageLabel, decl.UnitCount, batch.BatchNumber),
		}); err != nil {
			return nil, err
		}

		result.PackagingCost = result.PackagingCost.Add(cost)
		result.ProductLines = append(result.ProductLines, line)
		result.Units = append(result.Units, units...)
	}

	return result, nil
}
