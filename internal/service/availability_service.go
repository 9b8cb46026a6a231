package service

import (
	"context"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// IngredientAvailability is one formula ingredient scaled to a batch size.
type IngredientAvailability struct {
	RawMaterialID   uuid.UUID       `json:"raw_material_id"`
	Code            string          `json:"code"`
	Name            string          `json:"name"`
	Unit            string          `json:"unit"`
	QuantityPerUnit decimal.Decimal `json:"quantity_per_unit"`
	Required        decimal.Decimal `json:"required"`
	CurrentStock    decimal.Decimal `json:"current_stock"`
	Available       bool            `json:"available"`
	Shortage        decimal.Decimal `json:"shortage"`
	UnitCost        decimal.Decimal `json:"unit_cost"`
	LineCost        decimal.Decimal `json:"line_cost"`
}

type AvailabilityReport struct {
	FormulaID     uuid.UUID                `json:"formula_id"`
	FormulaName   string                   `json:"formula_name"`
	BatchSize     int                      `json:"batch_size"`
	Available     bool                     `json:"available"`
	Ingredients   []IngredientAvailability `json:"ingredients"`
	TotalCost     decimal.Decimal          `json:"total_cost"`
	ExpectedYield decimal.Decimal          `json:"expected_yield"`
	YieldUnit     string                   `json:"yield_unit"`
	CostPerUnit   decimal.Decimal          `json:"cost_per_unit"`
}

// Shortages lists the ingredients that are not covered by stock.
func (r *AvailabilityReport) Shortages() []Shortage {
	var out []Shortage
	for _, ing := range r.Ingredients {
		if ing.Available {
			continue
		}
		out = append(out, Shortage{
			RawMaterialID: ing.RawMaterialID,
			Name:          ing.Name,
			Required:      ing.Required,
			Available:     ing.CurrentStock,
			Short:         ing.Shortage,
		})
	}
	return out
}

type AvailabilityService interface {
	// Evaluate is a pure read of formula requirements against hub stock.
	Evaluate(ctx context.Context, formulaID uuid.UUID, batchSize int) (*AvailabilityReport, error)
	// EvaluateTx performs the same evaluation inside an open transaction.
	EvaluateTx(tx *gorm.DB, formulaID uuid.UUID, batchSize int) (*AvailabilityReport, *model.Formula, error)
}

type availabilityService struct {
	db       *gorm.DB
	formulas repository.FormulaRepository
	ledger   repository.StockLedger
}

func NewAvailabilityService(db *gorm.DB, formulas repository.FormulaRepository, ledger repository.StockLedger) AvailabilityService {
	return &availabilityService{
		db:       db,
		formulas: formulas,
		ledger:   ledger,
	}
}

func (s *availabilityService) Evaluate(ctx context.Context, formulaID uuid.UUID, batchSize int) (*AvailabilityReport, error) {
	report, _, err := s.EvaluateTx(s.db.WithContext(ctx), formulaID, batchSize)
	return report, err
}

func (s *availabilityService) EvaluateTx(tx *gorm.DB, formulaID uuid.UUID, batchSize int) (*AvailabilityReport, *model.Formula, error) {
	if batchSize < 1 {
		return nil, nil, invalid("batch size must be at least 1")
	}

	formula, err := s.formulas.FindByID(tx, formulaID)
	if err != nil {
		return nil, nil, err
	}
	rawMaterials, err := s.ledger.Materials(model.KindRawMaterial)
	if err != nil {
		return nil, nil, err
	}

	multiplier := decimal.NewFromInt(int64(batchSize))
	report := &AvailabilityReport{
		FormulaID:     formula.ID,
		FormulaName:   formula.Name,
		BatchSize:     batchSize,
		Available:     true,
		Ingredients:   make([]IngredientAvailability, 0, len(formula.Ingredients)),
		TotalCost:     decimal.Zero,
		ExpectedYield: formula.TargetYield.Mul(multiplier),
		YieldUnit:     formula.YieldUnit,
		CostPerUnit:   decimal.Zero,
	}

	for _, ing := range formula.Ingredients {
		material, err := rawMaterials.Find(tx, ing.RawMaterialID)
		if err != nil {
			return nil, nil, err
		}
		stock, err := s.ledger.CurrentStock(tx, material.Ref)
		if err != nil {
			return nil, nil, err
		}

		required := ing.Quantity.Mul(multiplier)
		line := IngredientAvailability{
			RawMaterialID:   ing.RawMaterialID,
			Code:            material.Code,
			Name:            material.Name,
			Unit:            material.Unit,
			QuantityPerUnit: ing.Quantity,
			Required:        required,
			CurrentStock:    stock,
			Available:       stock.GreaterThanOrEqual(required),
			Shortage:        decimal.Zero,
			UnitCost:        material.UnitCost,
			LineCost:        required.Mul(material.UnitCost),
		}
		if !line.Available {
			line.Shortage = required.Sub(stock)
			report.Available = false
		}

		report.TotalCost = report.TotalCost.Add(line.LineCost)
		report.Ingredients = append(report.Ingredients, line)
	}

	report.CostPerUnit = perUnit(report.TotalCost, report.ExpectedYield)
	return report, formula, nil
}
