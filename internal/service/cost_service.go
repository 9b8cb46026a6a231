package service

import (
	"context"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BatchCost is the rolled-up cost of one batch, recomputed on every read.
type BatchCost struct {
	BatchID            uuid.UUID         `json:"batch_id"`
	BatchNumber        string            `json:"batch_number"`
	Status             model.BatchStatus `json:"status"`
	IngredientCost     decimal.Decimal   `json:"ingredient_cost"`
	PackagingCost      decimal.Decimal   `json:"packaging_cost"`
	ProductionCost     decimal.Decimal   `json:"production_cost"`
	ExpectedYield      decimal.Decimal   `json:"expected_yield"`
	ActualYield        decimal.Decimal   `json:"actual_yield"`
	YieldUnit          string            `json:"yield_unit"`
	PlannedCostPerUnit decimal.Decimal   `json:"planned_cost_per_unit"`
	CostPerUnitYield   decimal.Decimal   `json:"cost_per_unit_yield"`
	UnitsProduced      int               `json:"units_produced"`
}

type CostService interface {
	GetBatchCost(ctx context.Context, batchID uuid.UUID) (*BatchCost, error)
}

type costService struct {
	batchRepo repository.BatchRepository
}

func NewCostService(batchRepo repository.BatchRepository) CostService {
	return &costService{batchRepo: batchRepo}
}

func (s *costService) GetBatchCost(ctx context.Context, batchID uuid.UUID) (*BatchCost, error) {
	batch, err := s.batchRepo.FindByID(batchID)
	if err != nil {
		return nil, err
	}
	return SummarizeCost(batch), nil
}

// SummarizeCost derives the cost view from the batch's stored fields.
func SummarizeCost(b *model.Batch) *BatchCost {
	actual := decimal.Zero
	if b.ActualYield != nil {
		actual = *b.ActualYield
	}
	units := 0
	for _, line := range b.ProductLines {
		units += line.UnitCount
	}
	return &BatchCost{
		BatchID:            b.ID,
		BatchNumber:        b.BatchNumber,
		Status:             b.Status,
		IngredientCost:     b.IngredientCost,
		PackagingCost:      b.PackagingCost,
		ProductionCost:     b.ProductionCost,
		ExpectedYield:      b.ExpectedYield,
		ActualYield:        actual,
		YieldUnit:          b.YieldUnit,
		PlannedCostPerUnit: perUnit(b.IngredientCost, b.ExpectedYield),
		CostPerUnitYield:   perUnit(b.ProductionCost, actual),
		UnitsProduced:      units,
	}
}

// perUnit divides cost by yield, yielding zero for an empty yield.
func perUnit(cost, yield decimal.Decimal) decimal.Decimal {
	if !yield.IsPositive() {
		return decimal.Zero
	}
	return cost.DivRound(yield, 4)
}
