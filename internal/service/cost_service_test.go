package service

import (
	"context"
	"testing"

	"feedmill-production/internal/model"
	"feedmill-production/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetBatchCost_PlannedBatch(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	batch, err := f.engine.Batches.Create(ctx, f.createRequest(2), "officer-1")
	require.NoError(t, err)

	cost, err := f.engine.Costs.GetBatchCost(ctx, batch.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "124000", cost.IngredientCost)
	testutil.AssertDecimal(t, "0", cost.PackagingCost)
	testutil.AssertDecimal(t, "124000", cost.ProductionCost)
	testutil.AssertDecimal(t, "620", cost.PlannedCostPerUnit)
	// no actual yield yet
	testutil.AssertDecimal(t, "0", cost.CostPerUnitYield)
	assert.Equal(t, 0, cost.UnitsProduced)
}

func TestGetBatchCost_CompletedBatch(t *testing.T) {
	f := newFixture(t)
	batch := completedBatch(t, f, 4)

	cost, err := f.engine.Costs.GetBatchCost(context.Background(), batch.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "124800", cost.ProductionCost)
	testutil.AssertDecimal(t, "190", cost.ActualYield)
	testutil.AssertDecimal(t, "656.8421", cost.CostPerUnitYield)
	assert.Equal(t, 4, cost.UnitsProduced)
	assert.Equal(t, model.BatchCompleted, cost.Status)

	_, err = f.engine.Costs.GetBatchCost(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSummarizeCost_ZeroActualYield(t *testing.T) {
	zero := decimal.Zero
	cost := SummarizeCost(&model.Batch{
		IngredientCost: decimal.NewFromInt(100),
		ProductionCost: decimal.NewFromInt(100),
		ExpectedYield:  decimal.Zero,
		ActualYield:    &zero,
	})
	assert.True(t, cost.CostPerUnitYield.IsZero())
	assert.True(t, cost.PlannedCostPerUnit.IsZero())
}

func TestTraceUnit(t *testing.T) {
	f := newFixture(t)
	completedBatch(t, f, 4)

	trace, err := f.engine.Trace.TraceUnit(context.Background(), "FM-PB202501010001-003")
	require.NoError(t, err)
	assert.Equal(t, "PB202501010001", trace.BatchNumber)
	assert.Equal(t, "Layer Mash", trace.FormulaName)
	assert.Equal(t, "LM-25KG", trace.Label.ProductSKU)
	assert.Equal(t, "FM-PB202501010001-003|LM-25KG|PB202501010001|2025-01-01|2025-04-01", trace.Payload)

	_, err = f.engine.Trace.TraceUnit(context.Background(), "FM-NOPE-001")
	assert.ErrorIs(t, err, ErrNotFound)
}
