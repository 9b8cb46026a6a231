package service

import (
	"context"
	"errors"
	"testing"

	"feedmill-production/internal/testutil"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEvaluate_ScalesFormulaByBatchSize(t *testing.T) {
	f := newFixture(t)

	report, err := f.engine.Availability.Evaluate(context.Background(), f.demo.Formula.ID, 2)
	require.NoError(t, err)

	assert.True(t, report.Available)
	require.Len(t, report.Ingredients, 2)
	testutil.AssertDecimal(t, "120", report.Ingredients[0].Required)
	testutil.AssertDecimal(t, "80", report.Ingredients[1].Required)
	testutil.AssertDecimal(t, "124000", report.TotalCost)
	testutil.AssertDecimal(t, "200", report.ExpectedYield)
	testutil.AssertDecimal(t, "620", report.CostPerUnit)
	assert.Empty(t, report.Shortages())
}

func TestEvaluate_ReportsEveryShortage(t *testing.T) {
	f := newFixture(t)

	report, err := f.engine.Availability.Evaluate(context.Background(), f.demo.Formula.ID, 20)
	require.NoError(t, err)

	assert.False(t, report.Available)
	shortages := report.Shortages()
	require.Len(t, shortages, 2)
	testutil.AssertDecimal(t, "200", shortages[0].Short)
	testutil.AssertDecimal(t, "300", shortages[1].Short)
	// the cost is still quoted for planning
	testutil.AssertDecimal(t, "1240000", report.TotalCost)
}

func TestEvaluate_ExactStockIsAvailable(t *testing.T) {
	f := newFixture(t)

	// 12 x 40 soya = 480 <= 500, 12 x 60 maize = 720 <= 1000
	report, err := f.engine.Availability.Evaluate(context.Background(), f.demo.Formula.ID, 12)
	require.NoError(t, err)
	assert.True(t, report.Available)

	// 13 x 40 = 520 > 500
	report, err = f.engine.Availability.Evaluate(context.Background(), f.demo.Formula.ID, 13)
	require.NoError(t, err)
	assert.False(t, report.Available)
}

func TestEvaluate_RejectsBadInput(t *testing.T) {
	f := newFixture(t)

	_, err := f.engine.Availability.Evaluate(context.Background(), f.demo.Formula.ID, 0)
	assert.True(t, errors.Is(err, ErrValidation))

	_, err = f.engine.Availability.Evaluate(context.Background(), uuid.New(), 1)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestEvaluate_DoesNotMutateStock(t *testing.T) {
	f := newFixture(t)
	before := f.stock(t, maizeRef(f))

	_, err := f.engine.Availability.Evaluate(context.Background(), f.demo.Formula.ID, 2)
	require.NoError(t, err)

	assert.True(t, before.Equal(f.stock(t, maizeRef(f))))
}
