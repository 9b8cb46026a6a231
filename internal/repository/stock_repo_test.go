package repository

import (
	"errors"
	"testing"

	"feedmill-production/internal/model"
	"feedmill-production/internal/testutil"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newLedgerFixture(t *testing.T) (*gorm.DB, StockLedger, model.RawMaterial) {
	t.Helper()
	db := testutil.NewDB(t)
	maize := model.RawMaterial{Code: "RM-MAIZE", Name: "Maize", Unit: "kg", UnitCost: decimal.NewFromInt(500)}
	require.NoError(t, db.Create(&maize).Error)
	return db, NewStockLedger(db, "HUB", NewMovementRepo(db)), maize
}

func TestStockLedger_MissingRowIsZero(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)

	stock, err := ledger.CurrentStock(db, model.RawMaterialRef(maize.ID))
	require.NoError(t, err)
	assert.True(t, stock.IsZero())
}

func TestStockLedger_CreditThenDebit(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)
	ref := model.RawMaterialRef(maize.ID)

	balance, err := ledger.Credit(db, ref, decimal.NewFromInt(1000), model.MovementMeta{Actor: "tester"})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "1000", balance)

	batchID := uuid.New()
	balance, err = ledger.Debit(db, ref, decimal.NewFromInt(120), model.MovementMeta{BatchID: &batchID, Actor: "tester"})
	require.NoError(t, err)
	testutil.AssertDecimal(t, "880", balance)

	movements, err := NewMovementRepo(db).FindByMaterial(ref, 10)
	require.NoError(t, err)
	require.Len(t, movements, 2)

	byBatch, err := NewMovementRepo(db).FindByBatch(batchID)
	require.NoError(t, err)
	require.Len(t, byBatch, 1)
	assert.Equal(t, model.MovementOut, byBatch[0].Type)
	testutil.AssertDecimal(t, "120", byBatch[0].Quantity)
	testutil.AssertDecimal(t, "880", byBatch[0].BalanceAfter)
	assert.Equal(t, "tester", byBatch[0].CreatedBy)
}

func TestStockLedger_DebitNeverGoesNegative(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)
	ref := model.RawMaterialRef(maize.ID)

	_, err := ledger.Credit(db, ref, decimal.NewFromInt(100), model.MovementMeta{})
	require.NoError(t, err)

	_, err = ledger.Debit(db, ref, decimal.NewFromInt(101), model.MovementMeta{})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInsufficientStock))

	var shortage *InsufficientStockError
	require.True(t, errors.As(err, &shortage))
	testutil.AssertDecimal(t, "101", shortage.Requested)
	testutil.AssertDecimal(t, "100", shortage.Available)
	assert.Equal(t, "HUB", shortage.LocationID)

	stock, err := ledger.CurrentStock(db, ref)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "100", stock)
}

func TestStockLedger_DebitWithoutRow(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)

	_, err := ledger.Debit(db, model.RawMaterialRef(maize.ID), decimal.NewFromInt(1), model.MovementMeta{})
	assert.ErrorIs(t, err, ErrInsufficientStock)
}

func TestStockLedger_ZeroAndNegativeQuantities(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)
	ref := model.RawMaterialRef(maize.ID)

	balance, err := ledger.Debit(db, ref, decimal.Zero, model.MovementMeta{})
	require.NoError(t, err)
	assert.True(t, balance.IsZero())

	_, err = ledger.Debit(db, ref, decimal.NewFromInt(-1), model.MovementMeta{})
	assert.Error(t, err)

	_, err = ledger.Credit(db, ref, decimal.Zero, model.MovementMeta{})
	assert.Error(t, err)

	movements, err := NewMovementRepo(db).FindByMaterial(ref, 0)
	require.NoError(t, err)
	assert.Empty(t, movements)
}

func TestStockLedger_RollsBackWithTransaction(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)
	ref := model.RawMaterialRef(maize.ID)
	_, err := ledger.Credit(db, ref, decimal.NewFromInt(50), model.MovementMeta{})
	require.NoError(t, err)

	boom := errors.New("boom")
	err = db.Transaction(func(tx *gorm.DB) error {
		if _, err := ledger.Debit(tx, ref, decimal.NewFromInt(20), model.MovementMeta{}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	stock, err := ledger.CurrentStock(db, ref)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "50", stock)
}

func TestStockLedger_Materials(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)
	bag := model.PackagingMaterial{Code: "PK-BAG", Name: "Bag", UnitCost: decimal.NewFromInt(200)}
	require.NoError(t, db.Create(&bag).Error)

	raw, err := ledger.Materials(model.KindRawMaterial)
	require.NoError(t, err)
	info, err := raw.Find(db, maize.ID)
	require.NoError(t, err)
	assert.Equal(t, "Maize", info.Name)
	assert.Equal(t, model.KindRawMaterial, info.Ref.Kind)

	// a raw material lookup never resolves packaging ids
	_, err = raw.Find(db, bag.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	packaging, err := ledger.Materials(model.KindPackagingMaterial)
	require.NoError(t, err)
	info, err = packaging.Find(db, bag.ID)
	require.NoError(t, err)
	testutil.AssertDecimal(t, "200", info.UnitCost)

	_, err = ledger.Materials(model.MaterialKind("FUEL"))
	assert.Error(t, err)
}

func TestStockLedger_ListStockIsScopedToHub(t *testing.T) {
	db, ledger, maize := newLedgerFixture(t)
	other := NewStockLedger(db, "BRANCH-1", NewMovementRepo(db))
	ref := model.RawMaterialRef(maize.ID)

	_, err := ledger.Credit(db, ref, decimal.NewFromInt(10), model.MovementMeta{})
	require.NoError(t, err)
	_, err = other.Credit(db, ref, decimal.NewFromInt(99), model.MovementMeta{})
	require.NoError(t, err)

	rows, err := ledger.ListStock(model.KindRawMaterial)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	testutil.AssertDecimal(t, "10", rows[0].CurrentStock)
}
