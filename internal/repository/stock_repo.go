package repository

import (
	"errors"
	"fmt"

	"feedmill-production/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// MaterialInfo is the kind-independent view of a raw or packaging material.
type MaterialInfo struct {
	Ref      model.MaterialRef `json:"ref"`
	Code     string            `json:"code"`
	Name     string            `json:"name"`
	Unit     string            `json:"unit"`
	UnitCost decimal.Decimal   `json:"unit_cost"`
}

// MaterialLookup resolves materials of exactly one kind.
type MaterialLookup interface {
	Kind() model.MaterialKind
	Find(tx *gorm.DB, id uuid.UUID) (*MaterialInfo, error)
}

// StockLedger reads and mutates the hub's stock counters. Mutating calls
// take the caller's transaction so they commit or roll back with it.
type StockLedger interface {
	LocationID() string
	Materials(kind model.MaterialKind) (MaterialLookup, error)
	CurrentStock(tx *gorm.DB, ref model.MaterialRef) (decimal.Decimal, error)
	// Debit decrements stock only if the result stays non-negative and
	// returns the balance after the debit.
	Debit(tx *gorm.DB, ref model.MaterialRef, qty decimal.Decimal, meta model.MovementMeta) (decimal.Decimal, error)
	Credit(tx *gorm.DB, ref model.MaterialRef, qty decimal.Decimal, meta model.MovementMeta) (decimal.Decimal, error)
	ListStock(kind model.MaterialKind) ([]model.HubStock, error)
}

type stockLedger struct {
	db         *gorm.DB
	locationID string
	movements  MovementRepository
	lookups    map[model.MaterialKind]MaterialLookup
}

func NewStockLedger(db *gorm.DB, locationID string, movements MovementRepository) StockLedger {
	return &stockLedger{
		db:         db,
		locationID: locationID,
		movements:  movements,
		lookups: map[model.MaterialKind]MaterialLookup{
			model.KindRawMaterial:       rawMaterialLookup{},
			model.KindPackagingMaterial: packagingMaterialLookup{},
		},
	}
}

func (l *stockLedger) LocationID() string {
	return l.locationID
}

func (l *stockLedger) Materials(kind model.MaterialKind) (MaterialLookup, error) {
	lookup, ok := l.lookups[kind]
	if !ok {
		return nil, fmt.Errorf("unknown material kind %q", kind)
	}
	return lookup, nil
}

func (l *stockLedger) stockRow(tx *gorm.DB, ref model.MaterialRef) *gorm.DB {
	return tx.Model(&model.HubStock{}).
		Where("material_kind = ? AND material_id = ? AND location_id = ?", ref.Kind, ref.ID, l.locationID)
}

// CurrentStock treats a material without a stock row at the hub as zero.
func (l *stockLedger) CurrentStock(tx *gorm.DB, ref model.MaterialRef) (decimal.Decimal, error) {
	var row model.HubStock
	err := l.stockRow(tx, ref).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return decimal.Zero, nil
	}
	if err != nil {
		return decimal.Zero, err
	}
	return row.CurrentStock, nil
}

func (l *stockLedger) Debit(tx *gorm.DB, ref model.MaterialRef, qty decimal.Decimal, meta model.MovementMeta) (decimal.Decimal, error) {
	if qty.IsNegative() {
		return decimal.Zero, fmt.Errorf("debit of %s: negative quantity %s", ref, qty)
	}
	if qty.IsZero() {
		return l.CurrentStock(tx, ref)
	}

	// Conditional decrement: concurrent debits cannot both pass the floor check.
	res := l.stockRow(tx, ref).
		Where("current_stock >= ?", qty).
		Update("current_stock", gorm.Expr("current_stock - ?", qty))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		available, err := l.CurrentStock(tx, ref)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.Zero, &InsufficientStockError{
			Ref:        ref,
			LocationID: l.locationID,
			Requested:  qty,
			Available:  available,
		}
	}

	balance, err := l.CurrentStock(tx, ref)
	if err != nil {
		return decimal.Zero, err
	}
	if err := l.record(tx, ref, model.MovementOut, qty, balance, meta); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (l *stockLedger) Credit(tx *gorm.DB, ref model.MaterialRef, qty decimal.Decimal, meta model.MovementMeta) (decimal.Decimal, error) {
	if !qty.IsPositive() {
		return decimal.Zero, fmt.Errorf("credit of %s: quantity must be positive, got %s", ref, qty)
	}

	res := l.stockRow(tx, ref).Update("current_stock", gorm.Expr("current_stock + ?", qty))
	if res.Error != nil {
		return decimal.Zero, res.Error
	}
	if res.RowsAffected == 0 {
		row := model.HubStock{
			MaterialKind: ref.Kind,
			MaterialID:   ref.ID,
			LocationID:   l.locationID,
			CurrentStock: qty,
		}
		if err := tx.Create(&row).Error; err != nil {
			return decimal.Zero, err
		}
	}

	balance, err := l.CurrentStock(tx, ref)
	if err != nil {
		return decimal.Zero, err
	}
	if err := l.record(tx, ref, model.MovementIn, qty, balance, meta); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}

func (l *stockLedger) record(tx *gorm.DB, ref model.MaterialRef, typ model.MovementType, qty, balance decimal.Decimal, meta model.MovementMeta) error {
	m := &model.StockMovement{
		MaterialKind: ref.Kind,
		MaterialID:   ref.ID,
		LocationID:   l.locationID,
		Type:         typ,
		Quantity:     qty,
		BalanceAfter: balance,
		BatchID:      meta.BatchID,
		Note:         meta.Note,
	}
	m.CreatedBy = meta.Actor
	m.UpdatedBy = meta.Actor
	return l.movements.Create(tx, m)
}

func (l *stockLedger) ListStock(kind model.MaterialKind) ([]model.HubStock, error) {
	var rows []model.HubStock
	err := l.db.Where("material_kind = ? AND location_id = ?", kind, l.locationID).
		Order("material_id ASC").
		Find(&rows).Error
	return rows, err
}

type rawMaterialLookup struct{}

func (rawMaterialLookup) Kind() model.MaterialKind { return model.KindRawMaterial }

func (rawMaterialLookup) Find(tx *gorm.DB, id uuid.UUID) (*MaterialInfo, error) {
	var m model.RawMaterial
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "raw material", id)
	}
	return &MaterialInfo{
		Ref:      model.RawMaterialRef(m.ID),
		Code:     m.Code,
		Name:     m.Name,
		Unit:     m.Unit,
		UnitCost: m.UnitCost,
	}, nil
}

type packagingMaterialLookup struct{}

func (packagingMaterialLookup) Kind() model.MaterialKind { return model.KindPackagingMaterial }

func (packagingMaterialLookup) Find(tx *gorm.DB, id uuid.UUID) (*MaterialInfo, error) {
	var m model.PackagingMaterial
	if err := tx.First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "packaging material", id)
	}
	return &MaterialInfo{
		Ref:      model.PackagingMaterialRef(m.ID),
		Code:     m.Code,
		Name:     m.Name,
		Unit:     "pcs",
		UnitCost: m.UnitCost,
	}, nil
}
