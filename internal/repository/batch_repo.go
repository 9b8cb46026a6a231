package repository

import (
	"feedmill-production/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BatchRepository interface {
	Create(tx *gorm.DB, batch *model.Batch) error
	FindByID(id uuid.UUID) (*model.Batch, error)
	FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Batch, error)
	FindAll(status model.BatchStatus) ([]model.Batch, error)

	// Transition applies updates only while the batch is in one of from.
	// It reports false when the row was not in an allowed state.
	Transition(tx *gorm.DB, id uuid.UUID, from []model.BatchStatus, updates map[string]interface{}) (bool, error)
	AddPackagingCost(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error

	SetActualQuantity(tx *gorm.DB, lineID uuid.UUID, qty decimal.Decimal) error
	CreateProductLine(tx *gorm.DB, line *model.BatchProductLine) error
}

type batchRepo struct {
	db *gorm.DB
}

func NewBatchRepo(db *gorm.DB) BatchRepository {
	return &batchRepo{db}
}

// Create persists the header together with its material lines.
func (r *batchRepo) Create(tx *gorm.DB, batch *model.Batch) error {
	return tx.Create(batch).Error
}

func (r *batchRepo) FindByID(id uuid.UUID) (*model.Batch, error) {
	var batch model.Batch
	err := r.db.Preload("Formula").
		Preload("MaterialLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at ASC")
		}).
		Preload("MaterialLines.RawMaterial").
		Preload("ProductLines", func(db *gorm.DB) *gorm.DB {
			return db.Order("first_sequence ASC")
		}).
		Preload("ProductLines.Product").
		Preload("ProductLines.PackagingMaterial").
		First(&batch, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "batch", id)
	}
	return &batch, nil
}

// FindForUpdate locks the header row and loads its material lines.
func (r *batchRepo) FindForUpdate(tx *gorm.DB, id uuid.UUID) (*model.Batch, error) {
	var batch model.Batch
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&batch, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "batch", id)
	}
	if err := tx.Where("batch_id = ?", id).Order("created_at ASC").Find(&batch.MaterialLines).Error; err != nil {
		return nil, err
	}
	return &batch, nil
}

func (r *batchRepo) FindAll(status model.BatchStatus) ([]model.Batch, error) {
	var batches []model.Batch
	query := r.db.Preload("Formula").Order("created_at DESC")
	if status != "" {
		query = query.Where("status = ?", status)
	}
	err := query.Find(&batches).Error
	return batches, err
}

func (r *batchRepo) Transition(tx *gorm.DB, id uuid.UUID, from []model.BatchStatus, updates map[string]interface{}) (bool, error) {
	res := tx.Model(&model.Batch{}).
		Where("id = ? AND status IN ?", id, from).
		Updates(updates)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// AddPackagingCost only ever adds to the cost columns.
func (r *batchRepo) AddPackagingCost(tx *gorm.DB, id uuid.UUID, amount decimal.Decimal) error {
	if amount.IsZero() {
		return nil
	}
	return tx.Model(&model.Batch{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"packaging_cost":  gorm.Expr("packaging_cost + ?", amount),
			"production_cost": gorm.Expr("production_cost + ?", amount),
		}).Error
}

func (r *batchRepo) SetActualQuantity(tx *gorm.DB, lineID uuid.UUID, qty decimal.Decimal) error {
	return tx.Model(&model.BatchMaterialLine{}).
		Where("id = ?", lineID).
		Update("actual_quantity", qty).Error
}

func (r *batchRepo) CreateProductLine(tx *gorm.DB, line *model.BatchProductLine) error {
	return tx.Create(line).Error
}
