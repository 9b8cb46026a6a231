package repository

import (
	"feedmill-production/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MovementRepository interface {
	Create(tx *gorm.DB, movement *model.StockMovement) error
	FindByBatch(batchID uuid.UUID) ([]model.StockMovement, error)
	FindByMaterial(ref model.MaterialRef, limit int) ([]model.StockMovement, error)
}

type movementRepo struct {
	db *gorm.DB
}

func NewMovementRepo(db *gorm.DB) MovementRepository {
	return &movementRepo{db}
}

// Create receives *gorm.DB (tx) so the audit row commits with the stock change.
func (r *movementRepo) Create(tx *gorm.DB, movement *model.StockMovement) error {
	return tx.Create(movement).Error
}

func (r *movementRepo) FindByBatch(batchID uuid.UUID) ([]model.StockMovement, error) {
	var movements []model.StockMovement
	err := r.db.Where("batch_id = ?", batchID).
		Order("created_at ASC").
		Find(&movements).Error
	return movements, err
}

func (r *movementRepo) FindByMaterial(ref model.MaterialRef, limit int) ([]model.StockMovement, error) {
	if limit <= 0 {
		limit = 50
	}
	var movements []model.StockMovement
	err := r.db.Where("material_kind = ? AND material_id = ?", ref.Kind, ref.ID).
		Order("created_at DESC").
		Limit(limit).
		Find(&movements).Error
	return movements, err
}
