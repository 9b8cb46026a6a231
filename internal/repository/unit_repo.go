package repository

import (
	"feedmill-production/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UnitRepository interface {
	CreateMany(tx *gorm.DB, units []model.FinishedGoodUnit) error
	MaxSequence(tx *gorm.DB, batchID uuid.UUID) (int64, error)
	FindByBatch(batchID uuid.UUID) ([]model.FinishedGoodUnit, error)
	FindBySerial(serial string) (*model.FinishedGoodUnit, error)
}

type unitRepo struct {
	db *gorm.DB
}

func NewUnitRepo(db *gorm.DB) UnitRepository {
	return &unitRepo{db}
}

func (r *unitRepo) CreateMany(tx *gorm.DB, units []model.FinishedGoodUnit) error {
	if len(units) == 0 {
		return nil
	}
	return tx.CreateInBatches(units, 200).Error
}

// MaxSequence is the highest sequence already issued in the batch,
// including soft-deleted units.
func (r *unitRepo) MaxSequence(tx *gorm.DB, batchID uuid.UUID) (int64, error) {
	var highest int64
	err := tx.Unscoped().Model(&model.FinishedGoodUnit{}).
		Where("batch_id = ?", batchID).
		Select("COALESCE(MAX(sequence), 0)").
		Scan(&highest).Error
	return highest, err
}

func (r *unitRepo) FindByBatch(batchID uuid.UUID) ([]model.FinishedGoodUnit, error) {
	var units []model.FinishedGoodUnit
	err := r.db.Preload("Product").
		Where("batch_id = ?", batchID).
		Order("sequence ASC").
		Find(&units).Error
	return units, err
}

func (r *unitRepo) FindBySerial(serial string) (*model.FinishedGoodUnit, error) {
	var unit model.FinishedGoodUnit
	if err := r.db.Preload("Product").First(&unit, "serial_number = ?", serial).Error; err != nil {
		return nil, notFound(err, "unit", serial)
	}
	return &unit, nil
}
