package repository

import (
	"feedmill-production/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// FormulaRepository is a read-only view of formula management's recipes.
type FormulaRepository interface {
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Formula, error)
	FindAll() ([]model.Formula, error)
}

type formulaRepo struct {
	db *gorm.DB
}

func NewFormulaRepo(db *gorm.DB) FormulaRepository {
	return &formulaRepo{db}
}

func (r *formulaRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Formula, error) {
	if tx == nil {
		tx = r.db
	}
	var formula model.Formula
	err := tx.Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
		return db.Order("position ASC")
	}).First(&formula, "id = ?", id).Error
	if err != nil {
		return nil, notFound(err, "formula", id)
	}
	return &formula, nil
}

func (r *formulaRepo) FindAll() ([]model.Formula, error) {
	var formulas []model.Formula
	err := r.db.Order("name ASC").Find(&formulas).Error
	return formulas, err
}
