package repository

import (
	"feedmill-production/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	FindByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error)
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) FindByID(tx *gorm.DB, id uuid.UUID) (*model.Product, error) {
	if tx == nil {
		tx = r.db
	}
	var product model.Product
	if err := tx.First(&product, "id = ?", id).Error; err != nil {
		return nil, notFound(err, "product", id)
	}
	return &product, nil
}
