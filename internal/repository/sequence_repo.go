package repository

import (
	"fmt"

	"feedmill-production/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// SequenceRepository hands out gap-free ranges of numbers per scope.
type SequenceRepository interface {
	// Reserve claims n consecutive values in scope and returns the first.
	// The counter never falls below floor, so rows numbered before the
	// counter existed are never reissued. The counter row stays locked by
	// tx until it commits.
	Reserve(tx *gorm.DB, scope string, n int, floor int64) (int64, error)
}

type sequenceRepo struct {
	db *gorm.DB
}

func NewSequenceRepo(db *gorm.DB) SequenceRepository {
	return &sequenceRepo{db}
}

func (r *sequenceRepo) Reserve(tx *gorm.DB, scope string, n int, floor int64) (int64, error) {
	if n < 1 {
		return 0, fmt.Errorf("reserve %q: count must be at least 1, got %d", scope, n)
	}

	seed := model.SequenceCounter{Scope: scope, LastValue: floor}
	if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&seed).Error; err != nil {
		return 0, err
	}

	res := tx.Model(&model.SequenceCounter{}).
		Where("scope = ?", scope).
		Update("last_value", gorm.Expr("(CASE WHEN last_value < ? THEN ? ELSE last_value END) + ?", floor, floor, n))
	if res.Error != nil {
		return 0, res.Error
	}
	if res.RowsAffected == 0 {
		return 0, fmt.Errorf("sequence scope %q: %w", scope, ErrNotFound)
	}

	var counter model.SequenceCounter
	if err := tx.First(&counter, "scope = ?", scope).Error; err != nil {
		return 0, err
	}
	return counter.LastValue - int64(n) + 1, nil
}
