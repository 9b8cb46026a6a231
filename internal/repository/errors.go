package repository

import (
	"errors"
	"fmt"

	"feedmill-production/internal/model"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

var (
	ErrNotFound          = errors.New("record not found")
	ErrInsufficientStock = errors.New("insufficient stock")
)

// InsufficientStockError reports a debit that would have driven a hub
// stock counter below zero.
type InsufficientStockError struct {
	Ref        model.MaterialRef
	LocationID string
	Requested  decimal.Decimal
	Available  decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s at %s: requested %s, available %s",
		e.Ref, e.LocationID, e.Requested, e.Available)
}

func (e *InsufficientStockError) Unwrap() error {
	return ErrInsufficientStock
}

// notFound maps gorm's sentinel onto ErrNotFound with the missing entity named.
func notFound(err error, what string, id interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s %v: %w", what, id, ErrNotFound)
	}
	return err
}
