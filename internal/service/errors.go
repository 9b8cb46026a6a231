package service

import (
	"errors"
	"fmt"
	"strings"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"
	"feedmill-production/pkg/validator"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrFormulaUnavailable        = errors.New("formula unavailable: ingredient stock is short")
	ErrInvalidTransition         = errors.New("invalid batch transition")
	ErrInsufficientStock         = repository.ErrInsufficientStock
	ErrNotFound                  = repository.ErrNotFound
	ErrPackagingMaterialNotFound = errors.New("packaging material not found")
	ErrValidation                = errors.New("validation failed")
)

// Shortage is one ingredient that cannot be covered by hub stock.
type Shortage struct {
	RawMaterialID uuid.UUID       `json:"raw_material_id"`
	Name          string          `json:"name"`
	Required      decimal.Decimal `json:"required"`
	Available     decimal.Decimal `json:"available"`
	Short         decimal.Decimal `json:"short"`
}

// ShortageError is returned when a batch cannot be created from current stock.
type ShortageError struct {
	FormulaID uuid.UUID
	BatchSize int
	Shortages []Shortage
}

func (e *ShortageError) Error() string {
	names := make([]string, len(e.Shortages))
	for i, s := range e.Shortages {
		names[i] = fmt.Sprintf("%s short by %s", s.Name, s.Short)
	}
	return fmt.Sprintf("formula %s x%d unavailable: %s", e.FormulaID, e.BatchSize, strings.Join(names, ", "))
}

func (e *ShortageError) Unwrap() error {
	return ErrFormulaUnavailable
}

// TransitionError names the lifecycle operation refused and the state the
// batch was in at the time.
type TransitionError struct {
	BatchID uuid.UUID
	Op      string
	From    model.BatchStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot %s batch %s in status %s", e.Op, e.BatchID, e.From)
}

func (e *TransitionError) Unwrap() error {
	return ErrInvalidTransition
}

// ValidationError carries the first failing field of a request.
type ValidationError struct {
	Field string
	Tag   string
	Msg   string
}

func (e *ValidationError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("Validation failed: %s", e.Msg)
	}
	return fmt.Sprintf("Validation failed: Field '%s' failed on tag '%s'", e.Field, e.Tag)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

func invalid(msg string) error {
	return &ValidationError{Msg: msg}
}

func validate(req interface{}) error {
	if errs := validator.ValidateStruct(req); len(errs) > 0 {
		return &ValidationError{Field: errs[0].FailedField, Tag: errs[0].Tag}
	}
	return nil
}
