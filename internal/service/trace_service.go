package service

import (
	"context"

	"feedmill-production/internal/model"
	"feedmill-production/internal/repository"
)

// UnitTrace ties a serialized unit back to the batch that produced it.
type UnitTrace struct {
	Unit        *model.FinishedGoodUnit `json:"unit"`
	BatchNumber string                  `json:"batch_number"`
	FormulaName string                  `json:"formula_name,omitempty"`
	Label       model.UnitLabel         `json:"label"`
	Payload     string                  `json:"payload"`
}

type TraceService interface {
	TraceUnit(ctx context.Context, serial string) (*UnitTrace, error)
}

type traceService struct {
	units     repository.UnitRepository
	batchRepo repository.BatchRepository
}

func NewTraceService(units repository.UnitRepository, batchRepo repository.BatchRepository) TraceService {
	return &traceService{units: units, batchRepo: batchRepo}
}

func (s *traceService) TraceUnit(ctx context.Context, serial string) (*UnitTrace, error) {
	unit, err := s.units.FindBySerial(serial)
	if err != nil {
		return nil, err
	}
	batch, err := s.batchRepo.FindByID(unit.BatchID)
	if err != nil {
		return nil, err
	}

	sku := ""
	if unit.Product != nil {
		sku = unit.Product.SKU
	}
	label := unit.Label(sku, batch.BatchNumber)
	trace := &UnitTrace{
		Unit:        unit,
		BatchNumber: batch.BatchNumber,
		Label:       label,
		Payload:     label.Payload(),
	}
	if batch.Formula != nil {
		trace.FormulaName = batch.Formula.Name
	}
	return trace, nil
}
