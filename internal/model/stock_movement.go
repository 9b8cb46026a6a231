package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type MovementType string

const (
	MovementIn  MovementType = "IN"
	MovementOut MovementType = "OUT"
)

// StockMovement is the audit row written for every hub stock debit/credit.
type StockMovement struct {
	BaseModel
	MaterialKind MaterialKind    `gorm:"type:varchar(30);not null;index:idx_movement_item" json:"material_kind"`
	MaterialID   uuid.UUID       `gorm:"type:uuid;not null;index:idx_movement_item" json:"material_id"`
	LocationID   string          `gorm:"type:varchar(64);not null" json:"location_id"`
	Type         MovementType    `gorm:"type:varchar(10);not null" json:"type"`
	Quantity     decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	BalanceAfter decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"balance_after"`
	BatchID      *uuid.UUID      `gorm:"type:uuid;index" json:"batch_id,omitempty"`
	Note         string          `json:"note"`
}

// MovementMeta describes why a stock row is being changed.
type MovementMeta struct {
	BatchID *uuid.UUID
	Actor   string
	Note    string
}
