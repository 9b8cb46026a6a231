package model

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaterialKind tags the stock-keeping variants held at the hub. The set is
// closed: every lookup resolves the kind once at the boundary.
type MaterialKind string

const (
	KindRawMaterial       MaterialKind = "RAW_MATERIAL"
	KindPackagingMaterial MaterialKind = "PACKAGING_MATERIAL"
)

func (k MaterialKind) Valid() bool {
	return k == KindRawMaterial || k == KindPackagingMaterial
}

// MaterialRef points at one stock-keeping item of a given kind.
type MaterialRef struct {
	Kind MaterialKind `json:"kind"`
	ID   uuid.UUID    `json:"id"`
}

func (r MaterialRef) String() string {
	return fmt.Sprintf("%s:%s", r.Kind, r.ID)
}

func RawMaterialRef(id uuid.UUID) MaterialRef {
	return MaterialRef{Kind: KindRawMaterial, ID: id}
}

func PackagingMaterialRef(id uuid.UUID) MaterialRef {
	return MaterialRef{Kind: KindPackagingMaterial, ID: id}
}

// RawMaterial is an ingredient consumed by formulas (maize, soya, premix...).
type RawMaterial struct {
	BaseModel
	Code     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit     string          `gorm:"type:varchar(20);not null" json:"unit" validate:"required"`
	UnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_cost"`
}

// PackagingMaterial is an empty bag/sack; one is consumed per finished unit.
type PackagingMaterial struct {
	BaseModel
	Code     string          `gorm:"type:varchar(50);uniqueIndex;not null" json:"code" validate:"required"`
	Name     string          `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	UnitCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"unit_cost"`
}

// HubStock is the current-stock counter of one material at one location.
type HubStock struct {
	LineModel
	MaterialKind MaterialKind    `gorm:"type:varchar(30);not null;uniqueIndex:idx_hub_stock_item" json:"material_kind"`
	MaterialID   uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_hub_stock_item" json:"material_id"`
	LocationID   string          `gorm:"type:varchar(64);not null;uniqueIndex:idx_hub_stock_item" json:"location_id"`
	CurrentStock decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"current_stock"`
}

func (HubStock) TableName() string {
	return "hub_stocks"
}
