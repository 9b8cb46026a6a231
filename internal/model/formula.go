package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Formula is a recipe owned by formula management. The production engine
// only reads it.
type Formula struct {
	BaseModel
	Code        string              `gorm:"type:varchar(50);uniqueIndex;not null" json:"code"`
	Name        string              `gorm:"type:varchar(255);not null" json:"name"`
	TargetYield decimal.Decimal     `gorm:"type:decimal(18,4);not null" json:"target_yield"`
	YieldUnit   string              `gorm:"type:varchar(20);not null" json:"yield_unit"`
	Ingredients []FormulaIngredient `gorm:"foreignKey:FormulaID" json:"ingredients"`
}

// FormulaIngredient is the quantity of one raw material needed per single
// batch unit of the formula.
type FormulaIngredient struct {
	LineModel
	FormulaID     uuid.UUID       `gorm:"type:uuid;not null;index" json:"formula_id"`
	RawMaterialID uuid.UUID       `gorm:"type:uuid;not null" json:"raw_material_id"`
	RawMaterial   *RawMaterial    `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
	Quantity      decimal.Decimal `gorm:"type:decimal(18,4);not null" json:"quantity"`
	Position      int             `gorm:"not null;default:0" json:"position"`
}
