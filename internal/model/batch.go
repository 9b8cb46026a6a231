package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BatchStatus string

const (
	BatchPlanned    BatchStatus = "PLANNED"
	BatchInProgress BatchStatus = "IN_PROGRESS"
	BatchPaused     BatchStatus = "PAUSED"
	BatchCompleted  BatchStatus = "COMPLETED"
	BatchCancelled  BatchStatus = "CANCELLED"
)

func (s BatchStatus) Valid() bool {
	switch s {
	case BatchPlanned, BatchInProgress, BatchPaused, BatchCompleted, BatchCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transition is possible.
func (s BatchStatus) Terminal() bool {
	return s == BatchCompleted || s == BatchCancelled
}

// Batch is one production run of a formula scaled by BatchSize.
type Batch struct {
	BaseModel
	BatchNumber string    `gorm:"type:varchar(32);uniqueIndex;not null" json:"batch_number"`
	FormulaID   uuid.UUID `gorm:"type:uuid;not null;index" json:"formula_id"`
	Formula     *Formula  `gorm:"foreignKey:FormulaID" json:"formula,omitempty"`
	LocationID  string    `gorm:"type:varchar(64);not null" json:"location_id"`
	BatchSize   int       `gorm:"not null" json:"batch_size"`

	ExpectedYield  decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"expected_yield"`
	YieldUnit      string           `gorm:"type:varchar(20);not null" json:"yield_unit"`
	ActualYield    *decimal.Decimal `gorm:"type:decimal(18,4)" json:"actual_yield"`
	WastagePercent *decimal.Decimal `gorm:"type:decimal(7,4)" json:"wastage_percent"`

	// ProductionCost = IngredientCost + PackagingCost and only ever grows.
	IngredientCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"ingredient_cost"`
	PackagingCost  decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"packaging_cost"`
	ProductionCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0" json:"production_cost"`

	Status       BatchStatus `gorm:"type:varchar(20);not null;index" json:"status"`
	StartedAt    *time.Time  `json:"started_at"`
	PausedAt     *time.Time  `json:"paused_at"`
	PauseReason  string      `gorm:"type:text" json:"pause_reason,omitempty"`
	CompletedAt  *time.Time  `json:"completed_at"`
	CancelledAt  *time.Time  `json:"cancelled_at,omitempty"`
	CancelReason string      `gorm:"type:text" json:"cancel_reason,omitempty"`
	Notes        string      `gorm:"type:text" json:"notes,omitempty"`

	ProductionOfficerID uuid.UUID `gorm:"type:uuid;not null" json:"production_officer_id"`
	SupervisorID        uuid.UUID `gorm:"type:uuid;not null" json:"supervisor_id"`

	MaterialLines []BatchMaterialLine `gorm:"foreignKey:BatchID" json:"material_lines,omitempty"`
	ProductLines  []BatchProductLine  `gorm:"foreignKey:BatchID" json:"product_lines,omitempty"`
}

// BatchMaterialLine snapshots one ingredient at batch creation. Only
// ActualQuantity changes afterwards, when the batch starts.
type BatchMaterialLine struct {
	LineModel
	BatchID         uuid.UUID        `gorm:"type:uuid;not null;index" json:"batch_id"`
	RawMaterialID   uuid.UUID        `gorm:"type:uuid;not null" json:"raw_material_id"`
	RawMaterial     *RawMaterial     `gorm:"foreignKey:RawMaterialID" json:"raw_material,omitempty"`
	PlannedQuantity decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"planned_quantity"`
	ActualQuantity  *decimal.Decimal `gorm:"type:decimal(18,4)" json:"actual_quantity"`
	UnitCost        decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"unit_cost"`
	TotalCost       decimal.Decimal  `gorm:"type:decimal(18,4);not null" json:"total_cost"`
}

// BatchProductLine records one package size produced at completion.
type BatchProductLine struct {
	LineModel
	BatchID             uuid.UUID          `gorm:"type:uuid;not null;index" json:"batch_id"`
	ProductID           uuid.UUID          `gorm:"type:uuid;not null" json:"product_id"`
	Product             *Product           `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	PackageWeight       decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"package_weight"`
	PackageUnit         WeightUnit         `gorm:"type:varchar(5);not null" json:"package_unit"`
	PackageLabel        string             `gorm:"type:varchar(20);not null" json:"package_label"`
	UnitCount           int                `gorm:"not null" json:"unit_count"`
	TotalWeightKG       decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"total_weight_kg"`
	PackagingMaterialID uuid.UUID          `gorm:"type:uuid;not null" json:"packaging_material_id"`
	PackagingMaterial   *PackagingMaterial `gorm:"foreignKey:PackagingMaterialID" json:"packaging_material,omitempty"`
	PackagingUnitCost   decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"packaging_unit_cost"`
	PackagingCost       decimal.Decimal    `gorm:"type:decimal(18,4);not null" json:"packaging_cost"`
	FirstSequence       int                `gorm:"not null" json:"first_sequence"`
	LastSequence        int                `gorm:"not null" json:"last_sequence"`
}

func (l *BatchProductLine) PackageSize() PackageSize {
	return PackageSize{Weight: l.PackageWeight, Unit: l.PackageUnit}
}
