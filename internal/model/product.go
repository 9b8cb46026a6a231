package model

// Product is a catalog finished good (e.g. "Layer Mash 25KG"). Physical
// units of it are FinishedGoodUnit rows.
type Product struct {
	BaseModel
	SKU  string `gorm:"type:varchar(50);uniqueIndex;not null" json:"sku" validate:"required"`
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Unit string `gorm:"type:varchar(20)" json:"unit"`
}
