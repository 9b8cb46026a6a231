package model

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UnitStatus string

const (
	UnitSealed    UnitStatus = "SEALED"
	UnitOpened    UnitStatus = "OPENED"
	UnitSold      UnitStatus = "SOLD"
	UnitAllocated UnitStatus = "ALLOCATED"
)

// FinishedGoodUnit is one physical bag. Rows are created only when a batch
// completes; sales and transfers mutate Status afterwards.
type FinishedGoodUnit struct {
	BaseModel
	ProductID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_id"`
	Product       *Product   `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	BatchID       uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_unit_batch_seq,priority:1" json:"batch_id"`
	ProductLineID uuid.UUID  `gorm:"type:uuid;not null;index" json:"product_line_id"`
	Sequence      int        `gorm:"not null;uniqueIndex:idx_unit_batch_seq,priority:2" json:"sequence"`
	SerialNumber  string     `gorm:"type:varchar(64);uniqueIndex;not null" json:"serial_number"`
	LocationID    string     `gorm:"type:varchar(64);not null;index" json:"location_id"`
	Status        UnitStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	ProductionDate time.Time `gorm:"type:date;not null" json:"production_date"`
	ExpiryDate     time.Time `gorm:"type:date;not null" json:"expiry_date"`
}

// UnitLabel is the payload encoded into a bag's barcode/QR code. Rendering
// the image is left to the label printer integration.
type UnitLabel struct {
	SerialNumber   string `json:"serial_number"`
	ProductSKU     string `json:"product_sku"`
	BatchNumber    string `json:"batch_number"`
	ProductionDate string `json:"production_date"`
	ExpiryDate     string `json:"expiry_date"`
}

func (u *FinishedGoodUnit) Label(sku, batchNumber string) UnitLabel {
	return UnitLabel{
		SerialNumber:   u.SerialNumber,
		ProductSKU:     sku,
		BatchNumber:    batchNumber,
		ProductionDate: u.ProductionDate.Format("2006-01-02"),
		ExpiryDate:     u.ExpiryDate.Format("2006-01-02"),
	}
}

// Payload is the pipe-delimited string printed into the code.
func (l UnitLabel) Payload() string {
	return strings.Join([]string{l.SerialNumber, l.ProductSKU, l.BatchNumber, l.ProductionDate, l.ExpiryDate}, "|")
}
