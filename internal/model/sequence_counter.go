package model

import "time"

// SequenceCounter holds the last value handed out for one numbering scope
// (daily batch numbers, per batch-product serial sequences).
type SequenceCounter struct {
	Scope     string    `gorm:"type:varchar(128);primaryKey" json:"scope"`
	LastValue int64     `gorm:"not null;default:0" json:"last_value"`
	UpdatedAt time.Time `json:"updated_at"`
}
