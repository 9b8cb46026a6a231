package service

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestBatchNumber(t *testing.T) {
	day := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "PB202501010007", BatchNumber("PB", day, 7))
	assert.Equal(t, "PB202501011234", BatchNumber("PB", day, 1234))
	assert.Equal(t, "PB2025010112345", BatchNumber("PB", day, 12345))
}

func TestSerialNumber(t *testing.T) {
	assert.Equal(t, "FM-PB202501010007-001", SerialNumber("FM", "PB202501010007", 1))
	assert.Equal(t, "FM-PB202501010007-999", SerialNumber("FM", "PB202501010007", 999))
	assert.Equal(t, "FM-PB202501010007-1000", SerialNumber("FM", "PB202501010007", 1000))
}

func TestScopes(t *testing.T) {
	day := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, "batch:PB20250102", batchNumberScope("PB", day))

	id := uuid.New()
	assert.Equal(t, "serial:"+id.String(), serialScope(id))
}

func TestSettings_ProductionDayUsesHubZone(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	s := Settings{Location: jakarta, ShelfLifeDays: 90}

	// 20:00 UTC on Dec 31 is already Jan 1 at the hub
	day := s.productionDay(time.Date(2024, 12, 31, 20, 0, 0, 0, time.UTC))
	assert.Equal(t, "2025-01-01", day.Format("2006-01-02"))
	assert.Equal(t, "2025-04-01", s.expiryFor(day).Format("2006-01-02"))

	var zero Settings
	assert.Equal(t, time.UTC, zero.loc())
	assert.False(t, zero.now().IsZero())
}
