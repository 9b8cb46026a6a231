package service

import (
	"time"
)

// Settings are the hub-wide production parameters.
type Settings struct {
	LocationID    string
	BatchPrefix   string
	SerialPrefix  string
	ShelfLifeDays int
	Location      *time.Location

	// Now is the clock used for transition timestamps.
	Now func() time.Time
}

func (s Settings) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s Settings) loc() *time.Location {
	if s.Location != nil {
		return s.Location
	}
	return time.UTC
}

// productionDay truncates t to the calendar day at the hub.
func (s Settings) productionDay(t time.Time) time.Time {
	local := t.In(s.loc())
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.loc())
}

func (s Settings) expiryFor(productionDate time.Time) time.Time {
	return productionDate.AddDate(0, 0, s.ShelfLifeDays)
}
