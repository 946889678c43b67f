package attendance

import (
	"time"
	_ "time/tzdata" // device zone must resolve on hosts without zoneinfo

	"github.com/shopspring/decimal"
)

type Config struct {
	// Location is the zone terminals report local time in; calendar days are cut here.
	Location *time.Location
	// Badges at or above BadgeBlockThreshold carry a block prefix; id % BadgeBlockModulo is the employee.
	BadgeBlockThreshold uint64
	BadgeBlockModulo    uint64
	// Days of at least LunchThreshold hours lose LunchDeduction hours.
	LunchThreshold decimal.Decimal
	LunchDeduction decimal.Decimal
	MonthlyCap     decimal.Decimal
	// LateAfter is the offset from local midnight after which a first IN is late.
	LateAfter       time.Duration
	DeviceTimeout   time.Duration
	SyncConcurrency int
}

func DefaultConfig() Config {
	loc, err := time.LoadLocation("Africa/Tunis")
	if err != nil {
		loc = time.FixedZone("CET", 3600)
	}
	return Config{
		Location:            loc,
		BadgeBlockThreshold: 40000,
		BadgeBlockModulo:    10000,
		LunchThreshold:      decimal.NewFromInt(9),
		LunchDeduction:      decimal.NewFromInt(1),
		MonthlyCap:          decimal.RequireFromString("173.33"),
		LateAfter:           8*time.Hour + 30*time.Minute,
		DeviceTimeout:       30 * time.Second,
		SyncConcurrency:     4,
	}
}
