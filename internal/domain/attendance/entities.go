package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

type Label string

const (
	LabelIn      Label = "IN"
	LabelOut     Label = "OUT"
	LabelUnknown Label = "Unknown"
)

// Punch is one stored badge event. PunchedAt is always UTC.
type Punch struct {
	ID         uint64    `gorm:"primaryKey;column:id" json:"id"`
	EmployeeID uint64    `gorm:"uniqueIndex:ux_pointing_employee_time;column:employee_id" json:"employee_id"`
	PunchedAt  time.Time `gorm:"uniqueIndex:ux_pointing_employee_time;column:log_time" json:"log_time"`
	Label      Label     `gorm:"size:8;column:status" json:"status"`
	DeviceID   *uint64   `gorm:"column:device_id" json:"device_id,omitempty"`
	CreatedAt  time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Punch) TableName() string { return "pointing" }

// Device is a registered badge terminal reachable through the device bridge.
type Device struct {
	ID        uint64    `gorm:"primaryKey;column:id" json:"id"`
	Name      string    `gorm:"size:100" json:"name"`
	Address   string    `gorm:"size:255;uniqueIndex" json:"address"`
	Plant     string    `gorm:"size:64" json:"plant"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

func (Device) TableName() string { return "pointeuses" }

// RawPunch is a record as reported by a terminal, before normalisation.
type RawPunch struct {
	BadgeID   string `json:"user_id"`
	Timestamp string `json:"record_time"`
	RawState  string `json:"state,omitempty"`
}

type IngestError struct {
	Record RawPunch `json:"record"`
	Reason string   `json:"reason"`
}

type IngestResult struct {
	Added   int           `json:"added"`
	Skipped int           `json:"skipped"`
	Errors  []IngestError `json:"errors"`
}

// Day is the derived attendance of one employee on one local calendar day.
type Day struct {
	Date    string          `json:"date"`
	FirstIn *time.Time      `json:"first_in,omitempty"`
	LastOut *time.Time      `json:"last_out,omitempty"`
	Hours   decimal.Decimal `json:"hours"`
	Late    bool            `json:"late"`
}

type Week struct {
	Year  int             `json:"year"`
	Week  int             `json:"week"`
	Hours decimal.Decimal `json:"hours"`
}

type RangeSummary struct {
	EmployeeID uint64          `json:"employee_id"`
	Days       []Day           `json:"days"`
	Weeks      []Week          `json:"weeks"`
	RawTotal   decimal.Decimal `json:"raw_total"`
	Total      decimal.Decimal `json:"total"`
	Cap        decimal.Decimal `json:"cap,omitempty"`
	IsCapped   bool            `json:"is_capped"`
}
