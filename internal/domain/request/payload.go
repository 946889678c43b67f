package request

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

const DateLayout = "2006-01-02"

// Payload is the kind-specific body of a request. Only the lifecycle engine
// treats it as an opaque blob; handlers and typed callers see the struct.
type Payload interface {
	Kind() Kind
	// Period is the inclusive date range the request covers.
	Period() (time.Time, time.Time, error)
}

type LeavePayload struct {
	LeaveType         string `json:"leave_type" validate:"required,max=64"`
	Phone             string `json:"phone" validate:"omitempty,max=32"`
	StartDate         string `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate           string `json:"end_date" validate:"required,datetime=2006-01-02"`
	Justification     string `json:"justification" validate:"omitempty,max=1000"`
	JustificationFile string `json:"justification_file,omitempty"`
}

func (LeavePayload) Kind() Kind { return KindLeave }
func (p LeavePayload) Period() (time.Time, time.Time, error) {
	return parsePeriod(p.StartDate, p.EndDate)
}

type MissionPayload struct {
	Phone           string          `json:"phone" validate:"omitempty,max=32"`
	StartDate       string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	EndDate         string          `json:"end_date" validate:"required,datetime=2006-01-02"`
	MissionBudget   decimal.Decimal `json:"mission_budget"`
	PurposeOfTravel string          `json:"purpose_of_travel" validate:"required,max=1000"`
	Destination     string          `json:"destination" validate:"required,max=255"`
	DepartureTime   string          `json:"departure_time" validate:"omitempty,datetime=15:04"`
}

func (MissionPayload) Kind() Kind { return KindMission }
func (p MissionPayload) Period() (time.Time, time.Time, error) {
	if p.MissionBudget.IsNegative() {
		return time.Time{}, time.Time{}, fmt.Errorf("mission_budget must not be negative")
	}
	return parsePeriod(p.StartDate, p.EndDate)
}

type AuthorizationPayload struct {
	Phone                  string `json:"phone" validate:"omitempty,max=32"`
	AuthorizationDate      string `json:"authorization_date" validate:"required,datetime=2006-01-02"`
	DepartureTime          string `json:"departure_time" validate:"required,datetime=15:04"`
	ReturnTime             string `json:"return_time" validate:"required,datetime=15:04"`
	PurposeOfAuthorization string `json:"purpose_of_authorization" validate:"required,max=1000"`
}

func (AuthorizationPayload) Kind() Kind { return KindAuthorization }
func (p AuthorizationPayload) Period() (time.Time, time.Time, error) {
	d, err := time.Parse(DateLayout, p.AuthorizationDate)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("authorization_date: %w", err)
	}
	if p.ReturnTime < p.DepartureTime {
		return time.Time{}, time.Time{}, fmt.Errorf("return_time before departure_time")
	}
	return d, d, nil
}

func parsePeriod(start, end string) (time.Time, time.Time, error) {
	s, err := time.Parse(DateLayout, start)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("start_date: %w", err)
	}
	e, err := time.Parse(DateLayout, end)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date: %w", err)
	}
	if e.Before(s) {
		return time.Time{}, time.Time{}, fmt.Errorf("end_date before start_date")
	}
	return s, e, nil
}
