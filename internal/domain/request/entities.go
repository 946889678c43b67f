package request

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Kind string

const (
	KindLeave         Kind = "leave"
	KindMission       Kind = "mission"
	KindAuthorization Kind = "authorization"
)

func (k Kind) Valid() bool {
	switch k {
	case KindLeave, KindMission, KindAuthorization:
		return true
	}
	return false
}

type Status string

const (
	StatusPending                 Status = "Pending"
	StatusUnderPlantManagerReview Status = "Under Plant Manager Review"
	StatusUnderCEOReview          Status = "Under CEO Review"
	StatusApproved                Status = "Approved"
	StatusRejected                Status = "Rejected"
)

func (s Status) Terminal() bool { return s == StatusApproved || s == StatusRejected }

type Tier string

const (
	TierManager      Tier = "Manager"
	TierPlantManager Tier = "PlantManager"
	TierCEO          Tier = "CEO"
)

// TierStatus is empty when the tier is not part of the request's chain.
type TierStatus string

const (
	TierNone     TierStatus = ""
	TierPending  TierStatus = "Pending"
	TierApproved TierStatus = "Approved"
	TierRejected TierStatus = "Rejected"
	TierSkipped  TierStatus = "Skipped"
)

type Decision string

const (
	DecisionApproved Decision = "Approved"
	DecisionRejected Decision = "Rejected"
)

func (d Decision) Valid() bool { return d == DecisionApproved || d == DecisionRejected }

// Step is one resolved position of an approval chain.
type Step struct {
	Tier       Tier   `json:"tier"`
	ApproverID uint64 `json:"approver_id"`
}

type Request struct {
	ID                         uint64                    `gorm:"primaryKey;column:id" json:"-"`
	RequestID                  string                    `gorm:"size:32;uniqueIndex:ux_requests_request_id" json:"request_id"`
	Kind                       Kind                      `gorm:"size:16;index:idx_requests_kind_employee" json:"kind"`
	EmployeeID                 uint64                    `gorm:"index:idx_requests_kind_employee" json:"employee_id"`
	Payload                    datatypes.JSON            `json:"payload"`
	StartsOn                   time.Time                 `gorm:"type:date" json:"starts_on"`
	EndsOn                     time.Time                 `gorm:"type:date" json:"ends_on"`
	Status                     Status                    `gorm:"size:32;index" json:"status"`
	ManagerApprovalStatus      TierStatus                `gorm:"size:16" json:"manager_approval_status"`
	PlantManagerApprovalStatus TierStatus                `gorm:"size:16" json:"plant_manager_approval_status"`
	CEOApprovalStatus          TierStatus                `gorm:"column:ceo_approval_status;size:16" json:"ceo_approval_status"`
	CurrentApproverID          *uint64                   `gorm:"index" json:"current_approver_id"`
	NextApproverID             *uint64                   `gorm:"index" json:"next_approver_id"`
	Chain                      datatypes.JSONSlice[Step] `json:"chain"`
	Version                    uint64                    `gorm:"not null;default:0" json:"version"`
	DecidedAt                  *time.Time                `json:"decided_at,omitempty"`
	CreatedAt                  time.Time                 `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt                  time.Time                 `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt                  gorm.DeletedAt            `gorm:"index" json:"-"`
	DeletedBy                  *uint64                   `json:"-"`
}

func (Request) TableName() string { return "requests" }

func (r *Request) TierStatus(t Tier) TierStatus {
	switch t {
	case TierManager:
		return r.ManagerApprovalStatus
	case TierPlantManager:
		return r.PlantManagerApprovalStatus
	case TierCEO:
		return r.CEOApprovalStatus
	}
	return TierNone
}

func (r *Request) SetTierStatus(t Tier, s TierStatus) {
	switch t {
	case TierManager:
		r.ManagerApprovalStatus = s
	case TierPlantManager:
		r.PlantManagerApprovalStatus = s
	case TierCEO:
		r.CEOApprovalStatus = s
	}
}

// Outstanding returns the index of the first chain step still pending, or -1.
func (r *Request) Outstanding() int {
	for i, s := range r.Chain {
		if r.TierStatus(s.Tier) == TierPending {
			return i
		}
	}
	return -1
}

// StepOf returns the chain index of tier t, or -1.
func (r *Request) StepOf(t Tier) int {
	for i, s := range r.Chain {
		if s.Tier == t {
			return i
		}
	}
	return -1
}

// ReviewStatus is the non-terminal status shown while tier t is outstanding.
func ReviewStatus(t Tier) Status {
	switch t {
	case TierPlantManager:
		return StatusUnderPlantManagerReview
	case TierCEO:
		return StatusUnderCEOReview
	}
	return StatusPending
}

// PlantStatistics is the headline block of a plant dashboard.
type PlantStatistics struct {
	LeaveRequests         int64 `json:"total_leave_requests"`
	MissionRequests       int64 `json:"total_mission_requests"`
	AuthorizationRequests int64 `json:"total_authorization_requests"`
	Employees             int64 `json:"total_employees"`
	OnLeave               int64 `json:"total_on_leave"`
}

// EmployeeRequestCount is a dashboard projection.
type EmployeeRequestCount struct {
	EmployeeID uint64 `json:"employee_id"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Kind       Kind   `json:"kind"`
	Total      int64  `json:"total"`
}
