package document

import (
	"time"

	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusCompleted Status = "Completed"
	StatusRejected  Status = "Rejected"
)

func (s Status) Terminal() bool { return s == StatusCompleted || s == StatusRejected }

// Request is a single-approver document request (work certificate, payslip copy...).
type Request struct {
	ID                uint64         `gorm:"primaryKey;column:id" json:"-"`
	RequestID         string         `gorm:"size:32;uniqueIndex:ux_document_requests_request_id" json:"request_id"`
	EmployeeID        uint64         `gorm:"index" json:"employee_id"`
	DocumentType      string         `gorm:"size:64" json:"document_type"`
	Status            Status         `gorm:"size:16;index" json:"status"`
	CurrentApproverID *uint64        `gorm:"index" json:"current_approver_id"`
	FilePath          string         `gorm:"type:text" json:"file_path,omitempty"`
	CreatedAt         time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt         time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt         gorm.DeletedAt `gorm:"index" json:"-"`
	DeletedBy         *uint64        `json:"-"`
}

func (Request) TableName() string { return "document_requests" }
