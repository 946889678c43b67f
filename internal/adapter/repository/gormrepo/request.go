package gormrepo

import (
	"context"
	"time"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/request"

	"gorm.io/gorm"
)

type RequestRepository struct{ db *gorm.DB }

func NewRequestRepository(db *gorm.DB) *RequestRepository { return &RequestRepository{db: db} }

func (r *RequestRepository) Create(ctx context.Context, rq *domain.Request) error {
	return duplicate(r.db.WithContext(ctx).Create(rq).Error, "request %s already exists", rq.RequestID)
}

func (r *RequestRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	var out domain.Request
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out).Error; err != nil {
		return nil, notFound(err, "request %s", requestID)
	}
	return &out, nil
}

// UpdateDecision is a compare-and-swap on version; only decision fields are written.
func (r *RequestRepository) UpdateDecision(ctx context.Context, rq *domain.Request, expectedVersion uint64) error {
	res := r.db.WithContext(ctx).Model(&domain.Request{}).
		Where("request_id = ? AND version = ?", rq.RequestID, expectedVersion).
		Updates(map[string]any{
			"status":                        rq.Status,
			"manager_approval_status":       rq.ManagerApprovalStatus,
			"plant_manager_approval_status": rq.PlantManagerApprovalStatus,
			"ceo_approval_status":           rq.CEOApprovalStatus,
			"current_approver_id":           rq.CurrentApproverID,
			"next_approver_id":              rq.NextApproverID,
			"chain":                         rq.Chain,
			"decided_at":                    rq.DecidedAt,
			"version":                       expectedVersion + 1,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.Conflict("request %s changed since version %d", rq.RequestID, expectedVersion)
	}
	rq.Version = expectedVersion + 1
	return nil
}

func (r *RequestRepository) ListForApprover(ctx context.Context, kind domain.Kind, approverID uint64) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("kind = ? AND (current_approver_id = ? OR next_approver_id = ?)", kind, approverID, approverID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *RequestRepository) ListByEmployee(ctx context.Context, kind domain.Kind, employeeID uint64) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("kind = ? AND employee_id = ?", kind, employeeID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *RequestRepository) ListByPlant(ctx context.Context, kind domain.Kind, plant string) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Joins("JOIN users ON users.id = requests.employee_id").
		Where("requests.kind = ? AND users.plant_connection = ?", kind, plant).
		Order("requests.created_at DESC, requests.id DESC").
		Find(&out).Error
	return out, err
}

func (r *RequestRepository) CountPerEmployee(ctx context.Context, plant string) ([]domain.EmployeeRequestCount, error) {
	var out []domain.EmployeeRequestCount
	err := r.db.WithContext(ctx).Model(&domain.Request{}).
		Select("users.id AS employee_id, users.first_name, users.last_name, requests.kind, COUNT(*) AS total").
		Joins("JOIN users ON users.id = requests.employee_id").
		Where("users.plant_connection = ?", plant).
		Group("users.id, users.first_name, users.last_name, requests.kind").
		Order("users.id, requests.kind").
		Scan(&out).Error
	return out, err
}

func (r *RequestRepository) ListApprovedCovering(ctx context.Context, kind domain.Kind, plant string, day time.Time) ([]domain.Request, error) {
	d := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	q := r.db.WithContext(ctx).
		Where("requests.kind = ? AND requests.status = ?", kind, domain.StatusApproved).
		Where("requests.starts_on <= ? AND requests.ends_on >= ?", d, d)
	if plant != "" {
		q = q.Joins("JOIN users ON users.id = requests.employee_id").
			Where("users.plant_connection = ?", plant)
	}
	var out []domain.Request
	err := q.Order("requests.starts_on, requests.id").Find(&out).Error
	return out, err
}

func (r *RequestRepository) Delete(ctx context.Context, requestID string, deletedBy uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Request{}).Where("request_id = ?", requestID).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("request %s", requestID)
		}
		return tx.Where("request_id = ?", requestID).Delete(&domain.Request{}).Error
	})
}
