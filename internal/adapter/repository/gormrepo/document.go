package gormrepo

import (
	"context"

	"hrflow-backend/internal/domain/apperr"
	domain "hrflow-backend/internal/domain/document"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DocumentRepository struct{ db *gorm.DB }

func NewDocumentRepository(db *gorm.DB) *DocumentRepository { return &DocumentRepository{db: db} }

func (r *DocumentRepository) Create(ctx context.Context, d *domain.Request) error {
	return duplicate(r.db.WithContext(ctx).Create(d).Error, "document request %s already exists", d.RequestID)
}

func (r *DocumentRepository) GetByRequestID(ctx context.Context, requestID string) (*domain.Request, error) {
	var out domain.Request
	if err := r.db.WithContext(ctx).Where("request_id = ?", requestID).First(&out).Error; err != nil {
		return nil, notFound(err, "document request %s", requestID)
	}
	return &out, nil
}

// GetByRequestIDForUpdate takes a row lock (SELECT ... FOR UPDATE); sqlite drops the clause.
func (r *DocumentRepository) GetByRequestIDForUpdate(ctx context.Context, requestID string) (*domain.Request, error) {
	var out domain.Request
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("request_id = ?", requestID).
		First(&out).Error
	if err != nil {
		return nil, notFound(err, "document request %s", requestID)
	}
	return &out, nil
}

func (r *DocumentRepository) Save(ctx context.Context, d *domain.Request) error {
	return r.db.WithContext(ctx).Save(d).Error
}

func (r *DocumentRepository) ListForApprover(ctx context.Context, approverID uint64) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("current_approver_id = ?", approverID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *DocumentRepository) ListByEmployee(ctx context.Context, employeeID uint64) ([]domain.Request, error) {
	var out []domain.Request
	err := r.db.WithContext(ctx).
		Where("employee_id = ?", employeeID).
		Order("created_at DESC, id DESC").
		Find(&out).Error
	return out, err
}

func (r *DocumentRepository) Delete(ctx context.Context, requestID string, deletedBy uint64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&domain.Request{}).Where("request_id = ?", requestID).Update("deleted_by", deletedBy)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return apperr.NotFound("document request %s", requestID)
		}
		return tx.Where("request_id = ?", requestID).Delete(&domain.Request{}).Error
	})
}
