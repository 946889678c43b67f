package gormrepo

import (
	"context"

	"hrflow-backend/internal/domain/document"
	"hrflow-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func repos(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Requests:  &RequestRepository{db: tx},
		Documents: &DocumentRepository{db: tx},
		Punches:   &PunchRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(repos(tx))
	})
}

func (u *GormUoW) WithinDocumentTx(ctx context.Context, requestID string, fn func(r uow.Repos, d *document.Request) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := repos(tx)
		// lock the row up-front so concurrent fulfil/reject serialise
		d, err := r.Documents.GetByRequestIDForUpdate(ctx, requestID)
		if err != nil {
			return err
		}
		return fn(r, d)
	})
}
