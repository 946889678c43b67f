package employee

import "context"

type Repository interface {
	// GetByID returns apperr.ErrNotFound when the id is unknown.
	GetByID(ctx context.Context, id uint64) (*Employee, error)
	ListByPlant(ctx context.Context, plant string) ([]Employee, error)
	ListByDevice(ctx context.Context, deviceID uint64) ([]Employee, error)
}
