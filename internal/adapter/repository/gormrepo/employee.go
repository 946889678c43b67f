package gormrepo

import (
	"context"
	"fmt"
	"time"

	domain "hrflow-backend/internal/domain/employee"

	"github.com/patrickmn/go-cache"
	"gorm.io/gorm"
)

// EmployeeRepository reads the HR directory table; it never writes.
type EmployeeRepository struct{ db *gorm.DB }

func NewEmployeeRepository(db *gorm.DB) *EmployeeRepository { return &EmployeeRepository{db: db} }

func (r *EmployeeRepository) GetByID(ctx context.Context, id uint64) (*domain.Employee, error) {
	var out domain.Employee
	if err := r.db.WithContext(ctx).First(&out, id).Error; err != nil {
		return nil, notFound(err, "employee %d", id)
	}
	return &out, nil
}

func (r *EmployeeRepository) ListByPlant(ctx context.Context, plant string) ([]domain.Employee, error) {
	var out []domain.Employee
	err := r.db.WithContext(ctx).Where("plant_connection = ?", plant).Order("id").Find(&out).Error
	return out, err
}

func (r *EmployeeRepository) ListByDevice(ctx context.Context, deviceID uint64) ([]domain.Employee, error) {
	var out []domain.Employee
	err := r.db.WithContext(ctx).Where("pointeuse_id = ?", deviceID).Order("id").Find(&out).Error
	return out, err
}

// CachedEmployees keeps GetByID results for ttl. Chains and mail lookups hit
// the same few managers over and over.
type CachedEmployees struct {
	next  domain.Repository
	cache *cache.Cache
}

func NewCachedEmployees(next domain.Repository, ttl time.Duration) *CachedEmployees {
	return &CachedEmployees{next: next, cache: cache.New(ttl, 2*ttl)}
}

func (c *CachedEmployees) GetByID(ctx context.Context, id uint64) (*domain.Employee, error) {
	key := fmt.Sprintf("employee:%d", id)
	if v, ok := c.cache.Get(key); ok {
		e := v.(domain.Employee)
		return &e, nil
	}
	e, err := c.next.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c.cache.SetDefault(key, *e)
	return e, nil
}

// ListByPlant is not cached; plant rosters change with hires.
func (c *CachedEmployees) ListByPlant(ctx context.Context, plant string) ([]domain.Employee, error) {
	return c.next.ListByPlant(ctx, plant)
}

func (c *CachedEmployees) ListByDevice(ctx context.Context, deviceID uint64) ([]domain.Employee, error) {
	return c.next.ListByDevice(ctx, deviceID)
}

func (c *CachedEmployees) Forget(id uint64) { c.cache.Delete(fmt.Sprintf("employee:%d", id)) }
