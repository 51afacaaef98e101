package repositories

import (
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// TenantRepository reads tenant rows; tenants are only created through the
// signup flow in UserRepository.CreateSignup.
type TenantRepository interface {
	GetByID(ctx context.Context, tenantID int64) (*models.Tenant, error)
	GetByCode(ctx context.Context, code string) (*models.Tenant, error)
	CodeExists(ctx context.Context, code string) (bool, error)
}

type tenantRepository struct {
	db *gorm.DB
}

func NewTenantRepository(db *gorm.DB) TenantRepository {
	return &tenantRepository{db: db}
}

func (r *tenantRepository) GetByID(ctx context.Context, tenantID int64) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).First(&tenant, tenantID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant: %w", err)
	}
	return &tenant, nil
}

func (r *tenantRepository) GetByCode(ctx context.Context, code string) (*models.Tenant, error) {
	var tenant models.Tenant
	err := r.db.WithContext(ctx).Where("code = ?", code).First(&tenant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get tenant by code: %w", err)
	}
	return &tenant, nil
}

// CodeExists checks soft-deleted tenants too: a code is never reissued.
func (r *tenantRepository) CodeExists(ctx context.Context, code string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Tenant{}).
		Where("code = ?", code).Count(&count).Error
	if err != nil {
		return false, fmt.Errorf("failed to check tenant code existence: %w", err)
	}
	return count > 0, nil
}
