package repositories

import (
	"ClinicCore/cache"
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"
	"log"

	"gorm.io/gorm"
)

// StaffRepository mirrors DoctorRepository for staff profiles: the profile,
// its User, and its membership move together.
type StaffRepository interface {
	CreateWithUser(ctx context.Context, user *models.User, staff *models.Staff, membership *models.UserTenant) error
	GetByID(ctx context.Context, id int64) (*models.Staff, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Staff, error)
	GetAll(ctx context.Context, tenantID int64) ([]models.Staff, error)
	EmployeeCodeExists(ctx context.Context, tenantID int64, code string, excludeID int64) (bool, error)
	Update(ctx context.Context, staff *models.Staff) error
	SoftDeleteWithUser(ctx context.Context, staff *models.Staff) error
	RestoreWithUser(ctx context.Context, staff *models.Staff) error
}

type staffRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewStaffRepository(db *gorm.DB, cache *cache.Cache) StaffRepository {
	return &staffRepository{db: db, cache: cache}
}

func (r *staffRepository) CreateWithUser(ctx context.Context, user *models.User, staff *models.Staff, membership *models.UserTenant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		staff.UserID = user.ID
		if err := tx.Create(staff).Error; err != nil {
			return err
		}
		membership.UserID = user.ID
		membership.TenantID = staff.TenantID
		return tx.Create(membership).Error
	})
}

func (r *staffRepository) GetByID(ctx context.Context, id int64) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, email, name, role, created_at, updated_at")
		}).
		First(&staff, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) GetByIDAny(ctx context.Context, id int64) (*models.Staff, error) {
	var staff models.Staff
	err := r.db.WithContext(ctx).Unscoped().First(&staff, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get staff: %w", err)
	}
	return &staff, nil
}

func (r *staffRepository) GetAll(ctx context.Context, tenantID int64) ([]models.Staff, error) {
	var staffList []models.Staff
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, email, name, role, created_at, updated_at")
		}).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&staffList).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all staff: %w", err)
	}
	return staffList, nil
}

func (r *staffRepository) EmployeeCodeExists(ctx context.Context, tenantID int64, code string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Staff{}).
		Where("tenant_id = ? AND employee_code = ?", tenantID, code)
	if excludeID != 0 {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, fmt.Errorf("failed to check employee code: %w", err)
	}
	return count > 0, nil
}

func (r *staffRepository) Update(ctx context.Context, staff *models.Staff) error {
	err := r.db.WithContext(ctx).Model(&models.Staff{}).
		Where("id = ?", staff.ID).
		Updates(map[string]interface{}{
			"employee_code": staff.EmployeeCode,
			"phone":         staff.Phone,
			"is_active":     staff.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update staff: %w", err)
	}
	return nil
}

func (r *staffRepository) SoftDeleteWithUser(ctx context.Context, staff *models.Staff) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Staff{}).Where("id = ?", staff.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Staff{}, staff.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, staff.UserID).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND tenant_id = ?", staff.UserID, staff.TenantID).
			Delete(&models.UserTenant{}).Error
	})
	if err != nil {
		return err
	}
	r.dropCaches(ctx, staff)
	return nil
}

func (r *staffRepository) RestoreWithUser(ctx context.Context, staff *models.Staff) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Staff{}).Where("id = ?", staff.ID).
			Updates(map[string]interface{}{"deleted_at": nil, "is_active": true}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Model(&models.User{}).Where("id = ?", staff.UserID).
			Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Model(&models.UserTenant{}).
			Where("user_id = ? AND tenant_id = ?", staff.UserID, staff.TenantID).
			Update("deleted_at", nil).Error
	})
	if err != nil {
		return err
	}
	r.dropCaches(ctx, staff)
	return nil
}

func (r *staffRepository) dropCaches(ctx context.Context, staff *models.Staff) {
	if err := r.cache.Delete(ctx, MembershipCacheKey(staff.UserID, staff.TenantID)); err != nil {
		log.Printf("Failed to delete membership cache: %v", err)
	}
	if err := r.cache.Delete(ctx, UserCacheKey(staff.UserID)); err != nil {
		log.Printf("Failed to delete user cache: %v", err)
	}
}
