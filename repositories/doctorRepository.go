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

// DoctorRepository persists doctor profiles together with their underlying
// User and UserTenant membership; the triple is created, soft-deleted, and
// restored atomically.
type DoctorRepository interface {
	CreateWithUser(ctx context.Context, user *models.User, doctor *models.Doctor, membership *models.UserTenant) error
	GetByID(ctx context.Context, id int64) (*models.Doctor, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Doctor, error)
	GetAll(ctx context.Context, tenantID int64) ([]models.Doctor, error)
	EmployeeCodeExists(ctx context.Context, tenantID int64, code string, excludeID int64) (bool, error)
	Update(ctx context.Context, doctor *models.Doctor) error
	SoftDeleteWithUser(ctx context.Context, doctor *models.Doctor) error
	RestoreWithUser(ctx context.Context, doctor *models.Doctor) error
}

type doctorRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewDoctorRepository(db *gorm.DB, cache *cache.Cache) DoctorRepository {
	return &doctorRepository{db: db, cache: cache}
}

func (r *doctorRepository) CreateWithUser(ctx context.Context, user *models.User, doctor *models.Doctor, membership *models.UserTenant) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		doctor.UserID = user.ID
		if err := tx.Create(doctor).Error; err != nil {
			return err
		}
		membership.UserID = user.ID
		membership.TenantID = doctor.TenantID
		return tx.Create(membership).Error
	})
}

func (r *doctorRepository) GetByID(ctx context.Context, id int64) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, email, name, role, created_at, updated_at")
		}).
		First(&doctor, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByIDAny(ctx context.Context, id int64) (*models.Doctor, error) {
	var doctor models.Doctor
	err := r.db.WithContext(ctx).Unscoped().First(&doctor, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetAll(ctx context.Context, tenantID int64) ([]models.Doctor, error) {
	var doctors []models.Doctor
	err := r.db.WithContext(ctx).
		Preload("User", func(db *gorm.DB) *gorm.DB {
			return db.Select("id, email, name, role, created_at, updated_at")
		}).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&doctors).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all doctors: %w", err)
	}
	return doctors, nil
}

// EmployeeCodeExists checks tenant-scoped uniqueness, optionally ignoring
// one row so updates can keep their own code.
func (r *doctorRepository) EmployeeCodeExists(ctx context.Context, tenantID int64, code string, excludeID int64) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Doctor{}).
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

func (r *doctorRepository) Update(ctx context.Context, doctor *models.Doctor) error {
	err := r.db.WithContext(ctx).Model(&models.Doctor{}).
		Where("id = ?", doctor.ID).
		Updates(map[string]interface{}{
			"employee_code": doctor.EmployeeCode,
			"specialty":     doctor.Specialty,
			"phone":         doctor.Phone,
			"is_active":     doctor.IsActive,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
	}
	return nil
}

// SoftDeleteWithUser soft-deletes the doctor, its user, and its membership
// together, and deactivates the profile.
func (r *doctorRepository) SoftDeleteWithUser(ctx context.Context, doctor *models.Doctor) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Doctor{}).Where("id = ?", doctor.ID).
			Update("is_active", false).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.Doctor{}, doctor.ID).Error; err != nil {
			return err
		}
		if err := tx.Delete(&models.User{}, doctor.UserID).Error; err != nil {
			return err
		}
		return tx.Where("user_id = ? AND tenant_id = ?", doctor.UserID, doctor.TenantID).
			Delete(&models.UserTenant{}).Error
	})
	if err != nil {
		return err
	}
	r.dropCaches(ctx, doctor)
	return nil
}

// RestoreWithUser clears the delete timestamps on the triple and
// reactivates the profile.
func (r *doctorRepository) RestoreWithUser(ctx context.Context, doctor *models.Doctor) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Model(&models.Doctor{}).Where("id = ?", doctor.ID).
			Updates(map[string]interface{}{"deleted_at": nil, "is_active": true}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Model(&models.User{}).Where("id = ?", doctor.UserID).
			Update("deleted_at", nil).Error; err != nil {
			return err
		}
		return tx.Unscoped().Model(&models.UserTenant{}).
			Where("user_id = ? AND tenant_id = ?", doctor.UserID, doctor.TenantID).
			Update("deleted_at", nil).Error
	})
	if err != nil {
		return err
	}
	r.dropCaches(ctx, doctor)
	return nil
}

func (r *doctorRepository) dropCaches(ctx context.Context, doctor *models.Doctor) {
	if err := r.cache.Delete(ctx, MembershipCacheKey(doctor.UserID, doctor.TenantID)); err != nil {
		log.Printf("Failed to delete membership cache: %v", err)
	}
	if err := r.cache.Delete(ctx, UserCacheKey(doctor.UserID)); err != nil {
		log.Printf("Failed to delete user cache: %v", err)
	}
}
