package repositories

import (
	"ClinicCore/cache"
	"ClinicCore/database"
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const PatientCacheExpiry = 7 * 24 * time.Hour

// PatientRepository persists patient rows together with their registration
// side effects (initial billing and initial visit).
type PatientRepository interface {
	CreateWithRegistration(ctx context.Context, patient *models.Patient, billing *models.Billing, visit *models.Visit) error
	GetByID(ctx context.Context, id int64) (*models.Patient, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Patient, error)
	GetAll(ctx context.Context, tenantID int64) ([]models.Patient, error)
	CountAllTime(ctx context.Context, tenantID int64) (int64, error)
	Update(ctx context.Context, patient *models.Patient) error
	SoftDelete(ctx context.Context, id int64) error
}

type patientRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewPatientRepository(db *gorm.DB, cache *cache.Cache) PatientRepository {
	return &patientRepository{db: db, cache: cache}
}

// CreateWithRegistration creates the patient, its REGISTRATION billing row,
// and the initial visit in one transaction. A distributed lock keyed by the
// patient's identity fields guards against double registration.
func (r *patientRepository) CreateWithRegistration(ctx context.Context, patient *models.Patient, billing *models.Billing, visit *models.Visit) error {
	lockKey := fmt.Sprintf("patient_lock:%d_%s_%s_%s", patient.TenantID, patient.FirstName, patient.LastName, patient.DateOfBirth)
	lockValue := uuid.New().String()

	maxRetries := 3
	retryDelay := 2 * time.Second
	var locked bool
	var err error
	for i := 0; i < maxRetries; i++ {
		locked, err = database.NewLock(ctx, lockKey, lockValue, 10*time.Second)
		if err == nil && locked {
			break
		}
		if i < maxRetries-1 {
			time.Sleep(retryDelay)
		}
	}
	if !locked {
		return fmt.Errorf("failed to acquire lock after retries: %w", err)
	}
	defer func() {
		if err := database.ReleaseLock(ctx, lockKey, lockValue); err != nil {
			log.Printf("Failed to release lock: %v", err)
		}
	}()

	err = r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(patient).Error; err != nil {
			return err
		}
		billing.PatientID = patient.ID
		if err := tx.Create(billing).Error; err != nil {
			return err
		}
		visit.PatientID = patient.ID
		return tx.Create(visit).Error
	})
	if err != nil {
		return err
	}

	return r.invalidateTenantCaches(ctx, patient.TenantID)
}

func (r *patientRepository) GetByID(ctx context.Context, id int64) (*models.Patient, error) {
	cacheKey := r.getPatientCacheKey(id)
	var cached models.Patient
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return &cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get patient from cache: %v", err)
	}

	var patient models.Patient
	err := r.db.WithContext(ctx).
		Preload("Visits", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		Preload("Billings", func(db *gorm.DB) *gorm.DB {
			return db.Order("created_at DESC")
		}).
		First(&patient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patient, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patient in cache: %v", err)
	}

	return &patient, nil
}

// GetByIDAny fetches the row even when soft-deleted, so delete can report
// "already deleted" distinctly from plain absence.
func (r *patientRepository) GetByIDAny(ctx context.Context, id int64) (*models.Patient, error) {
	var patient models.Patient
	err := r.db.WithContext(ctx).Unscoped().First(&patient, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetAll(ctx context.Context, tenantID int64) ([]models.Patient, error) {
	cacheKey := r.getPatientsCacheKey(tenantID)
	var cached []models.Patient
	if err := r.cache.GetJSON(ctx, cacheKey, &cached); err == nil {
		return cached, nil
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Printf("Failed to get patients from cache: %v", err)
	}

	var patients []models.Patient
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("created_at DESC").
		Find(&patients).Error
	if err != nil {
		return nil, fmt.Errorf("failed to get all patients: %w", err)
	}

	if err := r.cache.SetJSON(ctx, cacheKey, patients, PatientCacheExpiry); err != nil {
		log.Printf("Failed to set patients in cache: %v", err)
	}

	return patients, nil
}

// CountAllTime counts every patient ever created in the tenant, including
// soft-deleted rows, so patient numbers are never reused.
func (r *patientRepository) CountAllTime(ctx context.Context, tenantID int64) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Unscoped().Model(&models.Patient{}).
		Where("tenant_id = ?", tenantID).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("failed to count patients: %w", err)
	}
	return count, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *models.Patient) error {
	err := r.db.WithContext(ctx).Model(&models.Patient{}).
		Where("id = ?", patient.ID).
		Updates(map[string]interface{}{
			"first_name":       patient.FirstName,
			"last_name":        patient.LastName,
			"sex":              patient.Sex,
			"date_of_birth":    patient.DateOfBirth,
			"phone":            patient.Phone,
			"address":          patient.Address,
			"registration_fee": patient.RegistrationFee,
			"doctor_id":        patient.DoctorID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
	}
	return r.invalidateTenantCaches(ctx, patient.TenantID)
}

func (r *patientRepository) SoftDelete(ctx context.Context, id int64) error {
	var patient models.Patient
	if err := r.db.WithContext(ctx).First(&patient, id).Error; err != nil {
		return fmt.Errorf("failed to fetch patient for delete: %w", err)
	}
	if err := r.db.WithContext(ctx).Delete(&models.Patient{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return r.invalidateTenantCaches(ctx, patient.TenantID)
}

func (r *patientRepository) invalidateTenantCaches(ctx context.Context, tenantID int64) error {
	if err := r.cache.DeleteAll(ctx, "patient_cache:*"); err != nil {
		return fmt.Errorf("failed to delete patient cache: %w", err)
	}
	return r.cache.Delete(ctx, r.getPatientsCacheKey(tenantID))
}

func (r *patientRepository) getPatientCacheKey(patientID int64) string {
	return fmt.Sprintf("patient_cache:%d", patientID)
}

func (r *patientRepository) getPatientsCacheKey(tenantID int64) string {
	return fmt.Sprintf("patients_cache:%d", tenantID)
}
