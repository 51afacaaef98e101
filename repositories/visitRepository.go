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

// VisitRepository persists visits together with their side effects: the
// optional registration billing row and the patient's visit counter.
type VisitRepository interface {
	CreateWithBilling(ctx context.Context, visit *models.Visit, billing *models.Billing) error
	LatestForPatient(ctx context.Context, patientID int64) (*models.Visit, error)
	GetByID(ctx context.Context, id int64) (*models.Visit, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Visit, error)
	GetAll(ctx context.Context, tenantID, patientID int64) ([]models.Visit, error)
	Update(ctx context.Context, visit *models.Visit) error
	SoftDelete(ctx context.Context, id int64) error
}

type visitRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewVisitRepository(db *gorm.DB, cache *cache.Cache) VisitRepository {
	return &visitRepository{db: db, cache: cache}
}

// CreateWithBilling creates the visit, the optional billing row, and bumps
// the patient's visit counter in one transaction.
func (r *visitRepository) CreateWithBilling(ctx context.Context, visit *models.Visit, billing *models.Billing) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(visit).Error; err != nil {
			return err
		}
		if billing != nil {
			if err := tx.Create(billing).Error; err != nil {
				return err
			}
		}
		return tx.Model(&models.Patient{}).Where("id = ?", visit.PatientID).
			UpdateColumn("no_of_visits", gorm.Expr("no_of_visits + 1")).Error
	})
	if err != nil {
		return err
	}
	r.invalidatePatientCaches(ctx)
	return nil
}

// LatestForPatient returns the most recent non-deleted visit, or nil when
// the patient has none.
func (r *visitRepository) LatestForPatient(ctx context.Context, patientID int64) (*models.Visit, error) {
	var visit models.Visit
	err := r.db.WithContext(ctx).
		Where("patient_id = ?", patientID).
		Order("created_at DESC").
		First(&visit).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get latest visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) GetByID(ctx context.Context, id int64) (*models.Visit, error) {
	var visit models.Visit
	err := r.db.WithContext(ctx).First(&visit, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

func (r *visitRepository) GetByIDAny(ctx context.Context, id int64) (*models.Visit, error) {
	var visit models.Visit
	err := r.db.WithContext(ctx).Unscoped().First(&visit, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get visit: %w", err)
	}
	return &visit, nil
}

// GetAll lists tenant visits, optionally narrowed to one patient.
func (r *visitRepository) GetAll(ctx context.Context, tenantID, patientID int64) ([]models.Visit, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}
	var visits []models.Visit
	if err := query.Order("created_at DESC").Find(&visits).Error; err != nil {
		return nil, fmt.Errorf("failed to get all visits: %w", err)
	}
	return visits, nil
}

func (r *visitRepository) Update(ctx context.Context, visit *models.Visit) error {
	err := r.db.WithContext(ctx).Model(&models.Visit{}).
		Where("id = ?", visit.ID).
		Updates(map[string]interface{}{
			"notes":            visit.Notes,
			"consultation_fee": visit.ConsultationFee,
			"doctor_id":        visit.DoctorID,
		}).Error
	if err != nil {
		return fmt.Errorf("failed to update visit: %w", err)
	}
	r.invalidatePatientCaches(ctx)
	return nil
}

func (r *visitRepository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Visit{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete visit: %w", err)
	}
	r.invalidatePatientCaches(ctx)
	return nil
}

func (r *visitRepository) invalidatePatientCaches(ctx context.Context) {
	if err := r.cache.DeleteAll(ctx, "patient_cache:*"); err != nil {
		log.Printf("Failed to invalidate patient caches: %v", err)
	}
	if err := r.cache.DeleteAll(ctx, "patients_cache:*"); err != nil {
		log.Printf("Failed to invalidate patient list caches: %v", err)
	}
}
