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

// OperationRepository persists surgical operations and keeps their OPERATION
// billing rows in sync. Create appends the operation note to the patient's
// most recent visit when one exists.
type OperationRepository interface {
	CreateWithBilling(ctx context.Context, op *models.Operation, billing *models.Billing, visitNote string) error
	GetByID(ctx context.Context, id int64) (*models.Operation, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Operation, error)
	GetAll(ctx context.Context, tenantID, patientID int64) ([]models.Operation, error)
	UpdateWithBilling(ctx context.Context, op *models.Operation) error
	SoftDeleteWithBilling(ctx context.Context, op *models.Operation) error
}

type operationRepository struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewOperationRepository(db *gorm.DB, cache *cache.Cache) OperationRepository {
	return &operationRepository{db: db, cache: cache}
}

// CreateWithBilling creates the operation and its billing row in one
// transaction, and appends visitNote to the patient's latest visit.
func (r *operationRepository) CreateWithBilling(ctx context.Context, op *models.Operation, billing *models.Billing, visitNote string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(op).Error; err != nil {
			return err
		}
		billing.PatientID = op.PatientID
		if err := tx.Create(billing).Error; err != nil {
			return err
		}
		if visitNote == "" {
			return nil
		}
		var visit models.Visit
		err := tx.Where("patient_id = ?", op.PatientID).
			Order("created_at DESC").
			First(&visit).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		notes := visit.Notes
		if notes != "" {
			notes += "\n"
		}
		notes += visitNote
		return tx.Model(&models.Visit{}).Where("id = ?", visit.ID).
			UpdateColumn("notes", notes).Error
	})
	if err != nil {
		return err
	}
	r.invalidatePatientCaches(ctx)
	return nil
}

func (r *operationRepository) GetByID(ctx context.Context, id int64) (*models.Operation, error) {
	var op models.Operation
	err := r.db.WithContext(ctx).First(&op, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return &op, nil
}

func (r *operationRepository) GetByIDAny(ctx context.Context, id int64) (*models.Operation, error) {
	var op models.Operation
	err := r.db.WithContext(ctx).Unscoped().First(&op, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get operation: %w", err)
	}
	return &op, nil
}

// GetAll lists tenant operations, optionally narrowed to one patient.
func (r *operationRepository) GetAll(ctx context.Context, tenantID, patientID int64) ([]models.Operation, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}
	var ops []models.Operation
	if err := query.Order("operation_date DESC").Find(&ops).Error; err != nil {
		return nil, fmt.Errorf("failed to get all operations: %w", err)
	}
	return ops, nil
}

// UpdateWithBilling updates the operation and mirrors a fee change onto the
// patient's most recent OPERATION billing row.
func (r *operationRepository) UpdateWithBilling(ctx context.Context, op *models.Operation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Model(&models.Operation{}).Where("id = ?", op.ID).
			Updates(map[string]interface{}{
				"doctor_id":      op.DoctorID,
				"fee":            op.Fee,
				"operation_date": op.OperationDate,
				"outcome":        op.Outcome,
			}).Error
		if err != nil {
			return err
		}
		billing, err := latestOperationBilling(tx, op.PatientID)
		if err != nil {
			return err
		}
		if billing == nil {
			return nil
		}
		return tx.Model(&models.Billing{}).
			Where("billing_id = ?", billing.BillingID).
			UpdateColumn("amount", op.Fee).Error
	})
	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}
	r.invalidatePatientCaches(ctx)
	return nil
}

// SoftDeleteWithBilling soft-deletes the operation together with the
// patient's most recent OPERATION billing row.
func (r *operationRepository) SoftDeleteWithBilling(ctx context.Context, op *models.Operation) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.Operation{}, op.ID).Error; err != nil {
			return err
		}
		billing, err := latestOperationBilling(tx, op.PatientID)
		if err != nil {
			return err
		}
		if billing == nil {
			return nil
		}
		return tx.Where("billing_id = ?", billing.BillingID).
			Delete(&models.Billing{}).Error
	})
	if err != nil {
		return fmt.Errorf("failed to delete operation: %w", err)
	}
	r.invalidatePatientCaches(ctx)
	return nil
}

func latestOperationBilling(tx *gorm.DB, patientID int64) (*models.Billing, error) {
	var billing models.Billing
	err := tx.Where("patient_id = ? AND billing_type = ?", patientID, models.BillingTypeOperation).
		Order("created_at DESC").
		First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &billing, nil
}

func (r *operationRepository) invalidatePatientCaches(ctx context.Context) {
	if err := r.cache.DeleteAll(ctx, "patient_cache:*"); err != nil {
		log.Printf("Failed to invalidate patient caches: %v", err)
	}
}
