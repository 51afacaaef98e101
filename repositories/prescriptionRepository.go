package repositories

import (
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type PrescriptionRepository interface {
	Create(ctx context.Context, prescription *models.Prescription) error
	GetByID(ctx context.Context, id int64) (*models.Prescription, error)
	GetByIDAny(ctx context.Context, id int64) (*models.Prescription, error)
	GetAll(ctx context.Context, tenantID, visitID int64) ([]models.Prescription, error)
	Update(ctx context.Context, prescription *models.Prescription) error
	SoftDelete(ctx context.Context, id int64) error
}

type prescriptionRepository struct {
	db *gorm.DB
}

func NewPrescriptionRepository(db *gorm.DB) PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

func (r *prescriptionRepository) Create(ctx context.Context, prescription *models.Prescription) error {
	if err := r.db.WithContext(ctx).Create(prescription).Error; err != nil {
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id int64) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).First(&prescription, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

func (r *prescriptionRepository) GetByIDAny(ctx context.Context, id int64) (*models.Prescription, error) {
	var prescription models.Prescription
	err := r.db.WithContext(ctx).Unscoped().First(&prescription, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get prescription: %w", err)
	}
	return &prescription, nil
}

// GetAll lists tenant prescriptions, optionally narrowed to one visit.
func (r *prescriptionRepository) GetAll(ctx context.Context, tenantID, visitID int64) ([]models.Prescription, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if visitID != 0 {
		query = query.Where("visit_id = ?", visitID)
	}
	var prescriptions []models.Prescription
	if err := query.Order("created_at DESC").Find(&prescriptions).Error; err != nil {
		return nil, fmt.Errorf("failed to get all prescriptions: %w", err)
	}
	return prescriptions, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, prescription *models.Prescription) error {
	err := r.db.WithContext(ctx).Model(&models.Prescription{}).
		Where("id = ?", prescription.ID).
		UpdateColumn("entries", prescription.Entries).Error
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) SoftDelete(ctx context.Context, id int64) error {
	if err := r.db.WithContext(ctx).Delete(&models.Prescription{}, id).Error; err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	return nil
}
