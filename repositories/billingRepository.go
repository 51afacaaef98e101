package repositories

import (
	"ClinicCore/models"
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

type BillingRepository interface {
	GetByID(ctx context.Context, billingID string) (*models.Billing, error)
	GetAll(ctx context.Context, tenantID, patientID int64) ([]models.Billing, error)
	UpdateStatus(ctx context.Context, billingID, status string) error
}

type billingRepository struct {
	db *gorm.DB
}

func NewBillingRepository(db *gorm.DB) BillingRepository {
	return &billingRepository{db: db}
}

func (r *billingRepository) GetByID(ctx context.Context, billingID string) (*models.Billing, error) {
	var billing models.Billing
	err := r.db.WithContext(ctx).Where("billing_id = ?", billingID).First(&billing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get billing: %w", err)
	}
	return &billing, nil
}

// GetAll lists tenant billings, optionally narrowed to one patient.
func (r *billingRepository) GetAll(ctx context.Context, tenantID, patientID int64) ([]models.Billing, error) {
	query := r.db.WithContext(ctx).Where("tenant_id = ?", tenantID)
	if patientID != 0 {
		query = query.Where("patient_id = ?", patientID)
	}
	var billings []models.Billing
	if err := query.Order("created_at DESC").Find(&billings).Error; err != nil {
		return nil, fmt.Errorf("failed to get all billings: %w", err)
	}
	return billings, nil
}

func (r *billingRepository) UpdateStatus(ctx context.Context, billingID, status string) error {
	err := r.db.WithContext(ctx).Model(&models.Billing{}).
		Where("billing_id = ?", billingID).
		UpdateColumn("status", status).Error
	if err != nil {
		return fmt.Errorf("failed to update billing status: %w", err)
	}
	return nil
}
