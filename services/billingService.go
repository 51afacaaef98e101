package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"context"
)

type BillingService struct {
	billings    repositories.BillingRepository
	patients    repositories.PatientRepository
	memberships *MembershipService
}

func NewBillingService(billings repositories.BillingRepository, patients repositories.PatientRepository, memberships *MembershipService) *BillingService {
	return &BillingService{billings: billings, patients: patients, memberships: memberships}
}

// GetAll lists the tenant's billing rows; patientID narrows to one patient
// when non-zero.
func (s *BillingService) GetAll(ctx context.Context, caller Caller, patientID int64) ([]models.Billing, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	if patientID != 0 {
		patient, err := s.patients.GetByID(ctx, patientID)
		if err != nil {
			return nil, ErrInternal("failed to get patient", err)
		}
		if patient == nil || patient.TenantID != caller.TenantID {
			return nil, ErrNotFound("patient not found")
		}
	}
	billings, err := s.billings.GetAll(ctx, caller.TenantID, patientID)
	if err != nil {
		return nil, ErrInternal("failed to get billings", err)
	}
	return billings, nil
}

func (s *BillingService) GetByID(ctx context.Context, caller Caller, billingID string) (*models.Billing, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, billingID)
}

// UpdateStatus moves a billing row through the payment lifecycle. Billing
// rows are never edited otherwise; amounts follow their source records.
func (s *BillingService) UpdateStatus(ctx context.Context, caller Caller, billingID, status string) (*models.Billing, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesBillingWrite); err != nil {
		return nil, err
	}
	switch status {
	case models.PaymentStatusUnpaid, models.PaymentStatusPartial, models.PaymentStatusPaid:
	default:
		return nil, ErrValidation("invalid payment status")
	}
	if _, err := s.getOwned(ctx, caller, billingID); err != nil {
		return nil, err
	}
	if err := s.billings.UpdateStatus(ctx, billingID, status); err != nil {
		return nil, ErrInternal("failed to update billing status", err)
	}
	return s.getOwned(ctx, caller, billingID)
}

func (s *BillingService) getOwned(ctx context.Context, caller Caller, billingID string) (*models.Billing, error) {
	billing, err := s.billings.GetByID(ctx, billingID)
	if err != nil {
		return nil, ErrInternal("failed to get billing", err)
	}
	if billing == nil || billing.TenantID != caller.TenantID {
		return nil, ErrNotFound("billing not found")
	}
	return billing, nil
}
