package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
)

type PrescriptionService struct {
	prescriptions repositories.PrescriptionRepository
	visits        repositories.VisitRepository
	memberships   *MembershipService
}

func NewPrescriptionService(prescriptions repositories.PrescriptionRepository, visits repositories.VisitRepository, memberships *MembershipService) *PrescriptionService {
	return &PrescriptionService{prescriptions: prescriptions, visits: visits, memberships: memberships}
}

// Create attaches a prescription to a visit in the caller's tenant.
func (s *PrescriptionService) Create(ctx context.Context, caller Caller, prescription *models.Prescription) (*models.Prescription, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	if err := utils.ValidatePrescriptionEntries(prescription.Entries); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if _, err := s.ownedVisit(ctx, caller, prescription.VisitID); err != nil {
		return nil, err
	}

	prescription.TenantID = caller.TenantID
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, ErrInternal("failed to create prescription", err)
	}
	return prescription, nil
}

// GetAll lists the tenant's prescriptions; visitID narrows to one visit
// when non-zero.
func (s *PrescriptionService) GetAll(ctx context.Context, caller Caller, visitID int64) ([]models.Prescription, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	if visitID != 0 {
		if _, err := s.ownedVisit(ctx, caller, visitID); err != nil {
			return nil, err
		}
	}
	prescriptions, err := s.prescriptions.GetAll(ctx, caller.TenantID, visitID)
	if err != nil {
		return nil, ErrInternal("failed to get prescriptions", err)
	}
	return prescriptions, nil
}

func (s *PrescriptionService) GetByID(ctx context.Context, caller Caller, id int64) (*models.Prescription, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, id)
}

func (s *PrescriptionService) Update(ctx context.Context, caller Caller, prescription *models.Prescription) (*models.Prescription, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	if _, err := s.getOwned(ctx, caller, prescription.ID); err != nil {
		return nil, err
	}
	if err := utils.ValidatePrescriptionEntries(prescription.Entries); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if err := s.prescriptions.Update(ctx, prescription); err != nil {
		return nil, ErrInternal("failed to update prescription", err)
	}
	return s.getOwned(ctx, caller, prescription.ID)
}

// Remove soft-deletes a prescription. Removing twice reports it already
// deleted.
func (s *PrescriptionService) Remove(ctx context.Context, caller Caller, id int64) error {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return err
	}

	prescription, err := s.prescriptions.GetByIDAny(ctx, id)
	if err != nil {
		return ErrInternal("failed to get prescription", err)
	}
	if prescription == nil || prescription.TenantID != caller.TenantID {
		return ErrNotFound("prescription not found")
	}
	if prescription.DeletedAt.Valid {
		return ErrNotFound("prescription already deleted")
	}

	if err := s.prescriptions.SoftDelete(ctx, id); err != nil {
		return ErrInternal("failed to remove prescription", err)
	}
	return nil
}

func (s *PrescriptionService) getOwned(ctx context.Context, caller Caller, id int64) (*models.Prescription, error) {
	prescription, err := s.prescriptions.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get prescription", err)
	}
	if prescription == nil || prescription.TenantID != caller.TenantID {
		return nil, ErrNotFound("prescription not found")
	}
	return prescription, nil
}

func (s *PrescriptionService) ownedVisit(ctx context.Context, caller Caller, visitID int64) (*models.Visit, error) {
	visit, err := s.visits.GetByID(ctx, visitID)
	if err != nil {
		return nil, ErrInternal("failed to get visit", err)
	}
	if visit == nil || visit.TenantID != caller.TenantID {
		return nil, ErrNotFound("visit not found")
	}
	return visit, nil
}
