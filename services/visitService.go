package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
	"time"

	"github.com/google/uuid"
)

type VisitService struct {
	visits      repositories.VisitRepository
	patients    repositories.PatientRepository
	doctors     repositories.DoctorRepository
	memberships *MembershipService
}

func NewVisitService(visits repositories.VisitRepository, patients repositories.PatientRepository, doctors repositories.DoctorRepository, memberships *MembershipService) *VisitService {
	return &VisitService{visits: visits, patients: patients, doctors: doctors, memberships: memberships}
}

// Create records a visit. A visit within the fee waiver window of the
// previous one inherits its fee validity and charges nothing extra; outside
// the window a fresh REGISTRATION billing is raised and the window restarts.
func (s *VisitService) Create(ctx context.Context, caller Caller, visit *models.Visit) (*models.Visit, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}

	if err := utils.ValidateVisitData(*visit); err != nil {
		return nil, ErrValidation(err.Error())
	}

	patient, err := s.ownedPatient(ctx, caller, visit.PatientID)
	if err != nil {
		return nil, err
	}
	if err := s.checkDoctor(ctx, caller, visit.DoctorID); err != nil {
		return nil, err
	}

	last, err := s.visits.LatestForPatient(ctx, patient.ID)
	if err != nil {
		return nil, ErrInternal("failed to get latest visit", err)
	}

	visit.TenantID = caller.TenantID
	visit.StaffUserID = caller.UserID

	var billing *models.Billing
	if last == nil || time.Now().After(last.FeeValidUntil) {
		visit.FeeValidUntil = time.Now().Add(models.FeeWaiverWindow)
		billing = &models.Billing{
			BillingID:   uuid.New().String(),
			TenantID:    caller.TenantID,
			PatientID:   patient.ID,
			BillingType: models.BillingTypeRegistration,
			Amount:      patient.RegistrationFee,
			Status:      models.PaymentStatusUnpaid,
		}
	} else {
		visit.FeeValidUntil = last.FeeValidUntil
	}

	if err := s.visits.CreateWithBilling(ctx, visit, billing); err != nil {
		return nil, ErrInternal("failed to create visit", err)
	}
	return visit, nil
}

// GetAll lists the tenant's visits; patientID narrows to one patient when
// non-zero.
func (s *VisitService) GetAll(ctx context.Context, caller Caller, patientID int64) ([]models.Visit, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	if patientID != 0 {
		if _, err := s.ownedPatient(ctx, caller, patientID); err != nil {
			return nil, err
		}
	}
	visits, err := s.visits.GetAll(ctx, caller.TenantID, patientID)
	if err != nil {
		return nil, ErrInternal("failed to get visits", err)
	}
	return visits, nil
}

func (s *VisitService) GetByID(ctx context.Context, caller Caller, id int64) (*models.Visit, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, id)
}

func (s *VisitService) Update(ctx context.Context, caller Caller, visit *models.Visit) (*models.Visit, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	existing, err := s.getOwned(ctx, caller, visit.ID)
	if err != nil {
		return nil, err
	}
	visit.PatientID = existing.PatientID
	if err := utils.ValidateVisitData(*visit); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if err := s.checkDoctor(ctx, caller, visit.DoctorID); err != nil {
		return nil, err
	}
	if err := s.visits.Update(ctx, visit); err != nil {
		return nil, ErrInternal("failed to update visit", err)
	}
	return s.getOwned(ctx, caller, visit.ID)
}

// Remove soft-deletes a visit. Removing twice reports it already deleted.
func (s *VisitService) Remove(ctx context.Context, caller Caller, id int64) error {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return err
	}

	visit, err := s.visits.GetByIDAny(ctx, id)
	if err != nil {
		return ErrInternal("failed to get visit", err)
	}
	if visit == nil || visit.TenantID != caller.TenantID {
		return ErrNotFound("visit not found")
	}
	if visit.DeletedAt.Valid {
		return ErrNotFound("visit already deleted")
	}

	if err := s.visits.SoftDelete(ctx, id); err != nil {
		return ErrInternal("failed to remove visit", err)
	}
	return nil
}

func (s *VisitService) getOwned(ctx context.Context, caller Caller, id int64) (*models.Visit, error) {
	visit, err := s.visits.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get visit", err)
	}
	if visit == nil || visit.TenantID != caller.TenantID {
		return nil, ErrNotFound("visit not found")
	}
	return visit, nil
}

func (s *VisitService) ownedPatient(ctx context.Context, caller Caller, patientID int64) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, ErrInternal("failed to get patient", err)
	}
	if patient == nil || patient.TenantID != caller.TenantID {
		return nil, ErrNotFound("patient not found")
	}
	return patient, nil
}

func (s *VisitService) checkDoctor(ctx context.Context, caller Caller, doctorID *int64) error {
	if doctorID == nil {
		return nil
	}
	doctor, err := s.doctors.GetByID(ctx, *doctorID)
	if err != nil {
		return ErrInternal("failed to get doctor", err)
	}
	if doctor == nil || doctor.TenantID != caller.TenantID {
		return ErrNotFound("doctor not found")
	}
	return nil
}
