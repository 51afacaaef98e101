package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type PatientService struct {
	patients    repositories.PatientRepository
	doctors     repositories.DoctorRepository
	tenants     repositories.TenantRepository
	memberships *MembershipService
}

func NewPatientService(patients repositories.PatientRepository, doctors repositories.DoctorRepository, tenants repositories.TenantRepository, memberships *MembershipService) *PatientService {
	return &PatientService{patients: patients, doctors: doctors, tenants: tenants, memberships: memberships}
}

// Register creates a patient together with the REGISTRATION billing and the
// initial visit, all in one transaction. The patient number is sequential
// per tenant and never reused, counting soft-deleted patients too.
func (s *PatientService) Register(ctx context.Context, caller Caller, patient *models.Patient) (*models.Patient, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	if err := utils.ValidatePatientData(*patient); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if err := s.checkDoctor(ctx, caller, patient.DoctorID); err != nil {
		return nil, err
	}

	tenant, err := s.tenants.GetByID(ctx, caller.TenantID)
	if err != nil {
		return nil, ErrInternal("failed to get clinic", err)
	}
	if tenant == nil {
		return nil, ErrNotFound("clinic not found")
	}

	count, err := s.patients.CountAllTime(ctx, caller.TenantID)
	if err != nil {
		return nil, ErrInternal("failed to count patients", err)
	}

	patient.TenantID = caller.TenantID
	patient.PatientNumber = fmt.Sprintf("PT-%s-%03d", tenant.Code, count+1)
	patient.NoOfVisits = 1

	billing := &models.Billing{
		BillingID:   uuid.New().String(),
		TenantID:    caller.TenantID,
		BillingType: models.BillingTypeRegistration,
		Amount:      patient.RegistrationFee,
		Status:      models.PaymentStatusUnpaid,
	}
	visit := &models.Visit{
		TenantID:        caller.TenantID,
		DoctorID:        patient.DoctorID,
		StaffUserID:     caller.UserID,
		Notes:           "Initial registration",
		ConsultationFee: 0,
		FeeValidUntil:   time.Now().Add(models.FeeWaiverWindow),
	}

	if err := s.patients.CreateWithRegistration(ctx, patient, billing, visit); err != nil {
		return nil, ErrInternal("failed to register patient", err)
	}
	return patient, nil
}

func (s *PatientService) GetAll(ctx context.Context, caller Caller) ([]models.Patient, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	patients, err := s.patients.GetAll(ctx, caller.TenantID)
	if err != nil {
		return nil, ErrInternal("failed to get patients", err)
	}
	return patients, nil
}

// GetByID returns one patient. A patient in another tenant is reported as
// not found, indistinguishable from a nonexistent one.
func (s *PatientService) GetByID(ctx context.Context, caller Caller, id int64) (*models.Patient, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, id)
}

func (s *PatientService) Update(ctx context.Context, caller Caller, patient *models.Patient) (*models.Patient, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	existing, err := s.getOwned(ctx, caller, patient.ID)
	if err != nil {
		return nil, err
	}
	if err := utils.ValidatePatientData(*patient); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if err := s.checkDoctor(ctx, caller, patient.DoctorID); err != nil {
		return nil, err
	}

	// Identity fields never change on update.
	patient.TenantID = existing.TenantID
	patient.PatientNumber = existing.PatientNumber

	if err := s.patients.Update(ctx, patient); err != nil {
		return nil, ErrInternal("failed to update patient", err)
	}
	return s.getOwned(ctx, caller, patient.ID)
}

// Remove soft-deletes a patient. Removing twice reports the patient as
// already deleted.
func (s *PatientService) Remove(ctx context.Context, caller Caller, id int64) error {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return err
	}

	patient, err := s.patients.GetByIDAny(ctx, id)
	if err != nil {
		return ErrInternal("failed to get patient", err)
	}
	if patient == nil || patient.TenantID != caller.TenantID {
		return ErrNotFound("patient not found")
	}
	if patient.DeletedAt.Valid {
		return ErrNotFound("patient already deleted")
	}

	if err := s.patients.SoftDelete(ctx, id); err != nil {
		return ErrInternal("failed to remove patient", err)
	}
	return nil
}

// getOwned fetches the patient and verifies it belongs to the caller's
// tenant, collapsing cross-tenant and nonexistent to the same not-found.
func (s *PatientService) getOwned(ctx context.Context, caller Caller, id int64) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get patient", err)
	}
	if patient == nil || patient.TenantID != caller.TenantID {
		return nil, ErrNotFound("patient not found")
	}
	return patient, nil
}

// checkDoctor verifies an assigned doctor exists in the caller's tenant.
func (s *PatientService) checkDoctor(ctx context.Context, caller Caller, doctorID *int64) error {
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
