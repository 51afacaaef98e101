package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
	"fmt"

	"github.com/google/uuid"
)

type OperationService struct {
	operations  repositories.OperationRepository
	patients    repositories.PatientRepository
	doctors     repositories.DoctorRepository
	memberships *MembershipService
}

func NewOperationService(operations repositories.OperationRepository, patients repositories.PatientRepository, doctors repositories.DoctorRepository, memberships *MembershipService) *OperationService {
	return &OperationService{operations: operations, patients: patients, doctors: doctors, memberships: memberships}
}

// Create records a surgical operation, raises its OPERATION billing, and
// appends a note to the patient's most recent visit.
func (s *OperationService) Create(ctx context.Context, caller Caller, op *models.Operation) (*models.Operation, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	if err := utils.ValidateOperationData(*op); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if _, err := s.ownedPatient(ctx, caller, op.PatientID); err != nil {
		return nil, err
	}
	doctor, err := s.ownedDoctor(ctx, caller, op.DoctorID)
	if err != nil {
		return nil, err
	}

	op.TenantID = caller.TenantID

	billing := &models.Billing{
		BillingID:   uuid.New().String(),
		TenantID:    caller.TenantID,
		PatientID:   op.PatientID,
		BillingType: models.BillingTypeOperation,
		Amount:      op.Fee,
		Status:      models.PaymentStatusUnpaid,
	}
	visitNote := fmt.Sprintf("Operation on %s by Dr. %s: %s",
		op.OperationDate.Format("2006-01-02"), doctor.User.Name, op.Outcome)

	if err := s.operations.CreateWithBilling(ctx, op, billing, visitNote); err != nil {
		return nil, ErrInternal("failed to create operation", err)
	}
	return op, nil
}

// GetAll lists the tenant's operations; patientID narrows to one patient
// when non-zero.
func (s *OperationService) GetAll(ctx context.Context, caller Caller, patientID int64) ([]models.Operation, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	if patientID != 0 {
		if _, err := s.ownedPatient(ctx, caller, patientID); err != nil {
			return nil, err
		}
	}
	ops, err := s.operations.GetAll(ctx, caller.TenantID, patientID)
	if err != nil {
		return nil, ErrInternal("failed to get operations", err)
	}
	return ops, nil
}

func (s *OperationService) GetByID(ctx context.Context, caller Caller, id int64) (*models.Operation, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, id)
}

// Update edits the operation and mirrors a fee change onto the associated
// billing row.
func (s *OperationService) Update(ctx context.Context, caller Caller, op *models.Operation) (*models.Operation, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesClinicalWrite); err != nil {
		return nil, err
	}
	existing, err := s.getOwned(ctx, caller, op.ID)
	if err != nil {
		return nil, err
	}
	op.PatientID = existing.PatientID
	if err := utils.ValidateOperationData(*op); err != nil {
		return nil, ErrValidation(err.Error())
	}
	if _, err := s.ownedDoctor(ctx, caller, op.DoctorID); err != nil {
		return nil, err
	}

	if err := s.operations.UpdateWithBilling(ctx, op); err != nil {
		return nil, ErrInternal("failed to update operation", err)
	}
	return s.getOwned(ctx, caller, op.ID)
}

// Remove soft-deletes the operation together with its billing row. Removing
// twice reports the operation as already deleted.
func (s *OperationService) Remove(ctx context.Context, caller Caller, id int64) error {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return err
	}

	op, err := s.operations.GetByIDAny(ctx, id)
	if err != nil {
		return ErrInternal("failed to get operation", err)
	}
	if op == nil || op.TenantID != caller.TenantID {
		return ErrNotFound("operation not found")
	}
	if op.DeletedAt.Valid {
		return ErrNotFound("operation already deleted")
	}

	if err := s.operations.SoftDeleteWithBilling(ctx, op); err != nil {
		return ErrInternal("failed to remove operation", err)
	}
	return nil
}

func (s *OperationService) getOwned(ctx context.Context, caller Caller, id int64) (*models.Operation, error) {
	op, err := s.operations.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get operation", err)
	}
	if op == nil || op.TenantID != caller.TenantID {
		return nil, ErrNotFound("operation not found")
	}
	return op, nil
}

func (s *OperationService) ownedPatient(ctx context.Context, caller Caller, patientID int64) (*models.Patient, error) {
	patient, err := s.patients.GetByID(ctx, patientID)
	if err != nil {
		return nil, ErrInternal("failed to get patient", err)
	}
	if patient == nil || patient.TenantID != caller.TenantID {
		return nil, ErrNotFound("patient not found")
	}
	return patient, nil
}

func (s *OperationService) ownedDoctor(ctx context.Context, caller Caller, doctorID int64) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, doctorID)
	if err != nil {
		return nil, ErrInternal("failed to get doctor", err)
	}
	if doctor == nil || doctor.TenantID != caller.TenantID {
		return nil, ErrNotFound("doctor not found")
	}
	return doctor, nil
}
