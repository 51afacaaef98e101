package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
	"errors"

	"gorm.io/gorm"
)

type DoctorService struct {
	doctors     repositories.DoctorRepository
	users       repositories.UserRepository
	memberships *MembershipService
}

func NewDoctorService(doctors repositories.DoctorRepository, users repositories.UserRepository, memberships *MembershipService) *DoctorService {
	return &DoctorService{doctors: doctors, users: users, memberships: memberships}
}

// Create onboards a doctor: a new User, the Doctor profile, and the DOCTOR
// membership, created atomically. Admins only.
func (s *DoctorService) Create(ctx context.Context, caller Caller, data utils.EmployeeData) (*models.Doctor, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return nil, err
	}
	if err := utils.ValidateEmployeeData(data); err != nil {
		return nil, ErrValidation(err.Error())
	}

	exists, err := s.users.EmailExists(ctx, data.Email)
	if err != nil {
		return nil, ErrInternal("failed to check email", err)
	}
	if exists {
		return nil, ErrConflict("email already registered")
	}

	taken, err := s.doctors.EmployeeCodeExists(ctx, caller.TenantID, data.EmployeeCode, 0)
	if err != nil {
		return nil, ErrInternal("failed to check employee code", err)
	}
	if taken {
		return nil, ErrConflict("employee code already in use")
	}

	hashedPassword, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, ErrInternal("failed to hash password", err)
	}

	user := &models.User{
		Email:    data.Email,
		Password: hashedPassword,
		Name:     data.Name,
		Role:     models.RoleDoctor,
	}
	doctor := &models.Doctor{
		TenantID:     caller.TenantID,
		EmployeeCode: data.EmployeeCode,
		Specialty:    data.Specialty,
		Phone:        data.Phone,
		IsActive:     true,
	}
	membership := &models.UserTenant{Role: models.RoleDoctor}

	if err := s.doctors.CreateWithUser(ctx, user, doctor, membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict("email or employee code already in use")
		}
		return nil, ErrInternal("failed to create doctor", err)
	}

	return s.getOwned(ctx, caller, doctor.ID)
}

func (s *DoctorService) GetAll(ctx context.Context, caller Caller) ([]models.Doctor, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	doctors, err := s.doctors.GetAll(ctx, caller.TenantID)
	if err != nil {
		return nil, ErrInternal("failed to get doctors", err)
	}
	return doctors, nil
}

func (s *DoctorService) GetByID(ctx context.Context, caller Caller, id int64) (*models.Doctor, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, id)
}

func (s *DoctorService) Update(ctx context.Context, caller Caller, doctor *models.Doctor) (*models.Doctor, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return nil, err
	}
	if _, err := s.getOwned(ctx, caller, doctor.ID); err != nil {
		return nil, err
	}
	if doctor.EmployeeCode == "" {
		return nil, ErrValidation("employee code cannot be blank")
	}
	if err := utils.ValidatePhone(doctor.Phone); err != nil {
		return nil, ErrValidation(err.Error())
	}

	taken, err := s.doctors.EmployeeCodeExists(ctx, caller.TenantID, doctor.EmployeeCode, doctor.ID)
	if err != nil {
		return nil, ErrInternal("failed to check employee code", err)
	}
	if taken {
		return nil, ErrConflict("employee code already in use")
	}

	if err := s.doctors.Update(ctx, doctor); err != nil {
		return nil, ErrInternal("failed to update doctor", err)
	}
	return s.getOwned(ctx, caller, doctor.ID)
}

// Remove soft-deletes the doctor with their user and membership, revoking
// clinic access immediately. Removing twice reports the doctor as already
// deleted.
func (s *DoctorService) Remove(ctx context.Context, caller Caller, id int64) error {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return err
	}

	doctor, err := s.doctors.GetByIDAny(ctx, id)
	if err != nil {
		return ErrInternal("failed to get doctor", err)
	}
	if doctor == nil || doctor.TenantID != caller.TenantID {
		return ErrNotFound("doctor not found")
	}
	if doctor.DeletedAt.Valid {
		return ErrNotFound("doctor already deleted")
	}

	if err := s.doctors.SoftDeleteWithUser(ctx, doctor); err != nil {
		return ErrInternal("failed to remove doctor", err)
	}
	return nil
}

// Restore undoes a soft delete, reinstating user, profile, and membership.
// Restoring a doctor that is not deleted reports not-deleted.
func (s *DoctorService) Restore(ctx context.Context, caller Caller, id int64) (*models.Doctor, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return nil, err
	}

	doctor, err := s.doctors.GetByIDAny(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get doctor", err)
	}
	if doctor == nil || doctor.TenantID != caller.TenantID {
		return nil, ErrNotFound("doctor not found")
	}
	if !doctor.DeletedAt.Valid {
		return nil, ErrNotFound("doctor is not deleted")
	}

	if err := s.doctors.RestoreWithUser(ctx, doctor); err != nil {
		return nil, ErrInternal("failed to restore doctor", err)
	}
	return s.getOwned(ctx, caller, id)
}

func (s *DoctorService) getOwned(ctx context.Context, caller Caller, id int64) (*models.Doctor, error) {
	doctor, err := s.doctors.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get doctor", err)
	}
	if doctor == nil || doctor.TenantID != caller.TenantID {
		return nil, ErrNotFound("doctor not found")
	}
	return doctor, nil
}
