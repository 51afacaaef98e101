package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
	"errors"

	"gorm.io/gorm"
)

type StaffService struct {
	staff       repositories.StaffRepository
	users       repositories.UserRepository
	memberships *MembershipService
}

func NewStaffService(staff repositories.StaffRepository, users repositories.UserRepository, memberships *MembershipService) *StaffService {
	return &StaffService{staff: staff, users: users, memberships: memberships}
}

// Create onboards a staff member: a new User, the Staff profile, and the
// STAFF membership, created atomically. Admins only.
func (s *StaffService) Create(ctx context.Context, caller Caller, data utils.EmployeeData) (*models.Staff, error) {
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

	taken, err := s.staff.EmployeeCodeExists(ctx, caller.TenantID, data.EmployeeCode, 0)
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
		Role:     models.RoleStaff,
	}
	member := &models.Staff{
		TenantID:     caller.TenantID,
		EmployeeCode: data.EmployeeCode,
		Phone:        data.Phone,
		IsActive:     true,
	}
	membership := &models.UserTenant{Role: models.RoleStaff}

	if err := s.staff.CreateWithUser(ctx, user, member, membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, ErrConflict("email or employee code already in use")
		}
		return nil, ErrInternal("failed to create staff member", err)
	}

	return s.getOwned(ctx, caller, member.ID)
}

func (s *StaffService) GetAll(ctx context.Context, caller Caller) ([]models.Staff, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	staffList, err := s.staff.GetAll(ctx, caller.TenantID)
	if err != nil {
		return nil, ErrInternal("failed to get staff", err)
	}
	return staffList, nil
}

func (s *StaffService) GetByID(ctx context.Context, caller Caller, id int64) (*models.Staff, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesReadAll); err != nil {
		return nil, err
	}
	return s.getOwned(ctx, caller, id)
}

func (s *StaffService) Update(ctx context.Context, caller Caller, member *models.Staff) (*models.Staff, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return nil, err
	}
	if _, err := s.getOwned(ctx, caller, member.ID); err != nil {
		return nil, err
	}
	if member.EmployeeCode == "" {
		return nil, ErrValidation("employee code cannot be blank")
	}
	if err := utils.ValidatePhone(member.Phone); err != nil {
		return nil, ErrValidation(err.Error())
	}

	taken, err := s.staff.EmployeeCodeExists(ctx, caller.TenantID, member.EmployeeCode, member.ID)
	if err != nil {
		return nil, ErrInternal("failed to check employee code", err)
	}
	if taken {
		return nil, ErrConflict("employee code already in use")
	}

	if err := s.staff.Update(ctx, member); err != nil {
		return nil, ErrInternal("failed to update staff member", err)
	}
	return s.getOwned(ctx, caller, member.ID)
}

// Remove soft-deletes the staff member with their user and membership,
// revoking clinic access immediately.
func (s *StaffService) Remove(ctx context.Context, caller Caller, id int64) error {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return err
	}

	member, err := s.staff.GetByIDAny(ctx, id)
	if err != nil {
		return ErrInternal("failed to get staff member", err)
	}
	if member == nil || member.TenantID != caller.TenantID {
		return ErrNotFound("staff member not found")
	}
	if member.DeletedAt.Valid {
		return ErrNotFound("staff member already deleted")
	}

	if err := s.staff.SoftDeleteWithUser(ctx, member); err != nil {
		return ErrInternal("failed to remove staff member", err)
	}
	return nil
}

// Restore undoes a soft delete, reinstating user, profile, and membership.
func (s *StaffService) Restore(ctx context.Context, caller Caller, id int64) (*models.Staff, error) {
	if err := s.memberships.Authorize(ctx, caller, RolesAdminOnly); err != nil {
		return nil, err
	}

	member, err := s.staff.GetByIDAny(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get staff member", err)
	}
	if member == nil || member.TenantID != caller.TenantID {
		return nil, ErrNotFound("staff member not found")
	}
	if !member.DeletedAt.Valid {
		return nil, ErrNotFound("staff member is not deleted")
	}

	if err := s.staff.RestoreWithUser(ctx, member); err != nil {
		return nil, ErrInternal("failed to restore staff member", err)
	}
	return s.getOwned(ctx, caller, id)
}

func (s *StaffService) getOwned(ctx context.Context, caller Caller, id int64) (*models.Staff, error) {
	member, err := s.staff.GetByID(ctx, id)
	if err != nil {
		return nil, ErrInternal("failed to get staff member", err)
	}
	if member == nil || member.TenantID != caller.TenantID {
		return nil, ErrNotFound("staff member not found")
	}
	return member, nil
}
