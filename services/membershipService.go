package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"context"
)

// Role sets used by the entity services. Authorization is always resolved
// against the caller's membership row, never against token claims alone.
var (
	RolesReadAll       = []string{models.RoleAdmin, models.RoleDoctor, models.RoleStaff, models.RoleNurse}
	RolesClinicalWrite = []string{models.RoleAdmin, models.RoleDoctor}
	RolesAdminOnly     = []string{models.RoleAdmin}
	RolesBillingWrite  = []string{models.RoleAdmin, models.RoleStaff}
)

type MembershipService struct {
	memberships repositories.MembershipRepository
}

func NewMembershipService(memberships repositories.MembershipRepository) *MembershipService {
	return &MembershipService{memberships: memberships}
}

// Authorize checks that the caller holds an active membership in the tenant
// with one of the allowed roles. An empty allowed set denies everyone.
func (s *MembershipService) Authorize(ctx context.Context, caller Caller, allowedRoles []string) error {
	membership, err := s.memberships.Get(ctx, caller.UserID, caller.TenantID)
	if err != nil {
		return ErrInternal("failed to resolve membership", err)
	}
	if membership == nil {
		return ErrForbidden("no access to this clinic")
	}
	for _, role := range allowedRoles {
		if membership.Role == role {
			return nil
		}
	}
	return ErrForbidden("insufficient role for this action")
}

// RoleOf returns the caller's role within the tenant, or an error when the
// caller holds no active membership there.
func (s *MembershipService) RoleOf(ctx context.Context, caller Caller) (string, error) {
	membership, err := s.memberships.Get(ctx, caller.UserID, caller.TenantID)
	if err != nil {
		return "", ErrInternal("failed to resolve membership", err)
	}
	if membership == nil {
		return "", ErrForbidden("no access to this clinic")
	}
	return membership.Role, nil
}
