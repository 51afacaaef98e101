package services

import (
	"ClinicCore/models"
	"context"
	"net/http"
	"testing"
)

func statusCode(t *testing.T, err error) int {
	t.Helper()
	if err == nil {
		t.Fatal("expected an error")
	}
	status, _ := StatusOf(err)
	return status
}

func TestAuthorizeAllowsMatchingRole(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	memberships.add(1, 10, models.RoleDoctor)
	svc := NewMembershipService(memberships)

	caller := Caller{UserID: 1, TenantID: 10, Role: models.RoleDoctor}
	if err := svc.Authorize(context.Background(), caller, RolesClinicalWrite); err != nil {
		t.Fatalf("Authorize() = %v, want nil", err)
	}
}

func TestAuthorizeRejectsWrongRole(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	memberships.add(1, 10, models.RoleNurse)
	svc := NewMembershipService(memberships)

	caller := Caller{UserID: 1, TenantID: 10, Role: models.RoleNurse}
	err := svc.Authorize(context.Background(), caller, RolesClinicalWrite)
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Authorize() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestAuthorizeRejectsMissingMembership(t *testing.T) {
	svc := NewMembershipService(&fakeMembershipRepo{})

	caller := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	err := svc.Authorize(context.Background(), caller, RolesReadAll)
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Authorize() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestAuthorizeRejectsRevokedMembership(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	row := memberships.add(1, 10, models.RoleAdmin)
	row.DeletedAt = deleted()
	svc := NewMembershipService(memberships)

	caller := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	err := svc.Authorize(context.Background(), caller, RolesReadAll)
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Authorize() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestAuthorizeEmptyRoleSetDeniesEveryone(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	memberships.add(1, 10, models.RoleAdmin)
	svc := NewMembershipService(memberships)

	caller := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	err := svc.Authorize(context.Background(), caller, nil)
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Authorize() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestRoleOfReturnsMembershipRole(t *testing.T) {
	memberships := &fakeMembershipRepo{}
	memberships.add(1, 10, models.RoleStaff)
	svc := NewMembershipService(memberships)

	role, err := svc.RoleOf(context.Background(), Caller{UserID: 1, TenantID: 10})
	if err != nil {
		t.Fatalf("RoleOf() error = %v", err)
	}
	if role != models.RoleStaff {
		t.Fatalf("RoleOf() = %q, want %q", role, models.RoleStaff)
	}
}
