package services

import (
	"ClinicCore/models"
	"ClinicCore/utils"
	"context"
	"net/http"
	"testing"
)

const testSymmetricKey = "0123456789abcdef0123456789abcdef"

func newAuthFixture(t *testing.T) (*AuthService, *fakeUserRepo, *fakeTenantRepo, *fakeMembershipRepo) {
	t.Helper()
	t.Setenv("SYMMETRIC_KEY", testSymmetricKey)

	tenants := &fakeTenantRepo{}
	memberships := &fakeMembershipRepo{}
	users := &fakeUserRepo{tenants: tenants, memberships: memberships}
	return NewAuthService(users, tenants, memberships), users, tenants, memberships
}

func addLoginUser(t *testing.T, users *fakeUserRepo, email, password string) *models.User {
	t.Helper()
	hashed, err := utils.HashPassword(password)
	if err != nil {
		t.Fatalf("HashPassword() error = %v", err)
	}
	return users.add(email, hashed, "Test User", models.RoleAdmin)
}

func TestLoginRejectsBadPassword(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")

	_, err := svc.Login(context.Background(), "dr@clinic.test", "wrong-password", "")
	if got := statusCode(t, err); got != http.StatusUnauthorized {
		t.Fatalf("Login() status = %d, want %d", got, http.StatusUnauthorized)
	}
}

func TestLoginRejectsUnknownEmail(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Login(context.Background(), "nobody@clinic.test", "Str0ng!Pass", "")
	if got := statusCode(t, err); got != http.StatusUnauthorized {
		t.Fatalf("Login() status = %d, want %d", got, http.StatusUnauthorized)
	}
}

func TestLoginRejectsUserWithoutMemberships(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")

	_, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "")
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Login() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestLoginSingleTenantIssuesScopedTokens(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)
	user := addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")
	tenant := tenants.add(&models.Tenant{Name: "North Clinic", Code: "NORTHA"})
	row := memberships.add(user.ID, tenant.ID, models.RoleDoctor)
	row.Tenant = *tenant

	result, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.IsMultiTenant {
		t.Fatal("Login() IsMultiTenant = true, want false")
	}
	if result.AccessToken == "" || result.RefreshToken == "" {
		t.Fatal("Login() returned empty tokens")
	}
	if result.Role != models.RoleDoctor {
		t.Fatalf("Login() role = %q, want %q", result.Role, models.RoleDoctor)
	}

	claims, err := utils.ValidateToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.TenantID != tenant.ID {
		t.Fatalf("token tenantId = %d, want %d", claims.TenantID, tenant.ID)
	}
	if claims.Role != models.RoleDoctor {
		t.Fatalf("token role = %q, want %q", claims.Role, models.RoleDoctor)
	}
}

func TestLoginMultiTenantReturnsChoicesWithoutTokens(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)
	user := addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")

	north := tenants.add(&models.Tenant{Name: "North Clinic", Code: "NORTHA"})
	south := tenants.add(&models.Tenant{Name: "South Clinic", Code: "SOUTHB"})
	rowNorth := memberships.add(user.ID, north.ID, models.RoleDoctor)
	rowNorth.Tenant = *north
	rowSouth := memberships.add(user.ID, south.ID, models.RoleAdmin)
	rowSouth.Tenant = *south

	result, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if !result.IsMultiTenant {
		t.Fatal("Login() IsMultiTenant = false, want true")
	}
	if result.AccessToken != "" || result.RefreshToken != "" {
		t.Fatal("Login() issued tokens before a clinic was chosen")
	}
	if len(result.Tenants) != 2 {
		t.Fatalf("Login() tenants = %d, want 2", len(result.Tenants))
	}
}

func TestLoginMultiTenantWithCodeScopesToChosenClinic(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)
	user := addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")

	north := tenants.add(&models.Tenant{Name: "North Clinic", Code: "NORTHA"})
	south := tenants.add(&models.Tenant{Name: "South Clinic", Code: "SOUTHB"})
	rowNorth := memberships.add(user.ID, north.ID, models.RoleDoctor)
	rowNorth.Tenant = *north
	rowSouth := memberships.add(user.ID, south.ID, models.RoleAdmin)
	rowSouth.Tenant = *south

	result, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "southb")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}
	if result.IsMultiTenant {
		t.Fatal("Login() IsMultiTenant = true, want false")
	}

	claims, err := utils.ValidateToken(result.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.TenantID != south.ID {
		t.Fatalf("token tenantId = %d, want %d", claims.TenantID, south.ID)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("token role = %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestLoginRejectsCodeOutsideMemberships(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)
	user := addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")
	north := tenants.add(&models.Tenant{Name: "North Clinic", Code: "NORTHA"})
	row := memberships.add(user.ID, north.ID, models.RoleDoctor)
	row.Tenant = *north

	_, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "SOUTHB")
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Login() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestSignupCreatesUserTenantAndAdminMembership(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)

	result, err := svc.Signup(context.Background(), utils.SignupData{
		Name:       "Jane Owner",
		Email:      "owner@clinic.test",
		Password:   "Str0ng!Pass",
		ClinicName: "North Clinic",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if result.User.ID == 0 || result.Tenant.ID == 0 {
		t.Fatal("Signup() returned unsaved user or tenant")
	}
	if len(result.Tenant.Code) != utils.TenantCodeLength {
		t.Fatalf("tenant code = %q, want %d characters", result.Tenant.Code, utils.TenantCodeLength)
	}
	if len(users.users) != 1 || len(tenants.tenants) != 1 || len(memberships.rows) != 1 {
		t.Fatalf("rows = %d users, %d tenants, %d memberships; want 1 each",
			len(users.users), len(tenants.tenants), len(memberships.rows))
	}
	if memberships.rows[0].Role != models.RoleAdmin {
		t.Fatalf("membership role = %q, want %q", memberships.rows[0].Role, models.RoleAdmin)
	}
}

func TestSignupStartsNoSessionUntilLogin(t *testing.T) {
	svc, _, tenants, memberships := newAuthFixture(t)

	result, err := svc.Signup(context.Background(), utils.SignupData{
		Name:       "Jane Owner",
		Email:      "owner@clinic.test",
		Password:   "Str0ng!Pass",
		ClinicName: "North Clinic",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}

	// The new admin gets a session only by logging in.
	memberships.rows[0].Tenant = *tenants.tenants[0]
	login, err := svc.Login(context.Background(), "owner@clinic.test", "Str0ng!Pass", "")
	if err != nil {
		t.Fatalf("Login() after signup error = %v", err)
	}
	if login.AccessToken == "" || login.RefreshToken == "" {
		t.Fatal("Login() after signup returned empty tokens")
	}

	claims, err := utils.ValidateToken(login.AccessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.TenantID != result.Tenant.ID {
		t.Fatalf("token tenantId = %d, want %d", claims.TenantID, result.Tenant.ID)
	}
	if claims.Role != models.RoleAdmin {
		t.Fatalf("token role = %q, want %q", claims.Role, models.RoleAdmin)
	}
}

func TestSignupRejectsDuplicateEmail(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	addLoginUser(t, users, "owner@clinic.test", "Str0ng!Pass")

	_, err := svc.Signup(context.Background(), utils.SignupData{
		Name:       "Jane Owner",
		Email:      "owner@clinic.test",
		Password:   "Str0ng!Pass",
		ClinicName: "North Clinic",
	})
	if got := statusCode(t, err); got != http.StatusConflict {
		t.Fatalf("Signup() status = %d, want %d", got, http.StatusConflict)
	}
}

func TestSignupRejectsWeakPassword(t *testing.T) {
	svc, _, _, _ := newAuthFixture(t)

	_, err := svc.Signup(context.Background(), utils.SignupData{
		Name:       "Jane Owner",
		Email:      "owner@clinic.test",
		Password:   "weak",
		ClinicName: "North Clinic",
	})
	if got := statusCode(t, err); got != http.StatusBadRequest {
		t.Fatalf("Signup() status = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestSignupRetriesCollidingTenantCode(t *testing.T) {
	svc, users, _, _ := newAuthFixture(t)
	users.duplicateKeyTimes = 1

	result, err := svc.Signup(context.Background(), utils.SignupData{
		Name:       "Jane Owner",
		Email:      "owner@clinic.test",
		Password:   "Str0ng!Pass",
		ClinicName: "North Clinic",
	})
	if err != nil {
		t.Fatalf("Signup() error = %v", err)
	}
	if result.Tenant.Code == "" {
		t.Fatal("Signup() produced no tenant code after retry")
	}
}

func TestRefreshSessionRejectsRevokedMembership(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)
	user := addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")
	tenant := tenants.add(&models.Tenant{Name: "North Clinic", Code: "NORTHA"})
	row := memberships.add(user.ID, tenant.ID, models.RoleDoctor)
	row.Tenant = *tenant

	result, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	row.DeletedAt = deleted()

	_, err = svc.RefreshSession(context.Background(), result.RefreshToken)
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("RefreshSession() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestRefreshSessionIssuesNewAccessToken(t *testing.T) {
	svc, users, tenants, memberships := newAuthFixture(t)
	user := addLoginUser(t, users, "dr@clinic.test", "Str0ng!Pass")
	tenant := tenants.add(&models.Tenant{Name: "North Clinic", Code: "NORTHA"})
	row := memberships.add(user.ID, tenant.ID, models.RoleDoctor)
	row.Tenant = *tenant

	result, err := svc.Login(context.Background(), "dr@clinic.test", "Str0ng!Pass", "")
	if err != nil {
		t.Fatalf("Login() error = %v", err)
	}

	accessToken, err := svc.RefreshSession(context.Background(), result.RefreshToken)
	if err != nil {
		t.Fatalf("RefreshSession() error = %v", err)
	}
	claims, err := utils.ValidateToken(accessToken)
	if err != nil {
		t.Fatalf("ValidateToken() error = %v", err)
	}
	if claims.TenantID != tenant.ID {
		t.Fatalf("token tenantId = %d, want %d", claims.TenantID, tenant.ID)
	}
}
