package services

import (
	"ClinicCore/models"
	"ClinicCore/repositories"
	"ClinicCore/utils"
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"
)

// tenantCodeRetries bounds the redraw loop for the random clinic code.
const tenantCodeRetries = 5

// TenantOption is one clinic a multi-tenant user can log into.
type TenantOption struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Code string `json:"code"`
}

// LoginResult carries either issued tokens, or the tenant choices when the
// user belongs to several clinics and has not picked one yet.
type LoginResult struct {
	IsMultiTenant bool           `json:"is_multi_tenant"`
	Tenants       []TenantOption `json:"tenants,omitempty"`
	AccessToken   string         `json:"access_token,omitempty"`
	RefreshToken  string         `json:"refresh_token,omitempty"`
	User          *models.User   `json:"user,omitempty"`
	Tenant        *models.Tenant `json:"tenant,omitempty"`
	Role          string         `json:"role,omitempty"`
}

// SignupResult is the outcome of tenant onboarding: the admin identity and
// the new clinic. No session is issued; the admin logs in afterwards.
type SignupResult struct {
	User   *models.User   `json:"user"`
	Tenant *models.Tenant `json:"tenant"`
}

type AuthService struct {
	users       repositories.UserRepository
	tenants     repositories.TenantRepository
	memberships repositories.MembershipRepository
}

func NewAuthService(users repositories.UserRepository, tenants repositories.TenantRepository, memberships repositories.MembershipRepository) *AuthService {
	return &AuthService{users: users, tenants: tenants, memberships: memberships}
}

// Signup onboards a new clinic: it creates the user, the tenant with a fresh
// code, and the ADMIN membership atomically. The caller logs in separately,
// so signup never hands out tokens.
func (s *AuthService) Signup(ctx context.Context, data utils.SignupData) (*SignupResult, error) {
	if err := utils.ValidateSignupData(data); err != nil {
		return nil, ErrValidation(err.Error())
	}

	exists, err := s.users.EmailExists(ctx, data.Email)
	if err != nil {
		return nil, ErrInternal("failed to check email", err)
	}
	if exists {
		return nil, ErrConflict("email already registered")
	}

	hashedPassword, err := utils.HashPassword(data.Password)
	if err != nil {
		return nil, ErrInternal("failed to hash password", err)
	}

	var user *models.User
	var tenant *models.Tenant
	for attempt := 0; attempt < tenantCodeRetries; attempt++ {
		code := utils.GenerateTenantCode()
		taken, err := s.tenants.CodeExists(ctx, code)
		if err != nil {
			return nil, ErrInternal("failed to check clinic code", err)
		}
		if taken {
			continue
		}

		user = &models.User{
			Email:    data.Email,
			Password: hashedPassword,
			Name:     data.Name,
			Role:     models.RoleAdmin,
		}
		tenant = &models.Tenant{
			Name:    data.ClinicName,
			Code:    code,
			Address: data.Address,
			Phone:   data.Phone,
		}
		membership := &models.UserTenant{Role: models.RoleAdmin}

		err = s.users.CreateSignup(ctx, user, tenant, membership)
		if err == nil {
			break
		}
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Either the email raced another signup or the code collided.
			exists, checkErr := s.users.EmailExists(ctx, data.Email)
			if checkErr == nil && exists {
				return nil, ErrConflict("email already registered")
			}
			user, tenant = nil, nil
			continue
		}
		return nil, ErrInternal("failed to create account", err)
	}
	if user == nil || tenant == nil {
		return nil, ErrInternal("failed to allocate a clinic code", nil)
	}

	return &SignupResult{User: user, Tenant: tenant}, nil
}

// Login verifies credentials and resolves the tenant to scope the session
// to. A user with several clinics gets the choice list back instead of
// tokens until tenantCode names one of them.
func (s *AuthService) Login(ctx context.Context, email, password, tenantCode string) (*LoginResult, error) {
	if err := utils.ValidateLoginData(email, password); err != nil {
		return nil, ErrValidation(err.Error())
	}

	user, err := s.authenticate(ctx, email, password)
	if err != nil {
		return nil, err
	}

	memberships, err := s.memberships.ListActiveForUser(ctx, user.ID)
	if err != nil {
		return nil, ErrInternal("failed to list clinics", err)
	}
	if len(memberships) == 0 {
		return nil, ErrForbidden("no active clinic membership")
	}

	var selected *models.UserTenant
	switch {
	case tenantCode != "":
		code := strings.ToUpper(strings.TrimSpace(tenantCode))
		for i := range memberships {
			if memberships[i].Tenant.Code == code {
				selected = &memberships[i]
				break
			}
		}
		if selected == nil {
			return nil, ErrForbidden("no access to this clinic")
		}
	case len(memberships) == 1:
		selected = &memberships[0]
	default:
		options := make([]TenantOption, 0, len(memberships))
		for _, m := range memberships {
			options = append(options, TenantOption{
				ID:   m.Tenant.ID,
				Name: m.Tenant.Name,
				Code: m.Tenant.Code,
			})
		}
		return &LoginResult{IsMultiTenant: true, Tenants: options}, nil
	}

	accessToken, refreshToken, err := utils.GenerateTokens(user.Email, user.ID, selected.Role, selected.TenantID)
	if err != nil {
		return nil, ErrInternal("failed to generate tokens", err)
	}

	tenant := selected.Tenant
	return &LoginResult{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         user,
		Tenant:       &tenant,
		Role:         selected.Role,
	}, nil
}

// authenticate verifies email and password without revealing which of the
// two was wrong.
func (s *AuthService) authenticate(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, ErrInternal("failed to look up user", err)
	}
	if user == nil || !utils.CheckPassword(user.Password, password) {
		return nil, ErrUnauthorized("invalid email or password")
	}
	return user, nil
}

// RefreshSession re-verifies the membership behind a refresh token and
// issues a new access token. A membership revoked since login stops working
// here.
func (s *AuthService) RefreshSession(ctx context.Context, refreshToken string) (string, error) {
	claims, err := utils.ValidateToken(refreshToken)
	if err != nil {
		return "", ErrUnauthorized("invalid refresh token")
	}

	membership, err := s.memberships.Get(ctx, claims.UserID, claims.TenantID)
	if err != nil {
		return "", ErrInternal("failed to resolve membership", err)
	}
	if membership == nil {
		return "", ErrForbidden("no access to this clinic")
	}

	accessToken, err := utils.GenerateAccessToken(claims.Email, claims.UserID, membership.Role, claims.TenantID)
	if err != nil {
		return "", ErrInternal("failed to generate access token", err)
	}
	return accessToken, nil
}

// RequestPasswordReset emails a short-lived code. It reports success for
// unknown emails too, so the endpoint cannot be used to probe accounts.
func (s *AuthService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ErrInternal("failed to look up user", err)
	}
	if user == nil {
		return nil
	}

	code := utils.GenerateResetCode()
	if err := utils.SetResetCode(ctx, email, code); err != nil {
		return ErrInternal("failed to store reset code", err)
	}
	if err := utils.SendResetCodeEmail(email, code); err != nil {
		log.Printf("Failed to send reset code email: %v", err)
		return ErrInternal("failed to send reset code", err)
	}
	return nil
}

// ConfirmPasswordReset exchanges a valid reset code for a new password.
func (s *AuthService) ConfirmPasswordReset(ctx context.Context, email, resetCode, newPassword string) error {
	if err := utils.ValidatePasswordReset(resetCode, newPassword); err != nil {
		return ErrValidation(err.Error())
	}

	stored, err := utils.GetResetCode(ctx, email)
	if err != nil {
		return ErrInternal("failed to read reset code", err)
	}
	if stored == nil || *stored != resetCode {
		return ErrUnauthorized("invalid or expired reset code")
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return ErrInternal("failed to look up user", err)
	}
	if user == nil {
		return ErrNotFound("user not found")
	}

	hashedPassword, err := utils.HashPassword(newPassword)
	if err != nil {
		return ErrInternal("failed to hash password", err)
	}
	if err := s.users.UpdatePassword(ctx, user.ID, hashedPassword); err != nil {
		return ErrInternal("failed to update password", err)
	}

	if err := utils.DeleteResetCode(ctx, email); err != nil {
		log.Printf("Failed to delete reset code: %v", err)
	}
	return nil
}
