package utils

import (
	"errors"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// Validation errors
var (
	ErrPasswordTooShort   = errors.New("password must be at least 8 characters long")
	ErrPasswordNotComplex = errors.New("password must include at least one uppercase letter, one lowercase letter, one digit, and one special character")
)

var phoneRegex = regexp.MustCompile(`^\+?[0-9][0-9\s-]{6,19}$`)

// SignupData is the payload for tenant onboarding.
type SignupData struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	ClinicName string `json:"clinic_name"`
	Address    string `json:"address"`
	Phone      string `json:"phone"`
}

// ValidateSignupData validates the onboarding payload.
func ValidateSignupData(data SignupData) error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&data.Email, validation.Required, is.EmailFormat),
		validation.Field(&data.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
		validation.Field(&data.ClinicName, validation.Required, validation.Length(2, 100)),
		validation.Field(&data.Phone, validation.By(validateOptionalPhone)),
	)
}

// ValidateLoginData validates login credentials.
func ValidateLoginData(email, password string) error {
	return validation.Errors{
		"email":    validation.Validate(email, validation.Required, is.EmailFormat),
		"password": validation.Validate(password, validation.Required),
	}.Filter()
}

// ValidatePasswordReset validates the reset code and new password.
func ValidatePasswordReset(resetCode, newPassword string) error {
	return validation.Errors{
		"resetCode": validation.Validate(resetCode, validation.Required.Error("invalid reset code")),
		"password":  validation.Validate(newPassword, validation.Required, validation.By(validatePassword)),
	}.Filter()
}

// ValidatePhone rejects malformed phone numbers; empty values pass.
func ValidatePhone(phone string) error {
	return validateOptionalPhone(phone)
}

func validateOptionalPhone(value interface{}) error {
	phone, _ := value.(string)
	if phone == "" {
		return nil
	}
	if !phoneRegex.MatchString(phone) {
		return errors.New("invalid phone number format")
	}
	return nil
}

// validatePassword checks the password for length and complexity.
func validatePassword(value interface{}) error {
	password, _ := value.(string)

	if len(password) < 8 {
		return ErrPasswordTooShort
	}

	var (
		lowercaseRegex = regexp.MustCompile(`[a-z]`)
		uppercaseRegex = regexp.MustCompile(`[A-Z]`)
		digitRegex     = regexp.MustCompile(`\d`)
		specialRegex   = regexp.MustCompile(`[@$!%*?&]`)
	)

	if !lowercaseRegex.MatchString(password) ||
		!uppercaseRegex.MatchString(password) ||
		!digitRegex.MatchString(password) ||
		!specialRegex.MatchString(password) {
		return ErrPasswordNotComplex
	}

	return nil
}
