package utils

import "testing"

func TestValidateSignupData(t *testing.T) {
	valid := SignupData{
		Name:       "Jane Owner",
		Email:      "owner@clinic.test",
		Password:   "Str0ng!Pass",
		ClinicName: "North Clinic",
		Phone:      "+233 24 123 4567",
	}
	if err := ValidateSignupData(valid); err != nil {
		t.Fatalf("ValidateSignupData(valid) = %v", err)
	}

	// Email validation is purely syntactic: addresses on domains with no
	// MX records (reserved .test here) must pass without a DNS lookup.
	offline := valid
	offline.Email = "owner@no-mx.invalid"
	if err := ValidateSignupData(offline); err != nil {
		t.Fatalf("ValidateSignupData(offline domain) = %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*SignupData)
	}{
		{"missing name", func(d *SignupData) { d.Name = "" }},
		{"bad email", func(d *SignupData) { d.Email = "not-an-email" }},
		{"short password", func(d *SignupData) { d.Password = "Ab1!" }},
		{"no special character", func(d *SignupData) { d.Password = "Abcdefg1" }},
		{"missing clinic name", func(d *SignupData) { d.ClinicName = "" }},
		{"bad phone", func(d *SignupData) { d.Phone = "call me" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			data := valid
			tc.mutate(&data)
			if err := ValidateSignupData(data); err == nil {
				t.Fatal("expected a validation error")
			}
		})
	}
}

func TestValidatePhoneAllowsEmpty(t *testing.T) {
	if err := ValidatePhone(""); err != nil {
		t.Fatalf("ValidatePhone(\"\") = %v", err)
	}
}
