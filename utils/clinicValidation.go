package utils

import (
	"errors"

	"ClinicCore/models"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ValidatePatientData validates a patient payload before persistence.
func ValidatePatientData(patient models.Patient) error {
	return validation.ValidateStruct(&patient,
		validation.Field(&patient.FirstName, validation.Required, validation.Length(1, 100)),
		validation.Field(&patient.LastName, validation.Required, validation.Length(1, 100)),
		validation.Field(&patient.Sex, validation.Required, validation.In("Male", "Female", "Other")),
		validation.Field(&patient.DateOfBirth, validation.Required, validation.Date("2006-01-02")),
		validation.Field(&patient.Phone, validation.By(validateOptionalPhone)),
		validation.Field(&patient.RegistrationFee, validation.Min(0.0)),
	)
}

// EmployeeData is the payload for onboarding a doctor or staff member.
type EmployeeData struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Password     string `json:"password"`
	EmployeeCode string `json:"employee_code"`
	Specialty    string `json:"specialty"`
	Phone        string `json:"phone"`
}

// ValidateEmployeeData validates the onboarding payload for clinic personnel.
func ValidateEmployeeData(data EmployeeData) error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Name, validation.Required, validation.Length(2, 100)),
		validation.Field(&data.Email, validation.Required, is.EmailFormat),
		validation.Field(&data.Password, validation.Required.Error("password cannot be blank"), validation.By(validatePassword)),
		validation.Field(&data.EmployeeCode, validation.Required, validation.Length(1, 50)),
		validation.Field(&data.Phone, validation.By(validateOptionalPhone)),
	)
}

// ValidateVisitData validates a visit payload. The consultation fee may be
// zero (waived) but never negative.
func ValidateVisitData(visit models.Visit) error {
	return validation.ValidateStruct(&visit,
		validation.Field(&visit.PatientID, validation.Required),
		validation.Field(&visit.ConsultationFee, validation.Min(0.0).Error("consultation fee cannot be negative")),
	)
}

// ValidateOperationData validates a surgical operation payload. The fee must
// be strictly positive; free operations are recorded as visits instead.
func ValidateOperationData(op models.Operation) error {
	return validation.ValidateStruct(&op,
		validation.Field(&op.PatientID, validation.Required),
		validation.Field(&op.DoctorID, validation.Required),
		validation.Field(&op.Fee, validation.Required, validation.Min(0.01).Error("fee must be greater than zero")),
		validation.Field(&op.OperationDate, validation.Required),
	)
}

// ValidatePrescriptionEntries rejects empty prescriptions and incomplete
// medication lines.
func ValidatePrescriptionEntries(entries models.PrescriptionEntries) error {
	if len(entries) == 0 {
		return errors.New("prescription must contain at least one entry")
	}
	for _, entry := range entries {
		if err := validation.ValidateStruct(&entry,
			validation.Field(&entry.DrugName, validation.Required),
			validation.Field(&entry.Dosage, validation.Required),
		); err != nil {
			return err
		}
	}
	return nil
}
