package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"gorm.io/gorm"
)

// Billing types and payment statuses.
const (
	BillingTypeRegistration = "REGISTRATION"
	BillingTypeOperation    = "OPERATION"

	PaymentStatusUnpaid  = "UNPAID"
	PaymentStatusPartial = "PARTIAL"
	PaymentStatusPaid    = "PAID"
)

// FeeWaiverWindow is the period after a visit during which a new visit does
// not re-charge the registration fee.
const FeeWaiverWindow = 14 * 24 * time.Hour

// Doctor is a tenant-scoped profile wrapping a User. EmployeeCode is unique
// per tenant, not globally.
type Doctor struct {
	ID           int64          `gorm:"primaryKey;column:id" json:"id"`
	TenantID     int64          `gorm:"not null;index;uniqueIndex:idx_doctor_tenant_code;column:tenant_id" json:"tenant_id"`
	UserID       int64          `gorm:"not null;index;column:user_id" json:"user_id"`
	EmployeeCode string         `gorm:"size:50;not null;uniqueIndex:idx_doctor_tenant_code;column:employee_code" json:"employee_code"`
	Specialty    string         `gorm:"size:100;column:specialty" json:"specialty"`
	Phone        string         `gorm:"size:30;column:phone" json:"phone"`
	IsActive     bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
	User         User           `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (Doctor) TableName() string {
	return "doctors"
}

// Staff is a tenant-scoped profile wrapping a User.
type Staff struct {
	ID           int64          `gorm:"primaryKey;column:id" json:"id"`
	TenantID     int64          `gorm:"not null;index;uniqueIndex:idx_staff_tenant_code;column:tenant_id" json:"tenant_id"`
	UserID       int64          `gorm:"not null;index;column:user_id" json:"user_id"`
	EmployeeCode string         `gorm:"size:50;not null;uniqueIndex:idx_staff_tenant_code;column:employee_code" json:"employee_code"`
	Phone        string         `gorm:"size:30;column:phone" json:"phone"`
	IsActive     bool           `gorm:"not null;default:true;column:is_active" json:"is_active"`
	CreatedAt    time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
	User         User           `gorm:"foreignKey:UserID;references:ID" json:"user,omitempty"`
}

func (Staff) TableName() string {
	return "staff"
}

// Patient model. PatientNumber is generated per tenant: PT-<TENANTCODE>-<seq>.
type Patient struct {
	ID              int64          `gorm:"primaryKey;column:id" json:"id"`
	TenantID        int64          `gorm:"not null;index;uniqueIndex:idx_patient_tenant_number;column:tenant_id" json:"tenant_id"`
	PatientNumber   string         `gorm:"size:30;not null;uniqueIndex:idx_patient_tenant_number;column:patient_number" json:"patient_number"`
	FirstName       string         `gorm:"size:100;not null;column:first_name" json:"first_name"`
	LastName        string         `gorm:"size:100;not null;index;column:last_name" json:"last_name"`
	Sex             string         `gorm:"size:10;check:sex IN ('Male', 'Female', 'Other');not null;column:sex" json:"sex"`
	DateOfBirth     string         `gorm:"size:10;not null;column:date_of_birth" json:"date_of_birth"`
	Phone           string         `gorm:"size:30;column:phone" json:"phone"`
	Address         string         `gorm:"size:255;column:address" json:"address"`
	RegistrationFee float64        `gorm:"not null;column:registration_fee" json:"registration_fee"`
	NoOfVisits      int            `gorm:"not null;default:0;column:no_of_visits" json:"no_of_visits"`
	DoctorID        *int64         `gorm:"index;column:doctor_id" json:"doctor_id"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
	Visits          []Visit        `gorm:"foreignKey:PatientID;references:ID" json:"visits,omitempty"`
	Billings        []Billing      `gorm:"foreignKey:PatientID;references:ID" json:"billings,omitempty"`
}

func (Patient) TableName() string {
	return "patients"
}

// Visit model. FeeValidUntil implements the registration-fee waiver window:
// a visit within the window of the previous one does not re-charge the fee.
type Visit struct {
	ID              int64          `gorm:"primaryKey;column:id" json:"id"`
	TenantID        int64          `gorm:"not null;index;column:tenant_id" json:"tenant_id"`
	PatientID       int64          `gorm:"not null;index;column:patient_id" json:"patient_id"`
	DoctorID        *int64         `gorm:"index;column:doctor_id" json:"doctor_id"`
	StaffUserID     int64          `gorm:"not null;column:staff_user_id" json:"staff_user_id"`
	Notes           string         `gorm:"type:text;column:notes" json:"notes"`
	ConsultationFee float64        `gorm:"not null;column:consultation_fee" json:"consultation_fee"`
	FeeValidUntil   time.Time      `gorm:"not null;column:fee_valid_until" json:"fee_valid_until"`
	CreatedAt       time.Time      `gorm:"autoCreateTime;index;column:created_at" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (Visit) TableName() string {
	return "visits"
}

// PrescriptionEntry is a single medication line on a prescription.
type PrescriptionEntry struct {
	DrugName     string `json:"drug_name"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration,omitempty"`
	Instructions string `json:"instructions,omitempty"`
}

// PrescriptionEntries is stored as a JSONB blob, preserving entry order.
type PrescriptionEntries []PrescriptionEntry

func (e PrescriptionEntries) Value() (driver.Value, error) {
	return json.Marshal(e)
}

func (e *PrescriptionEntries) Scan(value interface{}) error {
	switch v := value.(type) {
	case []byte:
		return json.Unmarshal(v, e)
	case string:
		return json.Unmarshal([]byte(v), e)
	default:
		return fmt.Errorf("unsupported type for prescription entries: %T", value)
	}
}

// Prescription belongs to one Visit.
type Prescription struct {
	ID        int64               `gorm:"primaryKey;column:id" json:"id"`
	TenantID  int64               `gorm:"not null;index;column:tenant_id" json:"tenant_id"`
	VisitID   int64               `gorm:"not null;index;column:visit_id" json:"visit_id"`
	Entries   PrescriptionEntries `gorm:"type:jsonb;not null;column:entries" json:"entries"`
	CreatedAt time.Time           `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt time.Time           `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt gorm.DeletedAt      `gorm:"index;column:deleted_at" json:"-"`
}

func (Prescription) TableName() string {
	return "prescriptions"
}

// Operation belongs to one Patient and one Doctor acting as surgeon.
// Creation and deletion cascade to an associated Billing row.
type Operation struct {
	ID            int64          `gorm:"primaryKey;column:id" json:"id"`
	TenantID      int64          `gorm:"not null;index;column:tenant_id" json:"tenant_id"`
	PatientID     int64          `gorm:"not null;index;column:patient_id" json:"patient_id"`
	DoctorID      int64          `gorm:"not null;index;column:doctor_id" json:"doctor_id"`
	Fee           float64        `gorm:"not null;column:fee" json:"fee"`
	OperationDate time.Time      `gorm:"not null;column:operation_date" json:"operation_date"`
	Outcome       string         `gorm:"type:text;column:outcome" json:"outcome"`
	CreatedAt     time.Time      `gorm:"autoCreateTime;column:created_at" json:"created_at"`
	UpdatedAt     time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (Operation) TableName() string {
	return "operations"
}

// Billing model.
type Billing struct {
	BillingID   string         `gorm:"primaryKey;size:36;column:billing_id" json:"billing_id"`
	TenantID    int64          `gorm:"not null;index;column:tenant_id" json:"tenant_id"`
	PatientID   int64          `gorm:"not null;index;column:patient_id" json:"patient_id"`
	BillingType string         `gorm:"size:20;not null;column:billing_type" json:"billing_type"`
	Amount      float64        `gorm:"not null;column:amount" json:"amount"`
	Status      string         `gorm:"size:20;not null;column:status" json:"status"`
	CreatedAt   time.Time      `gorm:"autoCreateTime;index;column:created_at" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime;column:updated_at" json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index;column:deleted_at" json:"-"`
}

func (Billing) TableName() string {
	return "billings"
}
