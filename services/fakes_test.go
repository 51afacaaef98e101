package services

import (
	"ClinicCore/models"
	"context"
	"time"

	"gorm.io/gorm"
)

// In-memory repository fakes. Each keeps just enough state for the service
// behavior under test; soft deletes are modeled with gorm.DeletedAt.

func deleted() gorm.DeletedAt {
	return gorm.DeletedAt{Time: time.Now(), Valid: true}
}

type fakeMembershipRepo struct {
	rows []*models.UserTenant
}

func (f *fakeMembershipRepo) add(userID, tenantID int64, role string) *models.UserTenant {
	row := &models.UserTenant{
		ID:       int64(len(f.rows) + 1),
		UserID:   userID,
		TenantID: tenantID,
		Role:     role,
	}
	f.rows = append(f.rows, row)
	return row
}

func (f *fakeMembershipRepo) Get(_ context.Context, userID, tenantID int64) (*models.UserTenant, error) {
	for _, row := range f.rows {
		if row.UserID == userID && row.TenantID == tenantID && !row.DeletedAt.Valid {
			copied := *row
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeMembershipRepo) ListActiveForUser(_ context.Context, userID int64) ([]models.UserTenant, error) {
	var out []models.UserTenant
	for _, row := range f.rows {
		if row.UserID == userID && !row.DeletedAt.Valid {
			out = append(out, *row)
		}
	}
	return out, nil
}

type fakeUserRepo struct {
	users  []*models.User
	nextID int64

	// signup collaborators, filled in by CreateSignup
	tenants     *fakeTenantRepo
	memberships *fakeMembershipRepo

	// duplicateKeyTimes makes the next N CreateSignup calls fail the way a
	// unique-index violation does.
	duplicateKeyTimes int
}

func (f *fakeUserRepo) add(email, password, name, role string) *models.User {
	f.nextID++
	user := &models.User{ID: f.nextID, Email: email, Password: password, Name: name, Role: role}
	f.users = append(f.users, user)
	return user
}

func (f *fakeUserRepo) EmailExists(_ context.Context, email string) (bool, error) {
	for _, u := range f.users {
		if u.Email == email && !u.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email && !u.DeletedAt.Valid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, userID int64) (*models.User, error) {
	for _, u := range f.users {
		if u.ID == userID && !u.DeletedAt.Valid {
			copied := *u
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeUserRepo) CreateSignup(_ context.Context, user *models.User, tenant *models.Tenant, membership *models.UserTenant) error {
	if f.duplicateKeyTimes > 0 {
		f.duplicateKeyTimes--
		return gorm.ErrDuplicatedKey
	}
	f.nextID++
	user.ID = f.nextID
	f.users = append(f.users, user)
	if f.tenants != nil {
		f.tenants.add(tenant)
	}
	if f.memberships != nil {
		row := f.memberships.add(user.ID, tenant.ID, membership.Role)
		membership.ID = row.ID
	}
	membership.UserID = user.ID
	membership.TenantID = tenant.ID
	return nil
}

func (f *fakeUserRepo) UpdatePassword(_ context.Context, userID int64, hashedPassword string) error {
	for _, u := range f.users {
		if u.ID == userID {
			u.Password = hashedPassword
		}
	}
	return nil
}

type fakeTenantRepo struct {
	tenants    []*models.Tenant
	nextID     int64
	takenCodes map[string]bool
}

func (f *fakeTenantRepo) add(tenant *models.Tenant) *models.Tenant {
	if tenant.ID == 0 {
		f.nextID++
		tenant.ID = f.nextID
	} else if tenant.ID > f.nextID {
		f.nextID = tenant.ID
	}
	f.tenants = append(f.tenants, tenant)
	return tenant
}

func (f *fakeTenantRepo) GetByID(_ context.Context, tenantID int64) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.ID == tenantID && !t.DeletedAt.Valid {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) GetByCode(_ context.Context, code string) (*models.Tenant, error) {
	for _, t := range f.tenants {
		if t.Code == code && !t.DeletedAt.Valid {
			copied := *t
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeTenantRepo) CodeExists(_ context.Context, code string) (bool, error) {
	if f.takenCodes != nil && f.takenCodes[code] {
		return true, nil
	}
	for _, t := range f.tenants {
		if t.Code == code {
			return true, nil
		}
	}
	return false, nil
}

type fakePatientRepo struct {
	patients []*models.Patient
	nextID   int64

	countAllTime int64

	// side effects captured from CreateWithRegistration
	createdBilling *models.Billing
	createdVisit   *models.Visit
}

func (f *fakePatientRepo) add(patient *models.Patient) *models.Patient {
	f.nextID++
	patient.ID = f.nextID
	f.patients = append(f.patients, patient)
	return patient
}

func (f *fakePatientRepo) CreateWithRegistration(_ context.Context, patient *models.Patient, billing *models.Billing, visit *models.Visit) error {
	f.add(patient)
	billing.PatientID = patient.ID
	visit.PatientID = patient.ID
	f.createdBilling = billing
	f.createdVisit = visit
	return nil
}

func (f *fakePatientRepo) GetByID(_ context.Context, id int64) (*models.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id && !p.DeletedAt.Valid {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) GetByIDAny(_ context.Context, id int64) (*models.Patient, error) {
	for _, p := range f.patients {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePatientRepo) GetAll(_ context.Context, tenantID int64) ([]models.Patient, error) {
	var out []models.Patient
	for _, p := range f.patients {
		if p.TenantID == tenantID && !p.DeletedAt.Valid {
			out = append(out, *p)
		}
	}
	return out, nil
}

func (f *fakePatientRepo) CountAllTime(_ context.Context, tenantID int64) (int64, error) {
	if f.countAllTime != 0 {
		return f.countAllTime, nil
	}
	var count int64
	for _, p := range f.patients {
		if p.TenantID == tenantID {
			count++
		}
	}
	return count, nil
}

func (f *fakePatientRepo) Update(_ context.Context, patient *models.Patient) error {
	for _, p := range f.patients {
		if p.ID == patient.ID {
			p.FirstName = patient.FirstName
			p.LastName = patient.LastName
			p.Sex = patient.Sex
			p.DateOfBirth = patient.DateOfBirth
			p.Phone = patient.Phone
			p.Address = patient.Address
			p.RegistrationFee = patient.RegistrationFee
			p.DoctorID = patient.DoctorID
		}
	}
	return nil
}

func (f *fakePatientRepo) SoftDelete(_ context.Context, id int64) error {
	for _, p := range f.patients {
		if p.ID == id {
			p.DeletedAt = deleted()
		}
	}
	return nil
}

type fakeDoctorRepo struct {
	doctors []*models.Doctor
	nextID  int64

	memberships *fakeMembershipRepo
}

func (f *fakeDoctorRepo) add(doctor *models.Doctor) *models.Doctor {
	f.nextID++
	doctor.ID = f.nextID
	f.doctors = append(f.doctors, doctor)
	return doctor
}

func (f *fakeDoctorRepo) CreateWithUser(_ context.Context, user *models.User, doctor *models.Doctor, membership *models.UserTenant) error {
	user.ID = int64(1000 + len(f.doctors))
	doctor.UserID = user.ID
	doctor.User = *user
	f.add(doctor)
	if f.memberships != nil {
		f.memberships.add(user.ID, doctor.TenantID, membership.Role)
	}
	membership.UserID = user.ID
	membership.TenantID = doctor.TenantID
	return nil
}

func (f *fakeDoctorRepo) GetByID(_ context.Context, id int64) (*models.Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id && !d.DeletedAt.Valid {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) GetByIDAny(_ context.Context, id int64) (*models.Doctor, error) {
	for _, d := range f.doctors {
		if d.ID == id {
			copied := *d
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeDoctorRepo) GetAll(_ context.Context, tenantID int64) ([]models.Doctor, error) {
	var out []models.Doctor
	for _, d := range f.doctors {
		if d.TenantID == tenantID && !d.DeletedAt.Valid {
			out = append(out, *d)
		}
	}
	return out, nil
}

func (f *fakeDoctorRepo) EmployeeCodeExists(_ context.Context, tenantID int64, code string, excludeID int64) (bool, error) {
	for _, d := range f.doctors {
		if d.TenantID == tenantID && d.EmployeeCode == code && d.ID != excludeID && !d.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeDoctorRepo) Update(_ context.Context, doctor *models.Doctor) error {
	for _, d := range f.doctors {
		if d.ID == doctor.ID {
			d.EmployeeCode = doctor.EmployeeCode
			d.Specialty = doctor.Specialty
			d.Phone = doctor.Phone
			d.IsActive = doctor.IsActive
		}
	}
	return nil
}

func (f *fakeDoctorRepo) SoftDeleteWithUser(_ context.Context, doctor *models.Doctor) error {
	for _, d := range f.doctors {
		if d.ID == doctor.ID {
			d.IsActive = false
			d.DeletedAt = deleted()
		}
	}
	if f.memberships != nil {
		for _, row := range f.memberships.rows {
			if row.UserID == doctor.UserID && row.TenantID == doctor.TenantID {
				row.DeletedAt = deleted()
			}
		}
	}
	return nil
}

func (f *fakeDoctorRepo) RestoreWithUser(_ context.Context, doctor *models.Doctor) error {
	for _, d := range f.doctors {
		if d.ID == doctor.ID {
			d.IsActive = true
			d.DeletedAt = gorm.DeletedAt{}
		}
	}
	if f.memberships != nil {
		for _, row := range f.memberships.rows {
			if row.UserID == doctor.UserID && row.TenantID == doctor.TenantID {
				row.DeletedAt = gorm.DeletedAt{}
			}
		}
	}
	return nil
}

type fakeStaffRepo struct {
	staff  []*models.Staff
	nextID int64

	memberships *fakeMembershipRepo
}

func (f *fakeStaffRepo) add(member *models.Staff) *models.Staff {
	f.nextID++
	member.ID = f.nextID
	f.staff = append(f.staff, member)
	return member
}

func (f *fakeStaffRepo) CreateWithUser(_ context.Context, user *models.User, member *models.Staff, membership *models.UserTenant) error {
	user.ID = int64(2000 + len(f.staff))
	member.UserID = user.ID
	member.User = *user
	f.add(member)
	if f.memberships != nil {
		f.memberships.add(user.ID, member.TenantID, membership.Role)
	}
	membership.UserID = user.ID
	membership.TenantID = member.TenantID
	return nil
}

func (f *fakeStaffRepo) GetByID(_ context.Context, id int64) (*models.Staff, error) {
	for _, m := range f.staff {
		if m.ID == id && !m.DeletedAt.Valid {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) GetByIDAny(_ context.Context, id int64) (*models.Staff, error) {
	for _, m := range f.staff {
		if m.ID == id {
			copied := *m
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeStaffRepo) GetAll(_ context.Context, tenantID int64) ([]models.Staff, error) {
	var out []models.Staff
	for _, m := range f.staff {
		if m.TenantID == tenantID && !m.DeletedAt.Valid {
			out = append(out, *m)
		}
	}
	return out, nil
}

func (f *fakeStaffRepo) EmployeeCodeExists(_ context.Context, tenantID int64, code string, excludeID int64) (bool, error) {
	for _, m := range f.staff {
		if m.TenantID == tenantID && m.EmployeeCode == code && m.ID != excludeID && !m.DeletedAt.Valid {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeStaffRepo) Update(_ context.Context, member *models.Staff) error {
	for _, m := range f.staff {
		if m.ID == member.ID {
			m.EmployeeCode = member.EmployeeCode
			m.Phone = member.Phone
			m.IsActive = member.IsActive
		}
	}
	return nil
}

func (f *fakeStaffRepo) SoftDeleteWithUser(_ context.Context, member *models.Staff) error {
	for _, m := range f.staff {
		if m.ID == member.ID {
			m.IsActive = false
			m.DeletedAt = deleted()
		}
	}
	return nil
}

func (f *fakeStaffRepo) RestoreWithUser(_ context.Context, member *models.Staff) error {
	for _, m := range f.staff {
		if m.ID == member.ID {
			m.IsActive = true
			m.DeletedAt = gorm.DeletedAt{}
		}
	}
	return nil
}

type fakeVisitRepo struct {
	visits []*models.Visit
	nextID int64

	createdBilling *models.Billing
}

func (f *fakeVisitRepo) add(visit *models.Visit) *models.Visit {
	f.nextID++
	visit.ID = f.nextID
	if visit.CreatedAt.IsZero() {
		visit.CreatedAt = time.Now()
	}
	f.visits = append(f.visits, visit)
	return visit
}

func (f *fakeVisitRepo) CreateWithBilling(_ context.Context, visit *models.Visit, billing *models.Billing) error {
	f.add(visit)
	f.createdBilling = billing
	return nil
}

func (f *fakeVisitRepo) LatestForPatient(_ context.Context, patientID int64) (*models.Visit, error) {
	var latest *models.Visit
	for _, v := range f.visits {
		if v.PatientID != patientID || v.DeletedAt.Valid {
			continue
		}
		if latest == nil || v.CreatedAt.After(latest.CreatedAt) {
			latest = v
		}
	}
	if latest == nil {
		return nil, nil
	}
	copied := *latest
	return &copied, nil
}

func (f *fakeVisitRepo) GetByID(_ context.Context, id int64) (*models.Visit, error) {
	for _, v := range f.visits {
		if v.ID == id && !v.DeletedAt.Valid {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVisitRepo) GetByIDAny(_ context.Context, id int64) (*models.Visit, error) {
	for _, v := range f.visits {
		if v.ID == id {
			copied := *v
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeVisitRepo) GetAll(_ context.Context, tenantID, patientID int64) ([]models.Visit, error) {
	var out []models.Visit
	for _, v := range f.visits {
		if v.TenantID != tenantID || v.DeletedAt.Valid {
			continue
		}
		if patientID != 0 && v.PatientID != patientID {
			continue
		}
		out = append(out, *v)
	}
	return out, nil
}

func (f *fakeVisitRepo) Update(_ context.Context, visit *models.Visit) error {
	for _, v := range f.visits {
		if v.ID == visit.ID {
			v.Notes = visit.Notes
			v.ConsultationFee = visit.ConsultationFee
			v.DoctorID = visit.DoctorID
		}
	}
	return nil
}

func (f *fakeVisitRepo) SoftDelete(_ context.Context, id int64) error {
	for _, v := range f.visits {
		if v.ID == id {
			v.DeletedAt = deleted()
		}
	}
	return nil
}

type fakeOperationRepo struct {
	operations []*models.Operation
	nextID     int64

	billings      []*models.Billing
	lastVisitNote string
}

func (f *fakeOperationRepo) CreateWithBilling(_ context.Context, op *models.Operation, billing *models.Billing, visitNote string) error {
	f.nextID++
	op.ID = f.nextID
	f.operations = append(f.operations, op)
	billing.CreatedAt = time.Now()
	f.billings = append(f.billings, billing)
	f.lastVisitNote = visitNote
	return nil
}

func (f *fakeOperationRepo) GetByID(_ context.Context, id int64) (*models.Operation, error) {
	for _, op := range f.operations {
		if op.ID == id && !op.DeletedAt.Valid {
			copied := *op
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOperationRepo) GetByIDAny(_ context.Context, id int64) (*models.Operation, error) {
	for _, op := range f.operations {
		if op.ID == id {
			copied := *op
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeOperationRepo) GetAll(_ context.Context, tenantID, patientID int64) ([]models.Operation, error) {
	var out []models.Operation
	for _, op := range f.operations {
		if op.TenantID != tenantID || op.DeletedAt.Valid {
			continue
		}
		if patientID != 0 && op.PatientID != patientID {
			continue
		}
		out = append(out, *op)
	}
	return out, nil
}

func (f *fakeOperationRepo) latestOperationBilling(patientID int64) *models.Billing {
	var latest *models.Billing
	for _, b := range f.billings {
		if b.PatientID != patientID || b.BillingType != models.BillingTypeOperation || b.DeletedAt.Valid {
			continue
		}
		if latest == nil || b.CreatedAt.After(latest.CreatedAt) {
			latest = b
		}
	}
	return latest
}

func (f *fakeOperationRepo) UpdateWithBilling(_ context.Context, op *models.Operation) error {
	for _, existing := range f.operations {
		if existing.ID == op.ID {
			existing.DoctorID = op.DoctorID
			existing.Fee = op.Fee
			existing.OperationDate = op.OperationDate
			existing.Outcome = op.Outcome
		}
	}
	if billing := f.latestOperationBilling(op.PatientID); billing != nil {
		billing.Amount = op.Fee
	}
	return nil
}

func (f *fakeOperationRepo) SoftDeleteWithBilling(_ context.Context, op *models.Operation) error {
	for _, existing := range f.operations {
		if existing.ID == op.ID {
			existing.DeletedAt = deleted()
		}
	}
	if billing := f.latestOperationBilling(op.PatientID); billing != nil {
		billing.DeletedAt = deleted()
	}
	return nil
}

type fakePrescriptionRepo struct {
	prescriptions []*models.Prescription
	nextID        int64
}

func (f *fakePrescriptionRepo) Create(_ context.Context, prescription *models.Prescription) error {
	f.nextID++
	prescription.ID = f.nextID
	f.prescriptions = append(f.prescriptions, prescription)
	return nil
}

func (f *fakePrescriptionRepo) GetByID(_ context.Context, id int64) (*models.Prescription, error) {
	for _, p := range f.prescriptions {
		if p.ID == id && !p.DeletedAt.Valid {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) GetByIDAny(_ context.Context, id int64) (*models.Prescription, error) {
	for _, p := range f.prescriptions {
		if p.ID == id {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakePrescriptionRepo) GetAll(_ context.Context, tenantID, visitID int64) ([]models.Prescription, error) {
	var out []models.Prescription
	for _, p := range f.prescriptions {
		if p.TenantID != tenantID || p.DeletedAt.Valid {
			continue
		}
		if visitID != 0 && p.VisitID != visitID {
			continue
		}
		out = append(out, *p)
	}
	return out, nil
}

func (f *fakePrescriptionRepo) Update(_ context.Context, prescription *models.Prescription) error {
	for _, p := range f.prescriptions {
		if p.ID == prescription.ID {
			p.Entries = prescription.Entries
		}
	}
	return nil
}

func (f *fakePrescriptionRepo) SoftDelete(_ context.Context, id int64) error {
	for _, p := range f.prescriptions {
		if p.ID == id {
			p.DeletedAt = deleted()
		}
	}
	return nil
}

type fakeBillingRepo struct {
	billings []*models.Billing
}

func (f *fakeBillingRepo) add(billing *models.Billing) *models.Billing {
	f.billings = append(f.billings, billing)
	return billing
}

func (f *fakeBillingRepo) GetByID(_ context.Context, billingID string) (*models.Billing, error) {
	for _, b := range f.billings {
		if b.BillingID == billingID && !b.DeletedAt.Valid {
			copied := *b
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeBillingRepo) GetAll(_ context.Context, tenantID, patientID int64) ([]models.Billing, error) {
	var out []models.Billing
	for _, b := range f.billings {
		if b.TenantID != tenantID || b.DeletedAt.Valid {
			continue
		}
		if patientID != 0 && b.PatientID != patientID {
			continue
		}
		out = append(out, *b)
	}
	return out, nil
}

func (f *fakeBillingRepo) UpdateStatus(_ context.Context, billingID, status string) error {
	for _, b := range f.billings {
		if b.BillingID == billingID {
			b.Status = status
		}
	}
	return nil
}
