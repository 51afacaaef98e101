package services

import (
	"ClinicCore/models"
	"context"
	"net/http"
	"testing"
	"time"
)

type visitFixture struct {
	svc      *VisitService
	visits   *fakeVisitRepo
	patients *fakePatientRepo
	doctors  *fakeDoctorRepo
}

func newVisitFixture() *visitFixture {
	memberships := &fakeMembershipRepo{}
	memberships.add(1, 10, models.RoleAdmin)
	memberships.add(2, 10, models.RoleNurse)

	visits := &fakeVisitRepo{}
	patients := &fakePatientRepo{}
	doctors := &fakeDoctorRepo{}
	return &visitFixture{
		svc:      NewVisitService(visits, patients, doctors, NewMembershipService(memberships)),
		visits:   visits,
		patients: patients,
		doctors:  doctors,
	}
}

func TestFirstVisitChargesRegistrationFee(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10, RegistrationFee: 75})

	visit := &models.Visit{PatientID: patient.ID, ConsultationFee: 20}
	created, err := f.svc.Create(context.Background(), admin, visit)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	billing := f.visits.createdBilling
	if billing == nil {
		t.Fatal("first visit raised no billing")
	}
	if billing.Amount != 75 {
		t.Fatalf("billing amount = %v, want the registration fee 75", billing.Amount)
	}
	if billing.BillingType != models.BillingTypeRegistration {
		t.Fatalf("billing type = %q, want %q", billing.BillingType, models.BillingTypeRegistration)
	}
	if created.FeeValidUntil.Before(time.Now()) {
		t.Fatal("fee validity window not started")
	}
}

func TestVisitInsideWaiverWindowChargesNothing(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10, RegistrationFee: 75})

	// Previous visit 13 days ago, still inside the 14-day window.
	validUntil := time.Now().Add(24 * time.Hour)
	f.visits.add(&models.Visit{
		TenantID:      10,
		PatientID:     patient.ID,
		FeeValidUntil: validUntil,
		CreatedAt:     time.Now().Add(-13 * 24 * time.Hour),
	})
	f.visits.createdBilling = nil

	created, err := f.svc.Create(context.Background(), admin, &models.Visit{PatientID: patient.ID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if f.visits.createdBilling != nil {
		t.Fatal("visit inside the waiver window raised a billing")
	}
	if !created.FeeValidUntil.Equal(validUntil) {
		t.Fatalf("fee valid until = %v, want inherited %v", created.FeeValidUntil, validUntil)
	}
}

func TestVisitOutsideWaiverWindowChargesAgain(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10, RegistrationFee: 75})

	// Previous visit 15 days ago; its window has lapsed.
	f.visits.add(&models.Visit{
		TenantID:      10,
		PatientID:     patient.ID,
		FeeValidUntil: time.Now().Add(-24 * time.Hour),
		CreatedAt:     time.Now().Add(-15 * 24 * time.Hour),
	})
	f.visits.createdBilling = nil

	created, err := f.svc.Create(context.Background(), admin, &models.Visit{PatientID: patient.ID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	billing := f.visits.createdBilling
	if billing == nil {
		t.Fatal("visit outside the waiver window raised no billing")
	}
	if billing.Amount != 75 {
		t.Fatalf("billing amount = %v, want 75", billing.Amount)
	}
	if created.FeeValidUntil.Before(time.Now().Add(models.FeeWaiverWindow - time.Minute)) {
		t.Fatal("fee validity window not restarted")
	}
}

func TestCreateVisitRejectsNurse(t *testing.T) {
	f := newVisitFixture()
	nurse := Caller{UserID: 2, TenantID: 10, Role: models.RoleNurse}
	patient := f.patients.add(&models.Patient{TenantID: 10})

	_, err := f.svc.Create(context.Background(), nurse, &models.Visit{PatientID: patient.ID})
	if got := statusCode(t, err); got != http.StatusForbidden {
		t.Fatalf("Create() status = %d, want %d", got, http.StatusForbidden)
	}
}

func TestCreateVisitRejectsForeignPatient(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	foreign := f.patients.add(&models.Patient{TenantID: 99})

	_, err := f.svc.Create(context.Background(), admin, &models.Visit{PatientID: foreign.ID})
	if got := statusCode(t, err); got != http.StatusNotFound {
		t.Fatalf("Create() status = %d, want %d", got, http.StatusNotFound)
	}
}

func TestVisitCarriesCallerAsRecorder(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10})

	created, err := f.svc.Create(context.Background(), admin, &models.Visit{PatientID: patient.ID})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if created.StaffUserID != admin.UserID {
		t.Fatalf("staff user = %d, want %d", created.StaffUserID, admin.UserID)
	}
	if created.TenantID != 10 {
		t.Fatalf("tenant id = %d, want 10", created.TenantID)
	}
}

func TestCreateVisitRejectsNegativeFee(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10})

	_, err := f.svc.Create(context.Background(), admin, &models.Visit{PatientID: patient.ID, ConsultationFee: -5})
	if got := statusCode(t, err); got != http.StatusBadRequest {
		t.Fatalf("Create() status = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestUpdateVisitRejectsNegativeFee(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10})
	existing := f.visits.add(&models.Visit{TenantID: 10, PatientID: patient.ID, ConsultationFee: 20})

	_, err := f.svc.Update(context.Background(), admin, &models.Visit{ID: existing.ID, ConsultationFee: -1})
	if got := statusCode(t, err); got != http.StatusBadRequest {
		t.Fatalf("Update() status = %d, want %d", got, http.StatusBadRequest)
	}
}

func TestRemoveVisitTwiceReportsAlreadyDeleted(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	patient := f.patients.add(&models.Patient{TenantID: 10})
	existing := f.visits.add(&models.Visit{TenantID: 10, PatientID: patient.ID})

	if err := f.svc.Remove(context.Background(), admin, existing.ID); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	err := f.svc.Remove(context.Background(), admin, existing.ID)
	if got := statusCode(t, err); got != http.StatusNotFound {
		t.Fatalf("second Remove() status = %d, want %d", got, http.StatusNotFound)
	}
	if err.Error() != "visit already deleted" {
		t.Fatalf("second Remove() message = %q, want %q", err.Error(), "visit already deleted")
	}
}

func TestGetAllVisitsRejectsForeignPatientFilter(t *testing.T) {
	f := newVisitFixture()
	admin := Caller{UserID: 1, TenantID: 10, Role: models.RoleAdmin}
	foreign := f.patients.add(&models.Patient{TenantID: 99})

	_, err := f.svc.GetAll(context.Background(), admin, foreign.ID)
	if got := statusCode(t, err); got != http.StatusNotFound {
		t.Fatalf("GetAll() status = %d, want %d", got, http.StatusNotFound)
	}
}
