package controllers

import (
	"ClinicCore/handlers"
	"ClinicCore/middlewares"

	"github.com/gin-gonic/gin"
)

// SetupClinicRoutes registers all tenant-scoped entity routes. Every route
// requires a valid tenant-scoped token; fine-grained role checks happen in
// the services against the caller's membership.
func SetupClinicRoutes(router *gin.Engine, patientHandler *handlers.PatientHandler, doctorHandler *handlers.DoctorHandler, staffHandler *handlers.StaffHandler, visitHandler *handlers.VisitHandler, operationHandler *handlers.OperationHandler, prescriptionHandler *handlers.PrescriptionHandler, billingHandler *handlers.BillingHandler) {
	clinic := router.Group("/").Use(middlewares.TokenAuthMiddleware())
	{
		clinic.POST("/patients", patientHandler.RegisterPatient)
		clinic.GET("/patients", patientHandler.GetAllPatients)
		clinic.GET("/patients/:patient_id", patientHandler.GetPatientByID)
		clinic.PUT("/patients/:patient_id", patientHandler.UpdatePatient)
		clinic.DELETE("/patients/:patient_id", patientHandler.RemovePatient)

		clinic.POST("/doctors", doctorHandler.CreateDoctor)
		clinic.GET("/doctors", doctorHandler.GetAllDoctors)
		clinic.GET("/doctors/:doctor_id", doctorHandler.GetDoctorByID)
		clinic.PUT("/doctors/:doctor_id", doctorHandler.UpdateDoctor)
		clinic.DELETE("/doctors/:doctor_id", doctorHandler.RemoveDoctor)
		clinic.POST("/doctors/:doctor_id/restore", doctorHandler.RestoreDoctor)

		clinic.POST("/staff", staffHandler.CreateStaff)
		clinic.GET("/staff", staffHandler.GetAllStaff)
		clinic.GET("/staff/:staff_id", staffHandler.GetStaffByID)
		clinic.PUT("/staff/:staff_id", staffHandler.UpdateStaff)
		clinic.DELETE("/staff/:staff_id", staffHandler.RemoveStaff)
		clinic.POST("/staff/:staff_id/restore", staffHandler.RestoreStaff)

		clinic.POST("/visits", visitHandler.CreateVisit)
		clinic.GET("/visits", visitHandler.GetAllVisits)
		clinic.GET("/visits/:visit_id", visitHandler.GetVisitByID)
		clinic.PUT("/visits/:visit_id", visitHandler.UpdateVisit)
		clinic.DELETE("/visits/:visit_id", visitHandler.RemoveVisit)

		clinic.POST("/operations", operationHandler.CreateOperation)
		clinic.GET("/operations", operationHandler.GetAllOperations)
		clinic.GET("/operations/:operation_id", operationHandler.GetOperationByID)
		clinic.PUT("/operations/:operation_id", operationHandler.UpdateOperation)
		clinic.DELETE("/operations/:operation_id", operationHandler.RemoveOperation)

		clinic.POST("/prescriptions", prescriptionHandler.CreatePrescription)
		clinic.GET("/prescriptions", prescriptionHandler.GetAllPrescriptions)
		clinic.GET("/prescriptions/:prescription_id", prescriptionHandler.GetPrescriptionByID)
		clinic.PUT("/prescriptions/:prescription_id", prescriptionHandler.UpdatePrescription)
		clinic.DELETE("/prescriptions/:prescription_id", prescriptionHandler.RemovePrescription)

		clinic.GET("/billings", billingHandler.GetAllBillings)
		clinic.GET("/billings/:billing_id", billingHandler.GetBillingByID)
		clinic.PUT("/billings/:billing_id/status", billingHandler.UpdateBillingStatus)
	}
}
