package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/models"
	"ClinicCore/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PatientHandler struct {
	service *services.PatientService
}

func NewPatientHandler(service *services.PatientService) *PatientHandler {
	return &PatientHandler{service: service}
}

func (h *PatientHandler) RegisterPatient(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.service.Register(c.Request.Context(), caller, &patient)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, "patient registered", created)
}

func (h *PatientHandler) GetAllPatients(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	patients, err := h.service.GetAll(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "patients retrieved", patients)
}

func (h *PatientHandler) GetPatientByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "patient_id")
	if !ok {
		return
	}
	patient, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "patient retrieved", patient)
}

func (h *PatientHandler) UpdatePatient(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "patient_id")
	if !ok {
		return
	}
	var patient models.Patient
	if err := c.ShouldBindJSON(&patient); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	patient.ID = id

	updated, err := h.service.Update(c.Request.Context(), caller, &patient)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "patient updated", updated)
}

func (h *PatientHandler) RemovePatient(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "patient_id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "patient removed", nil)
}
