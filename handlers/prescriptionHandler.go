package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/models"
	"ClinicCore/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type PrescriptionHandler struct {
	service *services.PrescriptionService
}

func NewPrescriptionHandler(service *services.PrescriptionService) *PrescriptionHandler {
	return &PrescriptionHandler{service: service}
}

func (h *PrescriptionHandler) CreatePrescription(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var prescription models.Prescription
	if err := c.ShouldBindJSON(&prescription); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller, &prescription)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, "prescription created", created)
}

// GetAllPrescriptions lists prescriptions; ?visit_id= narrows to one visit.
func (h *PrescriptionHandler) GetAllPrescriptions(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	visitID, ok := queryID(c, "visit_id")
	if !ok {
		return
	}
	prescriptions, err := h.service.GetAll(c.Request.Context(), caller, visitID)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "prescriptions retrieved", prescriptions)
}

func (h *PrescriptionHandler) GetPrescriptionByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "prescription_id")
	if !ok {
		return
	}
	prescription, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "prescription retrieved", prescription)
}

func (h *PrescriptionHandler) UpdatePrescription(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "prescription_id")
	if !ok {
		return
	}
	var prescription models.Prescription
	if err := c.ShouldBindJSON(&prescription); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	prescription.ID = id

	updated, err := h.service.Update(c.Request.Context(), caller, &prescription)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "prescription updated", updated)
}

func (h *PrescriptionHandler) RemovePrescription(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "prescription_id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "prescription removed", nil)
}
