package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/models"
	"ClinicCore/services"
	"ClinicCore/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type DoctorHandler struct {
	service *services.DoctorService
}

func NewDoctorHandler(service *services.DoctorService) *DoctorHandler {
	return &DoctorHandler{service: service}
}

func (h *DoctorHandler) CreateDoctor(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var data utils.EmployeeData
	if err := c.ShouldBindJSON(&data); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	doctor, err := h.service.Create(c.Request.Context(), caller, data)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, "doctor created", doctor)
}

func (h *DoctorHandler) GetAllDoctors(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	doctors, err := h.service.GetAll(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "doctors retrieved", doctors)
}

func (h *DoctorHandler) GetDoctorByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "doctor_id")
	if !ok {
		return
	}
	doctor, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "doctor retrieved", doctor)
}

func (h *DoctorHandler) UpdateDoctor(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "doctor_id")
	if !ok {
		return
	}
	var doctor models.Doctor
	if err := c.ShouldBindJSON(&doctor); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	doctor.ID = id

	updated, err := h.service.Update(c.Request.Context(), caller, &doctor)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "doctor updated", updated)
}

func (h *DoctorHandler) RemoveDoctor(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "doctor_id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "doctor removed", nil)
}

func (h *DoctorHandler) RestoreDoctor(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "doctor_id")
	if !ok {
		return
	}
	doctor, err := h.service.Restore(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "doctor restored", doctor)
}
