package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/models"
	"ClinicCore/services"
	"ClinicCore/utils"
	"net/http"

	"github.com/gin-gonic/gin"
)

type StaffHandler struct {
	service *services.StaffService
}

func NewStaffHandler(service *services.StaffService) *StaffHandler {
	return &StaffHandler{service: service}
}

func (h *StaffHandler) CreateStaff(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var data utils.EmployeeData
	if err := c.ShouldBindJSON(&data); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	member, err := h.service.Create(c.Request.Context(), caller, data)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, "staff member created", member)
}

func (h *StaffHandler) GetAllStaff(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	staffList, err := h.service.GetAll(c.Request.Context(), caller)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "staff retrieved", staffList)
}

func (h *StaffHandler) GetStaffByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "staff_id")
	if !ok {
		return
	}
	member, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "staff member retrieved", member)
}

func (h *StaffHandler) UpdateStaff(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "staff_id")
	if !ok {
		return
	}
	var member models.Staff
	if err := c.ShouldBindJSON(&member); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	member.ID = id

	updated, err := h.service.Update(c.Request.Context(), caller, &member)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "staff member updated", updated)
}

func (h *StaffHandler) RemoveStaff(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "staff_id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "staff member removed", nil)
}

func (h *StaffHandler) RestoreStaff(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "staff_id")
	if !ok {
		return
	}
	member, err := h.service.Restore(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "staff member restored", member)
}
