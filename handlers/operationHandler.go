package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/models"
	"ClinicCore/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type OperationHandler struct {
	service *services.OperationService
}

func NewOperationHandler(service *services.OperationService) *OperationHandler {
	return &OperationHandler{service: service}
}

func (h *OperationHandler) CreateOperation(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var op models.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller, &op)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, "operation recorded", created)
}

// GetAllOperations lists operations; ?patient_id= narrows to one patient.
func (h *OperationHandler) GetAllOperations(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	patientID, ok := queryID(c, "patient_id")
	if !ok {
		return
	}
	ops, err := h.service.GetAll(c.Request.Context(), caller, patientID)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "operations retrieved", ops)
}

func (h *OperationHandler) GetOperationByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "operation_id")
	if !ok {
		return
	}
	op, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "operation retrieved", op)
}

func (h *OperationHandler) UpdateOperation(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "operation_id")
	if !ok {
		return
	}
	var op models.Operation
	if err := c.ShouldBindJSON(&op); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	op.ID = id

	updated, err := h.service.Update(c.Request.Context(), caller, &op)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "operation updated", updated)
}

func (h *OperationHandler) RemoveOperation(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "operation_id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "operation removed", nil)
}
