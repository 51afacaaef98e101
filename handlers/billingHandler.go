package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	service *services.BillingService
}

func NewBillingHandler(service *services.BillingService) *BillingHandler {
	return &BillingHandler{service: service}
}

// GetAllBillings lists billing rows; ?patient_id= narrows to one patient.
func (h *BillingHandler) GetAllBillings(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	patientID, ok := queryID(c, "patient_id")
	if !ok {
		return
	}
	billings, err := h.service.GetAll(c.Request.Context(), caller, patientID)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "billings retrieved", billings)
}

func (h *BillingHandler) GetBillingByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	billingID := c.Param("billing_id")
	if billingID == "" {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid billing_id", nil)
		return
	}
	billing, err := h.service.GetByID(c.Request.Context(), caller, billingID)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "billing retrieved", billing)
}

type billingStatusRequest struct {
	Status string `json:"status"`
}

// UpdateBillingStatus moves a billing row through the payment lifecycle.
func (h *BillingHandler) UpdateBillingStatus(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	billingID := c.Param("billing_id")
	if billingID == "" {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid billing_id", nil)
		return
	}
	var req billingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	billing, err := h.service.UpdateStatus(c.Request.Context(), caller, billingID, req.Status)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "billing status updated", billing)
}
