package handlers

import (
	"ClinicCore/middlewares"
	"ClinicCore/models"
	"ClinicCore/services"
	"net/http"

	"github.com/gin-gonic/gin"
)

type VisitHandler struct {
	service *services.VisitService
}

func NewVisitHandler(service *services.VisitService) *VisitHandler {
	return &VisitHandler{service: service}
}

func (h *VisitHandler) CreateVisit(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	var visit models.Visit
	if err := c.ShouldBindJSON(&visit); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}

	created, err := h.service.Create(c.Request.Context(), caller, &visit)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusCreated, "visit recorded", created)
}

// GetAllVisits lists visits; ?patient_id= narrows to one patient.
func (h *VisitHandler) GetAllVisits(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	patientID, ok := queryID(c, "patient_id")
	if !ok {
		return
	}
	visits, err := h.service.GetAll(c.Request.Context(), caller, patientID)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "visits retrieved", visits)
}

func (h *VisitHandler) GetVisitByID(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "visit_id")
	if !ok {
		return
	}
	visit, err := h.service.GetByID(c.Request.Context(), caller, id)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "visit retrieved", visit)
}

func (h *VisitHandler) UpdateVisit(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "visit_id")
	if !ok {
		return
	}
	var visit models.Visit
	if err := c.ShouldBindJSON(&visit); err != nil {
		middlewares.HttpError(c, http.StatusBadRequest, "invalid request body", err)
		return
	}
	visit.ID = id

	updated, err := h.service.Update(c.Request.Context(), caller, &visit)
	if err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "visit updated", updated)
}

func (h *VisitHandler) RemoveVisit(c *gin.Context) {
	caller, ok := callerFrom(c)
	if !ok {
		return
	}
	id, ok := pathID(c, "visit_id")
	if !ok {
		return
	}
	if err := h.service.Remove(c.Request.Context(), caller, id); err != nil {
		fail(c, err)
		return
	}
	middlewares.RespondJSON(c, http.StatusOK, "visit removed", nil)
}
