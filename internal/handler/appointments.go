package handler

import (
	"net/http"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type AppointmentsHandler struct{ svc service.AppointmentService }

func NewAppointmentsHandler(svc service.AppointmentService) *AppointmentsHandler {
	return &AppointmentsHandler{svc: svc}
}

// Create godoc
// @Summary      Schedule an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateAppointmentRequest true "Appointment"
// @Success      201 {object} apierror.Envelope{data=dto.AppointmentResponse}
// @Router       /appointments [post]
func (h *AppointmentsHandler) Create(c *gin.Context) {
	var req dto.CreateAppointmentRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Create(c.Request.Context(), principal(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// Get godoc
// @Summary      Fetch one appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment UUID"
// @Success      200 {object} apierror.Envelope{data=dto.AppointmentResponse}
// @Router       /appointments/{id} [get]
func (h *AppointmentsHandler) Get(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// List godoc
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        barber_id query string false "Filter by barber UUID"
// @Param        status    query string false "Status filter"
// @Param        date      query string false "YYYY-MM-DD"
// @Success      200 {object} apierror.Envelope{data=[]dto.AppointmentResponse}
// @Router       /appointments [get]
func (h *AppointmentsHandler) List(c *gin.Context) {
	var filter dto.AppointmentFilter
	if !bindQuery(c, &filter) {
		return
	}
	items, total, err := h.svc.List(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKWithMeta(items,
		dto.ListMeta{Total: total, Page: filter.Page, Limit: filter.Limit}))
}

// UpdateStatus godoc
// @Summary      Move an appointment between non-terminal states
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                             true "Appointment UUID"
// @Param        body body dto.UpdateAppointmentStatusRequest true "New status"
// @Success      200 {object} apierror.Envelope{data=dto.AppointmentResponse}
// @Router       /appointments/{id}/status [patch]
func (h *AppointmentsHandler) UpdateStatus(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.UpdateAppointmentStatusRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateStatus(c.Request.Context(), principal(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Complete godoc
// @Summary      Complete an appointment
// @Description  Marks the appointment completed and auto-closes its open
// @Description  comanda (best-effort, default payment method).
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment UUID"
// @Success      200 {object} apierror.Envelope{data=dto.AppointmentResponse}
// @Router       /appointments/{id}/complete [patch]
func (h *AppointmentsHandler) Complete(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Complete(c.Request.Context(), principal(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Cancel godoc
// @Summary      Cancel an appointment
// @Description  Marks the appointment canceled and cancels its comanda if
// @Description  still open. A closed comanda is left untouched.
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Appointment UUID"
// @Success      200 {object} apierror.Envelope{data=dto.AppointmentResponse}
// @Router       /appointments/{id}/cancel [patch]
func (h *AppointmentsHandler) Cancel(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.Cancel(c.Request.Context(), principal(c), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
