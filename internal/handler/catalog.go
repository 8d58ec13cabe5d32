package handler

import (
	"net/http"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

// CatalogHandler exposes the service menu and the customer book.
type CatalogHandler struct{ svc service.CatalogService }

func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// ── Services ─────────────────────────────────────────────────────────────────

// CreateService godoc
// @Summary      Add a service to the menu
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateServiceRequest true "Service"
// @Success      201 {object} apierror.Envelope{data=dto.ServiceResponse}
// @Router       /services [post]
func (h *CatalogHandler) CreateService(c *gin.Context) {
	var req dto.CreateServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateService(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// ListServices godoc
// @Summary      List active services
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} apierror.Envelope{data=[]dto.ServiceResponse}
// @Router       /services [get]
func (h *CatalogHandler) ListServices(c *gin.Context) {
	items, err := h.svc.ListServices(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(items))
}

// UpdateService godoc
// @Summary      Update a service
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                   true "Service UUID"
// @Param        body body dto.CreateServiceRequest true "Fields"
// @Success      200 {object} apierror.Envelope{data=dto.ServiceResponse}
// @Router       /services/{id} [patch]
func (h *CatalogHandler) UpdateService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateServiceRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateService(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// DeleteService godoc
// @Summary      Deactivate a service
// @Tags         catalog
// @Security     BearerAuth
// @Param        id path string true "Service UUID"
// @Success      204
// @Router       /services/{id} [delete]
func (h *CatalogHandler) DeleteService(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.svc.DeleteService(c.Request.Context(), id); err != nil {
		respondErr(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ── Customers ────────────────────────────────────────────────────────────────

// CreateCustomer godoc
// @Summary      Register a customer
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.CreateCustomerRequest true "Customer"
// @Success      201 {object} apierror.Envelope{data=dto.CustomerResponse}
// @Router       /customers [post]
func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.CreateCustomer(c.Request.Context(), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// GetCustomer godoc
// @Summary      Fetch one customer
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Customer UUID"
// @Success      200 {object} apierror.Envelope{data=dto.CustomerResponse}
// @Router       /customers/{id} [get]
func (h *CatalogHandler) GetCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	resp, err := h.svc.GetCustomer(c.Request.Context(), id)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// ListCustomers godoc
// @Summary      List active customers
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} apierror.Envelope{data=[]dto.CustomerResponse}
// @Router       /customers [get]
func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	items, err := h.svc.ListCustomers(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(items))
}

// UpdateCustomer godoc
// @Summary      Update a customer
// @Tags         catalog
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                    true "Customer UUID"
// @Param        body body dto.CreateCustomerRequest true "Fields"
// @Success      200 {object} apierror.Envelope{data=dto.CustomerResponse}
// @Router       /customers/{id} [patch]
func (h *CatalogHandler) UpdateCustomer(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CreateCustomerRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.UpdateCustomer(c.Request.Context(), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}
