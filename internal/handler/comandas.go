package handler

import (
	"net/http"
	"os"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/infra"
	"github.com/warklp/saasBarber-sub001/internal/model"
	"github.com/warklp/saasBarber-sub001/internal/repository"
	"github.com/warklp/saasBarber-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type ComandasHandler struct {
	svc            service.ComandaService
	repo           repository.ComandaRepository
	businessName   string
	pdfStoragePath string
}

func NewComandasHandler(svc service.ComandaService, repo repository.ComandaRepository, businessName, pdfStoragePath string) *ComandasHandler {
	return &ComandasHandler{svc: svc, repo: repo, businessName: businessName, pdfStoragePath: pdfStoragePath}
}

// Open godoc
// @Summary      Open a comanda for an appointment
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.OpenComandaRequest true "Appointment to open the tab for"
// @Success      201 {object} apierror.Envelope{data=dto.ComandaResponse}
// @Failure      409 {object} apierror.Envelope
// @Router       /comandas [post]
func (h *ComandasHandler) Open(c *gin.Context) {
	var req dto.OpenComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Open(c.Request.Context(), principal(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// Get godoc
// @Summary      Fetch one comanda with items
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comanda UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ComandaResponse}
// @Router       /comandas/{id} [get]
func (h *ComandasHandler) Get(c *gin.Context) {
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
// @Summary      List comandas
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        status query string false "open | closed | canceled | all"
// @Param        page   query int    false "Page (default 1)"
// @Param        limit  query int    false "Page size (default 50)"
// @Success      200 {object} apierror.Envelope{data=[]dto.ComandaResponse}
// @Router       /comandas [get]
func (h *ComandasHandler) List(c *gin.Context) {
	var filter dto.ComandaFilter
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

// AddItem godoc
// @Summary      Add an item to an open comanda
// @Description  The comanda total is fully recomputed from the item set.
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string             true "Comanda UUID"
// @Param        body body dto.AddItemRequest true "Service or product line"
// @Success      201 {object} apierror.Envelope{data=dto.ComandaResponse}
// @Failure      422 {object} apierror.Envelope
// @Router       /comandas/{id}/items [post]
func (h *ComandasHandler) AddItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.AddItemRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.AddItem(c.Request.Context(), principal(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// RemoveItem godoc
// @Summary      Remove an item from an open comanda
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id     path string true "Comanda UUID"
// @Param        itemId path string true "Item UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ComandaResponse}
// @Router       /comandas/{id}/items/{itemId} [delete]
func (h *ComandasHandler) RemoveItem(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	itemID, ok := pathID(c, "itemId")
	if !ok {
		return
	}
	resp, err := h.svc.RemoveItem(c.Request.Context(), principal(c), id, itemID)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Close godoc
// @Summary      Close a comanda
// @Description  Atomic open→closed transition with payment method resolution
// @Description  and asynchronous commission settlement.
// @Tags         comandas
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id   path string                  true "Comanda UUID"
// @Param        body body dto.CloseComandaRequest true "Payment details"
// @Success      200 {object} apierror.Envelope{data=dto.ComandaResponse}
// @Failure      422 {object} apierror.Envelope
// @Router       /comandas/{id}/close [patch]
func (h *ComandasHandler) Close(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req dto.CloseComandaRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Close(c.Request.Context(), principal(c), id, req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(resp))
}

// Cancel godoc
// @Summary      Cancel an open comanda
// @Tags         comandas
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Comanda UUID"
// @Success      200 {object} apierror.Envelope{data=dto.ComandaResponse}
// @Router       /comandas/{id}/cancel [patch]
func (h *ComandasHandler) Cancel(c *gin.Context) {
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

// Receipt godoc
// @Summary      Download the PDF receipt of a closed comanda
// @Tags         comandas
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id path string true "Comanda UUID"
// @Success      200 {file} binary
// @Router       /comandas/{id}/receipt [get]
func (h *ComandasHandler) Receipt(c *gin.Context) {
	id, ok := pathID(c, "id")
	if !ok {
		return
	}
	comanda, err := h.repo.FindByID(c.Request.Context(), id)
	if err != nil {
		respondErr(c, apierror.NotFound("comanda not found"))
		return
	}
	if comanda.Status != model.ComandaClosed {
		respondErr(c, apierror.Validation("receipts are only available for closed comandas"))
		return
	}

	path, err := infra.GenerateReceiptPDF(comanda, h.businessName, h.pdfStoragePath)
	if err != nil {
		respondErr(c, err)
		return
	}
	defer os.Remove(path)
	c.FileAttachment(path, "comanda_"+comanda.ID.String()[:8]+".pdf")
}
