package handler

import (
	"net/http"

	"github.com/warklp/saasBarber-sub001/internal/apierror"
	"github.com/warklp/saasBarber-sub001/internal/dto"
	"github.com/warklp/saasBarber-sub001/internal/service"

	"github.com/gin-gonic/gin"
)

type StockHandler struct{ svc service.StockService }

func NewStockHandler(svc service.StockService) *StockHandler { return &StockHandler{svc: svc} }

// Record godoc
// @Summary      Record a stock movement
// @Description  Appends to the stock ledger and atomically applies the signed
// @Description  delta to the product. Sale and loss always subtract; only
// @Description  adjustments may leave stock negative.
// @Tags         stock
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.RecordMovementRequest true "Movement"
// @Success      201 {object} apierror.Envelope{data=dto.StockMovementResponse}
// @Failure      422 {object} apierror.Envelope
// @Router       /stock-movements [post]
func (h *StockHandler) Record(c *gin.Context) {
	var req dto.RecordMovementRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.RecordMovement(c.Request.Context(), principal(c), req)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusCreated, apierror.OK(resp))
}

// List godoc
// @Summary      List stock movements
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Param        product_id    query string false "Filter by product UUID"
// @Param        movement_type query string false "purchase | sale | adjustment | return | loss"
// @Success      200 {object} apierror.Envelope{data=[]dto.StockMovementResponse}
// @Router       /stock-movements [get]
func (h *StockHandler) List(c *gin.Context) {
	var filter dto.StockMovementFilter
	if !bindQuery(c, &filter) {
		return
	}
	items, total, err := h.svc.ListMovements(c.Request.Context(), filter)
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OKWithMeta(items,
		dto.ListMeta{Total: total, Page: filter.Page, Limit: filter.Limit}))
}

// Alerts godoc
// @Summary      List products below their minimum stock
// @Tags         stock
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} apierror.Envelope{data=[]dto.StockAlertResponse}
// @Router       /stock-movements/alerts [get]
func (h *StockHandler) Alerts(c *gin.Context) {
	items, err := h.svc.ListAlerts(c.Request.Context())
	if err != nil {
		respondErr(c, err)
		return
	}
	c.JSON(http.StatusOK, apierror.OK(items))
}
