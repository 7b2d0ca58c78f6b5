package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/total-amount-calculator-app/internal/apierror"
	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/middleware"
	"github.com/caffeinepub/total-amount-calculator-app/internal/service"
)

type BillsHandler struct{ svc service.BillingService }

func NewBillsHandler(svc service.BillingService) *BillsHandler { return &BillsHandler{svc: svc} }

// PrintBill godoc
// @Summary      Print a bill
// @Description  Computes the breakdown, archives the bill, appends the daily ledger, warms the summary cache, and schedules a best-effort remote sync.
// @Tags         bills
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.PrintBillRequest true "Line items, tax, and discount"
// @Success      201  {object} model.SavedBillRecord
// @Failure      400  {object} apierror.APIError
// @Router       /v1/bills [post]
func (h *BillsHandler) PrintBill(c *gin.Context) {
	var req dto.PrintBillRequest
	if !bindAndValidate(c, &req) {
		return
	}
	bill, err := h.svc.PrintBill(c.Request.Context(), middleware.GetBranch(c), req)
	if err != nil {
		if errors.Is(err, localstore.ErrNoActiveBranch) {
			c.JSON(http.StatusBadRequest, apierror.New("No active branch"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to save bill"))
		return
	}
	c.JSON(http.StatusCreated, bill)
}

// ListBills godoc
// @Summary      List archived bills
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.BillListResponse
// @Router       /v1/bills [get]
func (h *BillsHandler) ListBills(c *gin.Context) {
	bills, err := h.svc.ListBills(c.Request.Context(), middleware.GetBranch(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load bills"))
		return
	}
	c.JSON(http.StatusOK, dto.BillListResponse{Bills: bills, Total: len(bills)})
}

// GetBill godoc
// @Summary      Get one archived bill
// @Tags         bills
// @Produce      json
// @Security     BearerAuth
// @Param        id path string true "Bill id"
// @Success      200 {object} model.SavedBillRecord
// @Failure      404 {object} apierror.APIError
// @Router       /v1/bills/{id} [get]
func (h *BillsHandler) GetBill(c *gin.Context) {
	bill, err := h.svc.GetBill(c.Request.Context(), middleware.GetBranch(c), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load bill"))
		return
	}
	if bill == nil {
		c.JSON(http.StatusNotFound, apierror.New("Bill not found"))
		return
	}
	c.JSON(http.StatusOK, bill)
}

// ClearBills godoc
// @Summary      Clear the branch's bill archive
// @Tags         bills
// @Security     BearerAuth
// @Success      204
// @Router       /v1/bills [delete]
func (h *BillsHandler) ClearBills(c *gin.Context) {
	if err := h.svc.ClearBills(c.Request.Context(), middleware.GetBranch(c)); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to clear bills"))
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearLedger godoc
// @Summary      Clear the branch's daily ledger and summary cache
// @Description  The ledger and its summary cache are cleared together so the cache never diverges from the ledger.
// @Tags         bills
// @Security     BearerAuth
// @Success      204
// @Router       /v1/ledger [delete]
func (h *BillsHandler) ClearLedger(c *gin.Context) {
	if err := h.svc.ClearLedger(c.Request.Context(), middleware.GetBranch(c)); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to clear ledger"))
		return
	}
	c.Status(http.StatusNoContent)
}
