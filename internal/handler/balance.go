package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/total-amount-calculator-app/internal/apierror"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/middleware"
	"github.com/caffeinepub/total-amount-calculator-app/internal/service"
)

type BalanceHandler struct{ svc service.BalanceService }

func NewBalanceHandler(svc service.BalanceService) *BalanceHandler {
	return &BalanceHandler{svc: svc}
}

// AvailableDays godoc
// @Summary      Balance sheet day list
// @Description  Days with recorded revenue, most recent first. Served from the remote authoritative store when reachable, otherwise from the local ledger.
// @Tags         balance
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} dto.BalanceSheetResponse
// @Router       /v1/balance-sheet [get]
func (h *BalanceHandler) AvailableDays(c *gin.Context) {
	resp, err := h.svc.AvailableDays(c.Request.Context(), middleware.GetBranch(c))
	if err != nil {
		if errors.Is(err, localstore.ErrNoActiveBranch) {
			c.JSON(http.StatusBadRequest, apierror.New("No active branch"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load balance sheet"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// ClearRemoteDays godoc
// @Summary      Delete the branch's remote daily totals
// @Description  Removes every authoritative daily-total record for the branch. Local ledger and archive are untouched; use DELETE /v1/ledger and DELETE /v1/bills for those.
// @Tags         balance
// @Security     BearerAuth
// @Success      204
// @Failure      502 {object} apierror.APIError
// @Router       /v1/balance-sheet [delete]
func (h *BalanceHandler) ClearRemoteDays(c *gin.Context) {
	if err := h.svc.ClearRemoteDays(c.Request.Context(), middleware.GetBranch(c)); err != nil {
		if errors.Is(err, localstore.ErrNoActiveBranch) {
			c.JSON(http.StatusBadRequest, apierror.New("No active branch"))
			return
		}
		c.JSON(http.StatusBadGateway, apierror.New("Failed to clear remote daily totals"))
		return
	}
	c.Status(http.StatusNoContent)
}

// DayDetail godoc
// @Summary      One day's revenue and item quantities
// @Tags         balance
// @Produce      json
// @Security     BearerAuth
// @Param        date path string true "Day key YYYY-MM-DD"
// @Success      200 {object} dto.DayDetailResponse
// @Router       /v1/balance-sheet/{date} [get]
func (h *BalanceHandler) DayDetail(c *gin.Context) {
	resp, err := h.svc.DayDetail(c.Request.Context(), middleware.GetBranch(c), c.Param("date"))
	if err != nil {
		if errors.Is(err, localstore.ErrNoActiveBranch) {
			c.JSON(http.StatusBadRequest, apierror.New("No active branch"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load day detail"))
		return
	}
	c.JSON(http.StatusOK, resp)
}
