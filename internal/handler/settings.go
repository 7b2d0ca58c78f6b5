package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/total-amount-calculator-app/internal/apierror"
	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/localstore"
	"github.com/caffeinepub/total-amount-calculator-app/internal/middleware"
	"github.com/caffeinepub/total-amount-calculator-app/internal/model"
	"github.com/caffeinepub/total-amount-calculator-app/internal/service"
)

type SettingsHandler struct{ svc service.SettingsService }

func NewSettingsHandler(svc service.SettingsService) *SettingsHandler {
	return &SettingsHandler{svc: svc}
}

// GetDefaults godoc
// @Summary      Branch print-format defaults
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} model.BillFormatDefaults
// @Router       /v1/bill-defaults [get]
func (h *SettingsHandler) GetDefaults(c *gin.Context) {
	defaults, err := h.svc.GetDefaults(c.Request.Context(), middleware.GetBranch(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to load bill defaults"))
		return
	}
	c.JSON(http.StatusOK, defaults)
}

// SaveDefaults godoc
// @Summary      Update branch print-format defaults
// @Description  Applies to future bills only; archived bills keep the snapshot taken when they were printed. Mirrors the print location to the remote profile best-effort.
// @Tags         settings
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body body dto.BillDefaultsRequest true "New defaults"
// @Success      200 {object} model.BillFormatDefaults
// @Failure      400 {object} apierror.APIError
// @Router       /v1/bill-defaults [put]
func (h *SettingsHandler) SaveDefaults(c *gin.Context) {
	var req dto.BillDefaultsRequest
	if !bindAndValidate(c, &req) {
		return
	}
	defaults := model.BillFormatDefaults{
		ReceiptStyle:         req.ReceiptStyle,
		PaymentScanDataURL:   req.PaymentScanDataURL,
		PrintLocationAddress: req.PrintLocationAddress,
	}
	if err := h.svc.SaveDefaults(c.Request.Context(), middleware.GetBranch(c), defaults); err != nil {
		if errors.Is(err, localstore.ErrNoActiveBranch) {
			c.JSON(http.StatusBadRequest, apierror.New("No active branch"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Failed to save bill defaults"))
		return
	}
	c.JSON(http.StatusOK, defaults)
}

// GetProfile godoc
// @Summary      Remote branch profile
// @Tags         settings
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} remote.UserProfile
// @Failure      404 {object} apierror.APIError
// @Failure      502 {object} apierror.APIError
// @Router       /v1/profile [get]
func (h *SettingsHandler) GetProfile(c *gin.Context) {
	profile, err := h.svc.GetProfile(c.Request.Context(), middleware.GetBranch(c))
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Remote profile unavailable"))
		return
	}
	if profile == nil {
		c.JSON(http.StatusNotFound, apierror.New("No profile saved"))
		return
	}
	c.JSON(http.StatusOK, profile)
}

// SaveProfile godoc
// @Summary      Save remote branch profile
// @Tags         settings
// @Accept       json
// @Security     BearerAuth
// @Param        body body dto.ProfileRequest true "Profile"
// @Success      204
// @Failure      502 {object} apierror.APIError
// @Router       /v1/profile [put]
func (h *SettingsHandler) SaveProfile(c *gin.Context) {
	var req dto.ProfileRequest
	if !bindAndValidate(c, &req) {
		return
	}
	if err := h.svc.SaveProfile(c.Request.Context(), middleware.GetBranch(c), req.Name, req.BillPrintLocation); err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("Failed to save remote profile"))
		return
	}
	c.Status(http.StatusNoContent)
}
