package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/total-amount-calculator-app/internal/apierror"
	"github.com/caffeinepub/total-amount-calculator-app/internal/dto"
	"github.com/caffeinepub/total-amount-calculator-app/internal/service"
)

type AuthHandler struct{ svc service.AuthService }

func NewAuthHandler(svc service.AuthService) *AuthHandler { return &AuthHandler{svc: svc} }

// Login godoc
// @Summary      Branch login
// @Description  Verifies branch credentials, runs the one-time legacy-data migration for the branch, and issues a session token.
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body body dto.LoginRequest true "Branch credentials"
// @Success      200  {object} dto.LoginResponse
// @Failure      401  {object} apierror.APIError
// @Router       /v1/auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if !bindAndValidate(c, &req) {
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, apierror.New("Invalid credentials"))
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.New("Login failed"))
		return
	}
	c.JSON(http.StatusOK, resp)
}

// Logout godoc
// @Summary      Branch logout
// @Description  Clears the active-branch pointer. Branch-scoped data is preserved.
// @Tags         auth
// @Security     BearerAuth
// @Success      204
// @Router       /v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.svc.Logout(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, apierror.New("Logout failed"))
		return
	}
	c.Status(http.StatusNoContent)
}
