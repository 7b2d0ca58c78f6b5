package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/caffeinepub/total-amount-calculator-app/internal/service"
)

type CatalogHandler struct{}

func NewCatalogHandler() *CatalogHandler { return &CatalogHandler{} }

// List godoc
// @Summary      Predefined menu catalog
// @Tags         catalog
// @Produce      json
// @Security     BearerAuth
// @Success      200 {array} model.CatalogItem
// @Router       /v1/catalog [get]
func (h *CatalogHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, service.PredefinedCatalog())
}
