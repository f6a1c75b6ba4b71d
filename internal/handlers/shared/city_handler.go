package handlers

import (
	"easyride/internal/services"
	"easyride/internal/utils"

	"github.com/gin-gonic/gin"
)

type CityHandler struct {
	cityService services.CityService
}

func NewCityHandler(cityService services.CityService) *CityHandler {
	return &CityHandler{cityService: cityService}
}

func (h *CityHandler) ListCities(c *gin.Context) {
	cities := h.cityService.List(c.Request.Context())
	utils.SuccessResponseWithMeta(c, "Cities retrieved", cities, &utils.Meta{Count: len(cities)})
}
