package handlers

import (
	"easyride/internal/middleware"
	"easyride/internal/services"
	"easyride/internal/utils"

	"github.com/gin-gonic/gin"
)

type AccessHandler struct {
	accessService services.AccessService
}

func NewAccessHandler(accessService services.AccessService) *AccessHandler {
	return &AccessHandler{accessService: accessService}
}

// Check answers whether the caller may open the client route given in the
// path query parameter. The decision is always returned with 200.
func (h *AccessHandler) Check(c *gin.Context) {
	path := c.Query("path")
	if path == "" {
		utils.BadRequestResponse(c, "path is required")
		return
	}

	decision := h.accessService.Evaluate(c.Request.Context(), middleware.SessionFromContext(c), path)
	utils.SuccessResponse(c, "Access evaluated", decision)
}
