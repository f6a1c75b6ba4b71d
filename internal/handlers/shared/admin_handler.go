package handlers

import (
	"context"

	"easyride/internal/models"
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/internal/validators"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	adminService services.AdminService
	logger       *logger.Logger
}

func NewAdminHandler(adminService services.AdminService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		adminService: adminService,
		logger:       log,
	}
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	var query validators.UserListQuery
	if !bindQuery(c, &query) {
		return
	}

	users, err := h.adminService.ListUsers(c.Request.Context(), models.UserFilter{
		Role:   models.UserRole(query.Role),
		Search: query.Search,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	sanitized := make([]*models.User, 0, len(users))
	for _, user := range users {
		sanitized = append(sanitized, user.Sanitized())
	}
	utils.SuccessResponseWithMeta(c, "Users retrieved", sanitized, &utils.Meta{Count: len(sanitized)})
}

func (h *AdminHandler) VerifyUser(c *gin.Context) {
	h.userAction(c, h.adminService.VerifyUser, "User verified")
}

func (h *AdminHandler) BlockUser(c *gin.Context) {
	h.userAction(c, h.adminService.BlockUser, "User blocked")
}

func (h *AdminHandler) UnblockUser(c *gin.Context) {
	h.userAction(c, h.adminService.UnblockUser, "User unblocked")
}

func (h *AdminHandler) DeleteUser(c *gin.Context) {
	if !requireConfirm(c) {
		return
	}
	h.userAction(c, h.adminService.DeleteUser, "User deleted")
}

func (h *AdminHandler) userAction(c *gin.Context, action func(ctx context.Context, adminID, userID string) error, message string) {
	if err := action(c.Request.Context(), currentUserID(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, message, nil)
}

func (h *AdminHandler) ListRides(c *gin.Context) {
	rides, err := h.adminService.ListRides(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponseWithMeta(c, "Rides retrieved", rides, &utils.Meta{Count: len(rides)})
}

func (h *AdminHandler) ListBookings(c *gin.Context) {
	var query validators.BookingListQuery
	if !bindQuery(c, &query) {
		return
	}

	bookings, err := h.adminService.ListBookings(c.Request.Context(), models.BookingStatus(query.Status))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponseWithMeta(c, "Bookings retrieved", bookings, &utils.Meta{Count: len(bookings)})
}

func (h *AdminHandler) Statistics(c *gin.Context) {
	stats, err := h.adminService.Statistics(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Statistics retrieved", stats)
}

func (h *AdminHandler) Broadcast(c *gin.Context) {
	var req validators.BroadcastRequest
	if !bindJSON(c, &req, func() validators.ValidationErrors { return validators.ValidateBroadcast(&req) }) {
		return
	}

	sent, err := h.adminService.Broadcast(c.Request.Context(), currentUserID(c), req.Title, req.Message, req.Audience)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Notification sent", gin.H{"recipients": sent})
}

func (h *AdminHandler) AddCity(c *gin.Context) {
	var req validators.CityRequest
	if !bindJSON(c, &req, structValidator(&req)) {
		return
	}

	if err := h.adminService.AddCity(c.Request.Context(), currentUserID(c), req.Name); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.CreatedResponse(c, "City added", gin.H{"name": req.Name})
}

func (h *AdminHandler) RemoveCity(c *gin.Context) {
	if err := h.adminService.RemoveCity(c.Request.Context(), currentUserID(c), c.Param("name")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "City removed", nil)
}
