package handlers

import (
	"easyride/internal/middleware"
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/internal/validators"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	userService services.UserService
	logger      *logger.Logger
}

func NewProfileHandler(userService services.UserService, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		userService: userService,
		logger:      log,
	}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	user, err := h.userService.GetProfile(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile retrieved", user.Sanitized())
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	var req validators.ProfileUpdateRequest
	if !bindJSON(c, &req, func() validators.ValidationErrors { return validators.ValidateProfileUpdate(&req) }) {
		return
	}

	user, err := h.userService.UpdateProfile(c.Request.Context(), currentUserID(c), &services.ProfileUpdate{
		FullName: req.FullName,
		Phone:    req.Phone,
		Address:  req.Address,
	})
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Profile updated", user.Sanitized())
}

// DeleteAccount removes the profile and the identity account after the
// caller re-enters email and password.
func (h *ProfileHandler) DeleteAccount(c *gin.Context) {
	var req validators.DeleteAccountRequest
	if !bindJSON(c, &req, func() validators.ValidationErrors { return validators.ValidateDeleteAccount(&req) }) {
		return
	}

	session := middleware.SessionFromContext(c)
	if session == nil {
		utils.UnauthorizedResponse(c)
		return
	}

	if err := h.userService.DeleteAccount(c.Request.Context(), session, req.Email, req.Password); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Account deleted", nil)
}

func (h *ProfileHandler) RegisterDevice(c *gin.Context) {
	var req validators.DeviceTokenRequest
	if !bindJSON(c, &req, structValidator(&req)) {
		return
	}

	if err := h.userService.RegisterDeviceToken(c.Request.Context(), currentUserID(c), req.Token); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Device registered", nil)
}
