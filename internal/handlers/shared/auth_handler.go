package handlers

import (
	"easyride/internal/models"
	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/internal/validators"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	userService services.UserService
	logger      *logger.Logger
	audit       *logger.AuditLogger
}

func NewAuthHandler(userService services.UserService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		userService: userService,
		logger:      log,
		audit:       logger.NewAuditLogger(log),
	}
}

// SignUp creates the account and its profile, then sends the
// verification email.
func (h *AuthHandler) SignUp(c *gin.Context) {
	var req validators.SignUpRequest
	if !bindJSON(c, &req, func() validators.ValidationErrors { return validators.ValidateSignUp(&req) }) {
		return
	}

	user, err := h.userService.Register(c.Request.Context(), req.Email, req.Password, models.UserRole(req.Role))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}

	utils.CreatedResponse(c, "Account created, check your inbox to verify your email", user.Sanitized())
}

func (h *AuthHandler) SignIn(c *gin.Context) {
	var req validators.SignInRequest
	if !bindJSON(c, &req, func() validators.ValidationErrors { return validators.ValidateSignIn(&req) }) {
		return
	}

	token, err := h.userService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.audit.LogAuthEvent("sign_in", "", c.ClientIP(), c.Request.UserAgent(), false)
		respondError(c, h.logger, err)
		return
	}
	h.audit.LogAuthEvent("sign_in", token.UID, c.ClientIP(), c.Request.UserAgent(), true)

	utils.SuccessResponse(c, "Signed in", token)
}

func (h *AuthHandler) SignOut(c *gin.Context) {
	if err := h.userService.SignOut(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Signed out", nil)
}

func (h *AuthHandler) ResendVerification(c *gin.Context) {
	if err := h.userService.ResendVerification(c.Request.Context(), currentUserID(c)); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Verification email sent", nil)
}

func (h *AuthHandler) ConfirmEmail(c *gin.Context) {
	var req validators.ConfirmEmailRequest
	if !bindJSON(c, &req, structValidator(&req)) {
		return
	}

	if err := h.userService.ConfirmEmail(c.Request.Context(), req.Code); err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Email verified", nil)
}

// Session reloads the identity record so a freshly verified email is
// visible without signing in again.
func (h *AuthHandler) Session(c *gin.Context) {
	session, err := h.userService.ReloadSession(c.Request.Context(), currentUserID(c))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	utils.SuccessResponse(c, "Session loaded", session)
}
