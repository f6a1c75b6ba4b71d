package handlers

import (
	"net/http"

	"easyride/internal/utils"
	"easyride/internal/validators"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes and validates the body. It writes the error response
// itself and reports whether the handler should continue.
func bindJSON(c *gin.Context, req interface{}, validate func() validators.ValidationErrors) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		utils.BadRequestResponse(c, "Invalid request body")
		return false
	}
	return check(c, validate())
}

func bindQuery(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindQuery(req); err != nil {
		utils.BadRequestResponse(c, "Invalid query parameters")
		return false
	}
	return check(c, validators.ValidateStruct(req))
}

func check(c *gin.Context, errs validators.ValidationErrors) bool {
	if len(errs) > 0 {
		utils.ValidationErrorResponse(c, errs.Fields())
		return false
	}
	return true
}

func structValidator(req interface{}) func() validators.ValidationErrors {
	return func() validators.ValidationErrors { return validators.ValidateStruct(req) }
}

func currentUserID(c *gin.Context) string {
	return c.GetString(utils.ContextKeyUserID)
}

// requireConfirm implements the confirmation step of destructive actions.
func requireConfirm(c *gin.Context) bool {
	var query validators.ConfirmQuery
	if err := c.ShouldBindQuery(&query); err != nil || !query.Confirm {
		utils.ErrorResponse(c, http.StatusPreconditionRequired, "CONFIRMATION_REQUIRED", "Repeat the request with confirm=true to proceed")
		return false
	}
	return true
}
