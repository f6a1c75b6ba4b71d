package middleware

import (
	"net/http"

	"easyride/internal/services"
	"easyride/internal/utils"

	"github.com/gin-gonic/gin"
)

// RequireRoute protects an API group with the guard chain of a client
// route. Unlike the page check, a caller without a resolved role is denied
// on routes that name roles.
func RequireRoute(access services.AccessService, path string) gin.HandlerFunc {
	rule, ok := access.RuleFor(path)
	if !ok {
		panic("middleware: no access rule for " + path)
	}
	rule.Path = path
	rule.StrictRoles = true
	return RequireAccess(access, rule)
}

func RequireAccess(access services.AccessService, rule services.RouteRule) gin.HandlerFunc {
	return func(c *gin.Context) {
		decision := access.EvaluateRule(c.Request.Context(), SessionFromContext(c), rule)
		if decision.Allowed() {
			c.Next()
			return
		}

		WriteDecision(c, decision)
		c.Abort()
	}
}

// WriteDecision renders a denied decision. A redirect to sign-in is a 401,
// other redirects are 403 and carry the target route, and an unresolved
// chain is 503 so the client retries.
func WriteDecision(c *gin.Context, decision services.Decision) {
	details := map[string]string{
		"reason":      decision.Reason,
		"redirect_to": decision.RedirectTo,
	}
	if decision.Message != "" {
		details["message"] = decision.Message
	}

	switch {
	case decision.Outcome == services.OutcomePending:
		utils.ErrorResponseWithDetails(c, http.StatusServiceUnavailable, "ACCESS_PENDING",
			"Access could not be determined yet, please retry", map[string]string{"reason": decision.Reason})
	case decision.RedirectTo == services.PathSignIn:
		utils.ErrorResponseWithDetails(c, http.StatusUnauthorized, "UNAUTHENTICATED", "Please sign in", details)
	default:
		message := decision.Message
		if message == "" {
			message = utils.ErrForbidden
		}
		utils.ErrorResponseWithDetails(c, http.StatusForbidden, "ACCESS_DENIED", message, details)
	}
}
