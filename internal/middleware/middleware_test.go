package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"easyride/internal/services"
	"easyride/internal/utils"
	"easyride/pkg/identity"
	"easyride/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type stubIdentity struct {
	identity.Provider
	sessions map[string]*identity.Session
}

func (s *stubIdentity) VerifyToken(_ context.Context, token string) (*identity.Session, error) {
	if session, ok := s.sessions[token]; ok {
		return session, nil
	}
	return nil, identity.ErrInvalidToken
}

type stubAccess struct {
	decision services.Decision
	seen     *identity.Session
}

func (s *stubAccess) Evaluate(ctx context.Context, session *identity.Session, path string) services.Decision {
	return s.EvaluateRule(ctx, session, services.RouteRule{Path: path})
}

func (s *stubAccess) EvaluateRule(_ context.Context, session *identity.Session, _ services.RouteRule) services.Decision {
	s.seen = session
	return s.decision
}

func (s *stubAccess) RuleFor(path string) (services.RouteRule, bool) {
	return services.RouteRule{Path: path}, path != "/nowhere"
}

func newAuth() *AuthMiddleware {
	return NewAuthMiddleware(&stubIdentity{sessions: map[string]*identity.Session{
		"good": {UID: "u1", Email: "u1@example.com", EmailVerified: true},
	}}, logger.NewNop())
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) utils.APIError {
	t.Helper()
	var body utils.APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotNil(t, body.Error)
	return *body.Error
}

func TestAuthRequired(t *testing.T) {
	router := gin.New()
	router.GET("/me", newAuth().AuthRequired(), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(utils.ContextKeyUserID))
	})

	tests := []struct {
		name   string
		header string
		query  string
		status int
	}{
		{name: "missing", status: http.StatusUnauthorized},
		{name: "not bearer", header: "Basic good", status: http.StatusUnauthorized},
		{name: "invalid", header: "Bearer bad", status: http.StatusUnauthorized},
		{name: "valid header", header: "Bearer good", status: http.StatusOK},
		{name: "valid query", query: "?token=good", status: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/me"+tt.query, nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u1", w.Body.String())
			}
		})
	}
}

func TestOptionalAuthLetsAnonymousThrough(t *testing.T) {
	router := gin.New()
	router.GET("/access", newAuth().OptionalAuth(), func(c *gin.Context) {
		if SessionFromContext(c) == nil {
			c.String(http.StatusOK, "anonymous")
			return
		}
		c.String(http.StatusOK, SessionFromContext(c).UID)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/access", nil))
	assert.Equal(t, "anonymous", w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/access", nil)
	req.Header.Set("Authorization", "Bearer good")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "u1", w.Body.String())
}

func TestRequireAccessMapsDecisions(t *testing.T) {
	tests := []struct {
		name     string
		decision services.Decision
		status   int
		code     string
		redirect string
	}{
		{name: "allow", decision: services.Decision{Outcome: services.OutcomeAllow}, status: http.StatusOK},
		{
			name:     "sign in",
			decision: services.Decision{Outcome: services.OutcomeRedirect, RedirectTo: services.PathSignIn, Reason: services.ReasonUnauthenticated},
			status:   http.StatusUnauthorized,
			code:     "UNAUTHENTICATED",
			redirect: services.PathSignIn,
		},
		{
			name: "incomplete profile",
			decision: services.Decision{
				Outcome:    services.OutcomeRedirect,
				RedirectTo: services.PathSettings,
				Message:    services.MessageCompleteProfile,
				Reason:     services.ReasonIncompleteProfile,
			},
			status:   http.StatusForbidden,
			code:     "ACCESS_DENIED",
			redirect: services.PathSettings,
		},
		{
			name:     "pending",
			decision: services.Decision{Outcome: services.OutcomePending, Reason: services.ReasonLoading},
			status:   http.StatusServiceUnavailable,
			code:     "ACCESS_PENDING",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			access := &stubAccess{decision: tt.decision}
			router := gin.New()
			router.GET("/rides", newAuth().OptionalAuth(), RequireRoute(access, services.PathDriverDash), func(c *gin.Context) {
				c.Status(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/rides", nil)
			req.Header.Set("Authorization", "Bearer good")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			require.NotNil(t, access.seen)
			assert.Equal(t, "u1", access.seen.UID)
			if tt.code == "" {
				return
			}
			apiErr := decodeError(t, w)
			assert.Equal(t, tt.code, apiErr.Code)
			if tt.redirect != "" {
				assert.Equal(t, tt.redirect, apiErr.Details["redirect_to"])
			}
		})
	}
}

func TestRequireRouteUnknownPathPanics(t *testing.T) {
	assert.Panics(t, func() { RequireRoute(&stubAccess{}, "/nowhere") })
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/", func(c *gin.Context) { c.String(http.StatusOK, c.GetString(utils.ContextKeyRequestID)) })

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.NotEmpty(t, w.Body.String())
	assert.Equal(t, w.Body.String(), w.Header().Get("X-Request-ID"))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("X-Request-ID", "abc")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, "abc", w.Body.String())
}

func TestRequestContextCarriesLogFields(t *testing.T) {
	router := gin.New()
	router.Use(RequestIDMiddleware())
	router.GET("/me", newAuth().AuthRequired(), func(c *gin.Context) {
		ctx := c.Request.Context()
		c.String(http.StatusOK, "%v %v", ctx.Value(logger.ContextKeyRequestID), ctx.Value(logger.ContextKeyUserID))
	})

	req := httptest.NewRequest(http.MethodGet, "/me", nil)
	req.Header.Set("X-Request-ID", "req-7")
	req.Header.Set("Authorization", "Bearer good")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "req-7 u1", w.Body.String())
}

func TestCORSMiddleware(t *testing.T) {
	router := gin.New()
	router.Use(CORSMiddleware([]string{"https://app.example.com"}))
	router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })

	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://app.example.com")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
