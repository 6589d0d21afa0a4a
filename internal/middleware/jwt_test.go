package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

type validatorStub struct {
	claims *models.SessionClaims
	err    error
	token  string
}

func (v *validatorStub) ValidateToken(token string) (*models.SessionClaims, error) {
	v.token = token
	if v.err != nil {
		return nil, v.err
	}
	return v.claims, nil
}

func newSessionRouter(validator TokenValidator) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", Session(validator, "session"), func(c *gin.Context) {
		claims := ClaimsFromContext(c)
		c.JSON(http.StatusOK, gin.H{"user_id": claims.UserID})
	})
	return r
}

func TestSessionAcceptsBearerHeader(t *testing.T) {
	stub := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Role: models.RoleStudent}}
	r := newSessionRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer abc123")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "abc123", stub.token)
}

func TestSessionFallsBackToCookie(t *testing.T) {
	stub := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Role: models.RoleStudent}}
	r := newSessionRouter(stub)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "cookie-token"})
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "cookie-token", stub.token)
}

func TestSessionRejectsMissingToken(t *testing.T) {
	r := newSessionRouter(&validatorStub{})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestSessionRejectsInvalidToken(t *testing.T) {
	r := newSessionRouter(&validatorStub{err: errors.New("bad signature")})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer tampered")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalSessionAllowsAnonymous(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/issues", OptionalSession(&validatorStub{}, "session"), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"anonymous": ClaimsFromContext(c) == nil})
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/issues", nil)
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "true")
}

func TestRequireRolesBlocksWrongRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &validatorStub{claims: &models.SessionClaims{UserID: "u1", Role: models.RoleStudent}}
	r := gin.New()
	r.POST("/claim", Session(stub, "session"), RequireRoles(models.RoleStaff), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/claim", nil)
	req.Header.Set("Authorization", "Bearer abc")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusForbidden, w.Code)
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	gin.SetMode(gin.TestMode)
	stub := &validatorStub{claims: &models.SessionClaims{UserID: "staff-1", Role: models.RoleStaff}}
	r := gin.New()
	r.POST("/claim", Session(stub, "session"), RequireRoles(models.RoleStaff, models.RoleAdmin), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodPost, "/claim", nil)
	req.Header.Set("Authorization", "Bearer abc")
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
}
