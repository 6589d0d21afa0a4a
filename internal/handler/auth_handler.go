package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/middleware"
	"github.com/dormdesk/dormdesk-api/internal/models"
	"github.com/dormdesk/dormdesk-api/pkg/config"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

type authService interface {
	Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error)
}

// AuthHandler exposes session endpoints.
type AuthHandler struct {
	service authService
	session config.SessionConfig
	secure  bool
}

// NewAuthHandler constructs the handler. secure controls the cookie's
// Secure flag and should be on outside development.
func NewAuthHandler(service authService, session config.SessionConfig, secure bool) *AuthHandler {
	return &AuthHandler{service: service, session: session, secure: secure}
}

// Login authenticates the user and sets the session cookie alongside
// the token payload.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid login payload"))
		return
	}

	result, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.SetCookie(h.session.CookieName, result.Token, int(h.session.CookieMaxAge.Seconds()), "/", "", h.secure, true)
	response.JSON(c, http.StatusOK, result, nil)
}

// Logout clears the session cookie. The token itself stays valid until
// expiry; there is no server-side revocation list.
func (h *AuthHandler) Logout(c *gin.Context) {
	c.SetCookie(h.session.CookieName, "", -1, "/", "", h.secure, true)
	response.NoContent(c)
}

// Me returns the authenticated user's session claims.
func (h *AuthHandler) Me(c *gin.Context) {
	claims := middleware.ClaimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, models.UserInfo{
		ID:       claims.UserID,
		Email:    claims.Email,
		Name:     claims.Name,
		Role:     claims.Role,
		HostelID: claims.HostelID,
	}, nil)
}
