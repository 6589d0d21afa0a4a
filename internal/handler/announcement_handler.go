package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/middleware"
	"github.com/dormdesk/dormdesk-api/internal/models"
	"github.com/dormdesk/dormdesk-api/internal/service"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

type announcementService interface {
	Create(ctx context.Context, claims *models.SessionClaims, req service.CreateAnnouncementRequest) (*models.Announcement, error)
	List(ctx context.Context, req service.ListAnnouncementsRequest) ([]models.Announcement, *models.Pagination, error)
}

// AnnouncementHandler exposes announcement endpoints.
type AnnouncementHandler struct {
	service announcementService
}

// NewAnnouncementHandler constructs the handler.
func NewAnnouncementHandler(service announcementService) *AnnouncementHandler {
	return &AnnouncementHandler{service: service}
}

// Create handles POST /announcements.
func (h *AnnouncementHandler) Create(c *gin.Context) {
	var req service.CreateAnnouncementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload"))
		return
	}
	announcement, err := h.service.Create(c.Request.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, announcement)
}

// List handles GET /announcements. Without an explicit hostel query the
// listing is scoped to the viewer's own hostel, so residents see global
// broadcasts plus those targeted at where they live.
func (h *AnnouncementHandler) List(c *gin.Context) {
	req := service.ListAnnouncementsRequest{
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	if hostel := c.Query("hostel"); hostel != "" {
		req.HostelID = &hostel
	} else if claims := middleware.ClaimsFromContext(c); claims != nil {
		req.HostelID = claims.HostelID
	}
	announcements, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, announcements, pagination)
}
