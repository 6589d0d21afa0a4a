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

type lostItemService interface {
	Report(ctx context.Context, claims *models.SessionClaims, req service.ReportLostItemRequest) (*models.LostItem, error)
	List(ctx context.Context, req service.ListLostItemsRequest) ([]models.LostItemWithClaims, *models.Pagination, error)
	SubmitClaim(ctx context.Context, claims *models.SessionClaims, lostItemID string, req service.SubmitClaimRequest) (*models.LostItemClaim, error)
	ApproveClaim(ctx context.Context, lostItemID, claimID string) error
	RejectClaim(ctx context.Context, lostItemID, claimID string) error
	MarkAsFound(ctx context.Context, claims *models.SessionClaims, lostItemID string) error
}

// LostItemHandler exposes the lost-and-found endpoints.
type LostItemHandler struct {
	service lostItemService
}

// NewLostItemHandler constructs the handler.
func NewLostItemHandler(service lostItemService) *LostItemHandler {
	return &LostItemHandler{service: service}
}

// Report handles POST /lost-items.
func (h *LostItemHandler) Report(c *gin.Context) {
	var req service.ReportLostItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lost item payload"))
		return
	}
	item, err := h.service.Report(c.Request.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// List handles GET /lost-items.
func (h *LostItemHandler) List(c *gin.Context) {
	req := service.ListLostItemsRequest{
		Status:   c.Query("status"),
		HostelID: c.Query("hostel"),
		Page:     queryInt(c, "page", 1),
		PageSize: queryInt(c, "page_size", 20),
	}
	items, pagination, err := h.service.List(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, pagination)
}

// SubmitClaim handles POST /lost-items/:id/claims.
func (h *LostItemHandler) SubmitClaim(c *gin.Context) {
	var req service.SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid claim payload"))
		return
	}
	claim, err := h.service.SubmitClaim(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, claim)
}

// ApproveClaim handles POST /lost-items/:id/claims/:claimId/approve.
func (h *LostItemHandler) ApproveClaim(c *gin.Context) {
	if err := h.service.ApproveClaim(c.Request.Context(), c.Param("id"), c.Param("claimId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.ClaimStatusApproved}, nil)
}

// RejectClaim handles POST /lost-items/:id/claims/:claimId/reject.
func (h *LostItemHandler) RejectClaim(c *gin.Context) {
	if err := h.service.RejectClaim(c.Request.Context(), c.Param("id"), c.Param("claimId")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.ClaimStatusRejected}, nil)
}

// MarkAsFound handles POST /lost-items/:id/found.
func (h *LostItemHandler) MarkAsFound(c *gin.Context) {
	if err := h.service.MarkAsFound(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.LostItemStatusReturned}, nil)
}
