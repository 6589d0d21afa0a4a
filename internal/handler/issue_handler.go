package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/middleware"
	"github.com/dormdesk/dormdesk-api/internal/models"
	"github.com/dormdesk/dormdesk-api/internal/service"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

type issueService interface {
	Create(ctx context.Context, claims *models.SessionClaims, req service.CreateIssueRequest) (*models.Issue, error)
	List(ctx context.Context, claims *models.SessionClaims, req service.ListIssuesRequest) ([]models.IssueDetail, *models.Pagination, error)
	Get(ctx context.Context, claims *models.SessionClaims, id string) (*service.IssueView, error)
	Claim(ctx context.Context, claims *models.SessionClaims, issueID string) error
	StartProgress(ctx context.Context, claims *models.SessionClaims, issueID string) error
	Resolve(ctx context.Context, claims *models.SessionClaims, issueID, note string) error
	Close(ctx context.Context, claims *models.SessionClaims, issueID string) error
	ToggleUpvote(ctx context.Context, claims *models.SessionClaims, issueID string) (bool, int, error)
	AddComment(ctx context.Context, claims *models.SessionClaims, issueID string, req service.AddCommentRequest) (*models.Comment, error)
	Comments(ctx context.Context, claims *models.SessionClaims, issueID string) ([]models.Comment, error)
}

// IssueHandler exposes the issue lifecycle endpoints.
type IssueHandler struct {
	service issueService
}

// NewIssueHandler constructs the handler.
func NewIssueHandler(service issueService) *IssueHandler {
	return &IssueHandler{service: service}
}

// Create handles POST /issues.
func (h *IssueHandler) Create(c *gin.Context) {
	var req service.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue payload"))
		return
	}
	issue, err := h.service.Create(c.Request.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, issue)
}

// List handles GET /issues with filtering and pagination.
func (h *IssueHandler) List(c *gin.Context) {
	req := service.ListIssuesRequest{
		Hostel:         c.Query("hostel"),
		Block:          c.Query("block"),
		Status:         c.Query("status"),
		Priority:       c.Query("priority"),
		Search:         c.Query("search"),
		SortBy:         c.Query("sort_by"),
		SortOrder:      c.Query("sort_order"),
		UnresolvedOnly: c.Query("unresolved") == "true",
		Page:           queryInt(c, "page", 1),
		PageSize:       queryInt(c, "page_size", 20),
	}
	issues, pagination, err := h.service.List(c.Request.Context(), middleware.ClaimsFromContext(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, issues, pagination)
}

// Get handles GET /issues/:id.
func (h *IssueHandler) Get(c *gin.Context) {
	view, err := h.service.Get(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, view, nil)
}

// Claim handles POST /issues/:id/claim.
func (h *IssueHandler) Claim(c *gin.Context) {
	if err := h.service.Claim(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.IssueStatusAssigned}, nil)
}

// StartProgress handles POST /issues/:id/start.
func (h *IssueHandler) StartProgress(c *gin.Context) {
	if err := h.service.StartProgress(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.IssueStatusInProgress}, nil)
}

type resolveRequest struct {
	Note string `json:"note"`
}

// Resolve handles POST /issues/:id/resolve.
func (h *IssueHandler) Resolve(c *gin.Context) {
	var req resolveRequest
	_ = c.ShouldBindJSON(&req)
	if err := h.service.Resolve(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id"), req.Note); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.IssueStatusResolved}, nil)
}

// Close handles POST /issues/:id/close.
func (h *IssueHandler) Close(c *gin.Context) {
	if err := h.service.Close(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"status": models.IssueStatusClosed}, nil)
}

// ToggleUpvote handles POST /issues/:id/upvote.
func (h *IssueHandler) ToggleUpvote(c *gin.Context) {
	upvoted, count, err := h.service.ToggleUpvote(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"upvoted": upvoted, "upvote_count": count}, nil)
}

// AddComment handles POST /issues/:id/comments.
func (h *IssueHandler) AddComment(c *gin.Context) {
	var req service.AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload"))
		return
	}
	comment, err := h.service.AddComment(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, comment)
}

// ListComments handles GET /issues/:id/comments.
func (h *IssueHandler) ListComments(c *gin.Context) {
	comments, err := h.service.Comments(c.Request.Context(), middleware.ClaimsFromContext(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, comments, nil)
}

func queryInt(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return value
}
