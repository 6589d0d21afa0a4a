package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/models"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

type directoryService interface {
	ListUsers(ctx context.Context) ([]models.UserSummary, error)
	ListHostels(ctx context.Context) ([]models.HostelSummary, error)
	ListBlocks(ctx context.Context, hostelID string) ([]models.Block, error)
	ListCategories(ctx context.Context) ([]models.IssueCategory, error)
}

// DirectoryHandler exposes the reference data endpoints.
type DirectoryHandler struct {
	service directoryService
}

// NewDirectoryHandler constructs the handler.
func NewDirectoryHandler(service directoryService) *DirectoryHandler {
	return &DirectoryHandler{service: service}
}

// ListUsers handles GET /users.
func (h *DirectoryHandler) ListUsers(c *gin.Context) {
	users, err := h.service.ListUsers(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, users, nil)
}

// ListHostels handles GET /hostels.
func (h *DirectoryHandler) ListHostels(c *gin.Context) {
	hostels, err := h.service.ListHostels(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, hostels, nil)
}

// ListBlocks handles GET /hostels/:id/blocks.
func (h *DirectoryHandler) ListBlocks(c *gin.Context) {
	blocks, err := h.service.ListBlocks(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, blocks, nil)
}

// ListCategories handles GET /categories.
func (h *DirectoryHandler) ListCategories(c *gin.Context) {
	categories, err := h.service.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, categories, nil)
}
