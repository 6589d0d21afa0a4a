package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/dormdesk/dormdesk-api/internal/service"
	"github.com/dormdesk/dormdesk-api/pkg/response"
)

type reportService interface {
	ExportIssues(ctx context.Context, req service.IssueReportRequest) (*service.ExportResult, error)
}

// ReportHandler streams admin report downloads.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// ExportIssues handles GET /reports/issues/export?format=csv|pdf.
func (h *ReportHandler) ExportIssues(c *gin.Context) {
	req := service.IssueReportRequest{
		Format:   c.DefaultQuery("format", "csv"),
		Hostel:   c.Query("hostel"),
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
	}
	result, err := h.service.ExportIssues(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
