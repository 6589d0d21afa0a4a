package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
	"github.com/dormdesk/dormdesk-api/pkg/export"
)

// exportPageSize bounds a single report to one repository page.
const exportPageSize = 100

type reportIssueRepository interface {
	List(ctx context.Context, filter models.IssueFilter) ([]models.IssueDetail, int, error)
}

// ReportService renders issue listings as downloadable CSV or PDF
// reports for administrators.
type ReportService struct {
	issues reportIssueRepository
	csv    *export.CSVExporter
	pdf    *export.PDFExporter
	logger *zap.Logger
}

// NewReportService constructs the service.
func NewReportService(issues reportIssueRepository, csv *export.CSVExporter, pdf *export.PDFExporter, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{issues: issues, csv: csv, pdf: pdf, logger: logger}
}

// ExportResult carries the rendered report bytes and HTTP metadata.
type ExportResult struct {
	Content     []byte
	ContentType string
	Filename    string
}

// IssueReportRequest scopes the exported issue set.
type IssueReportRequest struct {
	Format   string
	Hostel   string
	Status   string
	Priority string
}

var issueReportHeaders = []string{"ID", "Title", "Category", "Status", "Priority", "Hostel", "Block", "Room", "Reporter", "Assignee", "Upvotes", "Created At"}

// ExportIssues renders the issue report in the requested format.
func (s *ReportService) ExportIssues(ctx context.Context, req IssueReportRequest) (*ExportResult, error) {
	format := strings.ToLower(req.Format)
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	filter := models.IssueFilter{
		HostelID:   req.Hostel,
		ViewerRole: models.RoleAdmin,
		Page:       1,
		PageSize:   exportPageSize,
	}
	if req.Status != "" {
		status := models.IssueStatus(strings.ToUpper(req.Status))
		filter.Status = &status
	}
	if req.Priority != "" {
		priority := models.IssuePriority(strings.ToUpper(req.Priority))
		filter.Priority = &priority
	}

	issues, _, err := s.issues.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list issues for report")
	}

	dataset := export.Dataset{Headers: issueReportHeaders, Rows: make([]map[string]string, 0, len(issues))}
	for _, issue := range issues {
		row := map[string]string{
			"ID":         issue.ID,
			"Title":      issue.Title,
			"Category":   issue.CategoryName,
			"Status":     string(issue.Status),
			"Priority":   string(issue.Priority),
			"Hostel":     issue.HostelName,
			"Block":      issue.BlockName,
			"Room":       issue.Room,
			"Reporter":   issue.ReporterName,
			"Assignee":   derefString(issue.AssigneeName),
			"Upvotes":    strconv.Itoa(issue.UpvoteCount),
			"Created At": issue.CreatedAt.UTC().Format(time.RFC3339),
		}
		dataset.Rows = append(dataset.Rows, row)
	}

	timestamp := time.Now().UTC().Format("20060102-150405")
	switch format {
	case "csv":
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv report")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "text/csv",
			Filename:    fmt.Sprintf("issues-%s.csv", timestamp),
		}, nil
	default:
		content, err := s.pdf.Render(dataset, "Issue Report")
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf report")
		}
		return &ExportResult{
			Content:     content,
			ContentType: "application/pdf",
			Filename:    fmt.Sprintf("issues-%s.pdf", timestamp),
		}, nil
	}
}

func derefString(value *string) string {
	if value == nil {
		return ""
	}
	return *value
}
