package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	Create(ctx context.Context, announcement *models.Announcement) error
}

// AnnouncementService manages hostel announcements.
type AnnouncementService struct {
	repo      announcementRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, validate *validator.Validate, logger *zap.Logger) *AnnouncementService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &AnnouncementService{repo: repo, validator: validate, logger: logger}
	svc.validator.RegisterValidation("announcementpriority", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}
		switch models.AnnouncementPriority(strings.ToUpper(fl.Field().String())) {
		case models.AnnouncementPriorityLow, models.AnnouncementPriorityNormal, models.AnnouncementPriorityHigh:
			return true
		default:
			return false
		}
	})
	return svc
}

// CreateAnnouncementRequest describes the create payload. Leaving the
// hostel target empty makes the announcement global.
type CreateAnnouncementRequest struct {
	Title          string  `json:"title" validate:"required"`
	Content        string  `json:"content" validate:"required"`
	Priority       string  `json:"priority" validate:"announcementpriority"`
	IsPinned       bool    `json:"is_pinned"`
	TargetHostelID *string `json:"target_hostel_id"`
	TargetBlockID  *string `json:"target_block_id"`
	ExpiresAt      *string `json:"expires_at"`
}

// ListAnnouncementsRequest describes listing filters.
type ListAnnouncementsRequest struct {
	HostelID *string
	Page     int
	PageSize int
}

// Create publishes an announcement.
func (s *AnnouncementService) Create(ctx context.Context, claims *models.SessionClaims, req CreateAnnouncementRequest) (*models.Announcement, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleAdmin {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "admin role required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid announcement payload")
	}

	priority := models.AnnouncementPriorityNormal
	if req.Priority != "" {
		priority = models.AnnouncementPriority(strings.ToUpper(req.Priority))
	}

	announcement := &models.Announcement{
		Title:          req.Title,
		Content:        req.Content,
		Priority:       priority,
		IsPinned:       req.IsPinned,
		AuthorID:       claims.UserID,
		TargetHostelID: req.TargetHostelID,
		TargetBlockID:  req.TargetBlockID,
	}
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		expires, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "expires_at must be RFC3339")
		}
		expiresUTC := expires.UTC()
		announcement.ExpiresAt = &expiresUTC
	}

	if err := s.repo.Create(ctx, announcement); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	return announcement, nil
}

// List returns unexpired announcements, pinned first.
func (s *AnnouncementService) List(ctx context.Context, req ListAnnouncementsRequest) ([]models.Announcement, *models.Pagination, error) {
	filter := models.AnnouncementFilter{
		HostelID: req.HostelID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	announcements, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return announcements, pagination, nil
}
