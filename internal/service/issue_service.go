package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
)

// analyticsCachePattern covers every cached analytics read model. Issue
// mutations invalidate the whole set.
const analyticsCachePattern = "analytics:*"

const defaultResolutionNote = "Issue resolved"

type issueRepository interface {
	Create(ctx context.Context, issue *models.Issue) error
	GetByID(ctx context.Context, id string) (*models.Issue, error)
	GetDetail(ctx context.Context, id string) (*models.IssueDetail, error)
	List(ctx context.Context, filter models.IssueFilter) ([]models.IssueDetail, int, error)
	Claim(ctx context.Context, issueID, staffID string) error
	StartProgress(ctx context.Context, issueID string) error
	Resolve(ctx context.Context, issueID, staffID, note string) error
	Close(ctx context.Context, issueID string, fromStatus models.IssueStatus, changedByID string) error
	ToggleUpvote(ctx context.Context, issueID, userID string) (bool, error)
	UpvoteCount(ctx context.Context, issueID string) (int, error)
	AddComment(ctx context.Context, comment *models.Comment) error
	ListComments(ctx context.Context, issueID string) ([]models.Comment, error)
	ListHistory(ctx context.Context, issueID string) ([]models.IssueStatusHistory, error)
}

type issueUserRepository interface {
	FindByID(ctx context.Context, id string) (*models.User, error)
}

// IssueService implements the issue lifecycle.
type IssueService struct {
	repo      issueRepository
	users     issueUserRepository
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewIssueService constructs the service and registers enum validators.
func NewIssueService(repo issueRepository, users issueUserRepository, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *IssueService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &IssueService{repo: repo, users: users, cache: cache, validator: validate, logger: logger}
	svc.validator.RegisterValidation("issuepriority", func(fl validator.FieldLevel) bool {
		switch models.IssuePriority(strings.ToUpper(fl.Field().String())) {
		case models.IssuePriorityLow, models.IssuePriorityMedium, models.IssuePriorityHigh, models.IssuePriorityEmergency:
			return true
		default:
			return false
		}
	})
	svc.validator.RegisterValidation("issuevisibility", func(fl validator.FieldLevel) bool {
		switch models.IssueVisibility(strings.ToUpper(fl.Field().String())) {
		case models.IssueVisibilityPublic, models.IssueVisibilityPrivate:
			return true
		default:
			return false
		}
	})
	svc.validator.RegisterValidation("commenttype", func(fl validator.FieldLevel) bool {
		if fl.Field().String() == "" {
			return true
		}
		switch models.CommentType(strings.ToUpper(fl.Field().String())) {
		case models.CommentTypeOfficialUpdate, models.CommentTypeDiscussion:
			return true
		default:
			return false
		}
	})
	return svc
}

// CreateIssueRequest describes the create payload. Staff may override
// the location instead of inheriting it from their profile.
type CreateIssueRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description" validate:"required"`
	CategoryID  string  `json:"category_id" validate:"required"`
	Priority    string  `json:"priority" validate:"required,issuepriority"`
	Visibility  string  `json:"visibility" validate:"required,issuevisibility"`
	MediaURL    *string `json:"media_url"`
	HostelID    string  `json:"hostel_id"`
	BlockID     string  `json:"block_id"`
	Room        string  `json:"room"`
}

// ListIssuesRequest describes listing filters.
type ListIssuesRequest struct {
	Hostel         string
	Block          string
	Status         string
	Priority       string
	Search         string
	SortBy         string
	SortOrder      string
	UnresolvedOnly bool
	Page           int
	PageSize       int
}

// AddCommentRequest describes the comment payload.
type AddCommentRequest struct {
	Content  string  `json:"content" validate:"required"`
	ParentID *string `json:"parent_id"`
	Type     string  `json:"type" validate:"commenttype"`
}

// IssueView bundles an issue with its comments and status history.
type IssueView struct {
	Issue    models.IssueDetail          `json:"issue"`
	Comments []models.Comment            `json:"comments"`
	History  []models.IssueStatusHistory `json:"history"`
}

// Create persists a new REPORTED issue. The location is denormalized
// from the reporter's stored profile; staff may supply an explicit
// hostel/block instead.
func (s *IssueService) Create(ctx context.Context, claims *models.SessionClaims, req CreateIssueRequest) (*models.Issue, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid issue payload")
	}

	issue := &models.Issue{
		Title:       req.Title,
		Description: req.Description,
		Priority:    models.IssuePriority(strings.ToUpper(req.Priority)),
		Visibility:  models.IssueVisibility(strings.ToUpper(req.Visibility)),
		CategoryID:  req.CategoryID,
		ReporterID:  claims.UserID,
		MediaURL:    req.MediaURL,
	}

	if claims.Role == models.RoleStaff && req.HostelID != "" && req.BlockID != "" {
		issue.HostelID = req.HostelID
		issue.BlockID = req.BlockID
		issue.Room = req.Room
	} else {
		user, err := s.users.FindByID(ctx, claims.UserID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return nil, appErrors.Clone(appErrors.ErrUnauthorized, "reporter account not found")
			}
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load reporter profile")
		}
		if user.HostelID == nil || user.BlockID == nil {
			return nil, appErrors.Clone(appErrors.ErrProfileIncomplete, "")
		}
		issue.HostelID = *user.HostelID
		issue.BlockID = *user.BlockID
		if user.RoomID != nil {
			issue.Room = *user.RoomID
		}
	}
	if issue.Room == "" {
		issue.Room = models.RoomPlaceholder
	}

	if err := s.repo.Create(ctx, issue); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create issue")
	}
	s.invalidateAnalytics(ctx)
	return issue, nil
}

// List returns issues visible to the viewer matching the filters.
func (s *IssueService) List(ctx context.Context, claims *models.SessionClaims, req ListIssuesRequest) ([]models.IssueDetail, *models.Pagination, error) {
	filter := models.IssueFilter{
		HostelID:       req.Hostel,
		BlockID:        req.Block,
		Search:         req.Search,
		SortBy:         req.SortBy,
		SortOrder:      req.SortOrder,
		UnresolvedOnly: req.UnresolvedOnly,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}
	if req.Status != "" {
		status := models.IssueStatus(strings.ToUpper(req.Status))
		filter.Status = &status
	}
	if req.Priority != "" {
		priority := models.IssuePriority(strings.ToUpper(req.Priority))
		filter.Priority = &priority
	}
	if claims != nil {
		filter.ViewerID = claims.UserID
		filter.ViewerRole = claims.Role
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	issues, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list issues")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return issues, pagination, nil
}

// Get returns a single issue with comments and history.
func (s *IssueService) Get(ctx context.Context, claims *models.SessionClaims, id string) (*IssueView, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	detail, err := s.repo.GetDetail(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to get issue")
	}
	if detail.Visibility == models.IssueVisibilityPrivate &&
		claims.Role != models.RoleStaff && claims.Role != models.RoleAdmin && claims.UserID != detail.ReporterID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "issue not found")
	}

	comments, err := s.repo.ListComments(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	history, err := s.repo.ListHistory(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list history")
	}
	return &IssueView{Issue: *detail, Comments: comments, History: history}, nil
}

// Claim assigns the issue to the acting staff member. No history row is
// written and no unassigned check is made; two concurrent claims race
// and the last write wins.
func (s *IssueService) Claim(ctx context.Context, claims *models.SessionClaims, issueID string) error {
	if err := s.requireStaff(claims); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issue")
	}
	if err := s.repo.Claim(ctx, issueID, claims.UserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to claim issue")
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// StartProgress marks the issue IN_PROGRESS.
func (s *IssueService) StartProgress(ctx context.Context, claims *models.SessionClaims, issueID string) error {
	if err := s.requireStaff(claims); err != nil {
		return err
	}
	if _, err := s.repo.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issue")
	}
	if err := s.repo.StartProgress(ctx, issueID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to start progress")
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// Resolve moves the issue to RESOLVED with its history row, atomically.
func (s *IssueService) Resolve(ctx context.Context, claims *models.SessionClaims, issueID, note string) error {
	if err := s.requireStaff(claims); err != nil {
		return err
	}
	if note == "" {
		note = defaultResolutionNote
	}
	if err := s.repo.Resolve(ctx, issueID, claims.UserID, note); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to resolve issue")
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// Close lets the original reporter close their issue. The history row
// records the status read before the update.
func (s *IssueService) Close(ctx context.Context, claims *models.SessionClaims, issueID string) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	issue, err := s.repo.GetByID(ctx, issueID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issue")
	}
	if issue.ReporterID != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the reporter may close this issue")
	}
	if err := s.repo.Close(ctx, issueID, issue.Status, claims.UserID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to close issue")
	}
	s.invalidateAnalytics(ctx)
	return nil
}

// ToggleUpvote flips the (issue, user) upvote and returns the new state
// with the aggregate count.
func (s *IssueService) ToggleUpvote(ctx context.Context, claims *models.SessionClaims, issueID string) (bool, int, error) {
	if claims == nil {
		return false, 0, appErrors.ErrUnauthorized
	}
	if _, err := s.repo.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, 0, appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return false, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issue")
	}
	upvoted, err := s.repo.ToggleUpvote(ctx, issueID, claims.UserID)
	if err != nil {
		return false, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to toggle upvote")
	}
	count, err := s.repo.UpvoteCount(ctx, issueID)
	if err != nil {
		return false, 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count upvotes")
	}
	return upvoted, count, nil
}

// AddComment inserts a comment on the issue. Parent references are
// stored as provided; cross-issue parents are not validated, matching
// the behaviour the UI relies on.
func (s *IssueService) AddComment(ctx context.Context, claims *models.SessionClaims, issueID string, req AddCommentRequest) (*models.Comment, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid comment payload")
	}
	if _, err := s.repo.GetByID(ctx, issueID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "issue not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load issue")
	}

	commentType := models.CommentTypeDiscussion
	if req.Type != "" {
		commentType = models.CommentType(strings.ToUpper(req.Type))
	}
	if commentType == models.CommentTypeOfficialUpdate && claims.Role == models.RoleStudent {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "only staff may post official updates")
	}

	comment := &models.Comment{
		IssueID:  issueID,
		UserID:   claims.UserID,
		ParentID: req.ParentID,
		Content:  req.Content,
		Type:     commentType,
	}
	if err := s.repo.AddComment(ctx, comment); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to add comment")
	}
	return comment, nil
}

// Comments returns the flat comment list for an issue.
func (s *IssueService) Comments(ctx context.Context, claims *models.SessionClaims, issueID string) ([]models.Comment, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	comments, err := s.repo.ListComments(ctx, issueID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list comments")
	}
	return comments, nil
}

func (s *IssueService) requireStaff(claims *models.SessionClaims) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	if claims.Role != models.RoleStaff {
		return appErrors.Clone(appErrors.ErrForbidden, "staff role required")
	}
	return nil
}

func (s *IssueService) invalidateAnalytics(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, analyticsCachePattern); err != nil {
		s.logger.Warn("analytics cache invalidation failed", zap.Error(err))
	}
}
