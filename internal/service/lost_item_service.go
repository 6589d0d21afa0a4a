package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
)

type lostItemRepository interface {
	Create(ctx context.Context, item *models.LostItem) error
	GetByID(ctx context.Context, id string) (*models.LostItem, error)
	List(ctx context.Context, filter models.LostItemFilter) ([]models.LostItemWithClaims, int, error)
	CreateClaim(ctx context.Context, claim *models.LostItemClaim) error
	FindClaimByClaimant(ctx context.Context, lostItemID, claimantID string) (*models.LostItemClaim, error)
	GetClaim(ctx context.Context, lostItemID, claimID string) (*models.LostItemClaim, error)
	ApproveClaim(ctx context.Context, lostItemID, claimID string) error
	RejectClaim(ctx context.Context, lostItemID, claimID string) error
	MarkReturned(ctx context.Context, lostItemID string) error
}

// LostItemService implements the lost-and-found workflow.
type LostItemService struct {
	repo      lostItemRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLostItemService constructs the service and registers the item
// status validator.
func NewLostItemService(repo lostItemRepository, validate *validator.Validate, logger *zap.Logger) *LostItemService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	svc := &LostItemService{repo: repo, validator: validate, logger: logger}
	svc.validator.RegisterValidation("lostitemstatus", func(fl validator.FieldLevel) bool {
		switch models.LostItemStatus(strings.ToUpper(fl.Field().String())) {
		case models.LostItemStatusLost, models.LostItemStatusFound:
			return true
		default:
			return false
		}
	})
	return svc
}

// ReportLostItemRequest describes the report payload. Items enter as
// LOST (I lost this) or FOUND (I found this).
type ReportLostItemRequest struct {
	Title       string             `json:"title" validate:"required"`
	Description string             `json:"description" validate:"required"`
	Status      string             `json:"status" validate:"required,lostitemstatus"`
	Location    string             `json:"location" validate:"required"`
	Date        string             `json:"date"`
	ImageURLs   models.StringSlice `json:"image_urls"`
	HostelID    *string            `json:"hostel_id"`
}

// SubmitClaimRequest describes the claim payload.
type SubmitClaimRequest struct {
	Description string             `json:"description" validate:"required"`
	ProofURLs   models.StringSlice `json:"proof_urls"`
}

// ListLostItemsRequest describes listing filters.
type ListLostItemsRequest struct {
	Status   string
	HostelID string
	Page     int
	PageSize int
}

// Report registers a lost or found item.
func (s *LostItemService) Report(ctx context.Context, claims *models.SessionClaims, req ReportLostItemRequest) (*models.LostItem, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid lost item payload")
	}

	item := &models.LostItem{
		Title:       req.Title,
		Description: req.Description,
		Status:      models.LostItemStatus(strings.ToUpper(req.Status)),
		Location:    req.Location,
		ImageURLs:   req.ImageURLs,
		ReporterID:  claims.UserID,
		HostelID:    req.HostelID,
	}
	if req.Date != "" {
		date, err := parseItemDate(req.Date)
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "date must be YYYY-MM-DD or RFC3339")
		}
		item.Date = date
	}
	if item.Date.IsZero() {
		item.Date = time.Now().UTC()
	}
	if item.HostelID == nil && claims.HostelID != nil {
		item.HostelID = claims.HostelID
	}

	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create lost item")
	}
	return item, nil
}

// List returns lost items with their claims.
func (s *LostItemService) List(ctx context.Context, req ListLostItemsRequest) ([]models.LostItemWithClaims, *models.Pagination, error) {
	filter := models.LostItemFilter{
		HostelID: req.HostelID,
		Page:     req.Page,
		PageSize: req.PageSize,
	}
	if req.Status != "" {
		status := models.LostItemStatus(strings.ToUpper(req.Status))
		filter.Status = &status
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list lost items")
	}
	pagination := &models.Pagination{Page: filter.Page, PageSize: filter.PageSize, TotalCount: total}
	return items, pagination, nil
}

// SubmitClaim files a PENDING claim against an item. A claimant who has
// already claimed the item gets a CONFLICT back instead of a second
// row. The pre-check and insert are two statements; concurrent submits
// from the same claimant can both pass the check.
func (s *LostItemService) SubmitClaim(ctx context.Context, claims *models.SessionClaims, lostItemID string, req SubmitClaimRequest) (*models.LostItemClaim, error) {
	if claims == nil {
		return nil, appErrors.ErrUnauthorized
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid claim payload")
	}
	if _, err := s.repo.GetByID(ctx, lostItemID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "lost item not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lost item")
	}

	if _, err := s.repo.FindClaimByClaimant(ctx, lostItemID, claims.UserID); err == nil {
		return nil, appErrors.Clone(appErrors.ErrConflict, "you have already claimed this item")
	} else if !errors.Is(err, sql.ErrNoRows) {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check existing claim")
	}

	claim := &models.LostItemClaim{
		LostItemID:  lostItemID,
		ClaimantID:  claims.UserID,
		Description: req.Description,
		ProofURLs:   req.ProofURLs,
	}
	if err := s.repo.CreateClaim(ctx, claim); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create claim")
	}
	return claim, nil
}

// ApproveClaim approves a claim and marks the item RETURNED. Other
// pending claims on the item are left untouched.
func (s *LostItemService) ApproveClaim(ctx context.Context, lostItemID, claimID string) error {
	if _, err := s.repo.GetClaim(ctx, lostItemID, claimID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "claim not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load claim")
	}
	if err := s.repo.ApproveClaim(ctx, lostItemID, claimID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to approve claim")
	}
	return nil
}

// RejectClaim marks a claim REJECTED.
func (s *LostItemService) RejectClaim(ctx context.Context, lostItemID, claimID string) error {
	if _, err := s.repo.GetClaim(ctx, lostItemID, claimID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "claim not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load claim")
	}
	if err := s.repo.RejectClaim(ctx, lostItemID, claimID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to reject claim")
	}
	return nil
}

// MarkAsFound lets the reporter mark their own item recovered.
func (s *LostItemService) MarkAsFound(ctx context.Context, claims *models.SessionClaims, lostItemID string) error {
	if claims == nil {
		return appErrors.ErrUnauthorized
	}
	item, err := s.repo.GetByID(ctx, lostItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "lost item not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load lost item")
	}
	if item.ReporterID != claims.UserID {
		return appErrors.Clone(appErrors.ErrForbidden, "only the reporter may mark this item as found")
	}
	if item.Status != models.LostItemStatusLost {
		return appErrors.Clone(appErrors.ErrConflict, "item is not marked lost")
	}
	if err := s.repo.MarkReturned(ctx, lostItemID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to mark item returned")
	}
	return nil
}

func parseItemDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
