package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
)

type directoryUserRepository interface {
	ListSummaries(ctx context.Context) ([]models.UserSummary, error)
}

type locationRepository interface {
	ListHostels(ctx context.Context) ([]models.HostelSummary, error)
	ListBlocks(ctx context.Context, hostelID string) ([]models.Block, error)
}

type categoryRepository interface {
	ListActive(ctx context.Context) ([]models.IssueCategory, error)
}

// DirectoryService serves the reference data the issue forms depend
// on: hostels, blocks, categories, and the user name lookup.
type DirectoryService struct {
	users      directoryUserRepository
	locations  locationRepository
	categories categoryRepository
	logger     *zap.Logger
}

// NewDirectoryService constructs the service.
func NewDirectoryService(users directoryUserRepository, locations locationRepository, categories categoryRepository, logger *zap.Logger) *DirectoryService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DirectoryService{users: users, locations: locations, categories: categories, logger: logger}
}

// ListUsers returns id/name pairs for every user.
func (s *DirectoryService) ListUsers(ctx context.Context) ([]models.UserSummary, error) {
	users, err := s.users.ListSummaries(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list users")
	}
	return users, nil
}

// ListHostels returns all hostels.
func (s *DirectoryService) ListHostels(ctx context.Context) ([]models.HostelSummary, error) {
	hostels, err := s.locations.ListHostels(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list hostels")
	}
	return hostels, nil
}

// ListBlocks returns the blocks of a hostel.
func (s *DirectoryService) ListBlocks(ctx context.Context, hostelID string) ([]models.Block, error) {
	blocks, err := s.locations.ListBlocks(ctx, hostelID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list blocks")
	}
	return blocks, nil
}

// ListCategories returns the active issue categories.
func (s *DirectoryService) ListCategories(ctx context.Context) ([]models.IssueCategory, error) {
	categories, err := s.categories.ListActive(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list categories")
	}
	return categories, nil
}
