package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdesk/dormdesk-api/internal/models"
	appErrors "github.com/dormdesk/dormdesk-api/pkg/errors"
)

type fakeIssueRepo struct {
	issues  map[string]*models.Issue
	details map[string]*models.IssueDetail

	createdIssue  *models.Issue
	claimStaffID  string
	resolveNote   string
	closeFrom     models.IssueStatus
	closeBy       string
	upvoted       bool
	upvoteCount   int
	addedComment  *models.Comment
	startCalled   bool
	resolveCalled bool
}

func (f *fakeIssueRepo) Create(ctx context.Context, issue *models.Issue) error {
	issue.ID = "issue-1"
	issue.Status = models.IssueStatusReported
	f.createdIssue = issue
	return nil
}

func (f *fakeIssueRepo) GetByID(ctx context.Context, id string) (*models.Issue, error) {
	issue, ok := f.issues[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return issue, nil
}

func (f *fakeIssueRepo) GetDetail(ctx context.Context, id string) (*models.IssueDetail, error) {
	detail, ok := f.details[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return detail, nil
}

func (f *fakeIssueRepo) List(ctx context.Context, filter models.IssueFilter) ([]models.IssueDetail, int, error) {
	return nil, 0, nil
}

func (f *fakeIssueRepo) Claim(ctx context.Context, issueID, staffID string) error {
	f.claimStaffID = staffID
	return nil
}

func (f *fakeIssueRepo) StartProgress(ctx context.Context, issueID string) error {
	f.startCalled = true
	return nil
}

func (f *fakeIssueRepo) Resolve(ctx context.Context, issueID, staffID, note string) error {
	f.resolveCalled = true
	f.resolveNote = note
	return nil
}

func (f *fakeIssueRepo) Close(ctx context.Context, issueID string, fromStatus models.IssueStatus, changedByID string) error {
	f.closeFrom = fromStatus
	f.closeBy = changedByID
	return nil
}

func (f *fakeIssueRepo) ToggleUpvote(ctx context.Context, issueID, userID string) (bool, error) {
	return f.upvoted, nil
}

func (f *fakeIssueRepo) UpvoteCount(ctx context.Context, issueID string) (int, error) {
	return f.upvoteCount, nil
}

func (f *fakeIssueRepo) AddComment(ctx context.Context, comment *models.Comment) error {
	comment.ID = "comment-1"
	f.addedComment = comment
	return nil
}

func (f *fakeIssueRepo) ListComments(ctx context.Context, issueID string) ([]models.Comment, error) {
	return []models.Comment{}, nil
}

func (f *fakeIssueRepo) ListHistory(ctx context.Context, issueID string) ([]models.IssueStatusHistory, error) {
	return []models.IssueStatusHistory{}, nil
}

type fakeUserRepo struct {
	users map[string]*models.User
}

func (f *fakeUserRepo) FindByID(ctx context.Context, id string) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return user, nil
}

type fakeCacheRepo struct {
	invalidated []string
}

func (f *fakeCacheRepo) Get(ctx context.Context, key string, dest interface{}) error {
	return appErrors.ErrCacheMiss
}

func (f *fakeCacheRepo) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	return nil
}

func (f *fakeCacheRepo) DeleteByPattern(ctx context.Context, pattern string) error {
	f.invalidated = append(f.invalidated, pattern)
	return nil
}

func strPtr(s string) *string { return &s }

func studentClaims(id string) *models.SessionClaims {
	return &models.SessionClaims{UserID: id, Role: models.RoleStudent}
}

func staffClaims(id string) *models.SessionClaims {
	return &models.SessionClaims{UserID: id, Role: models.RoleStaff}
}

func newIssueServiceForTest(repo *fakeIssueRepo, users *fakeUserRepo, cacheRepo *fakeCacheRepo) *IssueService {
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, cacheRepo != nil)
	return NewIssueService(repo, users, cache, nil, nil)
}

func validCreateRequest() CreateIssueRequest {
	return CreateIssueRequest{
		Title:       "Broken fan",
		Description: "Ceiling fan does not spin",
		CategoryID:  "cat-1",
		Priority:    "HIGH",
		Visibility:  "PUBLIC",
	}
}

func TestCreateIssueInheritsReporterLocation(t *testing.T) {
	repo := &fakeIssueRepo{}
	users := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleStudent, HostelID: strPtr("hostel-1"), BlockID: strPtr("block-1"), RoomID: strPtr("101")},
	}}
	cacheRepo := &fakeCacheRepo{}
	svc := newIssueServiceForTest(repo, users, cacheRepo)

	issue, err := svc.Create(context.Background(), studentClaims("u1"), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, "hostel-1", issue.HostelID)
	assert.Equal(t, "block-1", issue.BlockID)
	assert.Equal(t, "101", issue.Room)
	assert.Equal(t, models.IssueStatusReported, issue.Status)
	assert.Contains(t, cacheRepo.invalidated, "analytics:*")
}

func TestCreateIssueDefaultsRoomPlaceholder(t *testing.T) {
	repo := &fakeIssueRepo{}
	users := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleStudent, HostelID: strPtr("hostel-1"), BlockID: strPtr("block-1")},
	}}
	svc := newIssueServiceForTest(repo, users, &fakeCacheRepo{})

	issue, err := svc.Create(context.Background(), studentClaims("u1"), validCreateRequest())
	require.NoError(t, err)
	assert.Equal(t, models.RoomPlaceholder, issue.Room)
}

func TestCreateIssueRejectsIncompleteProfile(t *testing.T) {
	repo := &fakeIssueRepo{}
	users := &fakeUserRepo{users: map[string]*models.User{
		"u1": {ID: "u1", Role: models.RoleStudent},
	}}
	svc := newIssueServiceForTest(repo, users, &fakeCacheRepo{})

	_, err := svc.Create(context.Background(), studentClaims("u1"), validCreateRequest())
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrProfileIncomplete.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.createdIssue)
}

func TestCreateIssueStaffLocationOverride(t *testing.T) {
	repo := &fakeIssueRepo{}
	users := &fakeUserRepo{users: map[string]*models.User{}}
	svc := newIssueServiceForTest(repo, users, &fakeCacheRepo{})

	req := validCreateRequest()
	req.HostelID = "hostel-2"
	req.BlockID = "block-9"
	req.Room = "C-wing corridor"

	issue, err := svc.Create(context.Background(), staffClaims("staff-1"), req)
	require.NoError(t, err)
	assert.Equal(t, "hostel-2", issue.HostelID)
	assert.Equal(t, "block-9", issue.BlockID)
	assert.Equal(t, "C-wing corridor", issue.Room)
}

func TestCreateIssueRejectsUnknownPriority(t *testing.T) {
	svc := newIssueServiceForTest(&fakeIssueRepo{}, &fakeUserRepo{}, &fakeCacheRepo{})

	req := validCreateRequest()
	req.Priority = "URGENT"

	_, err := svc.Create(context.Background(), studentClaims("u1"), req)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestClaimRequiresStaffRole(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{"i1": {ID: "i1"}}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	err := svc.Claim(context.Background(), studentClaims("u1"), "i1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Empty(t, repo.claimStaffID)
}

func TestClaimAssignsActingStaff(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{"i1": {ID: "i1", Status: models.IssueStatusAssigned}}}
	cacheRepo := &fakeCacheRepo{}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, cacheRepo)

	// already-assigned issues are claimable; the last writer wins
	err := svc.Claim(context.Background(), staffClaims("staff-2"), "i1")
	require.NoError(t, err)
	assert.Equal(t, "staff-2", repo.claimStaffID)
	assert.Contains(t, cacheRepo.invalidated, "analytics:*")
}

func TestResolveDefaultsNote(t *testing.T) {
	repo := &fakeIssueRepo{}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	err := svc.Resolve(context.Background(), staffClaims("staff-1"), "i1", "")
	require.NoError(t, err)
	assert.Equal(t, "Issue resolved", repo.resolveNote)
}

func TestCloseRejectsNonReporter(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{
		"i1": {ID: "i1", ReporterID: "u1", Status: models.IssueStatusInProgress},
	}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	for _, claims := range []*models.SessionClaims{
		studentClaims("u2"),
		staffClaims("staff-1"),
		{UserID: "admin-1", Role: models.RoleAdmin},
	} {
		err := svc.Close(context.Background(), claims, "i1")
		require.Error(t, err)
		assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	}
	assert.Empty(t, repo.closeBy)
}

func TestClosePassesPreImageStatus(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{
		"i1": {ID: "i1", ReporterID: "u1", Status: models.IssueStatusInProgress},
	}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	err := svc.Close(context.Background(), studentClaims("u1"), "i1")
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusInProgress, repo.closeFrom)
	assert.Equal(t, "u1", repo.closeBy)
}

func TestCloseMissingIssue(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	err := svc.Close(context.Background(), studentClaims("u1"), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestToggleUpvoteReturnsNewCount(t *testing.T) {
	repo := &fakeIssueRepo{
		issues:      map[string]*models.Issue{"i1": {ID: "i1"}},
		upvoted:     true,
		upvoteCount: 4,
	}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	upvoted, count, err := svc.ToggleUpvote(context.Background(), studentClaims("u1"), "i1")
	require.NoError(t, err)
	assert.True(t, upvoted)
	assert.Equal(t, 4, count)
}

func TestAddCommentStudentCannotPostOfficialUpdate(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{"i1": {ID: "i1"}}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	_, err := svc.AddComment(context.Background(), studentClaims("u1"), "i1", AddCommentRequest{
		Content: "Fixed now",
		Type:    "OFFICIAL_UPDATE",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
	assert.Nil(t, repo.addedComment)
}

func TestAddCommentDefaultsToDiscussion(t *testing.T) {
	repo := &fakeIssueRepo{issues: map[string]*models.Issue{"i1": {ID: "i1"}}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	comment, err := svc.AddComment(context.Background(), studentClaims("u1"), "i1", AddCommentRequest{Content: "Same in my room"})
	require.NoError(t, err)
	assert.Equal(t, models.CommentTypeDiscussion, comment.Type)
	assert.Equal(t, "u1", comment.UserID)
}

func TestGetHidesPrivateIssueFromOtherStudents(t *testing.T) {
	repo := &fakeIssueRepo{details: map[string]*models.IssueDetail{
		"i1": {Issue: models.Issue{ID: "i1", ReporterID: "u1", Visibility: models.IssueVisibilityPrivate}},
	}}
	svc := newIssueServiceForTest(repo, &fakeUserRepo{}, &fakeCacheRepo{})

	_, err := svc.Get(context.Background(), studentClaims("u2"), "i1")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)

	view, err := svc.Get(context.Background(), studentClaims("u1"), "i1")
	require.NoError(t, err)
	assert.Equal(t, "i1", view.Issue.ID)

	view, err = svc.Get(context.Background(), staffClaims("staff-1"), "i1")
	require.NoError(t, err)
	assert.Equal(t, "i1", view.Issue.ID)
}
