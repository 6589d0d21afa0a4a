package repository

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

var issueRowColumns = []string{
	"id", "title", "description", "priority", "status", "visibility", "category_id", "reporter_id", "assignee_id",
	"hostel_id", "block_id", "room", "media_url", "is_duplicate", "merged_with",
	"created_at", "updated_at", "assigned_at", "resolved_at", "closed_at",
}

func issueRow(id string, status models.IssueStatus) []driver.Value {
	now := time.Now()
	return []driver.Value{
		id, "Leaky tap", "Water everywhere", string(models.IssuePriorityHigh), string(status), string(models.IssueVisibilityPublic),
		"cat-1", "u1", nil, "hostel-1", "block-1", "101", nil, false, nil, now, now, nil, nil, nil,
	}
}

func TestIssueGetByID(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	rows := sqlmock.NewRows(issueRowColumns).AddRow(issueRow("i1", models.IssueStatusReported)...)
	mock.ExpectQuery("SELECT .* FROM issues WHERE id").
		WithArgs("i1").
		WillReturnRows(rows)

	issue, err := repo.GetByID(context.Background(), "i1")
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusReported, issue.Status)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueCreateForcesReportedStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectExec("INSERT INTO issues").WillReturnResult(sqlmock.NewResult(1, 1))

	issue := &models.Issue{
		Title:       "Leaky tap",
		Description: "Water everywhere",
		Priority:    models.IssuePriorityHigh,
		Status:      models.IssueStatusResolved,
		Visibility:  models.IssueVisibilityPublic,
		CategoryID:  "cat-1",
		ReporterID:  "u1",
		HostelID:    "hostel-1",
		BlockID:     "block-1",
		Room:        "101",
	}
	err := repo.Create(context.Background(), issue)
	require.NoError(t, err)
	assert.Equal(t, models.IssueStatusReported, issue.Status)
	assert.NotEmpty(t, issue.ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueListFiltersByHostelNameAndUnresolved(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	detailColumns := append(append([]string{}, issueRowColumns...),
		"category_name", "reporter_name", "assignee_name", "hostel_name", "block_name", "upvote_count")
	row := append(issueRow("i1", models.IssueStatusReported), "Plumbing", "Asha", nil, "A", "North", 3)
	listRows := sqlmock.NewRows(detailColumns).AddRow(row...)

	mock.ExpectQuery(regexp.QuoteMeta("(i.hostel_id = $1 OR h.name = $1)")).
		WithArgs("A").
		WillReturnRows(listRows)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("A").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	issues, total, err := repo.List(context.Background(), models.IssueFilter{
		HostelID:       "A",
		UnresolvedOnly: true,
	})
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, 1, total)
	assert.Equal(t, 3, issues[0].UpvoteCount)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueListSortsPriorityByUrgencyRank(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	detailColumns := append(append([]string{}, issueRowColumns...),
		"category_name", "reporter_name", "assignee_name", "hostel_name", "block_name", "upvote_count")

	// EMERGENCY < HIGH lexicographically, so a raw column sort would bury
	// the most urgent issues
	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY CASE i.priority WHEN 'EMERGENCY' THEN 4 WHEN 'HIGH' THEN 3 WHEN 'MEDIUM' THEN 2 ELSE 1 END DESC")).
		WillReturnRows(sqlmock.NewRows(detailColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.IssueFilter{
		SortBy:    "priority",
		SortOrder: "desc",
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIssueListScopesPrivateForStudents(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	detailColumns := append(append([]string{}, issueRowColumns...),
		"category_name", "reporter_name", "assignee_name", "hostel_name", "block_name", "upvote_count")
	mock.ExpectQuery(regexp.QuoteMeta("(i.visibility = 'PUBLIC' OR i.reporter_id = $1)")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows(detailColumns))
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*)")).
		WithArgs("u1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	_, _, err := repo.List(context.Background(), models.IssueFilter{
		ViewerID:   "u1",
		ViewerRole: models.RoleStudent,
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestClaimIsASingleUpdate(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("UPDATE issues SET status = 'ASSIGNED', assignee_id = $2, assigned_at = $3, updated_at = $3 WHERE id = $1")).
		WithArgs("i1", "staff-1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := repo.Claim(context.Background(), "i1", "staff-1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveCommitsUpdateAndHistoryTogether(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM issues WHERE id = $1 FOR UPDATE")).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(models.IssueStatusInProgress)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE issues SET status = 'RESOLVED'")).
		WithArgs("i1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO issue_status_history").
		WithArgs(sqlmock.AnyArg(), "i1", string(models.IssueStatusInProgress), "staff-1", "Issue resolved", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Resolve(context.Background(), "i1", "staff-1", "Issue resolved")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveRollsBackWhenHistoryInsertFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM issues WHERE id = $1 FOR UPDATE")).
		WithArgs("i1").
		WillReturnRows(sqlmock.NewRows([]string{"status"}).AddRow(string(models.IssueStatusAssigned)))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE issues SET status = 'RESOLVED'")).
		WithArgs("i1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO issue_status_history").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Resolve(context.Background(), "i1", "staff-1", "done")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestResolveMissingIssueReturnsNoRows(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT status FROM issues WHERE id = $1 FOR UPDATE")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)
	mock.ExpectRollback()

	err := repo.Resolve(context.Background(), "missing", "staff-1", "done")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseRecordsPreImageStatus(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE issues SET status = 'CLOSED'")).
		WithArgs("i1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO issue_status_history").
		WithArgs(sqlmock.AnyArg(), "i1", string(models.IssueStatusInProgress), "u1", "Closed by reporter", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	err := repo.Close(context.Background(), "i1", models.IssueStatusInProgress, "u1")
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCloseRollsBackWhenHistoryInsertFails(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("UPDATE issues SET status = 'CLOSED'")).
		WithArgs("i1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO issue_status_history").
		WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := repo.Close(context.Background(), "i1", models.IssueStatusReported, "u1")
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleUpvoteRemovesExistingVote(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM upvotes WHERE issue_id = $1 AND user_id = $2")).
		WithArgs("i1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	upvoted, err := repo.ToggleUpvote(context.Background(), "i1", "u1")
	require.NoError(t, err)
	assert.False(t, upvoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestToggleUpvoteInsertsWhenAbsent(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM upvotes WHERE issue_id = $1 AND user_id = $2")).
		WithArgs("i1", "u1").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("INSERT INTO upvotes").
		WithArgs("i1", "u1", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	upvoted, err := repo.ToggleUpvote(context.Background(), "i1", "u1")
	require.NoError(t, err)
	assert.True(t, upvoted)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListHistoryOrdersOldestFirst(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewIssueRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{"id", "issue_id", "from_status", "to_status", "changed_by_id", "note", "created_at"}).
		AddRow("h1", "i1", string(models.IssueStatusInProgress), string(models.IssueStatusResolved), "staff-1", "Issue resolved", now)
	mock.ExpectQuery("SELECT .* FROM issue_status_history WHERE issue_id").
		WithArgs("i1").
		WillReturnRows(rows)

	history, err := repo.ListHistory(context.Background(), "i1")
	require.NoError(t, err)
	require.Len(t, history, 1)
	assert.Equal(t, models.IssueStatusResolved, history[0].ToStatus)
	assert.NoError(t, mock.ExpectationsWereMet())
}
