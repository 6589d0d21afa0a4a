package repository

import (
	"context"
	"database/sql"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dormdesk/dormdesk-api/internal/models"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New(sqlmock.QueryMatcherOption(sqlmock.QueryMatcherRegexp))
	require.NoError(t, err)
	sqlxdb := sqlx.NewDb(db, "sqlmock")
	return sqlxdb, mock, func() {
		db.Close()
	}
}

func userRows(id, email string) *sqlmock.Rows {
	now := time.Now()
	hostel := "hostel-1"
	block := "block-1"
	room := "101"
	return sqlmock.NewRows([]string{"id", "email", "password_hash", "name", "role", "specialization", "hostel_id", "block_id", "room_id", "created_at", "updated_at"}).
		AddRow(id, email, "hash", "Asha", string(models.RoleStudent), nil, hostel, block, room, now, now)
}

func TestFindByEmail(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, email, password_hash, name, role, specialization, hostel_id, block_id, room_id, created_at, updated_at FROM users WHERE email = $1 LIMIT 1")).
		WithArgs("asha@example.com").
		WillReturnRows(userRows("u1", "asha@example.com"))

	user, err := repo.FindByEmail(context.Background(), "asha@example.com")
	require.NoError(t, err)
	assert.Equal(t, "asha@example.com", user.Email)
	assert.Equal(t, models.RoleStudent, user.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestFindByIDNotFound(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	mock.ExpectQuery("SELECT .* FROM users WHERE id").
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.FindByID(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListSummaries(t *testing.T) {
	db, mock, cleanup := newMock(t)
	defer cleanup()
	repo := NewUserRepository(db)

	rows := sqlmock.NewRows([]string{"id", "name"}).
		AddRow("u1", "Asha").
		AddRow("u2", "Bilal")
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, name FROM users ORDER BY name ASC")).
		WillReturnRows(rows)

	summaries, err := repo.ListSummaries(context.Background())
	require.NoError(t, err)
	require.Len(t, summaries, 2)
	assert.Equal(t, "Asha", summaries[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}
