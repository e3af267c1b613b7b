package mysql_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mysqlrepo "company_reviews/internal/storage/mysql"
)

var pageColumns = []string{
	"r.id", "r.review_text", "r.rating", "r.created_on", "r.reviewer_id", "r.company_id",
	"u.id", "u.first_name", "u.last_name", "u.email", "c.id", "c.name",
}

var findPageQuery = regexp.QuoteMeta("ORDER BY r.created_on DESC, r.id DESC")

func newMock(t *testing.T) (*mysqlrepo.Repo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return mysqlrepo.New(db), mock
}

func TestRepo_FindPage_HugeLimit(t *testing.T) {
	for _, limit := range []int{1 << 50, 100_000_000, int(^uint(0) >> 1)} {
		repo, mock := newMock(t)
		mock.ExpectQuery(findPageQuery).
			WithArgs(int64(limit), int64(0)).
			WillReturnRows(sqlmock.NewRows(pageColumns))

		got, err := repo.FindPage(context.Background(), 0, limit)
		require.NoError(t, err, "limit=%d", limit)
		assert.Empty(t, got)
		require.NoError(t, mock.ExpectationsWereMet())
	}
}

func TestRepo_FindPage_ScansNullableColumns(t *testing.T) {
	repo, mock := newMock(t)
	ts := time.Date(2022, 1, 1, 12, 0, 0, 0, time.FixedZone("CET", 3600))
	mock.ExpectQuery(findPageQuery).
		WithArgs(int64(2), int64(4)).
		WillReturnRows(sqlmock.NewRows(pageColumns).
			AddRow("3", "Great place", 4.5, ts, "user-2", "company-1", "user-2", "Adam", "Smith", "user2@example.com", "company-1", "Test Company").
			AddRow("1", nil, 3.0, ts, "user-1", "company-1", "user-1", nil, nil, "user1@example.com", "company-1", "Test Company"))

	got, err := repo.FindPage(context.Background(), 4, 2)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Great place", *got[0].ReviewText)
	assert.Equal(t, "Adam", *got[0].User.FirstName)
	assert.Equal(t, "Test Company", got[0].Company.Name)
	assert.Equal(t, time.UTC, got[0].CreatedOn.Location())
	assert.True(t, got[0].CreatedOn.Equal(ts))

	assert.Nil(t, got[1].ReviewText)
	assert.Nil(t, got[1].User.FirstName)
	assert.Nil(t, got[1].User.LastName)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_FindPage_QueryError(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(findPageQuery).WillReturnError(errors.New("Lost connection to MySQL server"))

	_, err := repo.FindPage(context.Background(), 0, 10)
	require.Error(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestRepo_Count(t *testing.T) {
	repo, mock := newMock(t)
	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM reviews")).
		WillReturnRows(sqlmock.NewRows([]string{"COUNT(*)"}).AddRow(3))

	n, err := repo.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, n)
	require.NoError(t, mock.ExpectationsWereMet())
}
