package memory_test

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"company_reviews/internal/domain"
	"company_reviews/internal/storage/memory"
)

func day(y int, m time.Month, d int) time.Time { return time.Date(y, m, d, 0, 0, 0, 0, time.UTC) }

func ids(rs []domain.Review) []string {
	out := make([]string, len(rs))
	for i, r := range rs {
		out[i] = r.ID
	}
	return out
}

func TestStore_FindPage_OrdersAndJoins(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	first := "Adam"
	require.NoError(t, s.UpsertUsers(ctx, []domain.Reviewer{{ID: "u1", FirstName: &first, Email: "u1@example.com"}}))
	require.NoError(t, s.UpsertCompanies(ctx, []domain.Company{{ID: "c1", Name: "Acme"}}))
	require.NoError(t, s.UpsertReviews(ctx, []domain.Review{
		{ID: "a", CreatedOn: day(2021, 1, 1), ReviewerID: "u1", CompanyID: "c1"},
		{ID: "b", CreatedOn: day(2022, 1, 1), ReviewerID: "u1", CompanyID: "c1"},
		{ID: "c", CreatedOn: day(2021, 1, 1), ReviewerID: "u1", CompanyID: "c1"},
	}))

	got, err := s.FindPage(ctx, 0, 10)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
	assert.Equal(t, "Acme", got[0].Company.Name)
	assert.Equal(t, "Adam", got[0].User.DisplayName())

	got, err = s.FindPage(ctx, 1, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"c"}, ids(got))

	got, err = s.FindPage(ctx, 3, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestStore_FindPage_OutOfRangeWindows(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.UpsertReviews(ctx, []domain.Review{
		{ID: "a", CreatedOn: day(2021, 1, 1)},
		{ID: "b", CreatedOn: day(2022, 1, 1)},
	}))

	cases := []struct {
		offset, limit int
		want          []string
	}{
		{-4, 4, nil},
		{math.MinInt, 1, nil},
		{0, math.MaxInt, []string{"b", "a"}},
		{1, math.MaxInt, []string{"a"}},
		{math.MaxInt, math.MaxInt, nil},
		{0, 0, nil},
	}
	for _, tc := range cases {
		got, err := s.FindPage(ctx, tc.offset, tc.limit)
		require.NoError(t, err)
		if tc.want == nil {
			assert.Emptyf(t, got, "offset=%d limit=%d", tc.offset, tc.limit)
			continue
		}
		assert.Equalf(t, tc.want, ids(got), "offset=%d limit=%d", tc.offset, tc.limit)
	}
}

func TestStore_UpsertReviews_ReplacesByID(t *testing.T) {
	ctx := context.Background()
	s := memory.New()
	require.NoError(t, s.UpsertReviews(ctx, []domain.Review{{ID: "1", Rating: 2, CreatedOn: day(2020, 1, 1)}}))
	require.NoError(t, s.UpsertReviews(ctx, []domain.Review{{ID: "1", Rating: 4.5, CreatedOn: day(2020, 1, 1)}}))

	n, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.FindPage(ctx, 0, 1)
	require.NoError(t, err)
	assert.Equal(t, 4.5, got[0].Rating)
}
