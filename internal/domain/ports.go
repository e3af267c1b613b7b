package domain

import (
	"context"
	"math"
)

// ReviewStore is the read side the query service depends on.
type ReviewStore interface {
	Count(ctx context.Context) (int, error)
	// FindPage returns at most limit reviews starting at offset, newest first,
	// with User and Company populated.
	FindPage(ctx context.Context, offset, limit int) ([]Review, error)
}

// ReviewWriter is used by the seeder only.
type ReviewWriter interface {
	UpsertUsers(ctx context.Context, us []Reviewer) error
	UpsertCompanies(ctx context.Context, cs []Company) error
	UpsertReviews(ctx context.Context, rs []Review) error
}

// Read models & queries

// PageRequest is built per call from the query string. Limit is declared
// first so it is reported before Page.
type PageRequest struct {
	Limit int `validate:"min=1"`
	Page  int `validate:"min=1"`
}

// Offset is (Page-1)*Limit. ok is false when the product does not fit in an
// int; such a page lies past any store.
func (p PageRequest) Offset() (offset int, ok bool) {
	if p.Limit > 0 && p.Page-1 > math.MaxInt/p.Limit {
		return 0, false
	}
	return (p.Page - 1) * p.Limit, true
}

type PageResult struct {
	Items      []Review
	TotalCount int
}
